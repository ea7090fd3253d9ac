package shell

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"UUIDRenamer/internal/engine"
	"UUIDRenamer/internal/resolve"
)

const (
	statusBusy   = "Rename already in progress"
	recentLimit  = 5
	failureLimit = 20
)

// URIHandle is a dropped fyne.URI. Only file URIs resolve.
type URIHandle struct {
	URI fyne.URI
}

func (h URIHandle) ResolvePath(context.Context) (string, error) {
	if h.URI == nil || h.URI.Scheme() != "file" {
		return "", resolve.ErrUnresolvable
	}
	return h.URI.Path(), nil
}

// Window is the drop target: drop files or folders anywhere on it and they
// are renamed by the engine while a progress bar tracks the batch.
type Window struct {
	win fyne.Window
	eng *engine.Engine
	log zerolog.Logger

	status   *widget.Label
	current  *widget.Label
	progress *widget.ProgressBar
	recent   *widget.Label
	details  *widget.Button

	last engine.BatchResult
}

// NewWindow builds the window on app. Call ShowAndRun to display it.
func NewWindow(app fyne.App, eng *engine.Engine, log zerolog.Logger) *Window {
	w := &Window{
		win: app.NewWindow("UUID Renamer"),
		eng: eng,
		log: log,
	}
	w.win.Resize(fyne.NewSize(380, 360))

	/* -------------------- Drop area -------------------- */

	frame := canvas.NewRectangle(color.Transparent)
	frame.StrokeColor = theme.Color(theme.ColorNameDisabled)
	frame.StrokeWidth = 3
	frame.CornerRadius = 16
	frame.SetMinSize(fyne.NewSize(320, 220))

	hint := container.NewVBox(
		widget.NewIcon(theme.DownloadIcon()),
		widget.NewLabelWithStyle("Drop Files Here", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("They'll be renamed to a UUID (extension preserved).", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
	)
	dropArea := container.NewStack(frame, container.NewCenter(hint))

	/* -------------------- Status / progress -------------------- */

	w.status = widget.NewLabel(engine.StatusReady)
	w.status.Alignment = fyne.TextAlignCenter
	w.status.Wrapping = fyne.TextWrapWord

	w.progress = widget.NewProgressBar()
	w.progress.Hide()

	w.current = widget.NewLabel("")
	w.current.Alignment = fyne.TextAlignCenter
	w.current.Truncation = fyne.TextTruncateEllipsis

	w.recent = widget.NewLabel("")
	w.recent.Alignment = fyne.TextAlignCenter

	w.details = widget.NewButtonWithIcon("Failures…", theme.WarningIcon(), w.showFailures)
	w.details.Hide()

	w.win.SetContent(container.NewPadded(container.NewVBox(
		dropArea,
		w.status,
		w.progress,
		w.current,
		w.recent,
		container.NewCenter(w.details),
	)))

	w.win.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		w.Drop(uris)
	})
	return w
}

// ShowAndRun shows the window and runs the app's event loop.
func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}

// Drop starts a batch for uris. It reports false when nothing was dropped.
func (w *Window) Drop(uris []fyne.URI) bool {
	if len(uris) == 0 {
		return false
	}
	handles := make([]resolve.Handle, len(uris))
	for i, u := range uris {
		handles[i] = URIHandle{URI: u}
	}

	if w.eng.State() == engine.StateIdle {
		w.details.Hide()
		w.recent.SetText("")
	}

	err := w.eng.Start(context.Background(), handles, engine.ObserverFuncs{
		OnProgress: func(p engine.Progress) { fyne.Do(func() { w.onProgress(p) }) },
		OnFinish:   func(r engine.BatchResult) { fyne.Do(func() { w.onFinish(r) }) },
	})
	if err != nil {
		w.log.Info().Err(err).Int("items", len(uris)).Msg("drop ignored")
		w.status.SetText(statusBusy)
	}
	return true
}

func (w *Window) onProgress(p engine.Progress) {
	if p.Completed == 1 {
		w.status.SetText(fmt.Sprintf("Renaming %d item(s)", p.Total))
		w.progress.Max = float64(p.Total)
		w.progress.Show()
	}
	w.progress.SetValue(float64(p.Completed))
	w.current.SetText(p.Current)
}

func (w *Window) onFinish(r engine.BatchResult) {
	w.last = r
	w.progress.Hide()
	w.progress.SetValue(0)
	w.current.SetText("")
	w.status.SetText(r.Status)

	names := r.SucceededNames()
	if len(names) == 0 {
		w.recent.SetText("")
	} else {
		w.recent.SetText("Last renamed:\n" + strings.Join(firstN(names, recentLimit), "\n"))
	}

	if len(r.Failed) > 0 {
		w.details.Show()
	} else {
		w.details.Hide()
	}
}

func (w *Window) showFailures() {
	var b strings.Builder
	for _, f := range firstN(w.last.Failed, failureLimit) {
		b.WriteString(fmt.Sprintf(" - %s: %v\n", f.Name, f.Err))
	}
	if n := len(w.last.Failed) - failureLimit; n > 0 {
		b.WriteString(fmt.Sprintf(" ... and %d more\n", n))
	}
	dialog.ShowInformation("Rename failures", b.String(), w.win)
}

func firstN[T any](in []T, n int) []T {
	if len(in) <= n {
		return in
	}
	return in[:n]
}
