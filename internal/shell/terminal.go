package shell

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"UUIDRenamer/internal/engine"
	"UUIDRenamer/internal/resolve"
)

var (
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// progressMsg and finishMsg carry engine events into the bubbletea loop.
type progressMsg engine.Progress

type finishMsg engine.BatchResult

// progressModel renders a single batch as a progress bar with the file
// currently being renamed.
type progressModel struct {
	bar       progress.Model
	completed int
	total     int
	failed    int
	current   string
	done      bool
}

func newProgressModel() progressModel {
	return progressModel{
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.completed = msg.Completed
		m.total = msg.Total
		m.current = msg.Current
		if msg.Err != nil {
			m.failed++
		}
		return m, nil
	case finishMsg:
		m.done = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-30, 10), 60)
		return m, nil
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	if m.total == 0 {
		return dimStyle.Render("Collecting files…") + "\n"
	}
	pct := float64(m.completed) / float64(m.total)
	line := fmt.Sprintf("%s %d/%d", m.bar.ViewAs(pct), m.completed, m.total)
	if m.failed > 0 {
		line += " " + failStyle.Render(fmt.Sprintf("(%d failed)", m.failed))
	}
	return line + "\n" + dimStyle.Render(m.current) + "\n"
}

// RunTerminal renames paths without a window. With interactive set it draws
// a live progress bar on out; otherwise each attempt is logged. The summary
// and any failed names are printed to out at the end.
func RunTerminal(ctx context.Context, eng *engine.Engine, paths []string, out io.Writer, interactive bool, log zerolog.Logger) (engine.BatchResult, error) {
	handles := make([]resolve.Handle, len(paths))
	for i, p := range paths {
		handles[i] = resolve.Path(p)
	}

	var res engine.BatchResult
	if interactive {
		r, err := runWithProgressBar(ctx, eng, handles, out, log)
		if err != nil {
			return r, err
		}
		res = r
	} else {
		r, err := eng.Run(ctx, handles, engine.ObserverFuncs{
			OnProgress: func(p engine.Progress) {
				ev := log.Info()
				if p.Err != nil {
					ev = log.Warn().Err(p.Err)
				}
				ev.Int("done", p.Completed).Int("total", p.Total).Str("file", p.Current).Msg("progress")
			},
		})
		if err != nil {
			return r, err
		}
		res = r
	}

	PrintSummary(out, res)
	return res, nil
}

func runWithProgressBar(ctx context.Context, eng *engine.Engine, handles []resolve.Handle, out io.Writer, log zerolog.Logger) (engine.BatchResult, error) {
	done := make(chan engine.BatchResult, 1)
	p := tea.NewProgram(newProgressModel(), tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))

	err := eng.Start(ctx, handles, engine.ObserverFuncs{
		OnProgress: func(pr engine.Progress) { p.Send(progressMsg(pr)) },
		OnFinish: func(r engine.BatchResult) {
			done <- r
			p.Send(finishMsg(r))
		},
	})
	if err != nil {
		return engine.BatchResult{}, err
	}

	if _, err := p.Run(); err != nil {
		// The display stopped early (interrupt); the batch itself still
		// runs to completion.
		log.Debug().Err(err).Msg("progress display stopped")
	}
	return <-done, nil
}

// PrintSummary writes the batch status line, the first renamed names, and
// every failed name with its error.
func PrintSummary(out io.Writer, r engine.BatchResult) {
	style := okStyle
	if len(r.Failed) > 0 || r.NoFiles {
		style = failStyle
	}
	fmt.Fprintln(out, style.Render(r.Status))

	if names := r.SucceededNames(); len(names) > 0 {
		fmt.Fprintln(out, headerStyle.Render("Last renamed:"))
		for _, s := range firstN(r.Succeeded, recentLimit) {
			fmt.Fprintf(out, "  %s -> %s\n", s.Name, filepath.Base(s.To))
		}
		if n := len(names) - recentLimit; n > 0 {
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  ... and %d more", n)))
		}
	}
	if len(r.Failed) > 0 {
		fmt.Fprintln(out, headerStyle.Render("Failed:"))
		for _, f := range r.Failed {
			fmt.Fprintf(out, "  %s: %v\n", f.Name, f.Err)
		}
	}
}
