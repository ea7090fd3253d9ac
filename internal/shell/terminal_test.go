package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"UUIDRenamer/internal/engine"
)

func TestProgressModel_Update(t *testing.T) {
	var m tea.Model = newProgressModel()
	assert.Contains(t, m.View(), "Collecting files")

	m, cmd := m.Update(progressMsg{Completed: 1, Total: 3, Current: "a.txt"})
	assert.Nil(t, cmd)
	m, _ = m.Update(progressMsg{Completed: 2, Total: 3, Current: "b.txt", Err: errors.New("denied")})

	view := m.View()
	assert.Contains(t, view, "2/3")
	assert.Contains(t, view, "b.txt")
	assert.Contains(t, view, "(1 failed)")

	m, cmd = m.Update(finishMsg{Status: "Renamed 2 file(s), 1 failed"})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestProgressModel_WindowSize(t *testing.T) {
	var m tea.Model = newProgressModel()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Equal(t, 60, m.(progressModel).bar.Width)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 20, Height: 40})
	assert.Equal(t, 10, m.(progressModel).bar.Width)
}

func TestRunTerminal_Plain(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/a.txt", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/in/b.txt", nil, 0o644))
	eng := engine.New(engine.Options{Fs: fs, Log: zerolog.Nop()})

	var out, logs bytes.Buffer
	res, err := RunTerminal(context.Background(), eng, []string{"/in"}, &out, false, zerolog.New(&logs))
	require.NoError(t, err)

	assert.Len(t, res.Succeeded, 2)
	assert.Contains(t, out.String(), "Renamed 2 file(s)")
	assert.Contains(t, out.String(), "a.txt -> ")
	assert.Equal(t, 2, strings.Count(logs.String(), `"message":"progress"`))
}

func TestRunTerminal_Busy(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/a.txt", nil, 0o644))
	eng := engine.New(engine.Options{Fs: fs, Log: zerolog.Nop()})

	release := make(chan struct{})
	entered := make(chan struct{})
	done := make(chan struct{})
	require.NoError(t, eng.Start(context.Background(), nil, engine.ObserverFuncs{
		OnFinish: func(engine.BatchResult) {
			close(entered)
			<-release
			close(done)
		},
	}))
	<-entered

	_, err := RunTerminal(context.Background(), eng, []string{"/in"}, &bytes.Buffer{}, false, zerolog.Nop())
	assert.ErrorIs(t, err, engine.ErrBusy)
	close(release)
	<-done
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	r := engine.BatchResult{
		Succeeded: []engine.Renamed{
			{Name: "1.txt", To: "/d/A.txt"}, {Name: "2.txt", To: "/d/B.txt"}, {Name: "3.txt", To: "/d/C.txt"},
			{Name: "4.txt", To: "/d/D.txt"}, {Name: "5.txt", To: "/d/E.txt"}, {Name: "6.txt", To: "/d/F.txt"},
		},
		Failed: []engine.Failure{{Name: "locked.txt", Err: os.ErrPermission}},
		Status: "Renamed 6 file(s), 1 failed",
	}
	PrintSummary(&out, r)

	s := out.String()
	assert.Contains(t, s, "Renamed 6 file(s), 1 failed")
	assert.Contains(t, s, "1.txt -> A.txt")
	assert.NotContains(t, s, "6.txt -> F.txt")
	assert.Contains(t, s, "... and 1 more")
	assert.Contains(t, s, "locked.txt: permission denied")
}

func TestPrintSummary_NoFiles(t *testing.T) {
	var out bytes.Buffer
	PrintSummary(&out, engine.BatchResult{NoFiles: true, Status: engine.StatusNoFiles})
	assert.Contains(t, out.String(), engine.StatusNoFiles)
	assert.NotContains(t, out.String(), "Failed:")
}
