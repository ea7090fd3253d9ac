// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"UUIDRenamer/internal/config"
)

// Logger wraps a zerolog.Logger together with the optional log file it
// writes to. Call Close when done if LogFile was set.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New builds a logger writing to stderr (console or JSON per cfg.LogFormat)
// and, when cfg.LogFile is set, appending plain JSON lines to that file.
func New(cfg *config.Config) (*Logger, error) {
	return newWithWriter(cfg, os.Stderr)
}

func newWithWriter(cfg *config.Config, stderr io.Writer) (*Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = stderr
	if cfg.LogFormat == config.LogConsole {
		out = zerolog.ConsoleWriter{
			Out:        stderr,
			TimeFormat: time.DateTime,
			NoColor:    !IsTerminal(stderr) || os.Getenv("NO_COLOR") != "",
		}
	}

	l := &Logger{}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		out = zerolog.MultiLevelWriter(out, f)
	}

	l.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// IsTerminal reports whether w is an *os.File backed by a character device.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
