// Package logging builds the charm loggers liment writes to. Loggers go to
// stderr, optionally teed into a per-run file (see Setup), and travel
// through contexts with a component prefix.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Flags are the command-line switches that shape a logger.
type Flags struct {
	Verbose bool
	Quiet   bool
	NoColor bool
	JSON    bool
}

// Level is the level f selects. Quiet wins over Verbose.
func (f Flags) Level() log.Level {
	switch {
	case f.Quiet:
		return log.ErrorLevel
	case f.Verbose:
		return log.DebugLevel
	}
	return log.WarnLevel
}

// NewLogger returns a timestamped WarnLevel logger writing to w.
func NewLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           log.WarnLevel,
		ReportTimestamp: true,
	})
}

// Configure applies f to l.
func Configure(l *log.Logger, f Flags) {
	l.SetLevel(f.Level())
	if f.NoColor {
		l.SetColorProfile(termenv.Ascii)
	}
	if f.JSON {
		l.SetFormatter(log.JSONFormatter)
	}
}

// plain reports whether output to w must stay free of ANSI codes: anything
// that is not a terminal, and any stream teed into a log file.
func plain(w io.Writer, teed bool) bool {
	if teed {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

type loggerKey struct{}

// discard is handed out when a context carries no logger.
var discard = NewLogger(io.Discard)

// WithLogger attaches l to ctx.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger attached by WithLogger, or a silent
// WarnLevel logger when there is none.
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && l != nil {
		return l
	}
	return discard
}

// Named returns the context logger prefixed with component.
func Named(ctx context.Context, component string) *log.Logger {
	return FromContext(ctx).WithPrefix(component)
}
