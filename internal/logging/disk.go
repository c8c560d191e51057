package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

const (
	// EnvNoLogs disables logging entirely.
	EnvNoLogs = "LIMENT_NO_LOGS"
	// EnvNoDiskLogs keeps logging on stderr but skips the per-run file.
	EnvNoDiskLogs = "LIMENT_NO_DISK_LOGS"
)

// FileLayout names a per-run log file after the time the process started.
const FileLayout = "2006_01_02T15_04_05"

// Options controls Setup.
type Options struct {
	Flags Flags
	// Stderr is the terminal stream. Defaults to os.Stderr.
	Stderr io.Writer
	// Dir receives the per-run log file. Empty disables disk logging.
	Dir string
	Now time.Time
}

// Setup builds the process logger: stderr, plus a per-run file under Dir
// unless disabled by environment. The returned close func must be called on
// exit. A file that cannot be created is reported in err while the logger
// still writes to stderr.
func Setup(opts Options) (l *log.Logger, closeFn func() error, err error) {
	closeFn = func() error { return nil }
	if _, off := os.LookupEnv(EnvNoLogs); off {
		return NewLogger(io.Discard), closeFn, nil
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var w io.Writer = stderr
	var file *os.File
	if _, off := os.LookupEnv(EnvNoDiskLogs); !off && opts.Dir != "" {
		file, err = openRunLog(opts.Dir, opts.Now)
		if err == nil {
			w = io.MultiWriter(stderr, file)
			closeFn = file.Close
		}
	}

	l = NewLogger(w)
	Configure(l, opts.Flags)
	if plain(stderr, file != nil) {
		l.SetColorProfile(termenv.Ascii)
	}
	if file != nil {
		l.Debug("logging to file", "path", file.Name())
	}
	return l, closeFn, err
}

func openRunLog(dir string, now time.Time) (*os.File, error) {
	if now.IsZero() {
		now = time.Now()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	path := filepath.Join(dir, now.Format(FileLayout)+".log")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}
	return f, nil
}
