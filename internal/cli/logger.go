package cli

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/logging"
)

const (
	// annotationDiskLog marks long-running commands that keep a per-run
	// log file.
	annotationDiskLog = "liment/disk-log"
	// annotationOwnsTerminal marks commands that draw on the terminal, so
	// logs must not go to stderr.
	annotationOwnsTerminal = "liment/owns-terminal"
)

// logStderr is the terminal log stream. Tests can replace it.
var logStderr io.Writer = os.Stderr

// newConfiguredLogger creates a new logger configured based on CLI flags
// and the command's annotations. The returned func closes the log file.
func newConfiguredLogger(cmd *cobra.Command) (*log.Logger, func() error) {
	opts := logging.Options{
		Flags: logging.Flags{
			Verbose: verbose,
			Quiet:   quiet,
			NoColor: noColor,
			JSON:    jsonLogs,
		},
		Stderr: logStderr,
		Now:    time.Now(),
	}
	if cmd.Annotations[annotationDiskLog] != "" {
		opts.Dir = config.LogDir()
	}
	if cmd.Annotations[annotationOwnsTerminal] != "" {
		opts.Stderr = io.Discard
	}

	l, closeFn, err := logging.Setup(opts)
	if err != nil {
		l.Warn("could not open log file, logging to stderr only", "err", err)
	}
	return l, closeFn
}
