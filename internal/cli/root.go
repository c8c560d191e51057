// Package cli is the liment command line: the tray and terminal front ends
// plus one-shot status, token and config commands.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/logging"
)

// version is injected at build time via -ldflags.
var version = "dev"

var (
	jsonLogs   bool
	noColor    bool
	verbose    bool
	quiet      bool
	configPath string
	debugCycle bool
)

// errReported marks a failure whose details were already printed, so
// ExecuteContext only sets the exit status.
var errReported = errors.New("reported")

// closeLog closes the per-run log file opened by PersistentPreRun.
var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "liment",
	Short: "Show Claude usage limits in the system tray",
	Long: "liment polls your Claude subscription usage and shows the 5-hour and 7-day limits " +
		"in the system tray. Run without a subcommand to start the tray.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose && quiet {
			verbose = false
		}
		dotenvErr := config.LoadDotEnv(configFilePath())

		l, closer := newConfiguredLogger(cmd)
		closeLog = closer
		if dotenvErr != nil {
			l.Warn("could not read .env file", "err", dotenvErr)
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), l))
	},
	Annotations: map[string]string{annotationDiskLog: "true"},
	RunE:        runDefault,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is $XDG_CONFIG_HOME/liment/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debugCycle, "debug-cycle", false, "Replace live usage with a synthetic cycle for UI testing")
	rootCmd.Flags().Bool("version", false, "Show version and exit")

	rootCmd.AddCommand(trayCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(configCmd)
}

// ExecuteContext runs the root command with the given context.
// Commands access it via cmd.Context().
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	_ = closeLog()
	if err != nil && !errors.Is(err, errReported) {
		errln("Error:", err)
	}
	return err
}

func runDefault(cmd *cobra.Command, args []string) error {
	if v, _ := cmd.Flags().GetBool("version"); v {
		out("liment %s\n", version)
		return nil
	}
	return runTray(cmd, args)
}

func configFilePath() string {
	if configPath != "" {
		return configPath
	}
	return config.ConfigFile()
}

// loadConfig reads the config file. A malformed file is logged and the
// defaults are used, matching what the tray shows on startup.
func loadConfig(l *log.Logger) config.Config {
	path := configFilePath()
	cfg, err := config.Load(path)
	if err != nil {
		l.Warn("config file is invalid, using defaults", "path", path, "err", err)
	}
	return cfg
}

// isTerminal reports whether stdout is a terminal. Tests replace it.
var isTerminal = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
