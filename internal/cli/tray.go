package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/liment/internal/app"
	"github.com/joshuadavidthomas/liment/internal/logging"
	"github.com/joshuadavidthomas/liment/internal/tray"
)

var trayCmd = &cobra.Command{
	Use:         "tray",
	Short:       "Run the system tray app (default)",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationDiskLog: "true"},
	RunE:        runTray,
}

func runTray(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	ad := tray.New(logging.Named(ctx, "tray"))
	a, err := app.New(loadConfig(logger), ad, appOptions(logger))
	if err != nil {
		return err
	}
	logger.Info("starting tray", "version", version, "config", configFilePath())
	return ad.Run(ctx, a)
}

// appOptions are shared by the long-running front ends.
func appOptions(logger *log.Logger) app.Options {
	return app.Options{
		ConfigPath: configFilePath(),
		DebugCycle: debugCycle,
		Logger:     logger,
		Watch:      true,
	}
}
