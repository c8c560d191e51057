package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/liment/internal/app"
	"github.com/joshuadavidthomas/liment/internal/logging"
	"github.com/joshuadavidthomas/liment/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show live usage in the terminal",
	Args:  cobra.NoArgs,
	Annotations: map[string]string{
		annotationDiskLog:      "true",
		annotationOwnsTerminal: "true",
	},
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	ad := tui.New(tea.WithAltScreen())
	a, err := app.New(loadConfig(logger), ad, appOptions(logger))
	if err != nil {
		return err
	}
	return ad.Run(ctx, a)
}
