package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/display"
	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/httpclient"
	"github.com/joshuadavidthomas/liment/internal/logging"
	"github.com/joshuadavidthomas/liment/internal/provider"
	"github.com/joshuadavidthomas/liment/internal/provider/debug"
	"github.com/joshuadavidthomas/liment/internal/render"
	"github.com/joshuadavidthomas/liment/internal/spinner"
)

const (
	formatText = "text"
	formatLine = "line"
	formatJSON = "json"
	formatYAML = "yaml"
)

var statusFormats = []string{formatText, formatLine, formatJSON, formatYAML}

var statusOutput string

// buildProvider and now are seams for tests.
var (
	buildProvider = provider.New
	now           = time.Now
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Fetch usage once and print it",
	Long: "Fetch usage once and print it.\n\n" +
		"Formats: text (the tray menu), line (the tray tooltip, for status bars), json, yaml. " +
		"Exits non-zero when the fetch fails.",
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", formatText, "Output format: "+strings.Join(statusFormats, ", "))
}

func runStatus(cmd *cobra.Command, args []string) error {
	if !slices.Contains(statusFormats, statusOutput) {
		return fmt.Errorf("unknown output format %q (want one of %s)", statusOutput, strings.Join(statusFormats, ", "))
	}

	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	cfg := loadConfig(logger)

	p, err := newStatusProvider(cfg, logger)
	if err != nil {
		return err
	}

	start := now()
	var outcome fetch.Outcome
	work := func(ctx context.Context) { outcome = p.Fetch(ctx) }

	machine := statusOutput == formatJSON || statusOutput == formatYAML
	if spinner.ShouldShow(quiet, machine, !isTerminal()) {
		title := spinner.FormatTitle(p.Meta().Name)
		if err := spinner.Run(ctx, title, work, tea.WithOutput(os.Stderr)); err != nil {
			return err
		}
	} else {
		work(ctx)
	}
	logger.Debug("fetch complete", "provider", p.Meta().ID, "ok", outcome.OK(), "reason", outcome.Reason, "duration", now().Sub(start))

	if err := printStatus(p, cfg, outcome); err != nil {
		return err
	}
	if !outcome.OK() {
		if outcome.Err != nil {
			logger.Debug("fetch failed", "err", outcome.Err)
		}
		return errReported
	}
	return nil
}

func newStatusProvider(cfg config.Config, logger *log.Logger) (provider.Provider, error) {
	p, err := buildProvider(cfg, provider.Deps{
		Logger: logger,
		HTTP:   httpclient.NewFromConfig(cfg.FetchTimeout),
		Now:    now,
	})
	if err != nil {
		return nil, err
	}
	if debugCycle || cfg.Debug.Cycle {
		return debug.Wrap(p, debug.WithClock(now)), nil
	}
	return p, nil
}

func printStatus(p provider.Provider, cfg config.Config, outcome fetch.Outcome) error {
	switch statusOutput {
	case formatJSON:
		return display.OutputJSON(outWriter, display.NewReport(p.Meta().ID, outcome))
	case formatYAML:
		return display.OutputYAML(outWriter, display.NewReport(p.Meta().ID, outcome))
	}

	vm := render.Render(render.Input{
		Outcome: &outcome,
		Labels:  p.TrayLabels(),
		Display: cfg.Display(),
		Now:     now(),
	})
	if statusOutput == formatLine {
		outln(display.RenderLine(vm))
		return nil
	}
	out("%s", display.RenderStatus(vm, display.Options{
		Width:   display.TerminalWidth(os.Stdout),
		NoColor: noColor,
	}))
	return nil
}
