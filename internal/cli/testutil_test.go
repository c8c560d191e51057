package cli

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/logging"
	"github.com/joshuadavidthomas/liment/internal/models"
	"github.com/joshuadavidthomas/liment/internal/provider"
)

var testNow = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func newVerboseContext(logBuf *bytes.Buffer) context.Context {
	l := logging.NewLogger(logBuf)
	logging.Configure(l, logging.Flags{Verbose: true})
	return logging.WithLogger(context.Background(), l)
}

func newDefaultContext(logBuf *bytes.Buffer) context.Context {
	l := logging.NewLogger(logBuf)
	logging.Configure(l, logging.Flags{})
	return logging.WithLogger(context.Background(), l)
}

// setupCLI isolates config, captures command output, and restores every
// package-level flag and seam when the test ends. It returns the isolated
// config path and the captured stdout.
func setupCLI(t *testing.T) (string, *bytes.Buffer) {
	t.Helper()
	path := config.Isolate(t)
	t.Setenv("LIMENT_OVERRIDE_LOG_DIR", t.TempDir())
	// Setup only checks presence, so unset rather than empty.
	for _, v := range []string{logging.EnvNoLogs, logging.EnvNoDiskLogs} {
		t.Setenv(v, "")
		_ = os.Unsetenv(v)
	}

	var buf bytes.Buffer
	outWriter = &buf

	oldBuild, oldNow, oldOpen, oldStore, oldTTY := buildProvider, now, openFile, newTokenStore, isTerminal
	now = func() time.Time { return testNow }
	isTerminal = func() bool { return false }

	t.Cleanup(func() {
		outWriter = os.Stdout
		errWriter = os.Stderr
		logStderr = os.Stderr
		buildProvider, now, openFile, newTokenStore, isTerminal = oldBuild, oldNow, oldOpen, oldStore, oldTTY
		jsonLogs, noColor, verbose, quiet = false, false, false, false
		configPath, debugCycle = "", false
		statusOutput = formatText
		configShowFormat, configShowReveal = "toml", false
		configInitYes, configResetYes = false, false
		rootCmd.SetArgs(nil)
	})
	return path, &buf
}

type stubProvider struct {
	id      string
	outcome fetch.Outcome
	calls   int
}

func (p *stubProvider) Meta() provider.Metadata  { return provider.Metadata{ID: p.id, Name: "Stub"} }
func (p *stubProvider) Tiers() []models.TierInfo { return []models.TierInfo{{Name: "Pro"}} }
func (p *stubProvider) TrayLabels() [2]string    { return [2]string{"5h ..", "7d .."} }
func (p *stubProvider) Fetch(context.Context) fetch.Outcome {
	p.calls++
	return p.outcome
}

// useProvider makes every command build p.
func useProvider(p provider.Provider) {
	buildProvider = func(config.Config, provider.Deps) (provider.Provider, error) { return p, nil }
}

func snapshotOutcome() fetch.Outcome {
	fiveHour := testNow.Add(90 * time.Minute)
	week := testNow.Add(50 * time.Hour)
	return fetch.Success(models.NewUsageSnapshot(
		&models.TierInfo{Name: "Max 5x", Color: models.RGB{R: 217, G: 89, B: 140}},
		nil,
		[]models.UsageWindow{
			models.NewUsageWindow("5h Limit", "5h", 42, &fiveHour, 5*time.Hour),
			models.NewUsageWindow("7d Limit", "7d", 13, &week, 7*24*time.Hour),
		},
		testNow,
	))
}
