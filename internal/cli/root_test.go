package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/liment/internal/fetch"
)

func TestRootCmd_HasExpectedSubcommands(t *testing.T) {
	expected := []string{"tray", "tui", "status", "token", "config"}
	for _, name := range expected {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("rootCmd missing expected subcommand %q", name)
		}
	}
}

func TestConfigCmd_HasExpectedSubcommands(t *testing.T) {
	expected := map[string]bool{"path": false, "show": false, "edit": false, "reset": false, "init": false}
	for _, cmd := range configCmd.Commands() {
		if _, ok := expected[cmd.Name()]; ok {
			expected[cmd.Name()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("configCmd missing subcommand %q", name)
		}
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "quiet", "no-color", "json", "config", "debug-cycle"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
	if rootCmd.Flags().Lookup("version") == nil {
		t.Error("missing --version flag")
	}
}

func TestExecute_Version(t *testing.T) {
	_, buf := setupCLI(t)
	var logBuf bytes.Buffer
	logStderr = &logBuf
	t.Cleanup(func() { _ = rootCmd.Flags().Set("version", "false") })

	rootCmd.SetArgs([]string{"--version"})
	if err := ExecuteContext(context.Background()); err != nil {
		t.Fatalf("ExecuteContext() error = %v", err)
	}
	if got := buf.String(); got != "liment dev\n" {
		t.Errorf("output = %q", got)
	}
}

func TestExecute_PrintsErrors(t *testing.T) {
	_, _ = setupCLI(t)
	var errBuf, logBuf bytes.Buffer
	errWriter = &errBuf
	logStderr = &logBuf

	rootCmd.SetArgs([]string{"status", "-o", "xml"})
	if err := ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(errBuf.String(), "Error: unknown output format") {
		t.Errorf("stderr = %q", errBuf.String())
	}
}

func TestExecute_ReportedFailureIsNotRepeated(t *testing.T) {
	_, buf := setupCLI(t)
	useProvider(&stubProvider{id: "claude_code", outcome: fetch.Failure(fetch.TransportError, nil)})
	var errBuf, logBuf bytes.Buffer
	errWriter = &errBuf
	logStderr = &logBuf

	rootCmd.SetArgs([]string{"status", "-o", "line"})
	err := ExecuteContext(context.Background())
	if !errors.Is(err, errReported) {
		t.Fatalf("error = %v, want errReported", err)
	}
	if errBuf.Len() != 0 {
		t.Errorf("stderr = %q, want empty", errBuf.String())
	}
	if !strings.Contains(buf.String(), fetch.TransportError.Message()) {
		t.Errorf("stdout = %q", buf.String())
	}
}

func TestExecute_ConfigFlagOverridesPath(t *testing.T) {
	_, buf := setupCLI(t)
	var logBuf bytes.Buffer
	logStderr = &logBuf
	custom := t.TempDir() + "/custom.toml"

	rootCmd.SetArgs([]string{"config", "path", "-q", "--config", custom})
	if err := ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != custom {
		t.Errorf("path = %q, want %q", got, custom)
	}
}

func TestExecute_VerboseAndQuietPrefersQuiet(t *testing.T) {
	_, _ = setupCLI(t)
	var logBuf bytes.Buffer
	logStderr = &logBuf

	rootCmd.SetArgs([]string{"config", "path", "-v", "-q"})
	if err := ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if verbose {
		t.Error("quiet should win over verbose")
	}
}

func TestLongRunningCommandsKeepRunLogs(t *testing.T) {
	for _, cmd := range []*cobra.Command{rootCmd, trayCmd, tuiCmd} {
		if cmd.Annotations[annotationDiskLog] == "" {
			t.Errorf("%s should write a run log", cmd.Name())
		}
	}
	if tuiCmd.Annotations[annotationOwnsTerminal] == "" {
		t.Error("tui draws on the terminal and must keep logs off stderr")
	}
	for _, cmd := range []*cobra.Command{statusCmd, tokenCmd, configShowCmd} {
		if cmd.Annotations[annotationDiskLog] != "" {
			t.Errorf("%s is one-shot and should not write a run log", cmd.Name())
		}
	}
}

func TestAppOptions(t *testing.T) {
	setupCLI(t)
	configPath = "/tmp/liment-test.toml"
	debugCycle = true

	opts := appOptions(nil)
	if opts.ConfigPath != configPath || !opts.DebugCycle || !opts.Watch {
		t.Errorf("opts = %+v", opts)
	}
}
