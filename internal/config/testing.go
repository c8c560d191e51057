package config

import (
	"os"
	"path/filepath"
	"testing"
)

// testEnvVars are cleared by Isolate so the host environment cannot leak
// into tests.
var testEnvVars = []string{
	EnvDisplayMode,
	EnvResetTimeFormat,
	EnvRefetchInterval,
	EnvProvider,
	EnvMonochromeIcon,
	"LIMENT_TOKEN",
}

// Isolate points LIMENT_CONFIG_DIR at a fresh temp dir, clears every
// override variable, and returns the config file path inside it.
func Isolate(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LIMENT_CONFIG_DIR", dir)
	for _, v := range testEnvVars {
		t.Setenv(v, "")
	}
	return filepath.Join(dir, "config.toml")
}

// WriteTestFile writes body to path, creating parent directories.
func WriteTestFile(t testing.TB, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%s): %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}
