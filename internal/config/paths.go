package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "liment"

func ConfigDir() string {
	if v := os.Getenv("LIMENT_CONFIG_DIR"); v != "" {
		return v
	}
	return filepath.Join(xdg.ConfigHome, appName)
}

func ConfigFile() string { return filepath.Join(ConfigDir(), "config.toml") }

// LogDir is where per-run log files go.
func LogDir() string {
	if v := os.Getenv("LIMENT_OVERRIDE_LOG_DIR"); v != "" {
		return v
	}
	return filepath.Join(xdg.DataHome, appName)
}

func writeAtomic(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
