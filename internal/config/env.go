package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDisplayMode     = "LIMENT_DISPLAY_MODE"
	EnvResetTimeFormat = "LIMENT_RESET_TIME_FORMAT"
	EnvRefetchInterval = "LIMENT_REFETCH_INTERVAL"
	EnvProvider        = "LIMENT_PROVIDER"
	EnvMonochromeIcon  = "LIMENT_MONOCHROME_ICON"
)

// DotEnvFile is the optional env file that sits next to config.toml.
func DotEnvFile(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), ".env")
}

// LoadDotEnv exports the variables in the config directory's .env file into
// the process environment. Variables already set are left alone. A missing
// file is not an error.
func LoadDotEnv(configPath string) error {
	err := godotenv.Load(DotEnvFile(configPath))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// dotenvFor reads the .env file without touching the process environment so
// each reload sees its current contents.
func dotenvFor(configPath string) map[string]string {
	m, err := godotenv.Read(DotEnvFile(configPath))
	if err != nil {
		return nil
	}
	return m
}

// lookup prefers the real environment over the .env file.
func lookup(dotenv map[string]string, key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	if v, ok := dotenv[key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	return "", false
}

// applyEnvOverrides layers LIMENT_* variables over cfg. Values that do not
// parse are ignored.
func applyEnvOverrides(cfg Config, dotenv map[string]string) Config {
	if v, ok := lookup(dotenv, EnvDisplayMode); ok {
		var m DisplayMode
		if m.UnmarshalText([]byte(v)) == nil {
			cfg.DisplayMode = m
		}
	}
	if v, ok := lookup(dotenv, EnvResetTimeFormat); ok {
		var f ResetTimeFormat
		if f.UnmarshalText([]byte(v)) == nil {
			cfg.ResetTimeFormat = f
		}
	}
	if v, ok := lookup(dotenv, EnvRefetchInterval); ok {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.RefetchInterval = uint(n)
		}
	}
	if v, ok := lookup(dotenv, EnvProvider); ok {
		cfg.Provider = v
	}
	if v, ok := lookup(dotenv, EnvMonochromeIcon); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MonochromeIcon = b
		}
	}
	return cfg
}
