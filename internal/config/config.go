package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalid wraps every parse or validation failure so callers can tell a
// bad config file apart from an I/O problem.
var ErrInvalid = errors.New("invalid config")

const (
	ProviderClaudeCode = "claude_code"
	ProviderCliproxy   = "cliproxy_claude"
)

// Providers lists the provider kinds that can be selected.
var Providers = []string{ProviderClaudeCode, ProviderCliproxy}

// MinRefetchInterval keeps a typo from hammering the usage API.
const MinRefetchInterval = 5

// DisplayConfig is the presentation subset of the config. It is a value
// type and is replaced wholesale on reload.
type DisplayConfig struct {
	DisplayMode          DisplayMode
	ShowPeriodPercentage bool
	ResetTimeFormat      ResetTimeFormat
	MonochromeIcon       bool
	RefetchInterval      time.Duration
}

type ClaudeCodeConfig struct {
	Token string `toml:"token,omitempty" json:"token,omitempty" yaml:"token,omitempty"`
}

type CliproxyConfig struct {
	BaseURL         string `toml:"base_url" json:"base_url" yaml:"base_url"`
	ManagementToken string `toml:"management_token" json:"management_token" yaml:"management_token"`
	AuthIndex       string `toml:"auth_index" json:"auth_index" yaml:"auth_index"`
}

type ProvidersConfig struct {
	ClaudeCode ClaudeCodeConfig `toml:"claude_code" json:"claude_code" yaml:"claude_code"`
	Cliproxy   CliproxyConfig   `toml:"cliproxy_claude" json:"cliproxy_claude" yaml:"cliproxy_claude"`
}

type DebugConfig struct {
	Cycle bool `toml:"cycle" json:"cycle" yaml:"cycle"`
}

type Config struct {
	MonochromeIcon       bool            `toml:"monochrome_icon" json:"monochrome_icon" yaml:"monochrome_icon"`
	DisplayMode          DisplayMode     `toml:"display_mode" json:"display_mode" yaml:"display_mode"`
	ShowPeriodPercentage bool            `toml:"show_period_percentage" json:"show_period_percentage" yaml:"show_period_percentage"`
	ResetTimeFormat      ResetTimeFormat `toml:"reset_time_format" json:"reset_time_format" yaml:"reset_time_format"`
	RefetchInterval      uint            `toml:"refetch_interval" json:"refetch_interval" yaml:"refetch_interval"`
	Provider             string          `toml:"provider" json:"provider" yaml:"provider"`
	FetchTimeout         float64         `toml:"fetch_timeout" json:"fetch_timeout" yaml:"fetch_timeout"`
	Providers            ProvidersConfig `toml:"providers" json:"providers" yaml:"providers"`
	Debug                DebugConfig     `toml:"debug" json:"debug" yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		MonochromeIcon:       true,
		DisplayMode:          DisplayUsage,
		ShowPeriodPercentage: false,
		ResetTimeFormat:      ResetRelative,
		RefetchInterval:      60,
		Provider:             ProviderClaudeCode,
		FetchTimeout:         30,
	}
}

// Display extracts the presentation settings. The interval never drops
// below MinRefetchInterval, even for a config that skipped Validate.
func (c Config) Display() DisplayConfig {
	return DisplayConfig{
		DisplayMode:          c.DisplayMode,
		ShowPeriodPercentage: c.ShowPeriodPercentage,
		ResetTimeFormat:      c.ResetTimeFormat,
		MonochromeIcon:       c.MonochromeIcon,
		RefetchInterval:      time.Duration(max(c.RefetchInterval, MinRefetchInterval)) * time.Second,
	}
}

// Validate checks cross-field constraints the decoder cannot.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(Providers, c.Provider) {
		errs = append(errs, fmt.Errorf("unknown provider %q (want one of %s)", c.Provider, strings.Join(Providers, ", ")))
	}
	if c.RefetchInterval < MinRefetchInterval {
		errs = append(errs, fmt.Errorf("refetch_interval must be at least %d seconds, got %d", MinRefetchInterval, c.RefetchInterval))
	}
	if c.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("fetch_timeout must not be negative, got %v", c.FetchTimeout))
	}
	if c.Provider == ProviderCliproxy {
		p := c.Providers.Cliproxy
		if p.BaseURL == "" || p.ManagementToken == "" || p.AuthIndex == "" {
			errs = append(errs, errors.New("providers.cliproxy_claude needs base_url, management_token and auth_index"))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// Load reads the config at path, falling back to defaults when the file does
// not exist. A file that exists but fails to parse or validate returns the
// defaults together with an error wrapping ErrInvalid. The fallback is
// validated too: environment overrides that make it invalid are dropped.
func Load(path string) (Config, error) {
	if path == "" {
		path = ConfigFile()
	}
	cfg, err := LoadFile(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		err = nil
	}

	fallback := applyEnvOverrides(DefaultConfig(), dotenvFor(path))
	if verr := fallback.Validate(); verr != nil {
		return DefaultConfig(), errors.Join(err, fmt.Errorf("environment overrides ignored: %w", verr))
	}
	return fallback, err
}

// LoadFile is Load without the missing-file fallback. The watcher uses it so
// a deleted file never silently resets settings.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, dotenvFor(path))
}

// Parse decodes TOML on top of the defaults, applies environment overrides,
// and validates the result. env may be nil.
func Parse(data []byte, env map[string]string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	cfg = applyEnvOverrides(cfg, env)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg as TOML, replacing the file atomically.
func Save(cfg Config, path string) error {
	if path == "" {
		path = ConfigFile()
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return writeAtomic(path, []byte(b.String()))
}
