package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/display"
	"github.com/joshuadavidthomas/liment/internal/logging"
	"github.com/joshuadavidthomas/liment/internal/prompt"
	"github.com/joshuadavidthomas/liment/internal/provider"
)

const redacted = "********"

// openFile opens a path with the desktop's default application.
var openFile = browser.OpenFile

var (
	configShowFormat string
	configShowReveal bool
	configInitYes    bool
	configResetYes   bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file and log directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if quiet {
			outln(configFilePath())
			return nil
		}
		out("Config file:   %s\n", configFilePath())
		out("Env file:      %s\n", config.DotEnvFile(configFilePath()))
		out("Log dir:       %s\n", config.LogDir())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective settings",
	Long: "Display the settings liment would use: the config file with defaults filled in " +
		"and environment overrides applied. Secrets are masked unless --reveal is given.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.FromContext(cmd.Context())
		cfg := loadConfig(logger)
		if !configShowReveal {
			cfg = redact(cfg)
		}

		switch configShowFormat {
		case formatJSON:
			return display.OutputJSON(outWriter, cfg)
		case formatYAML:
			return display.OutputYAML(outWriter, cfg)
		case "toml":
			if !quiet {
				out("# %s\n\n", configFilePath())
			}
			return toml.NewEncoder(outWriter).Encode(cfg)
		default:
			return fmt.Errorf("unknown output format %q (want toml, json or yaml)", configShowFormat)
		}
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in the default editor",
	Long:  "Open the config file in the default editor, writing a commented default file first if none exists.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.FromContext(cmd.Context())
		path := configFilePath()
		created, err := config.EnsureExists(path)
		if err != nil {
			return err
		}
		if created {
			logger.Info("wrote default config", "path", path)
		}
		if err := openFile(path); err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset configuration to defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !configResetYes {
			ok, err := prompt.Default.Confirm(prompt.ConfirmConfig{
				Title: "Reset configuration to defaults?",
			})
			if err != nil && !errors.Is(err, prompt.ErrCancelled) {
				return err
			}
			if !ok || err != nil {
				outln("Reset cancelled")
				return nil
			}
		}

		path := configFilePath()
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("resetting config: %w", err)
		}
		if _, err := config.EnsureExists(path); err != nil {
			return fmt.Errorf("resetting config: %w", err)
		}
		outln("✓ Configuration reset to defaults")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.FromContext(cmd.Context())
		path := configFilePath()

		if _, err := os.Stat(path); err == nil && !configInitYes {
			ok, err := prompt.Default.Confirm(prompt.ConfirmConfig{
				Title:       "Overwrite existing config?",
				Description: path,
			})
			if err != nil && !errors.Is(err, prompt.ErrCancelled) {
				return err
			}
			if !ok || err != nil {
				outln("Init cancelled")
				return nil
			}
		}

		cfg, err := askConfig(loadConfig(logger))
		if errors.Is(err, prompt.ErrCancelled) {
			outln("Init cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		out("✓ Wrote %s\n", path)
		return nil
	},
}

// askConfig walks through the settings, starting from current.
func askConfig(current config.Config) (config.Config, error) {
	cfg := current
	p := prompt.Default

	options := make([]prompt.SelectOption, 0, len(config.Providers))
	for _, id := range config.Providers {
		options = append(options, prompt.SelectOption{Label: provider.DisplayName(id), Value: id})
	}
	kind, err := p.Select(prompt.SelectConfig{
		Title:   "Where should usage come from?",
		Options: options,
		Default: cfg.Provider,
	})
	if err != nil {
		return cfg, err
	}
	cfg.Provider = kind

	if kind == config.ProviderCliproxy {
		cp := &cfg.Providers.Cliproxy
		fields := []struct {
			dst      *string
			title    string
			validate func(string) error
		}{
			{&cp.BaseURL, "CLIProxyAPI base URL", prompt.ValidateURL},
			{&cp.ManagementToken, "Management API secret key", prompt.ValidateNotEmpty},
			{&cp.AuthIndex, "Auth index of the Claude account", prompt.ValidateNotEmpty},
		}
		for _, f := range fields {
			v, err := p.Input(prompt.InputConfig{Title: f.title, Value: *f.dst, Validate: f.validate})
			if err != nil {
				return cfg, err
			}
			*f.dst = strings.TrimSpace(v)
		}
	}

	mode, err := p.Select(prompt.SelectConfig{
		Title: "Show percentages as",
		Options: []prompt.SelectOption{
			{Label: "Usage (how much is used)", Value: string(config.DisplayUsage)},
			{Label: "Remaining (how much is left)", Value: string(config.DisplayRemaining)},
		},
		Default: string(cfg.DisplayMode),
	})
	if err != nil {
		return cfg, err
	}
	cfg.DisplayMode = config.DisplayMode(mode)

	format, err := p.Select(prompt.SelectConfig{
		Title: "Show reset times as",
		Options: []prompt.SelectOption{
			{Label: "Relative (resets in 2h 5m)", Value: string(config.ResetRelative)},
			{Label: "Absolute (reset: 13.02, 14:05)", Value: string(config.ResetAbsolute)},
		},
		Default: string(cfg.ResetTimeFormat),
	})
	if err != nil {
		return cfg, err
	}
	cfg.ResetTimeFormat = config.ResetTimeFormat(format)

	interval, err := p.Input(prompt.InputConfig{
		Title:    "Refresh interval in seconds",
		Value:    strconv.FormatUint(uint64(cfg.RefetchInterval), 10),
		Validate: prompt.ValidateMinSeconds(config.MinRefetchInterval),
	})
	if err != nil {
		return cfg, err
	}
	n, err := strconv.ParseUint(strings.TrimSpace(interval), 10, 32)
	if err != nil {
		return cfg, fmt.Errorf("refresh interval: %w", err)
	}
	cfg.RefetchInterval = uint(n)

	cfg.MonochromeIcon, err = p.Confirm(prompt.ConfirmConfig{
		Title:   "Use a monochrome tray icon?",
		Default: cfg.MonochromeIcon,
	})
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

// redact masks secrets for display.
func redact(cfg config.Config) config.Config {
	for _, s := range []*string{&cfg.Providers.ClaudeCode.Token, &cfg.Providers.Cliproxy.ManagementToken} {
		if *s != "" {
			*s = redacted
		}
	}
	return cfg
}

func init() {
	configShowCmd.Flags().StringVarP(&configShowFormat, "output", "o", "toml", "Output format: toml, json, yaml")
	configShowCmd.Flags().BoolVar(&configShowReveal, "reveal", false, "Show secrets in clear text")
	configInitCmd.Flags().BoolVarP(&configInitYes, "yes", "y", false, "Overwrite an existing file without asking")
	configResetCmd.Flags().BoolVarP(&configResetYes, "yes", "y", false, "Skip confirmation")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configInitCmd)
}
