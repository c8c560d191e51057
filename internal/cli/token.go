package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/credentials"
	"github.com/joshuadavidthomas/liment/internal/httpclient"
	"github.com/joshuadavidthomas/liment/internal/logging"
	"github.com/joshuadavidthomas/liment/internal/provider"
	"github.com/joshuadavidthomas/liment/internal/provider/claude"
)

// newTokenStore is a seam for tests.
var newTokenStore = func(cfg config.Config, deps provider.Deps) credentials.Store {
	return claude.NewStore(cfg, deps)
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the Claude Code access token",
	Long: "Print the access token liment would use for the claude_code provider.\n\n" +
		"Sources, in order: the Claude Code keychain entry (macOS), ~/.claude/.credentials.json, " +
		"the " + credentials.EnvVar + " environment variable, and [providers.claude_code] token in the config file. " +
		"An expired token is refreshed first when a refresh token is available.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := logging.FromContext(ctx)
		cfg := loadConfig(logger)

		store := newTokenStore(cfg, provider.Deps{
			Logger: logger,
			HTTP:   httpclient.NewFromConfig(cfg.FetchTimeout),
			Now:    now,
		})
		tok, err := store.Token(ctx)
		if err != nil {
			return fmt.Errorf("resolving token: %w", err)
		}
		outln(tok.Reveal())
		return nil
	},
}
