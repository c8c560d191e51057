package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultTOML is written on first run. Every key documents itself; the
// provider tables stay commented out until the user needs them.
const DefaultTOML = `# Whether to render the tray icon in monochrome.
monochrome_icon = true

# Display mode: "usage" or "remaining".
display_mode = "usage"

# Whether to show period percentage next to "resets in".
show_period_percentage = false

# Reset time format: "relative" (resets in 3h) or "absolute" (resets on 13.02, 14:00).
reset_time_format = "relative"

# How often to refetch usage data, in seconds.
refetch_interval = 60

# Default data provider, the LLM subscription you use: "claude_code" or "cliproxy_claude".
provider = "claude_code"

# Upper bound for a single usage request, in seconds.
fetch_timeout = 30

# [providers.claude_code]
# OAuth token override. Used only when no token is found in the system
# keychain, the Claude Code credentials file, or LIMENT_TOKEN.
# token = ""

# [providers.cliproxy_claude]
# CLIProxy base URL (e.g. "http://localhost:8317").
# base_url = ""
# CLIProxy management API secret key.
# management_token = ""
# Auth index identifying which CLIProxy account to use.
# auth_index = ""

# [debug]
# Cycle utilization and tiers with synthetic data.
# cycle = false
`

// EnsureExists writes DefaultTOML to path when no file is there. It reports
// whether a file was created.
func EnsureExists(path string) (bool, error) {
	if path == "" {
		path = ConfigFile()
	}
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking config %s: %w", path, err)
	}
	if err := writeAtomic(path, []byte(DefaultTOML)); err != nil {
		return false, err
	}
	return true, nil
}
