//go:build darwin

package keychain

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// security(1) exits with this status when the item does not exist.
const errSecItemNotFound = 44

// ReadGenericPassword reads a generic password from macOS Keychain using the
// `security` CLI. If account is empty, the account filter is omitted.
func ReadGenericPassword(ctx context.Context, service, account string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	args := []string{"find-generic-password", "-s", service}
	if account != "" {
		args = append(args, "-a", account)
	}
	args = append(args, "-w")

	out, err := exec.CommandContext(ctx, "security", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == errSecItemNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading keychain item %q: %w", service, err)
	}

	secret := strings.TrimSpace(string(out))
	if secret == "" {
		return "", ErrNotFound
	}
	return secret, nil
}
