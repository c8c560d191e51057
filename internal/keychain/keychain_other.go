//go:build !darwin

package keychain

import "context"

// ReadGenericPassword is only available on macOS. Elsewhere Claude Code keeps
// its credentials in a plain file, which the credentials package reads.
func ReadGenericPassword(_ context.Context, _, _ string) (string, error) {
	return "", ErrUnsupported
}
