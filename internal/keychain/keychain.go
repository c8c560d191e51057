// Package keychain reads generic-password items from the operating system
// credential store.
package keychain

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no item matches the query.
var ErrNotFound = errors.New("keychain item not found")

// ErrUnsupported is returned on platforms without a supported credential store.
var ErrUnsupported = errors.New("keychain not available on this platform")

// lookupTimeout bounds a single credential-store query. The store can block
// on an unlock prompt; the caller retries on the next refresh.
const lookupTimeout = 2 * time.Second
