package prompt

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidateNotEmpty returns an error if the string is empty or whitespace-only.
func ValidateNotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value cannot be empty")
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs.
func ValidateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" {
		return errors.New("enter a full URL, e.g. http://localhost:8317")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}

// ValidateMinSeconds returns a validator for whole-second values of at
// least floor.
func ValidateMinSeconds(floor uint) func(string) error {
	return func(s string) error {
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
		if err != nil {
			return errors.New("enter a whole number of seconds")
		}
		if uint(n) < floor {
			return fmt.Errorf("must be at least %d seconds", floor)
		}
		return nil
	}
}
