package models

import (
	"strings"
	"time"
)

// ParseRFC3339Ptr parses an RFC 3339 timestamp and returns a pointer to the
// resulting time. Returns nil if the input is empty, whitespace-only, or
// not a valid RFC 3339 string. Fractional seconds are accepted.
func ParseRFC3339Ptr(raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil
	}
	return &t
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}
