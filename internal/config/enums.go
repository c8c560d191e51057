package config

import (
	"fmt"
	"strings"
)

type DisplayMode string

const (
	DisplayUsage     DisplayMode = "usage"
	DisplayRemaining DisplayMode = "remaining"
)

func (m *DisplayMode) UnmarshalText(b []byte) error {
	switch v := DisplayMode(strings.ToLower(strings.TrimSpace(string(b)))); v {
	case DisplayUsage, DisplayRemaining:
		*m = v
		return nil
	default:
		return fmt.Errorf("display_mode must be %q or %q, got %q", DisplayUsage, DisplayRemaining, string(b))
	}
}

func (m DisplayMode) MarshalText() ([]byte, error) {
	return []byte(m), nil
}

// Flip reports whether percentages are shown as 100 - value.
func (m DisplayMode) Flip() bool {
	return m == DisplayRemaining
}

type ResetTimeFormat string

const (
	ResetRelative ResetTimeFormat = "relative"
	ResetAbsolute ResetTimeFormat = "absolute"
)

func (f *ResetTimeFormat) UnmarshalText(b []byte) error {
	switch v := ResetTimeFormat(strings.ToLower(strings.TrimSpace(string(b)))); v {
	case ResetRelative, ResetAbsolute:
		*f = v
		return nil
	default:
		return fmt.Errorf("reset_time_format must be %q or %q, got %q", ResetRelative, ResetAbsolute, string(b))
	}
}

func (f ResetTimeFormat) MarshalText() ([]byte, error) {
	return []byte(f), nil
}
