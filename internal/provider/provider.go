// Package provider defines the usage data source interface and the registry
// the app uses to build the configured one.
package provider

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/httpclient"
	"github.com/joshuadavidthomas/liment/internal/models"
)

type Metadata struct {
	ID          string
	Name        string
	Description string
	Homepage    string
}

// Provider fetches one usage snapshot per call. Fetch never panics and
// never returns a Go error; every failure is classified inside the Outcome.
// Implementations must be safe for concurrent use.
type Provider interface {
	Meta() Metadata
	Fetch(ctx context.Context) fetch.Outcome
	// Tiers lists every tier the provider can report, in plan order.
	Tiers() []models.TierInfo
	// TrayLabels are the two tray placeholders shown before the first
	// successful fetch, e.g. "5h ..".
	TrayLabels() [2]string
}

// Deps carries what factories need from the app.
type Deps struct {
	Logger *log.Logger
	HTTP   *httpclient.Client
	Now    func() time.Time
}

// WithDefaults fills zero fields so providers never nil-check.
func (d Deps) WithDefaults() Deps {
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	if d.HTTP == nil {
		d.HTTP = httpclient.New()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}
