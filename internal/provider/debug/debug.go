// Package debug wraps a real provider and replaces its data with values
// that cycle over time, to exercise every display state without waiting on
// real usage.
package debug

import (
	"context"
	"math"
	"time"

	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/models"
	"github.com/joshuadavidthomas/liment/internal/provider"
)

const (
	// UtilizationPeriod is how long utilization takes to sweep 0 to 100.
	UtilizationPeriod = 10 * time.Second
	// TierPeriod is how long each tier is shown.
	TierPeriod = 3 * time.Second
)

// Provider never fails and never touches the network. Only the inner
// provider's tier list and tray labels are used.
type Provider struct {
	inner provider.Provider
	tiers []models.TierInfo
	now   func() time.Time
}

type Option func(*Provider)

func WithClock(now func() time.Time) Option { return func(p *Provider) { p.now = now } }

func Wrap(inner provider.Provider, opts ...Option) *Provider {
	p := &Provider{inner: inner, tiers: inner.Tiers(), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Meta() provider.Metadata {
	m := p.inner.Meta()
	return provider.Metadata{
		ID:          "debug",
		Name:        "Debug (" + m.Name + ")",
		Description: "Synthetic cycling data shaped like " + m.Name,
		Homepage:    m.Homepage,
	}
}

func (p *Provider) Tiers() []models.TierInfo { return p.tiers }

func (p *Provider) TrayLabels() [2]string { return p.inner.TrayLabels() }

// Utilization returns the synthetic percentage for t.
func Utilization(t time.Time) float64 {
	secs := float64(t.UnixNano()) / float64(time.Second)
	period := UtilizationPeriod.Seconds()
	return math.Mod(secs, period) / period * 100
}

func (p *Provider) tierAt(t time.Time) *models.TierInfo {
	if len(p.tiers) == 0 {
		return nil
	}
	i := int(t.UnixNano()/int64(TierPeriod)) % len(p.tiers)
	tier := p.tiers[i]
	return &tier
}

func (p *Provider) Fetch(context.Context) fetch.Outcome {
	now := p.now()
	u := Utilization(now)

	window := func(title, short string, period time.Duration) models.UsageWindow {
		remaining := time.Duration(float64(period) * (1 - u/100))
		resetsAt := now.Add(remaining)
		return models.NewUsageWindow(title, short, u, &resetsAt, period)
	}
	windows := []models.UsageWindow{
		window("5h Limit", "5h", 5*time.Hour),
		window("7d Limit", "7d", 7*24*time.Hour),
	}
	api := &models.APIUsage{UsageUSD: 4.20, LimitUSD: models.Float64Ptr(10)}

	return fetch.Success(models.NewUsageSnapshot(p.tierAt(now), api, windows, now))
}
