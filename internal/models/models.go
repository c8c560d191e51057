package models

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// UsageWindow is one rolling quota bucket. Utilization is always percent
// used; "remaining" is a display transform applied by the renderer.
type UsageWindow struct {
	Title         string     `json:"title" yaml:"title"`
	ShortLabel    string     `json:"short_label,omitempty" yaml:"short_label,omitempty"`
	Utilization   float64    `json:"utilization" yaml:"utilization"`
	ResetsAt      *time.Time `json:"resets_at,omitempty" yaml:"resets_at,omitempty"`
	PeriodSeconds int64      `json:"period_seconds,omitempty" yaml:"period_seconds,omitempty"`
}

// NewUsageWindow builds a window with utilization clamped to [0, 100].
// A non-positive period is treated as unknown.
func NewUsageWindow(title, shortLabel string, utilization float64, resetsAt *time.Time, period time.Duration) UsageWindow {
	w := UsageWindow{
		Title:       title,
		ShortLabel:  shortLabel,
		Utilization: ClampPct(utilization),
	}
	if resetsAt != nil {
		t := *resetsAt
		w.ResetsAt = &t
	}
	if period > 0 {
		w.PeriodSeconds = int64(period / time.Second)
	}
	return w
}

func (w UsageWindow) InTray() bool {
	return w.ShortLabel != ""
}

func (w UsageWindow) Period() time.Duration {
	return time.Duration(w.PeriodSeconds) * time.Second
}

// TimeUntilReset returns nil when the reset time is unknown. Past resets
// report zero.
func (w UsageWindow) TimeUntilReset(now time.Time) *time.Duration {
	if w.ResetsAt == nil {
		return nil
	}
	d := w.ResetsAt.Sub(now)
	if d < 0 {
		d = 0
	}
	return &d
}

type RGB struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return c.Colorful().Hex()
}

func RGBFromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

type TierInfo struct {
	Name  string `json:"name" yaml:"name"`
	Color RGB    `json:"color" yaml:"color"`
}

// UnknownTier is the fallback for tier strings a provider does not recognize.
var UnknownTier = TierInfo{Name: "Unknown", Color: RGB{R: 128, G: 128, B: 128}}

// APIUsage is pay-as-you-go credit spend. LimitUSD is nil when there is no
// monthly cap.
type APIUsage struct {
	UsageUSD float64  `json:"usage_usd" yaml:"usage_usd"`
	LimitUSD *float64 `json:"limit_usd,omitempty" yaml:"limit_usd,omitempty"`
}

// String formats the spend as "$4.20 / $10.00", or "$4.20" without a cap.
func (a APIUsage) String() string {
	if a.LimitUSD == nil {
		return FormatUSD(a.UsageUSD)
	}
	return FormatUSD(a.UsageUSD) + " / " + FormatUSD(*a.LimitUSD)
}

// FormatUSD renders a dollar amount with two decimals and thousands
// separators.
func FormatUSD(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// UsageSnapshot is the normalized result of one successful fetch. Window
// order is provider-defined and drives both tray and menu order.
type UsageSnapshot struct {
	Tier      *TierInfo     `json:"tier,omitempty" yaml:"tier,omitempty"`
	APIUsage  *APIUsage     `json:"api_usage,omitempty" yaml:"api_usage,omitempty"`
	Windows   []UsageWindow `json:"windows" yaml:"windows"`
	FetchedAt time.Time     `json:"fetched_at" yaml:"fetched_at"`
}

// NewUsageSnapshot copies its inputs so later mutation by the caller cannot
// reach the snapshot.
func NewUsageSnapshot(tier *TierInfo, api *APIUsage, windows []UsageWindow, fetchedAt time.Time) UsageSnapshot {
	s := UsageSnapshot{FetchedAt: fetchedAt}
	if tier != nil {
		t := *tier
		s.Tier = &t
	}
	if api != nil {
		a := *api
		if api.LimitUSD != nil {
			l := *api.LimitUSD
			a.LimitUSD = &l
		}
		s.APIUsage = &a
	}
	s.Windows = make([]UsageWindow, len(windows))
	for i, w := range windows {
		s.Windows[i] = NewUsageWindow(w.Title, w.ShortLabel, w.Utilization, w.ResetsAt, w.Period())
	}
	return s
}

// TrayWindows returns the windows that carry a short label, in order.
func (s UsageSnapshot) TrayWindows() []UsageWindow {
	var out []UsageWindow
	for _, w := range s.Windows {
		if w.InTray() {
			out = append(out, w)
		}
	}
	return out
}

// ClampPct clamps a percentage to [0, 100]. NaN maps to 0.
func ClampPct(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
