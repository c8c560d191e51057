package render

import (
	"math"
	"testing"
	"time"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/models"
)

func TestFormatResetRelative(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"exactly now", 0, "now"},
		{"in the past", -5 * time.Minute, "now"},
		{"under a second", 900 * time.Millisecond, "now"},
		{"seconds only", 45 * time.Second, "0m"},
		{"minutes", 5*time.Minute + 59*time.Second, "5m"},
		{"ninety minutes", 90 * time.Minute, "1h 30m"},
		{"exactly one hour", time.Hour, "1h 0m"},
		{"two days three hours", 51 * time.Hour, "2d 3h"},
		{"one day drops minutes", 24*time.Hour + 59*time.Minute, "1d 0h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatResetRelative(tt.d); got != tt.want {
				t.Errorf("FormatResetRelative(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestFormatResetAbsolute(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2030, 2, 13, 12, 5, 0, 0, time.UTC)
	if got := FormatResetAbsolute(at, loc); got != "13.02, 14:05" {
		t.Errorf("FormatResetAbsolute() = %q, want %q", got, "13.02, 14:05")
	}
}

func TestDisplayPercent(t *testing.T) {
	tests := []struct {
		u    float64
		mode config.DisplayMode
		want float64
	}{
		{42, config.DisplayUsage, 42},
		{42, config.DisplayRemaining, 58},
		{0, config.DisplayRemaining, 100},
		{150, config.DisplayUsage, 100},
		{math.NaN(), config.DisplayRemaining, 100},
	}
	for _, tt := range tests {
		if got := DisplayPercent(tt.u, tt.mode); got != tt.want {
			t.Errorf("DisplayPercent(%v, %s) = %v, want %v", tt.u, tt.mode, got, tt.want)
		}
	}
}

func TestFormatPercent_Truncates(t *testing.T) {
	if got := FormatPercent(8.9); got != "8%" {
		t.Errorf("FormatPercent(8.9) = %q, want 8%%", got)
	}
}

func TestElapsedPercent(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time { r := now.Add(d); return &r }

	tests := []struct {
		name   string
		w      models.UsageWindow
		want   float64
		wantOK bool
	}{
		{"halfway", models.NewUsageWindow("5h", "", 0, at(150*time.Minute), 5*time.Hour), 50, true},
		{"just started", models.NewUsageWindow("5h", "", 0, at(5*time.Hour), 5*time.Hour), 0, true},
		{"remaining longer than period clamps", models.NewUsageWindow("5h", "", 0, at(6*time.Hour), 5*time.Hour), 0, true},
		{"no period", models.NewUsageWindow("5h", "", 0, at(time.Hour), 0), 0, false},
		{"no reset", models.NewUsageWindow("5h", "", 0, nil, 5*time.Hour), 0, false},
		{"reset passed", models.NewUsageWindow("5h", "", 0, at(-time.Minute), 5*time.Hour), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ElapsedPercent(tt.w, now)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ElapsedPercent() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBarColor(t *testing.T) {
	tests := []struct {
		u    float64
		want models.RGB
	}{
		{0, barNormal},
		{49.9, barNormal},
		{50, barYellow},
		{80, barOrange},
		{90, barRed},
		{100, barRed},
	}
	for _, tt := range tests {
		if got := BarColor(tt.u); got != tt.want {
			t.Errorf("BarColor(%v) = %+v, want %+v", tt.u, got, tt.want)
		}
	}
}

func TestGaugeColor_Endpoints(t *testing.T) {
	if got := GaugeColor(0); got != gaugeLow {
		t.Errorf("GaugeColor(0) = %+v, want %+v", got, gaugeLow)
	}
	if got := GaugeColor(100); got != gaugeHigh {
		t.Errorf("GaugeColor(100) = %+v, want %+v", got, gaugeHigh)
	}
	if got := GaugeColor(50); got != gaugeMid {
		t.Errorf("GaugeColor(50) = %+v, want %+v", got, gaugeMid)
	}
}
