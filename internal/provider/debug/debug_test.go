package debug

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/models"
	"github.com/joshuadavidthomas/liment/internal/provider"
)

type innerProvider struct {
	tiers []models.TierInfo
}

func (p innerProvider) Meta() provider.Metadata {
	return provider.Metadata{ID: "inner", Name: "Inner"}
}
func (p innerProvider) Fetch(context.Context) fetch.Outcome {
	panic("debug provider must not call the inner provider")
}
func (p innerProvider) Tiers() []models.TierInfo { return p.tiers }
func (p innerProvider) TrayLabels() [2]string    { return [2]string{"5h ..", "7d .."} }

var testTiers = []models.TierInfo{{Name: "A"}, {Name: "B"}, {Name: "C"}}

func at(secs float64) func() time.Time {
	t := time.Unix(0, int64(secs*float64(time.Second)))
	return func() time.Time { return t }
}

func TestUtilization(t *testing.T) {
	tests := []struct {
		secs float64
		want float64
	}{
		{0, 0},
		{2.5, 25},
		{9, 90},
		{10, 0},
		{1_700_000_007, 70},
	}
	for _, tt := range tests {
		got := Utilization(at(tt.secs)())
		if math.Abs(got-tt.want) > 1e-3 {
			t.Errorf("Utilization(%v) = %v, want %v", tt.secs, got, tt.want)
		}
	}
}

func TestFetch_AlwaysSucceeds(t *testing.T) {
	p := Wrap(innerProvider{tiers: testTiers}, WithClock(at(1_700_000_004)))

	out := p.Fetch(context.Background())

	if !out.OK() {
		t.Fatalf("Fetch() failed: %v", out.Reason)
	}
	snap := out.Snapshot
	if len(snap.Windows) != 2 {
		t.Fatalf("windows = %d, want 2", len(snap.Windows))
	}
	for _, w := range snap.Windows {
		if math.Abs(w.Utilization-40) > 1e-3 {
			t.Errorf("%s utilization = %v, want 40", w.Title, w.Utilization)
		}
		if w.ResetsAt == nil || !w.ResetsAt.After(snap.FetchedAt) {
			t.Errorf("%s ResetsAt = %v, want in the future", w.Title, w.ResetsAt)
		}
		if w.ShortLabel == "" {
			t.Errorf("%s should be shown in the tray", w.Title)
		}
	}
	if snap.APIUsage == nil || snap.APIUsage.String() != "$4.20 / $10.00" {
		t.Errorf("APIUsage = %+v", snap.APIUsage)
	}
}

func TestFetch_ResetMatchesElapsed(t *testing.T) {
	p := Wrap(innerProvider{tiers: testTiers}, WithClock(at(5)))
	snap := p.Fetch(context.Background()).Snapshot

	five := snap.Windows[0]
	remaining := five.ResetsAt.Sub(snap.FetchedAt)
	if remaining != 150*time.Minute {
		t.Errorf("remaining = %v, want 2h30m at 50%% of a 5h window", remaining)
	}
}

func TestFetch_TierRotation(t *testing.T) {
	tests := []struct {
		secs float64
		want string
	}{
		{0, "A"},
		{2.9, "A"},
		{3, "B"},
		{6, "C"},
		{9, "A"},
	}
	for _, tt := range tests {
		p := Wrap(innerProvider{tiers: testTiers}, WithClock(at(tt.secs)))
		snap := p.Fetch(context.Background()).Snapshot
		if snap.Tier == nil || snap.Tier.Name != tt.want {
			t.Errorf("at %vs tier = %+v, want %s", tt.secs, snap.Tier, tt.want)
		}
	}
}

func TestFetch_NoTiers(t *testing.T) {
	p := Wrap(innerProvider{}, WithClock(at(1)))
	out := p.Fetch(context.Background())
	if !out.OK() || out.Snapshot.Tier != nil {
		t.Errorf("outcome = %+v, want success without tier", out)
	}
}

func TestWrap_DelegatesLabelsAndTiers(t *testing.T) {
	p := Wrap(innerProvider{tiers: testTiers})
	if p.TrayLabels() != [2]string{"5h ..", "7d .."} {
		t.Errorf("TrayLabels() = %v", p.TrayLabels())
	}
	if len(p.Tiers()) != 3 {
		t.Errorf("Tiers() = %v", p.Tiers())
	}
	if p.Meta().ID != "debug" || p.Meta().Name != "Debug (Inner)" {
		t.Errorf("Meta() = %+v", p.Meta())
	}
}
