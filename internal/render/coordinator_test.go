package render

import (
	"testing"
	"time"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/models"
)

func snapshotAt(u float64) fetch.Outcome {
	return fetch.Success(models.NewUsageSnapshot(nil, nil, []models.UsageWindow{
		models.NewUsageWindow("5h Limit", "5h", u, nil, 0),
	}, testNow))
}

func newTestCoordinator(gen uint64) *Coordinator {
	return NewCoordinator(gen, [2]string{"5h ..", "7d .."}, config.DefaultConfig().Display(),
		WithClock(func() time.Time { return testNow }), WithLocation(time.UTC))
}

func TestCoordinator_StartsLoading(t *testing.T) {
	c := newTestCoordinator(1)
	if c.View().Status != StatusLoading {
		t.Errorf("initial status = %v", c.View().Status)
	}
}

func TestCoordinator_DropsStaleGeneration(t *testing.T) {
	c := newTestCoordinator(1)

	// A reload moves to generation 2 while a generation 1 fetch is in flight.
	c.SetGeneration(2, [2]string{"5h ..", "7d .."})

	if _, ok := c.Apply(2, snapshotAt(70)); !ok {
		t.Fatal("current generation should apply")
	}
	before := c.View()

	vm, ok := c.Apply(1, snapshotAt(10))
	if ok {
		t.Error("stale generation should be dropped")
	}
	if vm.Tray.Slots[0].Value != "70%" || c.View().Tray.Slots[0].Value != "70%" {
		t.Errorf("view overwritten by stale outcome: %+v", c.View().Tray.Slots)
	}
	if before.Tray.Tooltip != c.View().Tray.Tooltip {
		t.Error("view changed after stale apply")
	}

	// A stale failure must not replace good data either.
	if _, ok := c.Apply(1, fetch.Failure(fetch.TransportError, nil)); ok {
		t.Error("stale failure should be dropped")
	}
	if c.View().Status != StatusReady {
		t.Errorf("status = %v after stale failure", c.View().Status)
	}
}

func TestCoordinator_NewerGenerationAdvances(t *testing.T) {
	c := newTestCoordinator(1)
	if _, ok := c.Apply(3, snapshotAt(5)); !ok {
		t.Fatal("newer generation should apply")
	}
	if c.Generation() != 3 {
		t.Errorf("Generation() = %d, want 3", c.Generation())
	}
	if _, ok := c.Apply(2, snapshotAt(6)); ok {
		t.Error("generation 2 should now be stale")
	}
}

func TestCoordinator_SetGenerationNeverGoesBack(t *testing.T) {
	c := newTestCoordinator(5)
	c.SetGeneration(3, [2]string{"x ..", "y .."})
	if c.Generation() != 5 {
		t.Errorf("Generation() = %d, want 5", c.Generation())
	}
}

func TestCoordinator_SetGenerationAfterNewResultInstallsLabels(t *testing.T) {
	c := newTestCoordinator(1)
	// A fetch of generation 2 can be delivered before the reload's own
	// SetGeneration call reaches the UI context.
	if _, ok := c.Apply(2, fetch.Failure(fetch.TransportError, nil)); !ok {
		t.Fatal("generation 2 result should apply")
	}
	c.SetGeneration(2, [2]string{"wk ..", "mo .."})

	vm, ok := c.Apply(2, fetch.Failure(fetch.TransportError, nil))
	if !ok {
		t.Fatal("generation 2 result should still apply")
	}
	if got := vm.Tray.Slots[0].Label; got != "wk" {
		t.Errorf("slot label = %q, want the new provider's label", got)
	}
}

func TestCoordinator_FailureAfterSuccessShowsPlaceholders(t *testing.T) {
	c := newTestCoordinator(1)
	c.Apply(1, snapshotAt(30))
	vm, _ := c.Apply(1, fetch.Failure(fetch.AuthExpired, nil))

	if vm.Status != StatusFailed {
		t.Errorf("status = %v", vm.Status)
	}
	for _, s := range vm.Tray.Slots {
		if s.Numeric {
			t.Errorf("slot %+v still numeric after failure", s)
		}
	}
}

func TestCoordinator_RedisplayUsesNewSettings(t *testing.T) {
	c := newTestCoordinator(1)
	c.Apply(1, snapshotAt(30))

	d := config.DefaultConfig().Display()
	d.DisplayMode = config.DisplayRemaining
	vm := c.Redisplay(d)

	if got := vm.Tray.Slots[0].Value; got != "70%" {
		t.Errorf("redisplayed value = %q, want 70%%", got)
	}
	if c.View().Tray.Slots[0].Value != "70%" {
		t.Error("View() should return the redisplayed model")
	}
}
