package live

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/models"
	"github.com/joshuadavidthomas/liment/internal/provider"
)

type namedProvider struct{ id string }

func (p namedProvider) Meta() provider.Metadata             { return provider.Metadata{ID: p.id} }
func (p namedProvider) Fetch(context.Context) fetch.Outcome { return fetch.Failure(fetch.ServerError, nil) }
func (p namedProvider) Tiers() []models.TierInfo            { return nil }
func (p namedProvider) TrayLabels() [2]string               { return [2]string{} }

func TestHandle_NewStartsAtGenerationOne(t *testing.T) {
	h := New(config.DefaultConfig(), namedProvider{id: "a"})
	if g := h.Generation(); g != 1 {
		t.Errorf("Generation() = %d, want 1", g)
	}
	if h.Load().Provider.Meta().ID != "a" {
		t.Error("provider not stored")
	}
}

func TestHandle_ReplaceBumpsGeneration(t *testing.T) {
	h := New(config.DefaultConfig(), namedProvider{id: "a"})
	before := h.Load()

	cfg := config.DefaultConfig()
	cfg.DisplayMode = config.DisplayRemaining
	next := h.Replace(cfg, namedProvider{id: "b"})

	if next.Generation != 2 {
		t.Errorf("Generation = %d, want 2", next.Generation)
	}
	if h.Load() != next {
		t.Error("Load() should return the replaced settings")
	}
	if before.Config.DisplayMode != config.DisplayUsage || before.Provider.Meta().ID != "a" {
		t.Error("earlier snapshot must not change after Replace")
	}
}

func TestHandle_ReplaceConfigKeepsProviderAndGeneration(t *testing.T) {
	h := New(config.DefaultConfig(), namedProvider{id: "a"})

	cfg := config.DefaultConfig()
	cfg.ShowPeriodPercentage = true
	next := h.ReplaceConfig(cfg)

	if next.Generation != 1 {
		t.Errorf("Generation = %d, want 1", next.Generation)
	}
	if next.Provider.Meta().ID != "a" {
		t.Errorf("provider = %q, want a", next.Provider.Meta().ID)
	}
	if !h.Load().Display().ShowPeriodPercentage {
		t.Error("config not swapped")
	}
}

// Two configs whose fields all differ. A reader that ever observes a mix of
// the two has seen a torn update.
func tornConfigs() (config.Config, config.Config) {
	a := config.DefaultConfig()
	a.DisplayMode = config.DisplayUsage
	a.ResetTimeFormat = config.ResetRelative
	a.RefetchInterval = 10
	a.MonochromeIcon = true

	b := config.DefaultConfig()
	b.DisplayMode = config.DisplayRemaining
	b.ResetTimeFormat = config.ResetAbsolute
	b.RefetchInterval = 20
	b.MonochromeIcon = false
	return a, b
}

func TestHandle_ConcurrentReadersNeverSeeTornConfig(t *testing.T) {
	a, b := tornConfigs()
	h := New(a, namedProvider{id: "a"})

	const writes = 2000
	var done atomic.Bool
	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var lastGen uint64
			for !done.Load() {
				s := h.Load()
				c := s.Config
				id := s.Provider.Meta().ID
				switch {
				case c == a && id == "a":
				case c == b && id == "b":
				default:
					t.Errorf("torn read: provider %q with config %+v", id, c)
					return
				}
				if s.Generation < lastGen {
					t.Errorf("generation went backwards: %d after %d", s.Generation, lastGen)
					return
				}
				lastGen = s.Generation
			}
		}()
	}

	for i := range writes {
		if i%2 == 0 {
			h.Replace(b, namedProvider{id: "b"})
		} else {
			h.Replace(a, namedProvider{id: "a"})
		}
	}
	done.Store(true)
	wg.Wait()

	if g := h.Generation(); g != writes+1 {
		t.Errorf("Generation() = %d, want %d", g, writes+1)
	}
}
