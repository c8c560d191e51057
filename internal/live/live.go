// Package live holds the active config and provider behind an atomic
// pointer. Readers take a consistent snapshot with Load; the config reload
// path publishes a new one with Replace.
package live

import (
	"sync/atomic"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/provider"
)

// Settings is one immutable generation of config plus the provider built
// from it. Never modify a Settings after it has been published.
type Settings struct {
	Config     config.Config
	Provider   provider.Provider
	Generation uint64
}

// Display returns the presentation subset of the config.
func (s *Settings) Display() config.DisplayConfig {
	return s.Config.Display()
}

type Handle struct {
	current atomic.Pointer[Settings]
}

// New publishes generation 1.
func New(cfg config.Config, p provider.Provider) *Handle {
	h := &Handle{}
	h.current.Store(&Settings{Config: cfg, Provider: p, Generation: 1})
	return h
}

// Load returns the current settings. The result is safe to keep and read
// after a later Replace.
func (h *Handle) Load() *Settings {
	return h.current.Load()
}

// Generation is shorthand for Load().Generation.
func (h *Handle) Generation() uint64 {
	return h.current.Load().Generation
}

// Replace publishes cfg and p as the next generation and returns it.
func (h *Handle) Replace(cfg config.Config, p provider.Provider) *Settings {
	for {
		old := h.current.Load()
		next := &Settings{Config: cfg, Provider: p, Generation: old.Generation + 1}
		if h.current.CompareAndSwap(old, next) {
			return next
		}
	}
}

// ReplaceConfig keeps the current provider and its generation and swaps
// only the config. Used when a reload changes presentation settings but not
// the data source, so in-flight fetches stay valid.
func (h *Handle) ReplaceConfig(cfg config.Config) *Settings {
	for {
		old := h.current.Load()
		next := &Settings{Config: cfg, Provider: old.Provider, Generation: old.Generation}
		if h.current.CompareAndSwap(old, next) {
			return next
		}
	}
}
