package provider

import (
	"fmt"
	"sort"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/fetch"
)

// Factory builds a provider from the config. It may fail only on settings
// the config validator could not check.
type Factory func(cfg config.Config, deps Deps) (Provider, error)

type entry struct {
	meta    Metadata
	factory Factory
}

var registry = map[string]entry{}

// Register makes a provider kind selectable by its Metadata.ID. Called from
// provider package init functions.
func Register(meta Metadata, f Factory) {
	registry[meta.ID] = entry{meta: meta, factory: f}
}

// New builds the provider named by cfg.Provider.
func New(cfg config.Config, deps Deps) (Provider, error) {
	e, ok := registry[cfg.Provider]
	if !ok {
		return nil, fetch.Errorf(fetch.ConfigInvalid, "unknown provider %q", cfg.Provider)
	}
	p, err := e.factory(cfg, deps.WithDefaults())
	if err != nil {
		return nil, fetch.Wrap(fetch.ConfigInvalid, fmt.Errorf("building %s provider: %w", cfg.Provider, err))
	}
	return p, nil
}

func Get(id string) (Metadata, bool) {
	e, ok := registry[id]
	return e.meta, ok
}

func ListIDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DisplayName returns the human-readable name for id, or id itself when it
// is not registered.
func DisplayName(id string) string {
	e, ok := registry[id]
	if !ok {
		return id
	}
	return e.meta.Name
}
