package render

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/models"
)

// Coordinator owns the last rendered view model and the last good
// snapshot. It is not safe for concurrent use; every method must be called
// from the UI context.
type Coordinator struct {
	generation uint64
	lastGood   *models.UsageSnapshot
	lastOut    *fetch.Outcome
	labels     [2]string
	display    config.DisplayConfig
	view       ViewModel

	logger *log.Logger
	now    func() time.Time
	loc    *time.Location
}

type CoordinatorOption func(*Coordinator)

func WithLogger(l *log.Logger) CoordinatorOption { return func(c *Coordinator) { c.logger = l } }

func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

func WithLocation(loc *time.Location) CoordinatorOption {
	return func(c *Coordinator) { c.loc = loc }
}

// NewCoordinator starts in the loading state for the given generation.
func NewCoordinator(generation uint64, labels [2]string, display config.DisplayConfig, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		generation: generation,
		labels:     labels,
		display:    display,
		logger:     log.New(io.Discard),
		now:        time.Now,
		loc:        time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.view = c.render()
	return c
}

func (c *Coordinator) View() ViewModel { return c.view }

func (c *Coordinator) Generation() uint64 { return c.generation }

// Apply renders an outcome from a fetch that ran against generation. It
// reports false and leaves the view untouched when the generation is stale.
func (c *Coordinator) Apply(generation uint64, outcome fetch.Outcome) (ViewModel, bool) {
	if generation < c.generation {
		c.logger.Debug("dropping stale outcome", "gen", generation, "current", c.generation)
		return c.view, false
	}
	if generation > c.generation {
		c.generation = generation
	}
	if outcome.OK() {
		snap := *outcome.Snapshot
		c.lastGood = &snap
	}
	c.lastOut = &outcome
	c.view = c.render()
	return c.view, true
}

// SetGeneration moves to a new provider generation. Results for older
// generations are dropped from now on. The current view stays until the
// first result of the new generation arrives. A result of the new generation
// may already have been applied; its labels are still installed.
func (c *Coordinator) SetGeneration(generation uint64, labels [2]string) {
	if generation < c.generation {
		return
	}
	c.generation = generation
	c.labels = labels
}

// Redisplay re-renders the last outcome under new display settings without
// fetching.
func (c *Coordinator) Redisplay(display config.DisplayConfig) ViewModel {
	c.display = display
	c.view = c.render()
	return c.view
}

func (c *Coordinator) render() ViewModel {
	return Render(Input{
		Outcome:  c.lastOut,
		LastGood: c.lastGood,
		Labels:   c.labels,
		Display:  c.display,
		Now:      c.now(),
		Location: c.loc,
	})
}
