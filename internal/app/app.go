// Package app wires the refresh pipeline together: the live settings
// handle, the scheduler, the render coordinator, and the config watcher.
// Adapters supply a UI context and paint what the coordinator produces.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/browser"
	"golang.org/x/sync/errgroup"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/httpclient"
	"github.com/joshuadavidthomas/liment/internal/live"
	"github.com/joshuadavidthomas/liment/internal/provider"
	"github.com/joshuadavidthomas/liment/internal/provider/debug"
	"github.com/joshuadavidthomas/liment/internal/render"
	"github.com/joshuadavidthomas/liment/internal/scheduler"

	// Registered providers.
	_ "github.com/joshuadavidthomas/liment/internal/provider/claude"
	_ "github.com/joshuadavidthomas/liment/internal/provider/cliproxy"
)

// Adapter is a toolkit front end. Dispatch must run fn on the adapter's
// single UI context, in order; Paint is only ever called from there.
type Adapter interface {
	scheduler.Dispatcher
	Paint(vm render.ViewModel)
}

// ReloadNotifier is implemented by adapters that want to tell the user
// about config reloads. err is nil after a successful reload. Called on the
// UI context.
type ReloadNotifier interface {
	ConfigReloaded(err error)
}

// BuildFunc builds the provider for a config.
type BuildFunc func(cfg config.Config, deps provider.Deps) (provider.Provider, error)

type Options struct {
	// ConfigPath is the watched file. Empty means config.ConfigFile().
	ConfigPath string
	// DebugCycle forces the synthetic provider regardless of config.
	DebugCycle bool
	Logger     *log.Logger
	Now        func() time.Time
	// Build defaults to provider.New.
	Build BuildFunc
	// Watch enables the config file watcher.
	Watch bool
}

type App struct {
	handle  *live.Handle
	sched   *scheduler.Scheduler
	coord   *render.Coordinator
	adapter Adapter

	configPath string
	debugCycle bool
	build      BuildFunc
	logger     *log.Logger
	now        func() time.Time
	watch      bool
}

var openFile = browser.OpenFile

// New builds the provider for cfg and prepares the pipeline. Nothing runs
// until Run.
func New(cfg config.Config, adapter Adapter, opts Options) (*App, error) {
	a := &App{
		adapter:    adapter,
		configPath: opts.ConfigPath,
		debugCycle: opts.DebugCycle,
		build:      opts.Build,
		logger:     opts.Logger,
		now:        opts.Now,
		watch:      opts.Watch,
	}
	if a.configPath == "" {
		a.configPath = config.ConfigFile()
	}
	if a.build == nil {
		a.build = provider.New
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard)
	}
	if a.now == nil {
		a.now = time.Now
	}

	p, err := a.buildProvider(cfg)
	if err != nil {
		return nil, err
	}
	a.handle = live.New(cfg, p)
	a.coord = render.NewCoordinator(1, p.TrayLabels(), cfg.Display(),
		render.WithLogger(a.logger.WithPrefix("render")),
		render.WithClock(a.now),
	)
	a.sched = scheduler.New(a.source, a.interval, adapter, a,
		scheduler.WithLogger(a.logger.WithPrefix("scheduler")),
		scheduler.WithClock(a.now),
	)
	return a, nil
}

func (a *App) buildProvider(cfg config.Config) (provider.Provider, error) {
	deps := provider.Deps{
		Logger: a.logger,
		HTTP:   httpclient.NewFromConfig(cfg.FetchTimeout),
		Now:    a.now,
	}
	p, err := a.build(cfg, deps)
	if err != nil {
		return nil, err
	}
	if a.debugCycle || cfg.Debug.Cycle {
		a.logger.Info("debug cycling enabled", "inner", p.Meta().ID)
		return debug.Wrap(p, debug.WithClock(a.now)), nil
	}
	return p, nil
}

func (a *App) source() (scheduler.Fetcher, uint64) {
	s := a.handle.Load()
	return s.Provider, s.Generation
}

func (a *App) interval() time.Duration {
	return a.handle.Load().Display().RefetchInterval
}

// Settings returns the active settings.
func (a *App) Settings() *live.Settings { return a.handle.Load() }

// Run paints the loading state, then runs the scheduler and, if enabled,
// the config watcher until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	a.adapter.Dispatch(func() { a.adapter.Paint(a.coord.View()) })

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.sched.Run(ctx) })
	if a.watch {
		w := &config.Watcher{
			Path:      a.configPath,
			OnReload:  a.Reload,
			OnInvalid: a.rejectConfig,
			Logger:    a.logger.WithPrefix("config"),
		}
		g.Go(func() error { return w.Run(ctx) })
	}
	return g.Wait()
}

// Refresh requests a manual fetch.
func (a *App) Refresh() { a.sched.Refresh() }

// OpenConfig creates the config file if needed and opens it in the
// system's default editor.
func (a *App) OpenConfig() error {
	created, err := config.EnsureExists(a.configPath)
	if err != nil {
		return err
	}
	if created {
		a.logger.Info("wrote default config", "path", a.configPath)
	}
	if err := openFile(a.configPath); err != nil {
		return fmt.Errorf("opening %s: %w", a.configPath, err)
	}
	return nil
}

// Do performs a menu action. Quit is the adapter's job and is ignored here.
func (a *App) Do(action render.Action) {
	switch action {
	case render.ActionRefresh:
		a.Refresh()
	case render.ActionOpenConfig:
		if err := a.OpenConfig(); err != nil {
			a.logger.Error("could not open config", "err", err)
		}
	}
}

// Reload swaps in cfg. If only presentation settings changed, the provider
// and generation are kept and the current data is redisplayed. Otherwise a
// new provider is built under the next generation and results from older
// generations are dropped. Either way a refresh is requested.
func (a *App) Reload(cfg config.Config) {
	old := a.handle.Load()
	if sameSource(old.Config, cfg) {
		s := a.handle.ReplaceConfig(cfg)
		a.logger.Debug("display settings changed", "gen", s.Generation)
		a.adapter.Dispatch(func() {
			a.adapter.Paint(a.coord.Redisplay(s.Display()))
			a.notify(nil)
		})
		a.sched.Trigger(scheduler.TriggerConfig)
		return
	}

	p, err := a.buildProvider(cfg)
	if err != nil {
		a.rejectConfig(err)
		return
	}
	s := a.handle.Replace(cfg, p)
	a.logger.Info("provider replaced", "provider", p.Meta().ID, "gen", s.Generation)
	a.adapter.Dispatch(func() {
		a.coord.SetGeneration(s.Generation, p.TrayLabels())
		a.adapter.Paint(a.coord.Redisplay(s.Display()))
		a.notify(nil)
	})
	a.sched.Trigger(scheduler.TriggerConfig)
}

func (a *App) rejectConfig(err error) {
	if fetch.ReasonOf(err) == fetch.ReasonNone {
		err = fetch.Wrap(fetch.ConfigInvalid, err)
	}
	a.logger.Warn("keeping previous config", "reason", fetch.ConfigInvalid, "err", err)
	a.adapter.Dispatch(func() { a.notify(err) })
}

func (a *App) notify(err error) {
	if n, ok := a.adapter.(ReloadNotifier); ok {
		n.ConfigReloaded(err)
	}
}

// FetchStarted implements scheduler.Sink.
func (a *App) FetchStarted(t scheduler.Ticket) {
	a.logger.Debug("refreshing", "trigger", t.Trigger, "gen", t.Generation)
}

// FetchFinished implements scheduler.Sink.
func (a *App) FetchFinished(t scheduler.Ticket, outcome fetch.Outcome) {
	vm, ok := a.coord.Apply(t.Generation, outcome)
	if ok {
		a.adapter.Paint(vm)
	}
}

// sameSource reports whether two configs produce the same provider.
func sameSource(a, b config.Config) bool {
	return a.Provider == b.Provider &&
		a.FetchTimeout == b.FetchTimeout &&
		a.Providers == b.Providers &&
		a.Debug == b.Debug
}
