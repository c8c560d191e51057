// Package tray paints view models into the OS system tray using
// getlantern/systray.
package tray

import (
	"context"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/getlantern/systray"

	"github.com/joshuadavidthomas/liment/internal/app"
	"github.com/joshuadavidthomas/liment/internal/render"
)

// poolSize bounds the number of data lines the menu can show.
const poolSize = 16

// Adapter implements app.Adapter on top of systray. Paint runs on the
// adapter's own UI loop goroutine.
type Adapter struct {
	loop   *app.Loop
	logger *log.Logger

	pool    []*systray.MenuItem
	actions map[render.Action]*systray.MenuItem
	ready   chan struct{}
}

func New(logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Adapter{
		loop:    app.NewLoop(),
		logger:  logger,
		actions: map[render.Action]*systray.MenuItem{},
		ready:   make(chan struct{}),
	}
}

func (t *Adapter) Dispatch(fn func()) { t.loop.Dispatch(fn) }

// Run blocks in the systray event loop until Quit is chosen or ctx is
// canceled. It must be called from the main goroutine.
func (t *Adapter) Run(ctx context.Context, a *app.App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	onReady := func() {
		t.build()
		close(t.ready)
		go t.loop.Run(ctx)
		go func() { errc <- a.Run(ctx) }()
		go t.handleClicks(ctx, a)
		go func() {
			<-ctx.Done()
			systray.Quit()
		}()
	}
	systray.Run(onReady, cancel)

	cancel()
	select {
	case err := <-errc:
		return err
	default:
		return nil
	}
}

func (t *Adapter) build() {
	systray.SetTooltip(render.LoadingText)
	for range poolSize {
		item := systray.AddMenuItem("", "")
		item.Disable()
		item.Hide()
		t.pool = append(t.pool, item)
	}
	systray.AddSeparator()
	t.actions[render.ActionRefresh] = systray.AddMenuItem("Refresh", "Fetch usage now")
	t.actions[render.ActionOpenConfig] = systray.AddMenuItem("Open Config…", "Edit config.toml")
	t.actions[render.ActionQuit] = systray.AddMenuItem("Quit", "Quit liment")
}

func (t *Adapter) handleClicks(ctx context.Context, a *app.App) {
	refresh := t.actions[render.ActionRefresh].ClickedCh
	open := t.actions[render.ActionOpenConfig].ClickedCh
	quit := t.actions[render.ActionQuit].ClickedCh
	for {
		select {
		case <-ctx.Done():
			return
		case <-refresh:
			a.Do(render.ActionRefresh)
		case <-open:
			a.Do(render.ActionOpenConfig)
		case <-quit:
			t.logger.Debug("quit from tray menu")
			systray.Quit()
			return
		}
	}
}

// Paint implements app.Adapter.
func (t *Adapter) Paint(vm render.ViewModel) {
	<-t.ready
	systray.SetTitle(title(vm))
	systray.SetTooltip(vm.Tray.Tooltip)
	t.setIcon(vm.Tray.Icon)

	lines := dataLines(vm)
	if len(lines) > len(t.pool) {
		t.logger.Warn("menu truncated", "lines", len(lines), "max", len(t.pool))
		lines = lines[:len(t.pool)]
	}
	for i, item := range t.pool {
		if i >= len(lines) {
			item.Hide()
			continue
		}
		item.SetTitle(lines[i].Title)
		item.SetTooltip(lines[i].Tooltip)
		item.Show()
	}
}

// ConfigReloaded implements app.ReloadNotifier.
func (t *Adapter) ConfigReloaded(err error) {
	if err != nil {
		systray.SetTooltip("Config invalid, keeping previous settings")
	}
}

func (t *Adapter) setIcon(icon render.Icon) {
	data, err := GaugePNG(icon, IconSize)
	if err != nil {
		t.logger.Warn("could not draw tray icon", "err", err)
		return
	}
	switch {
	case runtime.GOOS == "windows":
		systray.SetIcon(wrapICO(data, IconSize))
	case icon.Monochrome:
		systray.SetTemplateIcon(data, data)
	default:
		systray.SetIcon(data)
	}
}
