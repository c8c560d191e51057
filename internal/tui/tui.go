// Package tui is a terminal front end for the refresh pipeline built on
// bubbletea. The bubbletea event loop is the UI context: dispatched
// callbacks run inside Update.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuadavidthomas/liment/internal/app"
	"github.com/joshuadavidthomas/liment/internal/render"
)

const (
	reloadedNotice = "config reloaded"
	invalidNotice  = "config invalid, keeping previous"
)

type Adapter struct {
	prog *tea.Program
	m    *model
}

func New(opts ...tea.ProgramOption) *Adapter {
	m := newModel()
	return &Adapter{prog: tea.NewProgram(m, opts...), m: m}
}

// Dispatch implements app.Adapter. It waits for the event loop to accept
// the message and returns immediately once the program has exited.
func (t *Adapter) Dispatch(fn func()) { t.prog.Send(dispatchMsg(fn)) }

// Paint implements app.Adapter.
func (t *Adapter) Paint(vm render.ViewModel) { t.m.paint(vm) }

// ConfigReloaded implements app.ReloadNotifier.
func (t *Adapter) ConfigReloaded(err error) {
	if err != nil {
		t.m.notice = invalidNotice
		return
	}
	t.m.notice = reloadedNotice
}

// Run drives a until the user quits or ctx is canceled.
func (t *Adapter) Run(ctx context.Context, a *app.App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.m.do = a.Do
	errc := make(chan error, 1)
	go func() { errc <- a.Run(ctx) }()
	go func() {
		<-ctx.Done()
		t.prog.Quit()
	}()

	_, err := t.prog.Run()
	cancel()
	appErr := <-errc
	if err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return appErr
}
