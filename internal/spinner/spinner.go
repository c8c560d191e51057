// Package spinner shows transient progress on the terminal while a
// one-shot fetch is in flight.
package spinner

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned when the user presses ctrl+c before the work
// finishes.
var ErrInterrupted = errors.New("interrupted")

// ShouldShow returns true if the spinner should be displayed. The spinner
// is hidden for quiet mode, machine-readable output, or non-TTY output.
func ShouldShow(quiet, machine, nonTTY bool) bool {
	return !quiet && !machine && !nonTTY
}

// Run shows title next to a spinner until work returns. Pressing ctrl+c
// cancels the context passed to work; Run still waits for work to return.
func Run(ctx context.Context, title string, work func(ctx context.Context), opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(title), opts...)

	done := make(chan struct{})
	go func() {
		defer close(done)
		work(ctx)
		p.Send(doneMsg{})
	}()

	final, err := p.Run()
	if m, ok := final.(model); ok && m.interrupted {
		cancel()
	}
	<-done
	if err != nil {
		return fmt.Errorf("running spinner: %w", err)
	}
	if ctx.Err() != nil {
		return ErrInterrupted
	}
	return nil
}
