// Package scheduler runs the refresh loop: it decides when to fetch, keeps
// at most one fetch in flight, and hands results to the UI context.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/joshuadavidthomas/liment/internal/fetch"
)

// Trigger names why a fetch was requested.
type Trigger int

const (
	TriggerStartup Trigger = iota
	TriggerTimer
	TriggerManual
	TriggerConfig
)

func (t Trigger) String() string {
	switch t {
	case TriggerStartup:
		return "startup"
	case TriggerTimer:
		return "timer"
	case TriggerManual:
		return "manual"
	case TriggerConfig:
		return "config"
	default:
		return fmt.Sprintf("trigger(%d)", int(t))
	}
}

// State is the phase of the current cycle.
type State int32

const (
	Idle State = iota
	Fetching
	Delivering
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Delivering:
		return "delivering"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Ticket identifies one fetch cycle. Generation is the provider generation
// the fetch ran against; the render side uses it to drop stale results.
type Ticket struct {
	ID         uuid.UUID
	Generation uint64
	Trigger    Trigger
	StartedAt  time.Time
}

// Fetcher is the part of a provider the scheduler needs.
type Fetcher interface {
	Fetch(ctx context.Context) fetch.Outcome
}

// Source returns the fetcher and generation to use for the next cycle. It is
// called once at the start of every fetch.
type Source func() (Fetcher, uint64)

// Dispatcher runs fn on the UI context. Dispatch must not block for long.
type Dispatcher interface {
	Dispatch(fn func())
}

type DispatchFunc func(fn func())

func (f DispatchFunc) Dispatch(fn func()) { f(fn) }

// Inline runs callbacks on the calling goroutine. Used in tests and
// one-shot commands that have no UI loop.
var Inline Dispatcher = DispatchFunc(func(fn func()) { fn() })

// Sink receives cycle events. Both methods are called on the UI context.
type Sink interface {
	FetchStarted(t Ticket)
	FetchFinished(t Ticket, outcome fetch.Outcome)
}

type Scheduler struct {
	source   Source
	interval func() time.Duration
	dispatch Dispatcher
	sink     Sink
	logger   *log.Logger
	now      func() time.Time

	triggers chan Trigger
	state    atomic.Int32
}

type Option func(*Scheduler)

func WithLogger(l *log.Logger) Option       { return func(s *Scheduler) { s.logger = l } }
func WithClock(now func() time.Time) Option { return func(s *Scheduler) { s.now = now } }

// New builds a scheduler. interval is read each time the timer is armed, so
// a config reload changes the cadence from the next fetch on.
func New(source Source, interval func() time.Duration, dispatch Dispatcher, sink Sink, opts ...Option) *Scheduler {
	s := &Scheduler{
		source:   source,
		interval: interval,
		dispatch: dispatch,
		sink:     sink,
		logger:   log.New(io.Discard),
		now:      time.Now,
		triggers: make(chan Trigger, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) State() State { return State(s.state.Load()) }

// Trigger requests a fetch. It never blocks; if a request is already queued
// the new one is folded into it.
func (s *Scheduler) Trigger(t Trigger) {
	select {
	case s.triggers <- t:
	default:
		s.logger.Debug("trigger folded into queued request", "trigger", t)
	}
}

// Refresh is Trigger(TriggerManual).
func (s *Scheduler) Refresh() { s.Trigger(TriggerManual) }

// Run fetches once at startup, then on every timer tick and trigger, until
// ctx is canceled. Requests that arrive while a fetch is in flight collapse
// into a single follow-up fetch started as soon as the current one ends. A
// stuck fetch does not stall the loop; ticks keep coalescing behind it.
func (s *Scheduler) Run(ctx context.Context) error {
	timer := time.NewTimer(s.interval())
	defer timer.Stop()

	done := make(chan struct{}, 1)
	inFlight := false
	var pending *Trigger

	start := func(t Trigger) {
		inFlight = true
		timer.Reset(s.interval())
		go s.cycle(ctx, t, done)
	}
	request := func(t Trigger) {
		if inFlight {
			if pending == nil {
				s.logger.Debug("fetch in flight, queuing one follow-up", "trigger", t)
			}
			pending = &t
			return
		}
		start(t)
	}

	start(TriggerStartup)
	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-s.triggers:
			request(t)
		case <-timer.C:
			timer.Reset(s.interval())
			request(TriggerTimer)
		case <-done:
			inFlight = false
			if pending != nil {
				t := *pending
				pending = nil
				start(t)
			}
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context, trigger Trigger, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()

	fetcher, gen := s.source()
	ticket := Ticket{ID: uuid.New(), Generation: gen, Trigger: trigger, StartedAt: s.now()}
	logger := s.logger.With("cycle", ticket.ID.String()[:8], "gen", gen)

	s.state.Store(int32(Fetching))
	s.dispatch.Dispatch(func() { s.sink.FetchStarted(ticket) })
	logger.Debug("fetch started", "trigger", trigger)

	outcome := s.fetch(ctx, fetcher)
	if ctx.Err() != nil {
		logger.Debug("fetch abandoned, shutting down")
		s.state.Store(int32(Idle))
		return
	}

	next := Delivering
	if outcome.OK() {
		logger.Debug("fetch finished", "took", s.now().Sub(ticket.StartedAt))
	} else {
		next = Failed
		logger.Warn("fetch failed", "reason", outcome.Reason, "err", outcome.Err)
	}
	s.state.Store(int32(next))
	s.dispatch.Dispatch(func() {
		s.sink.FetchFinished(ticket, outcome)
		s.state.CompareAndSwap(int32(next), int32(Idle))
	})
}

func (s *Scheduler) fetch(ctx context.Context, f Fetcher) (out fetch.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("provider panicked", "panic", r)
			out = fetch.Failure(fetch.ServerError, fmt.Errorf("provider panic: %v", r))
		}
	}()
	return f.Fetch(ctx)
}
