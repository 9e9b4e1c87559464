package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oshokin/desk-clock/internal/event"
	"github.com/oshokin/desk-clock/internal/fsm"
	"github.com/oshokin/desk-clock/internal/logger"
	"github.com/oshokin/desk-clock/internal/metrics"
)

// DefaultIdleYield is how long the loop sleeps when no source fired.
const DefaultIdleYield = time.Millisecond

var (
	// ErrNotSetUp is returned when the loop is used before Setup.
	ErrNotSetUp = errors.New("scheduler is not set up")
	// ErrAlreadySetUp is returned by a second call to Setup.
	ErrAlreadySetUp = errors.New("scheduler is already set up")
	// errNilTable is returned by Setup when no table is given.
	errNilTable = errors.New("transition table is nil")
)

// Sources are the event producers, named by their polling priority.
type Sources struct {
	// Button is polled first.
	Button event.Source
	// Rotation is polled when the button yielded nothing.
	Rotation event.Source
	// Timer is polled when neither the button nor the rotation yielded anything.
	Timer event.Source
}

// Observer is notified after every dispatched event, from the loop goroutine.
type Observer func(from, to fsm.State, ev event.Event)

// Scheduler is the cooperative control loop.
type Scheduler struct {
	// sources are polled in slice order.
	sources []event.Source
	// recorder receives loop metrics.
	recorder metrics.Recorder
	// idleYield is the sleep taken on cycles without an event.
	idleYield time.Duration
	// observer is called after each dispatch; may be nil.
	observer Observer

	// table is set once by Setup.
	table *fsm.Table

	// mu guards current and lastEvent for readers outside the loop.
	mu sync.RWMutex
	// current is the active state.
	current fsm.State
	// lastEvent is the most recently dispatched event.
	lastEvent event.Event
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Scheduler) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithIdleYield sets the sleep taken when no source fired; zero yields the processor without sleeping.
func WithIdleYield(d time.Duration) Option {
	return func(s *Scheduler) {
		s.idleYield = max(d, 0)
	}
}

// WithObserver registers a callback invoked after every dispatch.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		s.observer = o
	}
}

// New creates a scheduler polling the given sources. Nil sources are skipped.
func New(sources Sources, opts ...Option) *Scheduler {
	s := &Scheduler{
		recorder:  metrics.NoopRecorder{},
		idleYield: DefaultIdleYield,
	}

	for _, src := range []event.Source{sources.Button, sources.Rotation, sources.Timer} {
		if src != nil {
			s.sources = append(s.sources, src)
		}
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Setup installs the transition table and the initial state. It may be called once.
func (s *Scheduler) Setup(table *fsm.Table, initial fsm.State) error {
	if s.table != nil {
		return ErrAlreadySetUp
	}

	if table == nil {
		return errNilTable
	}

	if initial == fsm.Invalid {
		return fmt.Errorf("initial state: %w: %s", fsm.ErrStateNotFound, initial)
	}

	if _, _, err := table.FindStateIndex(initial); err != nil {
		return fmt.Errorf("initial state: %w", err)
	}

	s.table = table

	s.mu.Lock()
	s.current = initial
	s.mu.Unlock()

	return nil
}

// Current returns the active state.
func (s *Scheduler) Current() fsm.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// LastEvent returns the most recently dispatched event, or the zero Event before the first one.
func (s *Scheduler) LastEvent() event.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastEvent
}

// Run loops until ctx is cancelled, which is the only normal way out; it then returns nil.
// Under fsm.PolicyStrict a lookup failure stops the loop and is returned.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.table == nil {
		return ErrNotSetUp
	}

	ctx = logger.WithFields(logger.WithName(ctx, "scheduler"), zap.Stringer("policy", s.table.Policy()))

	logger.InfoKV(ctx, "Scheduler started",
		"initial_state", s.Current().String(),
		"idle_yield", s.idleYield.String())

	for {
		if ctx.Err() != nil {
			logger.InfoKV(ctx, "Scheduler stopped", "state", s.Current().String())

			return nil
		}

		dispatched, err := s.Step(ctx)
		if err != nil {
			logger.ErrorKV(ctx, "Scheduler failed", "state", s.Current().String(), "error", err)

			return err
		}

		if !dispatched {
			s.idle(ctx)
		}
	}
}

// Step runs a single cycle and reports whether an event was dispatched.
func (s *Scheduler) Step(ctx context.Context) (bool, error) {
	if s.table == nil {
		return false, ErrNotSetUp
	}

	s.recorder.IncCycle()

	current := s.Current()

	entry, fallback, err := s.table.FindState(current)
	if err != nil {
		return false, fmt.Errorf("churn of %s: %w", current, err)
	}

	// Counted only: this runs every cycle, the dispatch path logs the fallback.
	if fallback {
		s.recorder.IncLookupFallback(metrics.FallbackState)
	}

	entry.Churn.Churn(ctx)

	ev := s.poll()
	if ev.IsNone() {
		return false, nil
	}

	return true, s.dispatch(ctx, current, ev)
}

// poll returns the first non-empty event in priority order; later sources are not polled.
func (s *Scheduler) poll() event.Event {
	for _, src := range s.sources {
		if ev := src.Poll(); !ev.IsNone() {
			return ev
		}
	}

	return event.Event{}
}

// dispatch runs the transition selected by ev and advances the state.
func (s *Scheduler) dispatch(ctx context.Context, current fsm.State, ev event.Event) error {
	started := time.Now()

	s.recorder.IncEvent(ev.Kind.String())

	res, err := s.table.Resolve(current, ev.Kind)
	if err != nil {
		return fmt.Errorf("dispatch %s in %s: %w", ev, current, err)
	}

	if res.StateFallback {
		s.noteFallback(ctx, metrics.FallbackState, current, ev)
	}

	if res.TransitionFallback {
		s.noteFallback(ctx, metrics.FallbackTransition, current, ev)
	}

	res.Transition.Action.Transition(ctx, ev)

	next := res.Transition.Next

	s.mu.Lock()
	s.current = next
	s.lastEvent = ev
	s.mu.Unlock()

	s.recorder.IncTransition(current.String(), next.String())
	s.recorder.ObserveDispatchDuration(time.Since(started))

	logger.DebugKV(ctx, "Transition", "from", current.String(), "to", next.String(), "event", ev.String())

	if s.observer != nil {
		s.observer(current, next, ev)
	}

	return nil
}

// noteFallback reports a lookup that silently used the first table entry.
func (s *Scheduler) noteFallback(ctx context.Context, label metrics.FallbackLabel, current fsm.State, ev event.Event) {
	s.recorder.IncLookupFallback(label)

	logger.WarnKV(ctx, "Table lookup fell back to the first entry",
		"lookup", string(label), "state", current.String(), "event", ev.Kind.String())
}

// idle yields the processor until the next cycle or until ctx is done.
func (s *Scheduler) idle(ctx context.Context) {
	if s.idleYield <= 0 {
		runtime.Gosched()

		return
	}

	timer := time.NewTimer(s.idleYield)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
