package scheduler

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/desk-clock/internal/clock"
	"github.com/oshokin/desk-clock/internal/event"
	"github.com/oshokin/desk-clock/internal/fsm"
	"github.com/oshokin/desk-clock/internal/metrics"
	"github.com/oshokin/desk-clock/internal/platform"
	"github.com/oshokin/desk-clock/internal/source"
)

// rig wires real sources to a manual clock, a fake pin and a fake decoder.
type rig struct {
	clock  *clock.Manual
	level  atomic.Bool
	ticks  atomic.Int32
	button *source.ButtonSource
	rotary *source.RotationSource
	timer  *source.TimerSource
}

func newRig(start uint32) *rig {
	r := &rig{clock: clock.NewManual(start)}
	r.level.Store(true)
	r.button = source.NewButtonSource(r.clock, platform.PinFunc(r.level.Load))
	r.rotary = source.NewRotationSource(r.clock, platform.DecoderFunc(func() int32 { return r.ticks.Swap(0) }))
	r.timer = source.NewTimerSource(r.clock, 0)

	return r
}

func (r *rig) sources() Sources {
	return Sources{Button: r.button, Rotation: r.rotary, Timer: r.timer}
}

// click presses and releases the button at the given clock reading.
func (r *rig) click(at uint32) {
	r.clock.Set(at)
	r.level.Store(false)
	r.button.HandleEdge()
	r.level.Store(true)
	r.button.HandleEdge()
}

// countingSource returns a fixed event and counts how often it was polled.
type countingSource struct {
	ev    event.Event
	polls int
}

func (c *countingSource) Poll() event.Event {
	c.polls++

	return c.ev
}

// fallbackCounter records fallback notifications.
type fallbackCounter struct {
	metrics.NoopRecorder

	fallbacks map[metrics.FallbackLabel]int
}

func (f *fallbackCounter) IncLookupFallback(label metrics.FallbackLabel) {
	f.fallbacks[label]++
}

// scenarioTable builds ShowCurrentTime <-> SetCurrentTime with a 5s idle timer and a minutes counter.
func scenarioTable(t *testing.T, r *rig, minutes *int, churns *int) *fsm.Table {
	t.Helper()

	armTimer := fsm.TransitionFunc(func(context.Context, event.Event) {
		r.timer.Start(5_000_000)
	})
	adjust := fsm.TransitionFunc(func(_ context.Context, ev event.Event) {
		*minutes += int(ev.Magnitude)
		r.timer.Restart()
	})
	churn := fsm.ChurnFunc(func(context.Context) {
		*churns++
	})

	table, err := fsm.NewDefinition().
		State(fsm.ShowCurrentTime, churn).
		State(fsm.SetCurrentTime, churn).
		Transition(fsm.ShowCurrentTime, event.ButtonPress, fsm.SetCurrentTime, armTimer).
		Transition(fsm.ShowCurrentTime, event.Rotation, fsm.ShowCurrentTime, nil).
		Transition(fsm.SetCurrentTime, event.Rotation, fsm.SetCurrentTime, adjust).
		Transition(fsm.SetCurrentTime, event.ButtonPress, fsm.ShowCurrentTime, nil).
		Transition(fsm.SetCurrentTime, event.Timeout, fsm.ShowCurrentTime, nil).
		Build()
	require.NoError(t, err)

	return table
}

// TestSetup_Validation covers the Setup error paths.
func TestSetup_Validation(t *testing.T) {
	t.Parallel()

	r := newRig(0)
	table := scenarioTable(t, r, new(int), new(int))

	s := New(r.sources())

	_, err := s.Step(context.Background())
	require.ErrorIs(t, err, ErrNotSetUp)
	require.ErrorIs(t, s.Run(context.Background()), ErrNotSetUp)

	require.Error(t, s.Setup(nil, fsm.ShowCurrentTime))
	require.ErrorIs(t, s.Setup(table, fsm.Invalid), fsm.ErrStateNotFound)
	require.ErrorIs(t, s.Setup(table, fsm.ToggleAlarm), fsm.ErrStateNotFound)

	require.NoError(t, s.Setup(table, fsm.ShowCurrentTime))
	require.ErrorIs(t, s.Setup(table, fsm.ShowCurrentTime), ErrAlreadySetUp)
	require.Equal(t, fsm.ShowCurrentTime, s.Current())
}

// TestStep_ChurnRunsEveryCycle ensures churn runs with and without events and idle cycles keep the state.
func TestStep_ChurnRunsEveryCycle(t *testing.T) {
	t.Parallel()

	var minutes, churns int

	r := newRig(0)
	s := New(r.sources())
	require.NoError(t, s.Setup(scenarioTable(t, r, &minutes, &churns), fsm.ShowCurrentTime))

	for range 5 {
		dispatched, err := s.Step(context.Background())
		require.NoError(t, err)
		require.False(t, dispatched)
	}

	require.Equal(t, 5, churns)
	require.Equal(t, fsm.ShowCurrentTime, s.Current())

	r.click(10)

	dispatched, err := s.Step(context.Background())
	require.NoError(t, err)
	require.True(t, dispatched)
	require.Equal(t, 6, churns)
}

// TestStep_PriorityOrder verifies that a firing source stops polling of lower-priority ones.
func TestStep_PriorityOrder(t *testing.T) {
	t.Parallel()

	button := &countingSource{ev: event.Event{Kind: event.ButtonPress}}
	rotation := &countingSource{ev: event.Event{Kind: event.Rotation, Magnitude: 1}}
	timer := &countingSource{ev: event.Event{Kind: event.Timeout}}

	table, err := fsm.NewDefinition().
		State(fsm.ShowCurrentTime, nil).
		Transition(fsm.ShowCurrentTime, event.ButtonPress, fsm.ShowCurrentTime, nil).
		Transition(fsm.ShowCurrentTime, event.Rotation, fsm.ShowCurrentTime, nil).
		Transition(fsm.ShowCurrentTime, event.Timeout, fsm.ShowCurrentTime, nil).
		Build()
	require.NoError(t, err)

	s := New(Sources{Button: button, Rotation: rotation, Timer: timer})
	require.NoError(t, s.Setup(table, fsm.ShowCurrentTime))

	_, err = s.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, event.ButtonPress, s.LastEvent().Kind)
	require.Equal(t, 1, button.polls)
	require.Zero(t, rotation.polls)
	require.Zero(t, timer.polls)

	button.ev = event.Event{}

	_, err = s.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, event.Rotation, s.LastEvent().Kind)
	require.Zero(t, timer.polls)

	rotation.ev = event.Event{}

	_, err = s.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, event.Timeout, s.LastEvent().Kind)
	require.Equal(t, 3, button.polls)
	require.Equal(t, 2, rotation.polls)
	require.Equal(t, 1, timer.polls)
}

// TestStep_ButtonPreemptsRotationWithoutLoss checks the deferred rotation keeps its exact magnitude.
func TestStep_ButtonPreemptsRotationWithoutLoss(t *testing.T) {
	t.Parallel()

	var minutes, churns int

	r := newRig(0)
	s := New(r.sources())
	require.NoError(t, s.Setup(scenarioTable(t, r, &minutes, &churns), fsm.ShowCurrentTime))

	r.ticks.Add(3)
	r.click(100)

	_, err := s.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, event.ButtonPress, s.LastEvent().Kind)
	require.Equal(t, fsm.SetCurrentTime, s.Current())
	require.Equal(t, int32(3), r.ticks.Load(), "rotation must not be consumed this cycle")

	_, err = s.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, event.Rotation, s.LastEvent().Kind)
	require.Equal(t, int32(3), s.LastEvent().Magnitude)
	require.Equal(t, 3, minutes)

	dispatched, err := s.Step(context.Background())
	require.NoError(t, err)
	require.False(t, dispatched, "no double count")
	require.Equal(t, 3, minutes)
}

// TestScenario_SetTimeTimesOut covers a press entering set mode and the 5s timeout leaving it.
func TestScenario_SetTimeTimesOut(t *testing.T) {
	t.Parallel()

	var minutes, churns int

	r := newRig(1_000)
	s := New(r.sources())
	require.NoError(t, s.Setup(scenarioTable(t, r, &minutes, &churns), fsm.ShowCurrentTime))

	r.click(2_000)

	_, err := s.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, fsm.SetCurrentTime, s.Current())
	require.True(t, r.timer.Armed())
	require.Equal(t, uint32(5_000_000), r.timer.Delay())

	r.clock.Set(2_000 + 5_000_000)

	dispatched, err := s.Step(context.Background())
	require.NoError(t, err)
	require.False(t, dispatched)
	require.Equal(t, fsm.SetCurrentTime, s.Current())

	r.clock.Advance(1)

	dispatched, err = s.Step(context.Background())
	require.NoError(t, err)
	require.True(t, dispatched)
	require.Equal(t, event.Timeout, s.LastEvent().Kind)
	require.Equal(t, fsm.ShowCurrentTime, s.Current())
	require.False(t, r.timer.Armed())
}

// TestScenario_RotationAdjustsInPlace verifies a +1 rotation runs the action without leaving the state.
func TestScenario_RotationAdjustsInPlace(t *testing.T) {
	t.Parallel()

	var minutes, churns int

	var seen []fsm.State

	r := newRig(0)
	s := New(r.sources(), WithObserver(func(_, to fsm.State, _ event.Event) {
		seen = append(seen, to)
	}))
	require.NoError(t, s.Setup(scenarioTable(t, r, &minutes, &churns), fsm.SetCurrentTime))

	r.ticks.Add(1)

	_, err := s.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, minutes)
	require.Equal(t, fsm.SetCurrentTime, s.Current())
	require.Equal(t, []fsm.State{fsm.SetCurrentTime}, seen)
}

// TestScenario_PressAfterWraparound ensures an event stamped before the previous one is processed once.
func TestScenario_PressAfterWraparound(t *testing.T) {
	t.Parallel()

	var minutes, churns int

	r := newRig(math.MaxUint32 - 50)
	s := New(r.sources())
	require.NoError(t, s.Setup(scenarioTable(t, r, &minutes, &churns), fsm.ShowCurrentTime))

	r.ticks.Add(1)

	_, err := s.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint32(math.MaxUint32-50), s.LastEvent().Timestamp)

	r.click(20) // The clock wrapped since the rotation.

	dispatched, err := s.Step(context.Background())
	require.NoError(t, err)
	require.True(t, dispatched)
	require.Equal(t, event.ButtonPress, s.LastEvent().Kind)
	require.Equal(t, uint32(20), s.LastEvent().Timestamp)
	require.Equal(t, fsm.SetCurrentTime, s.Current())

	dispatched, err = s.Step(context.Background())
	require.NoError(t, err)
	require.False(t, dispatched)
	require.Equal(t, fsm.SetCurrentTime, s.Current())
}

// TestStep_StrictMissingTransition ensures an unhandled event fails the cycle under the strict policy.
func TestStep_StrictMissingTransition(t *testing.T) {
	t.Parallel()

	var minutes, churns int

	r := newRig(0)
	s := New(r.sources())
	require.NoError(t, s.Setup(scenarioTable(t, r, &minutes, &churns), fsm.ShowCurrentTime))

	r.timer.Start(0)
	r.clock.Advance(1)

	dispatched, err := s.Step(context.Background())
	require.True(t, dispatched)
	require.ErrorIs(t, err, fsm.ErrTransitionNotFound)
	require.Equal(t, fsm.ShowCurrentTime, s.Current())

	r.timer.Start(0)
	r.clock.Advance(1)
	require.ErrorIs(t, s.Run(context.Background()), fsm.ErrTransitionNotFound)
}

// TestStep_FallbackMissingTransition reproduces the firmware's substitution of transition 0.
func TestStep_FallbackMissingTransition(t *testing.T) {
	t.Parallel()

	r := newRig(0)
	counter := &fallbackCounter{fallbacks: make(map[metrics.FallbackLabel]int)}

	table, err := fsm.NewDefinition().
		State(fsm.ShowCurrentTime, nil).
		State(fsm.SetCurrentTime, nil).
		Transition(fsm.ShowCurrentTime, event.ButtonPress, fsm.SetCurrentTime, nil).
		Build(fsm.WithPolicy(fsm.PolicyFallback))
	require.NoError(t, err)

	s := New(r.sources(), WithRecorder(counter))
	require.NoError(t, s.Setup(table, fsm.ShowCurrentTime))

	r.ticks.Add(2)

	dispatched, err := s.Step(context.Background())
	require.NoError(t, err)
	require.True(t, dispatched)
	require.Equal(t, fsm.SetCurrentTime, s.Current(), "rotation aliased to the button transition")
	require.Equal(t, 1, counter.fallbacks[metrics.FallbackTransition])

	// SetCurrentTime has no transitions at all: nothing to fall back to.
	r.ticks.Add(1)

	_, err = s.Step(context.Background())
	require.ErrorIs(t, err, fsm.ErrTransitionNotFound)
}

// TestRun_StopsOnCancel drives the loop in a bubble with fake time and stops it through the context.
func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var minutes, churns int

		r := newRig(0)
		s := New(r.sources(), WithIdleYield(10*time.Millisecond))
		require.NoError(t, s.Setup(scenarioTable(t, r, &minutes, &churns), fsm.ShowCurrentTime))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)

		go func() {
			done <- s.Run(ctx)
		}()

		// The loop is now parked in its idle sleep.
		synctest.Wait()
		require.Equal(t, fsm.ShowCurrentTime, s.Current())

		r.click(500)
		time.Sleep(10 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, fsm.SetCurrentTime, s.Current())

		r.ticks.Add(2)
		time.Sleep(10 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, event.Rotation, s.LastEvent().Kind)

		cancel()
		require.NoError(t, <-done)
	})
}

// TestRun_CancelledContextReturnsImmediately ensures Run exits before any cycle when already cancelled.
func TestRun_CancelledContextReturnsImmediately(t *testing.T) {
	t.Parallel()

	var minutes, churns int

	r := newRig(0)
	s := New(r.sources(), WithIdleYield(0))
	require.NoError(t, s.Setup(scenarioTable(t, r, &minutes, &churns), fsm.ShowCurrentTime))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.Run(ctx))
	require.Zero(t, churns)
}
