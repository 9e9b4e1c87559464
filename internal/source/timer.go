package source

import (
	"sync"
	"time"

	"github.com/oshokin/desk-clock/internal/clock"
	"github.com/oshokin/desk-clock/internal/event"
)

// TimerSource is a single-shot countdown armed and cancelled by FSM actions.
type TimerSource struct {
	clock clock.Source

	// mu guards the fields below; the host may cancel from outside the loop.
	mu sync.Mutex
	// armed is true between Start and either firing or Cancel.
	armed bool
	// delay is the configured countdown in microseconds, reused by Restart.
	delay uint32
	// startedAt is the clock reading when the timer was last armed.
	startedAt uint32
}

// NewTimerSource creates an inactive timer with an initial delay used by Restart.
func NewTimerSource(c clock.Source, delay time.Duration) *TimerSource {
	return &TimerSource{
		clock: c,
		delay: clock.Micros(delay),
	}
}

// Start arms the timer to fire delayMicros from now and remembers the delay.
// Starting an armed timer moves its deadline; it never stacks timeouts.
func (t *TimerSource) Start(delayMicros uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.delay = delayMicros
	t.arm()
}

// StartAfter is Start with a duration.
func (t *TimerSource) StartAfter(d time.Duration) {
	t.Start(clock.Micros(d))
}

// Restart arms the timer with the previously configured delay.
func (t *TimerSource) Restart() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.arm()
}

// Cancel disarms the timer. Cancelling an inactive timer is a no-op.
func (t *TimerSource) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.armed = false
}

// Armed reports whether a timeout is pending.
func (t *TimerSource) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.armed
}

// Delay returns the configured delay in microseconds.
func (t *TimerSource) Delay() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.delay
}

// Poll implements event.Source. It fires once, after more than the delay has elapsed.
func (t *TimerSource) Poll() event.Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.armed {
		return event.Event{}
	}

	now := t.clock.NowMicros()
	if clock.Elapsed(t.startedAt, now) <= t.delay {
		return event.Event{}
	}

	t.armed = false

	return event.Event{
		Kind:      event.Timeout,
		Timestamp: now,
	}
}

func (t *TimerSource) arm() {
	t.armed = true
	t.startedAt = t.clock.NowMicros()
}
