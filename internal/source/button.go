package source

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/oshokin/desk-clock/internal/clock"
	"github.com/oshokin/desk-clock/internal/event"
	"github.com/oshokin/desk-clock/internal/platform"
)

// ButtonSource turns latched pin edges into press events.
//
// A press is reported when the button is released. With long-press detection
// enabled, a release that follows its press by at least the threshold yields
// LongButtonPress instead of ButtonPress; the state machine never sees the
// intermediate "held" phase. The hold is classified by the edge handler and
// travels in the latch with the release, so Poll reads one word.
//
// An edge inside the debounce window is dropped, but the source remembers it
// and Poll re-reads the pin once the window has closed. A release that lands
// inside the window is reported then instead of being lost.
type ButtonSource struct {
	// clock timestamps edges.
	clock clock.Source
	// pin is read by the edge handler to tell presses from releases.
	pin platform.PinReader
	// latch holds the latest unconsumed edge.
	latch Latch
	// mu guards the edge bookkeeping below, shared by HandleEdge and the settle in Poll.
	mu sync.Mutex
	// held is the level of the last accepted edge.
	held bool
	// pressedAt is the time of the last accepted press edge.
	pressedAt uint32
	// lastEdgeAt is the time of the last accepted edge, for debouncing.
	lastEdgeAt uint32
	// seen reports whether any edge has been accepted yet.
	seen bool
	// bounced is set while a dropped edge waits for the window to close.
	bounced atomic.Bool
	// activeLow means a low pin level is the pressed state (pull-up wiring).
	activeLow bool
	// longPress is the long-press threshold in microseconds; zero disables detection.
	longPress uint32
	// debounce is the minimum spacing of accepted edges in microseconds.
	debounce uint32
}

// ButtonOption configures a ButtonSource.
type ButtonOption func(*ButtonSource)

// WithLongPress enables long-press detection with the given threshold.
func WithLongPress(threshold time.Duration) ButtonOption {
	return func(b *ButtonSource) {
		b.longPress = clock.Micros(threshold)
	}
}

// WithDebounce ignores edges closer than window to the previous accepted edge.
func WithDebounce(window time.Duration) ButtonOption {
	return func(b *ButtonSource) {
		b.debounce = clock.Micros(window)
	}
}

// WithActiveLow selects the pin level that means "pressed".
func WithActiveLow(activeLow bool) ButtonOption {
	return func(b *ButtonSource) {
		b.activeLow = activeLow
	}
}

// NewButtonSource creates a button reading pin. Buttons are active-low by default.
func NewButtonSource(c clock.Source, pin platform.PinReader, opts ...ButtonOption) *ButtonSource {
	b := &ButtonSource{
		clock:     c,
		pin:       pin,
		activeLow: true,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Attach registers the edge handler with the platform.
func (b *ButtonSource) Attach(n platform.EdgeNotifier) {
	n.OnEdge(b.HandleEdge)
}

// HandleEdge is the interrupt handler: it samples the pin and latches the edge.
func (b *ButtonSource) HandleEdge() {
	now := b.clock.NowMicros()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.debounce > 0 && b.seen && clock.Elapsed(b.lastEdgeAt, now) < b.debounce {
		b.bounced.Store(true)

		return
	}

	b.accept(b.pin.ReadPin() != b.activeLow, now)
}

// Poll implements event.Source. The pending edge is consumed whether or not it yields an event.
func (b *ButtonSource) Poll() event.Event {
	if b.bounced.Load() {
		b.settle()
	}

	edge, at, long := b.latch.TakeHold()
	if edge != Released {
		return event.Event{}
	}

	kind := event.ButtonPress
	if long {
		kind = event.LongButtonPress
	}

	return event.Event{
		Kind:      kind,
		Timestamp: at,
	}
}

// settle re-reads the pin after a dropped edge once the debounce window has
// closed, and latches the level change the window swallowed, if any.
func (b *ButtonSource) settle() {
	now := b.clock.NowMicros()

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.bounced.Load() || clock.Elapsed(b.lastEdgeAt, now) < b.debounce {
		return
	}

	b.bounced.Store(false)

	if pressed := b.pin.ReadPin() != b.activeLow; pressed != b.held {
		b.accept(pressed, now)
	}
}

// accept records an edge to the given level. The caller holds mu.
func (b *ButtonSource) accept(pressed bool, now uint32) {
	wasHeld := b.held

	b.seen = true
	b.lastEdgeAt = now
	b.held = pressed
	b.bounced.Store(false)

	if pressed {
		b.pressedAt = now
		b.latch.Store(Pressed, now)

		return
	}

	long := wasHeld && b.longPress > 0 && clock.Elapsed(b.pressedAt, now) >= b.longPress
	b.latch.StoreRelease(now, long)
}

// Pending reports the unconsumed edge, if any.
func (b *ButtonSource) Pending() Edge {
	edge, _ := b.latch.Peek()

	return edge
}
