package deskclock

import (
	"sync/atomic"
	"time"

	"github.com/oshokin/desk-clock/internal/clock"
)

// Blinker alternates between visible and hidden phases of equal length.
// Asking repeatedly within a phase gives the same answer.
type Blinker struct {
	clock clock.Source
	// interval is the phase length in microseconds; zero never hides.
	interval uint32
	// start is the clock reading that began the current visible phase.
	start atomic.Uint32
}

// NewBlinker creates a blinker with the given phase length.
func NewBlinker(c clock.Source, interval time.Duration) *Blinker {
	b := &Blinker{
		clock:    c,
		interval: clock.Micros(interval),
	}
	b.Reset()

	return b
}

// Reset starts a visible phase now.
func (b *Blinker) Reset() {
	b.start.Store(b.clock.NowMicros())
}

// Visible reports whether the current phase shows the content.
func (b *Blinker) Visible() bool {
	if b.interval == 0 {
		return true
	}

	return (clock.Elapsed(b.start.Load(), b.clock.NowMicros())/b.interval)%2 == 0
}
