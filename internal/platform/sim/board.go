package sim

import (
	"sync"
	"sync/atomic"
)

// Board simulates the button pin, the encoder and the pin-change interrupt.
type Board struct {
	// activeLow is the wiring of the button: pressed pulls the pin low.
	activeLow bool
	// level is the current pin level.
	level atomic.Bool
	// ticks accumulates encoder detents until the next Delta.
	ticks atomic.Int32

	// mu guards handlers.
	mu sync.Mutex
	// handlers run on every pin level change.
	handlers []func()
}

// NewBoard creates a board with the button released.
func NewBoard(activeLow bool) *Board {
	b := &Board{activeLow: activeLow}
	b.level.Store(activeLow)

	return b
}

// ReadPin implements platform.PinReader.
func (b *Board) ReadPin() bool {
	return b.level.Load()
}

// Delta implements platform.Decoder.
func (b *Board) Delta() int32 {
	return b.ticks.Swap(0)
}

// OnEdge implements platform.EdgeNotifier.
func (b *Board) OnEdge(handler func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, handler)
}

// Press drives the pin to its pressed level.
func (b *Board) Press() {
	b.setLevel(!b.activeLow)
}

// Release drives the pin to its released level.
func (b *Board) Release() {
	b.setLevel(b.activeLow)
}

// Pressed reports whether the button is held.
func (b *Board) Pressed() bool {
	return b.level.Load() != b.activeLow
}

// Rotate turns the encoder by n detents; negative is counter-clockwise.
func (b *Board) Rotate(n int32) {
	b.ticks.Add(n)
}

// setLevel changes the pin level and fires the interrupt handlers; no change, no interrupt.
func (b *Board) setLevel(level bool) {
	if b.level.Swap(level) == level {
		return
	}

	b.mu.Lock()
	handlers := append([]func(){}, b.handlers...)
	b.mu.Unlock()

	for _, handler := range handlers {
		handler()
	}
}
