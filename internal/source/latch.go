package source

import "sync/atomic"

// Edge is the direction of the most recent button level change.
type Edge uint8

const (
	// NoChange means nothing is pending.
	NoChange Edge = iota
	// Pressed means the button went down.
	Pressed
	// Released means the button came up.
	Released
)

// String returns the edge name.
func (e Edge) String() string {
	switch e {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return "no-change"
	}
}

// Latch is a single-slot, overwrite-on-write cell holding the latest edge,
// the time it happened and whether a release ended a long hold. All three share
// one 64-bit word, so a reader never observes the direction of one edge with
// the time or hold of another.
// A newer edge replaces an unread one (last write wins; missed edges are not queued).
type Latch struct {
	word atomic.Uint64
}

const (
	edgeMask = 0xff
	longHold = uint64(1) << 8
)

// Store records an edge observed at the given clock reading.
func (l *Latch) Store(edge Edge, at uint32) {
	l.word.Store(uint64(at)<<32 | uint64(edge))
}

// StoreRelease records a release edge together with the hold classification.
func (l *Latch) StoreRelease(at uint32, long bool) {
	w := uint64(at)<<32 | uint64(Released)
	if long {
		w |= longHold
	}

	l.word.Store(w)
}

// Take returns the pending edge and resets the latch to NoChange in a single atomic step.
func (l *Latch) Take() (Edge, uint32) {
	edge, at, _ := l.TakeHold()

	return edge, at
}

// TakeHold is Take that also reports whether a pending release ended a long hold.
func (l *Latch) TakeHold() (Edge, uint32, bool) {
	w := l.word.Swap(0)

	return Edge(w & edgeMask), uint32(w >> 32), w&longHold != 0 //nolint:gosec // Upper half holds the timestamp.
}

// Peek returns the pending edge without consuming it.
func (l *Latch) Peek() (Edge, uint32) {
	w := l.word.Load()

	return Edge(w & edgeMask), uint32(w >> 32) //nolint:gosec // Upper half holds the timestamp.
}
