package clock

import (
	"sync/atomic"
	"time"
)

// Source exposes monotonic elapsed time in microseconds.
type Source interface {
	NowMicros() uint32
}

// Elapsed returns the number of microseconds from start to now, accounting for wraparound.
func Elapsed(start, now uint32) uint32 {
	return now - start
}

// Micros converts d to a microsecond count, saturating at the uint32 range.
func Micros(d time.Duration) uint32 {
	us := d.Microseconds()

	switch {
	case us <= 0:
		return 0
	case us > int64(^uint32(0)):
		return ^uint32(0)
	default:
		return uint32(us)
	}
}

// Monotonic reads the host's monotonic clock relative to its creation time.
type Monotonic struct {
	// start anchors the monotonic reading.
	start time.Time
	// offset is added to every reading; used to start close to the wrap point.
	offset uint32
}

// MonotonicOption configures a Monotonic clock.
type MonotonicOption func(*Monotonic)

// WithOffset starts the counter at the given value instead of zero.
func WithOffset(offset uint32) MonotonicOption {
	return func(m *Monotonic) {
		m.offset = offset
	}
}

// NewMonotonic creates a clock whose zero is the moment of the call.
func NewMonotonic(opts ...MonotonicOption) *Monotonic {
	m := &Monotonic{
		start: time.Now(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// NowMicros implements Source. The truncation to 32 bits is the wraparound.
func (m *Monotonic) NowMicros() uint32 {
	return uint32(time.Since(m.start).Microseconds()) + m.offset //nolint:gosec // Wraparound is intended.
}

// Manual is a clock that only moves when told to. It is safe for concurrent use.
type Manual struct {
	now atomic.Uint32
}

// NewManual creates a manual clock reading start.
func NewManual(start uint32) *Manual {
	m := new(Manual)
	m.now.Store(start)

	return m
}

// NowMicros implements Source.
func (m *Manual) NowMicros() uint32 {
	return m.now.Load()
}

// Set moves the clock to an absolute reading.
func (m *Manual) Set(us uint32) {
	m.now.Store(us)
}

// Advance moves the clock forward by us microseconds, wrapping at 2^32.
func (m *Manual) Advance(us uint32) uint32 {
	return m.now.Add(us)
}
