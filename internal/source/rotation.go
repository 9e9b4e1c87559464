package source

import (
	"github.com/oshokin/desk-clock/internal/clock"
	"github.com/oshokin/desk-clock/internal/event"
	"github.com/oshokin/desk-clock/internal/platform"
)

// RotationSource reports encoder movement as signed tick counts.
type RotationSource struct {
	clock   clock.Source
	decoder platform.Decoder
}

// NewRotationSource wraps a quadrature decoder.
func NewRotationSource(c clock.Source, decoder platform.Decoder) *RotationSource {
	return &RotationSource{
		clock:   c,
		decoder: decoder,
	}
}

// Poll implements event.Source. The decoder keeps accumulating between polls,
// so ticks are never lost when a higher-priority source wins a cycle.
func (r *RotationSource) Poll() event.Event {
	delta := r.decoder.Delta()
	if delta == 0 {
		return event.Event{}
	}

	return event.Event{
		Kind:      event.Rotation,
		Timestamp: r.clock.NowMicros(),
		Magnitude: delta,
	}
}
