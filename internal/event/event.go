// Package event defines the tagged value exchanged between event sources and
// the scheduler, and the Source contract every producer satisfies.
package event

import "fmt"

// Kind tags an Event.
type Kind uint8

const (
	// None means no source fired this cycle.
	None Kind = iota
	// ButtonPress is a short press, reported on release.
	ButtonPress
	// LongButtonPress is a press held at least the long-press threshold.
	LongButtonPress
	// Timeout is reported once by an armed timer whose delay has elapsed.
	Timeout
	// Rotation carries a signed tick count in Magnitude.
	Rotation
)

// String returns the kebab-case name of the kind.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case ButtonPress:
		return "button-press"
	case LongButtonPress:
		return "long-button-press"
	case Timeout:
		return "timeout"
	case Rotation:
		return "rotation"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Kinds lists every kind a source can emit, in declaration order.
func Kinds() []Kind {
	return []Kind{ButtonPress, LongButtonPress, Timeout, Rotation}
}

// Event is produced by exactly one source per scheduling cycle.
type Event struct {
	// Kind tells which source fired and how.
	Kind Kind
	// Timestamp is the clock reading, in microseconds, at which the event happened.
	Timestamp uint32
	// Magnitude is the signed tick count of a Rotation; zero otherwise.
	Magnitude int32
}

// IsNone reports whether e is the "no source fired" sentinel.
func (e Event) IsNone() bool {
	return e.Kind == None
}

// String renders the event for logs.
func (e Event) String() string {
	if e.Kind == Rotation {
		return fmt.Sprintf("%s(%+d)@%d", e.Kind, e.Magnitude, e.Timestamp)
	}

	return fmt.Sprintf("%s@%d", e.Kind, e.Timestamp)
}

// Source is a pollable event producer. Poll must not block.
type Source interface {
	Poll() Event
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() Event

// Poll calls f.
func (f SourceFunc) Poll() Event {
	return f()
}
