package metrics

import "time"

// FallbackLabel tells which lookup fell back to the first table entry.
type FallbackLabel string

const (
	FallbackState      FallbackLabel = "state"
	FallbackTransition FallbackLabel = "transition"
)

// Recorder defines the scheduler's observability hooks. Implementations must be
// cheap: IncCycle runs on every loop iteration.
type Recorder interface {
	IncCycle()
	IncEvent(kind string)
	IncTransition(from, to string)
	IncLookupFallback(label FallbackLabel)
	ObserveDispatchDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are disabled).
type NoopRecorder struct{}

func (NoopRecorder) IncCycle()                             {}
func (NoopRecorder) IncEvent(string)                       {}
func (NoopRecorder) IncTransition(string, string)          {}
func (NoopRecorder) IncLookupFallback(FallbackLabel)       {}
func (NoopRecorder) ObserveDispatchDuration(time.Duration) {}
