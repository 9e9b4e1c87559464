package fsm

import (
	"context"

	"github.com/oshokin/desk-clock/internal/event"
)

// ChurnAction runs on every scheduler cycle while its state is active.
// Implementations must be idempotent under repeated calls and must not block.
type ChurnAction interface {
	Churn(ctx context.Context)
}

// TransitionAction runs exactly once when its transition is taken.
// It must not block; it may arm or cancel the timer source.
type TransitionAction interface {
	Transition(ctx context.Context, ev event.Event)
}

// ChurnFunc adapts a function to the ChurnAction interface.
type ChurnFunc func(ctx context.Context)

// Churn calls f.
func (f ChurnFunc) Churn(ctx context.Context) {
	f(ctx)
}

// TransitionFunc adapts a function to the TransitionAction interface.
type TransitionFunc func(ctx context.Context, ev event.Event)

// Transition calls f.
func (f TransitionFunc) Transition(ctx context.Context, ev event.Event) {
	f(ctx, ev)
}

// noop satisfies both action interfaces; it stands in for nil actions.
type noop struct{}

func (noop) Churn(context.Context)                   {}
func (noop) Transition(context.Context, event.Event) {}

// NoChurn is the churn action of states with nothing to refresh.
//
//nolint:gochecknoglobals // Stateless sentinel.
var NoChurn ChurnAction = noop{}

// NoAction is the action of transitions that only change state.
//
//nolint:gochecknoglobals // Stateless sentinel.
var NoAction TransitionAction = noop{}
