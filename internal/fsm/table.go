package fsm

import (
	"fmt"

	"github.com/oshokin/desk-clock/internal/event"
)

// Transition is one (event, next state, action) tuple of a state.
type Transition struct {
	// On is the event kind that triggers the transition.
	On event.Kind
	// Next is the state entered after Action returns.
	Next State
	// Action runs with the triggering event.
	Action TransitionAction
}

// StateDescriptor is the table entry of one state.
type StateDescriptor struct {
	// State is the identity the entry is looked up by.
	State State
	// Churn runs every cycle while State is current.
	Churn ChurnAction
	// Transitions are searched in order; the first matching entry wins.
	Transitions []Transition
}

// Table is the immutable transition table.
type Table struct {
	// byState maps a state to its declaration index.
	byState map[State]int
	// entries keeps declaration order; index 0 is the fallback entry.
	entries []*StateDescriptor
	// policy governs missing entries.
	policy Policy
}

// Resolution is the outcome of looking up the transition for a state and an event kind.
type Resolution struct {
	// From is the entry of the state the event was dispatched in.
	From *StateDescriptor
	// Transition is the transition to take.
	Transition Transition
	// StateFallback is true when From was substituted for a missing state.
	StateFallback bool
	// TransitionFallback is true when Transition was substituted for a missing event kind.
	TransitionFallback bool
}

// Policy returns the lookup policy of the table.
func (t *Table) Policy() Policy {
	return t.policy
}

// Len returns the number of states in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// At returns the entry at a declaration index.
func (t *Table) At(index int) *StateDescriptor {
	return t.entries[index]
}

// States returns the table's states in declaration order.
func (t *Table) States() []State {
	states := make([]State, 0, len(t.entries))
	for _, entry := range t.entries {
		states = append(states, entry.State)
	}

	return states
}

// Index returns the declaration index of s, or -1 when s has no entry.
func (t *Table) Index(s State) int {
	if index, ok := t.byState[s]; ok {
		return index
	}

	return -1
}

// FindStateIndex returns the index of the entry for s.
// The boolean result reports that the fallback entry was substituted.
func (t *Table) FindStateIndex(s State) (int, bool, error) {
	if index, ok := t.byState[s]; ok {
		return index, false, nil
	}

	if t.policy == PolicyFallback {
		return 0, true, nil
	}

	return -1, false, fmt.Errorf("%w: %s", ErrStateNotFound, s)
}

// FindTransitionIndex returns the index of the first transition of the entry at
// stateIndex triggered by kind. The boolean result reports that transition 0 was substituted.
// A state without transitions has nothing to fall back to.
func (t *Table) FindTransitionIndex(stateIndex int, kind event.Kind) (int, bool, error) {
	if stateIndex < 0 || stateIndex >= len(t.entries) {
		return -1, false, fmt.Errorf("%w: index %d", ErrStateNotFound, stateIndex)
	}

	entry := t.entries[stateIndex]
	for i, tr := range entry.Transitions {
		if tr.On == kind {
			return i, false, nil
		}
	}

	if t.policy == PolicyFallback && len(entry.Transitions) > 0 {
		return 0, true, nil
	}

	return -1, false, fmt.Errorf("%w: %s on %s", ErrTransitionNotFound, entry.State, kind)
}

// FindState returns the entry for s, following the table's policy.
func (t *Table) FindState(s State) (*StateDescriptor, bool, error) {
	index, fallback, err := t.FindStateIndex(s)
	if err != nil {
		return nil, false, err
	}

	return t.entries[index], fallback, nil
}

// Resolve finds the transition to take when kind happens in state s.
func (t *Table) Resolve(s State, kind event.Kind) (Resolution, error) {
	stateIndex, stateFallback, err := t.FindStateIndex(s)
	if err != nil {
		return Resolution{}, err
	}

	transitionIndex, transitionFallback, err := t.FindTransitionIndex(stateIndex, kind)
	if err != nil {
		return Resolution{}, err
	}

	from := t.entries[stateIndex]

	return Resolution{
		From:               from,
		Transition:         from.Transitions[transitionIndex],
		StateFallback:      stateFallback,
		TransitionFallback: transitionFallback,
	}, nil
}
