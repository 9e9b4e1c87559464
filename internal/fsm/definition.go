package fsm

import (
	"errors"
	"fmt"

	"github.com/oshokin/desk-clock/internal/event"
)

// pendingTransition is a transition recorded before its source state is known to exist.
type pendingTransition struct {
	from State
	Transition
}

// Definition collects states and transitions before building a Table.
type Definition struct {
	states      []*StateDescriptor
	transitions []pendingTransition
}

// TableOption configures the Table produced by Build.
type TableOption func(*Table)

// WithPolicy sets the lookup policy of the table. The default is PolicyStrict.
func WithPolicy(p Policy) TableOption {
	return func(t *Table) {
		t.policy = p
	}
}

// NewDefinition creates an empty definition.
func NewDefinition() *Definition {
	return new(Definition)
}

// State declares a state with its churn action. A nil churn action does nothing.
// Declaration order matters: the first state is the fallback entry.
func (d *Definition) State(s State, churn ChurnAction) *Definition {
	if churn == nil {
		churn = NoChurn
	}

	d.states = append(d.states, &StateDescriptor{
		State: s,
		Churn: churn,
	})

	return d
}

// Transition appends a transition to the list of state from.
// A nil action only changes state.
func (d *Definition) Transition(from State, on event.Kind, next State, action TransitionAction) *Definition {
	if action == nil {
		action = NoAction
	}

	d.transitions = append(d.transitions, pendingTransition{
		from: from,
		Transition: Transition{
			On:     on,
			Next:   next,
			Action: action,
		},
	})

	return d
}

// Build validates the definition and produces an immutable Table.
func (d *Definition) Build(opts ...TableOption) (*Table, error) {
	table := &Table{
		byState: make(map[State]int, len(d.states)),
		entries: make([]*StateDescriptor, 0, len(d.states)),
	}

	for _, opt := range opts {
		opt(table)
	}

	var problems []error

	if len(d.states) == 0 {
		problems = append(problems, errors.New("no states declared"))
	}

	for _, declared := range d.states {
		if declared.State == Invalid {
			problems = append(problems, errors.New("the invalid state cannot be declared"))

			continue
		}

		if _, ok := table.byState[declared.State]; ok {
			problems = append(problems, fmt.Errorf("state %s declared twice", declared.State))

			continue
		}

		// Copy so later changes to the definition cannot reach the table.
		entry := &StateDescriptor{
			State: declared.State,
			Churn: declared.Churn,
		}

		table.byState[entry.State] = len(table.entries)
		table.entries = append(table.entries, entry)
	}

	for _, pending := range d.transitions {
		index, ok := table.byState[pending.from]
		if !ok {
			problems = append(problems, fmt.Errorf("transition on %s from undeclared state %s", pending.On, pending.from))

			continue
		}

		if _, ok = table.byState[pending.Next]; !ok {
			problems = append(problems, fmt.Errorf("transition on %s from %s to undeclared state %s",
				pending.On, pending.from, pending.Next))

			continue
		}

		if pending.On == event.None {
			problems = append(problems, fmt.Errorf("transition from %s cannot be triggered by %s", pending.from, pending.On))

			continue
		}

		entry := table.entries[index]
		entry.Transitions = append(entry.Transitions, pending.Transition)
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, errors.Join(problems...))
	}

	return table, nil
}
