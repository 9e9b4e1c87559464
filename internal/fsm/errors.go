package fsm

import "errors"

var (
	// ErrStateNotFound is returned when a state has no table entry.
	ErrStateNotFound = errors.New("state not found")
	// ErrTransitionNotFound is returned when a state has no transition for an event kind.
	ErrTransitionNotFound = errors.New("transition not found")
	// ErrInvalidDefinition is returned by Build when the definition is inconsistent.
	ErrInvalidDefinition = errors.New("invalid state machine definition")
	// ErrUnknownState is returned when parsing an unrecognised state name.
	ErrUnknownState = errors.New("unknown state")
	// ErrUnknownPolicy is returned when parsing an unrecognised policy name.
	ErrUnknownPolicy = errors.New("unknown lookup policy")
)
