package fsm

import (
	"fmt"
	"strings"
)

// State identifies an application state.
type State uint8

const (
	// Invalid is the not-found marker. It is never a table key.
	Invalid State = iota
	// ShowCurrentTime displays the time of day.
	ShowCurrentTime
	// SetCurrentTime lets the encoder adjust the time of day.
	SetCurrentTime
	// ShowAlarmTime displays and adjusts the alarm time.
	ShowAlarmTime
	// ToggleAlarm displays the alarm status and flips it on button presses.
	ToggleAlarm
)

// stateNames holds the kebab-case names used in logs and config files.
//
//nolint:gochecknoglobals // Read-only lookup table.
var stateNames = map[State]string{
	Invalid:         "invalid",
	ShowCurrentTime: "show-current-time",
	SetCurrentTime:  "set-current-time",
	ShowAlarmTime:   "show-alarm-time",
	ToggleAlarm:     "toggle-alarm",
}

// States lists every valid state in declaration order.
func States() []State {
	return []State{ShowCurrentTime, SetCurrentTime, ShowAlarmTime, ToggleAlarm}
}

// String returns the kebab-case name of s.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("state(%d)", uint8(s))
}

// ParseState converts a name back into a State. Invalid is not accepted.
func ParseState(name string) (State, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	for _, s := range States() {
		if stateNames[s] == name {
			return s, nil
		}
	}

	return Invalid, fmt.Errorf("%w: %q", ErrUnknownState, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}
