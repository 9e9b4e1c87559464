package fsm

import (
	"fmt"
	"strings"
)

// Policy decides what a lookup does when the table has no matching entry.
type Policy uint8

const (
	// PolicyStrict reports missing states and transitions as errors.
	PolicyStrict Policy = iota
	// PolicyFallback substitutes the first state or the first transition of the state.
	PolicyFallback
)

// String returns the policy name used in config files.
func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyFallback:
		return "fallback"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy converts a config name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict", "":
		return PolicyStrict, nil
	case "fallback":
		return PolicyFallback, nil
	default:
		return PolicyStrict, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}
