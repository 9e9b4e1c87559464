package alarm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MinutesPerHour is the number of minutes in an hour.
	MinutesPerHour = 60
	// HoursPerDay is the number of hours in a day.
	HoursPerDay = 24
	// MinutesPerDay is the length of the TimeOfDay cycle.
	MinutesPerDay = MinutesPerHour * HoursPerDay
)

// errInvalidTimeOfDay is returned when a HH:MM string cannot be parsed.
var errInvalidTimeOfDay = errors.New("invalid time of day")

// TimeOfDay is a clock reading with minute precision.
type TimeOfDay struct {
	// Hours is in [0, 23].
	Hours int
	// Minutes is in [0, 59].
	Minutes int
}

// FromMinutes builds a TimeOfDay from minutes since midnight, wrapping in both directions.
func FromMinutes(total int) TimeOfDay {
	total %= MinutesPerDay
	if total < 0 {
		total += MinutesPerDay
	}

	return TimeOfDay{
		Hours:   total / MinutesPerHour,
		Minutes: total % MinutesPerHour,
	}
}

// FromTime returns the hour and minute of t in its location.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay{
		Hours:   t.Hour(),
		Minutes: t.Minute(),
	}
}

// ParseTimeOfDay parses "HH:MM" (or "H:MM"). Minutes always take two digits.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	hours, minutes, ok := strings.Cut(value, ":")
	if !ok || len(hours) < 1 || len(hours) > 2 || len(minutes) != 2 || !isDigits(hours) || !isDigits(minutes) {
		return TimeOfDay{}, fmt.Errorf("%w: %q", errInvalidTimeOfDay, value)
	}

	// Both parts are one or two ASCII digits, so Atoi cannot fail.
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)

	tod := TimeOfDay{Hours: h, Minutes: m}
	if !tod.Valid() {
		return TimeOfDay{}, fmt.Errorf("%w: %q", errInvalidTimeOfDay, value)
	}

	return tod, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// Valid reports whether both fields are in range.
func (t TimeOfDay) Valid() bool {
	return t.Hours >= 0 && t.Hours < HoursPerDay &&
		t.Minutes >= 0 && t.Minutes < MinutesPerHour
}

// TotalMinutes returns the minutes since midnight.
func (t TimeOfDay) TotalMinutes() int {
	return t.Hours*MinutesPerHour + t.Minutes
}

// AddMinutes shifts the time by n minutes; overflow carries into hours and wraps at midnight.
func (t TimeOfDay) AddMinutes(n int) TimeOfDay {
	return FromMinutes(t.TotalMinutes() + n)
}

// String returns the time as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hours, t.Minutes)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d:%d", errInvalidTimeOfDay, t.Hours, t.Minutes)
	}

	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}
