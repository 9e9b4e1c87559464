package alarm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestStateClone verifies that Clone copies fields, returns a new pointer and handles nil.
func TestStateClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*State)(nil).Clone())

	s := &State{
		Time:      TimeOfDay{Hours: 7, Minutes: 30},
		IsEnabled: true,
	}

	c := s.Clone()
	require.Equal(t, s, c)
	require.NotSame(t, s, c)

	c.Shift(1)
	require.Equal(t, 30, s.Time.Minutes)
}

// TestStateToggle flips the enabled flag back and forth.
func TestStateToggle(t *testing.T) {
	t.Parallel()

	var s State

	require.True(t, s.Toggle())
	require.True(t, s.IsEnabled)
	require.False(t, s.Toggle())
}

// TestAddMinutes covers carry into hours and wraparound at midnight in both directions.
func TestAddMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		start TimeOfDay
		delta int
		want  TimeOfDay
	}{
		{name: "carry", start: TimeOfDay{10, 59}, delta: 1, want: TimeOfDay{11, 0}},
		{name: "midnight", start: TimeOfDay{23, 59}, delta: 1, want: TimeOfDay{0, 0}},
		{name: "backward", start: TimeOfDay{0, 0}, delta: -1, want: TimeOfDay{23, 59}},
		{name: "borrow", start: TimeOfDay{11, 0}, delta: -1, want: TimeOfDay{10, 59}},
		{name: "whole day", start: TimeOfDay{5, 5}, delta: MinutesPerDay, want: TimeOfDay{5, 5}},
		{name: "several days back", start: TimeOfDay{5, 5}, delta: -3*MinutesPerDay - 6, want: TimeOfDay{4, 59}},
		{name: "zero", start: TimeOfDay{12, 34}, delta: 0, want: TimeOfDay{12, 34}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.start.AddMinutes(tt.delta))
		})
	}
}

// TestParseTimeOfDay accepts HH:MM and rejects out-of-range or malformed input.
func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	tod, err := ParseTimeOfDay("07:05")
	require.NoError(t, err)
	require.Equal(t, TimeOfDay{Hours: 7, Minutes: 5}, tod)

	tod, err = ParseTimeOfDay("9:45")
	require.NoError(t, err)
	require.Equal(t, "09:45", tod.String())

	for _, bad := range []string{"", "24:00", "12:60", "-1:10", "12", "12:3x", "noon", "07:5", "+7:05", "7:-5", "007:05", "07:055", " 7:05"} {
		_, err = ParseTimeOfDay(bad)
		require.ErrorIs(t, err, errInvalidTimeOfDay, bad)
	}
}

// TestTimeOfDayYAML ensures the HH:MM form is used in config files.
func TestTimeOfDayYAML(t *testing.T) {
	t.Parallel()

	var doc struct {
		Time TimeOfDay `yaml:"time"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("time: \"06:45\"\n"), &doc))
	require.Equal(t, TimeOfDay{Hours: 6, Minutes: 45}, doc.Time)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	require.Contains(t, string(out), "06:45")

	_, err = TimeOfDay{Hours: 25}.MarshalText()
	require.Error(t, err)
}
