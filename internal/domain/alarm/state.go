package alarm

// State is the alarm configuration at a point in time.
type State struct {
	// Time is when the alarm goes off.
	Time TimeOfDay
	// IsEnabled indicates whether the alarm is armed.
	IsEnabled bool
}

// Clone returns a copy of the state to avoid leaking internal references.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}

// Toggle flips IsEnabled and returns the new value.
func (s *State) Toggle() bool {
	s.IsEnabled = !s.IsEnabled

	return s.IsEnabled
}

// Shift moves the alarm time by n minutes.
func (s *State) Shift(n int) {
	s.Time = s.Time.AddMinutes(n)
}
