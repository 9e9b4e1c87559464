// Package display declares the rendering collaborator driven by churn and
// transition actions, and provides a terminal implementation.
package display

// Display renders the clock's screens. Calls must be cheap and non-blocking:
// churn actions call them on every scheduler cycle.
type Display interface {
	// RenderTime shows a time of day.
	RenderTime(hours, minutes int)
	// RenderAlarmStatus shows whether the alarm is armed.
	RenderAlarmStatus(enabled bool)
	// Clear blanks the screen.
	Clear()
}
