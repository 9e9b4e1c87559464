// Package alarm contains the core domain types of the desk clock.
//
// It defines TimeOfDay (a wall-clock reading with minute precision, wrapping
// at midnight) and State (the alarm time and whether the alarm is armed),
// with a Clone helper to avoid leaking internal references.
package alarm
