// Package deskclock is the desk clock application: the four screens of the
// clock expressed as a transition table, the controller whose actions drive
// the display, and the command that wires the simulated board, the event
// sources and the scheduler together.
package deskclock
