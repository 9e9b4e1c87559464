// Package sim is a host stand-in for the clock's board: a push-button pin,
// a rotary encoder and edge interrupts backed by memory, plus a keyboard
// driver that operates them from a terminal in raw mode.
package sim
