// Package source implements the three event producers polled by the scheduler:
// the push-button, the rotary encoder and the single-shot software timer.
//
// Sources never block. The button is the only one written from outside the
// scheduler goroutine (its edge handler runs in interrupt context), so its
// shared state is held in a Latch: one atomic word, overwritten by the edge
// handler and read-and-cleared by Poll.
package source
