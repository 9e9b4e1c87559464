// Package scheduler runs the desk clock's control loop.
//
// Each cycle runs the churn action of the current state, then polls the
// button, the rotation and the timer sources in that order, stopping at the
// first one that yields an event. The event selects a transition from the
// table; its action runs and the state advances. Sources not polled in a cycle
// keep their signal for the next one. Dispatch is strictly single-threaded:
// only the goroutine calling Run (or Step) touches the current state and runs
// actions.
//
// When no source fires the loop yields instead of spinning: it sleeps for the
// configured idle period, or calls runtime.Gosched when the period is zero.
package scheduler
