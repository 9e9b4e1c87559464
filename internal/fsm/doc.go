// Package fsm holds the desk clock's transition table.
//
// A Table is built once from a Definition and never changes afterwards. Each
// state carries a churn action, run on every scheduler cycle while the state
// is active, and an ordered list of transitions. Transition lookup is
// first-match-wins on declaration order, so a specific entry must precede a
// catch-all for the same event kind.
//
// Missing entries follow the table's Policy: PolicyStrict reports
// ErrStateNotFound / ErrTransitionNotFound, PolicyFallback substitutes the
// first entry (state 0, transition 0) the way the embedded firmware does.
// The fallback hides configuration mistakes; lookups report when it was taken.
package fsm
