package deskclock

import (
	"sync"
	"time"

	domain "github.com/oshokin/desk-clock/internal/domain/alarm"
)

// Timekeeper keeps the time of day as the wall clock plus a user-set minute offset.
type Timekeeper struct {
	// now reads the wall clock.
	now func() time.Time
	// mu protects offset.
	mu sync.RWMutex
	// offset is added to the wall clock, in minutes.
	offset int
}

// NewTimekeeper creates a timekeeper on the given wall clock; nil selects time.Now.
func NewTimekeeper(now func() time.Time) *Timekeeper {
	if now == nil {
		now = time.Now
	}

	return &Timekeeper{now: now}
}

// Now returns the current time of day.
func (k *Timekeeper) Now() domain.TimeOfDay {
	k.mu.RLock()
	defer k.mu.RUnlock()

	return domain.FromTime(k.now()).AddMinutes(k.offset)
}

// Set makes the current time of day read t. Seconds keep following the wall clock.
func (k *Timekeeper) Set(t domain.TimeOfDay) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.offset = t.TotalMinutes() - domain.FromTime(k.now()).TotalMinutes()
}
