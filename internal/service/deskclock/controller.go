package deskclock

import (
	"context"
	"sync"
	"time"

	"github.com/oshokin/desk-clock/internal/display"
	domain "github.com/oshokin/desk-clock/internal/domain/alarm"
	"github.com/oshokin/desk-clock/internal/event"
	"github.com/oshokin/desk-clock/internal/logger"
	"github.com/oshokin/desk-clock/internal/source"
)

// ControllerConfig holds the collaborators of a Controller.
type ControllerConfig struct {
	// Display renders the screens.
	Display display.Display
	// Timekeeper keeps the time of day.
	Timekeeper *Timekeeper
	// Timer is the inactivity timer armed by the editing screens.
	Timer *source.TimerSource
	// Blinker paces the blinking time while it is being set.
	Blinker *Blinker
	// Alarm is the initial alarm.
	Alarm domain.State
	// SetTimeTimeout is the inactivity timeout of the time setting screen.
	SetTimeTimeout time.Duration
	// AlarmTimeout is the inactivity timeout of the alarm screens.
	AlarmTimeout time.Duration
}

// Controller owns the clock's data and implements the churn and transition
// actions of the table. Actions run on the scheduler goroutine; the accessors
// may be called from anywhere.
type Controller struct {
	display        display.Display
	keeper         *Timekeeper
	timer          *source.TimerSource
	blink          *Blinker
	setTimeTimeout time.Duration
	alarmTimeout   time.Duration

	// mu protects alarm and pending.
	mu sync.RWMutex
	// alarm is the current alarm.
	alarm *domain.State
	// pending is the time being edited on the time setting screen.
	pending domain.TimeOfDay
}

// NewController creates a controller from its collaborators.
func NewController(cfg *ControllerConfig) *Controller {
	initial := cfg.Alarm

	return &Controller{
		display:        cfg.Display,
		keeper:         cfg.Timekeeper,
		timer:          cfg.Timer,
		blink:          cfg.Blinker,
		setTimeTimeout: cfg.SetTimeTimeout,
		alarmTimeout:   cfg.AlarmTimeout,
		alarm:          &initial,
	}
}

// Alarm returns a copy of the current alarm.
func (c *Controller) Alarm() *domain.State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.alarm.Clone()
}

// Pending returns the time being edited.
func (c *Controller) Pending() domain.TimeOfDay {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.pending
}

// showTime renders the time of day.
func (c *Controller) showTime(context.Context) {
	now := c.keeper.Now()
	c.display.RenderTime(now.Hours, now.Minutes)
}

// blinkPending renders the edited time in the visible phase and blanks it in the hidden one.
func (c *Controller) blinkPending(context.Context) {
	if !c.blink.Visible() {
		c.display.Clear()

		return
	}

	pending := c.Pending()
	c.display.RenderTime(pending.Hours, pending.Minutes)
}

// showAlarmTime renders the alarm time.
func (c *Controller) showAlarmTime(context.Context) {
	current := c.Alarm()
	c.display.RenderTime(current.Time.Hours, current.Time.Minutes)
}

// showAlarmStatus renders whether the alarm is armed.
func (c *Controller) showAlarmStatus(context.Context) {
	c.display.RenderAlarmStatus(c.Alarm().IsEnabled)
}

// beginSetTime snapshots the time of day for editing.
func (c *Controller) beginSetTime(ctx context.Context, _ event.Event) {
	c.mu.Lock()
	c.pending = c.keeper.Now()
	c.mu.Unlock()

	c.blink.Reset()
	c.timer.StartAfter(c.setTimeTimeout)

	logger.DebugKV(ctx, "Setting time", "from", c.Pending().String())
}

// adjustPending moves the edited time by the rotation in minutes.
func (c *Controller) adjustPending(_ context.Context, ev event.Event) {
	c.mu.Lock()
	c.pending = c.pending.AddMinutes(int(ev.Magnitude))
	c.mu.Unlock()

	c.blink.Reset()
	c.timer.Restart()
}

// commitPending makes the edited time the time of day.
func (c *Controller) commitPending(ctx context.Context, _ event.Event) {
	c.timer.Cancel()

	pending := c.Pending()
	c.keeper.Set(pending)

	logger.InfoKV(ctx, "Time set", "time", pending.String())
}

// discardPending leaves the time of day untouched.
func (c *Controller) discardPending(ctx context.Context, _ event.Event) {
	logger.InfoKV(ctx, "Time setting timed out", "discarded", c.Pending().String())
}

// enterAlarm arms the inactivity timer of the alarm screens.
func (c *Controller) enterAlarm(context.Context, event.Event) {
	c.timer.StartAfter(c.alarmTimeout)
}

// toggleAlarm flips the alarm and arms the inactivity timer of the alarm screens.
func (c *Controller) toggleAlarm(ctx context.Context, _ event.Event) {
	c.mu.Lock()
	enabled := c.alarm.Toggle()
	c.mu.Unlock()

	c.timer.StartAfter(c.alarmTimeout)

	logger.InfoKV(ctx, "Alarm toggled", "is_enabled", enabled)
}

// shiftAlarm moves the alarm time by the rotation in minutes.
func (c *Controller) shiftAlarm(ctx context.Context, ev event.Event) {
	c.mu.Lock()
	c.alarm.Shift(int(ev.Magnitude))
	at := c.alarm.Time
	c.mu.Unlock()

	c.timer.Restart()

	logger.DebugKV(ctx, "Alarm time adjusted", "time", at.String())
}

// restartTimer pushes the inactivity deadline back.
func (c *Controller) restartTimer(context.Context, event.Event) {
	c.timer.Restart()
}

// cancelTimer stops the inactivity timer.
func (c *Controller) cancelTimer(context.Context, event.Event) {
	c.timer.Cancel()
}
