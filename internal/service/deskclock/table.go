package deskclock

import (
	"context"
	"fmt"

	"github.com/oshokin/desk-clock/internal/event"
	"github.com/oshokin/desk-clock/internal/fsm"
)

// screen is a state of the clock with its churn action.
type screen struct {
	state fsm.State
	churn func(*Controller, context.Context)
	about string
}

// rule is a transition of the clock; a nil act only changes state.
type rule struct {
	from  fsm.State
	on    event.Kind
	next  fsm.State
	act   func(*Controller, context.Context, event.Event)
	about string
}

// screens are declared in table order; the first one is the fallback entry.
//
//nolint:gochecknoglobals // Read-only table.
var screens = []screen{
	{fsm.ShowCurrentTime, (*Controller).showTime, "show time"},
	{fsm.SetCurrentTime, (*Controller).blinkPending, "blink pending time"},
	{fsm.ShowAlarmTime, (*Controller).showAlarmTime, "show alarm time"},
	{fsm.ToggleAlarm, (*Controller).showAlarmStatus, "show alarm status"},
}

// rules are searched in order; each state handles every event kind.
//
//nolint:gochecknoglobals // Read-only table.
var rules = []rule{
	{fsm.ShowCurrentTime, event.ButtonPress, fsm.SetCurrentTime, (*Controller).beginSetTime, "snapshot time, arm set-time timer"},
	{fsm.ShowCurrentTime, event.LongButtonPress, fsm.ToggleAlarm, (*Controller).toggleAlarm, "toggle alarm, arm alarm timer"},
	{fsm.ShowCurrentTime, event.Rotation, fsm.ShowAlarmTime, (*Controller).enterAlarm, "arm alarm timer"},
	{fsm.ShowCurrentTime, event.Timeout, fsm.ShowCurrentTime, nil, ""},

	{fsm.SetCurrentTime, event.Rotation, fsm.SetCurrentTime, (*Controller).adjustPending, "pending += rotation minutes, restart timer"},
	{fsm.SetCurrentTime, event.ButtonPress, fsm.ShowCurrentTime, (*Controller).commitPending, "commit pending, cancel timer"},
	{fsm.SetCurrentTime, event.LongButtonPress, fsm.ShowCurrentTime, (*Controller).commitPending, "commit pending, cancel timer"},
	{fsm.SetCurrentTime, event.Timeout, fsm.ShowCurrentTime, (*Controller).discardPending, "discard pending"},

	{fsm.ShowAlarmTime, event.Rotation, fsm.ShowAlarmTime, (*Controller).shiftAlarm, "alarm time += rotation minutes, restart timer"},
	{fsm.ShowAlarmTime, event.ButtonPress, fsm.ToggleAlarm, (*Controller).toggleAlarm, "toggle alarm, restart timer"},
	{fsm.ShowAlarmTime, event.LongButtonPress, fsm.ShowCurrentTime, (*Controller).cancelTimer, "cancel timer"},
	{fsm.ShowAlarmTime, event.Timeout, fsm.ShowCurrentTime, nil, ""},

	{fsm.ToggleAlarm, event.ButtonPress, fsm.ToggleAlarm, (*Controller).toggleAlarm, "toggle alarm, restart timer"},
	{fsm.ToggleAlarm, event.Rotation, fsm.ShowAlarmTime, (*Controller).restartTimer, "restart timer"},
	{fsm.ToggleAlarm, event.LongButtonPress, fsm.ShowCurrentTime, (*Controller).cancelTimer, "cancel timer"},
	{fsm.ToggleAlarm, event.Timeout, fsm.ShowCurrentTime, nil, ""},
}

// BuildTable binds the clock's table to c.
func BuildTable(c *Controller, opts ...fsm.TableOption) (*fsm.Table, error) {
	def := fsm.NewDefinition()

	for _, s := range screens {
		churn := s.churn

		def.State(s.state, fsm.ChurnFunc(func(ctx context.Context) {
			churn(c, ctx)
		}))
	}

	for _, r := range rules {
		var action fsm.TransitionAction

		if act := r.act; act != nil {
			action = fsm.TransitionFunc(func(ctx context.Context, ev event.Event) {
				act(c, ctx, ev)
			})
		}

		def.Transition(r.from, r.on, r.next, action)
	}

	table, err := def.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("build table: %w", err)
	}

	return table, nil
}

// TableHeaders names the columns of DescribeTable.
//
//nolint:gochecknoglobals // Read-only.
var TableHeaders = []string{"State", "Churn", "Event", "Next", "Action"}

// DescribeTable lists the clock's transitions in lookup order, one row per transition.
// The state and churn columns are filled on the first row of each state only.
func DescribeTable() [][]string {
	rows := make([][]string, 0, len(rules))

	for _, s := range screens {
		first := true

		for _, r := range rules {
			if r.from != s.state {
				continue
			}

			state, churn := "", ""
			if first {
				state, churn = s.state.String(), s.about
				first = false
			}

			about := r.about
			if about == "" {
				about = "none"
			}

			rows = append(rows, []string{state, churn, r.on.String(), r.next.String(), about})
		}
	}

	return rows
}
