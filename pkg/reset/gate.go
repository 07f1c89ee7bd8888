// Package reset invalidates weekly-scoped roster fields once per weekly
// reset. The gate runs at startup, before any import or edit.
package reset

import (
	"fmt"

	"github.com/entrhq/wowstat/pkg/logging"
	"github.com/entrhq/wowstat/pkg/weekid"
)

// Sweeper is the part of the roster the gate resets and persists.
type Sweeper interface {
	ResetWeeklyAll()
	Save() error
}

// StateStore persists the last observed week id.
type StateStore interface {
	LastWeekID() string
	SetLastWeekID(id string) error
}

// WeekSource reports the current week id.
type WeekSource interface {
	Current() string
}

// Outcome describes what a Check did.
type Outcome int

const (
	// FirstRun means no week had been recorded. The current week was
	// recorded and the roster left alone.
	FirstRun Outcome = iota

	// SameWeek means the recorded week is current. Nothing changed.
	SameWeek

	// Reset means a new week began. Weekly fields were cleared and saved.
	Reset
)

func (o Outcome) String() string {
	switch o {
	case FirstRun:
		return "first run"
	case SameWeek:
		return "same week"
	case Reset:
		return "reset"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Gate compares the recorded week with the current one.
type Gate struct {
	roster Sweeper
	state  StateStore
	weeks  WeekSource
	log    logging.Leveled
}

// NewGate returns a gate. log may be nil.
func NewGate(roster Sweeper, state StateStore, weeks WeekSource, log logging.Leveled) *Gate {
	if log == nil {
		log = logging.Discard()
	}
	return &Gate{roster: roster, state: state, weeks: weeks, log: log}
}

// Check runs the weekly transition at most once per week.
//
// On a transition the roster is swept and saved before the new week id is
// recorded. If saving the roster fails the week id is left as it was, so
// the next Check repeats the sweep. Sweeping already cleared fields is a
// no-op.
func (g *Gate) Check() (Outcome, error) {
	current := g.weeks.Current()
	last := g.state.LastWeekID()

	if last == "" {
		if err := g.state.SetLastWeekID(current); err != nil {
			return FirstRun, fmt.Errorf("record week %s: %w", current, err)
		}
		g.log.Infof("First run, recorded week %s", current)
		return FirstRun, nil
	}

	if weekid.Equal(last, current) {
		g.log.Debugf("Week %s unchanged", current)
		return SameWeek, nil
	}

	g.log.Infof("Weekly reset: %s -> %s", last, current)
	g.roster.ResetWeeklyAll()
	if err := g.roster.Save(); err != nil {
		return Reset, fmt.Errorf("save roster after weekly reset: %w", err)
	}
	if err := g.state.SetLastWeekID(current); err != nil {
		return Reset, fmt.Errorf("record week %s: %w", current, err)
	}
	return Reset, nil
}
