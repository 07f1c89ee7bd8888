// Package weekid computes weekly-period identifiers.
//
// A week identifier is the UTC date (YYYYMMDD) of the most recent weekly
// reset boundary. Two instants in the same reset week share an identifier,
// and the identifier changes exactly when the boundary is crossed.
package weekid

import (
	"time"
)

const (
	// DefaultResetWeekday is the weekday of the weekly reset (US realms).
	DefaultResetWeekday = time.Tuesday

	// DefaultResetHour is the UTC hour of the weekly reset.
	DefaultResetHour = 15

	// Layout is the textual format of a week identifier.
	Layout = "20060102"

	daysPerWeek = 7
)

var timeNow = time.Now // injected for testability

// Calculator computes week identifiers for a fixed weekly boundary.
type Calculator struct {
	weekday time.Weekday
	hour    int
	now     func() time.Time
}

// New returns a Calculator using the default Tuesday 15:00 UTC boundary.
func New() *Calculator {
	return NewWithBoundary(DefaultResetWeekday, DefaultResetHour)
}

// NewWithBoundary returns a Calculator for an arbitrary weekday and UTC hour.
// Hours outside 0..23 are clamped.
func NewWithBoundary(weekday time.Weekday, hour int) *Calculator {
	if hour < 0 {
		hour = 0
	}
	if hour > 23 {
		hour = 23
	}
	return &Calculator{weekday: weekday % daysPerWeek, hour: hour}
}

// WithClock returns a copy of c that reads the current time from now.
func (c *Calculator) WithClock(now func() time.Time) *Calculator {
	cp := *c
	cp.now = now
	return &cp
}

func (c *Calculator) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return timeNow()
}

// Boundary returns the most recent reset instant at or before t.
func (c *Calculator) Boundary(t time.Time) time.Time {
	utc := t.UTC()

	days := (int(utc.Weekday()) - int(c.weekday) + daysPerWeek) % daysPerWeek
	// On the reset weekday but before the reset hour the new period has not
	// begun yet, so look back a full week.
	if days == 0 && utc.Hour() < c.hour {
		days = daysPerWeek
	}

	return time.Date(utc.Year(), utc.Month(), utc.Day()-days, c.hour, 0, 0, 0, time.UTC)
}

// Next returns the first reset instant strictly after t.
func (c *Calculator) Next(t time.Time) time.Time {
	return c.Boundary(t).AddDate(0, 0, daysPerWeek)
}

// ForInstant returns the week identifier for t.
func (c *Calculator) ForInstant(t time.Time) string {
	return c.Boundary(t).Format(Layout)
}

// Current returns the week identifier for the current instant.
func (c *Calculator) Current() string {
	return c.ForInstant(c.clock())
}

// IsCurrent reports whether id identifies the current week.
func (c *Calculator) IsCurrent(id string) bool {
	return Equal(id, c.Current())
}

// Equal reports whether two week identifiers are the same week.
// An empty identifier means "unknown" and is never equal to anything,
// including another empty identifier, so a missing prior state always
// reads as a week transition.
func Equal(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b
}

// Valid reports whether id has the YYYYMMDD shape of a week identifier.
func Valid(id string) bool {
	if len(id) != len(Layout) {
		return false
	}
	_, err := time.Parse(Layout, id)
	return err == nil
}
