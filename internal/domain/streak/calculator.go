// Package streak implements the consecutive-day perfect-exit counter as a
// pure function over domain.StreakState.
package streak

import (
	"errors"
	"time"

	"github.com/phrazzld/exitcheck/internal/domain"
)

// ErrNilState is returned when a nil state is passed to the calculator.
var ErrNilState = errors.New("streak state cannot be nil")

// Calculator advances a StreakState. Calendar days are evaluated in the
// calculator's location.
type Calculator struct {
	loc *time.Location
}

// NewCalculator creates a Calculator for the given calendar location.
// A nil location means time.Local.
func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.Local
	}
	return &Calculator{loc: loc}
}

// Location returns the calendar location of the calculator.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// RecordPerfectExit returns the state that follows a perfect exit at now.
// The input state is not modified.
//
// A first exit starts the streak at 1. An exit on the calendar day after the
// previous one extends it; a gap of more than one day restarts it at 1. A
// repeat on the same day, or a last date in the future after a clock change,
// leaves the streak as is. The last date and the total are always updated.
func (c *Calculator) RecordPerfectExit(state *domain.StreakState, now time.Time) (*domain.StreakState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	next := state.Clone()

	if state.LastPerfectExitAt == nil {
		next.CurrentStreak = 1
	} else {
		diff := c.DaysBetween(*state.LastPerfectExitAt, now)
		switch {
		case diff == 1:
			next.CurrentStreak++
		case diff > 1:
			next.CurrentStreak = 1
		}
		// A state restored with a zero streak still counts today.
		if next.CurrentStreak == 0 {
			next.CurrentStreak = 1
		}
	}

	last := now
	next.LastPerfectExitAt = &last
	next.TotalPerfectExits++
	next.UpdatedAt = now

	return next, nil
}

// DaysBetween returns the number of calendar-day boundaries from a to b.
// It is negative when b falls on an earlier day than a.
func (c *Calculator) DaysBetween(a, b time.Time) int {
	return int(c.day(b).Sub(c.day(a)).Hours() / 24)
}

// day maps t to midnight UTC of its calendar date in the calculator's
// location, so DST shifts never produce fractional days.
func (c *Calculator) day(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
