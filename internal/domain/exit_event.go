package domain

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// TimeOfDay is a coarse bucket of the hour an exit happened in.
type TimeOfDay string

// Time-of-day buckets
const (
	TimeOfDayMorning   TimeOfDay = "morning"   // 05:00-11:59
	TimeOfDayAfternoon TimeOfDay = "afternoon" // 12:00-16:59
	TimeOfDayEvening   TimeOfDay = "evening"   // 17:00-20:59
	TimeOfDayNight     TimeOfDay = "night"
)

// TimeOfDayForHour maps an hour in [0, 23] to its bucket.
func TimeOfDayForHour(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour < 12:
		return TimeOfDayMorning
	case hour >= 12 && hour < 17:
		return TimeOfDayAfternoon
	case hour >= 17 && hour < 21:
		return TimeOfDayEvening
	default:
		return TimeOfDayNight
	}
}

// DefaultWeekdays is the Monday-to-Friday working week.
var DefaultWeekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

// ExitEvent validation errors
var (
	ErrEventIDEmpty        = errors.New("exit event ID cannot be empty")
	ErrEventTimestampEmpty = errors.New("exit event timestamp cannot be empty")
	ErrCompleteAndRushed   = errors.New("exit event cannot be both complete and dismissed early")
	ErrCompleteWithMissing = errors.New("complete exit event cannot have forgotten items")
	ErrInvalidHourOfDay    = errors.New("hour of day must be between 0 and 23")
	ErrInvalidDayOfWeek    = errors.New("day of week must be between Sunday and Saturday")
)

// ExitOutcome describes how a checklist session was closed.
type ExitOutcome struct {
	WasComplete    bool
	DismissedEarly bool
	ForgottenItems []string
}

// PerfectOutcome is the all-good close with every item checked.
func PerfectOutcome() ExitOutcome {
	return ExitOutcome{WasComplete: true}
}

// RushedOutcome is the "I'm rushing" close.
func RushedOutcome(forgotten []string) ExitOutcome {
	return ExitOutcome{DismissedEarly: true, ForgottenItems: forgotten}
}

// IncompleteOutcome is the all-good close while some items were unchecked.
func IncompleteOutcome(forgotten []string) ExitOutcome {
	return ExitOutcome{ForgottenItems: forgotten}
}

// ExitEvent is an immutable record of one closed checklist session.
// DayOfWeek and HourOfDay are captured when the event is created and are
// never recomputed from Timestamp.
type ExitEvent struct {
	ID             uuid.UUID    `json:"id"`
	Timestamp      time.Time    `json:"timestamp"`
	WasComplete    bool         `json:"was_complete"`
	DismissedEarly bool         `json:"dismissed_early"`
	ForgottenItems []string     `json:"forgotten_items"`
	DayOfWeek      time.Weekday `json:"day_of_week"`
	HourOfDay      int          `json:"hour_of_day"`
}

// NewExitEvent records outcome at now. The weekday and hour are taken in
// now's own location, which should be the user's calendar zone.
func NewExitEvent(outcome ExitOutcome, now time.Time) (*ExitEvent, error) {
	forgotten := slices.Clone(outcome.ForgottenItems)
	if forgotten == nil {
		forgotten = []string{}
	}

	event := &ExitEvent{
		ID:             uuid.New(),
		Timestamp:      now,
		WasComplete:    outcome.WasComplete,
		DismissedEarly: outcome.DismissedEarly,
		ForgottenItems: forgotten,
		DayOfWeek:      now.Weekday(),
		HourOfDay:      now.Hour(),
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return event, nil
}

// Validate checks if the ExitEvent has valid data.
func (e *ExitEvent) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEventIDEmpty
	}
	if e.Timestamp.IsZero() {
		return ErrEventTimestampEmpty
	}
	if e.WasComplete && e.DismissedEarly {
		return ErrCompleteAndRushed
	}
	if e.WasComplete && len(e.ForgottenItems) > 0 {
		return ErrCompleteWithMissing
	}
	if e.HourOfDay < 0 || e.HourOfDay > 23 {
		return ErrInvalidHourOfDay
	}
	if e.DayOfWeek < time.Sunday || e.DayOfWeek > time.Saturday {
		return ErrInvalidDayOfWeek
	}
	return nil
}

// IsPerfect reports whether the exit counts toward the streak.
func (e *ExitEvent) IsPerfect() bool {
	return e.WasComplete && !e.DismissedEarly
}

// Forgot reports whether title was left unchecked.
func (e *ExitEvent) Forgot(title string) bool {
	return slices.Contains(e.ForgottenItems, title)
}

// TimeOfDay returns the bucket of the captured hour.
func (e *ExitEvent) TimeOfDay() TimeOfDay {
	return TimeOfDayForHour(e.HourOfDay)
}

// IsWeekday reports whether the captured day is in weekdays.
func (e *ExitEvent) IsWeekday(weekdays []time.Weekday) bool {
	return slices.Contains(weekdays, e.DayOfWeek)
}
