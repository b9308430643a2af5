package domain

import (
	"errors"
	"time"
)

// StreakState validation errors
var (
	ErrInvalidCurrentStreak = errors.New("current streak must be greater than or equal to 0")
	ErrInvalidTotalPerfect  = errors.New("total perfect exits must be greater than or equal to 0")
	ErrStreakExceedsTotal   = errors.New("current streak cannot exceed total perfect exits")
)

// StreakState is the process-wide perfect-exit streak.
type StreakState struct {
	CurrentStreak     int        `json:"current_streak"`
	LastPerfectExitAt *time.Time `json:"last_perfect_exit_at,omitempty"`
	TotalPerfectExits int        `json:"total_perfect_exits"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewStreakState returns the empty streak of a fresh install.
func NewStreakState() *StreakState {
	return &StreakState{}
}

// Validate checks if the StreakState has valid data.
func (s *StreakState) Validate() error {
	if s.CurrentStreak < 0 {
		return ErrInvalidCurrentStreak
	}
	if s.TotalPerfectExits < 0 {
		return ErrInvalidTotalPerfect
	}
	if s.CurrentStreak > s.TotalPerfectExits {
		return ErrStreakExceedsTotal
	}
	return nil
}

// Clone returns a deep copy.
func (s *StreakState) Clone() *StreakState {
	c := *s
	if s.LastPerfectExitAt != nil {
		at := *s.LastPerfectExitAt
		c.LastPerfectExitAt = &at
	}
	return &c
}
