package domain

import "time"

// SuggestionKind identifies the action a suggestion proposes.
type SuggestionKind string

// Suggestion kinds
const (
	SuggestionReorder   SuggestionKind = "reorder"
	SuggestionHighlight SuggestionKind = "highlight"
)

// Suggestion is a user-facing nudge derived from forgotten-item history.
type Suggestion struct {
	Kind    SuggestionKind `json:"kind"`
	Message string         `json:"message"`
}

// ExitPatternAnalysis summarizes when one item tends to be forgotten.
// It is computed on demand and never persisted.
type ExitPatternAnalysis struct {
	ItemTitle      string         `json:"item_title"`
	ForgottenCount int            `json:"forgotten_count"`
	CommonDays     []time.Weekday `json:"common_days"`
	CommonTimes    []TimeOfDay    `json:"common_times"`
	Suggestion     *Suggestion    `json:"suggestion,omitempty"`
}
