package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChecklistItem validation errors
var (
	ErrItemIDEmpty    = errors.New("checklist item ID cannot be empty")
	ErrItemTitleEmpty = errors.New("checklist item title cannot be empty")
	ErrInvalidForgot  = errors.New("forgotten count must be greater than or equal to 0")
)

// ChecklistItem is one thing the user wants to have on them when leaving.
type ChecklistItem struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Emoji           string     `json:"emoji"`
	Order           int        `json:"order"`
	IsActive        bool       `json:"is_active"`
	Category        *string    `json:"category,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ForgottenCount  int        `json:"forgotten_count"`
	LastForgottenAt *time.Time `json:"last_forgotten_at,omitempty"`
}

// NewChecklistItem creates an active item with the given title, emoji and
// display order. The title is trimmed and must not be empty.
func NewChecklistItem(title, emoji string, order int, now time.Time) (*ChecklistItem, error) {
	item := &ChecklistItem{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		Emoji:     emoji,
		Order:     order,
		IsActive:  true,
		CreatedAt: now.UTC(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the ChecklistItem has valid data.
func (i *ChecklistItem) Validate() error {
	if i.ID == uuid.Nil {
		return ErrItemIDEmpty
	}
	if strings.TrimSpace(i.Title) == "" {
		return ErrItemTitleEmpty
	}
	if i.ForgottenCount < 0 {
		return ErrInvalidForgot
	}
	return nil
}

// Rename changes the title. Exit history matches items by title, so past
// forgotten occurrences stay attached to the old title.
func (i *ChecklistItem) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrItemTitleEmpty
	}
	i.Title = title
	return nil
}

// MarkForgotten records that the item was left unchecked on a rushed exit.
func (i *ChecklistItem) MarkForgotten(now time.Time) {
	i.ForgottenCount++
	at := now.UTC()
	i.LastForgottenAt = &at
}

// DisplayText returns the title prefixed by the emoji, if any.
func (i *ChecklistItem) DisplayText() string {
	if i.Emoji == "" {
		return i.Title
	}
	return i.Emoji + " " + i.Title
}

// IsPhone reports whether the item is the phone, which the user is holding
// when they see the exit prompt.
func (i *ChecklistItem) IsPhone() bool {
	return strings.Contains(strings.ToLower(i.Title), "phone")
}
