package exit_session

import (
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/exitcheck/internal/domain"
)

// ErrUnknownItem indicates that an item is not part of the open session.
var ErrUnknownItem = errors.New("item is not part of the session")

// Trigger records why a session was opened.
type Trigger string

// Session triggers
const (
	TriggerExit Trigger = "exit"
	TriggerTest Trigger = "test"
)

// Entry is one checklist row of a session.
type Entry struct {
	ItemID  uuid.UUID `json:"item_id"`
	Title   string    `json:"title"`
	Emoji   string    `json:"emoji"`
	Checked bool      `json:"checked"`
}

// Session is the in-memory checklist for one departure. It is never
// persisted; closing it produces an ExitEvent.
type Session struct {
	ID       uuid.UUID `json:"id"`
	OpenedAt time.Time `json:"opened_at"`
	Trigger  Trigger   `json:"trigger"`
	entries  []Entry
}

// NewSession opens a session over items in their given order. Phone items
// start checked when autoCheckPhone is set.
func NewSession(items []*domain.ChecklistItem, trigger Trigger, autoCheckPhone bool, now time.Time) *Session {
	s := &Session{
		ID:       uuid.New(),
		OpenedAt: now,
		Trigger:  trigger,
		entries:  make([]Entry, 0, len(items)),
	}
	for _, item := range items {
		s.entries = append(s.entries, Entry{
			ItemID:  item.ID,
			Title:   item.Title,
			Emoji:   item.Emoji,
			Checked: autoCheckPhone && item.IsPhone(),
		})
	}
	return s
}

// Entries returns a copy of the rows in display order.
func (s *Session) Entries() []Entry {
	return slices.Clone(s.entries)
}

// Toggle flips the checked state of an item and returns the new state.
func (s *Session) Toggle(id uuid.UUID) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, ErrUnknownItem
	}
	s.entries[i].Checked = !s.entries[i].Checked
	return s.entries[i].Checked, nil
}

// SetChecked sets the checked state of an item.
func (s *Session) SetChecked(id uuid.UUID, checked bool) error {
	i := s.index(id)
	if i < 0 {
		return ErrUnknownItem
	}
	s.entries[i].Checked = checked
	return nil
}

// AllChecked reports whether every row is checked. An empty session is
// trivially complete.
func (s *Session) AllChecked() bool {
	for _, e := range s.entries {
		if !e.Checked {
			return false
		}
	}
	return true
}

// UncheckedTitles returns the titles of unchecked rows in display order.
func (s *Session) UncheckedTitles() []string {
	out := make([]string, 0)
	for _, e := range s.entries {
		if !e.Checked {
			out = append(out, e.Title)
		}
	}
	return out
}

// UncheckedIDs returns the item IDs of unchecked rows in display order.
func (s *Session) UncheckedIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0)
	for _, e := range s.entries {
		if !e.Checked {
			out = append(out, e.ItemID)
		}
	}
	return out
}

// Clone returns an independent copy.
func (s *Session) Clone() *Session {
	c := *s
	c.entries = slices.Clone(s.entries)
	return &c
}

// MarshalJSON includes the rows, which are otherwise unexported.
func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         uuid.UUID `json:"id"`
		OpenedAt   time.Time `json:"opened_at"`
		Trigger    Trigger   `json:"trigger"`
		Items      []Entry   `json:"items"`
		AllChecked bool      `json:"all_checked"`
	}{s.ID, s.OpenedAt, s.Trigger, s.entries, s.AllChecked()})
}

func (s *Session) index(id uuid.UUID) int {
	return slices.IndexFunc(s.entries, func(e Entry) bool { return e.ItemID == id })
}
