package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewChecklistItem(t *testing.T) {
	now := time.Now()

	item, err := NewChecklistItem("  Keys ", "🔑", 0, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if item.Title != "Keys" {
		t.Errorf("Expected trimmed title, got %q", item.Title)
	}
	if !item.IsActive {
		t.Error("Expected new item to be active")
	}
	if item.ForgottenCount != 0 || item.LastForgottenAt != nil {
		t.Error("Expected no forgotten history")
	}

	if _, err := NewChecklistItem("   ", "", 0, now); err != ErrItemTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrItemTitleEmpty, err)
	}
}

func TestChecklistItemMarkForgotten(t *testing.T) {
	item, _ := NewChecklistItem("Wallet", "👛", 1, time.Now())
	at := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

	item.MarkForgotten(at)
	item.MarkForgotten(at.Add(24 * time.Hour))

	if item.ForgottenCount != 2 {
		t.Errorf("Expected forgotten count 2, got %d", item.ForgottenCount)
	}
	if item.LastForgottenAt == nil || !item.LastForgottenAt.Equal(at.Add(24*time.Hour)) {
		t.Errorf("Unexpected LastForgottenAt %v", item.LastForgottenAt)
	}
}

func TestChecklistItemDisplayText(t *testing.T) {
	withEmoji := ChecklistItem{Title: "Keys", Emoji: "🔑"}
	if got := withEmoji.DisplayText(); got != "🔑 Keys" {
		t.Errorf("Expected %q, got %q", "🔑 Keys", got)
	}

	plain := ChecklistItem{Title: "Keys"}
	if got := plain.DisplayText(); got != "Keys" {
		t.Errorf("Expected %q, got %q", "Keys", got)
	}
}

func TestChecklistItemIsPhone(t *testing.T) {
	tests := map[string]bool{
		"Phone":      true,
		"iPhone":     true,
		"Headphones": true,
		"Wallet":     false,
	}
	for title, want := range tests {
		item := ChecklistItem{Title: title}
		if got := item.IsPhone(); got != want {
			t.Errorf("IsPhone(%q) = %v, want %v", title, got, want)
		}
	}
}

func TestChecklistItemValidateAndRename(t *testing.T) {
	item := ChecklistItem{ID: uuid.New(), Title: "Keys"}
	if err := item.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	item.ForgottenCount = -1
	if err := item.Validate(); err != ErrInvalidForgot {
		t.Errorf("Expected error %v, got %v", ErrInvalidForgot, err)
	}

	item.ForgottenCount = 0
	item.ID = uuid.Nil
	if err := item.Validate(); err != ErrItemIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrItemIDEmpty, err)
	}

	if err := item.Rename(" "); err != ErrItemTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrItemTitleEmpty, err)
	}
	if err := item.Rename("House keys"); err != nil || item.Title != "House keys" {
		t.Errorf("Expected rename to succeed, got %v / %q", err, item.Title)
	}
}
