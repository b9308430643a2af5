package service

import (
	"github.com/phrazzld/exitcheck/internal/config"
	"github.com/phrazzld/exitcheck/internal/domain"
)

// SettingsProvider supplies the user preferences the core consults.
type SettingsProvider interface {
	Settings() domain.Settings
}

// StaticSettings is a SettingsProvider returning a fixed value.
type StaticSettings domain.Settings

// Settings implements SettingsProvider.
func (s StaticSettings) Settings() domain.Settings {
	return domain.Settings(s)
}

// SettingsFromConfig builds the provider used when no settings store is wired.
func SettingsFromConfig(cfg config.ChecklistConfig) StaticSettings {
	return StaticSettings{
		AutoCheckPhone:     cfg.AutoCheckPhone,
		AskForFeedback:     cfg.AskForFeedback,
		FeedbackAfterExits: cfg.FeedbackAfterExits,
		ShowStreakMessages: cfg.ShowStreakMessages,
	}
}
