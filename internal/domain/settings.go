package domain

// Settings are the user preferences the core consults when opening and
// closing checklist sessions.
type Settings struct {
	// AutoCheckPhone pre-checks phone items: the user is holding it.
	AutoCheckPhone bool `json:"auto_check_phone"`
	// AskForFeedback enables the periodic feedback prompt.
	AskForFeedback bool `json:"ask_for_feedback"`
	// FeedbackAfterExits is the prompt period in recorded exits.
	FeedbackAfterExits int `json:"feedback_after_exits"`
	// ShowStreakMessages enables milestone messages after perfect exits.
	ShowStreakMessages bool `json:"show_streak_messages"`
}

// DefaultSettings mirrors a fresh install.
func DefaultSettings() Settings {
	return Settings{
		AutoCheckPhone:     true,
		AskForFeedback:     true,
		FeedbackAfterExits: 5,
		ShowStreakMessages: true,
	}
}

// ShouldAskForFeedback reports whether the exit numbered totalExits should be
// followed by a feedback prompt.
func (s Settings) ShouldAskForFeedback(totalExits int) bool {
	if !s.AskForFeedback || s.FeedbackAfterExits <= 0 || totalExits <= 0 {
		return false
	}
	return totalExits%s.FeedbackAfterExits == 0
}
