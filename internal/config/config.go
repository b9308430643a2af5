package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Home      HomeConfig      `mapstructure:"home" validate:"required"`
	Checklist ChecklistConfig `mapstructure:"checklist" validate:"required"`
	Monitor   MonitorConfig   `mapstructure:"monitor" validate:"required"`
	Analytics AnalyticsConfig `mapstructure:"analytics" validate:"required"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains database-related configuration settings.
// An empty URL selects the in-memory store.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"omitempty,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
}

// ServerConfig contains settings for the optional HTTP adapter.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"gte=0,lt=65536"`
}

// HomeConfig contains the home-zone geometry defaults.
type HomeConfig struct {
	DefaultRadius float64 `mapstructure:"default_radius" validate:"gte=50,lte=500"`
	DefaultName   string  `mapstructure:"default_name" validate:"required"`
}

// ChecklistConfig contains the checklist session knobs consumed by the core.
type ChecklistConfig struct {
	AutoCheckPhone     bool `mapstructure:"auto_check_phone"`
	AskForFeedback     bool `mapstructure:"ask_for_feedback"`
	FeedbackAfterExits int  `mapstructure:"feedback_after_exits" validate:"gte=1"`
	ShowStreakMessages bool `mapstructure:"show_streak_messages"`
}

// MonitorConfig contains geofence monitoring and coordination settings.
type MonitorConfig struct {
	// DuplicateExitWindow drops repeated exit deliveries for the same region.
	DuplicateExitWindow time.Duration `mapstructure:"duplicate_exit_window" validate:"gte=0"`
	QueueSize           int           `mapstructure:"queue_size" validate:"gte=1"`
}

// AnalyticsConfig contains calendar settings for streaks and patterns.
type AnalyticsConfig struct {
	// TimeZone is an IANA zone name; "Local" uses the host zone.
	TimeZone string `mapstructure:"time_zone" validate:"required"`
	// Weekdays lists the regional working days, e.g. ["monday", ...].
	Weekdays []string `mapstructure:"weekdays" validate:"required,min=1,dive,oneof=sunday monday tuesday wednesday thursday friday saturday"`
}

// Location resolves the configured calendar time zone.
func (c AnalyticsConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// WeekdaySet converts the configured weekday names into time.Weekday values.
func (c AnalyticsConfig) WeekdaySet() []time.Weekday {
	names := map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
	days := make([]time.Weekday, 0, len(c.Weekdays))
	for _, name := range c.Weekdays {
		if d, ok := names[name]; ok {
			days = append(days, d)
		}
	}
	return days
}
