package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment variables read by Load.
const EnvPrefix = "EXITCHECK"

// setDefaults registers the default value of every known key. Registering a
// default also makes the key visible to AutomaticEnv during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("server.port", 0)

	v.SetDefault("home.default_radius", 100.0)
	v.SetDefault("home.default_name", "Home")

	v.SetDefault("checklist.auto_check_phone", true)
	v.SetDefault("checklist.ask_for_feedback", true)
	v.SetDefault("checklist.feedback_after_exits", 5)
	v.SetDefault("checklist.show_streak_messages", true)

	v.SetDefault("monitor.duplicate_exit_window", "60s")
	v.SetDefault("monitor.queue_size", 64)

	v.SetDefault("analytics.time_zone", "Local")
	v.SetDefault("analytics.weekdays", []string{"monday", "tuesday", "wednesday", "thursday", "friday"})
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from the config file.
// An empty configFile looks for config.yaml in the working directory and
// silently continues when none exists.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags of cfg and the calendar settings that
// cannot be expressed as tags.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := cfg.Analytics.Location(); err != nil {
		return fmt.Errorf("config validation failed: analytics.time_zone: %w", err)
	}
	return nil
}
