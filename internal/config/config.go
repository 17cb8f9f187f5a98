package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/rewired-gh/tagreport/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Store    StoreConfig    `mapstructure:"store"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AnalysisConfig holds the correlation analysis parameters
type AnalysisConfig struct {
	// Window is the lookahead applied after each source event. Required and
	// strictly positive; there is deliberately no fallback default at the
	// engine boundary.
	Window time.Duration `mapstructure:"window"`
	// LookbackDays sizes the analysis interval ending now when no explicit
	// bounds are given.
	LookbackDays int `mapstructure:"lookback_days"`
	// IntervalStart and IntervalEnd optionally pin the interval to explicit
	// RFC 3339 instants, overriding LookbackDays.
	IntervalStart string `mapstructure:"interval_start"`
	IntervalEnd   string `mapstructure:"interval_end"`
	// SubjectID optionally restricts the analysis to one tracked individual.
	SubjectID string `mapstructure:"subject_id"`
	// Hashtags lists the candidates to analyze; empty means "all hashtags
	// seen in the interval".
	Hashtags []string     `mapstructure:"hashtags"`
	Target   TargetConfig `mapstructure:"target"`
}

// TargetConfig selects the outcome to test against
type TargetConfig struct {
	Kind         string `mapstructure:"kind"`
	CustomTypeID string `mapstructure:"custom_type_id"`
	Hashtag      string `mapstructure:"hashtag"`
}

// StoreConfig holds storage and persistence configuration
type StoreConfig struct {
	MaxEventsPerKind int    `mapstructure:"max_events_per_kind"`
	FilePath         string `mapstructure:"file_path"`
}

// TelegramConfig holds Telegram report delivery configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(path)

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("TAGREPORT")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Analysis defaults
	v.SetDefault("analysis.window", "30m")
	v.SetDefault("analysis.lookback_days", 30)
	v.SetDefault("analysis.target.kind", "feed_amount")

	// Store defaults
	v.SetDefault("store.max_events_per_kind", 10000)
	v.SetDefault("store.file_path", "./data/events.json")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Analysis config
	if c.Analysis.Window <= 0 {
		return fmt.Errorf("analysis.window must be positive")
	}
	if c.Analysis.IntervalStart == "" && c.Analysis.IntervalEnd == "" {
		if c.Analysis.LookbackDays < 1 {
			return fmt.Errorf("analysis.lookback_days must be at least 1")
		}
	} else {
		if _, err := c.Analysis.Interval(time.Now()); err != nil {
			return err
		}
	}
	if err := c.Analysis.Target.Target().Validate(); err != nil {
		return fmt.Errorf("analysis.target: %w", err)
	}

	// Validate Store config
	if c.Store.MaxEventsPerKind < 1 {
		return fmt.Errorf("store.max_events_per_kind must be at least 1")
	}
	if c.Store.FilePath == "" {
		return fmt.Errorf("store.file_path is required")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// Interval resolves the analysis interval: explicit RFC 3339 bounds when
// configured, otherwise the LookbackDays window ending at now.
func (a *AnalysisConfig) Interval(now time.Time) (models.DateInterval, error) {
	if a.IntervalStart == "" && a.IntervalEnd == "" {
		return models.DateInterval{
			Start: now.AddDate(0, 0, -a.LookbackDays),
			End:   now,
		}, nil
	}

	start, err := time.Parse(time.RFC3339, a.IntervalStart)
	if err != nil {
		return models.DateInterval{}, fmt.Errorf("analysis.interval_start must be RFC 3339: %w", err)
	}
	end, err := time.Parse(time.RFC3339, a.IntervalEnd)
	if err != nil {
		return models.DateInterval{}, fmt.Errorf("analysis.interval_end must be RFC 3339: %w", err)
	}

	interval := models.DateInterval{Start: start, End: end}
	if err := interval.Validate(); err != nil {
		return models.DateInterval{}, fmt.Errorf("analysis interval: %w", err)
	}
	return interval, nil
}

// Target converts the configured target selection into the model type.
func (t TargetConfig) Target() models.CorrelationTarget {
	switch t.Kind {
	case "custom_event":
		return models.CustomEventTarget(t.CustomTypeID)
	case "custom_event_with_hashtag":
		return models.CustomEventHashtagTarget(t.CustomTypeID, t.Hashtag)
	case "feed_amount":
		return models.FeedAmountTarget()
	default:
		return models.CorrelationTarget{Kind: models.TargetKind(t.Kind)}
	}
}
