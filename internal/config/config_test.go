package config

import (
	"os"
	"testing"
	"time"

	"github.com/rewired-gh/tagreport/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestLoadAndValidate(t *testing.T) {
	content := `
analysis:
  window: 45m
  lookback_days: 14
  subject_id: "subject-1"
  hashtags:
    - slowflow
    - evening
  target:
    kind: custom_event
    custom_type_id: "fussy"

store:
  max_events_per_kind: 5000
  file_path: "./data/test-events.json"

telegram:
  bot_token: "test_token"
  chat_id: "12345"
  enabled: true
  max_retries: 3
  retry_delay_base: 1s

logging:
  level: "info"
  format: "json"
`
	path := writeConfig(t, content)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Analysis.Window != 45*time.Minute {
		t.Errorf("Unexpected window: %v", cfg.Analysis.Window)
	}
	if cfg.Analysis.LookbackDays != 14 {
		t.Errorf("Unexpected lookback days: %d", cfg.Analysis.LookbackDays)
	}
	if len(cfg.Analysis.Hashtags) != 2 {
		t.Errorf("Expected 2 hashtags, got %d", len(cfg.Analysis.Hashtags))
	}
	if cfg.Store.MaxEventsPerKind != 5000 {
		t.Errorf("Unexpected max events per kind: %d", cfg.Store.MaxEventsPerKind)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestDefaults(t *testing.T) {
	path := writeConfig(t, "analysis:\n  window: 30m\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Analysis.LookbackDays != 30 {
		t.Errorf("Default lookback days = %d, want 30", cfg.Analysis.LookbackDays)
	}
	if cfg.Analysis.Target.Kind != "feed_amount" {
		t.Errorf("Default target kind = %q, want feed_amount", cfg.Analysis.Target.Kind)
	}
	if cfg.Telegram.Enabled {
		t.Error("Telegram should be disabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Default log level = %q, want info", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate on defaults failed: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Analysis: AnalysisConfig{
				Window:       30 * time.Minute,
				LookbackDays: 30,
				Target:       TargetConfig{Kind: "feed_amount"},
			},
			Store:   StoreConfig{MaxEventsPerKind: 1000, FilePath: "./data/events.json"},
			Logging: LoggingConfig{Level: "info", Format: "json"},
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero window", func(c *Config) { c.Analysis.Window = 0 }},
		{"negative window", func(c *Config) { c.Analysis.Window = -time.Minute }},
		{"zero lookback", func(c *Config) { c.Analysis.LookbackDays = 0 }},
		{"bad interval start", func(c *Config) {
			c.Analysis.IntervalStart = "yesterday"
			c.Analysis.IntervalEnd = "2026-03-31T00:00:00Z"
		}},
		{"backwards interval", func(c *Config) {
			c.Analysis.IntervalStart = "2026-03-31T00:00:00Z"
			c.Analysis.IntervalEnd = "2026-03-01T00:00:00Z"
		}},
		{"incomplete target", func(c *Config) { c.Analysis.Target = TargetConfig{Kind: "custom_event"} }},
		{"unknown target kind", func(c *Config) { c.Analysis.Target = TargetConfig{Kind: "nap"} }},
		{"zero max events", func(c *Config) { c.Store.MaxEventsPerKind = 0 }},
		{"missing store path", func(c *Config) { c.Store.FilePath = "" }},
		{"telegram without token", func(c *Config) { c.Telegram = TelegramConfig{Enabled: true, ChatID: "1"} }},
		{"telegram without chat", func(c *Config) { c.Telegram = TelegramConfig{Enabled: true, BotToken: "t"} }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestAnalysisInterval_Lookback(t *testing.T) {
	a := AnalysisConfig{Window: time.Minute, LookbackDays: 7}
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)

	interval, err := a.Interval(now)
	if err != nil {
		t.Fatalf("Interval failed: %v", err)
	}
	if !interval.End.Equal(now) {
		t.Errorf("Interval end = %v, want now", interval.End)
	}
	if !interval.Start.Equal(now.AddDate(0, 0, -7)) {
		t.Errorf("Interval start = %v, want 7 days before now", interval.Start)
	}
}

func TestAnalysisInterval_Explicit(t *testing.T) {
	a := AnalysisConfig{
		Window:        time.Minute,
		IntervalStart: "2026-03-01T00:00:00Z",
		IntervalEnd:   "2026-03-31T00:00:00Z",
	}

	interval, err := a.Interval(time.Now())
	if err != nil {
		t.Fatalf("Interval failed: %v", err)
	}
	want := models.DateInterval{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	if !interval.Start.Equal(want.Start) || !interval.End.Equal(want.End) {
		t.Errorf("Interval = %+v, want %+v", interval, want)
	}
}

func TestTargetConfig_Target(t *testing.T) {
	target := TargetConfig{Kind: "custom_event", CustomTypeID: "fussy"}.Target()
	if target.Kind != models.TargetCustomEvent || target.CustomTypeID != "fussy" {
		t.Errorf("Unexpected target: %+v", target)
	}

	target = TargetConfig{Kind: "custom_event_with_hashtag", CustomTypeID: "fussy", Hashtag: "Evening"}.Target()
	if target.Kind != models.TargetCustomEventWithHashtag || target.Hashtag != "evening" {
		t.Errorf("Unexpected target: %+v", target)
	}

	target = TargetConfig{Kind: "feed_amount"}.Target()
	if target.Kind != models.TargetFeedAmount {
		t.Errorf("Unexpected target: %+v", target)
	}
}
