package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/rewired-gh/tagreport/internal/models"
)

func TestEscapeMarkdownV2(t *testing.T) {
	input := "r=0.95 (p<0.05) #tag!"
	escaped := escapeMarkdownV2(input)
	for _, special := range []string{"\\=", "\\(", "\\)", "\\#", "\\!", "\\."} {
		if !strings.Contains(escaped, special) {
			t.Errorf("Expected %q in escaped output %q", special, escaped)
		}
	}
}

func TestFormatMessage(t *testing.T) {
	c := &Client{}
	avg := 150.0
	results := []models.CorrelationResult{
		{
			Hashtag:                "slowflow",
			TotalCount:             10,
			CorrelatedCount:        9,
			Percentage:             0.9,
			AverageValue:           &avg,
			CorrelationCoefficient: 0.92,
			PValue:                 0.002,
		},
	}

	msg := c.formatMessage(results, models.FeedAmountTarget(), 30*time.Minute)
	if !strings.Contains(msg, "slowflow") {
		t.Errorf("Message missing hashtag: %q", msg)
	}
	if !strings.Contains(msg, "150 ml") {
		t.Errorf("Message missing average value: %q", msg)
	}
	if !strings.Contains(msg, "30m") {
		t.Errorf("Message missing window: %q", msg)
	}
}

func TestFormatMessage_Empty(t *testing.T) {
	c := &Client{}
	msg := c.formatMessage(nil, models.CustomEventTarget("fussy"), time.Hour)
	if !strings.Contains(msg, "No hashtags analyzed") {
		t.Errorf("Empty report should say so: %q", msg)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(2 * time.Hour); got != "2h" {
		t.Errorf("formatDuration(2h) = %q, want 2h", got)
	}
	if got := formatDuration(45 * time.Minute); got != "45m" {
		t.Errorf("formatDuration(45m) = %q, want 45m", got)
	}
}
