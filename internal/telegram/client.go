// Package telegram provides a client for delivering correlation reports via
// Telegram Bot API. It formats the significant per-hashtag results into a
// human-readable message and handles delivery with retry logic for
// reliability.
//
// The client supports MarkdownV2 formatting and includes error handling for
// common Telegram API issues like rate limiting and network failures.
package telegram

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/tagreport/internal/models"
)

// Client handles Telegram report delivery
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// Send delivers a correlation report with the given results
func (c *Client) Send(results []models.CorrelationResult, target models.CorrelationTarget, window time.Duration) error {
	message := c.formatMessage(results, target, window)

	msg := tgbotapi.NewMessage(c.chatID, message)
	msg.ParseMode = "MarkdownV2" // Use MarkdownV2 for better escaping support

	// Send with retry
	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatMessage formats correlation results into a Telegram message
func (c *Client) formatMessage(results []models.CorrelationResult, target models.CorrelationTarget, window time.Duration) string {
	message := "📊 *Hashtag Correlation Report*\n\n"

	targetStr := escapeMarkdownV2(describeTarget(target))
	windowStr := escapeMarkdownV2(formatDuration(window))
	message += fmt.Sprintf("🎯 Outcome: %s\n⏱ Window: %s\n\n", targetStr, windowStr)

	if len(results) == 0 {
		message += "No hashtags analyzed\\.\n"
		return message
	}

	for i, result := range results {
		marker := "▫️"
		if result.Significant() {
			marker = "❗"
		}

		tagStr := escapeMarkdownV2("#" + result.Hashtag)
		countStr := escapeMarkdownV2(fmt.Sprintf("%d/%d (%.0f%%)",
			result.CorrelatedCount, result.TotalCount, result.Percentage*100))
		coeffStr := escapeMarkdownV2(fmt.Sprintf("r=%.2f p=%.3f",
			result.CorrelationCoefficient, result.PValue))

		message += fmt.Sprintf("%d\\. %s %s\n", i+1, marker, tagStr)
		message += fmt.Sprintf("   Matched: %s\n", countStr)
		if result.AverageValue != nil {
			avgStr := escapeMarkdownV2(fmt.Sprintf("%.0f ml", *result.AverageValue))
			message += fmt.Sprintf("   Average: *%s*\n", avgStr)
		}
		message += fmt.Sprintf("   %s\n\n", coeffStr)
	}

	return message
}

// describeTarget renders the outcome definition in plain words
func describeTarget(target models.CorrelationTarget) string {
	switch target.Kind {
	case models.TargetCustomEvent:
		return fmt.Sprintf("custom event %q", target.CustomTypeID)
	case models.TargetCustomEventWithHashtag:
		return fmt.Sprintf("custom event %q tagged #%s", target.CustomTypeID, target.Hashtag)
	case models.TargetFeedAmount:
		return "feed amount"
	default:
		return string(target.Kind)
	}
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	// Characters that need escaping in MarkdownV2:
	// _ * [ ] ( ) ~ ` > # + - = | { } . !
	// Note: We escape all of them with \ prefix

	result := ""
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			result += "\\" + string(char)
		default:
			result += string(char)
		}
	}
	return result
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	if hours >= 1 {
		return fmt.Sprintf("%dh", hours)
	}

	mins := int(d.Minutes())
	return fmt.Sprintf("%dm", mins)
}
