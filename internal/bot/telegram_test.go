package bot

import (
	"strings"
	"testing"

	"mood-swing/internal/domain"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	StartTelegramBot(nil, nil)
}

func TestFormatMood(t *testing.T) {
	msg := formatMood(&domain.MoodSummary{
		Symbol: "TSLA", Mean: 0.21, Posts: 40, Positive: 25, Negative: 10, Neutral: 5,
	})
	if !strings.Contains(msg, "positive") {
		t.Errorf("expected positive label, got %q", msg)
	}
	if !strings.Contains(msg, "40 posts") {
		t.Errorf("expected post count, got %q", msg)
	}

	msg = formatMood(&domain.MoodSummary{Symbol: "AAPL", Mean: -0.3})
	if !strings.Contains(msg, "negative") {
		t.Errorf("expected negative label, got %q", msg)
	}

	msg = formatMood(&domain.MoodSummary{Symbol: "NVDA", Mean: 0.01})
	if !strings.Contains(msg, "neutral") {
		t.Errorf("expected neutral label, got %q", msg)
	}
}

func TestFormatRun(t *testing.T) {
	msg := formatRun(&domain.PredictionRun{Symbol: "TSLA", ProbUp: 0.7, ProbDown: 0.3})
	if !strings.Contains(msg, "UP (70%)") {
		t.Errorf("expected UP call, got %q", msg)
	}

	msg = formatRun(&domain.PredictionRun{Symbol: "TSLA", ProbUp: 0.2, ProbDown: 0.8})
	if !strings.Contains(msg, "DOWN (80%)") {
		t.Errorf("expected DOWN call, got %q", msg)
	}
}
