package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"mood-swing/internal/advisor"
	"mood-swing/internal/domain"
	"mood-swing/internal/service"

	tele "gopkg.in/telebot.v3"
)

func StartTelegramBot(pipeline *service.PipelineService, analyst *advisor.AnalystService) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/mood", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send(fmt.Sprintf("Usage: /mood TSLA\nSupported: %s", strings.Join(domain.SupportedSymbols, ", ")))
		}
		symbol := strings.ToUpper(args[0])
		if !domain.IsSupported(symbol) {
			return c.Send(fmt.Sprintf("Unknown symbol: %s\nSupported: %s", symbol, strings.Join(domain.SupportedSymbols, ", ")))
		}
		mood, err := pipeline.Mood(context.Background(), symbol)
		if err != nil {
			return c.Send(fmt.Sprintf("Error reading mood for %s: %v", symbol, err))
		}
		return c.Send(formatMood(mood))
	})

	b.Handle("/predict", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send(fmt.Sprintf("Usage: /predict TSLA\nSupported: %s", strings.Join(domain.SupportedSymbols, ", ")))
		}
		symbol := strings.ToUpper(args[0])
		if !domain.IsSupported(symbol) {
			return c.Send(fmt.Sprintf("Unknown symbol: %s\nSupported: %s", symbol, strings.Join(domain.SupportedSymbols, ", ")))
		}
		run, err := pipeline.Predict(context.Background(), symbol)
		if err != nil {
			return c.Send(fmt.Sprintf("Error predicting %s: %v", symbol, err))
		}
		return c.Send(formatRun(run))
	})

	b.Handle("/ask", func(c tele.Context) error {
		if analyst == nil {
			return c.Send("Analyst notes are disabled (no OpenAI key configured)")
		}
		question := strings.TrimSpace(c.Message().Payload)
		if question == "" {
			return c.Send("Usage: /ask how does TSLA look?")
		}
		reply, err := analyst.Ask(context.Background(), question)
		if err != nil {
			return c.Send(fmt.Sprintf("Analyst error: %v", err))
		}
		return c.Send(reply)
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func formatMood(mood *domain.MoodSummary) string {
	label := "neutral"
	switch {
	case mood.Mean >= 0.05:
		label = "positive"
	case mood.Mean <= -0.05:
		label = "negative"
	}
	return fmt.Sprintf(
		"%s mood: %s\nMean score: %+.3f over %d posts\nPositive: %d  Negative: %d  Neutral: %d",
		mood.Symbol, label, mood.Mean, mood.Posts, mood.Positive, mood.Negative, mood.Neutral,
	)
}

func formatRun(run *domain.PredictionRun) string {
	direction := "UP"
	confidence := run.ProbUp
	if run.ProbDown > run.ProbUp {
		direction = "DOWN"
		confidence = run.ProbDown
	}
	return fmt.Sprintf(
		"%s next-day call: %s (%.0f%%)\nP(up)=%.3f P(down)=%.3f",
		run.Symbol, direction, confidence*100, run.ProbUp, run.ProbDown,
	)
}
