package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mood-swing/internal/domain"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type stubLLMClient struct {
	response   *openai.ChatCompletion
	err        error
	lastParams openai.ChatCompletionNewParams
}

func (s *stubLLMClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

type stubPipeline struct {
	mood    *domain.MoodSummary
	run     *domain.PredictionRun
	moodErr error
	runErr  error
}

func (s *stubPipeline) Mood(ctx context.Context, symbol string) (*domain.MoodSummary, error) {
	if s.moodErr != nil {
		return nil, s.moodErr
	}
	return s.mood, nil
}

func (s *stubPipeline) Predict(ctx context.Context, symbol string) (*domain.PredictionRun, error) {
	if s.runErr != nil {
		return nil, s.runErr
	}
	return s.run, nil
}

func reply(text string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: text}},
		},
	}
}

func TestAskHappyPath(t *testing.T) {
	llm := &stubLLMClient{response: reply("TSLA chatter leans positive")}
	pipeline := &stubPipeline{
		mood: &domain.MoodSummary{Symbol: "TSLA", Mean: 0.2, Posts: 30},
		run:  &domain.PredictionRun{Symbol: "TSLA", ProbUp: 0.61, ProbDown: 0.39},
	}
	svc := NewAnalystService(testTracer, llm, pipeline, "gpt-4o-mini")

	got, err := svc.Ask(context.Background(), "What about TSLA?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "TSLA chatter leans positive" {
		t.Fatalf("unexpected reply: %q", got)
	}
	if len(llm.lastParams.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(llm.lastParams.Messages))
	}
}

func TestAskLLMError(t *testing.T) {
	llm := &stubLLMClient{err: errors.New("api down")}
	svc := NewAnalystService(testTracer, llm, &stubPipeline{}, "gpt-4o-mini")

	if _, err := svc.Ask(context.Background(), "anything good out there?"); err == nil {
		t.Fatal("expected error from LLM failure")
	}
}

func TestNoteRequiresData(t *testing.T) {
	llm := &stubLLMClient{response: reply("note")}
	pipeline := &stubPipeline{
		moodErr: errors.New("reddit down"),
		runErr:  errors.New("no model"),
	}
	svc := NewAnalystService(testTracer, llm, pipeline, "gpt-4o-mini")

	if _, err := svc.Note(context.Background(), "TSLA"); err == nil {
		t.Fatal("expected error when no data can be gathered")
	}
}

func TestNoteIncludesSymbol(t *testing.T) {
	llm := &stubLLMClient{response: reply("note")}
	pipeline := &stubPipeline{
		mood: &domain.MoodSummary{Symbol: "NVDA", Mean: -0.1, Posts: 12},
		run:  &domain.PredictionRun{Symbol: "NVDA", ProbUp: 0.45, ProbDown: 0.55},
	}
	svc := NewAnalystService(testTracer, llm, pipeline, "gpt-4o-mini")

	if _, err := svc.Note(context.Background(), "NVDA"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFormatMarketContext(t *testing.T) {
	out := FormatMarketContext(
		[]*domain.MoodSummary{{Symbol: "TSLA", Mean: 0.25, Posts: 40, Positive: 28, Negative: 6, Neutral: 6}},
		[]*domain.PredictionRun{{Symbol: "TSLA", ProbUp: 0.62, ProbDown: 0.38}},
	)
	if !strings.Contains(out, "TSLA") || !strings.Contains(out, "P(up)=0.620") {
		t.Fatalf("unexpected context: %q", out)
	}

	empty := FormatMarketContext(nil, nil)
	if empty != "No data currently available." {
		t.Fatalf("unexpected empty context: %q", empty)
	}
}
