package advisor

import (
	"context"
	"fmt"
	"log"

	"mood-swing/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// MoodQuerier provides the pipeline data the analyst narrates.
type MoodQuerier interface {
	Mood(ctx context.Context, symbol string) (*domain.MoodSummary, error)
	Predict(ctx context.Context, symbol string) (*domain.PredictionRun, error)
}

// AnalystService turns raw mood and prediction numbers into a short
// plain-language note.
type AnalystService struct {
	tracer   trace.Tracer
	llm      LLMClient
	pipeline MoodQuerier
	model    string
}

func NewAnalystService(tracer trace.Tracer, llm LLMClient, pipeline MoodQuerier, model string) *AnalystService {
	return &AnalystService{
		tracer:   tracer,
		llm:      llm,
		pipeline: pipeline,
		model:    model,
	}
}

// Ask answers a free-form question, grounding the reply in live mood and
// prediction data for every supported symbol the question mentions.
func (s *AnalystService) Ask(ctx context.Context, question string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "analyst.ask")
	defer span.End()

	symbols := ExtractSymbols(question)
	span.SetAttributes(attribute.Int("symbols_mentioned", len(symbols)))

	marketContext, err := s.gatherContext(ctx, symbols)
	if err != nil {
		log.Printf("failed to gather analyst context: %v", err)
		marketContext = "Market data temporarily unavailable."
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(BuildSystemPrompt(marketContext)),
		openai.UserMessage(question),
	}
	return s.callLLM(ctx, messages)
}

// Note writes an analyst note for one symbol from its current mood and
// prediction.
func (s *AnalystService) Note(ctx context.Context, symbol string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "analyst.note")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	marketContext, err := s.gatherContext(ctx, []string{symbol})
	if err != nil {
		return "", fmt.Errorf("analyst context for %s: %w", symbol, err)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(BuildSystemPrompt(marketContext)),
		openai.UserMessage("Write a short analyst note for " + symbol + "."),
	}
	return s.callLLM(ctx, messages)
}

func (s *AnalystService) gatherContext(ctx context.Context, symbols []string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "analyst.gather-context")
	defer span.End()

	var moods []*domain.MoodSummary
	var runs []*domain.PredictionRun
	for _, sym := range symbols {
		mood, err := s.pipeline.Mood(ctx, sym)
		if err != nil {
			log.Printf("mood unavailable for %s: %v", sym, err)
		} else {
			moods = append(moods, mood)
		}
		run, err := s.pipeline.Predict(ctx, sym)
		if err != nil {
			log.Printf("prediction unavailable for %s: %v", sym, err)
		} else {
			runs = append(runs, run)
		}
	}
	if len(moods) == 0 && len(runs) == 0 && len(symbols) > 0 {
		return "", fmt.Errorf("no data for mentioned symbols")
	}
	return FormatMarketContext(moods, runs), nil
}

func (s *AnalystService) callLLM(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	ctx, span := s.tracer.Start(ctx, "analyst.llm-call")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", s.model),
		attribute.Int("llm.message_count", len(messages)),
	)

	completion, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("analyst unavailable: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}

	reply := completion.Choices[0].Message.Content
	span.SetAttributes(attribute.Int("llm.reply_length", len(reply)))
	return reply, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
