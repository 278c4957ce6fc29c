package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"mood-swing/internal/domain"
	"mood-swing/internal/fusion"
	"mood-swing/internal/ml/predictor"
	"mood-swing/internal/sentiment"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const (
	moodCacheTTL  = 10 * time.Minute
	fusedCacheTTL = 10 * time.Minute
)

type BarProvider interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]domain.PriceBar, error)
}

type PostProvider interface {
	FetchPosts(ctx context.Context, symbol string, limit int) ([]domain.TextItem, error)
}

type BarRepository interface {
	UpsertBars(ctx context.Context, bars []domain.PriceBar) error
	GetBars(ctx context.Context, symbol string, limit int) ([]domain.PriceBar, error)
}

type PredictionRepository interface {
	InsertRun(ctx context.Context, run domain.PredictionRun) (*domain.PredictionRun, error)
	RecentRuns(ctx context.Context, symbol string, limit int) ([]domain.PredictionRun, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// PipelineService orchestrates the full path from raw posts and price bars
// to a stored prediction: fetch, score, fuse, train, predict.
type PipelineService struct {
	tracer   trace.Tracer
	bars     BarProvider
	posts    PostProvider
	barRepo  BarRepository
	runRepo  PredictionRepository
	redis    RedisClient
	analyzer *sentiment.Analyzer

	historyDays int
	postLimit   int

	mu         sync.Mutex
	predictors map[string]*predictor.Predictor
	newModel   func() *predictor.Predictor
}

func NewPipelineService(
	tracer trace.Tracer,
	bars BarProvider,
	posts PostProvider,
	barRepo BarRepository,
	runRepo PredictionRepository,
	redisClient RedisClient,
	historyDays int,
	postLimit int,
	newModel func() *predictor.Predictor,
) *PipelineService {
	if historyDays <= 0 {
		historyDays = 60
	}
	if postLimit <= 0 {
		postLimit = 100
	}
	return &PipelineService{
		tracer:      tracer,
		bars:        bars,
		posts:       posts,
		barRepo:     barRepo,
		runRepo:     runRepo,
		redis:       redisClient,
		analyzer:    sentiment.New(),
		historyDays: historyDays,
		postLimit:   postLimit,
		predictors:  make(map[string]*predictor.Predictor),
		newModel:    newModel,
	}
}

// RefreshBars fetches the daily history for a symbol and upserts it.
func (s *PipelineService) RefreshBars(ctx context.Context, symbol string) error {
	ctx, span := s.tracer.Start(ctx, "pipeline.refresh-bars")
	defer span.End()

	symbol = normalizeSymbol(symbol)
	if !domain.IsSupported(symbol) {
		return fmt.Errorf("unsupported symbol %q: %w", symbol, domain.ErrInvalidInput)
	}

	bars, err := s.bars.FetchDailyBars(ctx, symbol, s.historyDays)
	if err != nil {
		return err
	}
	if s.barRepo != nil {
		if err := s.barRepo.UpsertBars(ctx, bars); err != nil {
			return fmt.Errorf("upsert bars for %s: %w", symbol, err)
		}
	}
	log.Printf("Refreshed %d daily bars for %s", len(bars), symbol)
	return nil
}

// Bars returns the daily history for a symbol, oldest first. Postgres is
// the source when available, otherwise a live provider call.
func (s *PipelineService) Bars(ctx context.Context, symbol string) ([]domain.PriceBar, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.bars")
	defer span.End()

	symbol = normalizeSymbol(symbol)
	if !domain.IsSupported(symbol) {
		return nil, fmt.Errorf("unsupported symbol %q: %w", symbol, domain.ErrInvalidInput)
	}

	if s.barRepo != nil {
		bars, err := s.barRepo.GetBars(ctx, symbol, s.historyDays)
		if err != nil {
			log.Printf("bar repository read error for %s: %v", symbol, err)
		}
		if len(bars) > 0 {
			return bars, nil
		}
	}
	return s.bars.FetchDailyBars(ctx, symbol, s.historyDays)
}

// Mood fetches fresh posts for a symbol, scores them, and summarizes the
// batch. Summaries are cached in Redis briefly to spare the Reddit API.
func (s *PipelineService) Mood(ctx context.Context, symbol string) (*domain.MoodSummary, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.mood")
	defer span.End()

	symbol = normalizeSymbol(symbol)
	if !domain.IsSupported(symbol) {
		return nil, fmt.Errorf("unsupported symbol %q: %w", symbol, domain.ErrInvalidInput)
	}

	if s.redis != nil {
		var cached domain.MoodSummary
		if ok, err := s.getCache(ctx, "mood:"+symbol, &cached); err != nil {
			log.Printf("redis cache read error: %v", err)
		} else if ok {
			return &cached, nil
		}
	}

	items, err := s.posts.FetchPosts(ctx, symbol, s.postLimit)
	if err != nil {
		return nil, err
	}
	scores, err := s.analyzer.Scores(items)
	if err != nil {
		return nil, err
	}

	summary := &domain.MoodSummary{
		Symbol:    symbol,
		Posts:     len(scores),
		SampledAt: time.Now().UTC(),
	}
	for _, score := range scores {
		summary.Mean += score
		switch {
		case score >= 0.05:
			summary.Positive++
		case score <= -0.05:
			summary.Negative++
		default:
			summary.Neutral++
		}
	}
	if len(scores) > 0 {
		summary.Mean /= float64(len(scores))
	}

	if s.redis != nil {
		if err := s.setCache(ctx, "mood:"+symbol, summary, moodCacheTTL); err != nil {
			log.Printf("redis cache write error for %s: %v", symbol, err)
		}
	}
	return summary, nil
}

// FusedSeries builds the aligned sentiment-and-price series for a symbol:
// fetch posts, score them, and bucket the scores onto the daily bars.
func (s *PipelineService) FusedSeries(ctx context.Context, symbol string) ([]domain.FusedRow, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.fused-series")
	defer span.End()

	symbol = normalizeSymbol(symbol)
	if s.redis != nil {
		var cached []domain.FusedRow
		if ok, err := s.getCache(ctx, "fused:"+symbol, &cached); err != nil {
			log.Printf("redis cache read error: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	bars, err := s.Bars(ctx, symbol)
	if err != nil {
		return nil, err
	}
	items, err := s.posts.FetchPosts(ctx, symbol, s.postLimit)
	if err != nil {
		return nil, err
	}
	scores, err := s.analyzer.Scores(items)
	if err != nil {
		return nil, err
	}

	scored := make([]domain.ScoredItem, len(scores))
	for i := range scores {
		scored[i] = domain.ScoredItem{Time: items[i].PostedAt, Score: scores[i]}
	}

	rows, err := fusion.Fuse(bars, scored)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.setCache(ctx, "fused:"+symbol, rows, fusedCacheTTL); err != nil {
			log.Printf("redis cache write error for %s: %v", symbol, err)
		}
	}
	return rows, nil
}

// Train builds the fused series for a symbol and fits its model.
func (s *PipelineService) Train(ctx context.Context, symbol string) (*domain.TrainingMetrics, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.train")
	defer span.End()

	symbol = normalizeSymbol(symbol)
	rows, err := s.FusedSeries(ctx, symbol)
	if err != nil {
		return nil, err
	}

	model := s.predictorFor(symbol)
	metrics, err := model.Train(ctx, rows)
	if err != nil {
		return nil, err
	}
	log.Printf("Trained %s model: best=%.3f cv=%.3f±%.3f rows=%d",
		symbol, metrics.BestAccuracy, metrics.CVMean, metrics.CVStd, metrics.UsableRows)
	return metrics, nil
}

// Predict returns next-day direction probabilities for a symbol, training
// first when no model is held yet. Successful runs are persisted.
func (s *PipelineService) Predict(ctx context.Context, symbol string) (*domain.PredictionRun, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.predict")
	defer span.End()

	symbol = normalizeSymbol(symbol)
	rows, err := s.FusedSeries(ctx, symbol)
	if err != nil {
		return nil, err
	}

	model := s.predictorFor(symbol)
	var metrics *domain.TrainingMetrics
	if !model.Trained() {
		metrics, err = model.Train(ctx, rows)
		if err != nil {
			return nil, err
		}
	}

	probs, err := model.Predict(ctx, rows)
	if err != nil {
		return nil, err
	}

	run := domain.PredictionRun{
		Symbol:   symbol,
		RunAt:    time.Now().UTC(),
		ProbDown: probs[0],
		ProbUp:   probs[1],
	}
	if metrics != nil {
		run.BestAccuracy = metrics.BestAccuracy
		run.CVMean = metrics.CVMean
		run.CVStd = metrics.CVStd
		if data, err := json.Marshal(metrics.BestParams); err == nil {
			run.ParamsJSON = string(data)
		}
	}

	if s.runRepo != nil {
		stored, err := s.runRepo.InsertRun(ctx, run)
		if err != nil {
			log.Printf("prediction run insert error for %s: %v", symbol, err)
		} else {
			run = *stored
		}
	}
	return &run, nil
}

// RecentRuns returns the most recently stored prediction runs for a symbol.
func (s *PipelineService) RecentRuns(ctx context.Context, symbol string, limit int) ([]domain.PredictionRun, error) {
	if s.runRepo == nil {
		return nil, nil
	}
	return s.runRepo.RecentRuns(ctx, normalizeSymbol(symbol), limit)
}

// Trained reports whether a fitted model is held for the symbol.
func (s *PipelineService) Trained(symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	model, ok := s.predictors[normalizeSymbol(symbol)]
	return ok && model.Trained()
}

func (s *PipelineService) predictorFor(symbol string) *predictor.Predictor {
	s.mu.Lock()
	defer s.mu.Unlock()
	model, ok := s.predictors[symbol]
	if !ok {
		model = s.newModel()
		s.predictors[symbol] = model
	}
	return model
}

func (s *PipelineService) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, key, data, ttl).Err()
}

func (s *PipelineService) getCache(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
