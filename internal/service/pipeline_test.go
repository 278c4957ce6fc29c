package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mood-swing/internal/domain"
	"mood-swing/internal/features"
	"mood-swing/internal/ml/predictor"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func smallModel() *predictor.Predictor {
	return predictor.New(testTracer, features.NewBuilder(features.DefaultConfig()), predictor.Config{
		Folds: 3,
		Grid: predictor.Grid{
			Trees:     []int{10},
			MaxDepths: []int{4},
			MinSplits: []int{2},
			MinLeafs:  []int{1},
		},
		Seed: 42,
	})
}

func testBars(n int) []domain.PriceBar {
	bars := make([]domain.PriceBar, n)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = domain.PriceBar{
			Symbol: "TSLA",
			Time:   start.AddDate(0, 0, i),
			Close:  100 + float64(i%2) - float64(i%3)/3,
			Volume: 1_000_000 + float64(i)*500,
		}
	}
	return bars
}

func testPosts(bars []domain.PriceBar) []domain.TextItem {
	texts := []string{
		"TSLA is mooning, great earnings",
		"this stock looks terrible, total crash incoming",
		"very bullish on deliveries",
		"not good, margins are bad",
	}
	items := make([]domain.TextItem, 0, len(bars))
	for i, bar := range bars {
		items = append(items, domain.TextItem{
			Source:   "reddit",
			Text:     texts[i%len(texts)],
			PostedAt: bar.Time.Add(4 * time.Hour),
		})
	}
	return items
}

func newTestService(bars *mockBarProvider, posts *mockPostProvider, barRepo *mockBarRepo, runRepo *mockRunRepo, redisClient RedisClient) *PipelineService {
	var br BarRepository
	if barRepo != nil {
		br = barRepo
	}
	var rr PredictionRepository
	if runRepo != nil {
		rr = runRepo
	}
	return NewPipelineService(testTracer, bars, posts, br, rr, redisClient, 60, 40, smallModel)
}

func TestPipelineService_RefreshBars(t *testing.T) {
	t.Parallel()

	provider := &mockBarProvider{bars: testBars(10)}
	repo := &mockBarRepo{}
	svc := newTestService(provider, &mockPostProvider{}, repo, nil, nil)

	if err := svc.RefreshBars(context.Background(), "tsla"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 1 || provider.lastSymbol != "TSLA" {
		t.Fatalf("unexpected provider calls: %d %q", provider.calls, provider.lastSymbol)
	}
	if repo.upsertCalls != 1 || len(repo.upsertArg) != 10 {
		t.Fatalf("expected 10 bars upserted, got %d calls %d bars", repo.upsertCalls, len(repo.upsertArg))
	}
}

func TestPipelineService_RefreshBarsUnsupported(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockBarProvider{}, &mockPostProvider{}, nil, nil, nil)
	err := svc.RefreshBars(context.Background(), "FAKE")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPipelineService_BarsPrefersRepository(t *testing.T) {
	t.Parallel()

	provider := &mockBarProvider{bars: testBars(5)}
	repo := &mockBarRepo{getResp: testBars(20)}
	svc := newTestService(provider, &mockPostProvider{}, repo, nil, nil)

	bars, err := svc.Bars(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 20 {
		t.Fatalf("expected repository bars, got %d", len(bars))
	}
	if provider.calls != 0 {
		t.Fatalf("provider should not be called, got %d calls", provider.calls)
	}
}

func TestPipelineService_BarsFallsBackToProvider(t *testing.T) {
	t.Parallel()

	provider := &mockBarProvider{bars: testBars(5)}
	repo := &mockBarRepo{}
	svc := newTestService(provider, &mockPostProvider{}, repo, nil, nil)

	bars, err := svc.Bars(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 5 || provider.calls != 1 {
		t.Fatalf("expected provider fallback, got %d bars %d calls", len(bars), provider.calls)
	}
}

func TestPipelineService_MoodSummarizesAndCaches(t *testing.T) {
	t.Parallel()

	posts := &mockPostProvider{items: []domain.TextItem{
		{Text: "great earnings, very bullish"},
		{Text: "terrible quarter, total crash"},
		{Text: "the report is out"},
	}}
	cache := newFakeRedis()
	svc := newTestService(&mockBarProvider{}, posts, nil, nil, cache)

	mood, err := svc.Mood(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mood.Posts != 3 || mood.Positive != 1 || mood.Negative != 1 || mood.Neutral != 1 {
		t.Fatalf("unexpected summary: %+v", mood)
	}

	if _, err := svc.Mood(context.Background(), "TSLA"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if posts.calls != 1 {
		t.Fatalf("expected cached second read, got %d fetches", posts.calls)
	}
}

func TestPipelineService_FusedSeriesAlignsToBars(t *testing.T) {
	t.Parallel()

	bars := testBars(30)
	provider := &mockBarProvider{bars: bars}
	posts := &mockPostProvider{items: testPosts(bars)}
	svc := newTestService(provider, posts, nil, nil, nil)

	rows, err := svc.FusedSeries(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != len(bars) {
		t.Fatalf("expected %d rows, got %d", len(bars), len(rows))
	}
	for i, row := range rows {
		if !row.Time.Equal(bars[i].Time) {
			t.Fatalf("row %d time mismatch: %v != %v", i, row.Time, bars[i].Time)
		}
	}
}

func TestPipelineService_TrainReturnsMetrics(t *testing.T) {
	t.Parallel()

	bars := testBars(80)
	svc := newTestService(&mockBarProvider{bars: bars}, &mockPostProvider{items: testPosts(bars)}, nil, nil, nil)

	metrics, err := svc.Train(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.UsableRows == 0 {
		t.Fatal("expected usable rows")
	}
	if metrics.CVMean < 0 || metrics.CVMean > 1 {
		t.Fatalf("cv mean out of range: %f", metrics.CVMean)
	}
	if !svc.Trained("TSLA") {
		t.Fatal("expected a trained model after Train")
	}
}

func TestPipelineService_PredictTrainsAndPersists(t *testing.T) {
	t.Parallel()

	bars := testBars(80)
	runRepo := &mockRunRepo{}
	svc := newTestService(&mockBarProvider{bars: bars}, &mockPostProvider{items: testPosts(bars)}, nil, runRepo, nil)

	run, err := svc.Predict(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := run.ProbDown + run.ProbUp
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("probabilities do not sum to 1: %f", sum)
	}
	if run.Symbol != "TSLA" || run.ID != 1 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if runRepo.insertCalls != 1 {
		t.Fatalf("expected 1 insert, got %d", runRepo.insertCalls)
	}
	if run.ParamsJSON == "" {
		t.Fatal("expected params json on first-run training")
	}
}

func TestPipelineService_PredictConcurrentCallers(t *testing.T) {
	t.Parallel()

	bars := testBars(80)
	runRepo := &mockRunRepo{}
	svc := newTestService(&mockBarProvider{bars: bars}, &mockPostProvider{items: testPosts(bars)}, nil, runRepo, nil)

	// Both callers hit an untrained symbol at once, so one may retrain
	// while the other predicts against the freshly held model.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			run, err := svc.Predict(context.Background(), "TSLA")
			if err == nil {
				sum := run.ProbDown + run.ProbUp
				if sum < 0.999 || sum > 1.001 {
					err = fmt.Errorf("probabilities do not sum to 1: %f", sum)
				}
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: unexpected error: %v", i, err)
		}
	}
	if !svc.Trained("TSLA") {
		t.Error("expected a trained model after concurrent predicts")
	}
}

func TestPipelineService_PredictInsufficientHistory(t *testing.T) {
	t.Parallel()

	bars := testBars(12)
	svc := newTestService(&mockBarProvider{bars: bars}, &mockPostProvider{items: testPosts(bars)}, nil, nil, nil)

	_, err := svc.Predict(context.Background(), "TSLA")
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

type mockBarProvider struct {
	bars []domain.PriceBar
	err  error

	mu         sync.Mutex
	calls      int
	lastSymbol string
	lastDays   int
}

func (m *mockBarProvider) FetchDailyBars(ctx context.Context, symbol string, days int) ([]domain.PriceBar, error) {
	m.mu.Lock()
	m.calls++
	m.lastSymbol = symbol
	m.lastDays = days
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.bars, nil
}

type mockPostProvider struct {
	items []domain.TextItem
	err   error

	mu    sync.Mutex
	calls int
}

func (m *mockPostProvider) FetchPosts(ctx context.Context, symbol string, limit int) ([]domain.TextItem, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

type mockBarRepo struct {
	getResp []domain.PriceBar
	getErr  error

	upsertArg   []domain.PriceBar
	upsertCalls int
}

func (m *mockBarRepo) GetBars(ctx context.Context, symbol string, limit int) ([]domain.PriceBar, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getResp, nil
}

func (m *mockBarRepo) UpsertBars(ctx context.Context, bars []domain.PriceBar) error {
	m.upsertCalls++
	m.upsertArg = bars
	return nil
}

type mockRunRepo struct {
	mu          sync.Mutex
	runs        []domain.PredictionRun
	insertCalls int
}

func (m *mockRunRepo) InsertRun(ctx context.Context, run domain.PredictionRun) (*domain.PredictionRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	run.ID = int64(m.insertCalls)
	m.runs = append(m.runs, run)
	return &run, nil
}

func (m *mockRunRepo) RecentRuns(ctx context.Context, symbol string, limit int) ([]domain.PredictionRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.PredictionRun, 0, len(m.runs))
	for _, run := range m.runs {
		if run.Symbol == symbol {
			out = append(out, run)
		}
	}
	return out, nil
}

type fakeRedis struct {
	data   map[string][]byte
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}
