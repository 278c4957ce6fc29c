package main

import (
	"context"
	"os"
	"testing"
	"time"

	"mood-swing/internal/advisor"
	"mood-swing/internal/config"
	"mood-swing/internal/domain"
	"mood-swing/internal/service"

	"github.com/charmbracelet/ssh"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	restore := stubSSHDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func stubSSHDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitPostgres := initPostgresFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origNewYahoo := newYahooProviderFunc
	origNewReddit := newRedditProviderFunc
	origNewOpenAIClient := newOpenAIClientFunc
	origNewWishServer := newWishServerFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			SSHPort:         2222,
			SSHHostKeyPath:  ".ssh/test_key",
			HistoryDays:     30,
			RedditPostLimit: 10,
			ShortWindow:     7,
			LongWindow:      14,
			MinTrainingRows: 10,
			CVFolds:         3,
			ModelSeed:       1,
			GridTrees:       []int{10},
			GridMaxDepths:   []int{4},
			GridMinSplits:   []int{2},
			GridMinLeafs:    []int{1},
		}
	}
	initPostgresFunc = func(context.Context) {}
	initRedisFunc = func(context.Context) {}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newYahooProviderFunc = func(trace.Tracer) service.BarProvider { return stubBarProvider{} }
	newRedditProviderFunc = func(trace.Tracer) service.PostProvider { return stubPostProvider{} }
	newOpenAIClientFunc = func(string) advisor.LLMClient { return nil }
	newWishServerFunc = func(ops ...ssh.Option) (*ssh.Server, error) {
		return nil, nil
	}
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initPostgresFunc = origInitPostgres
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		newYahooProviderFunc = origNewYahoo
		newRedditProviderFunc = origNewReddit
		newOpenAIClientFunc = origNewOpenAIClient
		newWishServerFunc = origNewWishServer
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
	}
}

type stubBarProvider struct{}

func (stubBarProvider) FetchDailyBars(ctx context.Context, symbol string, days int) ([]domain.PriceBar, error) {
	return []domain.PriceBar{}, nil
}

type stubPostProvider struct{}

func (stubPostProvider) FetchPosts(ctx context.Context, symbol string, limit int) ([]domain.TextItem, error) {
	return []domain.TextItem{}, nil
}
