package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"mood-swing/internal/advisor"
	"mood-swing/internal/config"
	"mood-swing/internal/domain"
	"mood-swing/internal/job"
	"mood-swing/internal/service"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
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

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitPostgres := initPostgresFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origNewYahoo := newYahooProviderFunc
	origNewReddit := newRedditProviderFunc
	origStartPoller := startBarPollerFunc
	origStartTraining := startTrainingJobFunc
	origStartTelegram := startTelegramBotFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			HTTPPort:        8080,
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
			RefreshPollSecs: 900,
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
	startBarPollerFunc = func(*job.BarPoller, context.Context) {}
	startTrainingJobFunc = func(*job.TrainingJob, context.Context) {}
	startTelegramBotFunc = func(*service.PipelineService, *advisor.AnalystService) {}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initPostgresFunc = origInitPostgres
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		newYahooProviderFunc = origNewYahoo
		newRedditProviderFunc = origNewReddit
		startBarPollerFunc = origStartPoller
		startTrainingJobFunc = origStartTraining
		startTelegramBotFunc = origStartTelegram
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
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
