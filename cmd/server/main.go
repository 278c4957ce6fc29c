package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mood-swing/internal/advisor"
	"mood-swing/internal/bot"
	"mood-swing/internal/cache"
	"mood-swing/internal/config"
	"mood-swing/internal/db"
	"mood-swing/internal/features"
	"mood-swing/internal/handler"
	"mood-swing/internal/job"
	"mood-swing/internal/ml/predictor"
	"mood-swing/internal/provider"
	"mood-swing/internal/repository"
	"mood-swing/internal/service"
	"mood-swing/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "mood-swing/docs"
)

var (
	loadEnvFunc          = godotenv.Load
	loadConfigFunc       = config.Load
	initPostgresFunc     = db.InitPostgres
	initRedisFunc        = cache.InitRedis
	initTracerFunc       = tracing.InitTracer
	newBarRepoFunc       = repository.NewBarRepository
	newRunRepoFunc       = repository.NewPredictionRepository
	newYahooProviderFunc = func(tracer trace.Tracer) service.BarProvider {
		return provider.NewYahooProvider(tracer)
	}
	newRedditProviderFunc = func(tracer trace.Tracer) service.PostProvider {
		return provider.NewRedditProvider(tracer)
	}
	newPipelineServiceFunc = service.NewPipelineService
	newBarPollerFunc       = job.NewBarPoller
	newTrainingJobFunc     = job.NewTrainingJob
	startBarPollerFunc     = func(p *job.BarPoller, ctx context.Context) { go p.Start(ctx) }
	startTrainingJobFunc   = func(j *job.TrainingJob, ctx context.Context) { go j.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Mood Swing API
// @version         1.0
// @description     Reddit sentiment and next-day stock direction predictions.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Create repositories and run migrations
	barRepo := newBarRepoFunc(db.Pool, tracer)
	runRepo := newRunRepoFunc(db.Pool, tracer)
	if db.Pool != nil {
		if err := barRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run bar migrations: %v", err)
		}
		if err := runRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run prediction migrations: %v", err)
		}
	}

	// Providers and the pipeline service
	yahoo := newYahooProviderFunc(tracer)
	reddit := newRedditProviderFunc(tracer)

	newModel := func() *predictor.Predictor {
		builder := features.NewBuilder(features.Config{
			ShortWindow: cfg.ShortWindow,
			LongWindow:  cfg.LongWindow,
			RSIPeriod:   cfg.LongWindow,
			MinRows:     cfg.MinTrainingRows,
		})
		return predictor.New(tracer, builder, predictor.Config{
			Folds: cfg.CVFolds,
			Grid: predictor.Grid{
				Trees:     cfg.GridTrees,
				MaxDepths: cfg.GridMaxDepths,
				MinSplits: cfg.GridMinSplits,
				MinLeafs:  cfg.GridMinLeafs,
			},
			Seed: cfg.ModelSeed,
		})
	}

	var barStore service.BarRepository
	var runStore service.PredictionRepository
	if db.Pool != nil {
		barStore = barRepo
		runStore = runRepo
	}
	pipeline := newPipelineServiceFunc(tracer, yahoo, reddit, barStore, runStore,
		cache.Client, cfg.HistoryDays, cfg.RedditPostLimit, newModel)

	// Background jobs, stopped by ctx cancel
	poller := newBarPollerFunc(tracer, pipeline, cfg.RefreshPollSecs)
	startBarPollerFunc(poller, ctx)
	trainJob := newTrainingJobFunc(tracer, pipeline, cfg.TrainHourUTC)
	startTrainingJobFunc(trainJob, ctx)

	// Analyst notes (optional)
	var analyst *advisor.AnalystService
	if cfg.OpenAIAPIKey != "" {
		llmClient := advisor.NewOpenAIClient(cfg.OpenAIAPIKey)
		analyst = advisor.NewAnalystService(tracer, llmClient, pipeline, cfg.OpenAIModel)
		log.Println("Analyst notes enabled")
	}

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(pipeline, analyst)

	// Create handlers and routes
	h := newHandlerFunc(tracer, pipeline, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("mood-swing"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
