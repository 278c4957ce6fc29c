package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"mood-swing/internal/advisor"
	"mood-swing/internal/cache"
	"mood-swing/internal/config"
	"mood-swing/internal/db"
	"mood-swing/internal/features"
	"mood-swing/internal/ml/predictor"
	"mood-swing/internal/provider"
	"mood-swing/internal/repository"
	"mood-swing/internal/service"
	"mood-swing/internal/tui"
	"mood-swing/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	gossh "golang.org/x/crypto/ssh"
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
	newOpenAIClientFunc    = advisor.NewOpenAIClient
	newAnalystServiceFunc  = advisor.NewAnalystService
	newWishServerFunc      = wish.NewServer
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
)

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

	// Repositories and the pipeline service
	barRepo := newBarRepoFunc(db.Pool, tracer)
	runRepo := newRunRepoFunc(db.Pool, tracer)

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
	pipeline := newPipelineServiceFunc(tracer, newYahooProviderFunc(tracer), newRedditProviderFunc(tracer),
		barStore, runStore, cache.Client, cfg.HistoryDays, cfg.RedditPostLimit, newModel)

	// Analyst notes (optional)
	var analyst *advisor.AnalystService
	if cfg.OpenAIAPIKey != "" {
		analyst = newAnalystServiceFunc(tracer, newOpenAIClientFunc(cfg.OpenAIAPIKey), pipeline, cfg.OpenAIModel)
		log.Println("SSH analyst notes enabled")
	}

	authorized := make(map[string]bool, len(cfg.SSHAuthorized))
	for _, fp := range cfg.SSHAuthorized {
		authorized[fp] = true
	}
	if len(authorized) == 0 {
		log.Println("Warning: SSH_AUTHORIZED_FINGERPRINTS not set, accepting any public key")
	}

	// Build Wish SSH server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			fingerprint := gossh.FingerprintSHA256(key)
			if len(authorized) > 0 && !authorized[fingerprint] {
				log.Printf("SSH auth denied: fingerprint=%s", fingerprint)
				return false
			}
			log.Printf("SSH auth accepted: user=%s fingerprint=%s", ctx.User(), fingerprint)
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				var analystQ tui.AnalystQuerier
				if analyst != nil {
					analystQ = analyst
				}

				model := tui.NewAppModel(tui.Services{
					Pipeline: pipeline,
					Analyst:  analystQ,
					Username: s.User(),
				})
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}
