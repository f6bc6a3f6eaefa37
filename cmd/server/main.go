package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medprep/neetpg-backend/internal/config"
	"github.com/medprep/neetpg-backend/internal/database"
	"github.com/medprep/neetpg-backend/internal/handler"
	"github.com/medprep/neetpg-backend/internal/logger"
	"github.com/medprep/neetpg-backend/internal/repository"
	"github.com/medprep/neetpg-backend/internal/router"
	"github.com/medprep/neetpg-backend/internal/service"
	"github.com/medprep/neetpg-backend/internal/validator"
	"github.com/medprep/neetpg-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting NEET-PG Prep Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	questionRepo := repository.NewQuestionRepository(pool)
	flashcardRepo := repository.NewFlashcardRepository(pool)
	mnemonicRepo := repository.NewMnemonicRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	snapshotStore := repository.NewSnapshotStore(rdb)
	resultQueue := repository.NewResultQueue(rdb)
	corpusCache := repository.NewCorpusCache(questionRepo, rdb, log)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	quizService := service.NewQuizService(cfg, corpusCache, snapshotStore, resultQueue, log)
	flashcardService := service.NewFlashcardService(flashcardRepo)
	mnemonicService := service.NewMnemonicService(mnemonicRepo)
	analyticsService := service.NewAnalyticsService(attemptRepo)
	chatService := service.NewChatService(cfg, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Quiz:      handler.NewQuizHandler(quizService),
		Question:  handler.NewQuestionHandler(questionRepo),
		Catalog:   handler.NewCatalogHandler(),
		Flashcard: handler.NewFlashcardHandler(flashcardService),
		Mnemonic:  handler.NewMnemonicHandler(mnemonicService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
		Chat:      handler.NewChatHandler(chatService),
		WS:        handler.NewWSHandler(quizService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	resultWorker := worker.NewResultWorker(attemptRepo, rdb, log)
	go resultWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load the question corpus into Redis BEFORE accepting traffic so the
	// first session start doesn't hit the database under load.
	if err := corpusCache.Prewarm(ctx); err != nil {
		log.Warn().Err(err).Msg("Corpus prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the result worker and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow the worker to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
