package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/scholark/scholark-backend/internal/config"
	"github.com/scholark/scholark-backend/internal/database"
	"github.com/scholark/scholark-backend/internal/events"
	"github.com/scholark/scholark-backend/internal/handler"
	"github.com/scholark/scholark-backend/internal/logger"
	"github.com/scholark/scholark-backend/internal/repository"
	"github.com/scholark/scholark-backend/internal/router"
	"github.com/scholark/scholark-backend/internal/service"
	"github.com/scholark/scholark-backend/internal/validator"
	"github.com/scholark/scholark-backend/internal/worker"
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
		Msg("Starting Scholark Backend")

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
	classRepo := repository.NewClassRepository(pool)
	learnerRepo := repository.NewLearnerRepository(pool)
	transferRepo := repository.NewTransferRepository(pool)
	seqRepo := repository.NewSequenceRepository()

	// ─── Initialize Event Hub ──────────────────────────────────────────
	hub := events.NewHub(log)

	// ─── Initialize Services ──────────────────────────────────────────
	statsService := service.NewStatsService(pool, rdb, cfg.StatsCacheTTL, log)
	idService := service.NewStudentIDService(pool, seqRepo)
	classService := service.NewClassService(classRepo, statsService, log)
	learnerService := service.NewLearnerService(pool, learnerRepo, classRepo, idService, statsService, hub, log)
	transferService := service.NewTransferService(pool, learnerRepo, classRepo, transferRepo, idService, statsService, hub, log)
	importService := service.NewImportService(pool, learnerRepo, classRepo, idService, statsService, hub, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Class:    handler.NewClassHandler(classService),
		Learner:  handler.NewLearnerHandler(learnerService),
		Transfer: handler.NewTransferHandler(transferService),
		Import:   handler.NewImportHandler(importService),
		Stats:    handler.NewStatsHandler(statsService),
		WS:       handler.NewWSHandler(hub, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	recountWorker := worker.NewRecountWorker(pool, statsService, cfg.RecountInterval, log)
	go recountWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
