package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ryanbastic/go-escaperoom/internal/api"
	"github.com/ryanbastic/go-escaperoom/internal/circuitbreaker"
	"github.com/ryanbastic/go-escaperoom/internal/config"
	"github.com/ryanbastic/go-escaperoom/internal/export"
	"github.com/ryanbastic/go-escaperoom/internal/hints"
	"github.com/ryanbastic/go-escaperoom/internal/metrics"
	"github.com/ryanbastic/go-escaperoom/internal/storage"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to PostgreSQL
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	if err := storage.RunMigrations(ctx, pool); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations complete", "table", storage.RoomsTable)

	prometheus.MustRegister(metrics.NewPoolCollector("primary", pool))

	rooms := storage.NewPostgresStore(pool, cfg.QueryTimeout)

	generator, err := export.NewGenerator()
	if err != nil {
		logger.Error("failed to load export templates", "error", err)
		os.Exit(1)
	}

	var suggester hints.Suggester
	if cfg.HintsEnabled() {
		gemini, err := hints.NewGeminiClient(ctx, cfg.GCPProjectID, cfg.GCPRegion, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		breaker := circuitbreaker.New(cfg.HintBreakerFailures, cfg.HintBreakerReset,
			circuitbreaker.WithStateChange(func(from, to circuitbreaker.State) {
				logger.Warn("hint breaker state change", "from", from, "to", to)
			}),
		)
		suggester = hints.NewService(gemini, breaker)
		logger.Info("hint suggestions enabled", "model", gemini.Model(), "region", cfg.GCPRegion)
	} else {
		logger.Info("hint suggestions disabled", "reason", "GCP_PROJECT_ID not set")
	}

	handler := api.NewServer(logger, rooms, generator, suggester, map[string]api.Pinger{"primary": pool})
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("starting HTTP server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
