package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/weather-proxy/internal/api/http"
	"github.com/i474232898/weather-proxy/internal/config"
	"github.com/i474232898/weather-proxy/internal/observability"
	"github.com/i474232898/weather-proxy/internal/scheduler"
	"github.com/i474232898/weather-proxy/internal/store"
	"github.com/i474232898/weather-proxy/internal/weather"
	"github.com/i474232898/weather-proxy/internal/weather/providers"
)

const appName = "weather-proxy"

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, version, appName)
	slog.SetDefault(logger)

	metrics := observability.NewMetrics()

	// Shared HTTP client for the citypage feed.
	httpClient := &http.Client{
		Timeout: cfg.UpstreamTimeout,
	}
	provider := providers.NewEnvCanadaProvider(httpClient, cfg.UpstreamBaseURL, metrics, logger)
	service := weather.NewService(provider, nil, logger)

	backend, closeBackend, err := openLedgerBackend(cfg, logger)
	if err != nil {
		logger.Error("failed to open vote ledger", "backend", cfg.VotesBackend, "error", err)
		os.Exit(1)
	}
	defer closeBackend()
	ledger := store.NewLedger(backend)

	// Optional periodic ledger backup.
	var backupTarget store.Backend
	if cfg.VotesBackupFile != "" {
		target, err := store.NewJSONFileBackend(cfg.VotesBackupFile)
		if err != nil {
			logger.Error("failed to open backup file", "path", cfg.VotesBackupFile, "error", err)
			os.Exit(1)
		}
		backupTarget = target
	}
	sched := scheduler.New(ledger, backupTarget, cfg.VotesBackupInterval, metrics, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := httpapi.NewApp(logger, metrics)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	httpapi.RegisterRoutes(app, service, ledger, metrics, logger)

	go func() {
		logger.Info("server listening", "addr", cfg.Addr(), "upstream", cfg.UpstreamBaseURL)
		if err := app.Listen(cfg.Addr()); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}

// openLedgerBackend returns the configured vote backend and a func releasing it.
func openLedgerBackend(cfg *config.AppConfig, logger *slog.Logger) (store.Backend, func(), error) {
	switch cfg.VotesBackend {
	case config.VotesBackendSQLite:
		db, err := store.OpenSQLite(cfg.VotesSQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("vote ledger ready", "backend", "sqlite", "path", cfg.VotesSQLitePath)
		return db, func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close vote database", "error", err)
			}
		}, nil
	case config.VotesBackendJSON:
		file, err := store.NewJSONFileBackend(cfg.VotesFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("vote ledger ready", "backend", "json", "path", file.Path())
		return file, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown votes backend %q", cfg.VotesBackend)
	}
}
