package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fcigcli/internal/api"
	"fcigcli/internal/config"
	"fcigcli/internal/infrastructure"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, err := infrastructure.InitializeMetrics(ctx, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer metrics.Shutdown(context.Background())

	businessMetrics, err := infrastructure.CreateBusinessMetrics(metrics.Meter)
	if err != nil {
		logger.WarnContext(ctx, "Failed to create business metrics", "error", err)
	}

	handler := api.NewHandler(api.NewStore(paths), logger, businessMetrics)
	router := api.NewRouter(cfg.Server, handler, logger, metrics.PrometheusHTTP, businessMetrics)
	server := api.NewServer(cfg.Server, router, logger)

	logger.InfoContext(ctx, "Starting API server",
		slog.Int("port", cfg.Server.Port),
		slog.String("reports_dir", paths.ReportsDir))

	if err := server.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "Server stopped with error", "error", err)
		os.Exit(1)
	}
}
