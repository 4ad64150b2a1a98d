package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fcigcli/internal/config"
	"fcigcli/internal/exporter"
	"fcigcli/internal/fred"
	"fcigcli/internal/infrastructure"
)

func main() {
	series := flag.String("series", fred.GDPGrowthSeriesID, "FRED series id to fetch")
	out := flag.String("out", "real_gdp_growth_qoq_annualized.csv", "output file name under the reports directory")
	flag.Parse()

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
	ctx = infrastructure.EnsureTraceID(ctx)

	client, err := fred.NewClient(cfg.Fred, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create FRED client", "error", err)
		os.Exit(1)
	}

	observations, err := client.SeriesObservations(ctx, *series)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch series", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter(paths)
	if err := fred.WriteObservationsCSV(writer, *out, observations); err != nil {
		logger.ErrorContext(ctx, "Failed to write series", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Series fetched",
		slog.String("series_id", *series),
		slog.Int("observations", len(observations)),
		slog.String("output", paths.GetReportPath(*out)))
}
