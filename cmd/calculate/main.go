package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fcigcli/internal/config"
	"fcigcli/internal/dataprocessing"
	"fcigcli/internal/exporter"
	"fcigcli/internal/fcig"
	"fcigcli/internal/infrastructure"
)

func main() {
	deltas := flag.String("deltas", "", "driver delta table, csv or xlsx (defaults to data/deltas.csv)")
	multipliers := flag.String("multipliers", "", "multiplier table csv (defaults to data/multipliers.csv)")
	workers := flag.Int("workers", 0, "parallel reduce workers (defaults to configured value)")
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

	if *deltas == "" {
		*deltas = paths.GetDataPath("deltas.csv")
	}
	if *multipliers == "" {
		*multipliers = paths.GetDataPath("multipliers.csv")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	logger.InfoContext(ctx, "Starting index calculation",
		slog.String("deltas", *deltas),
		slog.String("multipliers", *multipliers))

	start := time.Now()

	table, err := dataprocessing.ParseMultipliersCSV(*multipliers)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load multiplier table", "error", err)
		os.Exit(1)
	}

	parsed, err := dataprocessing.ParseDeltas(*deltas)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load delta table", "error", err)
		os.Exit(1)
	}
	logger.InfoContext(ctx, "Loaded delta table",
		slog.Int("observations", parsed.Series.Len()),
		slog.Bool("monthly", parsed.Monthly))

	calc := fcig.NewCalculator(table, logger)
	if *workers > 0 {
		calc.SetWorkers(*workers)
	} else if cfg.Calc.Workers > 0 {
		calc.SetWorkers(cfg.Calc.Workers)
	}
	if cutoff, err := cfg.Calc.CutoffDate(); err == nil {
		calc.SetCutoff(cutoff)
	} else {
		logger.WarnContext(ctx, "Invalid cutoff date, using default", "error", err)
	}

	records, err := calc.Calculate(ctx, parsed.Series)
	if err != nil {
		logger.ErrorContext(ctx, "Calculation failed", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter(paths)
	if err := writer.WriteOutputs(ctx, records); err != nil {
		logger.ErrorContext(ctx, "Failed to write output tables", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Index calculation complete",
		slog.Int("records", len(records)),
		slog.Duration("elapsed", time.Since(start)),
		slog.String("reports_dir", paths.ReportsDir))
}
