package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fcigcli/internal/config"
	"fcigcli/internal/exporter"
	"fcigcli/internal/infrastructure"
	"fcigcli/internal/varmodel"
)

func main() {
	indexFile := flag.String("index", "fci_g_3yr_quarterly.csv", "quarterly index table under the reports directory")
	gdpFile := flag.String("gdp", "real_gdp_growth_qoq_annualized.csv", "GDP growth table under the reports directory")
	shockQuarter := flag.String("shock-quarter", "2025Q4", "quarter of the shock, e.g. 2025Q4")
	replications := flag.Int("replications", varmodel.DefaultReplications, "Monte Carlo replications for the error bands")
	seed := flag.Uint64("seed", 1, "random seed for the Monte Carlo bands")
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

	quarter, err := parseQuarter(*shockQuarter)
	if err != nil {
		logger.ErrorContext(ctx, "Invalid shock quarter", "error", err)
		os.Exit(1)
	}

	index, err := readPoints(paths.GetReportPath(*indexFile))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read index table", "error", err)
		os.Exit(1)
	}
	gdp, err := readPoints(paths.GetReportPath(*gdpFile))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read GDP table", "error", err)
		os.Exit(1)
	}

	rows := varmodel.JoinQuarterly(index, gdp)
	logger.InfoContext(ctx, "Joined estimation sample",
		slog.Int("index_points", len(index)),
		slog.Int("gdp_points", len(gdp)),
		slog.Int("joined_quarters", len(rows)))

	opts := varmodel.DefaultOptions(quarter)
	opts.Replications = *replications
	opts.Seed = *seed

	results, err := varmodel.Run(rows, opts, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Impulse response analysis failed", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter(paths)
	if err := varmodel.WriteEstimationData(writer, rows); err != nil {
		logger.ErrorContext(ctx, "Failed to write estimation data", "error", err)
		os.Exit(1)
	}
	if err := varmodel.WriteResults(writer, results); err != nil {
		logger.ErrorContext(ctx, "Failed to write results", "error", err)
		os.Exit(1)
	}
	if err := varmodel.WriteSummary(writer, results); err != nil {
		logger.ErrorContext(ctx, "Failed to write summary table", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Impulse response analysis complete",
		slog.Int("lags", results[0].Lags),
		slog.Int("horizons", len(results)),
		slog.String("reports_dir", paths.ReportsDir))
}

// parseQuarter parses labels like "2025Q4".
func parseQuarter(s string) (varmodel.Quarter, error) {
	var year, q int
	if _, err := fmt.Sscanf(s, "%dQ%d", &year, &q); err != nil {
		return varmodel.Quarter{}, fmt.Errorf("parse quarter %q: %w", s, err)
	}
	if q < 1 || q > 4 {
		return varmodel.Quarter{}, fmt.Errorf("quarter %q out of range", s)
	}
	return varmodel.Quarter{Year: year, Q: q}, nil
}

// readPoints reads a CSV with a header row whose first two columns are a
// date and a value.
func readPoints(path string) ([]varmodel.Point, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	points := make([]varmodel.Point, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			return nil, fmt.Errorf("%s: row has fewer than 2 columns", path)
		}
		date, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			return nil, fmt.Errorf("%s: parse date %q: %w", path, row[0], err)
		}
		value, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: parse value %q: %w", path, row[1], err)
		}
		points = append(points, varmodel.Point{Date: date, Value: value})
	}
	return points, nil
}
