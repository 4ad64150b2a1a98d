package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"fcigcli/internal/calendar"
	"fcigcli/internal/fcig"
)

// expectedColumns is the date column plus the seven driver delta columns.
const expectedColumns = 1 + fcig.NumDrivers

// ParseResult carries the validated input series and how it was
// interpreted.
type ParseResult struct {
	Series  *fcig.TimeSeries
	Monthly bool
}

// ParseDeltas reads the driver-delta table from a CSV or XLSX file,
// dispatching on the file extension.
func ParseDeltas(path string) (*ParseResult, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ParseDeltasCSV(path)
	case ".xlsx":
		return ParseDeltasXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .csv or .xlsx)", ext)
	}
}

// ParseDeltasCSV reads the delta table from a CSV file with a header row:
// date plus exactly seven driver columns.
func ParseDeltasCSV(path string) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read input csv: %w", err)
	}
	return buildResult(path, rows)
}

// ParseDeltasXLSX reads the delta table from the first sheet of an XLSX
// workbook with the same layout as the CSV input.
func ParseDeltasXLSX(path string) (*ParseResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open input workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return buildResult(path, rows)
}

// buildResult validates raw rows and assembles the time series. Missing
// values, malformed dates, wrong column counts, and non-increasing dates
// are all fatal here, before any computation begins.
func buildResult(path string, rows [][]string) (*ParseResult, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("input %s has no data rows", path)
	}
	if len(rows[0]) != expectedColumns {
		return nil, fmt.Errorf("input %s must have %d columns (date + %d drivers), got %d",
			path, expectedColumns, fcig.NumDrivers, len(rows[0]))
	}

	obs := make([]fcig.Observation, 0, len(rows)-1)
	for r, row := range rows[1:] {
		line := r + 2 // 1-based, after header
		if len(row) != expectedColumns {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", line, expectedColumns, len(row))
		}

		date, err := parseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		var o fcig.Observation
		o.Date = date
		for c := 0; c < fcig.NumDrivers; c++ {
			cell := strings.TrimSpace(row[c+1])
			if cell == "" {
				return nil, fmt.Errorf("row %d: missing value for driver %s", line, fcig.DriverNames[c])
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: driver %s: %w", line, fcig.DriverNames[c], err)
			}
			o.Deltas[c] = v
		}
		obs = append(obs, o)
	}

	monthly := isMonthly(obs)
	if !monthly {
		series, err := fcig.NewTimeSeries(obs)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", path, err)
		}
		return &ParseResult{Series: series}, nil
	}

	// Monthly data: snap each date to its calendar month end for the
	// alignment engine, but keep the originals for the output.
	original := make([]time.Time, len(obs))
	for i := range obs {
		original[i] = obs[i].Date
		obs[i].Date = calendar.LastOfMonth(obs[i].Date)
	}
	series, err := fcig.NewMonthlySeries(obs, original)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", path, err)
	}

	slog.Info("detected monthly input, snapped dates to month end",
		slog.String("path", path),
		slog.Int("observations", len(obs)))
	return &ParseResult{Series: series, Monthly: true}, nil
}

// parseDate accepts m/d/Y dates (US CSV exports) and ISO dates.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layout := "2006-01-02"
	if strings.Contains(s, "/") {
		layout = "1/2/2006"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t.UTC(), nil
}

// isMonthly reports whether every consecutive gap is a calendar month
// (28 to 31 days).
func isMonthly(obs []fcig.Observation) bool {
	if len(obs) < 2 {
		return false
	}
	for i := 1; i < len(obs); i++ {
		days := int(obs[i].Date.Sub(obs[i-1].Date).Hours() / 24)
		if days < 28 || days > 31 {
			return false
		}
	}
	return true
}
