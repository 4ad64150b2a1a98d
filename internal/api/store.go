package api

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"fcigcli/internal/config"
	"fcigcli/internal/errors"
	"fcigcli/internal/exporter"
	"fcigcli/internal/fcig"
)

// IndexPoint is one dated row of a published index table.
type IndexPoint struct {
	Date       string             `json:"date"`
	Value      float64            `json:"value"`
	Components map[string]float64 `json:"components"`
}

// Store reads published index tables from the reports directory. Files are
// re-read per request so a recalculation shows up without a restart.
type Store struct {
	paths *config.Paths
}

// NewStore creates a store over the reports directory.
func NewStore(paths *config.Paths) *Store {
	return &Store{paths: paths}
}

// IndexSeries loads the monthly table for a window, optionally resampled
// to quarterly rows.
func (s *Store) IndexSeries(window exporter.Window, quarterly bool) ([]IndexPoint, error) {
	name := exporter.FileName(window)
	if quarterly {
		name = exporter.QuarterlyFileName(window)
	}

	path := s.paths.GetReportPath(name)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.IndexNotFoundError(err)
		}
		return nil, errors.FileSystemError("read index table", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.FileSystemError("parse index table", err)
	}
	if len(rows) == 0 {
		return []IndexPoint{}, nil
	}

	header := rows[0]
	if len(header) != 2+fcig.NumDrivers {
		return nil, errors.FileSystemError("parse index table",
			fmt.Errorf("unexpected column count %d in %s", len(header), name))
	}

	points := make([]IndexPoint, 0, len(rows)-1)
	for _, row := range rows[1:] {
		point, err := parseIndexRow(header, row)
		if err != nil {
			return nil, errors.FileSystemError("parse index table", err)
		}
		points = append(points, point)
	}
	return points, nil
}

func parseIndexRow(header, row []string) (IndexPoint, error) {
	if len(row) != len(header) {
		return IndexPoint{}, fmt.Errorf("row has %d columns, header has %d", len(row), len(header))
	}
	if _, err := time.Parse("2006-01-02", row[0]); err != nil {
		return IndexPoint{}, fmt.Errorf("parse date %q: %w", row[0], err)
	}

	value, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return IndexPoint{}, fmt.Errorf("parse value %q: %w", row[1], err)
	}

	components := make(map[string]float64, fcig.NumDrivers)
	for i := 2; i < len(row); i++ {
		v, err := strconv.ParseFloat(row[i], 64)
		if err != nil {
			return IndexPoint{}, fmt.Errorf("parse %s value %q: %w", header[i], row[i], err)
		}
		components[header[i]] = v
	}

	return IndexPoint{Date: row[0], Value: value, Components: components}, nil
}
