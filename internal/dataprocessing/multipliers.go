package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fcigcli/internal/fcig"
)

// ParseMultipliersCSV loads the fixed 20x7 weight table. The file has a
// header row and a leading index column; rows are ordered most-recent lag
// first. Any deviation from the 20x7 shape is a fatal configuration error.
func ParseMultipliersCSV(path string) (*fcig.MultiplierTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open multipliers file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read multipliers csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("multipliers file %s has no data rows", path)
	}

	values := make([][]float64, 0, len(rows)-1)
	for r, row := range rows[1:] {
		if len(row) != 1+fcig.NumDrivers {
			return nil, fmt.Errorf("multipliers row %d: expected index + %d columns, got %d",
				r+2, fcig.NumDrivers, len(row))
		}
		vals := make([]float64, fcig.NumDrivers)
		for c := 0; c < fcig.NumDrivers; c++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[c+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("multipliers row %d column %d: %w", r+2, c+2, err)
			}
			vals[c] = v
		}
		values = append(values, vals)
	}

	table, err := fcig.NewMultiplierTable(values)
	if err != nil {
		return nil, fmt.Errorf("multipliers file %s: %w", path, err)
	}
	return table, nil
}
