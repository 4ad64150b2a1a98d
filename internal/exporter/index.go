package exporter

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"fcigcli/internal/fcig"
)

// Window selects which lagged aggregation window an output table covers.
type Window string

const (
	Window3Yr Window = "3yr"
	Window1Yr Window = "1yr"
)

// FileName returns the monthly output file name for a window.
func FileName(w Window) string {
	return "fci_g_" + string(w) + ".csv"
}

// QuarterlyFileName returns the quarterly output file name for a window.
func QuarterlyFileName(w Window) string {
	return "fci_g_" + string(w) + "_quarterly.csv"
}

// indexHeaders builds the column header row: the output date, the scalar
// index value, then the seven per-driver contributions in input order.
func indexHeaders(w Window) []string {
	headers := make([]string, 0, 2+fcig.NumDrivers)
	headers = append(headers, "date", "fci_g_"+string(w))
	for _, name := range fcig.DriverNames {
		headers = append(headers, name)
	}
	return headers
}

// indexRows formats records into CSV rows for the given window.
func indexRows(records []fcig.Record, w Window) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		var total float64
		var components [fcig.NumDrivers]float64
		if w == Window1Yr {
			total = rec.OneYearIndex()
			components = rec.OneYear
		} else {
			total = rec.ThreeYearIndex()
			components = rec.ThreeYear
		}

		row := make([]string, 0, 2+fcig.NumDrivers)
		row = append(row, rec.OutputDate.Format("2006-01-02"))
		row = append(row, strconv.FormatFloat(total, 'f', -1, 64))
		for _, v := range components {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteIndexTable writes the monthly decomposition table for one window.
func (w *CSVWriter) WriteIndexTable(records []fcig.Record, window Window) error {
	return w.WriteSimpleCSV(FileName(window), indexHeaders(window), indexRows(records, window))
}

// WriteQuarterlyTable writes the quarterly resample for one window.
func (w *CSVWriter) WriteQuarterlyTable(records []fcig.Record, window Window) error {
	quarterly := QuarterlyResample(records)
	return w.WriteSimpleCSV(QuarterlyFileName(window), indexHeaders(window), indexRows(quarterly, window))
}

// WriteOutputs writes the monthly and quarterly tables for both windows
// concurrently. Records must already be sorted by date.
func (w *CSVWriter) WriteOutputs(ctx context.Context, records []fcig.Record) error {
	g, _ := errgroup.WithContext(ctx)

	for _, window := range []Window{Window3Yr, Window1Yr} {
		g.Go(func() error {
			return w.WriteIndexTable(records, window)
		})
		g.Go(func() error {
			return w.WriteQuarterlyTable(records, window)
		})
	}

	return g.Wait()
}
