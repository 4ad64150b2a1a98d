package exporter

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fcigcli/internal/config"
	"fcigcli/internal/fcig"
)

func testWriter(t *testing.T) *CSVWriter {
	t.Helper()
	dir := t.TempDir()
	paths, err := config.NewPaths(config.PathsConfig{
		DataDir:    filepath.Join(dir, "data"),
		ReportsDir: filepath.Join(dir, "reports"),
		LogsDir:    filepath.Join(dir, "logs"),
	})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())
	return NewCSVWriter(paths)
}

func record(year int, month time.Month, value float64) fcig.Record {
	rec := fcig.Record{
		Date:       time.Date(year, month, 28, 0, 0, 0, 0, time.UTC),
		OutputDate: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1),
	}
	// Spread the scalar across the first driver so window sums are value.
	rec.ThreeYear[0] = value
	rec.OneYear[0] = value / 2
	return rec
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteIndexTable(t *testing.T) {
	w := testWriter(t)
	records := []fcig.Record{
		record(2020, time.January, 1.5),
		record(2020, time.February, -0.25),
	}

	require.NoError(t, w.WriteIndexTable(records, Window3Yr))

	rows := readCSV(t, w.paths.GetReportPath("fci_g_3yr.csv"))
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"date", "fci_g_3yr",
		"ffr", "treasury10y", "mortgage30y", "bbb", "equity", "house", "dollar",
	}, rows[0])
	assert.Equal(t, "2020-01-31", rows[1][0])
	assert.Equal(t, "1.5", rows[1][1])
	assert.Equal(t, "1.5", rows[1][2])
	assert.Equal(t, "0", rows[1][3])
	assert.Equal(t, "-0.25", rows[2][1])
}

func TestWriteIndexTable_OneYearWindow(t *testing.T) {
	w := testWriter(t)
	records := []fcig.Record{record(2020, time.January, 1.5)}

	require.NoError(t, w.WriteIndexTable(records, Window1Yr))

	rows := readCSV(t, w.paths.GetReportPath("fci_g_1yr.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, "fci_g_1yr", rows[0][1])
	assert.Equal(t, "0.75", rows[1][1])
}

func TestQuarterlyResample(t *testing.T) {
	records := []fcig.Record{
		record(2020, time.January, 1),
		record(2020, time.February, 2),
		record(2020, time.March, 3),
		record(2020, time.April, 4),
		record(2020, time.May, 5),
	}

	quarterly := QuarterlyResample(records)
	require.Len(t, quarterly, 2)
	assert.Equal(t, records[2].OutputDate, quarterly[0].OutputDate)
	assert.Equal(t, records[4].OutputDate, quarterly[1].OutputDate)
}

func TestQuarterlyResample_Idempotent(t *testing.T) {
	records := []fcig.Record{
		record(2020, time.January, 1),
		record(2020, time.February, 2),
		record(2020, time.March, 3),
		record(2020, time.June, 4),
		record(2020, time.December, 5),
	}

	once := QuarterlyResample(records)
	twice := QuarterlyResample(once)
	assert.Equal(t, once, twice)
}

func TestWriteOutputs(t *testing.T) {
	w := testWriter(t)
	records := []fcig.Record{
		record(2020, time.January, 1),
		record(2020, time.February, 2),
		record(2020, time.March, 3),
	}

	require.NoError(t, w.WriteOutputs(context.Background(), records))

	for _, name := range []string{
		"fci_g_3yr.csv",
		"fci_g_1yr.csv",
		"fci_g_3yr_quarterly.csv",
		"fci_g_1yr_quarterly.csv",
	} {
		_, err := os.Stat(w.paths.GetReportPath(name))
		assert.NoError(t, err, name)
	}

	quarterly := readCSV(t, w.paths.GetReportPath("fci_g_3yr_quarterly.csv"))
	require.Len(t, quarterly, 2)
	assert.Equal(t, "2020-03-31", quarterly[1][0])
}
