package fred

import (
	"strconv"

	"fcigcli/internal/exporter"
)

// WriteObservationsCSV writes a fetched series to the reports directory as
// a two column date,value table.
func WriteObservationsCSV(w *exporter.CSVWriter, fileName string, observations []Observation) error {
	rows := make([][]string, 0, len(observations))
	for _, obs := range observations {
		rows = append(rows, []string{
			obs.Date.Format("2006-01-02"),
			strconv.FormatFloat(obs.Value, 'f', -1, 64),
		})
	}
	return w.WriteSimpleCSV(fileName, []string{"date", "value"}, rows)
}
