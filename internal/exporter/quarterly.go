package exporter

import (
	"fcigcli/internal/calendar"
	"fcigcli/internal/fcig"
)

// QuarterlyResample keeps the last record of each calendar quarter, by
// output date. Input must be sorted by date. Applying the resample to its
// own output returns it unchanged.
func QuarterlyResample(records []fcig.Record) []fcig.Record {
	out := make([]fcig.Record, 0, len(records)/3+1)
	for i, rec := range records {
		if i+1 < len(records) && sameQuarter(rec, records[i+1]) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func sameQuarter(a, b fcig.Record) bool {
	return a.OutputDate.Year() == b.OutputDate.Year() &&
		calendar.QuarterOf(a.OutputDate) == calendar.QuarterOf(b.OutputDate)
}
