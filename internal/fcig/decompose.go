package fcig

import (
	"fmt"
	"time"
)

const (
	// MultiplierRows is the required row count of the weight table,
	// ordered most-recent lag first.
	MultiplierRows = 20

	threeYearLags = 12
	oneYearLags   = 4
)

// MultiplierTable is the fixed decay-weight matrix applied to each lag and
// driver combination. Loaded once, read-only.
type MultiplierTable struct {
	rows [MultiplierRows][NumDrivers]float64
}

// NewMultiplierTable validates the 20x7 shape and wraps the values. A wrong
// shape is a fatal configuration error and must be reported before any
// per-date computation begins.
func NewMultiplierTable(values [][]float64) (*MultiplierTable, error) {
	if len(values) != MultiplierRows {
		return nil, fmt.Errorf("multiplier table must have %d rows, got %d", MultiplierRows, len(values))
	}
	var t MultiplierTable
	for r, row := range values {
		if len(row) != NumDrivers {
			return nil, fmt.Errorf("multiplier table row %d must have %d columns, got %d",
				r, NumDrivers, len(row))
		}
		copy(t.rows[r][:], row)
	}
	return &t, nil
}

// At returns the weight for the given lag row and driver column.
func (t *MultiplierTable) At(lag, driver int) float64 { return t.rows[lag][driver] }

// Record is the per-date output of the index calculation: the negated
// weighted component sums for the 3-year and 1-year windows. A positive
// value is a tightening contribution.
type Record struct {
	Date       time.Time
	OutputDate time.Time
	ThreeYear  [NumDrivers]float64
	OneYear    [NumDrivers]float64
}

// ThreeYearIndex returns the scalar 3-year index value, the sum of the
// per-driver components.
func (r Record) ThreeYearIndex() float64 { return sum(r.ThreeYear) }

// OneYearIndex returns the scalar 1-year index value.
func (r Record) OneYearIndex() float64 { return sum(r.OneYear) }

func sum(v [NumDrivers]float64) float64 {
	var total float64
	for _, x := range v {
		total += x
	}
	return total
}

// decompose reduces a lag chain against the multiplier table into raw
// per-driver weighted sums. Row 0 of the table weights the anchor
// observation itself, row 1 the first quarter-ago lag, and so on; the
// 3-year window covers the 12 most recent rows and the 1-year window the 4
// most recent. No sign convention is applied here.
func decompose(series *TimeSeries, chain [ChainLen]int, table *MultiplierTable) (threeYear, oneYear [NumDrivers]float64) {
	for lag := 0; lag < threeYearLags; lag++ {
		deltas := series.Deltas(chain[lag])
		for d := 0; d < NumDrivers; d++ {
			weighted := deltas[d] * table.At(lag, d)
			threeYear[d] += weighted
			if lag < oneYearLags {
				oneYear[d] += weighted
			}
		}
	}
	return threeYear, oneYear
}

// newRecord assembles the published per-date record from raw weighted
// sums, applying the sign negation exactly once: a net rise in the raw
// deltas is reported as a positive (tightening) index contribution.
func newRecord(series *TimeSeries, anchor int, threeYear, oneYear [NumDrivers]float64) Record {
	rec := Record{
		Date:       series.Date(anchor),
		OutputDate: series.OutputDate(anchor),
	}
	for d := 0; d < NumDrivers; d++ {
		rec.ThreeYear[d] = -threeYear[d]
		rec.OneYear[d] = -oneYear[d]
	}
	return rec
}
