package fcig

import (
	"fmt"
	"sort"
	"time"
)

// NumDrivers is the number of financial variables feeding the index.
const NumDrivers = 7

// DriverNames lists the seven drivers in input column order: federal funds
// rate, 10-year Treasury yield, 30-year mortgage rate, BBB corporate bond
// yield, equity market, house prices, and the broad dollar index.
var DriverNames = [NumDrivers]string{
	"ffr",
	"treasury10y",
	"mortgage30y",
	"bbb",
	"equity",
	"house",
	"dollar",
}

// Observation is one dated row of quarter-over-quarter driver deltas.
type Observation struct {
	Date   time.Time
	Deltas [NumDrivers]float64
}

// TimeSeries is an immutable, strictly ascending sequence of observations.
// For monthly inputs the dates are snapped to calendar month end before
// construction; the original dates are retained for reporting.
type TimeSeries struct {
	obs      []Observation
	original []time.Time
}

// NewTimeSeries validates and wraps a sequence of observations. Dates must
// be strictly increasing and unique.
func NewTimeSeries(obs []Observation) (*TimeSeries, error) {
	if len(obs) == 0 {
		return nil, fmt.Errorf("empty series")
	}
	for i := 1; i < len(obs); i++ {
		if !obs[i].Date.After(obs[i-1].Date) {
			return nil, fmt.Errorf("dates must be strictly increasing: %s followed by %s",
				obs[i-1].Date.Format("2006-01-02"), obs[i].Date.Format("2006-01-02"))
		}
	}
	return &TimeSeries{obs: obs}, nil
}

// NewMonthlySeries wraps month-end-snapped observations together with their
// original observation dates, which are restored in the output.
func NewMonthlySeries(obs []Observation, original []time.Time) (*TimeSeries, error) {
	if len(original) != len(obs) {
		return nil, fmt.Errorf("original dates length %d does not match series length %d",
			len(original), len(obs))
	}
	s, err := NewTimeSeries(obs)
	if err != nil {
		return nil, err
	}
	s.original = original
	return s, nil
}

// Len returns the number of observations.
func (s *TimeSeries) Len() int { return len(s.obs) }

// Date returns the (possibly month-end-snapped) date of observation i.
func (s *TimeSeries) Date(i int) time.Time { return s.obs[i].Date }

// Deltas returns the driver deltas of observation i.
func (s *TimeSeries) Deltas(i int) [NumDrivers]float64 { return s.obs[i].Deltas }

// OutputDate returns the date to report for observation i: the original
// date for snapped monthly series, otherwise the series date itself.
func (s *TimeSeries) OutputDate(i int) time.Time {
	if s.original != nil {
		return s.original[i]
	}
	return s.obs[i].Date
}

// latestOnOrBefore returns the largest index whose date is <= target, or
// -1 when the target predates the entire series.
func (s *TimeSeries) latestOnOrBefore(target time.Time) int {
	// First index strictly after target.
	n := sort.Search(len(s.obs), func(i int) bool {
		return s.obs[i].Date.After(target)
	})
	return n - 1
}
