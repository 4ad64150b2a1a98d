package fcig

import (
	"log/slog"

	"fcigcli/internal/calendar"
)

// lagKey identifies one backward edge: the observation it leaves and the
// alignment-shift bucket it was resolved under.
type lagKey struct {
	idx   int
	shift int
}

// LagIndex is a write-once cache of quarter-ago pointers, built in a single
// sequential backward sweep over the series. Once built it is read-only and
// safe for concurrent chain lookups.
type LagIndex struct {
	series   *TimeSeries
	edges    map[lagKey]int
	monthEnd []bool
}

// BuildLagIndex resolves a quarter-ago pointer for every observation that
// can have one, mimicking a backward linked traversal: start at the most
// recent unresolved observation, follow resolved pointers downward until
// the target predates the series start plus three months, then restart at
// the next most recent unresolved observation.
func BuildLagIndex(series *TimeSeries, logger *slog.Logger) *LagIndex {
	if logger == nil {
		logger = slog.Default()
	}

	n := series.Len()
	li := &LagIndex{
		series:   series,
		edges:    make(map[lagKey]int, n),
		monthEnd: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		li.monthEnd[i] = series.isMonthEndAnchor(i)
	}

	// Observations within three months of the series start can never
	// resolve a quarter-ago pointer.
	horizon := calendar.AddMonths(series.Date(0), 3)

	// seeded marks observations whose own traversal-start entry exists,
	// matching the reference implementation's resolution bookkeeping.
	seeded := make([]bool, n)
	// Start selection scans strictly downward: once seeded, always seeded.
	cursor := n - 1

	for {
		for cursor >= 0 && seeded[cursor] {
			cursor--
		}
		if cursor < 0 {
			return li
		}

		i := cursor
		shift := 1
		monthEnd := li.monthEnd[i]
		if monthEnd {
			shift = monthEndShift
			seeded[i] = true
		}
		if series.Date(i).Before(horizon) {
			// The most recent unresolved observation is itself
			// unresolvable, so everything older is too.
			return li
		}
		startDay := series.Date(i).Day()

		for {
			resolved, ok := series.quarterAgo(i, shift, monthEnd, startDay)
			if !ok {
				// Target predates the series; restart from the
				// next unresolved observation. A miss under the
				// base shift means this observation is provably
				// unresolvable, so it must not be selected again.
				if shift == 1 {
					seeded[i] = true
				}
				break
			}
			li.edges[lagKey{idx: i, shift: shift}] = resolved
			if shift == 1 {
				seeded[i] = true
			}

			shift = nextShift(startDay, series.Date(resolved).Day(), monthEnd)
			if shift > maxShiftMagnitude || shift < -maxShiftMagnitude {
				logger.Warn("alignment shift out of expected range, flag series for review",
					slog.Int("index", i),
					slog.Int("shift", shift),
					slog.String("date", series.Date(i).Format("2006-01-02")))
			}

			if series.Date(resolved).Before(horizon) {
				break
			}
			i = resolved
		}
	}
}

// Series returns the underlying time series.
func (li *LagIndex) Series() *TimeSeries { return li.series }

// lookup returns the resolved quarter-ago index stored for the given
// observation and shift bucket.
func (li *LagIndex) lookup(idx, shift int) (int, bool) {
	resolved, ok := li.edges[lagKey{idx: idx, shift: shift}]
	return resolved, ok
}
