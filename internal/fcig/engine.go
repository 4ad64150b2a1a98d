package fcig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"fcigcli/internal/calendar"
)

const eligibilityMonths = 36

// DefaultCutoff is the first date included in published output. Earlier
// dates still serve as history anchors.
var DefaultCutoff = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

// Calculator runs the two-phase index computation: a sequential lag-index
// build followed by an embarrassingly parallel per-date reduction.
type Calculator struct {
	table   *MultiplierTable
	logger  *slog.Logger
	workers int
	cutoff  time.Time
}

// NewCalculator creates a calculator with the given multiplier table.
func NewCalculator(table *MultiplierTable, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{
		table:   table,
		logger:  logger,
		workers: 4,
		cutoff:  DefaultCutoff,
	}
}

// SetWorkers bounds the phase-2 worker pool size.
func (c *Calculator) SetWorkers(n int) {
	if n > 0 {
		c.workers = n
	}
}

// SetCutoff overrides the output cutoff date.
func (c *Calculator) SetCutoff(cutoff time.Time) {
	c.cutoff = cutoff
}

// Calculate computes the decomposed index records for every eligible date
// in the series, sorted by ascending date. Dates lacking a full twelve-hop
// history and dates before the cutoff are excluded.
func (c *Calculator) Calculate(ctx context.Context, series *TimeSeries) ([]Record, error) {
	start := time.Now()
	c.logger.InfoContext(ctx, "starting index calculation",
		slog.Int("observations", series.Len()),
		slog.Int("workers", c.workers),
		slog.String("cutoff", c.cutoff.Format("2006-01-02")))

	// Phase 1: sequential. Every resolution depends on shift state carried
	// from the previous hop.
	index := BuildLagIndex(series, c.logger)
	c.logger.DebugContext(ctx, "lag index built",
		slog.Duration("elapsed", time.Since(start)))

	first := c.firstEligible(series)
	if first < 0 {
		c.logger.WarnContext(ctx, "series too short for any eligible date",
			slog.String("first_date", series.Date(0).Format("2006-01-02")),
			slog.String("last_date", series.Date(series.Len()-1).Format("2006-01-02")))
		return nil, nil
	}

	// Phase 2: each date reads only the immutable series and completed lag
	// index and writes only its own slot, so no locking is needed.
	records, err := c.reduceAll(ctx, index, first)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	c.logger.InfoContext(ctx, "index calculation completed",
		slog.Int("records", len(records)),
		slog.Duration("elapsed", time.Since(start)))
	return records, nil
}

// firstEligible returns the first index whose date is at least three years
// after the series start, or -1 when no date qualifies.
func (c *Calculator) firstEligible(series *TimeSeries) int {
	threshold := calendar.AddMonths(series.Date(0), eligibilityMonths)
	for i := 0; i < series.Len(); i++ {
		if !series.Date(i).Before(threshold) {
			return i
		}
	}
	return -1
}

// reduceAll fans the per-date reduction out over a bounded worker pool and
// collects results into per-index slots, keeping the output independent of
// scheduling order.
func (c *Calculator) reduceAll(ctx context.Context, index *LagIndex, first int) ([]Record, error) {
	series := index.Series()
	n := series.Len()

	slots := make([]*Record, n-first)
	jobs := make(chan int, c.workers*2)

	var wg sync.WaitGroup
	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec, err := c.reduceOne(index, i)
				if err != nil {
					// Insufficient history near the eligibility
					// boundary: exclude the date silently.
					continue
				}
				slots[i-first] = rec
			}
		}()
	}

	var cancelled error
feed:
	for i := first; i < n; i++ {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, fmt.Errorf("calculation cancelled: %w", cancelled)
	}

	records := make([]Record, 0, len(slots))
	for _, rec := range slots {
		if rec != nil && !rec.Date.Before(c.cutoff) {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// reduceOne builds the lag chain for one date and decomposes it.
func (c *Calculator) reduceOne(index *LagIndex, i int) (*Record, error) {
	chain, err := index.Chain(i)
	if err != nil {
		if errors.Is(err, ErrInsufficientHistory) {
			return nil, err
		}
		return nil, fmt.Errorf("build chain for index %d: %w", i, err)
	}
	threeYear, oneYear := decompose(index.Series(), chain, c.table)
	rec := newRecord(index.Series(), i, threeYear, oneYear)
	return &rec, nil
}
