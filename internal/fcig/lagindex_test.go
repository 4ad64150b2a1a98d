package fcig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLagIndexMonthlyChains(t *testing.T) {
	series, err := NewTimeSeries(monthEndObservations(d(2000, time.January, 1), 40, 1.0))
	require.NoError(t, err)

	index := BuildLagIndex(series, nil)

	// Every month-end observation hops exactly three months back.
	for i := 3; i < series.Len(); i++ {
		resolved, ok := index.lookup(i, monthEndShift)
		require.True(t, ok, "index %d should have a month-end edge", i)
		assert.Equal(t, i-3, resolved)
	}
}

func TestChainFullLength(t *testing.T) {
	series, err := NewTimeSeries(monthEndObservations(d(2000, time.January, 1), 40, 1.0))
	require.NoError(t, err)
	index := BuildLagIndex(series, nil)

	chain, err := index.Chain(36)
	require.NoError(t, err)

	want := [ChainLen]int{36, 33, 30, 27, 24, 21, 18, 15, 12, 9, 6, 3, 0}
	assert.Equal(t, want, chain)
}

func TestChainInsufficientHistoryNearStart(t *testing.T) {
	series, err := NewTimeSeries(monthEndObservations(d(2000, time.January, 1), 40, 1.0))
	require.NoError(t, err)
	index := BuildLagIndex(series, nil)

	// One sampling period before the three-year boundary cannot complete
	// twelve hops.
	_, err = index.Chain(35)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

// End-of-month invariant: every pointer reached from a month-end anchor is
// itself a month-end-dated observation.
func TestChainMonthEndInvariant(t *testing.T) {
	series, err := NewTimeSeries(weekdayObservations(d(2015, time.January, 2), 1100, 1.0))
	require.NoError(t, err)
	index := BuildLagIndex(series, nil)

	checked := 0
	for i := series.Len() - 1; i >= 0 && checked < 30; i-- {
		if !index.monthEnd[i] {
			continue
		}
		chain, err := index.Chain(i)
		if err != nil {
			continue
		}
		for hop := 1; hop < ChainLen; hop++ {
			assert.True(t, index.monthEnd[chain[hop]],
				"hop %d of chain from %d landed on non-month-end index %d (%s)",
				hop, i, chain[hop], series.Date(chain[hop]).Format("2006-01-02"))
		}
		checked++
	}
	assert.Greater(t, checked, 0, "no complete month-end chains found")
}

func TestChainReplayMatchesConstruction(t *testing.T) {
	// Chains over an irregular daily series must be reproducible purely
	// from the stored pointers.
	series, err := NewTimeSeries(weekdayObservations(d(2015, time.March, 2), 1100, 1.0))
	require.NoError(t, err)
	index := BuildLagIndex(series, nil)

	for i := series.Len() - 1; i >= series.Len()-20; i-- {
		first, err := index.Chain(i)
		require.NoError(t, err)
		second, err := index.Chain(i)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		// The chain is strictly decreasing in time.
		for hop := 1; hop < ChainLen; hop++ {
			assert.Less(t, first[hop], first[hop-1])
		}
	}
}
