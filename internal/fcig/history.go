package fcig

import "errors"

// ChainLen is the full lag-chain length: the anchor observation plus twelve
// quarter-ago hops covering three years.
const ChainLen = 13

// ErrInsufficientHistory signals that a lag chain cannot reach the full
// twelve hops. It is an expected boundary condition near the series start,
// not a failure; dates that hit it are excluded from output.
var ErrInsufficientHistory = errors.New("insufficient history for lag chain")

// Chain walks the lag index backward from start, reproducing the shift
// bookkeeping used at construction time, and returns the ordered lag chain
// [start, q1, q2, ..., q12]. The walk only replays stored pointers; it
// never re-runs a date search.
func (li *LagIndex) Chain(start int) ([ChainLen]int, error) {
	var chain [ChainLen]int
	chain[0] = start

	shift := 1
	monthEnd := li.monthEnd[start]
	if monthEnd {
		shift = monthEndShift
	}
	startDay := li.series.Date(start).Day()

	cur := start
	for hop := 1; hop < ChainLen; hop++ {
		resolved, ok := li.lookup(cur, shift)
		if !ok {
			return chain, ErrInsufficientHistory
		}
		chain[hop] = resolved
		cur = resolved
		shift = nextShift(startDay, li.series.Date(resolved).Day(), monthEnd)
	}
	return chain, nil
}
