package fcig

import (
	"time"

	"fcigcli/internal/calendar"
)

// Alignment-shift constants. The shift is the day-of-month offset carried
// between successive quarter-ago lookups; month-end anchors use a fixed
// sentinel bucket instead.
const (
	monthEndShift     = 8
	maxShiftMagnitude = 9
)

// isMonthEndAnchor reports whether observation i is the last entry before a
// calendar month transition. For the final observation the next date is
// synthesized by advancing to the next business day.
func (s *TimeSeries) isMonthEndAnchor(i int) bool {
	cur := s.obs[i].Date
	var next time.Time
	if i == len(s.obs)-1 {
		next = calendar.NextBusinessDay(cur)
	} else {
		next = s.obs[i+1].Date
	}
	return calendar.MonthStep(cur, next) == 1
}

// quarterAgoTarget computes the ideal calendar date three months before the
// given observation date.
//
// Month-end anchors target the final day of the month two months before the
// current month's first day, which is the month end roughly one quarter
// before the next month boundary. Mid-month dates apply the carried shift,
// re-anchor on the chain's starting day-of-month, and subtract three
// clamped months; when the subtraction lands only two apparent months back
// (a short-month artifact) and the starting day is past the 15th, one more
// month is subtracted. The short-month rule is an empirically tuned part of
// the published methodology and is preserved exactly.
func quarterAgoTarget(date time.Time, shift int, monthEnd bool, startDay int) time.Time {
	if monthEnd {
		return calendar.AddMonths(calendar.FirstOfMonth(date), -2).AddDate(0, 0, -1)
	}

	adjusted := date.AddDate(0, 0, shift-1)
	effective := calendar.FirstOfMonth(adjusted).AddDate(0, 0, startDay-1)
	target := calendar.AddMonths(effective, -3)

	if calendar.MonthStep(target, date) == 2 && startDay > 15 {
		target = calendar.AddMonths(target, -1)
	}
	return target
}

// quarterAgo resolves the latest observation at or before the quarter-ago
// target for observation i. ok is false when the target predates the
// series, the normal terminal condition near the series start.
func (s *TimeSeries) quarterAgo(i, shift int, monthEnd bool, startDay int) (resolved int, ok bool) {
	target := quarterAgoTarget(s.obs[i].Date, shift, monthEnd, startDay)
	idx := s.latestOnOrBefore(target)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// nextShift recomputes the alignment shift after landing on resolvedDay.
// Month-end traversals always keep the sentinel; a magnitude above 9 means
// the search landed in the tail of the previous month and is compensated
// by a full month of days.
func nextShift(startDay, resolvedDay int, monthEnd bool) int {
	if monthEnd {
		return monthEndShift
	}
	j := startDay - resolvedDay + 1
	if j > maxShiftMagnitude || j < -maxShiftMagnitude {
		j += 31
	}
	return j
}
