package calendar

import "time"

// FirstOfMonth returns midnight UTC on the first day of t's month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// LastOfMonth returns midnight UTC on the final day of t's month.
func LastOfMonth(t time.Time) time.Time {
	return FirstOfMonth(t).AddDate(0, 1, -1)
}

// AddMonths shifts t by n calendar months with day-of-month clamping:
// Mar 31 minus one month is Feb 28 (or 29), never an overflow into March.
// time.AddDate normalizes overflow instead, which is the wrong behavior
// for month-anchored date rules.
func AddMonths(t time.Time, n int) time.Time {
	year, month := t.Year(), int(t.Month())-1+n
	for month < 0 {
		month += 12
		year--
	}
	year += month / 12
	month = month % 12

	day := t.Day()
	if max := DaysInMonth(year, time.Month(month+1)); day > max {
		day = max
	}
	return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthStep returns the forward month-number distance from a to b, in the
// range [0, 11]. Consecutive months (including December to January) give 1.
func MonthStep(a, b time.Time) int {
	return ((int(b.Month()) - int(a.Month())) % 12 + 12) % 12
}

// QuarterOf returns the calendar quarter (1-4) containing t.
func QuarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}
