package calendar

import "time"

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsBusinessDay reports whether the date is a weekday that is not a US
// federal holiday.
func IsBusinessDay(t time.Time) bool {
	return !IsWeekend(t) && !IsHoliday(t)
}

// NextBusinessDay returns the first business day strictly after t,
// advancing one calendar day at a time.
func NextBusinessDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for !IsBusinessDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// IsHoliday reports whether the date is a US federal holiday, including
// observed dates (Saturday holidays observed Friday, Sunday holidays
// observed Monday).
func IsHoliday(t time.Time) bool {
	for _, h := range holidaysForYear(t.Year()) {
		if sameDate(t, h) {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// holidaysForYear returns the observed US federal holiday dates for a year.
func holidaysForYear(year int) []time.Time {
	fixed := []time.Time{
		date(year, time.January, 1),    // New Year's Day
		date(year, time.June, 19),      // Juneteenth
		date(year, time.July, 4),       // Independence Day
		date(year, time.November, 11),  // Veterans Day
		date(year, time.December, 25),  // Christmas Day
	}

	holidays := make([]time.Time, 0, 11)
	for _, h := range fixed {
		holidays = append(holidays, observed(h))
	}

	holidays = append(holidays,
		nthWeekday(year, time.January, time.Monday, 3),   // MLK Day
		nthWeekday(year, time.February, time.Monday, 3),  // Washington's Birthday
		lastWeekday(year, time.May, time.Monday),         // Memorial Day
		nthWeekday(year, time.September, time.Monday, 1), // Labor Day
		nthWeekday(year, time.October, time.Monday, 2),   // Columbus Day
		nthWeekday(year, time.November, time.Thursday, 4), // Thanksgiving
	)

	return holidays
}

// observed shifts weekend holidays to the nearest weekday.
func observed(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, -1)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}

// nthWeekday returns the nth occurrence of a weekday within a month.
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	t := date(year, month, 1)
	for t.Weekday() != weekday {
		t = t.AddDate(0, 0, 1)
	}
	return t.AddDate(0, 0, 7*(n-1))
}

// lastWeekday returns the final occurrence of a weekday within a month.
func lastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	t := LastOfMonth(date(year, month, 1))
	for t.Weekday() != weekday {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
