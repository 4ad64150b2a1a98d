package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestIsBusinessDay(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"regular weekday", d(2023, time.March, 15), true},
		{"saturday", d(2023, time.March, 18), false},
		{"sunday", d(2023, time.March, 19), false},
		{"christmas", d(2023, time.December, 25), false},
		{"independence day", d(2023, time.July, 4), false},
		{"thanksgiving 2023", d(2023, time.November, 23), false},
		{"memorial day 2023", d(2023, time.May, 29), false},
		{"new year observed monday", d(2023, time.January, 2), false}, // Jan 1 2023 is a Sunday
		{"day after observed new year", d(2023, time.January, 3), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBusinessDay(tt.date))
		})
	}
}

func TestNextBusinessDay(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{"midweek", d(2023, time.March, 15), d(2023, time.March, 16)},
		{"friday skips weekend", d(2023, time.March, 17), d(2023, time.March, 20)},
		{"before christmas weekend 2021", d(2021, time.December, 23), d(2021, time.December, 27)}, // Dec 24 observed, 25-26 weekend
		{"month boundary", d(2023, time.June, 30), d(2023, time.July, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextBusinessDay(tt.from))
		})
	}
}

func TestAddMonthsClamping(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{"plain backward", d(2020, time.June, 15), -3, d(2020, time.March, 15)},
		{"clamp to february", d(2020, time.May, 31), -3, d(2020, time.February, 29)},
		{"clamp non-leap", d(2021, time.May, 31), -3, d(2021, time.February, 28)},
		{"year wrap backward", d(2020, time.January, 31), -2, d(2019, time.November, 30)},
		{"forward three years", d(2000, time.January, 31), 36, d(2003, time.January, 31)},
		{"forward clamp", d(2020, time.January, 31), 1, d(2020, time.February, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.from, tt.n))
		})
	}
}

func TestMonthStep(t *testing.T) {
	assert.Equal(t, 1, MonthStep(d(2023, time.March, 31), d(2023, time.April, 1)))
	assert.Equal(t, 1, MonthStep(d(2023, time.December, 29), d(2024, time.January, 2)))
	assert.Equal(t, 0, MonthStep(d(2023, time.March, 1), d(2023, time.March, 31)))
	assert.Equal(t, 2, MonthStep(d(2023, time.March, 31), d(2023, time.May, 1)))
}

func TestQuarterOf(t *testing.T) {
	assert.Equal(t, 1, QuarterOf(d(2023, time.March, 31)))
	assert.Equal(t, 2, QuarterOf(d(2023, time.April, 1)))
	assert.Equal(t, 4, QuarterOf(d(2023, time.December, 31)))
}
