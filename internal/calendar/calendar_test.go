package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/pennywise/internal/calendar"
)

func TestOnOrBeforeToday(t *testing.T) {
	loc := time.FixedZone("Kyiv", 3*60*60)
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, loc)

	type testCase struct {
		name string
		date time.Time
		want bool
	}

	tests := []testCase{
		{name: "earlier today", date: time.Date(2024, 3, 15, 0, 0, 0, 0, loc), want: true},
		{name: "later today", date: time.Date(2024, 3, 15, 23, 59, 0, 0, loc), want: true},
		{name: "yesterday", date: time.Date(2024, 3, 14, 23, 59, 0, 0, loc), want: true},
		{name: "tomorrow", date: time.Date(2024, 3, 16, 0, 0, 0, 0, loc), want: false},
		{name: "last year", date: time.Date(2023, 12, 31, 12, 0, 0, 0, loc), want: true},
		// 22:00 UTC on the 15th is already the 16th in Kyiv.
		{name: "utc evening is tomorrow locally", date: time.Date(2024, 3, 15, 22, 0, 0, 0, time.UTC), want: false},
		{name: "utc late previous day is today locally", date: time.Date(2024, 3, 14, 21, 30, 0, 0, time.UTC), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calendar.OnOrBeforeToday(tt.date, now))
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, calendar.DaysInMonth(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 28, calendar.DaysInMonth(time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30, calendar.DaysInMonth(time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 31, calendar.DaysInMonth(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestMonthRange(t *testing.T) {
	first, last := calendar.MonthRange(time.Date(2024, 2, 17, 13, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), last)
}

func TestInMonthAndSameDay(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, calendar.InMonth(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, calendar.InMonth(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), now))
	assert.True(t, calendar.SameDay(time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC), now))
	assert.False(t, calendar.SameDay(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), now))
}
