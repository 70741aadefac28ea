// Package calendar holds the day-granularity date rules shared by the
// transaction store and the monthly report.
package calendar

import (
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last second of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, loc)
}

// OnOrBeforeToday reports whether date falls on or before now's calendar day.
// Both are taken in now's location and time of day is ignored.
func OnOrBeforeToday(date, now time.Time) bool {
	loc := now.Location()
	return !StartOfDay(date, loc).After(StartOfDay(now, loc))
}

// SameDay reports whether a and b share a calendar day in b's location.
func SameDay(a, b time.Time) bool {
	loc := b.Location()
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// InMonth reports whether t falls in the month and year of now, in now's location.
func InMonth(t, now time.Time) bool {
	t = t.In(now.Location())
	return t.Year() == now.Year() && t.Month() == now.Month()
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// MonthRange returns the first and last calendar day of now's month.
func MonthRange(now time.Time) (time.Time, time.Time) {
	loc := now.Location()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, loc)

	return first, last
}
