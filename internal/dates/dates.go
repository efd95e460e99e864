// Package dates converts timestamps to calendar dates and does calendar
// arithmetic on YYYY-MM-DD strings.
//
// Calendar dates are compared as strings: YYYY-MM-DD sorts lexicographically in
// chronological order. Arithmetic runs on UTC midnights so DST transitions never
// move a date.
package dates

import (
	"time"
)

// Layout is the calendar date layout used everywhere.
const Layout = "2006-01-02"

// TodayISO returns the logical calendar date for now, where a day begins at
// dayStartHour (0-23) local time. Before that hour, the previous date is returned.
func TodayISO(now time.Time, dayStartHour int) string {
	h := clampHour(dayStartHour)
	if now.Hour() < h {
		return now.AddDate(0, 0, -1).Format(Layout)
	}
	return now.Format(Layout)
}

// TimestampToLocalDate returns the calendar date of ts in its own location,
// with no day-start offset applied.
func TimestampToLocalDate(ts time.Time) string {
	return ts.Format(Layout)
}

func clampHour(h int) int {
	if h < 0 {
		return 0
	}
	if h > 23 {
		return 23
	}
	return h
}

// Parse parses a YYYY-MM-DD date as UTC midnight.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.UTC)
}

// Valid reports whether s is a well-formed calendar date.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// AddDays shifts a date by n calendar days. Invalid input is returned unchanged.
func AddDays(s string, n int) string {
	t, err := Parse(s)
	if err != nil {
		return s
	}
	return t.AddDate(0, 0, n).Format(Layout)
}

// DaysBetween returns the number of calendar days from a to b (negative if b is
// before a). The second result is false if either date is invalid.
func DaysBetween(a, b string) (int, bool) {
	ta, err := Parse(a)
	if err != nil {
		return 0, false
	}
	tb, err := Parse(b)
	if err != nil {
		return 0, false
	}
	return int(tb.Sub(ta).Hours() / 24), true
}

// Weekday returns the weekday of a date (Sunday=0).
func Weekday(s string) (time.Weekday, bool) {
	t, err := Parse(s)
	if err != nil {
		return 0, false
	}
	return t.Weekday(), true
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(y int, m time.Month) int {
	// Day 0 of next month is last day of this month.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay limits d to the valid day range of the month.
func ClampDay(y int, m time.Month, d int) int {
	if d < 1 {
		return 1
	}
	max := DaysInMonth(y, m)
	if d > max {
		return max
	}
	return d
}

// DaysSince returns the fractional number of days elapsed from ts to now.
// It is never negative.
func DaysSince(now, ts time.Time) float64 {
	if ts.IsZero() || now.Before(ts) {
		return 0
	}
	return now.Sub(ts).Hours() / 24
}
