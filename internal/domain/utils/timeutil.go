package utils

import (
	"time"
)

// DateInRange checks if a date lies between two boundaries (inclusive).
func DateInRange(date, start, end time.Time) bool {
	return (date.Equal(start) || date.After(start)) && (date.Equal(end) || date.Before(end))
}

// DaysBack returns the inclusive list of calendar days ending at end and
// reaching days back, oldest first. Times are truncated to UTC midnight.
func DaysBack(end time.Time, days int) []time.Time {
	if days < 0 {
		return nil
	}
	y, m, d := end.Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	out := make([]time.Time, 0, days+1)
	for i := days; i >= 0; i-- {
		out = append(out, last.AddDate(0, 0, -i))
	}
	return out
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
