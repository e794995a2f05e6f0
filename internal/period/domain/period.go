package domain

import (
	"fmt"
	"strings"
	"time"
)

// Granularity identifies the resolution at which sales are bucketed for
// reporting. It mirrors the "Report Period" selector of the dashboard.
type Granularity string

const (
	Daily     Granularity = "Daily"
	Weekly    Granularity = "Weekly"
	Monthly   Granularity = "Monthly"
	Quarterly Granularity = "Quarterly"
	Annual    Granularity = "Annual"
)

// Granularities lists every supported granularity, finest first.
var Granularities = []Granularity{Daily, Weekly, Monthly, Quarterly, Annual}

// ParseGranularity resolves a case-insensitive granularity name. An empty
// string yields Monthly, the dashboard's default selection.
func ParseGranularity(s string) (Granularity, error) {
	if strings.TrimSpace(s) == "" {
		return Monthly, nil
	}
	for _, g := range Granularities {
		if strings.EqualFold(string(g), strings.TrimSpace(s)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("invalid granularity %q, must be one of Daily, Weekly, Monthly, Quarterly or Annual", s)
}

// Rank orders granularities so comparisons such as Daily < Monthly hold.
func (g Granularity) Rank() int {
	switch g {
	case Daily:
		return 1
	case Weekly:
		return 2
	case Monthly:
		return 3
	case Quarterly:
		return 4
	case Annual:
		return 5
	default:
		return 99 // any unknown granularity is considered invalid
	}
}

// BucketKey returns the label of the reporting bucket that date falls into.
//
// Example:
//
//	d := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
//	BucketKey(d, Daily)     // "2024-03-05"
//	BucketKey(d, Weekly)    // "2024-09"  (Sunday-first week number)
//	BucketKey(d, Monthly)   // "2024-03"
//	BucketKey(d, Quarterly) // "2024-Q1"
//	BucketKey(d, Annual)    // "2024"
func BucketKey(date time.Time, g Granularity) string {
	switch g {
	case Daily:
		return date.Format(DateLayout)
	case Weekly:
		return fmt.Sprintf("%04d-%02d", date.Year(), SundayWeekNumber(date))
	case Quarterly:
		return fmt.Sprintf("%04d-Q%d", date.Year(), QuarterOfMonth(date.Month()))
	case Annual:
		return fmt.Sprintf("%04d", date.Year())
	default:
		return date.Format("2006-01")
	}
}

// SundayWeekNumber returns the week of the year with Sunday as the first day
// of the week. Days before the year's first Sunday belong to week 0.
func SundayWeekNumber(date time.Time) int {
	yday := date.YearDay() - 1
	return (yday + 7 - int(date.Weekday())) / 7
}
