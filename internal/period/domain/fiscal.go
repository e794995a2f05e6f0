package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used whenever a fiscal
// date leaves the process (JSON, CSV, SQL text columns).
const DateLayout = "2006-01-02"

const (
	// MinYear is the smallest year GenerateFinancialCalendar accepts. January's
	// anchor month lives in year-1, which must itself be representable.
	MinYear = 2

	// MaxYear is the largest representable calendar year.
	MaxYear = 9999
)

// DateRangeError is returned when a requested year, or the anchor year derived
// from it, falls outside the representable date range.
type DateRangeError struct {
	Year int
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("year %d is outside the supported range %d-%d", e.Year, MinYear, MaxYear)
}

// FiscalPeriod is one financial month of the ClearVue calendar.
//
// A period opens on the last Saturday of its anchor month (normally the
// previous calendar month) and closes on the last Friday of its own calendar
// month. Label carries the anchor month's name, Quarter is derived from the
// calendar month, not from the label.
//
// Example (2024, March):
//
//	FiscalPeriod{
//	    Label:     "February",
//	    Month:     time.March,
//	    StartDate: 2024-02-24, // Saturday
//	    EndDate:   2024-03-29, // Friday
//	    Quarter:   1,
//	}
type FiscalPeriod struct {
	Label     string     // Anchor month name, e.g. "February"
	Month     time.Month // Calendar month the period closes in
	StartDate time.Time  // Last Saturday of the anchor month (UTC midnight)
	EndDate   time.Time  // Last Friday of Month (UTC midnight)
	Quarter   int        // 1..4
}

// fiscalPeriodJSON is the wire shape of a FiscalPeriod: dates as YYYY-MM-DD.
type fiscalPeriodJSON struct {
	Label     string `json:"label"`
	Month     int    `json:"month"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Quarter   int    `json:"quarter"`
}

// MarshalJSON encodes the period with ISO-8601 date strings.
func (p FiscalPeriod) MarshalJSON() ([]byte, error) {
	return json.Marshal(fiscalPeriodJSON{
		Label:     p.Label,
		Month:     int(p.Month),
		StartDate: p.StartDate.Format(DateLayout),
		EndDate:   p.EndDate.Format(DateLayout),
		Quarter:   p.Quarter,
	})
}

// UnmarshalJSON decodes a period previously written by MarshalJSON.
func (p *FiscalPeriod) UnmarshalJSON(data []byte) error {
	var raw fiscalPeriodJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	start, err := time.Parse(DateLayout, raw.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date %q: %w", raw.StartDate, err)
	}
	end, err := time.Parse(DateLayout, raw.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end_date %q: %w", raw.EndDate, err)
	}

	*p = FiscalPeriod{
		Label:     raw.Label,
		Month:     time.Month(raw.Month),
		StartDate: start,
		EndDate:   end,
		Quarter:   raw.Quarter,
	}
	return nil
}

// Contains reports whether date (compared by calendar day) lies inside the
// period, both boundaries inclusive.
func (p FiscalPeriod) Contains(date time.Time) bool {
	d := truncateDay(date)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// Days returns the inclusive length of the period in days.
func (p FiscalPeriod) Days() int {
	return int(p.EndDate.Sub(p.StartDate).Hours()/24) + 1
}

// GenerateFinancialCalendar
//
// Purpose:
//
//	Builds the twelve financial months of the given calendar year. Every
//	boundary is computed independently from its own month end, so two
//	consecutive periods overlap by seven days when a month ends on a Friday.
//	That is how the calendar is defined and callers must not chain or repair it.
//
// Algorithm (per calendar month m = 1..12):
//
//  1. Anchor month is December of year-1 for January, m-1 of year otherwise.
//  2. StartDate = last Saturday on or before the anchor month's last day.
//  3. EndDate   = last Friday on or before month m's last day.
//  4. Label     = month name of StartDate.
//  5. Quarter   = (m-1)/3 + 1.
//
// Errors:
//
//	*DateRangeError when year is outside MinYear..MaxYear, i.e. when year or
//	its anchor year year-1 cannot be represented.
//	No partial result is ever returned.
//
// Example:
//
//	periods, _ := GenerateFinancialCalendar(2025)
//	periods[0].StartDate // 2024-12-28 (last Saturday of December 2024)
//	periods[0].EndDate   // 2025-01-31 (last Friday of January 2025)
func GenerateFinancialCalendar(year int) ([]FiscalPeriod, error) {
	if year < MinYear || year > MaxYear {
		return nil, &DateRangeError{Year: year}
	}

	periods := make([]FiscalPeriod, 0, 12)
	for m := time.January; m <= time.December; m++ {
		anchorYear, anchorMonth := year, m-1
		if m == time.January {
			anchorYear, anchorMonth = year-1, time.December
		}

		start := lastWeekdayOnOrBefore(lastDayOfMonth(anchorYear, anchorMonth), time.Saturday)
		end := lastWeekdayOnOrBefore(lastDayOfMonth(year, m), time.Friday)

		periods = append(periods, FiscalPeriod{
			Label:     start.Month().String(),
			Month:     m,
			StartDate: start,
			EndDate:   end,
			Quarter:   QuarterOfMonth(m),
		})
	}

	return periods, nil
}

// QuarterOfMonth maps a calendar month to its quarter (1..4).
func QuarterOfMonth(m time.Month) int {
	return (int(m)-1)/3 + 1
}

// lastDayOfMonth returns the last calendar day of the month at UTC midnight.
func lastDayOfMonth(year int, month time.Month) time.Time {
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

// lastWeekdayOnOrBefore walks back from d to the closest day that falls on wd.
func lastWeekdayOnOrBefore(d time.Time, wd time.Weekday) time.Time {
	offset := (int(d.Weekday()) - int(wd) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
