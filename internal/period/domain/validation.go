package domain

import (
	"fmt"
	"time"
)

// Validate checks the per-period invariants of a financial month and returns
// the first violation found.
func (p FiscalPeriod) Validate() error {
	if p.Label == "" {
		return fmt.Errorf("period label cannot be empty")
	}
	if p.Month < time.January || p.Month > time.December {
		return fmt.Errorf("invalid calendar month %d", p.Month)
	}
	if p.StartDate.Weekday() != time.Saturday {
		return fmt.Errorf("period %s starts on %s, expected Saturday", p.Month, p.StartDate.Weekday())
	}
	if p.EndDate.Weekday() != time.Friday {
		return fmt.Errorf("period %s ends on %s, expected Friday", p.Month, p.EndDate.Weekday())
	}
	if !p.StartDate.Before(p.EndDate) {
		return fmt.Errorf("period %s: start date must be before end date", p.Month)
	}
	if p.Quarter != QuarterOfMonth(p.Month) {
		return fmt.Errorf("period %s has quarter %d, expected %d", p.Month, p.Quarter, QuarterOfMonth(p.Month))
	}
	return nil
}

// Boundary describes the seam between two consecutive financial months.
//
// GapDays is the number of calendar days not covered by either period:
//
//	 0  → contiguous (next starts the day after previous ends)
//	>0  → gap
//	<0  → overlap of -GapDays days
//
// Generated calendars only produce 0 or -7. When a month ends on a Friday the
// next period starts on the Saturday six days before that Friday, so the two
// periods share seven days inclusive.
type Boundary struct {
	From    time.Month `json:"from"`
	To      time.Month `json:"to"`
	PrevEnd string     `json:"prev_end"`
	Start   string     `json:"next_start"`
	GapDays int        `json:"gap_days"`
}

// Kind names the boundary for display: "contiguous", "gap" or "overlap".
func (b Boundary) Kind() string {
	switch {
	case b.GapDays > 0:
		return "gap"
	case b.GapDays < 0:
		return "overlap"
	default:
		return "contiguous"
	}
}

// DescribeBoundaries
//
// Purpose:
//
//	Reports how every pair of consecutive periods meets. This is purely
//	informational and never alters the periods. Consecutive periods are
//	either contiguous or, when a month ends on a Friday, overlap by seven
//	days inclusive. Gaps never occur in a generated calendar.
//
// Example:
//
//	periods, _ := GenerateFinancialCalendar(2024)
//	for _, b := range DescribeBoundaries(periods) {
//	    fmt.Println(b.From, "→", b.To, b.Kind(), b.GapDays)
//	}
func DescribeBoundaries(periods []FiscalPeriod) []Boundary {
	if len(periods) < 2 {
		return nil
	}

	boundaries := make([]Boundary, 0, len(periods)-1)
	for i := 1; i < len(periods); i++ {
		prev := periods[i-1]
		curr := periods[i]

		gap := int(curr.StartDate.Sub(prev.EndDate).Hours()/24) - 1

		boundaries = append(boundaries, Boundary{
			From:    prev.Month,
			To:      curr.Month,
			PrevEnd: fmtDate(prev.EndDate),
			Start:   fmtDate(curr.StartDate),
			GapDays: gap,
		})
	}
	return boundaries
}

// ValidateCalendar checks a full calendar: twelve periods, ordered January to
// December, each individually valid.
func ValidateCalendar(periods []FiscalPeriod) []error {
	var errs []error
	if len(periods) != 12 {
		errs = append(errs, fmt.Errorf("expected 12 periods, found %d", len(periods)))
	}
	for i, p := range periods {
		if p.Month != time.Month(i+1) {
			errs = append(errs, fmt.Errorf("period %d is out of order: got month %s", i, p.Month))
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Utility to format time for nicer error messages
func fmtDate(t time.Time) string {
	return t.Format(DateLayout)
}
