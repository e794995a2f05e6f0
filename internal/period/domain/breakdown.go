package domain

import (
	"fmt"
	"time"
)

// FiscalQuarter groups the three financial months that share a quarter
// number. StartDate/EndDate span from the first month's start to the last
// month's end.
type FiscalQuarter struct {
	Quarter   int            `json:"quarter"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Months    []FiscalPeriod `json:"months"`
}

// BreakDownQuarters
//
// Splits a full financial calendar into its four quarters. Quarters always
// hold three consecutive months, in calendar order.
//
// Example:
//
//	periods, _ := GenerateFinancialCalendar(2026)
//	quarters, _ := BreakDownQuarters(periods)
//	quarters[0].Months // January, February, March periods
func BreakDownQuarters(periods []FiscalPeriod) ([]FiscalQuarter, error) {
	if len(periods) != 12 {
		return nil, fmt.Errorf("expected 12 periods, found %d", len(periods))
	}

	quarters := make([]FiscalQuarter, 0, 4)
	for q := 0; q < 4; q++ {
		months := periods[q*3 : q*3+3]
		for _, m := range months {
			if m.Quarter != q+1 {
				return nil, fmt.Errorf("period %s belongs to quarter %d, not %d", m.Month, m.Quarter, q+1)
			}
		}

		quarters = append(quarters, FiscalQuarter{
			Quarter:   q + 1,
			StartDate: fmtDate(months[0].StartDate),
			EndDate:   fmtDate(months[2].EndDate),
			Months:    clonePeriods(months),
		})
	}
	return quarters, nil
}

// PeriodsInRange returns the periods that lie fully within [from, to].
// A reversed range yields nil.
func PeriodsInRange(periods []FiscalPeriod, from, to time.Time) []FiscalPeriod {
	from, to = truncateDay(from), truncateDay(to)
	if from.After(to) {
		return nil
	}

	var out []FiscalPeriod
	for _, p := range periods {
		if !p.StartDate.Before(from) && !p.EndDate.After(to) {
			out = append(out, p)
		}
	}
	return out
}
