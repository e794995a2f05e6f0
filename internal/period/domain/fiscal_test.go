package domain

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateFinancialCalendar_TwelvePeriodsAcrossYears(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		periods, err := GenerateFinancialCalendar(year)
		require.NoError(t, err, "year %d", year)
		require.Len(t, periods, 12, "year %d", year)

		for i, p := range periods {
			assert.Equal(t, time.Month(i+1), p.Month, "year %d index %d", year, i)
			assert.Equal(t, time.Saturday, p.StartDate.Weekday(), "year %d %s start", year, p.Month)
			assert.Equal(t, time.Friday, p.EndDate.Weekday(), "year %d %s end", year, p.Month)
			assert.True(t, p.EndDate.After(p.StartDate), "year %d %s end after start", year, p.Month)
			assert.Equal(t, p.StartDate.Month().String(), p.Label)
			assert.NoError(t, p.Validate())
		}
	}
}

func TestGenerateFinancialCalendar_QuarterSequence(t *testing.T) {
	periods, err := GenerateFinancialCalendar(2026)
	require.NoError(t, err)

	var quarters []int
	for _, p := range periods {
		quarters = append(quarters, p.Quarter)
	}
	assert.Equal(t, []int{1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4}, quarters)
}

func TestGenerateFinancialCalendar_JanuaryRollsOverToPreviousDecember(t *testing.T) {
	periods, err := GenerateFinancialCalendar(2025)
	require.NoError(t, err)

	jan := periods[0]
	assert.Equal(t, "December", jan.Label)
	assert.Equal(t, date(2024, time.December, 28), jan.StartDate)
	assert.Equal(t, date(2025, time.January, 31), jan.EndDate)
	assert.Equal(t, 1, jan.Quarter)

	// The start must be the last Saturday of December 2024.
	assert.True(t, jan.StartDate.AddDate(0, 0, 7).Month() == time.January)
}

func TestGenerateFinancialCalendar_LeapYearMarch(t *testing.T) {
	periods, err := GenerateFinancialCalendar(2024)
	require.NoError(t, err)

	march := periods[2]
	assert.Equal(t, "February", march.Label)
	assert.Equal(t, "2024-02-24", march.StartDate.Format(DateLayout))
	assert.Equal(t, "2024-03-29", march.EndDate.Format(DateLayout))
	assert.Equal(t, 1, march.Quarter)
	assert.Equal(t, time.March, march.Month)
}

func TestGenerateFinancialCalendar_Known2024(t *testing.T) {
	want := []struct {
		label string
		start string
		end   string
	}{
		{"December", "2023-12-30", "2024-01-26"},
		{"January", "2024-01-27", "2024-02-23"},
		{"February", "2024-02-24", "2024-03-29"},
		{"March", "2024-03-30", "2024-04-26"},
		{"April", "2024-04-27", "2024-05-31"},
		{"May", "2024-05-25", "2024-06-28"},
		{"June", "2024-06-29", "2024-07-26"},
		{"July", "2024-07-27", "2024-08-30"},
		{"August", "2024-08-31", "2024-09-27"},
		{"September", "2024-09-28", "2024-10-25"},
		{"October", "2024-10-26", "2024-11-29"},
		{"November", "2024-11-30", "2024-12-27"},
	}

	periods, err := GenerateFinancialCalendar(2024)
	require.NoError(t, err)

	for i, w := range want {
		assert.Equal(t, w.label, periods[i].Label, "index %d", i)
		assert.Equal(t, w.start, periods[i].StartDate.Format(DateLayout), "index %d", i)
		assert.Equal(t, w.end, periods[i].EndDate.Format(DateLayout), "index %d", i)
	}
}

func TestGenerateFinancialCalendar_Idempotent(t *testing.T) {
	a, err := GenerateFinancialCalendar(2030)
	require.NoError(t, err)
	b, err := GenerateFinancialCalendar(2030)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateFinancialCalendar_ConcurrentCallers(t *testing.T) {
	want, err := GenerateFinancialCalendar(2027)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := GenerateFinancialCalendar(2027)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestGenerateFinancialCalendar_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		year int
	}{
		{"zero", 0},
		{"negative", -5},
		{"anchor year zero", 1},
		{"above max", 10000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods, err := GenerateFinancialCalendar(tt.year)
			assert.Nil(t, periods)

			var rangeErr *DateRangeError
			require.True(t, errors.As(err, &rangeErr), "expected *DateRangeError, got %T", err)
			assert.Equal(t, tt.year, rangeErr.Year)
		})
	}
}

func TestGenerateFinancialCalendar_RangeEdges(t *testing.T) {
	first, err := GenerateFinancialCalendar(MinYear)
	require.NoError(t, err)
	assert.Equal(t, 1, first[0].StartDate.Year())

	last, err := GenerateFinancialCalendar(MaxYear)
	require.NoError(t, err)
	assert.Equal(t, MaxYear, last[11].EndDate.Year())
}

func TestFiscalPeriod_JSONUsesISODates(t *testing.T) {
	periods, err := GenerateFinancialCalendar(2024)
	require.NoError(t, err)

	raw, err := json.Marshal(periods[2])
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"label":"February","month":3,"start_date":"2024-02-24","end_date":"2024-03-29","quarter":1}`,
		string(raw))

	var decoded FiscalPeriod
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, periods[2], decoded)
}

func TestFiscalPeriod_UnmarshalRejectsBadDate(t *testing.T) {
	var p FiscalPeriod
	err := json.Unmarshal([]byte(`{"label":"May","month":6,"start_date":"25/05/2024","end_date":"2024-06-28","quarter":2}`), &p)
	assert.Error(t, err)
}

func TestFiscalPeriod_ContainsAndDays(t *testing.T) {
	periods, err := GenerateFinancialCalendar(2024)
	require.NoError(t, err)
	march := periods[2]

	assert.True(t, march.Contains(date(2024, time.February, 24)))
	assert.True(t, march.Contains(time.Date(2024, time.March, 29, 23, 59, 0, 0, time.UTC)))
	assert.False(t, march.Contains(date(2024, time.February, 23)))
	assert.False(t, march.Contains(date(2024, time.March, 30)))
	assert.Equal(t, 35, march.Days())

	for _, p := range periods {
		assert.GreaterOrEqual(t, p.Days(), 28)
		assert.LessOrEqual(t, p.Days(), 42)
	}
}

func TestQuarterOfMonth(t *testing.T) {
	assert.Equal(t, 1, QuarterOfMonth(time.January))
	assert.Equal(t, 1, QuarterOfMonth(time.March))
	assert.Equal(t, 2, QuarterOfMonth(time.April))
	assert.Equal(t, 3, QuarterOfMonth(time.September))
	assert.Equal(t, 4, QuarterOfMonth(time.December))
}
