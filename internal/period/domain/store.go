package domain

import (
	"sync"
	"time"
)

// CalendarStore caches generated financial calendars in memory, keyed by
// year. The generator itself owns no state; whoever needs memoization owns a
// CalendarStore.
//
// Example usage:
//
//	cs := NewCalendarStore()
//	periods, err := cs.Get(2026)
//	again, _ := cs.Get(2026) // served from memory
type CalendarStore struct {
	mu        sync.RWMutex
	calendars map[int][]FiscalPeriod
}

// NewCalendarStore returns an empty store.
func NewCalendarStore() *CalendarStore {
	return &CalendarStore{
		calendars: make(map[int][]FiscalPeriod),
	}
}

// Get returns the calendar for year, generating and caching it on first use.
// Errors are not cached.
func (cs *CalendarStore) Get(year int) ([]FiscalPeriod, error) {
	if periods, ok := cs.Lookup(year); ok {
		return periods, nil
	}

	periods, err := GenerateFinancialCalendar(year)
	if err != nil {
		return nil, err
	}

	cs.Put(year, periods)
	return clonePeriods(periods), nil
}

// Lookup returns a copy of the cached calendar for year, if present.
func (cs *CalendarStore) Lookup(year int) ([]FiscalPeriod, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	periods, ok := cs.calendars[year]
	if !ok {
		return nil, false
	}
	return clonePeriods(periods), true
}

// Put stores a calendar obtained elsewhere (e.g. from redis or the database).
func (cs *CalendarStore) Put(year int, periods []FiscalPeriod) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.calendars[year] = clonePeriods(periods)
}

// Len returns the number of cached years.
func (cs *CalendarStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.calendars)
}

// Reset drops every cached calendar.
func (cs *CalendarStore) Reset() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.calendars = make(map[int][]FiscalPeriod)
}

// FindPeriods returns every period whose window contains date. Because
// boundaries are anchored independently, a date can fall in zero, one or two
// periods.
//
// Example:
//
//	periods, _ := GenerateFinancialCalendar(2026)
//	hits := FindPeriods(periods, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
//	hits[0].Month // time.March
func FindPeriods(periods []FiscalPeriod, date time.Time) []FiscalPeriod {
	var hits []FiscalPeriod
	for _, p := range periods {
		if p.Contains(date) {
			hits = append(hits, p)
		}
	}
	return hits
}

// FindByMonth returns the period that closes in the given calendar month.
func FindByMonth(periods []FiscalPeriod, m time.Month) (FiscalPeriod, bool) {
	for _, p := range periods {
		if p.Month == m {
			return p, true
		}
	}
	return FiscalPeriod{}, false
}

func clonePeriods(periods []FiscalPeriod) []FiscalPeriod {
	out := make([]FiscalPeriod, len(periods))
	copy(out, periods)
	return out
}
