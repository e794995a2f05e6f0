package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nholding/clearvue/internal/audit"
	"github.com/nholding/clearvue/internal/period/domain"
	"github.com/nholding/clearvue/internal/period/repository"
)

// CalendarCache is a shared cache of generated calendars (redis in production).
type CalendarCache interface {
	Get(ctx context.Context, year int) ([]domain.FiscalPeriod, bool, error)
	Set(ctx context.Context, year int, periods []domain.FiscalPeriod) error
}

// Metrics receives calendar lookup events.
type Metrics interface {
	CalendarGenerated(err error)
	CacheLookup(layer string, hit bool)
}

// PeriodService resolves financial calendars through a chain of layers:
// in-process store, shared cache, database, and finally the generator.
// Every layer except the store is optional.
type PeriodService struct {
	store   *domain.CalendarStore
	cache   CalendarCache
	repo    repository.PeriodRepository
	metrics Metrics
	logger  *slog.Logger
}

// Option configures a PeriodService.
type Option func(*PeriodService)

func WithCache(c CalendarCache) Option { return func(s *PeriodService) { s.cache = c } }

func WithRepository(r repository.PeriodRepository) Option {
	return func(s *PeriodService) { s.repo = r }
}

func WithMetrics(m Metrics) Option { return func(s *PeriodService) { s.metrics = m } }

func NewPeriodService(store *domain.CalendarStore, logger *slog.Logger, opts ...Option) *PeriodService {
	if store == nil {
		store = domain.NewCalendarStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &PeriodService{store: store, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCalendar
//
// Returns the twelve financial months of year. Lookup order:
//
//  1. in-process CalendarStore
//  2. shared cache
//  3. repository
//  4. GenerateFinancialCalendar
//
// Whatever layer answers, the faster layers above it are filled. A freshly
// generated calendar is also upserted into the repository. Entries that fail
// domain.ValidateCalendar are treated as misses and overwritten. Failures of the
// cache or repository are logged and never fail the request; the generator
// is always authoritative.
//
// Returns *domain.DateRangeError for years outside MinYear..MaxYear.
func (s *PeriodService) GetCalendar(ctx context.Context, year int) ([]domain.FiscalPeriod, error) {
	if year < domain.MinYear || year > domain.MaxYear {
		return nil, &domain.DateRangeError{Year: year}
	}

	if periods, ok := s.store.Lookup(year); ok {
		s.cacheLookup("memory", true)
		return periods, nil
	}
	s.cacheLookup("memory", false)

	if periods, ok := s.fromCache(ctx, year); ok {
		s.store.Put(year, periods)
		return periods, nil
	}

	if periods, ok := s.fromRepository(ctx, year); ok {
		s.store.Put(year, periods)
		s.toCache(ctx, year, periods)
		return periods, nil
	}

	periods, err := domain.GenerateFinancialCalendar(year)
	if s.metrics != nil {
		s.metrics.CalendarGenerated(err)
	}
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "financial calendar generated", "year", year)

	s.store.Put(year, periods)
	s.toCache(ctx, year, periods)
	if s.repo != nil {
		if err := s.repo.SaveCalendar(ctx, year, periods, audit.SystemUser); err != nil {
			s.logger.WarnContext(ctx, "failed to persist financial calendar", "year", year, "error", err)
		}
	}
	return periods, nil
}

// CurrentPeriod returns the financial month that closes in now's calendar
// month.
func (s *PeriodService) CurrentPeriod(ctx context.Context, now time.Time) (domain.FiscalPeriod, error) {
	periods, err := s.GetCalendar(ctx, now.Year())
	if err != nil {
		return domain.FiscalPeriod{}, err
	}
	p, ok := domain.FindByMonth(periods, now.Month())
	if !ok {
		return domain.FiscalPeriod{}, fmt.Errorf("no financial month closes in %s %d", now.Month(), now.Year())
	}
	return p, nil
}

// PeriodsContaining returns the financial months whose window contains date.
// Near an overlapping boundary this is two periods.
func (s *PeriodService) PeriodsContaining(ctx context.Context, date time.Time) ([]domain.FiscalPeriod, error) {
	var hits []domain.FiscalPeriod
	// A date in late December can belong to next year's January period.
	for _, year := range []int{date.Year(), date.Year() + 1} {
		if year > domain.MaxYear {
			break
		}
		periods, err := s.GetCalendar(ctx, year)
		if err != nil {
			return nil, err
		}
		hits = append(hits, domain.FindPeriods(periods, date)...)
	}
	return hits, nil
}

// Boundaries reports the gap or overlap between consecutive months of year.
func (s *PeriodService) Boundaries(ctx context.Context, year int) ([]domain.Boundary, error) {
	periods, err := s.GetCalendar(ctx, year)
	if err != nil {
		return nil, err
	}
	return domain.DescribeBoundaries(periods), nil
}

// Quarters groups the calendar of year into its four quarters.
func (s *PeriodService) Quarters(ctx context.Context, year int) ([]domain.FiscalQuarter, error) {
	periods, err := s.GetCalendar(ctx, year)
	if err != nil {
		return nil, err
	}
	return domain.BreakDownQuarters(periods)
}

func (s *PeriodService) fromCache(ctx context.Context, year int) ([]domain.FiscalPeriod, bool) {
	if s.cache == nil {
		return nil, false
	}
	periods, ok, err := s.cache.Get(ctx, year)
	if err != nil {
		s.logger.WarnContext(ctx, "calendar cache read failed", "year", year, "error", err)
		return nil, false
	}
	if ok {
		if err := checkCalendar(periods); err != nil {
			s.logger.WarnContext(ctx, "discarding invalid cached calendar", "year", year, "error", err)
			ok = false
		}
	}
	s.cacheLookup("redis", ok)
	return periods, ok
}

func (s *PeriodService) toCache(ctx context.Context, year int, periods []domain.FiscalPeriod) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, year, periods); err != nil {
		s.logger.WarnContext(ctx, "calendar cache write failed", "year", year, "error", err)
	}
}

func (s *PeriodService) fromRepository(ctx context.Context, year int) ([]domain.FiscalPeriod, bool) {
	if s.repo == nil {
		return nil, false
	}
	periods, err := s.repo.FindByYear(ctx, year)
	if err != nil {
		if !errors.Is(err, repository.ErrCalendarNotFound) {
			s.logger.WarnContext(ctx, "calendar repository read failed", "year", year, "error", err)
		}
		return nil, false
	}
	if err := checkCalendar(periods); err != nil {
		s.logger.WarnContext(ctx, "discarding invalid stored calendar", "year", year, "error", err)
		return nil, false
	}
	return periods, true
}

// checkCalendar rejects anything a cache or database hands back that is not a
// full, well formed calendar. Such entries are regenerated and overwritten.
func checkCalendar(periods []domain.FiscalPeriod) error {
	return errors.Join(domain.ValidateCalendar(periods)...)
}

func (s *PeriodService) cacheLookup(layer string, hit bool) {
	if s.metrics != nil {
		s.metrics.CacheLookup(layer, hit)
	}
}
