package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nholding/clearvue/internal/apperror"
	"github.com/nholding/clearvue/internal/domain/supplier"
	"github.com/nholding/clearvue/internal/payment"
	"github.com/nholding/clearvue/internal/period/domain"
	"github.com/nholding/clearvue/internal/sales"
)

// calendarResponse is the body of GET /api/calendar/:year.
type calendarResponse struct {
	Year    int                   `json:"year"`
	Periods []domain.FiscalPeriod `json:"periods"`
}

func (a *App) handleCalendar(c echo.Context) error {
	year, err := yearParam(c)
	if err != nil {
		return err
	}

	periods, err := a.deps.Periods.GetCalendar(c.Request().Context(), year)
	if err != nil {
		return calendarError(err)
	}

	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from != "" || to != "" {
		start, end, err := parseRange(from, to)
		if err != nil {
			return err
		}
		periods = domain.PeriodsInRange(periods, start, end)
	}
	if periods == nil {
		periods = []domain.FiscalPeriod{}
	}

	return c.JSON(http.StatusOK, calendarResponse{Year: year, Periods: periods})
}

func (a *App) handleBoundaries(c echo.Context) error {
	year, err := yearParam(c)
	if err != nil {
		return err
	}

	bounds, err := a.deps.Periods.Boundaries(c.Request().Context(), year)
	if err != nil {
		return calendarError(err)
	}

	type boundary struct {
		domain.Boundary
		Kind string `json:"kind"`
	}
	out := make([]boundary, len(bounds))
	for i, b := range bounds {
		out[i] = boundary{Boundary: b, Kind: b.Kind()}
	}
	return c.JSON(http.StatusOK, map[string]any{"year": year, "boundaries": out})
}

func (a *App) handleQuarters(c echo.Context) error {
	year, err := yearParam(c)
	if err != nil {
		return err
	}

	quarters, err := a.deps.Periods.Quarters(c.Request().Context(), year)
	if err != nil {
		return calendarError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"year": year, "quarters": quarters})
}

func (a *App) handleCurrentPeriod(c echo.Context) error {
	now := a.deps.Now()
	ctx := c.Request().Context()

	current, err := a.deps.Periods.CurrentPeriod(ctx, now)
	if err != nil {
		return calendarError(err)
	}
	containing, err := a.deps.Periods.PeriodsContaining(ctx, now)
	if err != nil {
		return calendarError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"date":       now.Format(domain.DateLayout),
		"period":     current,
		"containing": containing,
	})
}

func (a *App) handleExport(c echo.Context) error {
	if a.deps.Exporter == nil {
		return apperror.NewUnavailable("calendar export is not configured")
	}

	year, err := yearParam(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	periods, err := a.deps.Periods.GetCalendar(ctx, year)
	if err != nil {
		return calendarError(err)
	}

	key, err := a.deps.Exporter.ExportCalendar(ctx, year, periods, c.Request().Header.Get("X-User"))
	if err != nil {
		return apperror.NewInternal(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"year": year, "key": key})
}

// salesResponse is the body of GET /api/sales.
type salesResponse struct {
	Granularity domain.Granularity `json:"granularity"`
	Buckets     []sales.Bucket     `json:"buckets"`
	Summary     sales.Summary      `json:"summary"`
}

func (a *App) handleSales(c echo.Context) error {
	g, err := domain.ParseGranularity(c.QueryParam("period"))
	if err != nil {
		return apperror.NewBadRequest(err.Error())
	}
	filter, err := salesFilter(c)
	if err != nil {
		return err
	}

	var current *domain.FiscalPeriod
	if p, err := a.deps.Periods.CurrentPeriod(c.Request().Context(), a.deps.Now()); err == nil {
		current = &p
	}

	buckets := sales.Aggregate(a.deps.Sales, filter, g)
	if buckets == nil {
		buckets = []sales.Bucket{}
	}
	return c.JSON(http.StatusOK, salesResponse{
		Granularity: g,
		Buckets:     buckets,
		Summary:     sales.Summarize(a.deps.Sales, filter, current),
	})
}

func (a *App) handleSalesByRegion(c echo.Context) error {
	filter, err := salesFilter(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"regions": sales.ByRegion(a.deps.Sales, filter)})
}

func (a *App) handleSuppliers(c echo.Context) error {
	list := a.deps.Suppliers
	if category := c.QueryParam("category"); category != "" {
		if !slices.Contains(sales.Categories, category) {
			return apperror.NewBadRequest(fmt.Sprintf("unknown category %q", category))
		}
		list = filterSuppliers(list, category)
	} else {
		list = slices.Clone(list)
	}

	switch strings.ToLower(c.QueryParam("sort")) {
	case "", "spend":
		supplier.SortBySpend(list)
	case "performance":
		supplier.SortByPerformance(list)
	default:
		return apperror.NewBadRequest("sort must be one of: spend, performance")
	}
	if list == nil {
		list = []supplier.Supplier{}
	}

	return c.JSON(http.StatusOK, map[string]any{"suppliers": list})
}

func (a *App) handlePayments(c echo.Context) error {
	snapshot := a.deps.Payments.Snapshot()
	if snapshot == nil {
		snapshot = []payment.Payment{}
	}
	resp := map[string]any{
		"payments": snapshot,
		"count":    len(snapshot),
	}
	if last := a.deps.Payments.LastUpdate(); !last.IsZero() {
		resp["last_update"] = last
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *App) handleHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(a.deps.Health))
	for name, check := range a.deps.Health {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	return c.JSON(status, map[string]any{"status": overall, "checks": checks})
}

// yearParam parses the :year path segment.
func yearParam(c echo.Context) (int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, apperror.NewBadRequest(fmt.Sprintf("year must be an integer, got %q", c.Param("year")))
	}
	return year, nil
}

// calendarError maps service errors to client errors.
func calendarError(err error) error {
	var rangeErr *domain.DateRangeError
	if errors.As(err, &rangeErr) {
		return apperror.NewValidation(rangeErr.Error(), err)
	}
	return apperror.NewInternal(err)
}

// parseRange parses the optional from/to query dates. A missing bound is
// open-ended.
func parseRange(from, to string) (time.Time, time.Time, error) {
	start := time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(domain.MaxYear+1, time.December, 31, 0, 0, 0, 0, time.UTC)

	if from != "" {
		t, err := time.Parse(domain.DateLayout, from)
		if err != nil {
			return start, end, apperror.NewBadRequest(fmt.Sprintf("from must be YYYY-MM-DD, got %q", from))
		}
		start = t
	}
	if to != "" {
		t, err := time.Parse(domain.DateLayout, to)
		if err != nil {
			return start, end, apperror.NewBadRequest(fmt.Sprintf("to must be YYYY-MM-DD, got %q", to))
		}
		end = t
	}
	return start, end, nil
}

// salesFilter reads repeated or comma separated region/category params.
func salesFilter(c echo.Context) (sales.Filter, error) {
	regions := multiParam(c, "region")
	for _, r := range regions {
		if !slices.Contains(sales.Regions, r) {
			return sales.Filter{}, apperror.NewBadRequest(fmt.Sprintf("unknown region %q", r))
		}
	}
	categories := multiParam(c, "category")
	for _, cat := range categories {
		if !slices.Contains(sales.Categories, cat) {
			return sales.Filter{}, apperror.NewBadRequest(fmt.Sprintf("unknown category %q", cat))
		}
	}
	return sales.Filter{Regions: regions, Categories: categories}, nil
}

func multiParam(c echo.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryParams()[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func filterSuppliers(list []supplier.Supplier, category string) []supplier.Supplier {
	var out []supplier.Supplier
	for _, s := range list {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}
