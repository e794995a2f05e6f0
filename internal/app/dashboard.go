package app

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/nholding/clearvue/internal/domain/supplier"
	"github.com/nholding/clearvue/internal/payment"
	"github.com/nholding/clearvue/internal/period/domain"
	"github.com/nholding/clearvue/internal/sales"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
	"pct":   func(d decimal.Decimal) string { return d.Shift(2).StringFixed(1) + "%" },
	"date":  func(t time.Time) string { return t.Format(domain.DateLayout) },
	"clock": func(t time.Time) string { return t.Format("15:04:05") },
}

func parseDashboard() (*template.Template, error) {
	tmpl, err := template.New("dashboard.html").Funcs(dashboardFuncs).ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}
	return tmpl, nil
}

// calendarRow is one line of the fiscal calendar table. Seam describes the
// boundary to the following month and is empty for the last row.
type calendarRow struct {
	Period domain.FiscalPeriod
	Seam   string
}

type dashboardData struct {
	Year       int
	Today      time.Time
	Current    *domain.FiscalPeriod
	Summary    sales.Summary
	Regions    []sales.RegionTotal
	Calendar   []calendarRow
	Payments   []payment.Payment // newest first
	LastUpdate time.Time
	Suppliers  []supplier.Supplier
}

func (a *App) handleDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	now := a.deps.Now()

	year := now.Year()
	if a.Config != nil && a.Config.Fiscal.Year != 0 {
		year = a.Config.Fiscal.Year
	}

	periods, err := a.deps.Periods.GetCalendar(ctx, year)
	if err != nil {
		return calendarError(err)
	}

	data := dashboardData{
		Year:       year,
		Today:      now,
		Regions:    sales.ByRegion(a.deps.Sales, sales.Filter{}),
		LastUpdate: a.deps.Payments.LastUpdate(),
	}

	if current, err := a.deps.Periods.CurrentPeriod(ctx, now); err == nil {
		data.Current = &current
	}
	data.Summary = sales.Summarize(a.deps.Sales, sales.Filter{}, data.Current)

	bounds := domain.DescribeBoundaries(periods)
	for i, p := range periods {
		row := calendarRow{Period: p}
		if i < len(bounds) {
			row.Seam = seamLabel(bounds[i])
		}
		data.Calendar = append(data.Calendar, row)
	}

	data.Payments = a.deps.Payments.Snapshot()
	slices.Reverse(data.Payments)

	data.Suppliers = slices.Clone(a.deps.Suppliers)
	supplier.SortBySpend(data.Suppliers)

	var buf bytes.Buffer
	if err := a.dashboard.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func seamLabel(b domain.Boundary) string {
	switch b.Kind() {
	case "overlap":
		return fmt.Sprintf("overlaps next by %d days", -b.GapDays)
	case "gap":
		return fmt.Sprintf("%d day gap", b.GapDays)
	default:
		return "contiguous"
	}
}
