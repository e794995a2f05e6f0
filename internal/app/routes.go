package app

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all application routes.
func (a *App) RegisterRoutes() {
	e := a.Echo

	e.GET("/", a.handleDashboard)
	e.GET("/healthz", a.handleHealth)
	if a.deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(a.deps.Metrics.Handler()))
	}

	api := e.Group("/api")

	// Static segments win over :year in echo's router.
	cal := api.Group("/calendar")
	cal.GET("/current", a.handleCurrentPeriod)
	cal.GET("/:year", a.handleCalendar)
	cal.GET("/:year/boundaries", a.handleBoundaries)
	cal.GET("/:year/quarters", a.handleQuarters)
	cal.POST("/:year/export", a.handleExport)

	api.GET("/sales", a.handleSales)
	api.GET("/sales/regions", a.handleSalesByRegion)
	api.GET("/suppliers", a.handleSuppliers)
	api.GET("/payments", a.handlePayments)
}
