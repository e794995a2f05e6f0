// Package app is the HTTP bootstrap. It owns the echo instance, installs
// global middleware and the error handler, and registers every route.
package app

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nholding/clearvue/internal/apperror"
	"github.com/nholding/clearvue/internal/config"
	"github.com/nholding/clearvue/internal/domain/supplier"
	"github.com/nholding/clearvue/internal/middleware"
	"github.com/nholding/clearvue/internal/observability"
	"github.com/nholding/clearvue/internal/payment"
	"github.com/nholding/clearvue/internal/period/domain"
	"github.com/nholding/clearvue/internal/period/service"
	"github.com/nholding/clearvue/internal/sales"
)

// CalendarExporter uploads a calendar and returns where it went.
type CalendarExporter interface {
	ExportCalendar(ctx context.Context, year int, periods []domain.FiscalPeriod, user string) (string, error)
}

// HealthCheck probes one backend.
type HealthCheck func(ctx context.Context) error

// Dependencies are the services the handlers read from. Optional backends
// are nil when not configured.
type Dependencies struct {
	Periods   *service.PeriodService
	Exporter  CalendarExporter // nil disables export
	Sales     []sales.Record
	Suppliers []supplier.Supplier
	Payments  *payment.Stream
	Metrics   *observability.Metrics // nil hides /metrics
	Health    map[string]HealthCheck

	// Now defaults to time.Now.
	Now func() time.Time
}

// App holds the echo server and everything the handlers need.
type App struct {
	Config *config.Config
	Echo   *echo.Echo
	Logger *slog.Logger

	deps      Dependencies
	dashboard *template.Template
}

// New creates the App, installs middleware and the error handler, and
// registers all routes.
func New(cfg *config.Config, deps Dependencies, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Periods == nil {
		deps.Periods = service.NewPeriodService(nil, logger)
	}
	if deps.Payments == nil {
		deps.Payments = payment.NewStream(payment.DefaultStreamSize)
	}

	tmpl, err := parseDashboard()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config:    cfg,
		Echo:      e,
		Logger:    logger,
		deps:      deps,
		dashboard: tmpl,
	}

	a.setupMiddleware()
	e.HTTPErrorHandler = a.errorHandler
	a.RegisterRoutes()

	return a, nil
}

// setupMiddleware registers global middleware. The request ID must exist
// before anything logs, and recovery sits inside the logger so panics are
// logged as 500s.
func (a *App) setupMiddleware() {
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(middleware.RequestLogger(a.Logger))
	a.Echo.Use(middleware.Recovery(a.Logger))
	a.Echo.Use(middleware.SecurityHeaders())
}

// errorHandler maps AppErrors, calendar range errors and echo's own errors
// to JSON for /api paths and to a plain page otherwise.
func (a *App) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "An unexpected error occurred"

	var (
		appErr   *apperror.AppError
		rangeErr *domain.DateRangeError
		echoErr  *echo.HTTPError
	)
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
		if code >= http.StatusInternalServerError && appErr.Internal != nil {
			a.Logger.Error("internal error",
				slog.String("type", appErr.Type),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
				slog.String("request_id", middleware.GetRequestID(c)),
			)
		}
	case errors.As(err, &rangeErr):
		code = http.StatusUnprocessableEntity
		message = rangeErr.Error()
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	default:
		a.Logger.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
			slog.String("request_id", middleware.GetRequestID(c)),
		)
	}

	if isAPIRequest(c) {
		_ = c.JSON(code, map[string]string{
			"error":      http.StatusText(code),
			"message":    message,
			"request_id": middleware.GetRequestID(c),
		})
		return
	}

	_ = c.HTML(code, fmt.Sprintf("<!doctype html><title>%d %s</title><h1>%d %s</h1><p>%s</p>",
		code, http.StatusText(code), code, http.StatusText(code), template.HTMLEscapeString(message)))
}

// isAPIRequest returns true if the request targets the JSON API.
func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api")
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	a.Logger.Info("starting ClearVue dashboard",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}
