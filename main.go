// Command clearvue serves the ClearVue sales dashboard: the financial
// calendar API, synthetic sales and supplier reports, and a live payment
// stream.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nholding/clearvue/internal/app"
	"github.com/nholding/clearvue/internal/config"
	"github.com/nholding/clearvue/internal/export"
	"github.com/nholding/clearvue/internal/mockdata"
	"github.com/nholding/clearvue/internal/observability"
	"github.com/nholding/clearvue/internal/payment"
	"github.com/nholding/clearvue/internal/period/domain"
	periodrepo "github.com/nholding/clearvue/internal/period/repository"
	"github.com/nholding/clearvue/internal/period/service"
	"github.com/nholding/clearvue/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if err := run(cfg, logger); err != nil {
		logger.Error("clearvue stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	health := map[string]app.HealthCheck{}
	serviceOpts := []service.Option{service.WithMetrics(metrics)}

	platform := &repository.Config{
		Profile:      cfg.AWS.Profile,
		Region:       cfg.AWS.Region,
		S3BucketName: cfg.AWS.Bucket,
		DatabaseURL:  cfg.Database.URL,
		DBEndpoint:   cfg.Database.Endpoint,
		DBUser:       cfg.Database.User,
		DBName:       cfg.Database.Name,
		DBPort:       cfg.Database.Port,
	}

	// --- Redis calendar cache ---
	if cfg.Redis.URL != "" {
		rdb, err := repository.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		serviceOpts = append(serviceOpts, service.WithCache(periodrepo.NewRedisCalendarCache(rdb, cfg.Fiscal.CacheTTL)))
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Info("connected to Redis")
	}

	// --- PostgreSQL calendar persistence ---
	if cfg.Database.Enabled() {
		repo, err := periodrepo.NewRdsPeriodRepository(ctx, platform)
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		serviceOpts = append(serviceOpts, service.WithRepository(repo))
		health["postgres"] = repo.Ping
		logger.Info("connected to PostgreSQL")
	}

	periods := service.NewPeriodService(domain.NewCalendarStore(), logger, serviceOpts...)

	// Fail fast when the configured year cannot be served.
	if _, err := periods.GetCalendar(ctx, cfg.Fiscal.Year); err != nil {
		return err
	}

	// --- S3 export ---
	var exporter app.CalendarExporter
	if cfg.AWS.Bucket != "" {
		s3Client, err := repository.NewS3Client(ctx, platform)
		if err != nil {
			return err
		}
		exporter = export.NewExporter(s3Client.Client, s3Client.BucketName, logger, metrics)
	}

	// --- Synthetic data ---
	src := mockdata.NewSource(cfg.Mock.Seed)
	records := mockdata.GenerateSales(src, time.Now(), cfg.Mock.SalesHistoryDays)
	suppliers := mockdata.GenerateSuppliers(src)
	logger.Info("mock data generated",
		slog.Int("sales_records", len(records)),
		slog.Int("suppliers", len(suppliers)),
	)

	stream := payment.NewStream(cfg.Mock.PaymentStreamSize)
	simOpts := []payment.SimulatorOption{payment.WithRecorder(metrics)}
	if len(cfg.Kafka.Brokers) > 0 {
		pub := payment.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.PaymentsTopic, logger)
		defer pub.Close()
		simOpts = append(simOpts, payment.WithPublisher(pub))
	}
	simulator := payment.NewSimulator(stream, mockdata.PaymentSource(src), cfg.Mock.PaymentInterval, logger, simOpts...)
	go simulator.Run(ctx)

	// --- HTTP ---
	application, err := app.New(cfg, app.Dependencies{
		Periods:   periods,
		Exporter:  exporter,
		Sales:     records,
		Suppliers: suppliers,
		Payments:  stream,
		Metrics:   metrics,
		Health:    health,
	}, logger)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := application.Shutdown(shutdownCtx); err != nil {
			logger.Error("server forced shutdown", slog.Any("error", err))
		}
	}()

	if err := application.Start(); err != nil {
		// Echo returns http.ErrServerClosed on graceful shutdown, which is expected.
		logger.Info("server stopped", slog.Any("reason", err))
	}
	return nil
}
