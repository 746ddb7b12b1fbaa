package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rferreira-dev/survshop-backend/internal/catalog"
	"github.com/rferreira-dev/survshop-backend/internal/exports"
	"github.com/rferreira-dev/survshop-backend/pkg/config"
	"github.com/rferreira-dev/survshop-backend/pkg/db"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
	"github.com/rferreira-dev/survshop-backend/pkg/metrics"
	"github.com/rferreira-dev/survshop-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "exports-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "exports-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	priceListJob, err := exports.NewPriceListJob(catalogService, cfg.Exports.Dir, cfg.PayPal.Currency)
	if err != nil {
		logg.Error(context.Background(), "failed to create price list job", err)
		os.Exit(1)
	}

	service, err := exports.NewService(exports.ServiceParams{
		Logger:   logg,
		Registry: exports.NewRegistry(priceListJob),
		Lock:     exports.NewMutexLock(),
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Exports.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create exports service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting exports worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "exports worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "exports worker shutting down gracefully")
}
