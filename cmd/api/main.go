package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rferreira-dev/survshop-backend/api/routes"
	"github.com/rferreira-dev/survshop-backend/internal/catalog"
	"github.com/rferreira-dev/survshop-backend/internal/coupons"
	"github.com/rferreira-dev/survshop-backend/internal/delivery"
	"github.com/rferreira-dev/survshop-backend/internal/entitlements"
	"github.com/rferreira-dev/survshop-backend/internal/identity"
	"github.com/rferreira-dev/survshop-backend/internal/payments"
	"github.com/rferreira-dev/survshop-backend/internal/records"
	"github.com/rferreira-dev/survshop-backend/pkg/config"
	"github.com/rferreira-dev/survshop-backend/pkg/db"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
	"github.com/rferreira-dev/survshop-backend/pkg/metrics"
	"github.com/rferreira-dev/survshop-backend/pkg/migrate"
	"github.com/rferreira-dev/survshop-backend/pkg/notify"
	"github.com/rferreira-dev/survshop-backend/pkg/paypal"
	"github.com/rferreira-dev/survshop-backend/pkg/remotefs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(context.Background(), logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	store, err := newStore(cfg.Delivery)
	requireResource(context.Background(), logg, "delivery store", err)

	purchaseMetrics := metrics.NewPurchaseMetrics(prometheus.DefaultRegisterer)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), logg)
	requireResource(context.Background(), logg, "catalog service", err)

	couponService, err := coupons.NewService(coupons.NewRepository(dbClient.DB()), logg)
	requireResource(context.Background(), logg, "coupon service", err)

	identityService, err := identity.NewService(identity.NewRepository(dbClient.DB()), logg)
	requireResource(context.Background(), logg, "identity service", err)

	deliveryEngine, err := delivery.NewEngine(store, cfg.Delivery, logg)
	requireResource(context.Background(), logg, "delivery engine", err)

	purchaseRepo := records.NewRepository(dbClient.DB())
	redemptionRepo := records.NewRedemptionRepository(dbClient.DB())

	recordService, err := records.NewService(purchaseRepo, redemptionRepo)
	requireResource(context.Background(), logg, "record service", err)

	entitlementService, err := entitlements.NewService(
		entitlements.NewRepository(dbClient.DB()),
		purchaseRepo,
		redemptionRepo,
		deliveryEngine,
		logg,
		purchaseMetrics,
	)
	requireResource(context.Background(), logg, "entitlement service", err)

	gateway, err := paypal.NewClient(context.Background(), cfg.PayPal, logg)
	requireResource(context.Background(), logg, "paypal client", err)

	paymentService, err := payments.NewService(payments.Deps{
		Pending:   payments.NewRepository(dbClient.DB()),
		Purchases: purchaseRepo,
		Resolver:  catalogService,
		Coupons:   couponService,
		Deliverer: deliveryEngine,
		Accruer:   entitlementService,
		Gateway:   gateway,
		Identity:  identityService,
		Notifier:  notify.NewWebhook(cfg.Notify, logg),
		Logger:    logg,
		Metrics:   purchaseMetrics,
	})
	requireResource(context.Background(), logg, "payment service", err)

	if migrated, err := catalogService.MigrateLegacyScripts(context.Background()); err != nil {
		logg.Error(context.Background(), "legacy script migration failed", err)
	} else if migrated > 0 {
		logg.Info(logg.WithField(context.Background(), "migrated", migrated), "migrated legacy scripts")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := net.JoinHostPort("", port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			catalogService,
			couponService,
			paymentService,
			recordService,
			entitlementService,
			identityService,
			deliveryEngine,
			promhttp.Handler(),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func newStore(cfg config.DeliveryConfig) (remotefs.Store, error) {
	switch strings.ToLower(cfg.Mode) {
	case config.DeliveryModeFTP:
		return remotefs.NewFTP(remotefs.FTPConfig{
			Addr:     fmt.Sprintf("%s:%d", cfg.FTPHost, cfg.FTPPort),
			User:     cfg.FTPUser,
			Password: cfg.FTPPassword,
			Timeout:  cfg.FTPTimeout,
		})
	default:
		return remotefs.NewLocal(cfg.LocalRoot)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to bootstrap "+resource, err)
	os.Exit(1)
}
