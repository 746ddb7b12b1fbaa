package migrate

import (
	"context"
	"fmt"

	"github.com/rferreira-dev/survshop-backend/pkg/config"
	"github.com/rferreira-dev/survshop-backend/pkg/db"
	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

// MaybeRunDev applies the schema automatically when running in dev mode with
// the auto-migrate flag enabled. The sqlite flag switches to GORM's
// auto-migration since the goose files target Postgres.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.FeatureFlags.UseSQLite {
		logg.Info(ctx, "running GORM auto-migration (sqlite dev)")
		return AutoMigrate(client)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// AutoMigrate applies the model schema through GORM.
func AutoMigrate(client *db.Client) error {
	return client.DB().AutoMigrate(
		&models.CatalogItem{},
		&models.Coupon{},
		&models.PendingPayment{},
		&models.PurchaseRecord{},
		&models.EntitlementBalance{},
		&models.SteamLink{},
		&models.RedemptionEvent{},
	)
}
