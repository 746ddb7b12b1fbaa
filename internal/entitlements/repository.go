package entitlements

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
)

// BalanceRepository defines persistence for per-steam-id drop balances.
type BalanceRepository interface {
	Get(context.Context, string) (*models.EntitlementBalance, error)
	Save(context.Context, *models.EntitlementBalance) error
}

// Repository implements balance persistence over GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Get returns the balance row, or a zero balance when none exists yet.
func (r *Repository) Get(ctx context.Context, steamID string) (*models.EntitlementBalance, error) {
	var balance models.EntitlementBalance
	err := r.db.WithContext(ctx).First(&balance, "steam_id = ?", steamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.EntitlementBalance{SteamID: steamID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// Save upserts the balance row.
func (r *Repository) Save(ctx context.Context, balance *models.EntitlementBalance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "steam_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"drops", "updated_at"}),
		}).
		Create(balance).Error
}
