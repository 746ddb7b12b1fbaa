package records

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
)

// PurchaseRepository defines persistence for the purchase audit log.
type PurchaseRepository interface {
	Create(context.Context, *models.PurchaseRecord) (*models.PurchaseRecord, error)
	FindByID(context.Context, uuid.UUID) (*models.PurchaseRecord, error)
	ListByBuyer(context.Context, string) ([]models.PurchaseRecord, error)
	ListBySteamID(context.Context, string) ([]models.PurchaseRecord, error)
	UpdateRemainingDrops(ctx context.Context, id uuid.UUID, drops int) error
}

// Repository implements purchase record persistence over GORM.
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

func (r *Repository) Create(ctx context.Context, record *models.PurchaseRecord) (*models.PurchaseRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRecord, error) {
	var record models.PurchaseRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) ListByBuyer(ctx context.Context, buyerID string) ([]models.PurchaseRecord, error) {
	var out []models.PurchaseRecord
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at desc").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) ListBySteamID(ctx context.Context, steamID string) ([]models.PurchaseRecord, error) {
	var out []models.PurchaseRecord
	if err := r.db.WithContext(ctx).
		Where("steam_id = ?", steamID).
		Order("created_at desc").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListRedeemable returns the buyer's vehicle purchases that still carry
// insurance drops, oldest first so the earliest purchase is drawn down
// before later ones.
func (r *Repository) ListRedeemable(ctx context.Context, buyerID, steamID string) ([]models.PurchaseRecord, error) {
	var out []models.PurchaseRecord
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND steam_id = ? AND is_vehicle = ? AND remaining_drops > 0", buyerID, steamID, true).
		Order("created_at asc").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRemainingDrops sets the per-purchase insurance counter. The record
// is otherwise immutable.
func (r *Repository) UpdateRemainingDrops(ctx context.Context, id uuid.UUID, drops int) error {
	if drops < 0 {
		drops = 0
	}
	return r.db.WithContext(ctx).
		Model(&models.PurchaseRecord{}).
		Where("id = ?", id).
		Update("remaining_drops", drops).Error
}

// RedemptionRepository appends and lists redemption audit events.
type RedemptionRepository struct {
	db *gorm.DB
}

// NewRedemptionRepository builds the redemption event repository.
func NewRedemptionRepository(db *gorm.DB) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

func (r *RedemptionRepository) Append(ctx context.Context, event *models.RedemptionEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *RedemptionRepository) ListBySteamID(ctx context.Context, steamID string) ([]models.RedemptionEvent, error) {
	var out []models.RedemptionEvent
	if err := r.db.WithContext(ctx).
		Where("steam_id = ?", steamID).
		Order("created_at desc").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
