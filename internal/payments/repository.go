package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
)

// PendingRepository defines persistence for payments awaiting confirmation.
type PendingRepository interface {
	Create(context.Context, *models.PendingPayment) (*models.PendingPayment, error)
	FindByID(context.Context, string) (*models.PendingPayment, error)
	Delete(context.Context, string) error
	ListByBuyer(context.Context, string) ([]models.PendingPayment, error)
}

// Repository implements pending payment persistence over GORM.
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

func (r *Repository) Create(ctx context.Context, pending *models.PendingPayment) (*models.PendingPayment, error) {
	if err := r.db.WithContext(ctx).Create(pending).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

func (r *Repository) FindByID(ctx context.Context, paymentID string) (*models.PendingPayment, error) {
	var pending models.PendingPayment
	if err := r.db.WithContext(ctx).First(&pending, "payment_id = ?", paymentID).Error; err != nil {
		return nil, err
	}
	return &pending, nil
}

func (r *Repository) Delete(ctx context.Context, paymentID string) error {
	return r.db.WithContext(ctx).Delete(&models.PendingPayment{}, "payment_id = ?", paymentID).Error
}

func (r *Repository) ListByBuyer(ctx context.Context, buyerID string) ([]models.PendingPayment, error) {
	var out []models.PendingPayment
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at desc").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
