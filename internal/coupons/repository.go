package coupons

import (
	"context"

	"gorm.io/gorm"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
)

// CouponRepository defines persistence operations for coupon codes.
type CouponRepository interface {
	Create(context.Context, *models.Coupon) (*models.Coupon, error)
	Update(context.Context, *models.Coupon) (*models.Coupon, error)
	Delete(context.Context, string) error
	FindByCode(context.Context, string) (*models.Coupon, error)
	List(context.Context) ([]models.Coupon, error)
}

// Repository implements coupon persistence over GORM.
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

func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

func (r *Repository) Update(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if err := r.db.WithContext(ctx).Save(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

func (r *Repository) Delete(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Delete(&models.Coupon{}, "code = ?", code).Error
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.WithContext(ctx).Order("code asc").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}
