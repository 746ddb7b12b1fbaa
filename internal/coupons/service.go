package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/keymutex"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

var (
	hundred = decimal.NewFromInt(100)
)

// Service exposes coupon management and pricing.
type Service interface {
	CreateCoupon(ctx context.Context, input CreateCouponInput) (*models.Coupon, error)
	UpdateCoupon(ctx context.Context, code string, input UpdateCouponInput) (*models.Coupon, error)
	DeleteCoupon(ctx context.Context, code string) error
	GetCoupon(ctx context.Context, code string) (*models.Coupon, error)
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	Price(ctx context.Context, base decimal.Decimal, code string) (decimal.Decimal, error)
	Consume(ctx context.Context, code string) error
}

// CreateCouponInput holds the validated payload to create a coupon.
type CreateCouponInput struct {
	Code            string
	DiscountPercent decimal.Decimal
	RemainingUses   int
}

// UpdateCouponInput holds optional mutation values for a coupon.
type UpdateCouponInput struct {
	DiscountPercent *decimal.Decimal
	RemainingUses   *int
}

type service struct {
	repo  *Repository
	locks *keymutex.KeyMutex
	logg  *logger.Logger
}

// NewService constructs a coupon service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, locks: keymutex.New(), logg: logg}, nil
}

// NormalizeCode canonicalizes a coupon code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// CreateCoupon registers a new discount code.
func (s *service) CreateCoupon(ctx context.Context, input CreateCouponInput) (*models.Coupon, error) {
	code := NormalizeCode(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}
	if err := validateDiscount(input.DiscountPercent); err != nil {
		return nil, err
	}
	if input.RemainingUses < models.UnlimitedUses {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "remaining uses must be -1 (unlimited) or >= 0")
	}

	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check coupon code")
	}

	coupon := &models.Coupon{
		Code:            code,
		DiscountPercent: input.DiscountPercent,
		RemainingUses:   input.RemainingUses,
	}
	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert coupon")
	}
	return created, nil
}

// UpdateCoupon applies the provided mutations.
func (s *service) UpdateCoupon(ctx context.Context, code string, input UpdateCouponInput) (*models.Coupon, error) {
	coupon, err := s.loadCoupon(ctx, code)
	if err != nil {
		return nil, err
	}

	if input.DiscountPercent != nil {
		if err := validateDiscount(*input.DiscountPercent); err != nil {
			return nil, err
		}
		coupon.DiscountPercent = *input.DiscountPercent
	}
	if input.RemainingUses != nil {
		if *input.RemainingUses < models.UnlimitedUses {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "remaining uses must be -1 (unlimited) or >= 0")
		}
		coupon.RemainingUses = *input.RemainingUses
	}

	updated, err := s.repo.Update(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update coupon")
	}
	return updated, nil
}

// DeleteCoupon removes the code.
func (s *service) DeleteCoupon(ctx context.Context, code string) error {
	if _, err := s.loadCoupon(ctx, code); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, NormalizeCode(code)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete coupon")
	}
	return nil
}

func (s *service) GetCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	return s.loadCoupon(ctx, code)
}

func (s *service) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list coupons")
	}
	return coupons, nil
}

// Price computes the discounted price without consuming a use. The result is
// floored at zero. Unknown codes return not-found; spent codes return
// exhausted.
func (s *service) Price(ctx context.Context, base decimal.Decimal, code string) (decimal.Decimal, error) {
	coupon, err := s.loadCoupon(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	if coupon.Exhausted() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeExhausted, "coupon has no remaining uses")
	}

	factor := hundred.Sub(coupon.DiscountPercent).Div(hundred)
	price := base.Mul(factor).Round(2)
	if price.IsNegative() {
		price = decimal.Zero
	}
	return price, nil
}

// Consume decrements a finite code's remaining uses. Unlimited and already
// spent codes are left untouched; consuming an unknown code is a no-op so a
// delivery commit never fails on a coupon deleted mid-flight.
func (s *service) Consume(ctx context.Context, code string) error {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil
	}

	unlock := s.locks.Lock("coupon:" + normalized)
	defer unlock()

	coupon, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(ctx, "consume skipped: coupon no longer exists")
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load coupon")
	}

	if coupon.Unlimited() || coupon.Exhausted() {
		return nil
	}

	coupon.RemainingUses--
	if _, err := s.repo.Update(ctx, coupon); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement coupon uses")
	}
	return nil
}

func (s *service) loadCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	coupon, err := s.repo.FindByCode(ctx, NormalizeCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load coupon")
	}
	return coupon, nil
}

func validateDiscount(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be within [0,100]")
	}
	return nil
}
