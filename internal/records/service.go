package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
)

// Service exposes read access to the purchase audit log for support flows.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.PurchaseRecord, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]models.PurchaseRecord, error)
	ListBySteamID(ctx context.Context, steamID string) ([]models.PurchaseRecord, error)
	ListRedemptions(ctx context.Context, steamID string) ([]models.RedemptionEvent, error)
}

type service struct {
	purchases   *Repository
	redemptions *RedemptionRepository
}

// NewService constructs the audit log read service.
func NewService(purchases *Repository, redemptions *RedemptionRepository) (Service, error) {
	if purchases == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if redemptions == nil {
		return nil, fmt.Errorf("redemption repository required")
	}
	return &service{purchases: purchases, redemptions: redemptions}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.PurchaseRecord, error) {
	record, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load purchase record")
	}
	return record, nil
}

func (s *service) ListByBuyer(ctx context.Context, buyerID string) ([]models.PurchaseRecord, error) {
	out, err := s.purchases.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list purchases by buyer")
	}
	return out, nil
}

func (s *service) ListBySteamID(ctx context.Context, steamID string) ([]models.PurchaseRecord, error) {
	out, err := s.purchases.ListBySteamID(ctx, steamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list purchases by steam id")
	}
	return out, nil
}

func (s *service) ListRedemptions(ctx context.Context, steamID string) ([]models.RedemptionEvent, error) {
	out, err := s.redemptions.ListBySteamID(ctx, steamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list redemption events")
	}
	return out, nil
}
