package entitlements

import (
	"context"
	"fmt"

	"github.com/rferreira-dev/survshop-backend/internal/records"
	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/keymutex"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
	"github.com/rferreira-dev/survshop-backend/pkg/metrics"
)

// Outcome classifies a redemption attempt.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeDenied    Outcome = "denied"
	OutcomeExhausted Outcome = "exhausted"
)

// RedeemResult reports what a redemption did.
type RedeemResult struct {
	Outcome        Outcome                `json:"outcome"`
	ItemName       string                 `json:"item_name,omitempty"`
	RemainingDrops int                    `json:"remaining_drops"`
	Redelivered    *models.Script         `json:"redelivered,omitempty"`
	Purchase       *models.PurchaseRecord `json:"-"`
}

type scriptDeliverer interface {
	Deliver(ctx context.Context, steamID string, script models.Script) error
}

// Service exposes the insurance entitlement ledger.
type Service interface {
	Balance(ctx context.Context, steamID string) (int, error)
	Accrue(ctx context.Context, steamID string, drops int) error
	Redeem(ctx context.Context, requesterID, steamID string) (*RedeemResult, error)
}

type service struct {
	balances    *Repository
	purchases   *records.Repository
	redemptions *records.RedemptionRepository
	deliverer   scriptDeliverer
	locks       *keymutex.KeyMutex
	logg        *logger.Logger
	metrics     *metrics.PurchaseMetrics
}

// NewService constructs the entitlement service.
func NewService(
	balances *Repository,
	purchases *records.Repository,
	redemptions *records.RedemptionRepository,
	deliverer scriptDeliverer,
	logg *logger.Logger,
	m *metrics.PurchaseMetrics,
) (Service, error) {
	if balances == nil {
		return nil, fmt.Errorf("balance repository required")
	}
	if purchases == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if redemptions == nil {
		return nil, fmt.Errorf("redemption repository required")
	}
	if deliverer == nil {
		return nil, fmt.Errorf("deliverer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		balances:    balances,
		purchases:   purchases,
		redemptions: redemptions,
		deliverer:   deliverer,
		locks:       keymutex.New(),
		logg:        logg,
		metrics:     m,
	}, nil
}

// Balance returns the unconsumed drop count for the steam id.
func (s *service) Balance(ctx context.Context, steamID string) (int, error) {
	if !models.ValidSteamID(steamID) {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "steam id must be 17 digits")
	}
	balance, err := s.balances.Get(ctx, steamID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load entitlement balance")
	}
	return balance.Drops, nil
}

// Accrue adds drops to the steam id's balance. Zero or negative grants are
// no-ops.
func (s *service) Accrue(ctx context.Context, steamID string, drops int) error {
	if !models.ValidSteamID(steamID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "steam id must be 17 digits")
	}
	if drops <= 0 {
		return nil
	}

	unlock := s.locks.Lock("entitle:" + steamID)
	defer unlock()

	balance, err := s.balances.Get(ctx, steamID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load entitlement balance")
	}
	balance.Drops += drops
	if err := s.balances.Save(ctx, balance); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save entitlement balance")
	}

	ctx = s.logg.WithSteamID(ctx, steamID)
	s.logg.Info(s.logg.WithField(ctx, "drops", balance.Drops), "entitlement drops accrued")
	return nil
}

// Redeem spends one insurance drop: it requires a vehicle purchase made by
// the requester for this steam id with per-purchase drops left, redelivers
// that purchase's script, and decrements both the purchase counter and the
// steam id balance, floored at zero. Denied and exhausted are reported as
// outcomes, not errors.
func (s *service) Redeem(ctx context.Context, requesterID, steamID string) (*RedeemResult, error) {
	if requesterID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requester id required")
	}
	if !models.ValidSteamID(steamID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "steam id must be 17 digits")
	}

	unlock := s.locks.Lock("entitle:" + steamID)
	defer unlock()

	ctx = s.logg.WithSteamID(ctx, steamID)

	balance, err := s.balances.Get(ctx, steamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load entitlement balance")
	}

	redeemable, err := s.purchases.ListRedeemable(ctx, requesterID, steamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list redeemable purchases")
	}

	if len(redeemable) == 0 {
		// distinguish a foreign/absent purchase from a spent allowance
		owned, err := s.purchases.ListBySteamID(ctx, steamID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list purchases by steam id")
		}
		for _, record := range owned {
			if record.BuyerID == requesterID && record.IsVehicle {
				s.metrics.IncRedemption(string(OutcomeExhausted))
				return &RedeemResult{Outcome: OutcomeExhausted, RemainingDrops: balance.Drops}, nil
			}
		}
		s.metrics.IncRedemption(string(OutcomeDenied))
		s.logg.Warn(ctx, "redemption denied: no matching vehicle purchase for requester")
		return &RedeemResult{Outcome: OutcomeDenied, RemainingDrops: balance.Drops}, nil
	}

	if balance.Drops <= 0 {
		s.metrics.IncRedemption(string(OutcomeExhausted))
		return &RedeemResult{Outcome: OutcomeExhausted, RemainingDrops: 0}, nil
	}

	purchase := redeemable[0]

	if err := s.deliverer.Deliver(ctx, steamID, purchase.Delivered); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeliver vehicle script")
	}

	if err := s.purchases.UpdateRemainingDrops(ctx, purchase.ID, purchase.RemainingDrops-1); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement purchase drops")
	}

	balance.Drops--
	if balance.Drops < 0 {
		balance.Drops = 0
	}
	if err := s.balances.Save(ctx, balance); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save entitlement balance")
	}

	if err := s.redemptions.Append(ctx, &models.RedemptionEvent{
		BuyerID:    requesterID,
		SteamID:    steamID,
		PurchaseID: purchase.ID,
		ItemName:   purchase.ItemName,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append redemption event")
	}

	s.metrics.IncRedemption(string(OutcomeSuccess))
	s.logg.Info(s.logg.WithField(ctx, "purchase_id", purchase.ID.String()), "insurance drop redeemed")

	script := purchase.Delivered
	return &RedeemResult{
		Outcome:        OutcomeSuccess,
		ItemName:       purchase.ItemName,
		RemainingDrops: balance.Drops,
		Redelivered:    &script,
		Purchase:       &purchase,
	}, nil
}
