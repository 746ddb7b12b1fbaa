package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rferreira-dev/survshop-backend/internal/catalog"
	"github.com/rferreira-dev/survshop-backend/internal/records"
	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/keymutex"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
	"github.com/rferreira-dev/survshop-backend/pkg/metrics"
	"github.com/rferreira-dev/survshop-backend/pkg/notify"
	"github.com/rferreira-dev/survshop-backend/pkg/paypal"
)

// State is the purchase state as reported to clients.
type State string

const (
	StateDelivered        State = "delivered"
	StateAwaitingApproval State = "awaiting_approval"
	StateInProcess        State = "in_process"
	StateFailed           State = "failed"
	StateCancelled        State = "cancelled"
)

// CreateInput opens a purchase.
type CreateInput struct {
	BuyerID        string
	ItemID         uuid.UUID
	VariationIndex int
	SteamID        string
	Insurance      bool
	CouponCode     string
}

// CreateResult reports either an immediate free delivery or the gateway
// handle the buyer must approve.
type CreateResult struct {
	State       State                  `json:"state"`
	PaymentID   string                 `json:"payment_id,omitempty"`
	ApprovalURL string                 `json:"approval_url,omitempty"`
	Amount      decimal.Decimal        `json:"amount"`
	Record      *models.PurchaseRecord `json:"record,omitempty"`
}

// PollResult reports the outcome of one status poll.
type PollResult struct {
	State  State                  `json:"state"`
	Record *models.PurchaseRecord `json:"record,omitempty"`
}

type scriptResolver interface {
	Resolve(ctx context.Context, itemID uuid.UUID, variationIndex int) (*catalog.Resolution, error)
}

type couponLedger interface {
	Price(ctx context.Context, base decimal.Decimal, code string) (decimal.Decimal, error)
	Consume(ctx context.Context, code string) error
}

type scriptDeliverer interface {
	Deliver(ctx context.Context, steamID string, script models.Script) error
}

type dropAccruer interface {
	Accrue(ctx context.Context, steamID string, drops int) error
}

type gateway interface {
	CreateOrder(ctx context.Context, params paypal.CreateParams) (*paypal.CreatedOrder, error)
	GetStatus(ctx context.Context, paymentID string) (paypal.Status, error)
	Currency() string
}

type steamResolver interface {
	SteamIDFor(ctx context.Context, buyerID string) (string, error)
}

// Service orchestrates the purchase state machine: resolve, price, open a
// gateway order, poll, deliver, commit.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CreateResult, error)
	Poll(ctx context.Context, paymentID string) (*PollResult, error)
	Cancel(ctx context.Context, paymentID string) error
	ListPending(ctx context.Context, buyerID string) ([]models.PendingPayment, error)
}

type service struct {
	pending   *Repository
	purchases *records.Repository
	resolver  scriptResolver
	coupons   couponLedger
	deliverer scriptDeliverer
	accruer   dropAccruer
	gateway   gateway
	identity  steamResolver
	notifier  notify.Notifier
	locks     *keymutex.KeyMutex
	logg      *logger.Logger
	metrics   *metrics.PurchaseMetrics
}

// Deps bundles the orchestrator's collaborators.
type Deps struct {
	Pending   *Repository
	Purchases *records.Repository
	Resolver  scriptResolver
	Coupons   couponLedger
	Deliverer scriptDeliverer
	Accruer   dropAccruer
	Gateway   gateway
	Identity  steamResolver
	Notifier  notify.Notifier
	Logger    *logger.Logger
	Metrics   *metrics.PurchaseMetrics
}

// NewService constructs the payment orchestrator.
func NewService(deps Deps) (Service, error) {
	if deps.Pending == nil {
		return nil, fmt.Errorf("pending repository required")
	}
	if deps.Purchases == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if deps.Resolver == nil {
		return nil, fmt.Errorf("script resolver required")
	}
	if deps.Coupons == nil {
		return nil, fmt.Errorf("coupon ledger required")
	}
	if deps.Deliverer == nil {
		return nil, fmt.Errorf("deliverer required")
	}
	if deps.Accruer == nil {
		return nil, fmt.Errorf("accruer required")
	}
	if deps.Gateway == nil {
		return nil, fmt.Errorf("gateway required")
	}
	if deps.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		pending:   deps.Pending,
		purchases: deps.Purchases,
		resolver:  deps.Resolver,
		coupons:   deps.Coupons,
		deliverer: deps.Deliverer,
		accruer:   deps.Accruer,
		gateway:   deps.Gateway,
		identity:  deps.Identity,
		notifier:  deps.Notifier,
		locks:     keymutex.New(),
		logg:      deps.Logger,
		metrics:   deps.Metrics,
	}, nil
}

// Create resolves and prices the purchase. A zero-price purchase is
// delivered immediately without touching the gateway; anything else opens a
// gateway order and persists a pending payment keyed by its id.
func (s *service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	if input.BuyerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}

	steamID := input.SteamID
	if steamID == "" && s.identity != nil {
		linked, err := s.identity.SteamIDFor(ctx, input.BuyerID)
		if err == nil {
			steamID = linked
		}
	}
	if !models.ValidSteamID(steamID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "steam id must be 17 digits")
	}

	resolution, err := s.resolver.Resolve(ctx, input.ItemID, input.VariationIndex)
	if err != nil {
		return nil, err
	}

	price := resolution.Item.Price
	if input.CouponCode != "" {
		price, err = s.coupons.Price(ctx, price, input.CouponCode)
		if err != nil {
			return nil, err
		}
	}

	ctx = s.logg.WithSteamID(s.logg.WithItemID(ctx, input.ItemID.String()), steamID)

	if price.IsZero() {
		s.metrics.IncOrderOpened("free")
		record, err := s.commit(ctx, commitInput{
			BuyerID:        input.BuyerID,
			SteamID:        steamID,
			Resolution:     resolution,
			VariationIndex: resolution.VariationIndex,
			Amount:         decimal.Zero,
			CouponCode:     input.CouponCode,
			Insurance:      input.Insurance,
		})
		if err != nil {
			return nil, err
		}
		return &CreateResult{State: StateDelivered, Amount: decimal.Zero, Record: record}, nil
	}

	started := time.Now()
	order, err := s.gateway.CreateOrder(ctx, paypal.CreateParams{
		Value:       price.StringFixed(2),
		Description: resolution.Item.Name,
	})
	s.metrics.ObserveGatewayCall("create_order", time.Since(started))
	if err != nil {
		return nil, err
	}

	pending := &models.PendingPayment{
		PaymentID:      order.PaymentID,
		BuyerID:        input.BuyerID,
		ItemID:         input.ItemID,
		VariationIndex: resolution.VariationIndex,
		SteamID:        steamID,
		Insurance:      input.Insurance,
		Amount:         price,
	}
	if input.CouponCode != "" {
		code := input.CouponCode
		pending.CouponCode = &code
	}
	if _, err := s.pending.Create(ctx, pending); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert pending payment")
	}

	s.metrics.IncOrderOpened("gateway")
	s.logg.Info(s.logg.WithPaymentID(ctx, order.PaymentID), "gateway order opened")

	return &CreateResult{
		State:       StateAwaitingApproval,
		PaymentID:   order.PaymentID,
		ApprovalURL: order.ApprovalURL,
		Amount:      price,
	}, nil
}

// Poll checks the gateway status for a pending payment. Polls for one
// payment id are serialized so an approved order is delivered at most once:
// the pending row is deleted before any commit side effect runs, and a
// concurrent poll that finds no row reports not-found.
func (s *service) Poll(ctx context.Context, paymentID string) (*PollResult, error) {
	if paymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}

	unlock := s.locks.Lock("payment:" + paymentID)
	defer unlock()

	ctx = s.logg.WithPaymentID(ctx, paymentID)

	pending, err := s.loadPending(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	status, err := s.gateway.GetStatus(ctx, paymentID)
	s.metrics.ObserveGatewayCall("get_status", time.Since(started))
	if err != nil {
		return nil, err
	}
	s.metrics.IncPoll(string(status))

	switch status {
	case paypal.StatusPending:
		return &PollResult{State: StateAwaitingApproval}, nil

	case paypal.StatusInProcess:
		return &PollResult{State: StateInProcess}, nil

	case paypal.StatusApproved:
		return s.settle(ctx, pending)

	default:
		// the pending row stays so a later poll can still collect;
		// only Cancel removes it
		s.logg.Warn(ctx, "gateway order in unpayable state")
		return &PollResult{State: StateFailed}, nil
	}
}

// Cancel drops a pending payment without any delivery or ledger side
// effects. The gateway order itself is left to expire.
func (s *service) Cancel(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}

	unlock := s.locks.Lock("payment:" + paymentID)
	defer unlock()

	if _, err := s.loadPending(ctx, paymentID); err != nil {
		return err
	}
	if err := s.pending.Delete(ctx, paymentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete pending payment")
	}
	s.logg.Info(s.logg.WithPaymentID(ctx, paymentID), "pending payment cancelled")
	return nil
}

// ListPending returns a buyer's open payments.
func (s *service) ListPending(ctx context.Context, buyerID string) ([]models.PendingPayment, error) {
	out, err := s.pending.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list pending payments")
	}
	return out, nil
}

// settle runs the approved path: deliver, then delete the pending row, then
// the remaining commits. Delivery failure keeps the row so the poll can be
// retried; commit failures after the delete are logged and surfaced but can
// no longer double-deliver.
func (s *service) settle(ctx context.Context, pending *models.PendingPayment) (*PollResult, error) {
	resolution, err := s.resolver.Resolve(ctx, pending.ItemID, pending.VariationIndex)
	if err != nil {
		return nil, err
	}

	if err := s.deliverer.Deliver(ctx, pending.SteamID, resolution.Script); err != nil {
		s.metrics.IncDelivery("failed")
		return nil, err
	}

	if err := s.pending.Delete(ctx, pending.PaymentID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete pending payment")
	}

	couponCode := ""
	if pending.CouponCode != nil {
		couponCode = *pending.CouponCode
	}
	paymentID := pending.PaymentID
	record, err := s.commitAfterDelivery(ctx, commitInput{
		BuyerID:        pending.BuyerID,
		SteamID:        pending.SteamID,
		Resolution:     resolution,
		VariationIndex: resolution.VariationIndex,
		Amount:         pending.Amount,
		CouponCode:     couponCode,
		Insurance:      pending.Insurance,
		PaymentID:      &paymentID,
	})
	if err != nil {
		return nil, err
	}

	return &PollResult{State: StateDelivered, Record: record}, nil
}

type commitInput struct {
	BuyerID        string
	SteamID        string
	Resolution     *catalog.Resolution
	VariationIndex int
	Amount         decimal.Decimal
	CouponCode     string
	Insurance      bool
	PaymentID      *string
}

// commit delivers and then records; used by the zero-price fast path.
func (s *service) commit(ctx context.Context, input commitInput) (*models.PurchaseRecord, error) {
	if err := s.deliverer.Deliver(ctx, input.SteamID, input.Resolution.Script); err != nil {
		s.metrics.IncDelivery("failed")
		return nil, err
	}
	return s.commitAfterDelivery(ctx, input)
}

// commitAfterDelivery applies the post-delivery side effects in a fixed
// order: coupon consume, entitlement accrual, audit record, notification.
func (s *service) commitAfterDelivery(ctx context.Context, input commitInput) (*models.PurchaseRecord, error) {
	s.metrics.IncDelivery("delivered")

	if input.CouponCode != "" {
		if err := s.coupons.Consume(ctx, input.CouponCode); err != nil {
			s.logg.Error(ctx, "coupon consume failed after delivery", err)
		}
	}

	drops := 0
	if input.Insurance && input.Resolution.IsVehicle {
		drops = input.Resolution.InsuranceDrops
	}
	if drops > 0 {
		if err := s.accruer.Accrue(ctx, input.SteamID, drops); err != nil {
			s.logg.Error(ctx, "entitlement accrual failed after delivery", err)
		}
	}

	record := &models.PurchaseRecord{
		BuyerID:        input.BuyerID,
		ItemID:         input.Resolution.Item.ID,
		ItemName:       input.Resolution.Item.Name,
		VariationIndex: input.VariationIndex,
		VariationName:  input.Resolution.VariationName,
		SteamID:        input.SteamID,
		AmountPaid:     input.Amount,
		PaymentID:      input.PaymentID,
		Delivered:      input.Resolution.Script,
		IsVehicle:      input.Resolution.IsVehicle,
		RemainingDrops: drops,
	}
	if input.CouponCode != "" {
		code := input.CouponCode
		record.CouponCode = &code
	}
	created, err := s.purchases.Create(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert purchase record")
	}

	event := notify.Event{
		ItemName: record.ItemName,
		SteamID:  record.SteamID,
		Amount:   record.AmountPaid.StringFixed(2) + " " + s.gateway.Currency(),
	}
	if input.PaymentID != nil {
		event.PaymentID = *input.PaymentID
	}
	s.notifier.Delivered(ctx, event)

	s.logg.Info(ctx, "purchase committed")
	return created, nil
}

func (s *service) loadPending(ctx context.Context, paymentID string) (*models.PendingPayment, error) {
	pending, err := s.pending.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pending payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load pending payment")
	}
	return pending, nil
}
