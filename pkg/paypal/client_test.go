package paypal

import (
	"context"
	"errors"
	"io"
	"testing"

	sdk "github.com/plutov/paypal/v4"

	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

// The SDK client must keep satisfying the narrowed interface.
var _ ordersAPI = (*sdk.Client)(nil)

type fakeOrdersAPI struct {
	createFn func(ctx context.Context, intent string, units []sdk.PurchaseUnitRequest) (*sdk.Order, error)
	getFn    func(ctx context.Context, orderID string) (*sdk.Order, error)
}

func (f *fakeOrdersAPI) CreateOrder(ctx context.Context, intent string, units []sdk.PurchaseUnitRequest, paymentSource *sdk.PaymentSource, appCtx *sdk.ApplicationContext) (*sdk.Order, error) {
	if f.createFn != nil {
		return f.createFn(ctx, intent, units)
	}
	return &sdk.Order{ID: "PAY-1", Status: "CREATED"}, nil
}

func (f *fakeOrdersAPI) GetOrder(ctx context.Context, orderID string) (*sdk.Order, error) {
	if f.getFn != nil {
		return f.getFn(ctx, orderID)
	}
	return &sdk.Order{ID: orderID, Status: "CREATED"}, nil
}

func testClient(api ordersAPI) *Client {
	return &Client{
		api:         api,
		environment: sandboxEnv,
		currency:    "EUR",
		logger:      logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	}
}

func TestCreateOrderReturnsApprovalLink(t *testing.T) {
	api := &fakeOrdersAPI{
		createFn: func(ctx context.Context, intent string, units []sdk.PurchaseUnitRequest) (*sdk.Order, error) {
			if intent != sdk.OrderIntentCapture {
				t.Fatalf("unexpected intent %q", intent)
			}
			if len(units) != 1 || units[0].Amount.Value != "10.00" || units[0].Amount.Currency != "EUR" {
				t.Fatalf("unexpected purchase units %+v", units)
			}
			return &sdk.Order{
				ID:     "PAY-42",
				Status: "CREATED",
				Links: []sdk.Link{
					{Rel: "self", Href: "https://api/self"},
					{Rel: "approve", Href: "https://paypal/approve/42"},
				},
			}, nil
		},
	}

	created, err := testClient(api).CreateOrder(context.Background(), CreateParams{Value: "10.00", Description: "Backpack"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.PaymentID != "PAY-42" {
		t.Fatalf("unexpected payment id %q", created.PaymentID)
	}
	if created.ApprovalURL != "https://paypal/approve/42" {
		t.Fatalf("unexpected approval url %q", created.ApprovalURL)
	}
}

func TestGetStatusMapping(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"APPROVED", StatusApproved},
		{"COMPLETED", StatusApproved},
		{"CREATED", StatusPending},
		{"SAVED", StatusPending},
		{"PAYER_ACTION_REQUIRED", StatusInProcess},
		{"VOIDED", StatusOther},
	}

	for _, tc := range tests {
		api := &fakeOrdersAPI{
			getFn: func(ctx context.Context, orderID string) (*sdk.Order, error) {
				return &sdk.Order{ID: orderID, Status: tc.raw}, nil
			},
		}
		got, err := testClient(api).GetStatus(context.Background(), "PAY-1")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.raw, tc.want, got)
		}
	}
}

func TestGetStatusMapsFailuresToDependency(t *testing.T) {
	api := &fakeOrdersAPI{
		getFn: func(ctx context.Context, orderID string) (*sdk.Order, error) {
			return nil, errors.New("connection reset")
		},
	}

	_, err := testClient(api).GetStatus(context.Background(), "PAY-1")
	if !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestGetStatusRequiresPaymentID(t *testing.T) {
	_, err := testClient(&fakeOrdersAPI{}).GetStatus(context.Background(), " ")
	if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
