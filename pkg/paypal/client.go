// Package paypal wraps the PayPal Orders API with centralized auth, logging,
// and error mapping. All confirmation is pull-based: the shop never registers
// webhooks, it polls order status on demand.
package paypal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sdk "github.com/plutov/paypal/v4"

	"github.com/rferreira-dev/survshop-backend/pkg/config"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

const (
	sandboxEnv = "sandbox"
	liveEnv    = "live"

	maxDescriptionLen = 127
)

var (
	errClientIDRequired = errors.New("paypal client id is required")
	errSecretRequired   = errors.New("paypal client secret is required")
	errInvalidEnv       = fmt.Errorf("paypal environment must be %q or %q", sandboxEnv, liveEnv)
	errLoggerRequired   = errors.New("paypal logger is required")
)

var baseURLs = map[string]string{
	sandboxEnv: sdk.APIBaseSandBox,
	liveEnv:    sdk.APIBaseLive,
}

// Status is the gateway status as the orchestrator consumes it.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusPending   Status = "pending"
	StatusInProcess Status = "in_process"
	StatusOther     Status = "other"
)

// ordersAPI is the slice of the SDK the client uses; narrowed for tests.
type ordersAPI interface {
	CreateOrder(ctx context.Context, intent string, purchaseUnits []sdk.PurchaseUnitRequest, paymentSource *sdk.PaymentSource, appContext *sdk.ApplicationContext) (*sdk.Order, error)
	GetOrder(ctx context.Context, orderID string) (*sdk.Order, error)
}

// Client exposes the two gateway primitives the purchase pipeline needs.
type Client struct {
	api         ordersAPI
	environment string
	currency    string
	logger      *logger.Logger
}

// CreateParams describe a gateway order to open.
type CreateParams struct {
	Value       string
	Description string
}

// CreatedOrder is the gateway-issued handle for a pending payment.
type CreatedOrder struct {
	PaymentID   string
	ApprovalURL string
}

// NewClient initializes the PayPal wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.PayPalConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		return nil, errClientIDRequired
	}
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errSecretRequired
	}

	api, err := sdk.NewClient(clientID, secret, baseURLs[env])
	if err != nil {
		return nil, fmt.Errorf("paypal client: %w", err)
	}
	if _, err := api.GetAccessToken(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "paypal authentication failed")
	}

	c := &Client{
		api:         api,
		environment: env,
		currency:    strings.ToUpper(strings.TrimSpace(cfg.Currency)),
		logger:      logg,
	}

	logg.Info(ctx, "paypal client initialized")
	return c, nil
}

// Environment reports the normalized PayPal environment.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// Currency reports the configured checkout currency.
func (c *Client) Currency() string {
	if c == nil {
		return ""
	}
	return c.currency
}

// CreateOrder opens a gateway payment and returns the payment id plus the
// approval link the buyer must visit.
func (c *Client) CreateOrder(ctx context.Context, params CreateParams) (*CreatedOrder, error) {
	desc := params.Description
	if len(desc) > maxDescriptionLen {
		desc = desc[:maxDescriptionLen]
	}

	c.log(ctx, "request", "create_order", map[string]any{
		"amount":   params.Value,
		"currency": c.currency,
	})

	units := []sdk.PurchaseUnitRequest{{
		Amount: &sdk.PurchaseUnitAmount{
			Currency: c.currency,
			Value:    params.Value,
		},
		Description: desc,
	}}

	order, err := c.api.CreateOrder(ctx, sdk.OrderIntentCapture, units, nil, nil)
	if err != nil {
		c.log(ctx, "error", "create_order", map[string]any{"error": err.Error()})
		return nil, c.mapError(err, "create order")
	}

	created := &CreatedOrder{PaymentID: order.ID}
	for _, link := range order.Links {
		if link.Rel == "approve" || link.Rel == "approval_url" {
			created.ApprovalURL = link.Href
			break
		}
	}

	c.log(ctx, "response", "create_order", map[string]any{
		"payment_id": created.PaymentID,
		"status":     order.Status,
	})
	return created, nil
}

// GetStatus polls the gateway for the order's current state.
func (c *Client) GetStatus(ctx context.Context, paymentID string) (Status, error) {
	if strings.TrimSpace(paymentID) == "" {
		return StatusOther, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}

	c.log(ctx, "request", "get_order", map[string]any{"payment_id": paymentID})

	order, err := c.api.GetOrder(ctx, paymentID)
	if err != nil {
		c.log(ctx, "error", "get_order", map[string]any{"error": err.Error(), "payment_id": paymentID})
		return StatusOther, c.mapError(err, "get order")
	}

	status := mapOrderStatus(order.Status)
	c.log(ctx, "response", "get_order", map[string]any{
		"payment_id": paymentID,
		"status":     string(status),
	})
	return status, nil
}

func mapOrderStatus(raw string) Status {
	switch strings.ToUpper(raw) {
	case "APPROVED", "COMPLETED":
		return StatusApproved
	case "CREATED", "SAVED":
		return StatusPending
	case "PAYER_ACTION_REQUIRED":
		return StatusInProcess
	default:
		return StatusOther
	}
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("paypal %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("paypal %s", phase))
	}
}

func (c *Client) mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	var apiErr *sdk.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		switch apiErr.Response.StatusCode {
		case http.StatusNotFound:
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("paypal %s: order not found", op))
		case http.StatusUnprocessableEntity, http.StatusBadRequest:
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("paypal %s rejected", op))
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("paypal %s failed", op))
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = sandboxEnv
	}
	switch env {
	case sandboxEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidEnv
	}
}
