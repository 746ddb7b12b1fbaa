// Package notify posts fire-and-forget delivery events to a chat webhook.
// Failures are logged and never roll back a delivery.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rferreira-dev/survshop-backend/pkg/config"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

// Event describes a completed fulfillment.
type Event struct {
	ItemName  string `json:"item_name"`
	SteamID   string `json:"steam_id"`
	PaymentID string `json:"payment_id,omitempty"`
	Amount    string `json:"amount"`
}

// Notifier is the sink the orchestrator emits delivered events to.
type Notifier interface {
	Delivered(ctx context.Context, event Event)
}

// Webhook posts events as chat-webhook payloads.
type Webhook struct {
	url    string
	client *http.Client
	logger *logger.Logger
}

// NewWebhook builds the webhook notifier. An empty URL yields a disabled
// notifier that drops every event.
func NewWebhook(cfg config.NotifyConfig, logg *logger.Logger) *Webhook {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Webhook{
		url:    strings.TrimSpace(cfg.WebhookURL),
		client: &http.Client{Timeout: timeout},
		logger: logg,
	}
}

// Delivered posts the event. Errors are logged only.
func (w *Webhook) Delivered(ctx context.Context, event Event) {
	if w == nil || w.url == "" {
		return
	}

	content := fmt.Sprintf("Item **%s** delivered to SteamID `%s`", event.ItemName, event.SteamID)
	if event.PaymentID != "" {
		content += fmt.Sprintf(" (payment %s)", event.PaymentID)
	}

	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		w.logError(ctx, "encode webhook payload", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		w.logError(ctx, "build webhook request", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.logError(ctx, "post webhook", err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		w.logError(ctx, "post webhook", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

func (w *Webhook) logError(ctx context.Context, op string, err error) {
	if w.logger == nil {
		return
	}
	w.logger.Error(ctx, "notify: "+op, err)
}
