package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rferreira-dev/survshop-backend/pkg/config"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

func TestDeliveredPostsChatPayload(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook := NewWebhook(config.NotifyConfig{WebhookURL: srv.URL}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	hook.Delivered(context.Background(), Event{ItemName: "Backpack", SteamID: "76561198000000001", PaymentID: "PAY-1", Amount: "10.00"})

	if got == nil {
		t.Fatal("expected a webhook call")
	}
	if !strings.Contains(got["content"], "Backpack") || !strings.Contains(got["content"], "76561198000000001") {
		t.Fatalf("unexpected content %q", got["content"])
	}
}

func TestDeliveredWithoutURLIsNoop(t *testing.T) {
	hook := NewWebhook(config.NotifyConfig{}, nil)
	// must not panic or block
	hook.Delivered(context.Background(), Event{ItemName: "Backpack"})
}
