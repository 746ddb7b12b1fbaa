package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
)

type samplePayload struct {
	BuyerID string `json:"buyer_id" validate:"required"`
	SteamID string `json:"steam_id,omitempty" validate:"omitempty,steamid"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"buyer_id":"b1","steam_id":"76561197960287930"}`))

	var payload samplePayload
	require.NoError(t, DecodeJSONBody(r, &payload))
	require.Equal(t, "b1", payload.BuyerID)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"buyer_id":"b1","bogus":true}`))

	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	require.Error(t, err)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyValidatesSteamID(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"buyer_id":"b1","steam_id":"1234"}`))

	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	require.Error(t, err)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyReportsMissingRequired(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))

	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	require.NotNil(t, typed.Details())
}

func requestWithParam(key, value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	got, err := ParseUUIDParam(requestWithParam("itemID", id.String()), "itemID")
	require.NoError(t, err)
	require.Equal(t, id, got)

	_, err = ParseUUIDParam(requestWithParam("itemID", "nope"), "itemID")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestParseSteamIDParam(t *testing.T) {
	got, err := ParseSteamIDParam(requestWithParam("steamID", "76561197960287930"), "steamID")
	require.NoError(t, err)
	require.Equal(t, "76561197960287930", got)

	_, err = ParseSteamIDParam(requestWithParam("steamID", "banana"), "steamID")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
