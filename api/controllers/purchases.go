package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rferreira-dev/survshop-backend/api/responses"
	"github.com/rferreira-dev/survshop-backend/api/validators"
	paymentsvc "github.com/rferreira-dev/survshop-backend/internal/payments"
	recordsvc "github.com/rferreira-dev/survshop-backend/internal/records"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

type createPurchaseRequest struct {
	BuyerID        string    `json:"buyer_id" validate:"required"`
	ItemID         uuid.UUID `json:"item_id" validate:"required"`
	VariationIndex int       `json:"variation_index"`
	SteamID        string    `json:"steam_id,omitempty" validate:"omitempty,steamid"`
	Insurance      bool      `json:"insurance"`
	CouponCode     string    `json:"coupon_code,omitempty"`
}

// CreatePurchase opens a purchase, either delivering immediately when the
// final price is zero or returning a gateway approval link.
func CreatePurchase(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var payload createPurchaseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), paymentsvc.CreateInput{
			BuyerID:        payload.BuyerID,
			ItemID:         payload.ItemID,
			VariationIndex: payload.VariationIndex,
			SteamID:        payload.SteamID,
			Insurance:      payload.Insurance,
			CouponCode:     payload.CouponCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// PollPurchase checks the gateway state of a pending payment and settles it
// once the buyer has approved.
func PollPurchase(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		paymentID := chi.URLParam(r, "paymentID")
		if paymentID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "payment id required"))
			return
		}

		result, err := svc.Poll(r.Context(), paymentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// CancelPurchase abandons a pending payment without side effects.
func CancelPurchase(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		paymentID := chi.URLParam(r, "paymentID")
		if paymentID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "payment id required"))
			return
		}

		if err := svc.Cancel(r.Context(), paymentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}

// ListPendingPurchases returns a buyer's open payments.
func ListPendingPurchases(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		buyerID := chi.URLParam(r, "buyerID")
		if buyerID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required"))
			return
		}

		pending, err := svc.ListPending(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pending)
	}
}

// ListBuyerPurchases returns a buyer's completed purchases.
func ListBuyerPurchases(svc recordsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "record service unavailable"))
			return
		}

		buyerID := chi.URLParam(r, "buyerID")
		if buyerID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required"))
			return
		}

		purchases, err := svc.ListByBuyer(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, purchases)
	}
}

// ListPlayerPurchases returns all purchases delivered to a steam id.
func ListPlayerPurchases(svc recordsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "record service unavailable"))
			return
		}

		steamID, err := validators.ParseSteamIDParam(r, "steamID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		purchases, err := svc.ListBySteamID(r.Context(), steamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, purchases)
	}
}

// GetPurchase returns a single purchase record.
func GetPurchase(svc recordsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "record service unavailable"))
			return
		}

		recordID, err := validators.ParseUUIDParam(r, "recordID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), recordID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}
