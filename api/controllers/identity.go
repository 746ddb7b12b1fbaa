package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rferreira-dev/survshop-backend/api/responses"
	"github.com/rferreira-dev/survshop-backend/api/validators"
	identitysvc "github.com/rferreira-dev/survshop-backend/internal/identity"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

type linkSteamRequest struct {
	BuyerID string `json:"buyer_id" validate:"required"`
	SteamID string `json:"steam_id" validate:"required,steamid"`
}

// LinkSteamID stores a buyer's default steam id.
func LinkSteamID(svc identitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var payload linkSteamRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.Link(r.Context(), payload.BuyerID, payload.SteamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, link)
	}
}

// UnlinkSteamID removes a buyer's stored steam id.
func UnlinkSteamID(svc identitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		buyerID := chi.URLParam(r, "buyerID")
		if buyerID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required"))
			return
		}

		if err := svc.Unlink(r.Context(), buyerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "unlinked"})
	}
}

// GetSteamLink returns the steam id linked to a buyer.
func GetSteamLink(svc identitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		buyerID := chi.URLParam(r, "buyerID")
		if buyerID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required"))
			return
		}

		steamID, err := svc.SteamIDFor(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"buyer_id": buyerID,
			"steam_id": steamID,
		})
	}
}
