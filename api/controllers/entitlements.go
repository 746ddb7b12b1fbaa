package controllers

import (
	"context"
	"net/http"

	"github.com/rferreira-dev/survshop-backend/api/responses"
	"github.com/rferreira-dev/survshop-backend/api/validators"
	entitlesvc "github.com/rferreira-dev/survshop-backend/internal/entitlements"
	recordsvc "github.com/rferreira-dev/survshop-backend/internal/records"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

type redeemRequest struct {
	RequesterID string `json:"requester_id" validate:"required"`
	SteamID     string `json:"steam_id,omitempty" validate:"omitempty,steamid"`
}

// GetEntitlementBalance returns the replacement allowance for a steam id.
func GetEntitlementBalance(svc entitlesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "entitlement service unavailable"))
			return
		}

		steamID, err := validators.ParseSteamIDParam(r, "steamID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balance, err := svc.Balance(r.Context(), steamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"steam_id": steamID,
			"balance":  balance,
		})
	}
}

type steamResolver interface {
	SteamIDFor(ctx context.Context, buyerID string) (string, error)
}

// RedeemEntitlement spends one replacement drop and redelivers the covered
// vehicle to the player. When no steam id is supplied the requester's linked
// id is used.
func RedeemEntitlement(svc entitlesvc.Service, identity steamResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "entitlement service unavailable"))
			return
		}

		var payload redeemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		steamID := payload.SteamID
		if steamID == "" {
			if identity == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "steam id required"))
				return
			}
			linked, err := identity.SteamIDFor(r.Context(), payload.RequesterID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			steamID = linked
		}

		result, err := svc.Redeem(r.Context(), payload.RequesterID, steamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ListRedemptions returns the redemption history for a steam id.
func ListRedemptions(svc recordsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		events, err := svc.ListRedemptions(r.Context(), steamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, events)
	}
}
