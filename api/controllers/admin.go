package controllers

import (
	"net/http"

	"github.com/rferreira-dev/survshop-backend/api/responses"
	"github.com/rferreira-dev/survshop-backend/api/validators"
	catalogsvc "github.com/rferreira-dev/survshop-backend/internal/catalog"
	"github.com/rferreira-dev/survshop-backend/internal/delivery"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

// ClearPlayerFile resets a player's pending delivery file to empty.
func ClearPlayerFile(engine *delivery.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery engine unavailable"))
			return
		}

		steamID, err := validators.ParseSteamIDParam(r, "steamID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := engine.ClearPlayerFile(r.Context(), steamID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared", "steam_id": steamID})
	}
}

// MigrateLegacyScripts rewrites items still carrying a legacy script into
// the variation format.
func MigrateLegacyScripts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		migrated, err := svc.MigrateLegacyScripts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"migrated": migrated})
	}
}
