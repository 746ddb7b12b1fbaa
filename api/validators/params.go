package validators

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
)

func ParseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a uuid").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}

func ParseSteamIDParam(r *http.Request, key string) (string, error) {
	raw := chi.URLParam(r, key)
	if !models.ValidSteamID(raw) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a 17-digit steam id").WithDetails(map[string]any{"field": key})
	}
	return raw, nil
}
