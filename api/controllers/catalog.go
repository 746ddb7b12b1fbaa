package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rferreira-dev/survshop-backend/api/responses"
	"github.com/rferreira-dev/survshop-backend/api/validators"
	catalogsvc "github.com/rferreira-dev/survshop-backend/internal/catalog"
	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

type variationRequest struct {
	Name           string        `json:"name" validate:"required"`
	Script         models.Script `json:"script"`
	ImageURL       string        `json:"image_url,omitempty"`
	IsVehicle      *bool         `json:"is_vehicle,omitempty"`
	InsuranceDrops *int          `json:"insurance_drops,omitempty" validate:"omitempty,min=0"`
}

type createItemRequest struct {
	Name           string             `json:"name" validate:"required"`
	Price          decimal.Decimal    `json:"price"`
	ImageURL       *string            `json:"image_url,omitempty"`
	IsVehicle      bool               `json:"is_vehicle"`
	InsuranceDrops int                `json:"insurance_drops" validate:"min=0"`
	Variations     []variationRequest `json:"variations"`
}

type updateItemRequest struct {
	Name           *string             `json:"name,omitempty"`
	Price          *decimal.Decimal    `json:"price,omitempty"`
	ImageURL       *string             `json:"image_url,omitempty"`
	IsVehicle      *bool               `json:"is_vehicle,omitempty"`
	InsuranceDrops *int                `json:"insurance_drops,omitempty" validate:"omitempty,min=0"`
	Variations     *[]variationRequest `json:"variations,omitempty"`
}

type balancePackageRequest struct {
	Name           string          `json:"name" validate:"required"`
	Price          decimal.Decimal `json:"price"`
	CurrencyAmount int64           `json:"currency_amount" validate:"required,min=1"`
}

func toVariationInputs(reqs []variationRequest) []catalogsvc.VariationInput {
	inputs := make([]catalogsvc.VariationInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, catalogsvc.VariationInput{
			Name:           req.Name,
			Script:         req.Script,
			ImageURL:       req.ImageURL,
			IsVehicle:      req.IsVehicle,
			InsuranceDrops: req.InsuranceDrops,
		})
	}
	return inputs
}

// CreateCatalogItem handles admin item creation.
func CreateCatalogItem(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), catalogsvc.CreateItemInput{
			Name:           payload.Name,
			Price:          payload.Price,
			ImageURL:       payload.ImageURL,
			IsVehicle:      payload.IsVehicle,
			InsuranceDrops: payload.InsuranceDrops,
			Variations:     toVariationInputs(payload.Variations),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// CreateBalancePackage handles admin creation of a currency-only item.
func CreateBalancePackage(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload balancePackageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateBalancePackage(r.Context(), catalogsvc.BalancePackageInput{
			Name:           payload.Name,
			Price:          payload.Price,
			CurrencyAmount: payload.CurrencyAmount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// UpdateCatalogItem handles admin item mutation.
func UpdateCatalogItem(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		itemID, err := validators.ParseUUIDParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalogsvc.UpdateItemInput{
			Name:           payload.Name,
			Price:          payload.Price,
			ImageURL:       payload.ImageURL,
			IsVehicle:      payload.IsVehicle,
			InsuranceDrops: payload.InsuranceDrops,
		}
		if payload.Variations != nil {
			variations := toVariationInputs(*payload.Variations)
			input.Variations = &variations
		}

		item, err := svc.UpdateItem(r.Context(), itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// DeleteCatalogItem handles admin item removal.
func DeleteCatalogItem(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		itemID, err := validators.ParseUUIDParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GetCatalogItem returns a single item.
func GetCatalogItem(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		itemID, err := validators.ParseUUIDParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// ListCatalogItems returns the full catalog.
func ListCatalogItems(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		items, err := svc.ListItems(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}
