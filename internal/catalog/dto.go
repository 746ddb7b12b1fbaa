package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
)

// ItemDTO is the catalog item payload returned to clients.
type ItemDTO struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Price          decimal.Decimal    `json:"price"`
	ImageURL       *string            `json:"image_url,omitempty"`
	IsVehicle      bool               `json:"is_vehicle"`
	InsuranceDrops int                `json:"insurance_drops"`
	Variations     []models.Variation `json:"variations"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NewItemDTO maps the model to its client payload.
func NewItemDTO(item *models.CatalogItem) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:             item.ID,
		Name:           item.Name,
		Price:          item.Price,
		ImageURL:       item.ImageURL,
		IsVehicle:      item.IsVehicle,
		InsuranceDrops: item.InsuranceDrops,
		Variations:     item.Variations,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

// NewItemDTOs maps a slice of models.
func NewItemDTOs(items []models.CatalogItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, *NewItemDTO(&items[i]))
	}
	return out
}
