package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variation is a selectable sub-SKU of a catalog item. Vehicle flag and
// insurance drops override the item-level values when set.
type Variation struct {
	Name           string  `json:"name"`
	Script         Script  `json:"script"`
	ImageURL       string  `json:"image_url,omitempty"`
	IsVehicle      *bool   `json:"is_vehicle,omitempty"`
	InsuranceDrops *int    `json:"insurance_drops,omitempty"`
}

// CatalogItem is a sellable entry. Items created before variations existed
// carry their script in LegacyScript until the startup migration rewrites
// them into a single "Default" variation.
type CatalogItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name           string          `gorm:"column:name;not null"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	ImageURL       *string         `gorm:"column:image_url"`
	IsVehicle      bool            `gorm:"column:is_vehicle;not null;default:false"`
	InsuranceDrops int             `gorm:"column:insurance_drops;not null;default:0"`
	LegacyScript   *string         `gorm:"column:legacy_script"`
	Variations     []Variation     `gorm:"column:variations;serializer:json"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// VariationAt returns the variation at index, falling back to variation 0
// when the index is out of bounds. The second return is false only when the
// item has no variations at all.
func (c CatalogItem) VariationAt(index int) (Variation, bool) {
	if len(c.Variations) == 0 {
		return Variation{}, false
	}
	if index < 0 || index >= len(c.Variations) {
		index = 0
	}
	return c.Variations[index], true
}

// EffectiveVehicle resolves the vehicle flag for a variation, honoring the
// per-variation override.
func (c CatalogItem) EffectiveVehicle(v Variation) bool {
	if v.IsVehicle != nil {
		return *v.IsVehicle
	}
	return c.IsVehicle
}

// EffectiveDrops resolves the insurance drop count for a variation.
func (c CatalogItem) EffectiveDrops(v Variation) int {
	if v.InsuranceDrops != nil {
		return *v.InsuranceDrops
	}
	return c.InsuranceDrops
}
