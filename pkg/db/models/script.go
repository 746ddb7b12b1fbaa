package models

// ScriptShape identifies one actionable component of a delivery script.
type ScriptShape string

const (
	ShapeSingleItem ScriptShape = "single_item"
	ShapeItemList   ScriptShape = "item_list"
	ShapeCurrency   ScriptShape = "currency"
	ShapeVehicle    ScriptShape = "vehicle"
)

// NoItemSentinel is the reset value for the single-item field of a player file.
const NoItemSentinel = "none"

// VehicleDescriptor holds the spawn parameters written for vehicle purchases.
// SteamID is filled in at delivery time with the receiving player's id; the
// catalog stores the descriptor without it.
type VehicleDescriptor struct {
	SteamID                string `json:"steamID,omitempty"`
	ClassName              string `json:"className"`
	SpawnCount             int    `json:"spawnCount"`
	CooldownSeconds        int    `json:"cooldownSeconds"`
	GuaranteePeriodSeconds int    `json:"guaranteePeriodSeconds"`
	IsUnique               bool   `json:"isUnique"`
}

// Script is the delivery payload attached to a catalog variation. More than
// one component may be present at once (currency plus items is valid); an
// empty script delivers nothing and still counts as success.
type Script struct {
	ItemToGive     string             `json:"itemToGive,omitempty"`
	ItemsToGive    []string           `json:"itemsToGive,omitempty"`
	Banking        bool               `json:"banking,omitempty"`
	CurrencyAmount int64              `json:"currencyAmount,omitempty"`
	Vehicle        *VehicleDescriptor `json:"vehicle,omitempty"`
}

// Shapes returns the actionable components present on the script, in
// delivery order.
func (s Script) Shapes() []ScriptShape {
	var shapes []ScriptShape
	if s.ItemToGive != "" && s.ItemToGive != NoItemSentinel {
		shapes = append(shapes, ShapeSingleItem)
	}
	if len(s.ItemsToGive) > 0 {
		shapes = append(shapes, ShapeItemList)
	}
	if s.Banking {
		shapes = append(shapes, ShapeCurrency)
	}
	if s.Vehicle != nil && s.Vehicle.ClassName != "" {
		shapes = append(shapes, ShapeVehicle)
	}
	return shapes
}

// IsEmpty reports whether the script has no actionable component.
func (s Script) IsEmpty() bool {
	return len(s.Shapes()) == 0
}

// Tokens collects every item token the script grants, single-item field first.
func (s Script) Tokens() []string {
	var tokens []string
	if s.ItemToGive != "" && s.ItemToGive != NoItemSentinel {
		tokens = append(tokens, s.ItemToGive)
	}
	tokens = append(tokens, s.ItemsToGive...)
	return tokens
}
