package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseRecord is the immutable audit entry written once per successful
// delivery. RemainingDrops tracks the per-purchase insurance allowance and is
// the only field mutated after creation (decremented on redemption, floored
// at 0).
type PurchaseRecord struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	BuyerID        string          `gorm:"column:buyer_id;not null"`
	ItemID         uuid.UUID       `gorm:"column:item_id;type:uuid;not null"`
	ItemName       string          `gorm:"column:item_name;not null"`
	VariationIndex int             `gorm:"column:variation_index;not null;default:0"`
	VariationName  string          `gorm:"column:variation_name"`
	SteamID        string          `gorm:"column:steam_id;not null"`
	AmountPaid     decimal.Decimal `gorm:"column:amount_paid;type:numeric(10,2);not null"`
	CouponCode     *string         `gorm:"column:coupon_code"`
	PaymentID      *string         `gorm:"column:payment_id"`
	Delivered      Script          `gorm:"column:delivered;serializer:json"`
	IsVehicle      bool            `gorm:"column:is_vehicle;not null;default:false"`
	RemainingDrops int             `gorm:"column:remaining_drops;not null;default:0"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
