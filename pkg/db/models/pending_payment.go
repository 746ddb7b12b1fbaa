package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PendingPayment is the orchestrator's record of an order awaiting gateway
// confirmation, keyed by the gateway-issued payment id. It is deleted on
// successful delivery or explicit cancellation. A process restart orphans
// gateway orders created before it; those polls fail with not-found.
type PendingPayment struct {
	PaymentID      string          `gorm:"column:payment_id;primaryKey"`
	BuyerID        string          `gorm:"column:buyer_id;not null"`
	ItemID         uuid.UUID       `gorm:"column:item_id;type:uuid;not null"`
	VariationIndex int             `gorm:"column:variation_index;not null;default:0"`
	SteamID        string          `gorm:"column:steam_id;not null"`
	Insurance      bool            `gorm:"column:insurance;not null;default:false"`
	Amount         decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	CouponCode     *string         `gorm:"column:coupon_code"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
