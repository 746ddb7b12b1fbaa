package models

import (
	"time"

	"github.com/google/uuid"
)

// RedemptionEvent is the append-only trail of insurance redemptions.
type RedemptionEvent struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	BuyerID    string    `gorm:"column:buyer_id;not null"`
	SteamID    string    `gorm:"column:steam_id;not null"`
	PurchaseID uuid.UUID `gorm:"column:purchase_id;type:uuid;not null"`
	ItemName   string    `gorm:"column:item_name"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
