package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnlimitedUses marks a coupon that never exhausts.
const UnlimitedUses = -1

// Coupon is a percentage discount code. RemainingUses of UnlimitedUses means
// the code never runs out; 0 means the code is spent.
type Coupon struct {
	Code            string          `gorm:"column:code;primaryKey"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	RemainingUses   int             `gorm:"column:remaining_uses;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Unlimited reports whether the coupon uses the unlimited sentinel.
func (c Coupon) Unlimited() bool {
	return c.RemainingUses < 0
}

// Exhausted reports whether the coupon has no remaining uses.
func (c Coupon) Exhausted() bool {
	return c.RemainingUses == 0
}
