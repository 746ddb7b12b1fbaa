package models

import "time"

// ValidSteamID reports whether the value is a 17-digit steam id.
func ValidSteamID(id string) bool {
	if len(id) != 17 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SteamLink pins a buyer identity to a steam id for later redemptions.
type SteamLink struct {
	BuyerID   string    `gorm:"column:buyer_id;primaryKey"`
	SteamID   string    `gorm:"column:steam_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
