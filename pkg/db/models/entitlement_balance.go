package models

import "time"

// EntitlementBalance counts unconsumed insurance drops per steam id.
type EntitlementBalance struct {
	SteamID   string    `gorm:"column:steam_id;primaryKey"`
	Drops     int       `gorm:"column:drops;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
