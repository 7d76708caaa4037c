package entity

import "time"

type Favorite struct {
	OwnerKey   string    `gorm:"primaryKey"`
	MenuItemID string    `gorm:"primaryKey"`
	CreatedAt  time.Time
}
