package entity

import "time"

// Session is the single active login of a device. A new login on the same
// device replaces it.
type Session struct {
	OwnerKey  string    `json:"-" gorm:"primaryKey"`
	Token     string    `json:"token" gorm:"uniqueIndex;not null"`
	UserID    string    `json:"-" gorm:"index;size:36;not null"`
	User      User      `json:"user" gorm:"constraint:OnDelete:CASCADE;"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
