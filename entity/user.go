package entity

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"` // stored lower-cased
	PasswordHash   string    `json:"-" gorm:"not null"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Rut            string    `json:"rut,omitempty"`
	DefaultAddress string    `json:"defaultAddress,omitempty"`
	Role           Role      `json:"role" gorm:"not null;default:'CUSTOMER'"`
	CreatedAt      time.Time `json:"createdAt"`
}
