package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeDelivery OrderType = "DELIVERY"
	OrderTypePickup   OrderType = "PICKUP"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeDelivery || t == OrderTypePickup
}

// Order is an immutable snapshot of a checked-out cart.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;size:36"`
	OwnerKey        string          `json:"-" gorm:"index;not null"`
	UserID          *string         `json:"userId,omitempty" gorm:"index;size:36"`
	Lines           []OrderLine     `json:"lines" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Total           decimal.Decimal `json:"total" gorm:"type:numeric"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	OrderType       OrderType       `json:"orderType"`
	DeliveryAddress *string         `json:"deliveryAddress,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"index"`
}

type OrderLine struct {
	ID         uint            `json:"-" gorm:"primaryKey"`
	OrderID    string          `json:"-" gorm:"index;size:36"`
	Position   int             `json:"-"`
	MenuItemID string          `json:"itemId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice" gorm:"type:numeric"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal" gorm:"type:numeric"`
}

func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}
