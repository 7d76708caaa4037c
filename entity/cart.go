package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart belongs to exactly one device key. Lines keep insertion order via
// Position.
type Cart struct {
	ID        uint       `json:"-" gorm:"primaryKey"`
	OwnerKey  string     `json:"-" gorm:"uniqueIndex;not null"`
	Lines     []CartLine `json:"lines" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CartLine struct {
	ID         uint            `json:"-" gorm:"primaryKey"`
	CartID     uint            `json:"-" gorm:"index"`
	Position   int             `json:"-"`
	MenuItemID string          `json:"itemId" gorm:"not null"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice" gorm:"type:numeric"`
	Quantity   int             `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func NewCart(ownerKey string) *Cart {
	return &Cart{OwnerKey: ownerKey, Lines: []CartLine{}}
}

func (c *Cart) find(itemID string) int {
	for i := range c.Lines {
		if c.Lines[i].MenuItemID == itemID {
			return i
		}
	}
	return -1
}

// AddItem increments the line for item.ID or appends a new line with
// quantity 1.
func (c *Cart) AddItem(item MenuItem) {
	if i := c.find(item.ID); i >= 0 {
		c.Lines[i].Quantity++
		return
	}
	c.Lines = append(c.Lines, CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   1,
	})
}

func (c *Cart) RemoveItem(itemID string) {
	i := c.find(itemID)
	if i < 0 {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// UpdateQuantity sets an existing line to exactly quantity. A quantity of
// zero or less removes the line; unknown ids are ignored.
func (c *Cart) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(itemID)
		return
	}
	if i := c.find(itemID); i >= 0 {
		c.Lines[i].Quantity = quantity
	}
}

func (c *Cart) Clear() {
	c.Lines = []CartLine{}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Quantity returns the quantity held for itemID, 0 when absent.
func (c *Cart) Quantity(itemID string) int {
	if i := c.find(itemID); i >= 0 {
		return c.Lines[i].Quantity
	}
	return 0
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Snapshot copies the lines by value into order lines.
func (c *Cart) Snapshot() []OrderLine {
	out := make([]OrderLine, 0, len(c.Lines))
	for i, l := range c.Lines {
		out = append(out, OrderLine{
			Position:   i,
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			UnitPrice:  l.UnitPrice,
			Quantity:   l.Quantity,
			Subtotal:   l.Subtotal(),
		})
	}
	return out
}
