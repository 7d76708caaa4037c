package repository

import (
	"errors"
	"time"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

// Get returns the device's cart, or an empty unsaved cart when the device
// has none yet so callers can always render it.
func (r *CartRepository) Get(tx *gorm.DB, ownerKey string) (*entity.Cart, error) {
	var c entity.Cart
	err := tx.Where("owner_key = ?", ownerKey).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.NewCart(ownerKey), nil
	}
	if err != nil {
		return nil, err
	}
	if c.Lines == nil {
		c.Lines = []entity.CartLine{}
	}
	return &c, nil
}

// Save persists the cart row (creating it on first use) and rewrites its
// lines in their current order.
func (r *CartRepository) Save(tx *gorm.DB, c *entity.Cart) error {
	if c.ID == 0 {
		row := entity.Cart{OwnerKey: c.OwnerKey}
		if err := tx.Omit(clause.Associations).
			Where(entity.Cart{OwnerKey: c.OwnerKey}).
			FirstOrCreate(&row).Error; err != nil {
			return err
		}
		c.ID = row.ID
	}

	if err := tx.Where("cart_id = ?", c.ID).Delete(&entity.CartLine{}).Error; err != nil {
		return err
	}
	for i := range c.Lines {
		c.Lines[i].ID = 0
		c.Lines[i].CartID = c.ID
		c.Lines[i].Position = i
	}
	if len(c.Lines) > 0 {
		if err := tx.Create(&c.Lines).Error; err != nil {
			return err
		}
	}
	c.UpdatedAt = time.Now()
	return tx.Model(&entity.Cart{}).Where("id = ?", c.ID).Update("updated_at", c.UpdatedAt).Error
}

func (r *CartRepository) ClearCart(tx *gorm.DB, ownerKey string) error {
	return tx.Exec(`
		DELETE FROM cart_lines
		 WHERE cart_id IN (SELECT id FROM carts WHERE owner_key = ?)
	`, ownerKey).Error
}
