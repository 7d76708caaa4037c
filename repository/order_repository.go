package repository

import (
	"context"
	"errors"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"gorm.io/gorm"
)

type OrderRepository struct{ DB *gorm.DB }

func NewOrderRepository(db *gorm.DB) *OrderRepository { return &OrderRepository{DB: db} }

// OrderScope selects the orders visible to a caller: a signed-in user sees
// their own orders from any device, a guest sees the guest orders placed
// from that device.
type OrderScope struct {
	OwnerKey string
	UserID   string
}

func (s OrderScope) apply(q *gorm.DB) *gorm.DB {
	if s.UserID != "" {
		return q.Where("user_id = ?", s.UserID)
	}
	return q.Where("owner_key = ? AND user_id IS NULL", s.OwnerKey)
}

func linesByPosition(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }

func (r *OrderRepository) Create(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

// List returns the scope's orders; newestFirst picks created_at DESC.
func (r *OrderRepository) List(ctx context.Context, scope OrderScope, newestFirst bool) ([]entity.Order, error) {
	order := "created_at ASC"
	if newestFirst {
		order = "created_at DESC"
	}
	var out []entity.Order
	err := scope.apply(r.DB.WithContext(ctx)).
		Preload("Lines", linesByPosition).
		Order(order).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Order{}
	}
	return out, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, scope OrderScope, id string) (*entity.Order, bool, error) {
	var o entity.Order
	err := scope.apply(r.DB.WithContext(ctx).Where("id = ?", id)).
		Preload("Lines", linesByPosition).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &o, true, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&entity.Order{}).Count(&n).Error
	return n, err
}
