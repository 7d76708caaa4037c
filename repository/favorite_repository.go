package repository

import (
	"context"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository struct{ DB *gorm.DB }

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository { return &FavoriteRepository{DB: db} }

// ItemIDs lists the device's favorites, oldest first.
func (r *FavoriteRepository) ItemIDs(ctx context.Context, ownerKey string) ([]string, error) {
	ids := []string{}
	err := r.DB.WithContext(ctx).Model(&entity.Favorite{}).
		Where("owner_key = ?", ownerKey).
		Order("created_at ASC").Order("menu_item_id ASC").
		Pluck("menu_item_id", &ids).Error
	return ids, err
}

// Add is idempotent.
func (r *FavoriteRepository) Add(ctx context.Context, fav *entity.Favorite) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fav).Error
}

func (r *FavoriteRepository) Remove(ctx context.Context, ownerKey, itemID string) error {
	return r.DB.WithContext(ctx).
		Where("owner_key = ? AND menu_item_id = ?", ownerKey, itemID).
		Delete(&entity.Favorite{}).Error
}

func (r *FavoriteRepository) Exists(ctx context.Context, ownerKey, itemID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&entity.Favorite{}).
		Where("owner_key = ? AND menu_item_id = ?", ownerKey, itemID).
		Count(&n).Error
	return n > 0, err
}
