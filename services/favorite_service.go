package services

import (
	"context"
	"time"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/MdeMedina/saboresdelhogar/repository"
	"go.uber.org/zap"
)

// FavoriteService keeps a per-device set of catalog item ids.
type FavoriteService struct {
	repo    *repository.FavoriteRepository
	catalog *CatalogService
	locks   *DeviceLocks
	now     func() time.Time
	log     *zap.Logger
}

func NewFavoriteService(repo *repository.FavoriteRepository, catalog *CatalogService, locks *DeviceLocks, log *zap.Logger) *FavoriteService {
	return &FavoriteService{repo: repo, catalog: catalog, locks: locks, now: time.Now, log: log}
}

// Favorites returns the favorite items in the order they were added. Ids
// no longer in the catalog are skipped.
func (s *FavoriteService) Favorites(ctx context.Context, ownerKey string) ([]entity.MenuItem, error) {
	ids, err := s.repo.ItemIDs(ctx, ownerKey)
	if err != nil {
		return nil, internal("list favorites", err)
	}
	out := make([]entity.MenuItem, 0, len(ids))
	for _, id := range ids {
		if it, ok := s.catalog.FindByID(id); ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *FavoriteService) IsFavorite(ctx context.Context, ownerKey, itemID string) (bool, error) {
	ok, err := s.repo.Exists(ctx, ownerKey, itemID)
	if err != nil {
		return false, internal("check favorite", err)
	}
	return ok, nil
}

// Add is idempotent.
func (s *FavoriteService) Add(ctx context.Context, ownerKey, itemID string) error {
	if _, ok := s.catalog.FindByID(itemID); !ok {
		return validation(CodeItemNotFound, ErrMsgItemNotFound)
	}
	fav := &entity.Favorite{OwnerKey: ownerKey, MenuItemID: itemID, CreatedAt: s.now()}
	if err := s.repo.Add(ctx, fav); err != nil {
		return internal("add favorite", err)
	}
	return nil
}

func (s *FavoriteService) Remove(ctx context.Context, ownerKey, itemID string) error {
	if err := s.repo.Remove(ctx, ownerKey, itemID); err != nil {
		return internal("remove favorite", err)
	}
	return nil
}

// Toggle flips the item's membership and reports whether it is now a
// favorite. Toggles on one device are serialized.
func (s *FavoriteService) Toggle(ctx context.Context, ownerKey, itemID string) (bool, error) {
	unlock := s.locks.Lock(ownerKey)
	defer unlock()

	fav, err := s.IsFavorite(ctx, ownerKey, itemID)
	if err != nil {
		return false, err
	}
	if fav {
		return false, s.Remove(ctx, ownerKey, itemID)
	}
	if err := s.Add(ctx, ownerKey, itemID); err != nil {
		return false, err
	}
	s.log.Debug("favorite added", zap.String("device", ownerKey), zap.String("item_id", itemID))
	return true, nil
}
