package services

import (
	"context"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/MdeMedina/saboresdelhogar/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CartService struct {
	DB       *gorm.DB
	CartRepo *repository.CartRepository
	Catalog  *CatalogService
	locks    *DeviceLocks
	notify   Notifier
	taxRate  decimal.Decimal
	log      *zap.Logger
}

func NewCartService(
	db *gorm.DB,
	cr *repository.CartRepository,
	catalog *CatalogService,
	locks *DeviceLocks,
	notify Notifier,
	taxRate decimal.Decimal,
	log *zap.Logger,
) *CartService {
	return &CartService{
		DB: db, CartRepo: cr, Catalog: catalog,
		locks: locks, notify: notifierOrNop(notify), taxRate: taxRate, log: log,
	}
}

// CartSummary is the cart plus its derived totals. Tax is informative; the
// order total stays equal to Total.
type CartSummary struct {
	Lines      []entity.CartLine `json:"lines"`
	ItemCount  int               `json:"itemCount"`
	Total      decimal.Decimal   `json:"total"`
	TaxRate    decimal.Decimal   `json:"taxRate"`
	Tax        decimal.Decimal   `json:"tax"`
	GrandTotal decimal.Decimal   `json:"grandTotal"`
}

func (s *CartService) Summarize(c *entity.Cart) CartSummary {
	total := c.Total()
	tax := total.Mul(s.taxRate).Round(0)
	return CartSummary{
		Lines:      c.Lines,
		ItemCount:  c.ItemCount(),
		Total:      total,
		TaxRate:    s.taxRate,
		Tax:        tax,
		GrandTotal: total.Add(tax),
	}
}

func (s *CartService) Get(ctx context.Context, ownerKey string) (*entity.Cart, error) {
	c, err := s.CartRepo.Get(s.DB.WithContext(ctx), ownerKey)
	if err != nil {
		return nil, internal("load cart", err)
	}
	return c, nil
}

func (s *CartService) Summary(ctx context.Context, ownerKey string) (*CartSummary, error) {
	c, err := s.Get(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	sum := s.Summarize(c)
	return &sum, nil
}

// AddItem adds one unit of a catalog item.
func (s *CartService) AddItem(ctx context.Context, ownerKey, itemID string) (*entity.Cart, error) {
	item, ok := s.Catalog.FindByID(itemID)
	if !ok {
		return nil, validation(CodeItemNotFound, ErrMsgItemNotFound)
	}
	if !item.IsAvailable {
		return nil, validation(CodeItemUnavailable, ErrMsgItemUnavailable)
	}
	return s.mutate(ctx, ownerKey, func(c *entity.Cart) { c.AddItem(item) })
}

// RemoveItem is a no-op for ids not in the cart.
func (s *CartService) RemoveItem(ctx context.Context, ownerKey, itemID string) (*entity.Cart, error) {
	return s.mutate(ctx, ownerKey, func(c *entity.Cart) { c.RemoveItem(itemID) })
}

// UpdateQuantity sets the line to exactly quantity; quantity <= 0 removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, ownerKey, itemID string, quantity int) (*entity.Cart, error) {
	return s.mutate(ctx, ownerKey, func(c *entity.Cart) { c.UpdateQuantity(itemID, quantity) })
}

func (s *CartService) Clear(ctx context.Context, ownerKey string) error {
	_, err := s.mutate(ctx, ownerKey, func(c *entity.Cart) { c.Clear() })
	return err
}

func (s *CartService) mutate(ctx context.Context, ownerKey string, fn func(*entity.Cart)) (*entity.Cart, error) {
	unlock := s.locks.Lock(ownerKey)
	defer unlock()

	var cart *entity.Cart
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.CartRepo.Get(tx, ownerKey)
		if err != nil {
			return err
		}
		fn(c)
		if err := s.CartRepo.Save(tx, c); err != nil {
			return err
		}
		cart = c
		return nil
	})
	if err != nil {
		s.log.Error("cart update failed", zap.String("device", ownerKey), zap.Error(err))
		return nil, internal("save cart", err)
	}

	s.notify.Publish(ownerKey, Event{Type: EventCartUpdated, Data: s.Summarize(cart)})
	return cart, nil
}
