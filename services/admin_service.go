package services

import (
	"context"
	"io"
	"time"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/MdeMedina/saboresdelhogar/repository"
	"gorm.io/gorm"
)

type AdminService struct {
	DB        *gorm.DB
	catalog   *CatalogService
	orderRepo *repository.OrderRepository
	now       func() time.Time
}

func NewAdminService(db *gorm.DB, catalog *CatalogService, or *repository.OrderRepository) *AdminService {
	return &AdminService{DB: db, catalog: catalog, orderRepo: or, now: time.Now}
}

// Products is the administrative product list: every item, available or not.
func (s *AdminService) Products() []entity.MenuItem {
	return s.catalog.ListItems()
}

// ExportProducts writes the product list as an .xlsx workbook.
func (s *AdminService) ExportProducts(w io.Writer) error {
	if err := repository.WriteCatalogXLSX(w, s.Products()); err != nil {
		return internal("export products", err)
	}
	return nil
}

type Dashboard struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalProducts     int   `json:"totalProducts"`
	AvailableProducts int   `json:"availableProducts"`
	TotalOrders       int64 `json:"totalOrders"`
	OrdersToday       int64 `json:"ordersToday"`
}

func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{
		TotalProducts:     len(s.catalog.ListItems()),
		AvailableProducts: len(s.catalog.ListAvailable()),
	}
	db := s.DB.WithContext(ctx)
	if err := db.Model(&entity.User{}).Count(&d.TotalUsers).Error; err != nil {
		return nil, internal("count users", err)
	}
	n, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, internal("count orders", err)
	}
	d.TotalOrders = n

	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Model(&entity.Order{}).Where("created_at >= ?", start).Count(&d.OrdersToday).Error; err != nil {
		return nil, internal("count orders today", err)
	}
	return d, nil
}
