// Package testutil builds throwaway databases and catalogs for tests.
package testutil

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MdeMedina/saboresdelhogar/configs"
	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/MdeMedina/saboresdelhogar/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory sqlite database with the schema migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return OpenDB(t, dsn)
}

// OpenDB opens source through configs.ConnectionDB, so tests run with the
// same pool and sqlite settings as the server, and migrates the schema.
func OpenDB(t testing.TB, source string) *gorm.DB {
	t.Helper()
	db, err := configs.ConnectionDB(&configs.Config{Env: "test", DBDriver: "sqlite", DBSource: source})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := configs.SetupDatabase(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Items is a small fixed menu: P1 9500, E1 2500 (vegetarian), D1 3000
// (unavailable), B1 1500 (vegetarian).
func Items() []entity.MenuItem {
	return []entity.MenuItem{
		{ID: "P1", Name: "Pastel de Choclo", Description: "Pino con pasta de choclo", Price: decimal.NewFromInt(9500), Category: entity.CategoryPlatosPrincipales, IsAvailable: true},
		{ID: "E1", Name: "Empanada de Queso", Description: "Frita, queso mantecoso", Price: decimal.NewFromInt(2500), Category: entity.CategoryEntradas, IsVegetarian: true, IsAvailable: true},
		{ID: "D1", Name: "Leche Asada", Description: "Flan horneado", Price: decimal.NewFromInt(3000), Category: entity.CategoryPostres, IsVegetarian: true, IsAvailable: false},
		{ID: "B1", Name: "Jugo Natural", Description: "Fruta de la estación", Price: decimal.NewFromInt(1500), Category: entity.CategoryBebidas, IsVegetarian: true, IsAvailable: true},
	}
}

func Catalog(t testing.TB) *repository.CatalogRepository {
	t.Helper()
	repo, err := repository.NewCatalogRepository(Items())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return repo
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock { return &Clock{now: start} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
