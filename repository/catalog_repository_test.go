package repository

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/shopspring/decimal"
)

const sampleJSON = `[
  {"id": "P1", "name": "Pastel de Choclo", "description": "Pino", "price": 9500, "category": "PLATOS_PRINCIPALES", "isVegetarian": false, "isAvailable": true},
  {"id": "E1", "name": "Empanada", "description": "Queso", "price": "2500.50", "category": "ENTRADAS", "imageUrl": "e1.jpg", "isVegetarian": true},
  {"id": "D1", "name": "Leche Asada", "description": "Flan", "price": 3000, "category": "POSTRES", "isAvailable": false}
]`

func TestParseCatalogJSON(t *testing.T) {
	items, err := ParseCatalogJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ParseCatalogJSON: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if !items[1].Price.Equal(decimal.RequireFromString("2500.5")) {
		t.Errorf("E1 price = %s", items[1].Price)
	}
	if !items[1].IsAvailable {
		t.Error("missing isAvailable should default to true")
	}
	if items[2].IsAvailable {
		t.Error("D1 isAvailable = true, want false")
	}
	if items[1].ImageURL != "e1.jpg" || !items[1].IsVegetarian {
		t.Errorf("E1 = %+v", items[1])
	}
}

func TestNewCatalogRepositoryValidates(t *testing.T) {
	ok := entity.MenuItem{ID: "A", Price: decimal.NewFromInt(1), Category: entity.CategoryBebidas}
	tests := []struct {
		name  string
		items []entity.MenuItem
		want  string
	}{
		{"duplicate id", []entity.MenuItem{ok, ok}, "duplicate id"},
		{"empty id", []entity.MenuItem{{Category: entity.CategoryBebidas}}, "empty id"},
		{"negative price", []entity.MenuItem{{ID: "B", Price: decimal.NewFromInt(-1), Category: entity.CategoryBebidas}}, "negative price"},
		{"unknown category", []entity.MenuItem{{ID: "C", Category: "SOPAS"}}, "unknown category"},
	}
	for _, tt := range tests {
		_, err := NewCatalogRepository(tt.items)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want %q", tt.name, err, tt.want)
		}
	}
}

func TestCatalogLookups(t *testing.T) {
	items, _ := ParseCatalogJSON(strings.NewReader(sampleJSON))
	repo, err := NewCatalogRepository(items)
	if err != nil {
		t.Fatal(err)
	}

	if it, ok := repo.FindByID("E1"); !ok || it.Name != "Empanada" {
		t.Errorf("FindByID(E1) = %+v, %v", it, ok)
	}
	if _, ok := repo.FindByID("zzz"); ok {
		t.Error("FindByID(zzz) found something")
	}

	all := repo.All()
	all[0].Name = "changed"
	if it, _ := repo.FindByID("P1"); it.Name != "Pastel de Choclo" {
		t.Error("All() exposes the backing slice")
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	items, _ := ParseCatalogJSON(strings.NewReader(sampleJSON))

	var buf bytes.Buffer
	if err := WriteCatalogXLSX(&buf, items); err != nil {
		t.Fatalf("WriteCatalogXLSX: %v", err)
	}
	got, err := ParseCatalogXLSX(&buf)
	if err != nil {
		t.Fatalf("ParseCatalogXLSX: %v", err)
	}
	if len(got) != len(items) {
		t.Fatalf("got %d rows, want %d", len(got), len(items))
	}
	for i := range items {
		if got[i].ID != items[i].ID || got[i].Category != items[i].Category ||
			!got[i].Price.Equal(items[i].Price) ||
			got[i].IsVegetarian != items[i].IsVegetarian || got[i].IsAvailable != items[i].IsAvailable {
			t.Errorf("row %d = %+v, want %+v", i, got[i], items[i])
		}
	}
}

func TestLoadCatalogByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "menu.json")
	if err := os.WriteFile(jsonPath, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if repo, err := LoadCatalog(jsonPath); err != nil || len(repo.All()) != 3 {
		t.Fatalf("LoadCatalog(json) = %v", err)
	}

	items, _ := ParseCatalogJSON(strings.NewReader(sampleJSON))
	var buf bytes.Buffer
	if err := WriteCatalogXLSX(&buf, items); err != nil {
		t.Fatal(err)
	}
	xlsxPath := filepath.Join(dir, "menu.xlsx")
	if err := os.WriteFile(xlsxPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	if repo, err := LoadCatalog(xlsxPath); err != nil || len(repo.All()) != 3 {
		t.Fatalf("LoadCatalog(xlsx) = %v", err)
	}

	if _, err := LoadCatalog(filepath.Join(dir, "menu.csv")); err == nil {
		t.Error("LoadCatalog(csv) succeeded")
	}
}

func TestShippedMenuLoads(t *testing.T) {
	repo, err := LoadCatalog(filepath.Join("..", "data", "menu.json"))
	if err != nil {
		t.Fatalf("data/menu.json: %v", err)
	}
	if _, ok := repo.FindByID("P1"); !ok {
		t.Error("shipped menu has no P1")
	}
}
