package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// CatalogSheet is the sheet name used by spreadsheet catalogs.
const CatalogSheet = "Menu"

var catalogHeader = []string{
	"id", "name", "description", "price", "category", "imageUrl", "isVegetarian", "isAvailable",
}

// CatalogRepository holds the menu loaded at startup. It is never mutated
// afterwards, so it is safe for concurrent readers.
type CatalogRepository struct {
	items []entity.MenuItem
	byID  map[string]int
}

// NewCatalogRepository validates items and indexes them by id.
func NewCatalogRepository(items []entity.MenuItem) (*CatalogRepository, error) {
	byID := make(map[string]int, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.ID) == "" {
			return nil, fmt.Errorf("catalog row %d: empty id", i+1)
		}
		if _, dup := byID[it.ID]; dup {
			return nil, fmt.Errorf("catalog row %d: duplicate id %q", i+1, it.ID)
		}
		if it.Price.IsNegative() {
			return nil, fmt.Errorf("catalog item %q: negative price", it.ID)
		}
		if !it.Category.Valid() {
			return nil, fmt.Errorf("catalog item %q: unknown category %q", it.ID, it.Category)
		}
		byID[it.ID] = i
	}
	cp := make([]entity.MenuItem, len(items))
	copy(cp, items)
	return &CatalogRepository{items: cp, byID: byID}, nil
}

// LoadCatalog reads a .json or .xlsx catalog from disk.
func LoadCatalog(path string) (*CatalogRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	var items []entity.MenuItem
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		items, err = ParseCatalogJSON(f)
	case ".xlsx":
		items, err = ParseCatalogXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return NewCatalogRepository(items)
}

type catalogRecord struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     entity.Category `json:"category"`
	ImageURL     string          `json:"imageUrl"`
	IsVegetarian bool            `json:"isVegetarian"`
	IsAvailable  *bool           `json:"isAvailable"`
}

// ParseCatalogJSON decodes a JSON array of menu items. A missing
// isAvailable flag means the item is available.
func ParseCatalogJSON(r io.Reader) ([]entity.MenuItem, error) {
	var recs []catalogRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	items := make([]entity.MenuItem, 0, len(recs))
	for _, rec := range recs {
		available := true
		if rec.IsAvailable != nil {
			available = *rec.IsAvailable
		}
		items = append(items, entity.MenuItem{
			ID:           rec.ID,
			Name:         rec.Name,
			Description:  rec.Description,
			Price:        rec.Price,
			Category:     rec.Category,
			ImageURL:     rec.ImageURL,
			IsVegetarian: rec.IsVegetarian,
			IsAvailable:  available,
		})
	}
	return items, nil
}

// ParseCatalogXLSX reads the first sheet of a workbook laid out like
// WriteCatalogXLSX output. The header row is required.
func ParseCatalogXLSX(r io.Reader) ([]entity.MenuItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook is empty")
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, h := range catalogHeader[:5] {
		if _, ok := col[h]; !ok {
			return nil, fmt.Errorf("missing column %q", h)
		}
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	items := make([]entity.MenuItem, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if cell(row, "id") == "" {
			continue
		}
		price, err := decimal.NewFromString(cell(row, "price"))
		if err != nil {
			return nil, fmt.Errorf("row %d: price: %w", n+2, err)
		}
		veg, err := parseFlag(cell(row, "isVegetarian"), false)
		if err != nil {
			return nil, fmt.Errorf("row %d: isVegetarian: %w", n+2, err)
		}
		avail, err := parseFlag(cell(row, "isAvailable"), true)
		if err != nil {
			return nil, fmt.Errorf("row %d: isAvailable: %w", n+2, err)
		}
		items = append(items, entity.MenuItem{
			ID:           cell(row, "id"),
			Name:         cell(row, "name"),
			Description:  cell(row, "description"),
			Price:        price,
			Category:     entity.Category(strings.ToUpper(cell(row, "category"))),
			ImageURL:     cell(row, "imageUrl"),
			IsVegetarian: veg,
			IsAvailable:  avail,
		})
	}
	return items, nil
}

func parseFlag(s string, fallback bool) (bool, error) {
	if s == "" {
		return fallback, nil
	}
	switch strings.ToLower(s) {
	case "si", "sí", "yes", "y", "x":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// WriteCatalogXLSX writes items as a single-sheet workbook that
// ParseCatalogXLSX can read back.
func WriteCatalogXLSX(w io.Writer, items []entity.MenuItem) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), CatalogSheet); err != nil {
		return err
	}
	header := make([]interface{}, len(catalogHeader))
	for i, h := range catalogHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(CatalogSheet, "A1", &header); err != nil {
		return err
	}
	for i, it := range items {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		price, _ := it.Price.Float64()
		row := []interface{}{
			it.ID, it.Name, it.Description, price, string(it.Category),
			it.ImageURL, it.IsVegetarian, it.IsAvailable,
		}
		if err := f.SetSheetRow(CatalogSheet, cellName, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// All returns a copy of every item in catalog order.
func (r *CatalogRepository) All() []entity.MenuItem {
	out := make([]entity.MenuItem, len(r.items))
	copy(out, r.items)
	return out
}

func (r *CatalogRepository) FindByID(id string) (entity.MenuItem, bool) {
	i, ok := r.byID[id]
	if !ok {
		return entity.MenuItem{}, false
	}
	return r.items[i], true
}

// Filter returns the items for which keep reports true, in catalog order.
func (r *CatalogRepository) Filter(keep func(entity.MenuItem) bool) []entity.MenuItem {
	out := []entity.MenuItem{}
	for _, it := range r.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
