package entity

import "github.com/shopspring/decimal"

type Category string

const (
	CategoryEntradas          Category = "ENTRADAS"
	CategoryPlatosPrincipales Category = "PLATOS_PRINCIPALES"
	CategoryAcompanamientos   Category = "ACOMPANAMIENTOS"
	CategoryPostres           Category = "POSTRES"
	CategoryBebidas           Category = "BEBIDAS"
)

// Categories lists every menu section in display order.
var Categories = []Category{
	CategoryEntradas,
	CategoryPlatosPrincipales,
	CategoryAcompanamientos,
	CategoryPostres,
	CategoryBebidas,
}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

func (c Category) DisplayName() string {
	switch c {
	case CategoryEntradas:
		return "Entradas"
	case CategoryPlatosPrincipales:
		return "Platos Principales"
	case CategoryAcompanamientos:
		return "Acompañamientos"
	case CategoryPostres:
		return "Postres"
	case CategoryBebidas:
		return "Bebidas"
	default:
		return string(c)
	}
}

// MenuItem is a sellable catalog entry. Catalog items are loaded once and
// never mutated.
type MenuItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     Category        `json:"category"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	IsVegetarian bool            `json:"isVegetarian"`
	IsAvailable  bool            `json:"isAvailable"`
}

// MenuCategory is one non-empty section of the grouped menu.
type MenuCategory struct {
	Type        Category   `json:"type"`
	DisplayName string     `json:"displayName"`
	Items       []MenuItem `json:"items"`
}
