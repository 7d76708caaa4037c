package services

import (
	"strings"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/MdeMedina/saboresdelhogar/repository"
)

// CatalogService answers read-only queries over the loaded menu. Absence is
// an empty result, never an error.
type CatalogService struct {
	repo *repository.CatalogRepository
}

func NewCatalogService(repo *repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListItems() []entity.MenuItem {
	return s.repo.All()
}

func (s *CatalogService) ItemsByCategory(cat entity.Category) []entity.MenuItem {
	return s.repo.Filter(func(it entity.MenuItem) bool { return it.Category == cat })
}

func (s *CatalogService) FindByID(id string) (entity.MenuItem, bool) {
	return s.repo.FindByID(id)
}

// Search matches query case-insensitively against name or description. A
// blank query matches nothing.
func (s *CatalogService) Search(query string) []entity.MenuItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []entity.MenuItem{}
	}
	return s.repo.Filter(func(it entity.MenuItem) bool {
		return strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Description), q)
	})
}

func (s *CatalogService) ListVegetarian() []entity.MenuItem {
	return s.repo.Filter(func(it entity.MenuItem) bool { return it.IsVegetarian })
}

func (s *CatalogService) ListAvailable() []entity.MenuItem {
	return s.repo.Filter(func(it entity.MenuItem) bool { return it.IsAvailable })
}

// Grouped returns the non-empty categories in menu order.
func (s *CatalogService) Grouped() []entity.MenuCategory {
	out := []entity.MenuCategory{}
	for _, cat := range entity.Categories {
		items := s.ItemsByCategory(cat)
		if len(items) == 0 {
			continue
		}
		out = append(out, entity.MenuCategory{Type: cat, DisplayName: cat.DisplayName(), Items: items})
	}
	return out
}

// MenuFilter combines the list filters; zero values do not filter.
type MenuFilter struct {
	Category       entity.Category
	Query          string
	VegetarianOnly bool
	AvailableOnly  bool
}

func (s *CatalogService) Filter(f MenuFilter) []entity.MenuItem {
	var base []entity.MenuItem
	if strings.TrimSpace(f.Query) != "" {
		base = s.Search(f.Query)
	} else {
		base = s.repo.All()
	}
	out := []entity.MenuItem{}
	for _, it := range base {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.VegetarianOnly && !it.IsVegetarian {
			continue
		}
		if f.AvailableOnly && !it.IsAvailable {
			continue
		}
		out = append(out, it)
	}
	return out
}
