package service

import (
	"context"
	"fmt"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// AllCategories selects every category in Filter.
const AllCategories = "All"

type CatalogService struct {
	api port.CatalogAPI
}

func NewCatalogService(api port.CatalogAPI) *CatalogService {
	return &CatalogService{api: api}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

// Filter keeps products whose title or description contains search and whose
// category equals category. An empty category or AllCategories matches any.
func Filter(products []domain.Product, search, category string) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !p.Matches(search) {
			continue
		}
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories lists AllCategories followed by each distinct category in the
// order first seen.
func Categories(products []domain.Product) []string {
	out := []string{AllCategories}
	seen := map[string]bool{}
	for _, p := range products {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}
