package query

import (
	"context"
	"fmt"

	"github.com/primefinds/storefront/internal/catalog/domain"
)

// GetStatsQuery represents the query to get catalog statistics
type GetStatsQuery struct{}

// CatalogStats summarizes the loaded catalog
type CatalogStats struct {
	TotalProducts  int     `json:"total_products"`
	PricedProducts int     `json:"priced_products"`
	InStock        int     `json:"in_stock"`
	PrimeEligible  int     `json:"prime_eligible"`
	AveragePrice   float64 `json:"average_price"`
	TotalBrands    int     `json:"total_brands"`
}

// GetStatsHandler handles get stats queries
type GetStatsHandler struct {
	repo domain.CatalogRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.CatalogRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the stats query. The average covers priced products
// only; unpriced entries are counted but excluded from the mean.
func (h *GetStatsHandler) Handle(ctx context.Context, query GetStatsQuery) (*CatalogStats, error) {
	products, err := h.repo.Search(ctx, domain.SearchCriteria{})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	var priced, inStock, prime int
	var totalPrice float64
	brands := make(map[string]bool)

	for _, product := range products {
		if product.Price != nil {
			priced++
			totalPrice += product.Price.Amount
		}
		if product.InStock() {
			inStock++
		}
		if product.IsPrimeEligible != nil && *product.IsPrimeEligible {
			prime++
		}
		if product.Brand != "" {
			brands[product.Brand] = true
		}
	}

	averagePrice := 0.0
	if priced > 0 {
		averagePrice = totalPrice / float64(priced)
	}

	return &CatalogStats{
		TotalProducts:  len(products),
		PricedProducts: priced,
		InStock:        inStock,
		PrimeEligible:  prime,
		AveragePrice:   averagePrice,
		TotalBrands:    len(brands),
	}, nil
}
