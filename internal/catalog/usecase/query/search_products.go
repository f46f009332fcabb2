package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/primefinds/storefront/internal/catalog/domain"
)

// SearchProductsQuery represents the query to search the catalog
type SearchProductsQuery struct {
	Keywords string
	MinPrice *float64
	MaxPrice *float64
	Category string // Reserved: carried with the query, not matched
	Page     int    // Reserved: carried with the query, not matched
}

// SearchProductsHandler handles catalog search queries
type SearchProductsHandler struct {
	repo domain.CatalogRepository
}

// NewSearchProductsHandler creates a new search products handler
func NewSearchProductsHandler(repo domain.CatalogRepository) *SearchProductsHandler {
	return &SearchProductsHandler{repo: repo}
}

// Handle executes the search query. Empty criteria return the whole
// catalog; contradictory price bounds return an empty result rather than
// an error.
func (h *SearchProductsHandler) Handle(ctx context.Context, query SearchProductsQuery) ([]domain.Product, error) {
	criteria := domain.SearchCriteria{
		Keywords: strings.TrimSpace(query.Keywords),
		MinPrice: query.MinPrice,
		MaxPrice: query.MaxPrice,
		Category: query.Category,
		Page:     query.Page,
	}

	products, err := h.repo.Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}
