package query

import (
	"context"
	"fmt"

	"github.com/primefinds/storefront/internal/catalog/domain"
)

// DefaultFeaturedCount is how many products the featured view shows when
// the caller does not ask for a specific amount.
const DefaultFeaturedCount = 4

// GetFeaturedProductsQuery represents the query for the featured subset
type GetFeaturedProductsQuery struct {
	Count int
}

// GetFeaturedProductsHandler handles featured product queries
type GetFeaturedProductsHandler struct {
	repo domain.CatalogRepository
}

// NewGetFeaturedProductsHandler creates a new featured products handler
func NewGetFeaturedProductsHandler(repo domain.CatalogRepository) *GetFeaturedProductsHandler {
	return &GetFeaturedProductsHandler{repo: repo}
}

// Handle executes the featured products query. Featured is a storage-order
// prefix of the catalog, not a ranking; a smaller catalog returns all it
// has.
func (h *GetFeaturedProductsHandler) Handle(ctx context.Context, query GetFeaturedProductsQuery) ([]domain.Product, error) {
	// Set defaults
	if query.Count <= 0 {
		query.Count = DefaultFeaturedCount
	}

	products, err := h.repo.FindFeatured(ctx, query.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to get featured products: %w", err)
	}

	return products, nil
}
