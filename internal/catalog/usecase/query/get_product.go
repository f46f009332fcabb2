package query

import (
	"context"
	"fmt"

	"github.com/primefinds/storefront/internal/catalog/domain"
)

// GetProductQuery represents the query to get a product by its catalog id
type GetProductQuery struct {
	ID string
}

// GetProductHandler handles get product queries
type GetProductHandler struct {
	repo domain.CatalogRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.CatalogRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query. The id is matched exactly, with
// no format validation; a miss wraps domain.ErrProductNotFound so callers
// can detect it with errors.Is.
func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*domain.Product, error) {
	product, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", query.ID, err)
	}

	return product, nil
}
