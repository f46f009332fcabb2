package repository

import (
	"context"
	"fmt"

	"github.com/primefinds/storefront/internal/catalog/domain"
)

// MemoryCatalogRepository answers queries from an immutable in-memory
// product set. The set is validated once at construction and never changes
// afterwards, so every method is safe for concurrent use without locking.
type MemoryCatalogRepository struct {
	products []domain.Product
	byID     map[string]int
}

// NewMemoryCatalogRepository builds a repository over products, preserving
// their order. Construction fails on duplicate ids or products that do not
// validate; after that, queries cannot fail.
func NewMemoryCatalogRepository(products []domain.Product) (*MemoryCatalogRepository, error) {
	stored := make([]domain.Product, len(products))
	copy(stored, products)

	byID := make(map[string]int, len(stored))
	for i := range stored {
		if err := stored[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid product at position %d: %w", i, err)
		}
		if _, dup := byID[stored[i].ID]; dup {
			return nil, fmt.Errorf("duplicate product id %s at position %d", stored[i].ID, i)
		}
		byID[stored[i].ID] = i
	}

	return &MemoryCatalogRepository{products: stored, byID: byID}, nil
}

// FindByID returns the product whose id matches exactly (case-sensitive),
// or domain.ErrProductNotFound.
func (r *MemoryCatalogRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	i, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	product := r.products[i]
	return &product, nil
}

// Search returns every product matching criteria, in stored order. The
// result is a fresh slice, never nil, so callers may append to it and JSON
// encoders render an empty result as [].
func (r *MemoryCatalogRepository) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := make([]domain.Product, 0, len(r.products))
	for i := range r.products {
		if criteria.Matches(&r.products[i]) {
			matched = append(matched, r.products[i])
		}
	}
	return matched, nil
}

// FindFeatured returns the first count products in stored order, or the
// whole catalog when it holds fewer.
func (r *MemoryCatalogRepository) FindFeatured(ctx context.Context, count int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if count < 0 {
		count = 0
	}
	if count > len(r.products) {
		count = len(r.products)
	}

	featured := make([]domain.Product, count)
	copy(featured, r.products[:count])
	return featured, nil
}

// Count returns the catalog size.
func (r *MemoryCatalogRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.products), nil
}

var _ domain.CatalogRepository = (*MemoryCatalogRepository)(nil)
