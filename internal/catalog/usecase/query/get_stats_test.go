package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primefinds/storefront/internal/catalog/usecase/query"
)

func TestGetStatsHandler(t *testing.T) {
	handler := query.NewGetStatsHandler(newCatalog(t))

	stats, err := handler.Handle(context.Background(), query.GetStatsQuery{})
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalProducts)
	assert.Equal(t, 4, stats.PricedProducts)
	assert.Equal(t, 2, stats.InStock)
	assert.Equal(t, 1, stats.PrimeEligible)
	assert.Equal(t, 4, stats.TotalBrands)

	// mean of 249.99, 49.99, 9.99, 399.99
	assert.InDelta(t, 177.49, stats.AveragePrice, 0.001)
}

func TestGetStatsHandlerEmptyCatalog(t *testing.T) {
	handler := query.NewGetStatsHandler(emptyCatalog(t))

	stats, err := handler.Handle(context.Background(), query.GetStatsQuery{})
	require.NoError(t, err)

	assert.Zero(t, stats.TotalProducts)
	assert.Zero(t, stats.AveragePrice)
}
