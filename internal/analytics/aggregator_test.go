package analytics

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primefinds/storefront/kafka"
)

func viewEvent(productID, title, brand string) kafka.ProductViewedEvent {
	return kafka.ProductViewedEvent{
		EventType: kafka.EventTypeProductViewed,
		ProductID: productID,
		Title:     title,
		Brand:     brand,
		Source:    kafka.SourceHTTP,
	}
}

func searchEvent(keywords string, resultCount int) kafka.SearchPerformedEvent {
	return kafka.SearchPerformedEvent{
		EventType:   kafka.EventTypeSearchPerformed,
		Keywords:    keywords,
		ResultCount: resultCount,
		Source:      kafka.SourceHTTP,
	}
}

func TestAggregatorViews(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator()

	require.NoError(t, agg.HandleProductViewed(ctx, viewEvent("B08N5WRWNW", "AirPods Pro", "Apple")))
	require.NoError(t, agg.HandleProductViewed(ctx, viewEvent("B08N5WRWNW", "AirPods Pro", "Apple")))
	require.NoError(t, agg.HandleProductViewed(ctx, viewEvent("B09B8V1LZ3", "Echo Dot", "Amazon")))

	views, searches := agg.Totals()
	assert.Equal(t, int64(3), views)
	assert.Equal(t, int64(0), searches)

	top := agg.TopProducts(0)
	require.Len(t, top, 2)
	assert.Equal(t, "B08N5WRWNW", top[0].ProductID)
	assert.Equal(t, int64(2), top[0].Views)
	assert.Equal(t, "AirPods Pro", top[0].Title)
}

func TestTopProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by views descending with id tie-break", func(t *testing.T) {
		agg := NewAggregator()
		for i := 0; i < 3; i++ {
			require.NoError(t, agg.HandleProductViewed(ctx, viewEvent("B2", "Second", "")))
		}
		require.NoError(t, agg.HandleProductViewed(ctx, viewEvent("B3", "Third", "")))
		require.NoError(t, agg.HandleProductViewed(ctx, viewEvent("B1", "First", "")))

		top := agg.TopProducts(0)
		require.Len(t, top, 3)
		assert.Equal(t, "B2", top[0].ProductID)
		assert.Equal(t, "B1", top[1].ProductID)
		assert.Equal(t, "B3", top[2].ProductID)
	})

	t.Run("applies the limit", func(t *testing.T) {
		agg := NewAggregator()
		require.NoError(t, agg.HandleProductViewed(ctx, viewEvent("B1", "First", "")))
		require.NoError(t, agg.HandleProductViewed(ctx, viewEvent("B2", "Second", "")))

		assert.Len(t, agg.TopProducts(1), 1)
		assert.Len(t, agg.TopProducts(10), 2)
	})

	t.Run("empty aggregator yields an empty ranking", func(t *testing.T) {
		agg := NewAggregator()

		top := agg.TopProducts(5)
		assert.NotNil(t, top)
		assert.Empty(t, top)
	})
}

func TestAggregatorSearches(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator()

	require.NoError(t, agg.HandleSearchPerformed(ctx, searchEvent("airpods", 1)))
	require.NoError(t, agg.HandleSearchPerformed(ctx, searchEvent("airpods", 1)))
	require.NoError(t, agg.HandleSearchPerformed(ctx, searchEvent("kindle", 1)))
	// Browse without keywords counts toward totals only
	require.NoError(t, agg.HandleSearchPerformed(ctx, searchEvent("", 10)))

	views, searches := agg.Totals()
	assert.Equal(t, int64(0), views)
	assert.Equal(t, int64(4), searches)

	top := agg.TopSearches(0)
	require.Len(t, top, 2)
	assert.Equal(t, "airpods", top[0].Keywords)
	assert.Equal(t, int64(2), top[0].Searches)
	assert.Equal(t, "kindle", top[1].Keywords)
}

func TestAggregatorConcurrency(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = agg.HandleProductViewed(ctx, viewEvent("B08N5WRWNW", "AirPods Pro", "Apple"))
		}()
		go func() {
			defer wg.Done()
			_ = agg.HandleSearchPerformed(ctx, searchEvent("airpods", 1))
		}()
	}
	wg.Wait()

	views, searches := agg.Totals()
	assert.Equal(t, int64(50), views)
	assert.Equal(t, int64(50), searches)

	top := agg.TopProducts(1)
	require.Len(t, top, 1)
	assert.Equal(t, int64(50), top[0].Views)
}
