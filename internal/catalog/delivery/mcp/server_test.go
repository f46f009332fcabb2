package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primefinds/storefront/internal/catalog/domain"
	"github.com/primefinds/storefront/internal/catalog/repository"
	"github.com/primefinds/storefront/internal/catalog/seed"
	"github.com/primefinds/storefront/kafka"
)

type telemetryRecorder struct {
	mu       sync.Mutex
	viewed   []kafka.ProductViewedEvent
	searches []kafka.SearchPerformedEvent
}

func (r *telemetryRecorder) PublishProductViewed(_ context.Context, event kafka.ProductViewedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewed = append(r.viewed, event)
	return nil
}

func (r *telemetryRecorder) PublishSearchPerformed(_ context.Context, event kafka.SearchPerformedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches = append(r.searches, event)
	return nil
}

func (r *telemetryRecorder) searchEvents() []kafka.SearchPerformedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]kafka.SearchPerformedEvent(nil), r.searches...)
}

func (r *telemetryRecorder) viewedEvents() []kafka.ProductViewedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]kafka.ProductViewedEvent(nil), r.viewed...)
}

func newTestServer(t *testing.T, telemetry TelemetryPublisher) *Server {
	t.Helper()

	products, err := seed.Load()
	require.NoError(t, err)

	repo, err := repository.NewMemoryCatalogRepository(products)
	require.NoError(t, err)

	return NewServer(repo, telemetry)
}

func resultText(t *testing.T, result *mcp.CallToolResultFor[struct{}]) string {
	t.Helper()

	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func ptr[T any](v T) *T { return &v }

func TestNewServer(t *testing.T) {
	server := newTestServer(t, nil)
	assert.NotNil(t, server)
	assert.NotNil(t, server.server)
}

func TestSearchProductsTool(t *testing.T) {
	server := newTestServer(t, nil)
	ctx := context.Background()

	t.Run("returns matching products as JSON", func(t *testing.T) {
		params := &mcp.CallToolParamsFor[SearchParams]{
			Arguments: SearchParams{Keywords: "airpods"},
		}

		result, err := server.handleSearchProducts(ctx, nil, params)
		require.NoError(t, err)

		var rs resultSet
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &rs))
		assert.Equal(t, 1, rs.TotalFound)
		require.Len(t, rs.Results, 1)
		assert.Equal(t, "B08N5WRWNW", rs.Results[0].ID)
	})

	t.Run("empty query returns the full catalog in stored order", func(t *testing.T) {
		params := &mcp.CallToolParamsFor[SearchParams]{Arguments: SearchParams{}}

		result, err := server.handleSearchProducts(ctx, nil, params)
		require.NoError(t, err)

		var rs resultSet
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &rs))
		assert.Equal(t, 10, rs.TotalFound)
		assert.Equal(t, "B08N5WRWNW", rs.Results[0].ID)
	})

	t.Run("price bounds apply inclusively", func(t *testing.T) {
		params := &mcp.CallToolParamsFor[SearchParams]{
			Arguments: SearchParams{MinPrice: ptr(249.99), MaxPrice: ptr(399.99)},
		}

		result, err := server.handleSearchProducts(ctx, nil, params)
		require.NoError(t, err)

		var rs resultSet
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &rs))
		assert.Equal(t, 2, rs.TotalFound)
	})

	t.Run("no matches yields an empty results array", func(t *testing.T) {
		params := &mcp.CallToolParamsFor[SearchParams]{
			Arguments: SearchParams{Keywords: "zzzznomatch"},
		}

		result, err := server.handleSearchProducts(ctx, nil, params)
		require.NoError(t, err)

		text := resultText(t, result)
		assert.Contains(t, text, `"results": []`)

		var rs resultSet
		require.NoError(t, json.Unmarshal([]byte(text), &rs))
		assert.NotNil(t, rs.Results)
		assert.Equal(t, 0, rs.TotalFound)
	})
}

func TestSearchToolWireSchema(t *testing.T) {
	server := newTestServer(t, nil)
	ctx := context.Background()

	t.Run("client payload field names drive the filter", func(t *testing.T) {
		// Decode the arguments the way a client sends them, not via a
		// Go literal, so a renamed tag fails here
		var args SearchParams
		require.NoError(t, json.Unmarshal(
			[]byte(`{"keywords":"airpods","min_price":200,"max_price":300}`), &args))
		assert.Equal(t, "airpods", args.Keywords)

		params := &mcp.CallToolParamsFor[SearchParams]{Arguments: args}
		result, err := server.handleSearchProducts(ctx, nil, params)
		require.NoError(t, err)

		var rs resultSet
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &rs))
		require.Equal(t, 1, rs.TotalFound)
		assert.Equal(t, "B08N5WRWNW", rs.Results[0].ID)
	})

	t.Run("result rows carry in_stock and omit the full entity fields", func(t *testing.T) {
		params := &mcp.CallToolParamsFor[SearchParams]{
			Arguments: SearchParams{Keywords: "airpods"},
		}
		result, err := server.handleSearchProducts(ctx, nil, params)
		require.NoError(t, err)

		var rs struct {
			Results []map[string]json.RawMessage `json:"results"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &rs))
		require.Len(t, rs.Results, 1)

		row := rs.Results[0]
		assert.Contains(t, row, "in_stock")
		assert.Contains(t, row, "detail_url")
		assert.NotContains(t, row, "images")
		assert.NotContains(t, row, "features")
		assert.NotContains(t, row, "availability_text")

		var inStock bool
		require.NoError(t, json.Unmarshal(row["in_stock"], &inStock))
		assert.True(t, inStock)
	})
}

func TestGetProductTool(t *testing.T) {
	server := newTestServer(t, nil)
	ctx := context.Background()

	t.Run("returns the product for a known id", func(t *testing.T) {
		params := &mcp.CallToolParamsFor[GetProductParams]{
			Arguments: GetProductParams{ID: "B09XS7JWHH"},
		}

		result, err := server.handleGetProduct(ctx, nil, params)
		require.NoError(t, err)

		var product domain.Product
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &product))
		assert.Equal(t, "B09XS7JWHH", product.ID)
		assert.Equal(t, "Sony", product.Brand)
	})

	t.Run("unknown id returns an error payload not a protocol error", func(t *testing.T) {
		params := &mcp.CallToolParamsFor[GetProductParams]{
			Arguments: GetProductParams{ID: "B000000000"},
		}

		result, err := server.handleGetProduct(ctx, nil, params)
		require.NoError(t, err)

		var payload map[string]string
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
		assert.Equal(t, "product not found", payload["error"])
		assert.Equal(t, "B000000000", payload["id"])
	})

	t.Run("lookup is case-sensitive", func(t *testing.T) {
		params := &mcp.CallToolParamsFor[GetProductParams]{
			Arguments: GetProductParams{ID: "b09xs7jwhh"},
		}

		result, err := server.handleGetProduct(ctx, nil, params)
		require.NoError(t, err)

		var payload map[string]string
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
		assert.Equal(t, "product not found", payload["error"])
	})
}

func TestFeaturedProductsTool(t *testing.T) {
	server := newTestServer(t, nil)
	ctx := context.Background()

	t.Run("defaults to four products", func(t *testing.T) {
		params := &mcp.CallToolParamsFor[FeaturedParams]{Arguments: FeaturedParams{}}

		result, err := server.handleFeaturedProducts(ctx, nil, params)
		require.NoError(t, err)

		var rs resultSet
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &rs))
		assert.Equal(t, 4, rs.TotalFound)
		assert.Equal(t, "B08N5WRWNW", rs.Results[0].ID)
	})

	t.Run("honors an explicit count", func(t *testing.T) {
		params := &mcp.CallToolParamsFor[FeaturedParams]{Arguments: FeaturedParams{Count: 2}}

		result, err := server.handleFeaturedProducts(ctx, nil, params)
		require.NoError(t, err)

		var rs resultSet
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &rs))
		assert.Equal(t, 2, rs.TotalFound)
	})

	t.Run("clamps count to the catalog size", func(t *testing.T) {
		params := &mcp.CallToolParamsFor[FeaturedParams]{Arguments: FeaturedParams{Count: 50}}

		result, err := server.handleFeaturedProducts(ctx, nil, params)
		require.NoError(t, err)

		var rs resultSet
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &rs))
		assert.Equal(t, 10, rs.TotalFound)
	})
}

func TestToolTelemetry(t *testing.T) {
	t.Run("search publishes a search event with mcp source", func(t *testing.T) {
		recorder := &telemetryRecorder{}
		server := newTestServer(t, recorder)

		params := &mcp.CallToolParamsFor[SearchParams]{
			Arguments: SearchParams{Keywords: "kindle"},
		}
		_, err := server.handleSearchProducts(context.Background(), nil, params)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			return len(recorder.searchEvents()) == 1
		}, time.Second, 10*time.Millisecond)

		event := recorder.searchEvents()[0]
		assert.Equal(t, "kindle", event.Keywords)
		assert.Equal(t, 1, event.ResultCount)
		assert.Equal(t, kafka.SourceMCP, event.Source)
	})

	t.Run("product lookup publishes a view event", func(t *testing.T) {
		recorder := &telemetryRecorder{}
		server := newTestServer(t, recorder)

		params := &mcp.CallToolParamsFor[GetProductParams]{
			Arguments: GetProductParams{ID: "B08KTZ8249"},
		}
		_, err := server.handleGetProduct(context.Background(), nil, params)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			return len(recorder.viewedEvents()) == 1
		}, time.Second, 10*time.Millisecond)

		event := recorder.viewedEvents()[0]
		assert.Equal(t, "B08KTZ8249", event.ProductID)
		assert.Equal(t, kafka.SourceMCP, event.Source)
	})
}
