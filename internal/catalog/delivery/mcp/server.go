package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/primefinds/storefront/internal/catalog/domain"
	"github.com/primefinds/storefront/internal/catalog/usecase/query"
	"github.com/primefinds/storefront/kafka"
	"github.com/primefinds/storefront/pkg/logger"
)

// TelemetryPublisher emits view and search events. A nil publisher
// disables telemetry.
type TelemetryPublisher interface {
	PublishProductViewed(ctx context.Context, event kafka.ProductViewedEvent) error
	PublishSearchPerformed(ctx context.Context, event kafka.SearchPerformedEvent) error
}

// Server exposes the catalog to MCP clients over stdio. Tool results carry
// JSON in a single text content block; protocol framing stays on stdout,
// logs go to stderr.
type Server struct {
	server          *mcp.Server
	searchHandler   *query.SearchProductsHandler
	getHandler      *query.GetProductHandler
	featuredHandler *query.GetFeaturedProductsHandler
	telemetry       TelemetryPublisher
}

// NewServer creates an MCP server backed by the given catalog.
func NewServer(repo domain.CatalogRepository, telemetry TelemetryPublisher) *Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "storefront-catalog",
		Version: "1.0.0",
	}, &mcp.ServerOptions{
		Instructions: "Product catalog tools - search by keyword and price range, look up products by id, list featured products",
	})

	s := &Server{
		server:          server,
		searchHandler:   query.NewSearchProductsHandler(repo),
		getHandler:      query.NewGetProductHandler(repo),
		featuredHandler: query.NewGetFeaturedProductsHandler(repo),
		telemetry:       telemetry,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_products",
		Description: "Search the product catalog by keyword and optional price range. Returns matching products with prices, ratings and detail page links.",
	}, s.handleSearchProducts)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_product",
		Description: "Look up a single product by its marketplace identifier.",
	}, s.handleGetProduct)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "featured_products",
		Description: "Get the catalog's featured products. Returns the first products in catalog order.",
	}, s.handleFeaturedProducts)

	logger.Logger.Info().Int("tools", 3).Msg("Registered catalog tools")
}

// Run serves the MCP protocol over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// SearchParams are the arguments for the search_products tool.
type SearchParams struct {
	Keywords string   `json:"keywords,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

// GetProductParams are the arguments for the get_product tool.
type GetProductParams struct {
	ID string `json:"id"`
}

// FeaturedParams are the arguments for the featured_products tool.
type FeaturedParams struct {
	Count int `json:"count,omitempty"`
}

// productRow is the compact shape the list-returning tools emit. The full
// entity (images, features, availability text) stays behind get_product;
// rows carry the resolved in_stock flag instead of the raw text.
type productRow struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Brand       string        `json:"brand,omitempty"`
	Price       *domain.Price `json:"price,omitempty"`
	Rating      *float64      `json:"rating,omitempty"`
	ReviewCount *int          `json:"review_count,omitempty"`
	DetailURL   string        `json:"detail_url"`
	InStock     bool          `json:"in_stock"`
}

// resultSet is the payload shape shared by the list-returning tools.
type resultSet struct {
	Results    []productRow `json:"results"`
	TotalFound int          `json:"total_found"`
}

func toRows(products []domain.Product) []productRow {
	rows := make([]productRow, len(products))
	for i := range products {
		p := &products[i]
		rows[i] = productRow{
			ID:          p.ID,
			Title:       p.Title,
			Brand:       p.Brand,
			Price:       p.Price,
			Rating:      p.Rating,
			ReviewCount: p.ReviewCount,
			DetailURL:   p.DetailURL,
			InStock:     p.InStock(),
		}
	}
	return rows
}

func (s *Server) handleSearchProducts(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[SearchParams]) (*mcp.CallToolResultFor[struct{}], error) {
	args := params.Arguments

	products, err := s.searchHandler.Handle(ctx, query.SearchProductsQuery{
		Keywords: args.Keywords,
		MinPrice: args.MinPrice,
		MaxPrice: args.MaxPrice,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	s.publishSearchPerformed(ctx, args, len(products))

	return textResult(resultSet{Results: toRows(products), TotalFound: len(products)})
}

func (s *Server) handleGetProduct(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[GetProductParams]) (*mcp.CallToolResultFor[struct{}], error) {
	args := params.Arguments

	product, err := s.getHandler.Handle(ctx, query.GetProductQuery{ID: args.ID})
	if err != nil {
		// Not found is a normal outcome for the client, reported in the
		// payload rather than as a protocol error
		if errors.Is(err, domain.ErrProductNotFound) {
			return textResult(map[string]string{
				"error": "product not found",
				"id":    args.ID,
			})
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	s.publishProductViewed(ctx, product)

	return textResult(product)
}

func (s *Server) handleFeaturedProducts(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[FeaturedParams]) (*mcp.CallToolResultFor[struct{}], error) {
	products, err := s.featuredHandler.Handle(ctx, query.GetFeaturedProductsQuery{Count: params.Arguments.Count})
	if err != nil {
		return nil, fmt.Errorf("failed to get featured products: %w", err)
	}

	return textResult(resultSet{Results: toRows(products), TotalFound: len(products)})
}

func (s *Server) publishProductViewed(ctx context.Context, product *domain.Product) {
	if s.telemetry == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	event := kafka.ProductViewedEvent{
		ProductID: product.ID,
		Title:     product.Title,
		Brand:     product.Brand,
		Source:    kafka.SourceMCP,
	}

	go func() {
		_ = s.telemetry.PublishProductViewed(ctx, event)
	}()
}

func (s *Server) publishSearchPerformed(ctx context.Context, args SearchParams, resultCount int) {
	if s.telemetry == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	event := kafka.SearchPerformedEvent{
		Keywords:    args.Keywords,
		MinPrice:    args.MinPrice,
		MaxPrice:    args.MaxPrice,
		ResultCount: resultCount,
		Source:      kafka.SourceMCP,
	}

	go func() {
		_ = s.telemetry.PublishSearchPerformed(ctx, event)
	}()
}

func textResult(payload interface{}) (*mcp.CallToolResultFor[struct{}], error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	return &mcp.CallToolResultFor[struct{}]{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}
