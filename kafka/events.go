package kafka

import "time"

// ProductViewedEvent records one product detail lookup. Telemetry only:
// catalog responses never depend on whether it was published.
type ProductViewedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID string    `json:"product_id"`
	Title     string    `json:"title"`
	Brand     string    `json:"brand,omitempty"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// SearchPerformedEvent records one catalog search and its result size.
type SearchPerformedEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	Keywords    string    `json:"keywords"`
	MinPrice    *float64  `json:"min_price,omitempty"`
	MaxPrice    *float64  `json:"max_price,omitempty"`
	ResultCount int       `json:"result_count"`
	Source      string    `json:"source"`
	Timestamp   time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeProductViewed   = "catalog.product_viewed"
	EventTypeSearchPerformed = "catalog.search_performed"
)

// Kafka topics
const (
	TopicProductViewed   = "catalog-product-viewed"
	TopicSearchPerformed = "catalog-search-performed"
)

// Event sources (which delivery surface produced the event)
const (
	SourceHTTP = "http"
	SourceMCP  = "mcp"
)
