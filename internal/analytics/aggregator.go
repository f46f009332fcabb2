// Package analytics aggregates catalog telemetry events into in-memory
// counters served over HTTP. State is rebuilt from the stream on restart.
package analytics

import (
	"context"
	"sort"
	"sync"

	"github.com/primefinds/storefront/kafka"
)

// ProductViewCount is one row of the top-products ranking.
type ProductViewCount struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Brand     string `json:"brand,omitempty"`
	Views     int64  `json:"views"`
}

// KeywordCount is one row of the top-searches ranking.
type KeywordCount struct {
	Keywords string `json:"keywords"`
	Searches int64  `json:"searches"`
}

// Aggregator folds telemetry events into per-product and per-keyword
// counters. Handler methods match the kafka consumer signatures.
type Aggregator struct {
	mu       sync.RWMutex
	views    map[string]*ProductViewCount
	searches map[string]int64

	totalViews    int64
	totalSearches int64
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		views:    make(map[string]*ProductViewCount),
		searches: make(map[string]int64),
	}
}

// HandleProductViewed records one product view.
func (a *Aggregator) HandleProductViewed(_ context.Context, event kafka.ProductViewedEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.views[event.ProductID]
	if !ok {
		entry = &ProductViewCount{
			ProductID: event.ProductID,
			Title:     event.Title,
			Brand:     event.Brand,
		}
		a.views[event.ProductID] = entry
	}
	entry.Views++
	a.totalViews++
	return nil
}

// HandleSearchPerformed records one search. Keyword-less browses are
// counted in the totals but not ranked.
func (a *Aggregator) HandleSearchPerformed(_ context.Context, event kafka.SearchPerformedEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if event.Keywords != "" {
		a.searches[event.Keywords]++
	}
	a.totalSearches++
	return nil
}

// TopProducts returns up to limit products ordered by views descending.
// Ties break on product id so the ranking is stable.
func (a *Aggregator) TopProducts(limit int) []ProductViewCount {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ranked := make([]ProductViewCount, 0, len(a.views))
	for _, entry := range a.views {
		ranked = append(ranked, *entry)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Views != ranked[j].Views {
			return ranked[i].Views > ranked[j].Views
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// TopSearches returns up to limit keywords ordered by frequency descending.
func (a *Aggregator) TopSearches(limit int) []KeywordCount {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ranked := make([]KeywordCount, 0, len(a.searches))
	for keywords, count := range a.searches {
		ranked = append(ranked, KeywordCount{Keywords: keywords, Searches: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Searches != ranked[j].Searches {
			return ranked[i].Searches > ranked[j].Searches
		}
		return ranked[i].Keywords < ranked[j].Keywords
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// Totals returns the running event counts.
func (a *Aggregator) Totals() (views, searches int64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.totalViews, a.totalSearches
}
