package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Product is one sellable catalog entry. Products are created once at
// catalog load and never mutated, so values can be shared freely between
// concurrent callers.
type Product struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Price            *Price    `json:"price,omitempty"`
	Images           *ImageSet `json:"images,omitempty"`
	Rating           *float64  `json:"rating,omitempty"`
	ReviewCount      *int      `json:"review_count,omitempty"`
	IsPrimeEligible  *bool     `json:"is_prime_eligible,omitempty"`
	DetailURL        string    `json:"detail_url"`
	AvailabilityText string    `json:"availability_text,omitempty"`
	Brand            string    `json:"brand,omitempty"`
	Features         []string  `json:"features,omitempty"`
}

// Price is the offer price of a product. A nil Price on Product means
// "price unknown", which is a valid state, not an error.
type Price struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currency_code"`
	DisplayText  string  `json:"display_text"`
}

// ImageSet holds the primary product image at three resolutions.
type ImageSet struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// InStock reports whether the availability text marks the product as in
// stock. The storefront convention is that any text containing "stock"
// (case-insensitive) counts as in stock; absent text counts as not.
func (p *Product) InStock() bool {
	return strings.Contains(strings.ToLower(p.AvailabilityText), "stock")
}

// HasPrice reports whether the product carries a known price.
func (p *Product) HasPrice() bool {
	return p.Price != nil
}

// Validate checks construction-time invariants. It is called when the
// catalog is built; queries never need it because loaded products are
// immutable.
func (p *Product) Validate() error {
	if p.ID == "" {
		return errors.New("product id is required")
	}
	if p.Title == "" {
		return fmt.Errorf("product %s: title is required", p.ID)
	}
	if p.DetailURL == "" {
		return fmt.Errorf("product %s: detail_url is required", p.ID)
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
		return fmt.Errorf("product %s: rating %.2f out of range [0,5]", p.ID, *p.Rating)
	}
	if p.ReviewCount != nil && *p.ReviewCount < 0 {
		return fmt.Errorf("product %s: review count must not be negative", p.ID)
	}
	return nil
}

// CatalogRepository defines read access to the product catalog. Methods
// take a context so a network-backed implementation can honor deadlines
// and cancellation; the in-memory catalog completes immediately.
type CatalogRepository interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	Search(ctx context.Context, criteria SearchCriteria) ([]Product, error)
	FindFeatured(ctx context.Context, count int) ([]Product, error)
	Count(ctx context.Context) (int, error)
}
