package domain

import "strings"

// SearchCriteria describes one catalog query. All fields are optional and
// empty criteria match every product. Category and Page are reserved:
// they travel with the query shape but are not consulted by Matches.
type SearchCriteria struct {
	Keywords string   `json:"keywords,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Category string   `json:"category,omitempty"`
	Page     int      `json:"page,omitempty"`
}

// Matches reports whether p satisfies every supplied filter. Filters
// combine with AND: keywords match case-insensitively as a substring of
// title or brand, price bounds are inclusive and require a price to be
// present. A MinPrice above MaxPrice is not rejected; it matches nothing
// unless a product's price equals both bounds.
func (c SearchCriteria) Matches(p *Product) bool {
	if c.Keywords != "" {
		kw := strings.ToLower(c.Keywords)
		if !strings.Contains(strings.ToLower(p.Title), kw) &&
			!strings.Contains(strings.ToLower(p.Brand), kw) {
			return false
		}
	}

	if c.MinPrice != nil && (p.Price == nil || p.Price.Amount < *c.MinPrice) {
		return false
	}
	if c.MaxPrice != nil && (p.Price == nil || p.Price.Amount > *c.MaxPrice) {
		return false
	}

	return true
}
