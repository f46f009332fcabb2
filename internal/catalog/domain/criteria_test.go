package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/primefinds/storefront/internal/catalog/domain"
)

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:    "B08N5WRWNW",
		Title: "Apple AirPods Pro (2nd Generation)",
		Brand: "Apple",
		Price: &domain.Price{Amount: 249.99, CurrencyCode: "USD", DisplayText: "$249.99"},
		DetailURL: "https://www.amazon.com/dp/B08N5WRWNW?tag=primefinds-20",
	}
}

func TestCriteriaMatchesKeywords(t *testing.T) {
	p := sampleProduct()

	tests := []struct {
		name     string
		keywords string
		want     bool
	}{
		{"empty keywords match", "", true},
		{"title substring", "airpods", true},
		{"title substring uppercase", "AIRPODS", true},
		{"brand substring", "apple", true},
		{"multi-word title phrase", "airpods pro", true},
		{"no match", "kindle", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := domain.SearchCriteria{Keywords: tc.keywords}
			assert.Equal(t, tc.want, c.Matches(p))
		})
	}
}

func TestCriteriaMatchesBrandlessProductViaTitle(t *testing.T) {
	p := sampleProduct()
	p.Brand = ""

	assert.True(t, domain.SearchCriteria{Keywords: "airpods"}.Matches(p))
	assert.False(t, domain.SearchCriteria{Keywords: "apple airpods"}.Matches(p),
		"brand is absent, so only the title can match")
}

func TestCriteriaMatchesPriceBounds(t *testing.T) {
	p := sampleProduct() // 249.99

	tests := []struct {
		name     string
		min, max *float64
		want     bool
	}{
		{"no bounds", nil, nil, true},
		{"min below", ptr(100.0), nil, true},
		{"min equal is inclusive", ptr(249.99), nil, true},
		{"min above", ptr(300.0), nil, false},
		{"max above", nil, ptr(300.0), true},
		{"max equal is inclusive", nil, ptr(249.99), true},
		{"max below", nil, ptr(100.0), false},
		{"range around", ptr(200.0), ptr(300.0), true},
		{"inverted range matches nothing", ptr(300.0), ptr(200.0), false},
		{"degenerate range equal to price", ptr(249.99), ptr(249.99), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := domain.SearchCriteria{MinPrice: tc.min, MaxPrice: tc.max}
			assert.Equal(t, tc.want, c.Matches(p))
		})
	}
}

func TestCriteriaPriceBoundsRequirePrice(t *testing.T) {
	p := sampleProduct()
	p.Price = nil

	assert.True(t, domain.SearchCriteria{}.Matches(p))
	assert.False(t, domain.SearchCriteria{MinPrice: ptr(0.0)}.Matches(p))
	assert.False(t, domain.SearchCriteria{MaxPrice: ptr(10000.0)}.Matches(p))
}

func TestCriteriaFiltersCombineWithAnd(t *testing.T) {
	p := sampleProduct()

	match := domain.SearchCriteria{Keywords: "airpods", MinPrice: ptr(200.0), MaxPrice: ptr(250.0)}
	assert.True(t, match.Matches(p))

	wrongKeyword := domain.SearchCriteria{Keywords: "echo", MinPrice: ptr(200.0)}
	assert.False(t, wrongKeyword.Matches(p))

	wrongPrice := domain.SearchCriteria{Keywords: "airpods", MinPrice: ptr(300.0)}
	assert.False(t, wrongPrice.Matches(p))
}

func TestCriteriaReservedFieldsAreIgnored(t *testing.T) {
	p := sampleProduct()

	c := domain.SearchCriteria{Category: "electronics", Page: 7}
	assert.True(t, c.Matches(p), "category and page are reserved and must not affect matching")
}
