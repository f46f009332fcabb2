package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/primefinds/storefront/internal/catalog/domain"
	"github.com/primefinds/storefront/internal/catalog/repository"
)

func ptr[T any](v T) *T { return &v }

func catalogProducts() []domain.Product {
	return []domain.Product{
		{
			ID:               "B08N5WRWNW",
			Title:            "Apple AirPods Pro (2nd Generation)",
			Brand:            "Apple",
			Price:            &domain.Price{Amount: 249.99, CurrencyCode: "USD", DisplayText: "$249.99"},
			DetailURL:        "https://www.amazon.com/dp/B08N5WRWNW?tag=primefinds-20",
			AvailabilityText: "In Stock",
			IsPrimeEligible:  ptr(true),
		},
		{
			ID:               "B09B8V1LZ3",
			Title:            "Echo Dot (5th Gen) Smart Speaker",
			Brand:            "Amazon",
			Price:            &domain.Price{Amount: 49.99, CurrencyCode: "USD", DisplayText: "$49.99"},
			DetailURL:        "https://www.amazon.com/dp/B09B8V1LZ3?tag=primefinds-20",
			AvailabilityText: "In Stock",
		},
		{
			ID:               "B098RKWHHZ",
			Title:            "Nintendo Switch (OLED Model)",
			Brand:            "Nintendo",
			DetailURL:        "https://www.amazon.com/dp/B098RKWHHZ?tag=primefinds-20",
			AvailabilityText: "Currently unavailable",
		},
		{
			ID:        "B0C63KQXRL",
			Title:     "USB C Charging Cable 6ft (2-Pack)",
			Price:     &domain.Price{Amount: 9.99, CurrencyCode: "USD", DisplayText: "$9.99"},
			DetailURL: "https://www.amazon.com/dp/B0C63KQXRL?tag=primefinds-20",
		},
		{
			ID:        "B09XS7JWHH",
			Title:     "Sony WH-1000XM5 Wireless Headphones",
			Brand:     "Sony",
			Price:     &domain.Price{Amount: 399.99, CurrencyCode: "USD", DisplayText: "$399.99"},
			DetailURL: "https://www.amazon.com/dp/B09XS7JWHH?tag=primefinds-20",
		},
	}
}

func newCatalog(t *testing.T) *repository.MemoryCatalogRepository {
	t.Helper()
	repo, err := repository.NewMemoryCatalogRepository(catalogProducts())
	require.NoError(t, err)
	return repo
}

func emptyCatalog(t *testing.T) *repository.MemoryCatalogRepository {
	t.Helper()
	repo, err := repository.NewMemoryCatalogRepository(nil)
	require.NoError(t, err)
	return repo
}
