package seed_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primefinds/storefront/internal/catalog/seed"
)

func TestLoadEmbeddedDataset(t *testing.T) {
	products, err := seed.Load()
	require.NoError(t, err)
	require.NotEmpty(t, products)

	t.Run("every product passes validation", func(t *testing.T) {
		for _, p := range products {
			assert.NoError(t, p.Validate(), "product %s", p.ID)
		}
	})

	t.Run("ids are unique", func(t *testing.T) {
		seen := make(map[string]bool, len(products))
		for _, p := range products {
			assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
			seen[p.ID] = true
		}
	})

	t.Run("detail urls carry the affiliate tag", func(t *testing.T) {
		for _, p := range products {
			assert.Contains(t, p.DetailURL, "tag=", "product %s", p.ID)
		}
	})
}

func TestEmbeddedDatasetScenarioProduct(t *testing.T) {
	products, err := seed.Load()
	require.NoError(t, err)

	var found bool
	for _, p := range products {
		if p.ID != "B08N5WRWNW" {
			continue
		}
		found = true
		assert.Equal(t, "Apple AirPods Pro (2nd Generation)", p.Title)
		require.NotNil(t, p.Price)
		assert.Equal(t, 249.99, p.Price.Amount)
		assert.Equal(t, "USD", p.Price.CurrencyCode)
	}
	require.True(t, found, "dataset must contain the AirPods Pro entry")
}

func TestEmbeddedDatasetCoversOptionalAbsence(t *testing.T) {
	products, err := seed.Load()
	require.NoError(t, err)

	var noPrice, noBrand, noImages, noRating bool
	for _, p := range products {
		if p.Price == nil {
			noPrice = true
		}
		if p.Brand == "" {
			noBrand = true
		}
		if p.Images == nil {
			noImages = true
		}
		if p.Rating == nil {
			noRating = true
		}
	}

	assert.True(t, noPrice, "dataset should include a product without a price")
	assert.True(t, noBrand, "dataset should include a product without a brand")
	assert.True(t, noImages, "dataset should include a product without images")
	assert.True(t, noRating, "dataset should include an unrated product")
}

func TestLoadFile(t *testing.T) {
	t.Run("round-trips a custom dataset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "products.json")
		body := `{"products":[{"id":"B000CUSTOM","title":"Custom Item","detail_url":"https://www.amazon.com/dp/B000CUSTOM?tag=primefinds-20"}]}`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		products, err := seed.LoadFile(path)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "B000CUSTOM", products[0].ID)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := seed.LoadFile(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

		_, err := seed.LoadFile(path)
		assert.Error(t, err)
	})
}
