// Package seed provides the static product dataset that backs the catalog.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/primefinds/storefront/internal/catalog/domain"
)

//go:embed products.json
var embedded []byte

type dataset struct {
	Products []domain.Product `json:"products"`
}

// Load returns the embedded product set in its stored order.
func Load() ([]domain.Product, error) {
	return parse(embedded)
}

// LoadFile reads a product set from path. The file has the same shape as
// the embedded dataset and replaces it entirely.
func LoadFile(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) ([]domain.Product, error) {
	var ds dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}
	return ds.Products, nil
}
