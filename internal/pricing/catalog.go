// Package pricing computes canonical, server-trusted order totals.
//
// The catalog is the single source of truth for prices. Anything a client
// sends about money (unit prices, discounts, totals) is ignored by every
// caller of this package. The catalog is loaded once at startup and is
// read-only afterwards; price changes ship as a new deployment.
package pricing

import (
	"encoding/json"
	"fmt"
	"os"
)

// Variant describes one purchasable configuration of a product.
// CompareAtPrice is display-only and never enters the totals math.
type Variant struct {
	Label          string  `json:"label"`
	PriceDelta     float64 `json:"price_delta"`
	CompareAtPrice float64 `json:"compare_at_price"`
}

// Product is a single catalog entry. BasePrice is in major currency
// units (rupees, not paise).
type Product struct {
	Name        string             `json:"name"`
	BasePrice   float64            `json:"base_price"`
	Variants    map[string]Variant `json:"variants"`
	MaxQuantity int                `json:"max_quantity"`
}

// Catalog maps product IDs to their canonical pricing entries.
type Catalog struct {
	products map[string]Product
}

// NewCatalog validates the given entries and returns a Catalog.
// Every variant must resolve to a non-negative unit price.
func NewCatalog(products map[string]Product) (*Catalog, error) {
	for id, p := range products {
		if p.MaxQuantity < 1 {
			return nil, fmt.Errorf("pricing: product %q: max_quantity must be >= 1", id)
		}
		for vid, v := range p.Variants {
			if p.BasePrice+v.PriceDelta < 0 {
				return nil, fmt.Errorf("pricing: product %q variant %q: negative unit price", id, vid)
			}
		}
	}
	return &Catalog{products: products}, nil
}

// DefaultCatalog returns the built-in Vayu catalog. Used when no
// CATALOG_PATH override is configured.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(map[string]Product{
		"vayu-ai-glasses": {
			Name:      "Vayu AI Glasses",
			BasePrice: 59999.0,
			Variants: map[string]Variant{
				"non-prescription": {Label: "Non-prescription", PriceDelta: 0, CompareAtPrice: 69999.0},
				"prescription":     {Label: "Prescription", PriceDelta: 5000, CompareAtPrice: 74999.0},
			},
			MaxQuantity: 5,
		},
	})
	if err != nil {
		// The built-in catalog is validated by tests; this cannot happen
		// at runtime.
		panic(err)
	}
	return c
}

// LoadCatalog reads a catalog from a JSON file of the shape
// {"product-id": {"base_price": ..., "variants": {...}, "max_quantity": ...}}.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pricing: read catalog %q: %w", path, err)
	}
	var products map[string]Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("pricing: parse catalog %q: %w", path, err)
	}
	return NewCatalog(products)
}

// Product looks up a catalog entry by ID.
func (c *Catalog) Product(id string) (Product, bool) {
	p, ok := c.products[id]
	return p, ok
}
