package catalog

import (
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// FallbackCatalog is the demo catalog served when the catalog service is
// unreachable or does not know a SKU. Not for production stores.
func FallbackCatalog() map[string]entity.Product {
	products := []entity.Product{
		{SKU: "SKU-001", Name: "Cordless Drill 18V", Price: decimal.RequireFromString("20.00"), OriginalPrice: decimal.RequireFromString("20.00"), AvailableQuantity: 25, Category: "Tools"},
		{SKU: "SKU-002", Name: "LED Work Light", Price: decimal.RequireFromString("30.00"), OriginalPrice: decimal.RequireFromString("30.00"), AvailableQuantity: 12, Category: "Lighting"},
		{SKU: "SKU-003", Name: "Safety Glasses", Price: decimal.RequireFromString("8.99"), OriginalPrice: decimal.RequireFromString("11.99"), OnSale: true, AvailableQuantity: 80, Category: "Safety"},
		{SKU: "SKU-004", Name: "Measuring Tape 25ft", Price: decimal.RequireFromString("14.49"), OriginalPrice: decimal.RequireFromString("14.49"), AvailableQuantity: 40, Category: "Tools"},
		{SKU: "SKU-005", Name: "Shop Vacuum 5gal", Price: decimal.RequireFromString("89.00"), OriginalPrice: decimal.RequireFromString("99.00"), OnSale: true, AvailableQuantity: 3, Category: "Cleaning"},
		{SKU: "SKU-006", Name: "Extension Cord 50ft", Price: decimal.RequireFromString("24.99"), OriginalPrice: decimal.RequireFromString("24.99"), AvailableQuantity: 0, Category: "Electrical"},
	}

	out := make(map[string]entity.Product, len(products))
	for _, p := range products {
		out[p.SKU] = p
	}
	return out
}
