package entity

import (
	"github.com/shopspring/decimal"
)

// Product is a catalog entry as returned by the product service
type Product struct {
	SKU               string          `json:"sku" binding:"required"`
	Name              string          `json:"name" binding:"required"`
	Description       string          `json:"description,omitempty"`
	Price             decimal.Decimal `json:"price"`
	OriginalPrice     decimal.Decimal `json:"original_price"`
	OnSale            bool            `json:"on_sale"`
	AvailableQuantity int             `json:"available_quantity"`
	Category          string          `json:"category,omitempty"`
	ImageURL          string          `json:"image_url,omitempty"`
}

// InStock reports whether any units are available
func (p *Product) InStock() bool {
	return p.AvailableQuantity > 0
}

// ListPrice is the price markdowns are computed from: the original price
// when the catalog reports one, the selling price otherwise.
func (p *Product) ListPrice() decimal.Decimal {
	if p.OriginalPrice.IsPositive() {
		return p.OriginalPrice
	}
	return p.Price
}
