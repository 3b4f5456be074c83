package transaction

import (
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat sales tax applied to the subtotal
var TaxRate = decimal.RequireFromString("0.08")

var hundred = decimal.NewFromInt(100)

// Totals are the derived money fields of a transaction
type Totals struct {
	Subtotal         decimal.Decimal
	DiscountTotal    decimal.Decimal
	TaxTotal         decimal.Decimal
	FulfillmentTotal decimal.Decimal
	GrandTotal       decimal.Decimal
}

// LineTotal returns (unitPrice - discountPerItem) * quantity
func LineTotal(item entity.LineItem) decimal.Decimal {
	return item.UnitPrice.Sub(item.DiscountPerItem).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// CalculateTotals derives subtotal, discount, tax, fulfillment and grand total
func CalculateTotals(items []entity.LineItem, fulfillment *entity.FulfillmentInfo) Totals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineTotal(item))
		discount = discount.Add(item.DiscountPerItem.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	fulfillmentTotal := decimal.Zero
	if fulfillment != nil {
		fulfillmentTotal = fulfillment.Cost
	}

	tax := subtotal.Mul(TaxRate)

	return Totals{
		Subtotal:         subtotal,
		DiscountTotal:    discount,
		TaxTotal:         tax,
		FulfillmentTotal: fulfillmentTotal,
		GrandTotal:       subtotal.Add(tax).Add(fulfillmentTotal),
	}
}

// AmountPaid sums the payment amounts
func AmountPaid(payments []entity.PaymentRecord) decimal.Decimal {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// AmountDue is what remains of grandTotal after payments, never below zero
func AmountDue(grandTotal, paid decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, grandTotal.Sub(paid))
}

// CalculatePoints returns floor(subtotal * multiplier), or 0 without a customer
func CalculatePoints(subtotal decimal.Decimal, customer *entity.CustomerSnapshot) int64 {
	if customer == nil {
		return 0
	}
	points := subtotal.Mul(customer.LoyaltyMultiplier).Floor()
	if points.IsNegative() {
		return 0
	}
	return points.IntPart()
}

// MarkdownDiscount computes the per-item discount a markdown grants on
// originalPrice, clamped to [0, originalPrice].
func MarkdownDiscount(originalPrice decimal.Decimal, markdown entity.MarkdownInfo) decimal.Decimal {
	var discount decimal.Decimal
	switch markdown.Type {
	case enum.MarkdownTypePercent:
		discount = originalPrice.Mul(markdown.Value).Div(hundred)
	case enum.MarkdownTypeFixed:
		discount = markdown.Value
	case enum.MarkdownTypeNewPrice:
		discount = originalPrice.Sub(markdown.Value)
	default:
		discount = decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(originalPrice) {
		return originalPrice
	}
	return discount
}

// Recalculate refreshes every derived field of t from its items,
// fulfillment, payments and customer.
func Recalculate(t entity.Transaction) entity.Transaction {
	for i := range t.Items {
		t.Items[i].LineTotal = LineTotal(t.Items[i])
	}

	totals := CalculateTotals(t.Items, t.Fulfillment)
	t.Subtotal = totals.Subtotal
	t.DiscountTotal = totals.DiscountTotal
	t.TaxTotal = totals.TaxTotal
	t.FulfillmentTotal = totals.FulfillmentTotal
	t.GrandTotal = totals.GrandTotal

	t.AmountPaid = AmountPaid(t.Payments)
	t.AmountDue = AmountDue(t.GrandTotal, t.AmountPaid)
	t.LoyaltyPoints = CalculatePoints(t.Subtotal, t.Customer)

	return t
}
