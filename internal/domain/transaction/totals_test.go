package transaction

import (
	"testing"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTaxIsEightPercentOfSubtotal(t *testing.T) {
	totals := CalculateTotals([]entity.LineItem{
		{SKU: "A", Quantity: 4, UnitPrice: dec("25.00")},
	}, nil)

	assertDec(t, "100.00", totals.Subtotal)
	assertDec(t, "8.00", totals.TaxTotal)
	assertDec(t, "108.00", totals.GrandTotal)
}

func TestGrandTotalIncludesFulfillment(t *testing.T) {
	totals := CalculateTotals([]entity.LineItem{
		{SKU: "A", Quantity: 1, UnitPrice: dec("10.00")},
	}, &entity.FulfillmentInfo{Type: enum.FulfillmentTypeDelivery, Cost: dec("4.99")})

	assertDec(t, "4.99", totals.FulfillmentTotal)
	assertDec(t, "15.79", totals.GrandTotal)
}

func TestLineTotalSubtractsDiscount(t *testing.T) {
	item := entity.LineItem{Quantity: 3, UnitPrice: dec("10.00"), DiscountPerItem: dec("1.50")}
	assertDec(t, "25.50", LineTotal(item))
}

func TestCalculatePoints(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		customer *entity.CustomerSnapshot
		want     int64
	}{
		{"floors fractional points", "33.33", &entity.CustomerSnapshot{LoyaltyMultiplier: dec("1.5")}, 49},
		{"no customer", "33.33", nil, 0},
		{"no customer large subtotal", "99999.99", nil, 0},
		{"unit multiplier", "70.00", &entity.CustomerSnapshot{LoyaltyMultiplier: dec("1")}, 70},
		{"zero multiplier", "70.00", &entity.CustomerSnapshot{LoyaltyMultiplier: decimal.Zero}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculatePoints(dec(tt.subtotal), tt.customer))
		})
	}
}

func TestAmountDueClampsAtZero(t *testing.T) {
	assertDec(t, "0", AmountDue(dec("75.60"), dec("100")))
	assertDec(t, "0.60", AmountDue(dec("75.60"), dec("75")))
}

func TestMarkdownDiscount(t *testing.T) {
	tests := []struct {
		name string
		md   entity.MarkdownInfo
		want string
	}{
		{"percent", entity.MarkdownInfo{Type: enum.MarkdownTypePercent, Value: dec("10")}, "5.00"},
		{"fixed", entity.MarkdownInfo{Type: enum.MarkdownTypeFixed, Value: dec("7.25")}, "7.25"},
		{"new price", entity.MarkdownInfo{Type: enum.MarkdownTypeNewPrice, Value: dec("39.99")}, "10.01"},
		{"fixed above price clamps", entity.MarkdownInfo{Type: enum.MarkdownTypeFixed, Value: dec("80")}, "50.00"},
		{"new price above original clamps", entity.MarkdownInfo{Type: enum.MarkdownTypeNewPrice, Value: dec("60")}, "0"},
		{"percent over 100 clamps", entity.MarkdownInfo{Type: enum.MarkdownTypePercent, Value: dec("150")}, "50.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDec(t, tt.want, MarkdownDiscount(dec("50.00"), tt.md))
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]enum.TransactionStatus{
		{enum.TransactionStatusIdle, enum.TransactionStatusActive},
		{enum.TransactionStatusActive, enum.TransactionStatusCheckout},
		{enum.TransactionStatusCheckout, enum.TransactionStatusActive},
		{enum.TransactionStatusCheckout, enum.TransactionStatusPayment},
		{enum.TransactionStatusPayment, enum.TransactionStatusComplete},
		{enum.TransactionStatusActive, enum.TransactionStatusVoid},
		{enum.TransactionStatusCheckout, enum.TransactionStatusVoid},
		{enum.TransactionStatusPayment, enum.TransactionStatusVoid},
		{enum.TransactionStatusActive, enum.TransactionStatusSuspended},
		{enum.TransactionStatusSuspended, enum.TransactionStatusActive},
	}
	for _, pair := range allowed {
		assert.True(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	denied := [][2]enum.TransactionStatus{
		{enum.TransactionStatusActive, enum.TransactionStatusPayment},
		{enum.TransactionStatusComplete, enum.TransactionStatusActive},
		{enum.TransactionStatusVoid, enum.TransactionStatusActive},
		{enum.TransactionStatusCheckout, enum.TransactionStatusSuspended},
		{enum.TransactionStatusPayment, enum.TransactionStatusActive},
	}
	for _, pair := range denied {
		assert.False(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
}

func TestCanStart(t *testing.T) {
	assert.True(t, CanStart(enum.TransactionStatusIdle, false))
	assert.True(t, CanStart(enum.TransactionStatusComplete, true))
	assert.True(t, CanStart(enum.TransactionStatusVoid, true))
	assert.True(t, CanStart(enum.TransactionStatusActive, false))
	assert.False(t, CanStart(enum.TransactionStatusActive, true))
	assert.False(t, CanStart(enum.TransactionStatusPayment, true))
}
