package entity

import (
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func init() {
	// Money goes over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Operator is the signed-in employee driving a register
type Operator struct {
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	StoreNumber  string   `json:"store_number"`
	Roles        []string `json:"roles,omitempty"`
	Permissions  []string `json:"permissions,omitempty"`
}

// MarkdownInfo records an employee-applied price reduction on one line
type MarkdownInfo struct {
	Type      enum.MarkdownType `json:"type"`
	Value     decimal.Decimal   `json:"value"`
	Reason    string            `json:"reason"`
	AppliedBy string            `json:"applied_by"`
	AppliedAt time.Time         `json:"applied_at"`
}

// LineItem is one SKU/quantity/price entry in a transaction
type LineItem struct {
	LineID          string          `json:"line_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountPerItem decimal.Decimal `json:"discount_per_item"`
	Markdown        *MarkdownInfo   `json:"markdown,omitempty"`
	LineTotal       decimal.Decimal `json:"line_total"`
	// RegularPrice is the catalog list price of an item scanned on sale.
	// It is informational only; markdowns work from OriginalPrice.
	RegularPrice *decimal.Decimal `json:"regular_price,omitempty"`
}

// HasMarkdown reports whether a markdown is applied to the line
func (li *LineItem) HasMarkdown() bool {
	return li.Markdown != nil
}

// CustomerSnapshot is the loyalty view of a customer attached to a sale.
// The multiplier is captured at attach time and not looked up again.
type CustomerSnapshot struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Email             string          `json:"email,omitempty"`
	LoyaltyTier       string          `json:"loyalty_tier,omitempty"`
	LoyaltyMultiplier decimal.Decimal `json:"loyalty_multiplier"`
	PointsBalance     int64           `json:"points_balance"`
}

// FulfillmentInfo describes how the goods reach the customer
type FulfillmentInfo struct {
	Type    enum.FulfillmentType `json:"type"`
	Cost    decimal.Decimal      `json:"cost"`
	Address string               `json:"address,omitempty"`
	Notes   string               `json:"notes,omitempty"`
}

// PaymentRecord is one tender applied to a transaction
type PaymentRecord struct {
	PaymentID      string             `json:"payment_id"`
	Method         enum.PaymentMethod `json:"method"`
	Amount         decimal.Decimal    `json:"amount"`
	Timestamp      time.Time          `json:"timestamp"`
	CardBrand      string             `json:"card_brand,omitempty"`
	CardLast4      string             `json:"card_last4,omitempty"`
	AuthCode       string             `json:"auth_code,omitempty"`
	CashTendered   *decimal.Decimal   `json:"cash_tendered,omitempty"`
	ChangeDue      *decimal.Decimal   `json:"change_due,omitempty"`
	GiftCardNumber string             `json:"gift_card_number,omitempty"`
}

// Transaction is the full snapshot of a register sale. Totals, payments due
// and loyalty points are derived from items, fulfillment and payments.
type Transaction struct {
	ID           string                 `json:"id"`
	StoreNumber  string                 `json:"store_number"`
	EmployeeID   string                 `json:"employee_id"`
	EmployeeName string                 `json:"employee_name"`
	Status       enum.TransactionStatus `json:"status"`

	Items []LineItem `json:"items"`

	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountTotal    decimal.Decimal `json:"discount_total"`
	TaxTotal         decimal.Decimal `json:"tax_total"`
	FulfillmentTotal decimal.Decimal `json:"fulfillment_total"`
	GrandTotal       decimal.Decimal `json:"grand_total"`

	Customer    *CustomerSnapshot `json:"customer,omitempty"`
	Fulfillment *FulfillmentInfo  `json:"fulfillment,omitempty"`

	Payments   []PaymentRecord `json:"payments"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	AmountDue  decimal.Decimal `json:"amount_due"`

	LoyaltyPoints int64 `json:"loyalty_points"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	VoidedAt    *time.Time `json:"voided_at,omitempty"`
	VoidReason  string     `json:"void_reason,omitempty"`
}

// Clone returns a deep copy that shares no slices or pointers with t
func (t Transaction) Clone() Transaction {
	out := t

	if t.Items != nil {
		out.Items = make([]LineItem, len(t.Items))
		for i, item := range t.Items {
			if item.Markdown != nil {
				md := *item.Markdown
				item.Markdown = &md
			}
			if item.RegularPrice != nil {
				v := *item.RegularPrice
				item.RegularPrice = &v
			}
			out.Items[i] = item
		}
	}

	if t.Payments != nil {
		out.Payments = make([]PaymentRecord, len(t.Payments))
		for i, p := range t.Payments {
			if p.CashTendered != nil {
				v := *p.CashTendered
				p.CashTendered = &v
			}
			if p.ChangeDue != nil {
				v := *p.ChangeDue
				p.ChangeDue = &v
			}
			out.Payments[i] = p
		}
	}

	if t.Customer != nil {
		c := *t.Customer
		out.Customer = &c
	}
	if t.Fulfillment != nil {
		f := *t.Fulfillment
		out.Fulfillment = &f
	}
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		out.CompletedAt = &v
	}
	if t.VoidedAt != nil {
		v := *t.VoidedAt
		out.VoidedAt = &v
	}

	return out
}

// HasItems reports whether at least one line is on the transaction
func (t *Transaction) HasItems() bool {
	return len(t.Items) > 0
}

// ItemCount returns the number of units across all lines
func (t *Transaction) ItemCount() int {
	count := 0
	for _, item := range t.Items {
		count += item.Quantity
	}
	return count
}

// FindItem returns the index of the line with lineID, or -1
func (t *Transaction) FindItem(lineID string) int {
	for i := range t.Items {
		if t.Items[i].LineID == lineID {
			return i
		}
	}
	return -1
}

// FindPayment returns the index of the payment with paymentID, or -1
func (t *Transaction) FindPayment(paymentID string) int {
	for i := range t.Payments {
		if t.Payments[i].PaymentID == paymentID {
			return i
		}
	}
	return -1
}

// CustomerID returns the attached customer's id, if any
func (t *Transaction) CustomerID() *string {
	if t.Customer == nil || t.Customer.ID == "" {
		return nil
	}
	id := t.Customer.ID
	return &id
}
