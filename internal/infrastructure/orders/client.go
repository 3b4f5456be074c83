package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the transaction id so the order service can
// drop a second submission of the same sale
const IdempotencyKeyHeader = "Idempotency-Key"

type orderItem struct {
	LineID          string          `json:"lineId"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	DiscountPerItem decimal.Decimal `json:"discountPerItem"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
	MarkdownReason  string          `json:"markdownReason,omitempty"`
}

type orderPayment struct {
	PaymentID      string             `json:"paymentId"`
	Method         enum.PaymentMethod `json:"method"`
	Amount         decimal.Decimal    `json:"amount"`
	Timestamp      time.Time          `json:"timestamp"`
	CardBrand      string             `json:"cardBrand,omitempty"`
	CardLast4      string             `json:"cardLast4,omitempty"`
	AuthCode       string             `json:"authCode,omitempty"`
	GiftCardNumber string             `json:"giftCardNumber,omitempty"`
	CashTendered   *decimal.Decimal   `json:"cashTendered,omitempty"`
	ChangeDue      *decimal.Decimal   `json:"changeDue,omitempty"`
}

type orderTotals struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountTotal    decimal.Decimal `json:"discountTotal"`
	TaxTotal         decimal.Decimal `json:"taxTotal"`
	FulfillmentTotal decimal.Decimal `json:"fulfillmentTotal"`
	GrandTotal       decimal.Decimal `json:"grandTotal"`
	AmountPaid       decimal.Decimal `json:"amountPaid"`
}

type orderFulfillment struct {
	Type    enum.FulfillmentType `json:"type"`
	Cost    decimal.Decimal      `json:"cost"`
	Address string               `json:"address,omitempty"`
	Notes   string               `json:"notes,omitempty"`
}

// OrderRequest is the body of POST /api/orders
type OrderRequest struct {
	TransactionID string            `json:"transactionId"`
	StoreNumber   string            `json:"storeNumber"`
	EmployeeID    string            `json:"employeeId"`
	CustomerID    *string           `json:"customerId"`
	Items         []orderItem       `json:"items"`
	Payments      []orderPayment    `json:"payments"`
	Fulfillment   *orderFulfillment `json:"fulfillment,omitempty"`
	Totals        orderTotals       `json:"totals"`
	LoyaltyPoints int64             `json:"loyaltyPoints"`
}

// OrderResult is what the order service reports back; both fields are optional
type OrderResult struct {
	OrderID       string `json:"orderId"`
	ReceiptNumber string `json:"receiptNumber"`
}

// NewOrderRequest builds the submission payload for tx
func NewOrderRequest(tx entity.Transaction) OrderRequest {
	req := OrderRequest{
		TransactionID: tx.ID,
		StoreNumber:   tx.StoreNumber,
		EmployeeID:    tx.EmployeeID,
		CustomerID:    tx.CustomerID(),
		Items:         make([]orderItem, 0, len(tx.Items)),
		Payments:      make([]orderPayment, 0, len(tx.Payments)),
		Totals: orderTotals{
			Subtotal:         tx.Subtotal,
			DiscountTotal:    tx.DiscountTotal,
			TaxTotal:         tx.TaxTotal,
			FulfillmentTotal: tx.FulfillmentTotal,
			GrandTotal:       tx.GrandTotal,
			AmountPaid:       tx.AmountPaid,
		},
		LoyaltyPoints: tx.LoyaltyPoints,
	}

	for _, item := range tx.Items {
		oi := orderItem{
			LineID:          item.LineID,
			SKU:             item.SKU,
			Name:            item.Name,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			OriginalPrice:   item.OriginalPrice,
			DiscountPerItem: item.DiscountPerItem,
			LineTotal:       item.LineTotal,
		}
		if item.Markdown != nil {
			oi.MarkdownReason = item.Markdown.Reason
		}
		req.Items = append(req.Items, oi)
	}

	for _, p := range tx.Payments {
		req.Payments = append(req.Payments, orderPayment{
			PaymentID:      p.PaymentID,
			Method:         p.Method,
			Amount:         p.Amount,
			Timestamp:      p.Timestamp,
			CardBrand:      p.CardBrand,
			CardLast4:      p.CardLast4,
			AuthCode:       p.AuthCode,
			GiftCardNumber: p.GiftCardNumber,
			CashTendered:   p.CashTendered,
			ChangeDue:      p.ChangeDue,
		})
	}

	if tx.Fulfillment != nil {
		req.Fulfillment = &orderFulfillment{
			Type:    tx.Fulfillment.Type,
			Cost:    tx.Fulfillment.Cost,
			Address: tx.Fulfillment.Address,
			Notes:   tx.Fulfillment.Notes,
		}
	}

	return req
}

// Client submits completed transactions to the order service
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates an order service client
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// SubmitOrder posts tx to the order service. Any non-2xx answer is an error;
// the caller decides whether to try again.
func (c *Client) SubmitOrder(ctx context.Context, tx entity.Transaction) (*OrderResult, error) {
	body, err := json.Marshal(NewOrderRequest(tx))
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(IdempotencyKeyHeader, tx.ID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order submission failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read order response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("order service returned status %d", resp.StatusCode)
	}

	result := &OrderResult{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			// the order was accepted; a malformed body only loses the ids
			c.log.Warn("unreadable order response", zap.String("transaction_id", tx.ID), zap.Error(err))
			return &OrderResult{}, nil
		}
	}

	c.log.Info("order submitted",
		zap.String("transaction_id", tx.ID),
		zap.String("order_id", result.OrderID),
		zap.String("receipt_number", result.ReceiptNumber),
	)
	return result, nil
}
