package entity

import "time"

// StoreInfo holds the store header printed at the top of a receipt.
type StoreInfo struct {
	StoreNumber string `json:"store_number"`
	StoreName   string `json:"store_name"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	TaxID       string `json:"tax_id,omitempty"`
}

// TransactionReceipt is a value object built when a sale completes.
// It is NOT a database entity; the journal keeps the snapshot it was built from.
type TransactionReceipt struct {
	Store         StoreInfo   `json:"store"`
	ReceiptNumber string      `json:"receipt_number"`
	OrderID       string      `json:"order_id,omitempty"`
	Transaction   Transaction `json:"transaction"`
	CompletedAt   time.Time   `json:"completed_at"`
}
