package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// JournalEntry is the durable record of a finished (completed or voided) transaction
type JournalEntry struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID string                 `gorm:"size:64;uniqueIndex;not null" json:"transaction_id"`
	StoreNumber   string                 `gorm:"size:32;not null;index" json:"store_number"`
	EmployeeID    string                 `gorm:"size:64;not null;index" json:"employee_id"`
	CustomerID    *string                `gorm:"size:64;index" json:"customer_id,omitempty"`
	Status        enum.TransactionStatus `gorm:"size:16;not null;index" json:"status"`
	ReceiptNumber string                 `gorm:"size:64" json:"receipt_number,omitempty"`
	OrderID       string                 `gorm:"size:64" json:"order_id,omitempty"`
	ItemCount     int                    `gorm:"not null" json:"item_count"`
	Subtotal      decimal.Decimal        `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	DiscountTotal decimal.Decimal        `gorm:"type:numeric(12,2);not null" json:"discount_total"`
	TaxTotal      decimal.Decimal        `gorm:"type:numeric(12,2);not null" json:"tax_total"`
	GrandTotal    decimal.Decimal        `gorm:"type:numeric(12,2);not null" json:"grand_total"`
	AmountPaid    decimal.Decimal        `gorm:"type:numeric(12,2);not null" json:"amount_paid"`
	LoyaltyPoints int64                  `gorm:"not null" json:"loyalty_points"`
	VoidReason    string                 `gorm:"size:255" json:"void_reason,omitempty"`
	Snapshot      string                 `gorm:"type:jsonb;not null" json:"-"`
	RecordedAt    time.Time              `gorm:"not null;index" json:"recorded_at"`
	CreatedAt     time.Time              `json:"created_at"`
}

// NewJournalEntry builds an entry from a finished transaction snapshot
func NewJournalEntry(tx Transaction, receiptNumber, orderID string, recordedAt time.Time) (*JournalEntry, error) {
	snapshot, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction snapshot: %w", err)
	}

	return &JournalEntry{
		TransactionID: tx.ID,
		StoreNumber:   tx.StoreNumber,
		EmployeeID:    tx.EmployeeID,
		CustomerID:    tx.CustomerID(),
		Status:        tx.Status,
		ReceiptNumber: receiptNumber,
		OrderID:       orderID,
		ItemCount:     tx.ItemCount(),
		Subtotal:      tx.Subtotal,
		DiscountTotal: tx.DiscountTotal,
		TaxTotal:      tx.TaxTotal,
		GrandTotal:    tx.GrandTotal,
		AmountPaid:    tx.AmountPaid,
		LoyaltyPoints: tx.LoyaltyPoints,
		VoidReason:    tx.VoidReason,
		Snapshot:      string(snapshot),
		RecordedAt:    recordedAt,
	}, nil
}

// Transaction decodes the stored snapshot
func (j *JournalEntry) Transaction() (Transaction, error) {
	var tx Transaction
	if err := json.Unmarshal([]byte(j.Snapshot), &tx); err != nil {
		return Transaction{}, fmt.Errorf("failed to decode journal snapshot %s: %w", j.TransactionID, err)
	}
	return tx, nil
}

// BeforeCreate generates a UUID before creating a new journal entry
func (j *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the JournalEntry model
func (JournalEntry) TableName() string {
	return "transaction_journal"
}
