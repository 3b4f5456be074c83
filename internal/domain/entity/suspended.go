package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SuspendedTransaction is a parked transaction waiting to be resumed
type SuspendedTransaction struct {
	TransactionID string          `gorm:"size:64;primaryKey" json:"transaction_id"`
	StoreNumber   string          `gorm:"size:32;not null;index" json:"store_number"`
	EmployeeID    string          `gorm:"size:64;not null" json:"employee_id"`
	EmployeeName  string          `gorm:"size:255" json:"employee_name"`
	ItemCount     int             `gorm:"not null" json:"item_count"`
	GrandTotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"grand_total"`
	Snapshot      string          `gorm:"type:jsonb;not null" json:"-"`
	SuspendedAt   time.Time       `gorm:"not null;index" json:"suspended_at"`
}

// NewSuspendedTransaction captures tx for later resumption
func NewSuspendedTransaction(tx Transaction, suspendedAt time.Time) (*SuspendedTransaction, error) {
	snapshot, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction snapshot: %w", err)
	}

	return &SuspendedTransaction{
		TransactionID: tx.ID,
		StoreNumber:   tx.StoreNumber,
		EmployeeID:    tx.EmployeeID,
		EmployeeName:  tx.EmployeeName,
		ItemCount:     tx.ItemCount(),
		GrandTotal:    tx.GrandTotal,
		Snapshot:      string(snapshot),
		SuspendedAt:   suspendedAt,
	}, nil
}

// Restore decodes the parked snapshot
func (s *SuspendedTransaction) Restore() (Transaction, error) {
	var tx Transaction
	if err := json.Unmarshal([]byte(s.Snapshot), &tx); err != nil {
		return Transaction{}, fmt.Errorf("failed to decode suspended transaction %s: %w", s.TransactionID, err)
	}
	return tx, nil
}

// TableName returns the table name for the SuspendedTransaction model
func (SuspendedTransaction) TableName() string {
	return "suspended_transactions"
}
