package repository

import (
	"context"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/pkg/pagination"
)

// JournalRepository defines the interface for the transaction journal
type JournalRepository interface {
	// Create appends an entry; a transaction id may only be journaled once
	Create(ctx context.Context, entry *entity.JournalEntry) error
	GetByTransactionID(ctx context.Context, transactionID string) (*entity.JournalEntry, error)
	List(ctx context.Context, params *JournalFilterParams) ([]entity.JournalEntry, int64, error)
}

// JournalFilterParams contains filtering parameters for journal queries
type JournalFilterParams struct {
	Pagination  *pagination.PaginationParams
	StoreNumber string
	EmployeeID  string
	Status      enum.TransactionStatus
}
