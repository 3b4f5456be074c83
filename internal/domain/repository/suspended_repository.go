package repository

import (
	"context"
	"errors"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
)

// ErrSuspendedNotFound is returned by Delete when no parked transaction matches
var ErrSuspendedNotFound = errors.New("suspended transaction not found")

// SuspendedTransactionRepository parks transactions between suspend and resume.
// Implementations exist for Postgres, Redis and process memory.
type SuspendedTransactionRepository interface {
	Save(ctx context.Context, suspended *entity.SuspendedTransaction) error
	// Get returns nil, nil when the transaction is not parked in the store
	Get(ctx context.Context, storeNumber, transactionID string) (*entity.SuspendedTransaction, error)
	// ListByStore returns the store's parked transactions, oldest first
	ListByStore(ctx context.Context, storeNumber string) ([]entity.SuspendedTransaction, error)
	Delete(ctx context.Context, storeNumber, transactionID string) error
}
