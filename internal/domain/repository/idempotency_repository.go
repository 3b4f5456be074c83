package repository

import (
	"context"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
)

// IdempotencyRepository stores the responses of completed requests so a
// repeated submit from a terminal gets the same answer
type IdempotencyRepository interface {
	// GetByKey returns the stored response for the employee's key, or nil
	GetByKey(ctx context.Context, key string, employeeID string) (*entity.IdempotencyKey, error)
	// Create stores a response; a key already stored by a concurrent request is kept
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired purges keys that expired before now and reports how many went
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
