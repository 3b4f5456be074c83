package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
)

// memorySuspendedRepository keeps parked transactions in process memory.
// Contents are lost on restart; intended for single-node and test setups.
type memorySuspendedRepository struct {
	mu     sync.RWMutex
	stores map[string]map[string]entity.SuspendedTransaction
}

// NewMemorySuspendedRepository creates an in-memory suspended transaction store
func NewMemorySuspendedRepository() domainRepo.SuspendedTransactionRepository {
	return &memorySuspendedRepository{
		stores: make(map[string]map[string]entity.SuspendedTransaction),
	}
}

func (r *memorySuspendedRepository) Save(ctx context.Context, suspended *entity.SuspendedTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[suspended.StoreNumber]
	if !ok {
		store = make(map[string]entity.SuspendedTransaction)
		r.stores[suspended.StoreNumber] = store
	}
	store[suspended.TransactionID] = *suspended
	return nil
}

func (r *memorySuspendedRepository) Get(ctx context.Context, storeNumber, transactionID string) (*entity.SuspendedTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	suspended, ok := r.stores[storeNumber][transactionID]
	if !ok {
		return nil, nil
	}
	return &suspended, nil
}

func (r *memorySuspendedRepository) ListByStore(ctx context.Context, storeNumber string) ([]entity.SuspendedTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.SuspendedTransaction, 0, len(r.stores[storeNumber]))
	for _, suspended := range r.stores[storeNumber] {
		out = append(out, suspended)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SuspendedAt.Before(out[j].SuspendedAt)
	})
	return out, nil
}

func (r *memorySuspendedRepository) Delete(ctx context.Context, storeNumber, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[storeNumber][transactionID]; !ok {
		return domainRepo.ErrSuspendedNotFound
	}
	delete(r.stores[storeNumber], transactionID)
	return nil
}
