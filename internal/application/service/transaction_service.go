package service

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"go.uber.org/zap"
)

// TransactionService hands out one Register per employee terminal
type TransactionService struct {
	deps RegisterDeps

	mu        sync.RWMutex
	registers map[string]*Register
}

// NewTransactionService creates a new transaction service
func NewTransactionService(deps RegisterDeps) *TransactionService {
	deps.withDefaults()
	return &TransactionService{
		deps:      deps,
		registers: make(map[string]*Register),
	}
}

func registerKey(employeeID, terminalID string) string {
	return employeeID + "/" + terminalID
}

// Register returns the register for op at terminalID, creating it on first use.
// Handing a register out counts as using it, so PruneIdle cannot drop it
// between the lookup and the caller's first operation.
func (s *TransactionService) Register(op entity.Operator, terminalID string) *Register {
	key := registerKey(op.EmployeeID, terminalID)

	s.mu.RLock()
	reg, ok := s.registers[key]
	if ok {
		reg.touch()
	}
	s.mu.RUnlock()
	if ok {
		return reg
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if reg, ok := s.registers[key]; ok {
		reg.touch()
		return reg
	}
	reg = NewRegister(s.deps)
	s.registers[key] = reg
	return reg
}

// ListSuspended returns the store's parked transactions, oldest first
func (s *TransactionService) ListSuspended(ctx context.Context, storeNumber string) ([]entity.SuspendedTransaction, error) {
	return s.deps.Suspended.ListByStore(ctx, storeNumber)
}

// Suspended exposes the parked-transaction store
func (s *TransactionService) Suspended() repository.SuspendedTransactionRepository {
	return s.deps.Suspended
}

// PruneIdle drops registers that have no open sale and have not been used
// for maxIdle. It returns how many were dropped.
func (s *TransactionService) PruneIdle(maxIdle time.Duration) int {
	cutoff := s.deps.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for key, reg := range s.registers {
		// a register mid-operation is in use whatever lastUsed says
		if !reg.opMu.TryLock() {
			continue
		}
		if since, idle := reg.idleSince(); idle && since.Before(cutoff) {
			delete(s.registers, key)
			pruned++
		}
		reg.opMu.Unlock()
	}
	if pruned > 0 {
		s.deps.Logger.Info("pruned idle registers", zap.Int("count", pruned))
	}
	return pruned
}

// Count returns the number of live registers
func (s *TransactionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registers)
}
