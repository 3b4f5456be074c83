package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionServiceRegisterPerTerminal(t *testing.T) {
	h := newHarness()
	svc := NewTransactionService(h.deps)

	a := svc.Register(operator, "T1")
	assert.Same(t, a, svc.Register(operator, "T1"))
	assert.NotSame(t, a, svc.Register(operator, "T2"))
	assert.NotSame(t, a, svc.Register(entity.Operator{EmployeeID: "E200", StoreNumber: "0042"}, "T1"))
	assert.Equal(t, 3, svc.Count())
}

func TestTransactionServicePruneIdle(t *testing.T) {
	h := newHarness()
	now := clock
	h.deps.Now = func() time.Time { return now }
	svc := NewTransactionService(h.deps)
	ctx := context.Background()

	busy := svc.Register(operator, "T1")
	_, err := busy.StartTransaction(ctx, operator)
	require.NoError(t, err)
	_, err = busy.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)

	svc.Register(operator, "T2")

	now = clock.Add(2 * time.Hour)
	assert.Equal(t, 1, svc.PruneIdle(time.Hour))
	assert.Equal(t, 1, svc.Count())
	assert.Same(t, busy, svc.Register(operator, "T1"))
}

func TestTransactionServicePruneKeepsRegistersInUse(t *testing.T) {
	h := newHarness()
	now := clock
	h.deps.Now = func() time.Time { return now }
	svc := NewTransactionService(h.deps)

	fetched := svc.Register(operator, "T1")
	busy := svc.Register(operator, "T2")
	svc.Register(operator, "T3")

	now = clock.Add(2 * time.Hour)

	// a handler just looked T1 up and has not dispatched yet
	assert.Same(t, fetched, svc.Register(operator, "T1"))

	// T2 is in the middle of an operation
	busy.opMu.Lock()
	assert.Equal(t, 1, svc.PruneIdle(time.Hour))
	busy.opMu.Unlock()

	assert.Equal(t, 2, svc.Count())
	assert.Same(t, fetched, svc.Register(operator, "T1"))
	assert.Same(t, busy, svc.Register(operator, "T2"))
}

func TestTransactionServiceListSuspended(t *testing.T) {
	h := newHarness()
	svc := NewTransactionService(h.deps)
	ctx := context.Background()

	reg := svc.Register(operator, "T1")
	_, err := reg.StartTransaction(ctx, operator)
	require.NoError(t, err)
	_, err = reg.AddItem(ctx, "SKU-002", 1)
	require.NoError(t, err)
	_, err = reg.SuspendTransaction(ctx)
	require.NoError(t, err)

	parked, err := svc.ListSuspended(ctx, "0042")
	require.NoError(t, err)
	require.Len(t, parked, 1)
	assertDec(t, "32.40", parked[0].GrandTotal)

	parked, err = svc.ListSuspended(ctx, "0099")
	require.NoError(t, err)
	assert.Empty(t, parked)
}
