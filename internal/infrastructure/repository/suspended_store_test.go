package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parked(t *testing.T, id string, at time.Time) *entity.SuspendedTransaction {
	t.Helper()
	tx := sampleTransaction()
	tx.ID = id
	s, err := entity.NewSuspendedTransaction(tx, at)
	require.NoError(t, err)
	return s
}

// exerciseSuspendedStore runs the behaviour every backend must share
func exerciseSuspendedStore(t *testing.T, repo domainRepo.SuspendedTransactionRepository) {
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, parked(t, "TXN-0042-00000002", base.Add(time.Minute))))
	require.NoError(t, repo.Save(ctx, parked(t, "TXN-0042-00000001", base)))

	list, err := repo.ListByStore(ctx, "0042")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "TXN-0042-00000001", list[0].TransactionID)
	assert.Equal(t, "TXN-0042-00000002", list[1].TransactionID)

	other, err := repo.ListByStore(ctx, "0099")
	require.NoError(t, err)
	assert.Empty(t, other)

	got, err := repo.Get(ctx, "0042", "TXN-0042-00000001")
	require.NoError(t, err)
	require.NotNil(t, got)
	restored, err := got.Restore()
	require.NoError(t, err)
	assert.Equal(t, "TXN-0042-00000001", restored.ID)
	require.Len(t, restored.Items, 1)

	// wrong store does not see it
	got, err = repo.Get(ctx, "0099", "TXN-0042-00000001")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Delete(ctx, "0042", "TXN-0042-00000001"))
	assert.ErrorIs(t, repo.Delete(ctx, "0042", "TXN-0042-00000001"), domainRepo.ErrSuspendedNotFound)

	list, err = repo.ListByStore(ctx, "0042")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestMemorySuspendedRepository(t *testing.T) {
	exerciseSuspendedStore(t, NewMemorySuspendedRepository())
}

// TestRedisSuspendedRepository_Integration requires a running Redis.
// We skip if connection fails.
func TestRedisSuspendedRepository_Integration(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Skipping Redis integration test: redis not available")
	}
	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	exerciseSuspendedStore(t, NewRedisSuspendedRepository(client, time.Hour))
}
