package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
)

// RedisSuspendedRepository stores each parked transaction as a JSON value under
// suspended:<store>:<id> and indexes ids per store in the set suspended:<store>.
type RedisSuspendedRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSuspendedRepository creates a store backed by Redis. A zero ttl
// keeps parked transactions until they are resumed.
func NewRedisSuspendedRepository(client *redis.Client, ttl time.Duration) *RedisSuspendedRepository {
	return &RedisSuspendedRepository{client: client, ttl: ttl}
}

var _ domainRepo.SuspendedTransactionRepository = (*RedisSuspendedRepository)(nil)

func suspendedKey(storeNumber, transactionID string) string {
	return fmt.Sprintf("suspended:%s:%s", storeNumber, transactionID)
}

func suspendedIndexKey(storeNumber string) string {
	return fmt.Sprintf("suspended:%s", storeNumber)
}

func (r *RedisSuspendedRepository) Save(ctx context.Context, suspended *entity.SuspendedTransaction) error {
	data, err := json.Marshal(redisSuspended{
		SuspendedTransaction: *suspended,
		Snapshot:             suspended.Snapshot,
	})
	if err != nil {
		return fmt.Errorf("failed to encode suspended transaction: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, suspendedKey(suspended.StoreNumber, suspended.TransactionID), data, r.ttl)
	pipe.SAdd(ctx, suspendedIndexKey(suspended.StoreNumber), suspended.TransactionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis suspend error: %w", err)
	}
	return nil
}

func (r *RedisSuspendedRepository) Get(ctx context.Context, storeNumber, transactionID string) (*entity.SuspendedTransaction, error) {
	data, err := r.client.Get(ctx, suspendedKey(storeNumber, transactionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}
	return decodeRedisSuspended(data)
}

func (r *RedisSuspendedRepository) ListByStore(ctx context.Context, storeNumber string) ([]entity.SuspendedTransaction, error) {
	ids, err := r.client.SMembers(ctx, suspendedIndexKey(storeNumber)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis index error: %w", err)
	}
	if len(ids) == 0 {
		return []entity.SuspendedTransaction{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = suspendedKey(storeNumber, id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget error: %w", err)
	}

	out := make([]entity.SuspendedTransaction, 0, len(values))
	var expired []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// value expired but the index still lists it
			expired = append(expired, ids[i])
			continue
		}
		suspended, err := decodeRedisSuspended([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, *suspended)
	}

	if len(expired) > 0 {
		r.client.SRem(ctx, suspendedIndexKey(storeNumber), expired...)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SuspendedAt.Before(out[j].SuspendedAt)
	})
	return out, nil
}

func (r *RedisSuspendedRepository) Delete(ctx context.Context, storeNumber, transactionID string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, suspendedKey(storeNumber, transactionID))
	pipe.SRem(ctx, suspendedIndexKey(storeNumber), transactionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete error: %w", err)
	}
	if del.Val() == 0 {
		return domainRepo.ErrSuspendedNotFound
	}
	return nil
}

// redisSuspended carries the snapshot that the entity hides from JSON
type redisSuspended struct {
	entity.SuspendedTransaction
	Snapshot string `json:"snapshot"`
}

func decodeRedisSuspended(data []byte) (*entity.SuspendedTransaction, error) {
	var stored redisSuspended
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode suspended transaction: %w", err)
	}
	suspended := stored.SuspendedTransaction
	suspended.Snapshot = stored.Snapshot
	return &suspended, nil
}
