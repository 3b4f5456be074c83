package repository

import (
	"context"

	"gorm.io/gorm"
)

type ctxKey string

const (
	// StoreNumberKey is the context key for the operator's store number
	StoreNumberKey ctxKey = "store_number"
)

// StoreScope returns a GORM scope that filters by the store in ctx.
// Without a store in context the scope matches nothing.
func StoreScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		storeNumber, ok := GetStoreNumber(ctx)
		if !ok {
			// Fail-safe: never leak another store's records
			return db.Where("1 = 0")
		}
		return db.Where("store_number = ?", storeNumber)
	}
}

// WithStore adds the store number to context
func WithStore(ctx context.Context, storeNumber string) context.Context {
	return context.WithValue(ctx, StoreNumberKey, storeNumber)
}

// GetStoreNumber extracts the store number from context
func GetStoreNumber(ctx context.Context) (string, bool) {
	storeNumber, ok := ctx.Value(StoreNumberKey).(string)
	return storeNumber, ok && storeNumber != ""
}
