package repository

import (
	"context"
	"errors"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type suspendedRepository struct {
	db *gorm.DB
}

// NewSuspendedRepository creates a Postgres-backed suspended transaction store
func NewSuspendedRepository(db *gorm.DB) domainRepo.SuspendedTransactionRepository {
	return &suspendedRepository{db: db}
}

func (r *suspendedRepository) Save(ctx context.Context, suspended *entity.SuspendedTransaction) error {
	// re-suspending the same transaction replaces the parked snapshot
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(suspended).Error
}

func (r *suspendedRepository) Get(ctx context.Context, storeNumber, transactionID string) (*entity.SuspendedTransaction, error) {
	var suspended entity.SuspendedTransaction
	err := r.db.WithContext(ctx).
		Where("store_number = ?", storeNumber).
		First(&suspended, "transaction_id = ?", transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &suspended, err
}

func (r *suspendedRepository) ListByStore(ctx context.Context, storeNumber string) ([]entity.SuspendedTransaction, error) {
	var suspended []entity.SuspendedTransaction
	err := r.db.WithContext(ctx).
		Where("store_number = ?", storeNumber).
		Order("suspended_at ASC").
		Find(&suspended).Error
	return suspended, err
}

func (r *suspendedRepository) Delete(ctx context.Context, storeNumber, transactionID string) error {
	result := r.db.WithContext(ctx).
		Where("store_number = ? AND transaction_id = ?", storeNumber, transactionID).
		Delete(&entity.SuspendedTransaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrSuspendedNotFound
	}
	return nil
}
