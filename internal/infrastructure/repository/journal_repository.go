package repository

import (
	"context"
	"errors"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
	"gorm.io/gorm"
)

type journalRepository struct {
	db *gorm.DB
}

// NewJournalRepository creates a new transaction journal repository
func NewJournalRepository(db *gorm.DB) domainRepo.JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) Create(ctx context.Context, entry *entity.JournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *journalRepository) GetByTransactionID(ctx context.Context, transactionID string) (*entity.JournalEntry, error) {
	var entry entity.JournalEntry
	err := r.db.WithContext(ctx).
		Scopes(StoreScope(ctx)).
		First(&entry, "transaction_id = ?", transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *journalRepository) List(ctx context.Context, params *domainRepo.JournalFilterParams) ([]entity.JournalEntry, int64, error) {
	var entries []entity.JournalEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.JournalEntry{}).Scopes(StoreScope(ctx))

	if params.EmployeeID != "" {
		query = query.Where("employee_id = ?", params.EmployeeID)
	}

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("recorded_at DESC").
		Find(&entries).Error

	return entries, total, err
}
