package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/pagination"
)

// JournalService records and queries finished transactions
type JournalService struct {
	journalRepo repository.JournalRepository
	now         func() time.Time
}

// NewJournalService creates a new journal service
func NewJournalService(journalRepo repository.JournalRepository) *JournalService {
	return &JournalService{
		journalRepo: journalRepo,
		now:         time.Now,
	}
}

// Record journals a completed or voided transaction
func (s *JournalService) Record(ctx context.Context, tx entity.Transaction, receiptNumber, orderID string) error {
	if !tx.Status.IsTerminal() {
		return apperror.NewPreconditionError(fmt.Sprintf("Only finished transactions are journaled, got %s", tx.Status))
	}

	entry, err := entity.NewJournalEntry(tx, receiptNumber, orderID, s.now())
	if err != nil {
		return err
	}

	if err := s.journalRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to journal transaction %s: %w", tx.ID, err)
	}
	return nil
}

// List returns the journal of the store in ctx
func (s *JournalService) List(ctx context.Context, params *repository.JournalFilterParams) (*pagination.PaginatedResult[entity.JournalEntry], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	entries, total, err := s.journalRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(entries, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// Get returns one journal entry of the store in ctx
func (s *JournalService) Get(ctx context.Context, transactionID string) (*entity.JournalEntry, error) {
	entry, err := s.journalRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperror.NewNotFoundError("Journal entry")
	}
	return entry, nil
}

// GetTransaction returns the full snapshot of a journaled transaction
func (s *JournalService) GetTransaction(ctx context.Context, transactionID string) (*entity.JournalEntry, entity.Transaction, error) {
	entry, err := s.Get(ctx, transactionID)
	if err != nil {
		return nil, entity.Transaction{}, err
	}
	tx, err := entry.Transaction()
	if err != nil {
		return nil, entity.Transaction{}, err
	}
	return entry, tx, nil
}
