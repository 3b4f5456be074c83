package service

import (
	"context"
	"testing"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memJournalRepo struct {
	entries []entity.JournalEntry
}

func (r *memJournalRepo) Create(ctx context.Context, entry *entity.JournalEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memJournalRepo) GetByTransactionID(ctx context.Context, transactionID string) (*entity.JournalEntry, error) {
	for i := range r.entries {
		if r.entries[i].TransactionID == transactionID {
			e := r.entries[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (r *memJournalRepo) List(ctx context.Context, params *repository.JournalFilterParams) ([]entity.JournalEntry, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

func finishedTx(status enum.TransactionStatus) entity.Transaction {
	return entity.Transaction{
		ID:          "TXN-0042-0000ABCD",
		StoreNumber: "0042",
		EmployeeID:  "E100",
		Status:      status,
		Items:       []entity.LineItem{{LineID: "l1", SKU: "SKU-001", Name: "Mug", Quantity: 2, UnitPrice: dec("20"), LineTotal: dec("40")}},
		Subtotal:    dec("40"),
		TaxTotal:    dec("3.2"),
		GrandTotal:  dec("43.2"),
		AmountPaid:  dec("43.2"),
		StartedAt:   clock,
	}
}

func TestJournalServiceRecord(t *testing.T) {
	repo := &memJournalRepo{}
	svc := NewJournalService(repo)
	ctx := context.Background()

	err := svc.Record(ctx, finishedTx(enum.TransactionStatusActive), "", "")
	assertStatus(t, err, 409)
	assert.Empty(t, repo.entries)

	require.NoError(t, svc.Record(ctx, finishedTx(enum.TransactionStatusComplete), "R-1", "ORD-1"))
	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, "R-1", entry.ReceiptNumber)
	assert.Equal(t, "ORD-1", entry.OrderID)
	assert.Equal(t, 2, entry.ItemCount)
	assertDec(t, "43.2", entry.GrandTotal)
}

func TestJournalServiceGetAndList(t *testing.T) {
	repo := &memJournalRepo{}
	svc := NewJournalService(repo)
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, finishedTx(enum.TransactionStatusVoid), "", ""))

	_, err := svc.Get(ctx, "missing")
	assertStatus(t, err, 404)

	entry, tx, err := svc.GetTransaction(ctx, "TXN-0042-0000ABCD")
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionStatusVoid, entry.Status)
	require.Len(t, tx.Items, 1)
	assert.Equal(t, "SKU-001", tx.Items[0].SKU)

	result, err := svc.List(ctx, &repository.JournalFilterParams{})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(1), result.Pagination.Total)
	assert.Equal(t, 1, result.Pagination.CurrentPage)
}
