package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/internal/infrastructure/orders"
	"github.com/sangkips/pos-terminal/internal/infrastructure/repository"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func assertStatus(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.NotNil(t, appErr, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

type fakeCatalog struct {
	mu          sync.Mutex
	products    map[string]entity.Product
	err         error
	invalidated []string
}

func (c *fakeCatalog) GetProduct(ctx context.Context, sku string) (*entity.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	p, ok := c.products[sku]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *fakeCatalog) Invalidate(skus ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, skus...)
}

type fakeOrders struct {
	result    *orders.OrderResult
	err       error
	submitted []entity.Transaction
}

func (o *fakeOrders) SubmitOrder(ctx context.Context, tx entity.Transaction) (*orders.OrderResult, error) {
	o.submitted = append(o.submitted, tx)
	if o.err != nil {
		return nil, o.err
	}
	if o.result == nil {
		return &orders.OrderResult{}, nil
	}
	return o.result, nil
}

type journaled struct {
	tx            entity.Transaction
	receiptNumber string
	orderID       string
}

type fakeJournal struct {
	entries []journaled
	err     error
}

func (j *fakeJournal) Record(ctx context.Context, tx entity.Transaction, receiptNumber, orderID string) error {
	if j.err != nil {
		return j.err
	}
	j.entries = append(j.entries, journaled{tx: tx, receiptNumber: receiptNumber, orderID: orderID})
	return nil
}

type fakeReceiptPrinter struct {
	printed []*entity.TransactionReceipt
	err     error
}

func (p *fakeReceiptPrinter) PrintReceipt(ctx context.Context, receipt *entity.TransactionReceipt) error {
	p.printed = append(p.printed, receipt)
	return p.err
}

type harness struct {
	reg     *Register
	catalog *fakeCatalog
	orders  *fakeOrders
	journal *fakeJournal
	printer *fakeReceiptPrinter
	deps    RegisterDeps
}

var operator = entity.Operator{EmployeeID: "E100", EmployeeName: "Dana", StoreNumber: "0042"}

func newHarness() *harness {
	h := &harness{
		catalog: &fakeCatalog{products: map[string]entity.Product{
			"SKU-001": {SKU: "SKU-001", Name: "Ceramic Mug", Price: dec("20.00"), AvailableQuantity: 25},
			"SKU-002": {SKU: "SKU-002", Name: "Tea Sampler", Price: dec("30.00"), AvailableQuantity: 12},
			"SKU-003": {SKU: "SKU-003", Name: "Coasters", Price: dec("8.99"), OriginalPrice: dec("11.99"), OnSale: true, AvailableQuantity: 40},
			"SKU-005": {SKU: "SKU-005", Name: "Kettle", Price: dec("89.00"), AvailableQuantity: 3},
			"SKU-006": {SKU: "SKU-006", Name: "Teapot", Price: dec("45.00"), AvailableQuantity: 0},
		}},
		orders:  &fakeOrders{result: &orders.OrderResult{OrderID: "ORD-9", ReceiptNumber: "R-100"}},
		journal: &fakeJournal{},
		printer: &fakeReceiptPrinter{},
	}
	h.deps = RegisterDeps{
		Catalog:   h.catalog,
		Orders:    h.orders,
		Suspended: repository.NewMemorySuspendedRepository(),
		Journal:   h.journal,
		Printer:   h.printer,
		AutoPrint: true,
		StoreInfo: func(storeNumber string) entity.StoreInfo {
			return entity.StoreInfo{StoreNumber: storeNumber, StoreName: "Corner Shop"}
		},
		Now: func() time.Time { return clock },
	}
	h.reg = NewRegister(h.deps)
	return h
}

func (h *harness) start(t *testing.T) entity.Transaction {
	t.Helper()
	tx, err := h.reg.StartTransaction(context.Background(), operator)
	require.NoError(t, err)
	return tx
}

// toPayment drives a started register with items to PAYMENT
func (h *harness) toPayment(t *testing.T) entity.Transaction {
	t.Helper()
	ctx := context.Background()
	_, err := h.reg.ProceedToCheckout(ctx)
	require.NoError(t, err)
	_, err = h.reg.SetFulfillment(ctx, entity.FulfillmentInfo{Type: enum.FulfillmentTypeImmediate})
	require.NoError(t, err)
	tx, err := h.reg.ProceedToPayment(ctx)
	require.NoError(t, err)
	return tx
}

func TestRegisterCompleteSale(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	tx := h.start(t)
	assert.Equal(t, enum.TransactionStatusActive, tx.Status)
	assert.Regexp(t, `^TXN-0042-[0-9A-F]{8}$`, tx.ID)

	_, err := h.reg.AddItem(ctx, "SKU-001", 2)
	require.NoError(t, err)
	tx, err = h.reg.AddItem(ctx, "SKU-002", 1)
	require.NoError(t, err)
	assertDec(t, "70.00", tx.Subtotal)
	assertDec(t, "5.60", tx.TaxTotal)
	assertDec(t, "75.60", tx.GrandTotal)

	_, err = h.reg.SetCustomer(ctx, entity.CustomerSnapshot{ID: "C7", Name: "Robin", LoyaltyMultiplier: dec("1.5")})
	require.NoError(t, err)

	tx = h.toPayment(t)
	assertDec(t, "75.60", tx.AmountDue)

	tx, err = h.reg.AddPayment(ctx, PaymentInput{Method: enum.PaymentMethodCredit, Amount: dec("75.60"), CardBrand: "VISA", CardLast4: "4242"})
	require.NoError(t, err)
	assertDec(t, "0", tx.AmountDue)

	receipt, err := h.reg.CompleteTransaction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "R-100", receipt.ReceiptNumber)
	assert.Equal(t, "ORD-9", receipt.OrderID)
	assert.Equal(t, "Corner Shop", receipt.Store.StoreName)
	assert.Equal(t, enum.TransactionStatusComplete, receipt.Transaction.Status)
	assert.Equal(t, int64(105), receipt.Transaction.LoyaltyPoints)

	require.Len(t, h.orders.submitted, 1)
	assert.Equal(t, enum.TransactionStatusPayment, h.orders.submitted[0].Status)
	require.Len(t, h.journal.entries, 1)
	assert.Equal(t, "R-100", h.journal.entries[0].receiptNumber)
	assert.Len(t, h.printer.printed, 1)
	assert.ElementsMatch(t, []string{"SKU-001", "SKU-002"}, h.catalog.invalidated)

	snap := h.reg.Snapshot()
	assert.Equal(t, enum.TransactionStatusComplete, snap.Transaction.Status)
	assert.False(t, snap.IsLoading)
	assert.Empty(t, snap.Error)
	assert.Same(t, receipt, h.reg.LastReceipt())
}

func TestRegisterCompleteIsIdempotent(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)
	_, err := h.reg.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)
	h.toPayment(t)
	_, err = h.reg.AddPayment(ctx, PaymentInput{Method: enum.PaymentMethodDebit, Amount: dec("21.60")})
	require.NoError(t, err)

	first, err := h.reg.CompleteTransaction(ctx)
	require.NoError(t, err)
	second, err := h.reg.CompleteTransaction(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, h.orders.submitted, 1)
	assert.Len(t, h.journal.entries, 1)
}

func TestRegisterCompleteFailureStaysInPayment(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)
	_, err := h.reg.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)
	h.toPayment(t)
	_, err = h.reg.AddPayment(ctx, PaymentInput{Method: enum.PaymentMethodDebit, Amount: dec("21.60")})
	require.NoError(t, err)

	h.orders.err = errors.New("connection refused")
	_, err = h.reg.CompleteTransaction(ctx)
	assertStatus(t, err, 502)

	snap := h.reg.Snapshot()
	assert.Equal(t, enum.TransactionStatusPayment, snap.Transaction.Status)
	assert.Contains(t, snap.Error, "Order service unavailable")
	assert.Empty(t, h.journal.entries)

	h.orders.err = nil
	h.orders.result = &orders.OrderResult{}
	receipt, err := h.reg.CompleteTransaction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "R-1773480600000", receipt.ReceiptNumber)
	assert.Empty(t, h.reg.Snapshot().Error)
}

func TestRegisterCompleteRequiresFullPayment(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)
	_, err := h.reg.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)
	h.toPayment(t)
	_, err = h.reg.AddPayment(ctx, PaymentInput{Method: enum.PaymentMethodDebit, Amount: dec("10")})
	require.NoError(t, err)

	_, err = h.reg.CompleteTransaction(ctx)
	assertStatus(t, err, 409)
	assert.Empty(t, h.orders.submitted)
}

func TestRegisterJournalAndPrintFailuresDoNotFailCompletion(t *testing.T) {
	h := newHarness()
	h.journal.err = errors.New("db down")
	h.printer.err = errors.New("paper out")
	ctx := context.Background()
	h.start(t)
	_, err := h.reg.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)
	h.toPayment(t)
	_, err = h.reg.AddPayment(ctx, PaymentInput{Method: enum.PaymentMethodCash, Amount: dec("21.60")})
	require.NoError(t, err)

	receipt, err := h.reg.CompleteTransaction(ctx)
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionStatusComplete, receipt.Transaction.Status)
}

func TestRegisterStartRules(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.reg.StartTransaction(ctx, entity.Operator{StoreNumber: "0042"})
	assertStatus(t, err, 401)
	assert.Equal(t, enum.TransactionStatusIdle, h.reg.Snapshot().Transaction.Status)

	_, err = h.reg.StartTransaction(ctx, entity.Operator{EmployeeID: "E100"})
	assertStatus(t, err, 409)

	first := h.start(t)
	// an empty active cart may be replaced
	second := h.start(t)
	assert.NotEqual(t, first.ID, second.ID)

	_, err = h.reg.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)
	_, err = h.reg.StartTransaction(ctx, operator)
	assertStatus(t, err, 409)
	assert.Equal(t, second.ID, h.reg.Snapshot().Transaction.ID)
}

func TestRegisterAddItemValidation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.reg.AddItem(ctx, "SKU-001", 1)
	assertStatus(t, err, 409)

	h.start(t)

	_, err = h.reg.AddItem(ctx, "SKU-001", 0)
	assertStatus(t, err, 400)

	_, err = h.reg.AddItem(ctx, "", 1)
	assertStatus(t, err, 400)

	_, err = h.reg.AddItem(ctx, "NOPE", 1)
	assertStatus(t, err, 404)

	_, err = h.reg.AddItem(ctx, "SKU-006", 1)
	assertStatus(t, err, 409)

	_, err = h.reg.AddItem(ctx, "SKU-005", 2)
	require.NoError(t, err)
	_, err = h.reg.AddItem(ctx, "SKU-005", 2)
	assertStatus(t, err, 409)
	tx := h.reg.Snapshot().Transaction
	require.Len(t, tx.Items, 1)
	assert.Equal(t, 2, tx.Items[0].Quantity)

	h.catalog.err = errors.New("timeout")
	_, err = h.reg.AddItem(ctx, "SKU-001", 1)
	assertStatus(t, err, 502)
	assert.False(t, h.reg.Snapshot().IsLoading)
}

func TestRegisterAddItemWithProduct(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)

	tx, err := h.reg.AddItemWithProduct(ctx, entity.Product{SKU: "X-1", Name: "Gift bag", Price: dec("1.50"), AvailableQuantity: 100}, 4)
	require.NoError(t, err)
	require.Len(t, tx.Items, 1)
	assertDec(t, "6.00", tx.Subtotal)

	_, err = h.reg.AddItemWithProduct(ctx, entity.Product{SKU: "X-2", Price: dec("-1"), AvailableQuantity: 1}, 1)
	assertStatus(t, err, 400)
}

func TestRegisterOnSaleItemScansAtSalePrice(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)

	tx, err := h.reg.AddItem(ctx, "SKU-003", 1)
	require.NoError(t, err)
	require.Len(t, tx.Items, 1)
	line := tx.Items[0]
	assertDec(t, "8.99", line.UnitPrice)
	assertDec(t, "8.99", line.OriginalPrice)
	assert.True(t, line.DiscountPerItem.IsZero())
	require.NotNil(t, line.RegularPrice)
	assertDec(t, "11.99", *line.RegularPrice)
	assertDec(t, "8.99", line.LineTotal)

	tx, err = h.reg.ApplyMarkdown(ctx, operator, line.LineID, MarkdownInput{Type: enum.MarkdownTypeFixed, Value: dec("1.00"), Reason: "dented box"})
	require.NoError(t, err)
	assertDec(t, "7.99", tx.Items[0].UnitPrice)
	assert.True(t, tx.Items[0].LineTotal.LessThan(dec("8.99")), tx.Items[0].LineTotal.String())

	tx, err = h.reg.RemoveMarkdown(ctx, line.LineID)
	require.NoError(t, err)
	assertDec(t, "8.99", tx.Items[0].UnitPrice)
	assertDec(t, "8.99", tx.Items[0].OriginalPrice)
	assert.True(t, tx.Items[0].DiscountPerItem.IsZero())
	assertDec(t, "8.99", tx.Items[0].LineTotal)
}

func TestRegisterRegularPriceOnlyForSaleItems(t *testing.T) {
	h := newHarness()
	h.start(t)

	tx, err := h.reg.AddItem(context.Background(), "SKU-001", 1)
	require.NoError(t, err)
	assert.Nil(t, tx.Items[0].RegularPrice)
}

func TestRegisterUpdateQuantityChecksStock(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)

	tx, err := h.reg.AddItem(ctx, "SKU-005", 1)
	require.NoError(t, err)
	lineID := tx.Items[0].LineID

	_, err = h.reg.UpdateItemQuantity(ctx, lineID, 50)
	assertStatus(t, err, 409)
	assert.Equal(t, 1, h.reg.Snapshot().Transaction.Items[0].Quantity)

	tx, err = h.reg.UpdateItemQuantity(ctx, lineID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, tx.Items[0].Quantity)

	// lowering never needs the catalog
	h.catalog.err = errors.New("timeout")
	tx, err = h.reg.UpdateItemQuantity(ctx, lineID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, tx.Items[0].Quantity)

	_, err = h.reg.UpdateItemQuantity(ctx, lineID, 3)
	assertStatus(t, err, 502)
}

func TestRegisterUpdateQuantityCountsOtherLines(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)

	tx, err := h.reg.AddItem(ctx, "SKU-005", 1)
	require.NoError(t, err)
	marked := tx.Items[0].LineID
	_, err = h.reg.ApplyMarkdown(ctx, operator, marked, MarkdownInput{Type: enum.MarkdownTypePercent, Value: dec("10"), Reason: "floor model"})
	require.NoError(t, err)

	// a marked-down line is not merged into, so this opens a second line
	tx, err = h.reg.AddItem(ctx, "SKU-005", 1)
	require.NoError(t, err)
	require.Len(t, tx.Items, 2)
	plain := tx.Items[1].LineID

	_, err = h.reg.UpdateItemQuantity(ctx, plain, 3)
	assertStatus(t, err, 409)
	_, err = h.reg.UpdateItemQuantity(ctx, plain, 2)
	require.NoError(t, err)
}

func TestRegisterUpdateAndRemoveItems(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)
	tx, err := h.reg.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)
	lineID := tx.Items[0].LineID

	tx, err = h.reg.UpdateItemQuantity(ctx, lineID, 3)
	require.NoError(t, err)
	assertDec(t, "60.00", tx.Subtotal)

	_, err = h.reg.UpdateItemQuantity(ctx, lineID, -1)
	assertStatus(t, err, 400)

	_, err = h.reg.UpdateItemQuantity(ctx, "missing", 1)
	assertStatus(t, err, 404)

	tx, err = h.reg.UpdateItemQuantity(ctx, lineID, 0)
	require.NoError(t, err)
	assert.Empty(t, tx.Items)

	tx, err = h.reg.AddItem(ctx, "SKU-002", 1)
	require.NoError(t, err)
	tx, err = h.reg.RemoveItem(ctx, tx.Items[0].LineID)
	require.NoError(t, err)
	assert.Empty(t, tx.Items)
	assertDec(t, "0", tx.GrandTotal)
}

func TestRegisterMarkdowns(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)
	tx, err := h.reg.AddItem(ctx, "SKU-002", 2)
	require.NoError(t, err)
	lineID := tx.Items[0].LineID

	_, err = h.reg.ApplyMarkdown(ctx, operator, lineID, MarkdownInput{Type: enum.MarkdownTypePercent, Value: dec("10")})
	assertStatus(t, err, 400)

	_, err = h.reg.ApplyMarkdown(ctx, operator, lineID, MarkdownInput{Type: enum.MarkdownTypePercent, Value: dec("150"), Reason: "damaged"})
	assertStatus(t, err, 422)

	_, err = h.reg.ApplyMarkdown(ctx, operator, lineID, MarkdownInput{Type: "BOGUS", Value: dec("1"), Reason: "x"})
	assertStatus(t, err, 400)

	tx, err = h.reg.ApplyMarkdown(ctx, operator, lineID, MarkdownInput{Type: enum.MarkdownTypePercent, Value: dec("10"), Reason: "damaged box"})
	require.NoError(t, err)
	item := tx.Items[0]
	require.NotNil(t, item.Markdown)
	assert.Equal(t, "E100", item.Markdown.AppliedBy)
	assert.Equal(t, clock, item.Markdown.AppliedAt)
	assertDec(t, "27.00", item.UnitPrice)
	assertDec(t, "3.00", item.DiscountPerItem)
	assertDec(t, "48.00", tx.Items[0].LineTotal)
	assertDec(t, "48.00", tx.Subtotal)
	assertDec(t, "6.00", tx.DiscountTotal)

	tx, err = h.reg.RemoveMarkdown(ctx, lineID)
	require.NoError(t, err)
	assert.Nil(t, tx.Items[0].Markdown)
	assertDec(t, "30.00", tx.Items[0].UnitPrice)

	_, err = h.reg.RemoveMarkdown(ctx, lineID)
	assertStatus(t, err, 409)
}

func TestRegisterCustomerAndFulfillment(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.reg.SetCustomer(ctx, entity.CustomerSnapshot{ID: "C1"})
	assertStatus(t, err, 409)

	h.start(t)
	_, err = h.reg.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)

	_, err = h.reg.SetCustomer(ctx, entity.CustomerSnapshot{})
	assertStatus(t, err, 400)
	_, err = h.reg.SetCustomer(ctx, entity.CustomerSnapshot{ID: "C1", LoyaltyMultiplier: dec("-1")})
	assertStatus(t, err, 400)

	tx, err := h.reg.SetCustomer(ctx, entity.CustomerSnapshot{ID: "C1"})
	require.NoError(t, err)
	assertDec(t, "1", tx.Customer.LoyaltyMultiplier)
	assert.Equal(t, int64(20), tx.LoyaltyPoints)

	tx, err = h.reg.SetCustomer(ctx, entity.CustomerSnapshot{ID: "C1", LoyaltyMultiplier: dec("2")})
	require.NoError(t, err)
	assert.Equal(t, int64(40), tx.LoyaltyPoints)

	tx, err = h.reg.ClearCustomer(ctx)
	require.NoError(t, err)
	assert.Nil(t, tx.Customer)
	assert.Zero(t, tx.LoyaltyPoints)

	_, err = h.reg.SetFulfillment(ctx, entity.FulfillmentInfo{Type: enum.FulfillmentTypeDelivery, Cost: dec("5")})
	assertStatus(t, err, 400)
	_, err = h.reg.SetFulfillment(ctx, entity.FulfillmentInfo{Type: enum.FulfillmentTypePickup, Cost: dec("-2")})
	assertStatus(t, err, 400)

	tx, err = h.reg.SetFulfillment(ctx, entity.FulfillmentInfo{Type: enum.FulfillmentTypeDelivery, Cost: dec("5.00"), Address: "1 Main St"})
	require.NoError(t, err)
	assertDec(t, "5.00", tx.FulfillmentTotal)
	assertDec(t, "26.60", tx.GrandTotal)

	tx, err = h.reg.ClearFulfillment(ctx)
	require.NoError(t, err)
	assert.Nil(t, tx.Fulfillment)
	assertDec(t, "21.60", tx.GrandTotal)
}

func TestRegisterLifecycleGuards(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)

	_, err := h.reg.ProceedToCheckout(ctx)
	assertStatus(t, err, 409)

	_, err = h.reg.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)

	_, err = h.reg.ProceedToPayment(ctx)
	assertStatus(t, err, 409)

	_, err = h.reg.ProceedToCheckout(ctx)
	require.NoError(t, err)

	// cart is closed during checkout
	_, err = h.reg.AddItem(ctx, "SKU-002", 1)
	assertStatus(t, err, 409)

	_, err = h.reg.ProceedToPayment(ctx)
	assertStatus(t, err, 409)

	tx, err := h.reg.ReturnToCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionStatusActive, tx.Status)

	_, err = h.reg.ReturnToCart(ctx)
	assertStatus(t, err, 409)

	_, err = h.reg.AddPayment(ctx, PaymentInput{Method: enum.PaymentMethodCash, Amount: dec("1")})
	assertStatus(t, err, 409)
}

func TestRegisterCashPaymentMakesChange(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)
	_, err := h.reg.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)
	h.toPayment(t)

	tendered := dec("50.00")
	tx, err := h.reg.AddPayment(ctx, PaymentInput{Method: enum.PaymentMethodCash, Amount: dec("50.00"), CashTendered: &tendered})
	require.NoError(t, err)

	require.Len(t, tx.Payments, 1)
	p := tx.Payments[0]
	assertDec(t, "21.60", p.Amount)
	require.NotNil(t, p.ChangeDue)
	assertDec(t, "28.40", *p.ChangeDue)
	assertDec(t, "0", tx.AmountDue)

	_, err = h.reg.AddPayment(ctx, PaymentInput{Method: enum.PaymentMethodCash, Amount: dec("1")})
	assertStatus(t, err, 409)
}

func TestRegisterPaymentValidation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)
	_, err := h.reg.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)
	h.toPayment(t)

	_, err = h.reg.AddPayment(ctx, PaymentInput{Method: enum.PaymentMethodCredit, Amount: dec("0")})
	assertStatus(t, err, 422)

	_, err = h.reg.AddPayment(ctx, PaymentInput{Method: enum.PaymentMethodGiftCard, Amount: dec("5")})
	assertStatus(t, err, 400)

	less := dec("1")
	_, err = h.reg.AddPayment(ctx, PaymentInput{Method: enum.PaymentMethodCash, Amount: dec("5"), CashTendered: &less})
	assertStatus(t, err, 422)

	tx, err := h.reg.AddPayment(ctx, PaymentInput{Method: enum.PaymentMethodGiftCard, Amount: dec("5"), GiftCardNumber: "GC-1234"})
	require.NoError(t, err)
	assertDec(t, "16.60", tx.AmountDue)

	tx, err = h.reg.RemovePayment(ctx, tx.Payments[0].PaymentID)
	require.NoError(t, err)
	assert.Empty(t, tx.Payments)
	assertDec(t, "21.60", tx.AmountDue)

	_, err = h.reg.RemovePayment(ctx, "missing")
	assertStatus(t, err, 404)
}

func TestRegisterVoid(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.reg.VoidTransaction(ctx, "customer left")
	assertStatus(t, err, 409)

	h.start(t)
	_, err = h.reg.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)

	_, err = h.reg.VoidTransaction(ctx, "")
	assertStatus(t, err, 400)

	tx, err := h.reg.VoidTransaction(ctx, "customer left")
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionStatusVoid, tx.Status)
	assert.Equal(t, "customer left", tx.VoidReason)
	require.Len(t, h.journal.entries, 1)
	assert.Equal(t, enum.TransactionStatusVoid, h.journal.entries[0].tx.Status)

	// a new sale can start after a void
	h.start(t)
}

func TestRegisterSuspendAndResume(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	started := h.start(t)
	_, err := h.reg.AddItem(ctx, "SKU-001", 2)
	require.NoError(t, err)

	tx, err := h.reg.SuspendTransaction(ctx)
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionStatusSuspended, tx.Status)

	parked, err := h.deps.Suspended.ListByStore(ctx, "0042")
	require.NoError(t, err)
	require.Len(t, parked, 1)
	assert.Equal(t, started.ID, parked[0].TransactionID)
	assert.Equal(t, 2, parked[0].ItemCount)

	// another terminal resumes it
	other := NewRegister(h.deps)
	resumed, err := other.ResumeTransaction(ctx, operator, started.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionStatusActive, resumed.Status)
	assert.Equal(t, started.ID, resumed.ID)
	assertDec(t, "43.20", resumed.GrandTotal)

	// claimed: a second resume finds nothing
	_, err = NewRegister(h.deps).ResumeTransaction(ctx, operator, started.ID)
	assertStatus(t, err, 404)

	parked, err = h.deps.Suspended.ListByStore(ctx, "0042")
	require.NoError(t, err)
	assert.Empty(t, parked)
}

func TestRegisterSuspendRequiresItems(t *testing.T) {
	h := newHarness()
	h.start(t)
	_, err := h.reg.SuspendTransaction(context.Background())
	assertStatus(t, err, 409)
}

func TestRegisterResumeBlockedByOpenSale(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)
	_, err := h.reg.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)

	_, err = h.reg.ResumeTransaction(ctx, operator, "TXN-0042-00000000")
	assertStatus(t, err, 409)
}

func TestRegisterClear(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)
	_, err := h.reg.AddItem(ctx, "SKU-001", 1)
	require.NoError(t, err)

	_, err = h.reg.Clear(ctx)
	assertStatus(t, err, 409)

	_, err = h.reg.VoidTransaction(ctx, "test")
	require.NoError(t, err)
	tx, err := h.reg.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionStatusIdle, tx.Status)
}

func TestRegisterSerializesConcurrentScans(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.start(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.reg.AddItem(ctx, "SKU-001", 1)
			_ = h.reg.Snapshot()
		}()
	}
	wg.Wait()

	tx := h.reg.Snapshot().Transaction
	require.Len(t, tx.Items, 1)
	assert.Equal(t, 20, tx.Items[0].Quantity)
	assertDec(t, "400.00", tx.Subtotal)
}
