package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/domain/transaction"
	"github.com/sangkips/pos-terminal/internal/infrastructure/orders"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductCatalog looks products up by SKU; nil, nil means unknown SKU
type ProductCatalog interface {
	GetProduct(ctx context.Context, sku string) (*entity.Product, error)
	Invalidate(skus ...string)
}

// OrderSubmitter hands completed sales to the order service
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, tx entity.Transaction) (*orders.OrderResult, error)
}

// JournalRecorder keeps the durable record of finished transactions
type JournalRecorder interface {
	Record(ctx context.Context, tx entity.Transaction, receiptNumber, orderID string) error
}

// ReceiptPrinter prints a completed sale
type ReceiptPrinter interface {
	PrintReceipt(ctx context.Context, receipt *entity.TransactionReceipt) error
}

// RegisterDeps are the collaborators shared by every register
type RegisterDeps struct {
	Catalog   ProductCatalog
	Orders    OrderSubmitter
	Suspended repository.SuspendedTransactionRepository
	Journal   JournalRecorder
	Printer   ReceiptPrinter
	AutoPrint bool
	StoreInfo func(storeNumber string) entity.StoreInfo
	Logger    *zap.Logger
	Now       func() time.Time
}

func (d *RegisterDeps) withDefaults() {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.StoreInfo == nil {
		d.StoreInfo = func(storeNumber string) entity.StoreInfo {
			return entity.StoreInfo{StoreNumber: storeNumber}
		}
	}
}

// RegisterState is what a terminal sees: the transaction plus request status
type RegisterState struct {
	Transaction entity.Transaction `json:"transaction"`
	IsLoading   bool               `json:"is_loading"`
	Error       string             `json:"error,omitempty"`
}

// SettledState is the register state right after an operation that produced
// tx returned successfully: nothing is loading and no error is pending.
func SettledState(tx entity.Transaction) RegisterState {
	return RegisterState{Transaction: tx}
}

// MarkdownInput is an employee's request to reduce a line's price
type MarkdownInput struct {
	Type   enum.MarkdownType
	Value  decimal.Decimal
	Reason string
}

// PaymentInput is one tender. For cash, CashTendered defaults to Amount and
// the applied amount is capped at the amount due; the rest is change.
type PaymentInput struct {
	Method         enum.PaymentMethod
	Amount         decimal.Decimal
	CashTendered   *decimal.Decimal
	CardBrand      string
	CardLast4      string
	AuthCode       string
	GiftCardNumber string
}

// Register drives one terminal's transaction. Operations are serialized by
// opMu for their whole duration, HTTP calls included, so two scans on the
// same terminal can never interleave. stateMu only guards the fields below
// it and is never held across I/O, so Snapshot stays responsive.
type Register struct {
	opMu sync.Mutex
	deps RegisterDeps

	stateMu     sync.RWMutex
	state       entity.Transaction
	isLoading   bool
	lastError   string
	lastReceipt *entity.TransactionReceipt
	lastUsed    time.Time
}

// NewRegister creates an IDLE register
func NewRegister(deps RegisterDeps) *Register {
	deps.withDefaults()
	return &Register{
		deps:     deps,
		state:    transaction.Initial(),
		lastUsed: deps.Now(),
	}
}

// Snapshot returns the current state
func (r *Register) Snapshot() RegisterState {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	return RegisterState{
		Transaction: r.state.Clone(),
		IsLoading:   r.isLoading,
		Error:       r.lastError,
	}
}

// LastReceipt returns the receipt of the last sale completed on this register
func (r *Register) LastReceipt() *entity.TransactionReceipt {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	return r.lastReceipt
}

// StartTransaction begins a new sale for op
func (r *Register) StartTransaction(ctx context.Context, op entity.Operator) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if op.EmployeeID == "" {
		return r.fail(apperror.NewAppError(401, "Sign in to start a transaction"))
	}
	if op.StoreNumber == "" {
		return r.fail(apperror.NewPreconditionError("A store number is required to start a transaction"))
	}

	cur := r.current()
	if !transaction.CanStart(cur.Status, cur.HasItems()) {
		return r.fail(apperror.NewPreconditionError(fmt.Sprintf("Transaction %s is still in progress", cur.ID)))
	}

	tx := r.dispatch(transaction.StartTransaction{
		ID:           utils.GenerateTransactionID(op.StoreNumber),
		StoreNumber:  op.StoreNumber,
		EmployeeID:   op.EmployeeID,
		EmployeeName: op.EmployeeName,
		StartedAt:    r.deps.Now(),
	})

	r.deps.Logger.Info("transaction started",
		zap.String("transaction_id", tx.ID),
		zap.String("store_number", tx.StoreNumber),
		zap.String("employee_id", tx.EmployeeID),
	)
	return r.succeed(tx)
}

// AddItem looks sku up in the catalog and adds quantity units of it
func (r *Register) AddItem(ctx context.Context, sku string, quantity int) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if sku == "" {
		return r.fail(apperror.NewBadRequestError("SKU is required"))
	}
	if quantity < 1 {
		return r.fail(apperror.NewBadRequestError("Quantity must be at least 1"))
	}
	if err := r.requireStatus(enum.TransactionStatusActive); err != nil {
		return r.fail(err)
	}

	r.setLoading(true)
	product, err := r.deps.Catalog.GetProduct(ctx, sku)
	r.setLoading(false)
	if err != nil {
		return r.fail(apperror.NewUpstreamError("Product catalog", err))
	}
	if product == nil {
		return r.fail(apperror.NewNotFoundError("Product " + sku))
	}

	return r.addProduct(*product, quantity)
}

// AddItemWithProduct adds a product the terminal already holds, skipping the lookup
func (r *Register) AddItemWithProduct(ctx context.Context, product entity.Product, quantity int) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if product.SKU == "" {
		return r.fail(apperror.NewBadRequestError("Product SKU is required"))
	}
	if quantity < 1 {
		return r.fail(apperror.NewBadRequestError("Quantity must be at least 1"))
	}
	if product.Price.IsNegative() {
		return r.fail(apperror.NewBadRequestError("Product price cannot be negative"))
	}
	if err := r.requireStatus(enum.TransactionStatusActive); err != nil {
		return r.fail(err)
	}

	return r.addProduct(product, quantity)
}

func (r *Register) addProduct(product entity.Product, quantity int) (entity.Transaction, error) {
	if err := r.checkStock(product, quantity); err != nil {
		return r.fail(err)
	}

	// A line starts unmarked: its original price is what it scanned at
	add := transaction.AddItem{
		LineID:        utils.NewID(),
		SKU:           product.SKU,
		Name:          product.Name,
		Quantity:      quantity,
		UnitPrice:     product.Price,
		OriginalPrice: product.Price,
	}
	if list := product.ListPrice(); list.GreaterThan(product.Price) {
		add.RegularPrice = &list
	}
	return r.succeed(r.dispatch(add))
}

// checkStock rejects adding more units of product than the catalog has,
// counting every line of the same SKU already in the cart
func (r *Register) checkStock(product entity.Product, additional int) error {
	if !product.InStock() {
		return apperror.NewConflictError(product.Name + " is out of stock")
	}

	inCart := 0
	for _, item := range r.current().Items {
		if item.SKU == product.SKU {
			inCart += item.Quantity
		}
	}
	if inCart+additional > product.AvailableQuantity {
		return apperror.NewConflictError(
			fmt.Sprintf("Only %d of %s available", product.AvailableQuantity, product.Name))
	}
	return nil
}

// UpdateItemQuantity sets a line's quantity; zero removes the line. Raising
// the quantity is checked against catalog stock like a scan.
func (r *Register) UpdateItemQuantity(ctx context.Context, lineID string, quantity int) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if quantity < 0 {
		return r.fail(apperror.NewBadRequestError("Quantity cannot be negative"))
	}
	if err := r.requireLine(lineID); err != nil {
		return r.fail(err)
	}

	cur := r.current()
	line := cur.Items[cur.FindItem(lineID)]
	if quantity > line.Quantity {
		r.setLoading(true)
		product, err := r.deps.Catalog.GetProduct(ctx, line.SKU)
		r.setLoading(false)
		if err != nil {
			return r.fail(apperror.NewUpstreamError("Product catalog", err))
		}
		if product == nil {
			return r.fail(apperror.NewNotFoundError("Product " + line.SKU))
		}
		if err := r.checkStock(*product, quantity-line.Quantity); err != nil {
			return r.fail(err)
		}
	}

	return r.succeed(r.dispatch(transaction.UpdateItemQuantity{LineID: lineID, Quantity: quantity}))
}

// RemoveItem drops a line
func (r *Register) RemoveItem(ctx context.Context, lineID string) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if err := r.requireLine(lineID); err != nil {
		return r.fail(err)
	}

	return r.succeed(r.dispatch(transaction.RemoveItem{LineID: lineID}))
}

// ApplyMarkdown reduces one line's price on behalf of op
func (r *Register) ApplyMarkdown(ctx context.Context, op entity.Operator, lineID string, input MarkdownInput) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if err := r.requireLine(lineID); err != nil {
		return r.fail(err)
	}
	if !input.Type.IsValid() {
		return r.fail(apperror.NewBadRequestError("Unknown markdown type"))
	}
	if input.Reason == "" {
		return r.fail(apperror.NewBadRequestError("A markdown reason is required"))
	}
	if input.Value.IsNegative() || (input.Value.IsZero() && input.Type != enum.MarkdownTypeNewPrice) {
		return r.fail(apperror.NewUnprocessableError("Markdown value must be positive"))
	}
	if input.Type == enum.MarkdownTypePercent && input.Value.GreaterThan(decimal.NewFromInt(100)) {
		return r.fail(apperror.NewUnprocessableError("Percent markdown cannot exceed 100"))
	}

	tx := r.dispatch(transaction.ApplyMarkdown{
		LineID: lineID,
		Markdown: entity.MarkdownInfo{
			Type:      input.Type,
			Value:     input.Value,
			Reason:    input.Reason,
			AppliedBy: op.EmployeeID,
			AppliedAt: r.deps.Now(),
		},
	})

	r.deps.Logger.Info("markdown applied",
		zap.String("transaction_id", tx.ID),
		zap.String("line_id", lineID),
		zap.String("type", input.Type.String()),
		zap.String("value", input.Value.String()),
		zap.String("applied_by", op.EmployeeID),
	)
	return r.succeed(tx)
}

// RemoveMarkdown restores a line's original price
func (r *Register) RemoveMarkdown(ctx context.Context, lineID string) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if err := r.requireLine(lineID); err != nil {
		return r.fail(err)
	}
	cur := r.current()
	if !cur.Items[cur.FindItem(lineID)].HasMarkdown() {
		return r.fail(apperror.NewPreconditionError("Line has no markdown"))
	}

	return r.succeed(r.dispatch(transaction.RemoveMarkdown{LineID: lineID}))
}

// SetCustomer attaches a loyalty customer
func (r *Register) SetCustomer(ctx context.Context, customer entity.CustomerSnapshot) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if customer.ID == "" {
		return r.fail(apperror.NewBadRequestError("Customer id is required"))
	}
	if customer.LoyaltyMultiplier.IsNegative() {
		return r.fail(apperror.NewBadRequestError("Loyalty multiplier cannot be negative"))
	}
	if err := r.requireInProgress(); err != nil {
		return r.fail(err)
	}
	if customer.LoyaltyMultiplier.IsZero() {
		customer.LoyaltyMultiplier = decimal.NewFromInt(1)
	}

	return r.succeed(r.dispatch(transaction.SetCustomer{Customer: customer}))
}

// ClearCustomer detaches the customer; no points accrue afterwards
func (r *Register) ClearCustomer(ctx context.Context) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if err := r.requireInProgress(); err != nil {
		return r.fail(err)
	}
	return r.succeed(r.dispatch(transaction.ClearCustomer{}))
}

// SetFulfillment records how the goods leave the store
func (r *Register) SetFulfillment(ctx context.Context, fulfillment entity.FulfillmentInfo) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if !fulfillment.Type.IsValid() {
		return r.fail(apperror.NewBadRequestError("Unknown fulfillment type"))
	}
	if fulfillment.Cost.IsNegative() {
		return r.fail(apperror.NewBadRequestError("Fulfillment cost cannot be negative"))
	}
	if fulfillment.Type == enum.FulfillmentTypeDelivery && fulfillment.Address == "" {
		return r.fail(apperror.NewBadRequestError("Delivery requires an address"))
	}
	if err := r.requireStatus(enum.TransactionStatusActive, enum.TransactionStatusCheckout); err != nil {
		return r.fail(err)
	}

	return r.succeed(r.dispatch(transaction.SetFulfillment{Fulfillment: fulfillment}))
}

// ClearFulfillment removes the fulfillment choice
func (r *Register) ClearFulfillment(ctx context.Context) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if err := r.requireStatus(enum.TransactionStatusActive, enum.TransactionStatusCheckout); err != nil {
		return r.fail(err)
	}
	return r.succeed(r.dispatch(transaction.ClearFulfillment{}))
}

// ProceedToCheckout closes the cart; at least one item is required
func (r *Register) ProceedToCheckout(ctx context.Context) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	cur := r.current()
	if err := r.requireTransition(cur, enum.TransactionStatusCheckout); err != nil {
		return r.fail(err)
	}
	if !cur.HasItems() {
		return r.fail(apperror.NewPreconditionError("Add at least one item before checkout"))
	}

	return r.succeed(r.dispatch(transaction.SetStatus{Status: enum.TransactionStatusCheckout}))
}

// ReturnToCart reopens the cart from checkout
func (r *Register) ReturnToCart(ctx context.Context) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	cur := r.current()
	if cur.Status != enum.TransactionStatusCheckout {
		return r.fail(apperror.NewPreconditionError(fmt.Sprintf("Cannot return to cart from %s", cur.Status)))
	}

	return r.succeed(r.dispatch(transaction.SetStatus{Status: enum.TransactionStatusActive}))
}

// ProceedToPayment starts taking tenders; fulfillment must be chosen first
func (r *Register) ProceedToPayment(ctx context.Context) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	cur := r.current()
	if err := r.requireTransition(cur, enum.TransactionStatusPayment); err != nil {
		return r.fail(err)
	}
	if cur.Fulfillment == nil {
		return r.fail(apperror.NewPreconditionError("Choose a fulfillment method before payment"))
	}

	return r.succeed(r.dispatch(transaction.SetStatus{Status: enum.TransactionStatusPayment}))
}

// AddPayment applies a tender to the amount due
func (r *Register) AddPayment(ctx context.Context, input PaymentInput) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if !input.Method.IsValid() {
		return r.fail(apperror.NewBadRequestError("Unknown payment method"))
	}
	if !input.Amount.IsPositive() {
		return r.fail(apperror.NewUnprocessableError("Payment amount must be positive"))
	}
	if input.Method == enum.PaymentMethodGiftCard && input.GiftCardNumber == "" {
		return r.fail(apperror.NewBadRequestError("Gift card number is required"))
	}
	if err := r.requireStatus(enum.TransactionStatusPayment); err != nil {
		return r.fail(err)
	}

	cur := r.current()
	if !cur.AmountDue.IsPositive() {
		return r.fail(apperror.NewPreconditionError("Transaction is already paid in full"))
	}

	payment := entity.PaymentRecord{
		PaymentID:      utils.NewID(),
		Method:         input.Method,
		Amount:         input.Amount,
		Timestamp:      r.deps.Now(),
		CardBrand:      input.CardBrand,
		CardLast4:      input.CardLast4,
		AuthCode:       input.AuthCode,
		GiftCardNumber: input.GiftCardNumber,
	}

	if input.Method == enum.PaymentMethodCash {
		tendered := input.Amount
		if input.CashTendered != nil {
			tendered = *input.CashTendered
		}
		if tendered.LessThan(input.Amount) {
			return r.fail(apperror.NewUnprocessableError("Cash tendered is less than the payment amount"))
		}
		applied := decimal.Min(input.Amount, cur.AmountDue)
		change := tendered.Sub(applied)
		payment.Amount = applied
		payment.CashTendered = &tendered
		payment.ChangeDue = &change
	}

	tx := r.dispatch(transaction.AddPayment{Payment: payment})
	r.deps.Logger.Info("payment added",
		zap.String("transaction_id", tx.ID),
		zap.String("method", payment.Method.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("amount_due", tx.AmountDue.String()),
	)
	return r.succeed(tx)
}

// RemovePayment takes a tender back off the transaction
func (r *Register) RemovePayment(ctx context.Context, paymentID string) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if err := r.requireStatus(enum.TransactionStatusPayment); err != nil {
		return r.fail(err)
	}
	cur := r.current()
	if cur.FindPayment(paymentID) < 0 {
		return r.fail(apperror.NewNotFoundError("Payment"))
	}

	return r.succeed(r.dispatch(transaction.RemovePayment{PaymentID: paymentID}))
}

// CompleteTransaction submits the paid sale to the order service and builds
// the receipt. A failed submission leaves the transaction in PAYMENT so the
// operator can retry. Completing an already completed sale returns its receipt.
func (r *Register) CompleteTransaction(ctx context.Context) (*entity.TransactionReceipt, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	cur := r.current()
	if cur.Status == enum.TransactionStatusComplete {
		if receipt := r.LastReceipt(); receipt != nil && receipt.Transaction.ID == cur.ID {
			return receipt, nil
		}
	}
	if err := r.requireTransition(cur, enum.TransactionStatusComplete); err != nil {
		_, err = r.fail(err)
		return nil, err
	}
	if cur.AmountDue.IsPositive() {
		_, err := r.fail(apperror.NewPreconditionError(
			fmt.Sprintf("%s is still due", cur.AmountDue.StringFixed(2))))
		return nil, err
	}

	r.setLoading(true)
	result, err := r.deps.Orders.SubmitOrder(ctx, cur)
	r.setLoading(false)
	if err != nil {
		r.deps.Logger.Error("order submission failed",
			zap.String("transaction_id", cur.ID),
			zap.Error(err),
		)
		_, err = r.fail(apperror.NewUpstreamError("Order service", err))
		return nil, err
	}

	completedAt := r.deps.Now()
	tx := r.dispatch(transaction.CompleteTransaction{CompletedAt: completedAt})

	skus := make([]string, 0, len(tx.Items))
	for _, item := range tx.Items {
		skus = append(skus, item.SKU)
	}
	r.deps.Catalog.Invalidate(skus...)

	receiptNumber := result.ReceiptNumber
	if receiptNumber == "" {
		receiptNumber = utils.GenerateReceiptNo(completedAt)
	}

	receipt := &entity.TransactionReceipt{
		Store:         r.deps.StoreInfo(tx.StoreNumber),
		ReceiptNumber: receiptNumber,
		OrderID:       result.OrderID,
		Transaction:   tx,
		CompletedAt:   completedAt,
	}

	r.stateMu.Lock()
	r.lastReceipt = receipt
	r.stateMu.Unlock()

	// the sale is final upstream; journal and printer failures are reported, not returned
	if err := r.deps.Journal.Record(ctx, tx, receiptNumber, result.OrderID); err != nil {
		r.deps.Logger.Error("failed to journal transaction", zap.String("transaction_id", tx.ID), zap.Error(err))
	}
	if r.deps.AutoPrint && r.deps.Printer != nil {
		if err := r.deps.Printer.PrintReceipt(ctx, receipt); err != nil {
			r.deps.Logger.Warn("receipt print failed", zap.String("transaction_id", tx.ID), zap.Error(err))
		}
	}

	r.deps.Logger.Info("transaction completed",
		zap.String("transaction_id", tx.ID),
		zap.String("receipt_number", receiptNumber),
		zap.String("grand_total", tx.GrandTotal.String()),
		zap.Int64("loyalty_points", tx.LoyaltyPoints),
	)
	r.succeed(tx)
	return receipt, nil
}

// VoidTransaction cancels the sale and journals it
func (r *Register) VoidTransaction(ctx context.Context, reason string) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if reason == "" {
		return r.fail(apperror.NewBadRequestError("A void reason is required"))
	}
	cur := r.current()
	if err := r.requireTransition(cur, enum.TransactionStatusVoid); err != nil {
		return r.fail(err)
	}

	tx := r.dispatch(transaction.VoidTransaction{VoidedAt: r.deps.Now(), Reason: reason})

	if err := r.deps.Journal.Record(ctx, tx, "", ""); err != nil {
		r.deps.Logger.Error("failed to journal transaction", zap.String("transaction_id", tx.ID), zap.Error(err))
	}

	fields := []zap.Field{
		zap.String("transaction_id", tx.ID),
		zap.String("reason", reason),
	}
	if tx.AmountPaid.IsPositive() {
		r.deps.Logger.Warn("voided transaction had tenders applied", append(fields, zap.String("amount_paid", tx.AmountPaid.String()))...)
	} else {
		r.deps.Logger.Info("transaction voided", fields...)
	}
	return r.succeed(tx)
}

// SuspendTransaction parks the active sale so the terminal can serve someone else
func (r *Register) SuspendTransaction(ctx context.Context) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	cur := r.current()
	if err := r.requireTransition(cur, enum.TransactionStatusSuspended); err != nil {
		return r.fail(err)
	}
	if !cur.HasItems() {
		return r.fail(apperror.NewPreconditionError("Nothing to suspend"))
	}

	parked := transaction.Reduce(cur, transaction.SuspendTransaction{})
	suspended, err := entity.NewSuspendedTransaction(parked, r.deps.Now())
	if err != nil {
		return r.fail(err)
	}

	r.setLoading(true)
	err = r.deps.Suspended.Save(ctx, suspended)
	r.setLoading(false)
	if err != nil {
		return r.fail(fmt.Errorf("failed to suspend transaction %s: %w", cur.ID, err))
	}

	tx := r.dispatch(transaction.SuspendTransaction{})
	r.deps.Logger.Info("transaction suspended",
		zap.String("transaction_id", tx.ID),
		zap.Int("item_count", tx.ItemCount()),
	)
	return r.succeed(tx)
}

// ResumeTransaction claims a parked sale of op's store and makes it active here
func (r *Register) ResumeTransaction(ctx context.Context, op entity.Operator, transactionID string) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	cur := r.current()
	if !transaction.CanStart(cur.Status, cur.HasItems()) {
		return r.fail(apperror.NewPreconditionError("Finish or suspend the current transaction first"))
	}

	r.setLoading(true)
	defer r.setLoading(false)

	suspended, err := r.deps.Suspended.Get(ctx, op.StoreNumber, transactionID)
	if err != nil {
		return r.fail(fmt.Errorf("failed to load suspended transaction: %w", err))
	}
	if suspended == nil {
		return r.fail(apperror.NewNotFoundError("Suspended transaction"))
	}

	snapshot, err := suspended.Restore()
	if err != nil {
		return r.fail(err)
	}

	// deleting first claims it; a second terminal racing for it sees not found
	if err := r.deps.Suspended.Delete(ctx, op.StoreNumber, transactionID); err != nil {
		if errors.Is(err, repository.ErrSuspendedNotFound) {
			return r.fail(apperror.NewNotFoundError("Suspended transaction"))
		}
		return r.fail(fmt.Errorf("failed to claim suspended transaction: %w", err))
	}

	tx := r.dispatch(transaction.ResumeTransaction{Snapshot: snapshot})
	r.deps.Logger.Info("transaction resumed",
		zap.String("transaction_id", tx.ID),
		zap.String("resumed_by", op.EmployeeID),
	)
	return r.succeed(tx)
}

// Clear returns a finished register to IDLE
func (r *Register) Clear(ctx context.Context) (entity.Transaction, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	cur := r.current()
	if cur.Status.InProgress() && cur.HasItems() {
		return r.fail(apperror.NewPreconditionError("Void or suspend the transaction before clearing"))
	}
	return r.succeed(r.dispatch(transaction.ClearTransaction{}))
}

// idleSince reports when the register was last used if no sale is in progress
func (r *Register) touch() {
	r.stateMu.Lock()
	r.lastUsed = r.deps.Now()
	r.stateMu.Unlock()
}

func (r *Register) idleSince() (time.Time, bool) {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	if r.state.Status.InProgress() && r.state.HasItems() {
		return time.Time{}, false
	}
	return r.lastUsed, true
}

func (r *Register) current() entity.Transaction {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	return r.state.Clone()
}

func (r *Register) dispatch(action transaction.Action) entity.Transaction {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	r.state = transaction.Reduce(r.state, action)
	r.lastUsed = r.deps.Now()
	return r.state.Clone()
}

func (r *Register) setLoading(loading bool) {
	r.stateMu.Lock()
	r.isLoading = loading
	r.stateMu.Unlock()
}

func (r *Register) fail(err error) (entity.Transaction, error) {
	r.stateMu.Lock()
	r.lastError = err.Error()
	r.lastUsed = r.deps.Now()
	tx := r.state.Clone()
	r.stateMu.Unlock()
	return tx, err
}

func (r *Register) succeed(tx entity.Transaction) (entity.Transaction, error) {
	r.stateMu.Lock()
	r.lastError = ""
	r.stateMu.Unlock()
	return tx, nil
}

func (r *Register) requireStatus(allowed ...enum.TransactionStatus) error {
	status := r.current().Status
	for _, s := range allowed {
		if status == s {
			return nil
		}
	}
	if status == enum.TransactionStatusIdle {
		return apperror.NewPreconditionError("No transaction in progress")
	}
	return apperror.NewPreconditionError(fmt.Sprintf("Not allowed while transaction is %s", status))
}

func (r *Register) requireInProgress() error {
	return r.requireStatus(enum.TransactionStatusActive, enum.TransactionStatusCheckout, enum.TransactionStatusPayment)
}

func (r *Register) requireTransition(cur entity.Transaction, to enum.TransactionStatus) error {
	if !transaction.CanTransition(cur.Status, to) {
		if cur.Status == enum.TransactionStatusIdle {
			return apperror.NewPreconditionError("No transaction in progress")
		}
		return apperror.NewPreconditionError(fmt.Sprintf("Cannot move from %s to %s", cur.Status, to))
	}
	return nil
}

func (r *Register) requireLine(lineID string) error {
	if err := r.requireStatus(enum.TransactionStatusActive); err != nil {
		return err
	}
	cur := r.current()
	if cur.FindItem(lineID) < 0 {
		return apperror.NewNotFoundError("Line item")
	}
	return nil
}
