package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/pkg/printer"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer   printer.Printer
	journal   *JournalService
	storeInfo func(storeNumber string) entity.StoreInfo
	charWidth int
	log       *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	journal *JournalService,
	storeInfo func(storeNumber string) entity.StoreInfo,
	charWidth int,
	log *zap.Logger,
) *PrinterService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PrinterService{
		printer:   p,
		journal:   journal,
		storeInfo: storeInfo,
		charWidth: charWidth,
		log:       log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	kind := s.printer.Kind()
	return &PrinterStatus{
		Configured: kind != "none",
		Connected:  s.printer.IsConnected(),
		Type:       kind,
	}
}

// TestPrint sends a sample receipt to the printer.
// The receipt is returned even when printing fails so it can be shown instead.
func (s *PrinterService) TestPrint(ctx context.Context, storeNumber string) (*entity.TransactionReceipt, error) {
	now := time.Now()
	tx := entity.Transaction{
		ID:           "TEST-001",
		StoreNumber:  storeNumber,
		EmployeeName: "System",
		Status:       enum.TransactionStatusComplete,
		Items: []entity.LineItem{
			{SKU: "TEST-1", Name: "Test Item 1", Quantity: 1, UnitPrice: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(10)},
			{SKU: "TEST-2", Name: "Test Item 2", Quantity: 2, UnitPrice: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(10)},
		},
		Subtotal:   decimal.NewFromInt(20),
		GrandTotal: decimal.NewFromInt(20),
		AmountPaid: decimal.NewFromInt(20),
		StartedAt:  now,
	}
	receipt := &entity.TransactionReceipt{
		Store:         s.store(storeNumber),
		ReceiptNumber: "TEST-001",
		Transaction:   tx,
		CompletedAt:   now,
	}
	receipt.Store.StoreName = "PRINTER TEST"

	if err := s.printer.Print(ctx, s.FormatReceipt(receipt)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// PrintReceipt prints a completed sale.
func (s *PrinterService) PrintReceipt(ctx context.Context, receipt *entity.TransactionReceipt) error {
	if err := s.printer.Print(ctx, s.FormatReceipt(receipt)); err != nil {
		s.log.Warn("printer error",
			zap.String("transaction_id", receipt.Transaction.ID),
			zap.String("printer", s.printer.Kind()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	return nil
}

// PrintJournaled reprints the receipt of a journaled transaction of the store in ctx.
func (s *PrinterService) PrintJournaled(ctx context.Context, transactionID string) (*entity.TransactionReceipt, error) {
	entry, tx, err := s.journal.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	completedAt := entry.RecordedAt
	if tx.CompletedAt != nil {
		completedAt = *tx.CompletedAt
	} else if tx.VoidedAt != nil {
		completedAt = *tx.VoidedAt
	}

	receipt := &entity.TransactionReceipt{
		Store:         s.store(tx.StoreNumber),
		ReceiptNumber: entry.ReceiptNumber,
		OrderID:       entry.OrderID,
		Transaction:   tx,
		CompletedAt:   completedAt,
	}
	return receipt, s.PrintReceipt(ctx, receipt)
}

func (s *PrinterService) store(storeNumber string) entity.StoreInfo {
	if s.storeInfo == nil {
		return entity.StoreInfo{StoreNumber: storeNumber}
	}
	return s.storeInfo(storeNumber)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatReceipt converts a receipt into ESC/POS bytes.
func (s *PrinterService) FormatReceipt(r *entity.TransactionReceipt) []byte {
	return FormatReceipt(r, s.charWidth)
}

// FormatReceipt converts a receipt into ESC/POS bytes for paper charWidth columns wide.
func FormatReceipt(r *entity.TransactionReceipt, charWidth int) []byte {
	tx := r.Transaction
	doc := printer.NewDocument(charWidth)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Store.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Store.Address != "" {
		doc.Text(r.Store.Address)
	}
	if r.Store.Phone != "" {
		doc.Text(r.Store.Phone)
	}
	if r.Store.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Store.TaxID)
	}

	if tx.Status == enum.TransactionStatusVoid {
		doc.SetBold(true).
			SetFontSize(printer.FontDouble).
			Text("*** VOID ***").
			SetFontSize(printer.FontNormal).
			SetBold(false)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Transaction info
	if r.ReceiptNumber != "" {
		doc.KeyValue("Receipt:", r.ReceiptNumber)
	}
	doc.KeyValue("Txn:", tx.ID).
		KeyValue("Store:", tx.StoreNumber).
		KeyValue("Date:", r.CompletedAt.Format("2006-01-02 15:04"))

	if tx.EmployeeName != "" {
		doc.KeyValue("Cashier:", tx.EmployeeName)
	}
	if tx.Customer != nil {
		doc.KeyValue("Customer:", tx.Customer.Name)
	}

	doc.Separator('-')

	// Items
	for _, item := range tx.Items {
		doc.ItemLine(item.Quantity, item.Name, money(item.LineTotal))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", money(item.UnitPrice))
		}
		if item.RegularPrice != nil {
			doc.TextF("  Was %s", money(*item.RegularPrice))
		}
		if item.Markdown != nil {
			doc.TextF("  Markdown -%s (%s)", money(item.DiscountPerItem.Mul(decimal.NewFromInt(int64(item.Quantity)))),
				printer.Truncate(item.Markdown.Reason, charWidthOr(charWidth)-20))
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", money(tx.Subtotal))
	if tx.DiscountTotal.IsPositive() {
		doc.KeyValue("You saved:", money(tx.DiscountTotal))
	}
	doc.KeyValue("Tax:", money(tx.TaxTotal))
	if tx.Fulfillment != nil && tx.Fulfillment.Type != enum.FulfillmentTypeImmediate {
		label := "Delivery:"
		if tx.Fulfillment.Type == enum.FulfillmentTypePickup {
			label = "Pickup:"
		}
		doc.KeyValue(label, money(tx.FulfillmentTotal))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money(tx.GrandTotal)).
		SetBold(false)

	// Payments
	cash := false
	for _, p := range tx.Payments {
		label := paymentLabel(p)
		doc.KeyValue(label, money(p.Amount))
		if p.Method == enum.PaymentMethodCash {
			cash = true
			if p.CashTendered != nil {
				doc.KeyValue("  Tendered:", money(*p.CashTendered))
			}
			if p.ChangeDue != nil && p.ChangeDue.IsPositive() {
				doc.KeyValue("  Change:", money(*p.ChangeDue))
			}
		}
	}
	if tx.AmountDue.IsPositive() {
		doc.KeyValue("Due:", money(tx.AmountDue))
	}

	if tx.Customer != nil && tx.LoyaltyPoints > 0 {
		doc.Separator('-').
			KeyValue("Points earned:", fmt.Sprintf("%d", tx.LoyaltyPoints))
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed()
	if r.ReceiptNumber != "" {
		doc.Barcode(r.ReceiptNumber)
	}
	doc.Text("Thank you for shopping with us!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	if cash && tx.Status == enum.TransactionStatusComplete {
		doc.OpenDrawer()
	}

	return doc.Bytes()
}

func charWidthOr(w int) int {
	if w <= 0 {
		return 32
	}
	return w
}

func paymentLabel(p entity.PaymentRecord) string {
	switch {
	case p.Method.IsCard() && p.CardLast4 != "":
		brand := p.CardBrand
		if brand == "" {
			brand = p.Method.String()
		}
		return fmt.Sprintf("%s *%s:", brand, p.CardLast4)
	case p.Method == enum.PaymentMethodGiftCard && len(p.GiftCardNumber) >= 4:
		return fmt.Sprintf("Gift card *%s:", p.GiftCardNumber[len(p.GiftCardNumber)-4:])
	case p.Method == enum.PaymentMethodCash:
		return "Cash:"
	default:
		return p.Method.String() + ":"
	}
}
