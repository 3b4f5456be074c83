package transaction

import (
	"fmt"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Initial returns the IDLE snapshot a register starts from
func Initial() entity.Transaction {
	return entity.Transaction{
		Status:           enum.TransactionStatusIdle,
		Items:            []entity.LineItem{},
		Payments:         []entity.PaymentRecord{},
		Subtotal:         decimal.Zero,
		DiscountTotal:    decimal.Zero,
		TaxTotal:         decimal.Zero,
		FulfillmentTotal: decimal.Zero,
		GrandTotal:       decimal.Zero,
		AmountPaid:       decimal.Zero,
		AmountDue:        decimal.Zero,
	}
}

// Reduce applies action to state and returns the next snapshot. It is pure:
// state is never mutated and every derived field of the result is
// recomputed. Actions referencing unknown lines or payments are no-ops.
func Reduce(state entity.Transaction, action Action) entity.Transaction {
	next := state.Clone()

	switch a := action.(type) {
	case StartTransaction:
		next = Initial()
		next.ID = a.ID
		next.StoreNumber = a.StoreNumber
		next.EmployeeID = a.EmployeeID
		next.EmployeeName = a.EmployeeName
		next.Status = enum.TransactionStatusActive
		next.StartedAt = a.StartedAt

	case AddItem:
		next.Items = addItem(next.Items, a)

	case UpdateItemQuantity:
		next.Items = updateQuantity(next.Items, a.LineID, a.Quantity)

	case RemoveItem:
		if idx := next.FindItem(a.LineID); idx >= 0 {
			next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
		}

	case ApplyMarkdown:
		if idx := next.FindItem(a.LineID); idx >= 0 {
			item := &next.Items[idx]
			md := a.Markdown
			discount := MarkdownDiscount(item.OriginalPrice, md)
			item.Markdown = &md
			item.DiscountPerItem = discount
			item.UnitPrice = item.OriginalPrice.Sub(discount)
		}

	case RemoveMarkdown:
		if idx := next.FindItem(a.LineID); idx >= 0 {
			item := &next.Items[idx]
			item.Markdown = nil
			item.DiscountPerItem = decimal.Zero
			item.UnitPrice = item.OriginalPrice
		}

	case SetCustomer:
		c := a.Customer
		next.Customer = &c

	case ClearCustomer:
		next.Customer = nil

	case SetFulfillment:
		f := a.Fulfillment
		next.Fulfillment = &f

	case ClearFulfillment:
		next.Fulfillment = nil

	case AddPayment:
		next.Payments = append(next.Payments, a.Payment)

	case RemovePayment:
		if idx := next.FindPayment(a.PaymentID); idx >= 0 {
			next.Payments = append(next.Payments[:idx], next.Payments[idx+1:]...)
		}

	case SetStatus:
		next.Status = a.Status

	case CompleteTransaction:
		at := a.CompletedAt
		next.Status = enum.TransactionStatusComplete
		next.CompletedAt = &at

	case VoidTransaction:
		at := a.VoidedAt
		next.Status = enum.TransactionStatusVoid
		next.VoidedAt = &at
		next.VoidReason = a.Reason

	case SuspendTransaction:
		next.Status = enum.TransactionStatusSuspended

	case ResumeTransaction:
		next = a.Snapshot.Clone()
		next.Status = enum.TransactionStatusActive
		if next.Items == nil {
			next.Items = []entity.LineItem{}
		}
		if next.Payments == nil {
			next.Payments = []entity.PaymentRecord{}
		}

	case ClearTransaction:
		next = Initial()
	}

	return Recalculate(next)
}

// addItem merges into a line with the same SKU and no markdown, or appends
// a new line
func addItem(items []entity.LineItem, a AddItem) []entity.LineItem {
	if a.Quantity <= 0 {
		return items
	}

	for i := range items {
		if items[i].SKU == a.SKU && !items[i].HasMarkdown() {
			items[i].Quantity += a.Quantity
			return items
		}
	}

	original := a.OriginalPrice
	if original.IsZero() {
		original = a.UnitPrice
	}

	lineID := a.LineID
	if lineID == "" {
		lineID = fmt.Sprintf("%s-%d", a.SKU, len(items)+1)
	}

	return append(items, entity.LineItem{
		LineID:          lineID,
		SKU:             a.SKU,
		Name:            a.Name,
		Quantity:        a.Quantity,
		UnitPrice:       a.UnitPrice,
		OriginalPrice:   original,
		DiscountPerItem: decimal.Zero,
		RegularPrice:    a.RegularPrice,
	})
}

func updateQuantity(items []entity.LineItem, lineID string, quantity int) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(items))
	for _, item := range items {
		if item.LineID == lineID {
			item.Quantity = quantity
		}
		if item.Quantity > 0 {
			out = append(out, item)
		}
	}
	return out
}
