package transaction

import (
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// ActionType names a reducer action
type ActionType string

const (
	ActionStartTransaction    ActionType = "START_TRANSACTION"
	ActionAddItem             ActionType = "ADD_ITEM"
	ActionUpdateItemQuantity  ActionType = "UPDATE_ITEM_QUANTITY"
	ActionRemoveItem          ActionType = "REMOVE_ITEM"
	ActionApplyMarkdown       ActionType = "APPLY_MARKDOWN"
	ActionRemoveMarkdown      ActionType = "REMOVE_MARKDOWN"
	ActionSetCustomer         ActionType = "SET_CUSTOMER"
	ActionClearCustomer       ActionType = "CLEAR_CUSTOMER"
	ActionSetFulfillment      ActionType = "SET_FULFILLMENT"
	ActionClearFulfillment    ActionType = "CLEAR_FULFILLMENT"
	ActionAddPayment          ActionType = "ADD_PAYMENT"
	ActionRemovePayment       ActionType = "REMOVE_PAYMENT"
	ActionSetStatus           ActionType = "SET_STATUS"
	ActionCompleteTransaction ActionType = "COMPLETE_TRANSACTION"
	ActionVoidTransaction     ActionType = "VOID_TRANSACTION"
	ActionSuspendTransaction  ActionType = "SUSPEND_TRANSACTION"
	ActionResumeTransaction   ActionType = "RESUME_TRANSACTION"
	ActionClearTransaction    ActionType = "CLEAR_TRANSACTION"
)

// Action is a closed set of transaction mutations. Every action carries the
// ids and timestamps it needs so that Reduce never reads the clock.
type Action interface {
	Type() ActionType
	isAction()
}

// StartTransaction resets the register to a fresh ACTIVE transaction
type StartTransaction struct {
	ID           string
	StoreNumber  string
	EmployeeID   string
	EmployeeName string
	StartedAt    time.Time
}

// AddItem adds quantity units of a SKU. LineID is used only when a new
// line is appended; a merge keeps the existing line's id.
type AddItem struct {
	LineID        string
	SKU           string
	Name          string
	Quantity      int
	UnitPrice     decimal.Decimal
	OriginalPrice decimal.Decimal
	RegularPrice  *decimal.Decimal
}

// UpdateItemQuantity sets a line's quantity; zero removes the line
type UpdateItemQuantity struct {
	LineID   string
	Quantity int
}

type RemoveItem struct {
	LineID string
}

type ApplyMarkdown struct {
	LineID   string
	Markdown entity.MarkdownInfo
}

type RemoveMarkdown struct {
	LineID string
}

type SetCustomer struct {
	Customer entity.CustomerSnapshot
}

type ClearCustomer struct{}

type SetFulfillment struct {
	Fulfillment entity.FulfillmentInfo
}

type ClearFulfillment struct{}

type AddPayment struct {
	Payment entity.PaymentRecord
}

type RemovePayment struct {
	PaymentID string
}

// SetStatus moves the transaction between ACTIVE, CHECKOUT and PAYMENT
type SetStatus struct {
	Status enum.TransactionStatus
}

type CompleteTransaction struct {
	CompletedAt time.Time
}

type VoidTransaction struct {
	VoidedAt time.Time
	Reason   string
}

type SuspendTransaction struct{}

// ResumeTransaction restores a previously suspended snapshot as ACTIVE
type ResumeTransaction struct {
	Snapshot entity.Transaction
}

// ClearTransaction returns the register to the IDLE initial snapshot
type ClearTransaction struct{}

func (StartTransaction) Type() ActionType    { return ActionStartTransaction }
func (AddItem) Type() ActionType             { return ActionAddItem }
func (UpdateItemQuantity) Type() ActionType  { return ActionUpdateItemQuantity }
func (RemoveItem) Type() ActionType          { return ActionRemoveItem }
func (ApplyMarkdown) Type() ActionType       { return ActionApplyMarkdown }
func (RemoveMarkdown) Type() ActionType      { return ActionRemoveMarkdown }
func (SetCustomer) Type() ActionType         { return ActionSetCustomer }
func (ClearCustomer) Type() ActionType       { return ActionClearCustomer }
func (SetFulfillment) Type() ActionType      { return ActionSetFulfillment }
func (ClearFulfillment) Type() ActionType    { return ActionClearFulfillment }
func (AddPayment) Type() ActionType          { return ActionAddPayment }
func (RemovePayment) Type() ActionType       { return ActionRemovePayment }
func (SetStatus) Type() ActionType           { return ActionSetStatus }
func (CompleteTransaction) Type() ActionType { return ActionCompleteTransaction }
func (VoidTransaction) Type() ActionType     { return ActionVoidTransaction }
func (SuspendTransaction) Type() ActionType  { return ActionSuspendTransaction }
func (ResumeTransaction) Type() ActionType   { return ActionResumeTransaction }
func (ClearTransaction) Type() ActionType    { return ActionClearTransaction }

func (StartTransaction) isAction()    {}
func (AddItem) isAction()             {}
func (UpdateItemQuantity) isAction()  {}
func (RemoveItem) isAction()          {}
func (ApplyMarkdown) isAction()       {}
func (RemoveMarkdown) isAction()      {}
func (SetCustomer) isAction()         {}
func (ClearCustomer) isAction()       {}
func (SetFulfillment) isAction()      {}
func (ClearFulfillment) isAction()    {}
func (AddPayment) isAction()          {}
func (RemovePayment) isAction()       {}
func (SetStatus) isAction()           {}
func (CompleteTransaction) isAction() {}
func (VoidTransaction) isAction()     {}
func (SuspendTransaction) isAction()  {}
func (ResumeTransaction) isAction()   {}
func (ClearTransaction) isAction()    {}
