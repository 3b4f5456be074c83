package request

import (
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// AddItemRequest scans a SKU onto the transaction
type AddItemRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1"`
}

// AddProductRequest adds a product the terminal already looked up
type AddProductRequest struct {
	Product  entity.Product `json:"product"`
	Quantity int            `json:"quantity" binding:"omitempty,min=1"`
}

// UpdateQuantityRequest sets a line's quantity; zero removes the line
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// MarkdownRequest reduces one line's price
type MarkdownRequest struct {
	Type   enum.MarkdownType `json:"type" binding:"required"`
	Value  decimal.Decimal   `json:"value"`
	Reason string            `json:"reason" binding:"required,max=255"`
}

// CustomerRequest attaches a loyalty customer
type CustomerRequest struct {
	ID                string          `json:"id" binding:"required"`
	Name              string          `json:"name"`
	Email             string          `json:"email" binding:"omitempty,email"`
	LoyaltyTier       string          `json:"loyalty_tier"`
	LoyaltyMultiplier decimal.Decimal `json:"loyalty_multiplier"`
	PointsBalance     int64           `json:"points_balance"`
}

// ToSnapshot converts the request to the snapshot stored on the transaction
func (r *CustomerRequest) ToSnapshot() entity.CustomerSnapshot {
	return entity.CustomerSnapshot{
		ID:                r.ID,
		Name:              r.Name,
		Email:             r.Email,
		LoyaltyTier:       r.LoyaltyTier,
		LoyaltyMultiplier: r.LoyaltyMultiplier,
		PointsBalance:     r.PointsBalance,
	}
}

// FulfillmentRequest chooses how the goods leave the store
type FulfillmentRequest struct {
	Type    enum.FulfillmentType `json:"type" binding:"required"`
	Cost    decimal.Decimal      `json:"cost"`
	Address string               `json:"address"`
	Notes   string               `json:"notes"`
}

// ToInfo converts the request to fulfillment info
func (r *FulfillmentRequest) ToInfo() entity.FulfillmentInfo {
	return entity.FulfillmentInfo{
		Type:    r.Type,
		Cost:    r.Cost,
		Address: r.Address,
		Notes:   r.Notes,
	}
}

// PaymentRequest applies one tender
type PaymentRequest struct {
	Method         enum.PaymentMethod `json:"method" binding:"required"`
	Amount         decimal.Decimal    `json:"amount"`
	CashTendered   *decimal.Decimal   `json:"cash_tendered"`
	CardBrand      string             `json:"card_brand"`
	CardLast4      string             `json:"card_last4" binding:"omitempty,len=4,numeric"`
	AuthCode       string             `json:"auth_code"`
	GiftCardNumber string             `json:"gift_card_number"`
}

// VoidRequest cancels the transaction
type VoidRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// JournalListRequest filters the transaction journal
type JournalListRequest struct {
	Page       int                    `form:"page"`
	PerPage    int                    `form:"per_page"`
	EmployeeID string                 `form:"employee_id"`
	Status     enum.TransactionStatus `form:"status"`
}
