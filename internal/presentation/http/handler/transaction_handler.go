package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
)

// TransactionHandler drives the caller's register
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

func (h *TransactionHandler) register(c *gin.Context) (*service.Register, entity.Operator, bool) {
	op, ok := GetOperator(c)
	if !ok {
		return nil, op, false
	}
	return h.transactionService.Register(op, GetTerminalID(c)), op, true
}

// respond writes the state an operation left behind. tx is the operation's
// own result, so a later request on the same register cannot leak into it.
func respond(c *gin.Context, tx entity.Transaction, err error, message string) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, service.SettledState(tx))
}

// Get returns the current register state
func (h *TransactionHandler) Get(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}
	response.OK(c, "Transaction retrieved", reg.Snapshot())
}

// Start begins a new transaction
func (h *TransactionHandler) Start(c *gin.Context) {
	reg, op, ok := h.register(c)
	if !ok {
		return
	}
	tx, err := reg.StartTransaction(c.Request.Context(), op)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Transaction started", service.SettledState(tx))
}

// AddItem scans a SKU
func (h *TransactionHandler) AddItem(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	tx, err := reg.AddItem(c.Request.Context(), req.SKU, req.Quantity)
	respond(c, tx, err, "Item added")
}

// AddProduct adds a product without a catalog lookup
func (h *TransactionHandler) AddProduct(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}

	var req request.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	tx, err := reg.AddItemWithProduct(c.Request.Context(), req.Product, req.Quantity)
	respond(c, tx, err, "Item added")
}

// UpdateItem changes a line's quantity
func (h *TransactionHandler) UpdateItem(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}

	var req request.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	tx, err := reg.UpdateItemQuantity(c.Request.Context(), c.Param("lineId"), *req.Quantity)
	respond(c, tx, err, "Item updated")
}

// RemoveItem drops a line
func (h *TransactionHandler) RemoveItem(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}
	tx, err := reg.RemoveItem(c.Request.Context(), c.Param("lineId"))
	respond(c, tx, err, "Item removed")
}

// ApplyMarkdown reduces a line's price
func (h *TransactionHandler) ApplyMarkdown(c *gin.Context) {
	reg, op, ok := h.register(c)
	if !ok {
		return
	}

	var req request.MarkdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	tx, err := reg.ApplyMarkdown(c.Request.Context(), op, c.Param("lineId"), service.MarkdownInput{
		Type:   req.Type,
		Value:  req.Value,
		Reason: req.Reason,
	})
	respond(c, tx, err, "Markdown applied")
}

// RemoveMarkdown restores a line's price
func (h *TransactionHandler) RemoveMarkdown(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}
	tx, err := reg.RemoveMarkdown(c.Request.Context(), c.Param("lineId"))
	respond(c, tx, err, "Markdown removed")
}

// SetCustomer attaches a loyalty customer
func (h *TransactionHandler) SetCustomer(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}

	var req request.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	tx, err := reg.SetCustomer(c.Request.Context(), req.ToSnapshot())
	respond(c, tx, err, "Customer set")
}

// ClearCustomer detaches the customer
func (h *TransactionHandler) ClearCustomer(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}
	tx, err := reg.ClearCustomer(c.Request.Context())
	respond(c, tx, err, "Customer cleared")
}

// SetFulfillment chooses the fulfillment method
func (h *TransactionHandler) SetFulfillment(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}

	var req request.FulfillmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	tx, err := reg.SetFulfillment(c.Request.Context(), req.ToInfo())
	respond(c, tx, err, "Fulfillment set")
}

// ClearFulfillment removes the fulfillment choice
func (h *TransactionHandler) ClearFulfillment(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}
	tx, err := reg.ClearFulfillment(c.Request.Context())
	respond(c, tx, err, "Fulfillment cleared")
}

// Checkout closes the cart
func (h *TransactionHandler) Checkout(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}
	tx, err := reg.ProceedToCheckout(c.Request.Context())
	respond(c, tx, err, "Proceeded to checkout")
}

// ReturnToCart reopens the cart
func (h *TransactionHandler) ReturnToCart(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}
	tx, err := reg.ReturnToCart(c.Request.Context())
	respond(c, tx, err, "Returned to cart")
}

// ProceedToPayment starts taking tenders
func (h *TransactionHandler) ProceedToPayment(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}
	tx, err := reg.ProceedToPayment(c.Request.Context())
	respond(c, tx, err, "Proceeded to payment")
}

// AddPayment applies a tender
func (h *TransactionHandler) AddPayment(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}

	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	tx, err := reg.AddPayment(c.Request.Context(), service.PaymentInput{
		Method:         req.Method,
		Amount:         req.Amount,
		CashTendered:   req.CashTendered,
		CardBrand:      req.CardBrand,
		CardLast4:      req.CardLast4,
		AuthCode:       req.AuthCode,
		GiftCardNumber: req.GiftCardNumber,
	})
	respond(c, tx, err, "Payment added")
}

// RemovePayment takes a tender back
func (h *TransactionHandler) RemovePayment(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}
	tx, err := reg.RemovePayment(c.Request.Context(), c.Param("paymentId"))
	respond(c, tx, err, "Payment removed")
}

// Complete submits the order and returns the receipt
func (h *TransactionHandler) Complete(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}
	receipt, err := reg.CompleteTransaction(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Transaction completed", receipt)
}

// Void cancels the transaction
func (h *TransactionHandler) Void(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}

	var req request.VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	tx, err := reg.VoidTransaction(c.Request.Context(), req.Reason)
	respond(c, tx, err, "Transaction voided")
}

// Suspend parks the transaction
func (h *TransactionHandler) Suspend(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}
	tx, err := reg.SuspendTransaction(c.Request.Context())
	respond(c, tx, err, "Transaction suspended")
}

// Clear resets a finished register
func (h *TransactionHandler) Clear(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}
	tx, err := reg.Clear(c.Request.Context())
	respond(c, tx, err, "Register cleared")
}

// LastReceipt returns the receipt of the register's last sale
func (h *TransactionHandler) LastReceipt(c *gin.Context) {
	reg, _, ok := h.register(c)
	if !ok {
		return
	}
	receipt := reg.LastReceipt()
	if receipt == nil {
		response.NotFound(c, "No receipt on this register")
		return
	}
	response.OK(c, "Receipt retrieved", receipt)
}

// ListSuspended lists the store's parked transactions
func (h *TransactionHandler) ListSuspended(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}
	parked, err := h.transactionService.ListSuspended(c.Request.Context(), op.StoreNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Suspended transactions retrieved", parked)
}

// Resume claims a parked transaction onto the caller's register
func (h *TransactionHandler) Resume(c *gin.Context) {
	reg, op, ok := h.register(c)
	if !ok {
		return
	}
	tx, err := reg.ResumeTransaction(c.Request.Context(), op, c.Param("id"))
	respond(c, tx, err, "Transaction resumed")
}
