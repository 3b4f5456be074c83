package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService     *service.PrinterService
	transactionService *service.TransactionService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService, transactionService *service.TransactionService) *PrinterHandler {
	return &PrinterHandler{
		printerService:     printerService,
		transactionService: transactionService,
	}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus()
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}

	receipt, err := h.printerService.TestPrint(c.Request.Context(), op.StoreNumber)
	if err != nil {
		// Return the receipt data anyway (useful when printer type is "none")
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{
		"receipt": receipt,
	})
}

// PrintReceipt prints the register's last receipt, or a journaled one by transaction id.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}

	var req request.PrintReceiptRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}
	}

	ctx := c.Request.Context()

	if req.TransactionID == "" {
		receipt := h.transactionService.Register(op, GetTerminalID(c)).LastReceipt()
		if receipt == nil {
			response.NotFound(c, "No receipt on this register")
			return
		}
		if err := h.printerService.PrintReceipt(ctx, receipt); err != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.OK(c, "Receipt printed successfully", gin.H{"receipt": receipt})
		return
	}

	receipt, err := h.printerService.PrintJournaled(ctx, req.TransactionID)
	if err != nil {
		// If receipt was built but printing failed, return receipt with warning
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt printed successfully", gin.H{"receipt": receipt})
}
