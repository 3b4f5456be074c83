package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-terminal/pkg/pagination"
)

// JournalHandler serves the store's transaction journal
type JournalHandler struct {
	journalService *service.JournalService
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journalService *service.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// List returns journal entries, newest first
func (h *JournalHandler) List(c *gin.Context) {
	var req request.JournalListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	params := &repository.JournalFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		EmployeeID: req.EmployeeID,
		Status:     req.Status,
	}

	result, err := h.journalService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Journal retrieved", result)
}

// Get returns one journaled transaction with its snapshot
func (h *JournalHandler) Get(c *gin.Context) {
	entry, tx, err := h.journalService.GetTransaction(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Journal entry retrieved", gin.H{
		"entry":       entry,
		"transaction": tx,
	})
}
