package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-terminal/internal/presentation/http/middleware"
	"github.com/sangkips/pos-terminal/pkg/apperror"
)

// TerminalIDHeader distinguishes registers of one employee signed in on
// several terminals
const TerminalIDHeader = "X-Terminal-ID"

// GetOperator extracts the signed-in operator, writing a 401 when absent
func GetOperator(c *gin.Context) (entity.Operator, bool) {
	op, ok := middleware.GetOperator(c)
	if !ok || op.EmployeeID == "" {
		response.Error(c, apperror.ErrNoOperator)
		return entity.Operator{}, false
	}
	return op, true
}

// GetTerminalID returns the terminal id header, "default" when absent
func GetTerminalID(c *gin.Context) string {
	if id := c.GetHeader(TerminalIDHeader); id != "" {
		return id
	}
	return "default"
}
