package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/transaction/items", nil)
	return c, w
}

func TestRespondWritesOperationResult(t *testing.T) {
	c, w := testContext()
	tx := entity.Transaction{
		ID:     "TXN-0042-00000001",
		Status: enum.TransactionStatusActive,
		Items: []entity.LineItem{
			{LineID: "l1", SKU: "SKU-001", Quantity: 1, UnitPrice: decimal.NewFromInt(20), LineTotal: decimal.NewFromInt(20)},
		},
	}

	respond(c, tx, nil, "Item added")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Transaction entity.Transaction `json:"transaction"`
			IsLoading   bool               `json:"is_loading"`
			Error       string             `json:"error"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Item added", body.Message)
	assert.Equal(t, "TXN-0042-00000001", body.Data.Transaction.ID)
	require.Len(t, body.Data.Transaction.Items, 1)
	assert.Equal(t, "SKU-001", body.Data.Transaction.Items[0].SKU)
	assert.False(t, body.Data.IsLoading)
	assert.Empty(t, body.Data.Error)
}

func TestRespondWritesError(t *testing.T) {
	c, w := testContext()

	respond(c, entity.Transaction{ID: "TXN-0042-00000001"}, apperror.NewConflictError("Only 3 of SKU-005 available"), "Item updated")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Only 3 of SKU-005 available")
	assert.NotContains(t, w.Body.String(), "TXN-0042-00000001")
}
