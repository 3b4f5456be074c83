package middleware

import (
	"github.com/gin-gonic/gin"
	infraRepo "github.com/sangkips/pos-terminal/internal/infrastructure/repository"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
)

// StoreMiddleware scopes the request to the operator's store. Repositories
// read the store number from the request context.
func StoreMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		op, ok := GetOperator(c)
		if !ok || op.StoreNumber == "" {
			response.BadRequest(c, "Store context required")
			c.Abort()
			return
		}

		c.Set("store_number", op.StoreNumber)
		ctx := infraRepo.WithStore(c.Request.Context(), op.StoreNumber)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetStoreNumber retrieves the store number from gin context
func GetStoreNumber(c *gin.Context) string {
	storeNumber, exists := c.Get("store_number")
	if !exists {
		return ""
	}
	s, _ := storeNumber.(string)
	return s
}
