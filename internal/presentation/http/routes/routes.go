package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/config"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/presentation/http/handler"
	"github.com/sangkips/pos-terminal/internal/presentation/http/middleware"
	"github.com/sangkips/pos-terminal/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Transaction *handler.TransactionHandler
	Journal     *handler.JournalHandler
	Printer     *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.StoreMiddleware())

		// Per-store rate limiter
		rateLimiter := middleware.NewStoreRateLimiter(rateLimiterConfig(deps.Cfg.RateLimit))
		protected.Use(rateLimiter.Middleware())

		registerTransactionRoutes(protected, h, deps)
		registerSuspendedRoutes(protected, h)
		registerJournalRoutes(protected, h)
		registerPrinterRoutes(protected, h)
	}

	return router
}

func rateLimiterConfig(cfg config.RateLimitConfig) middleware.RateLimiterConfig {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	rl.CleanupInterval = 5 * time.Minute
	rl.EntryTTL = 10 * time.Minute
	return rl
}

func registerTransactionRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	tx := protected.Group("/transaction")
	{
		tx.GET("", h.Transaction.Get)
		tx.POST("/start", h.Transaction.Start)
		tx.POST("/clear", h.Transaction.Clear)
		tx.GET("/receipt", h.Transaction.LastReceipt)

		tx.POST("/items", h.Transaction.AddItem)
		tx.POST("/items/product", h.Transaction.AddProduct)
		tx.PATCH("/items/:lineId", h.Transaction.UpdateItem)
		tx.DELETE("/items/:lineId", h.Transaction.RemoveItem)

		markdowns := tx.Group("/items/:lineId/markdown")
		markdowns.Use(middleware.RequirePermission(middleware.PermissionApplyMarkdowns))
		{
			markdowns.POST("", h.Transaction.ApplyMarkdown)
			markdowns.DELETE("", h.Transaction.RemoveMarkdown)
		}

		tx.PUT("/customer", h.Transaction.SetCustomer)
		tx.DELETE("/customer", h.Transaction.ClearCustomer)
		tx.PUT("/fulfillment", h.Transaction.SetFulfillment)
		tx.DELETE("/fulfillment", h.Transaction.ClearFulfillment)

		tx.POST("/checkout", h.Transaction.Checkout)
		tx.POST("/cart", h.Transaction.ReturnToCart)
		tx.POST("/payment", h.Transaction.ProceedToPayment)
		tx.POST("/payments", h.Transaction.AddPayment)
		tx.DELETE("/payments/:paymentId", h.Transaction.RemovePayment)

		// Completion is idempotent per employee and key
		tx.POST("/complete", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: deps.Logger,
		}), h.Transaction.Complete)
		tx.POST("/void", h.Transaction.Void)
		tx.POST("/suspend", h.Transaction.Suspend)
	}
}

func registerSuspendedRoutes(protected *gin.RouterGroup, h *Handlers) {
	suspended := protected.Group("/suspended")
	{
		suspended.GET("", h.Transaction.ListSuspended)
		suspended.POST("/:id/resume", h.Transaction.Resume)
	}
}

func registerJournalRoutes(protected *gin.RouterGroup, h *Handlers) {
	journal := protected.Group("/journal")
	{
		journal.GET("", h.Journal.List)
		journal.GET("/:transactionId", h.Journal.Get)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	p := protected.Group("/printer")
	{
		p.GET("/status", h.Printer.GetStatus)
		// test pages are a store maintenance task
		p.POST("/test", middleware.RequireRole("manager", "supervisor"), h.Printer.TestPrint)
		p.POST("/receipt", h.Printer.PrintReceipt)
	}
}
