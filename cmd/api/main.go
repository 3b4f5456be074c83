package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/config"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/catalog"
	"github.com/sangkips/pos-terminal/internal/infrastructure/database"
	"github.com/sangkips/pos-terminal/internal/infrastructure/orders"
	"github.com/sangkips/pos-terminal/internal/infrastructure/repository"
	"github.com/sangkips/pos-terminal/internal/presentation/http/handler"
	"github.com/sangkips/pos-terminal/internal/presentation/http/routes"
	"github.com/sangkips/pos-terminal/pkg/logger"
	"github.com/sangkips/pos-terminal/pkg/printer"
	"github.com/sangkips/pos-terminal/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	registerIdleTimeout = 30 * time.Minute
	pruneInterval       = 5 * time.Minute
	idempotencyCleanup  = time.Hour
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Repositories
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	suspendedRepo, err := newSuspendedRepository(cfg, db, log)
	if err != nil {
		log.Fatal("failed to initialize suspended transaction store", zap.Error(err))
	}

	// External services
	catalogClient, err := catalog.NewClient(catalog.Options{
		BaseURL:         cfg.Catalog.BaseURL,
		Timeout:         cfg.Catalog.Timeout,
		CacheSize:       cfg.Catalog.CacheSize,
		CacheTTL:        cfg.Catalog.CacheTTL,
		FallbackEnabled: cfg.Catalog.FallbackEnabled,
		Logger:          log,
	})
	if err != nil {
		log.Fatal("failed to initialize catalog client", zap.Error(err))
	}
	orderClient := orders.NewClient(cfg.Orders.BaseURL, cfg.Orders.Timeout, log)

	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Warn("failed to initialize printer, printing disabled", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}

	// Services
	journalService := service.NewJournalService(journalRepo)
	printerService := service.NewPrinterService(thermalPrinter, journalService, cfg.Store.StoreInfo, cfg.Printer.CharWidth, log)
	transactionService := service.NewTransactionService(service.RegisterDeps{
		Catalog:   catalogClient,
		Orders:    orderClient,
		Suspended: suspendedRepo,
		Journal:   journalService,
		Printer:   printerService,
		AutoPrint: cfg.Printer.AutoPrint,
		StoreInfo: cfg.Store.StoreInfo,
		Logger:    log,
	})

	handlers := &routes.Handlers{
		Transaction: handler.NewTransactionHandler(transactionService),
		Journal:     handler.NewJournalHandler(journalService),
		Printer:     handler.NewPrinterHandler(printerService, transactionService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Logger:          log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runEvery(ctx, pruneInterval, func() {
		transactionService.PruneIdle(registerIdleTimeout)
	})
	go runEvery(ctx, idempotencyCleanup, func() {
		n, err := idempotencyRepo.DeleteExpired(ctx, time.Now())
		if err != nil {
			log.Warn("failed to delete expired idempotency keys", zap.Error(err))
			return
		}
		if n > 0 {
			log.Info("deleted expired idempotency keys", zap.Int64("count", n))
		}
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("suspend_store", cfg.Suspend.Store),
			zap.String("printer", thermalPrinter.Kind()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newSuspendedRepository picks the parked-transaction store from SUSPEND_STORE
func newSuspendedRepository(cfg *config.Config, db *gorm.DB, log *zap.Logger) (domainRepo.SuspendedTransactionRepository, error) {
	switch cfg.Suspend.Store {
	case "", "postgres":
		return repository.NewSuspendedRepository(db), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		log.Info("suspended transactions stored in redis", zap.String("addr", cfg.Redis.Addr))
		return repository.NewRedisSuspendedRepository(client, cfg.Suspend.TTL), nil
	case "memory":
		log.Warn("suspended transactions kept in memory; they are lost on restart")
		return repository.NewMemorySuspendedRepository(), nil
	default:
		return nil, fmt.Errorf("unknown SUSPEND_STORE %q", cfg.Suspend.Store)
	}
}

func runEvery(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
