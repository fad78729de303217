package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/salepilot-api/internal/application/service"
	"github.com/sangkips/salepilot-api/internal/config"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/infrastructure/database"
	"github.com/sangkips/salepilot-api/internal/infrastructure/events"
	"github.com/sangkips/salepilot-api/internal/infrastructure/lock"
	infraRepo "github.com/sangkips/salepilot-api/internal/infrastructure/repository"
	"github.com/sangkips/salepilot-api/internal/presentation/http/handler"
	"github.com/sangkips/salepilot-api/internal/presentation/http/middleware"
	"github.com/sangkips/salepilot-api/internal/presentation/http/routes"
	"github.com/sangkips/salepilot-api/pkg/logger"
	"github.com/sangkips/salepilot-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.App.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	db, err := database.NewDB(&cfg.Database, cfg.Tracing.Enabled, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := database.AutoMigrate(db, log); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	if _, err := database.SeedDefaultTenant(db, cfg.Seed.TenantName, cfg.Seed.TenantSlug, log); err != nil {
		log.WithError(err).Warn("failed to seed default tenant")
	}

	// Locks and events go through Redis when it is configured, so several API
	// instances serialize on the same keys.
	var (
		locker    lock.Locker = lock.NewLocalLocker()
		publisher events.Publisher = events.NoopPublisher{}
		rdb       *redis.Client
	)
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.WithError(err).Fatal("failed to connect to redis")
		}

		locker = lock.NewRedisLocker(rdb, lock.Options{
			TTL:          cfg.Lock.TTL,
			RetryBackoff: cfg.Lock.RetryBackoff,
			RetryCount:   cfg.Lock.RetryCount,
		}, log)
		publisher = events.NewRedisPublisher(rdb, cfg.Redis.Prefix)
		log.WithField("addr", cfg.Redis.Addr).Info("using redis for locks and events")
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	tx := database.NewTransactor(db)

	// Initialize repositories
	tenantRepo := infraRepo.NewTenantRepository(db)
	productRepo := infraRepo.NewProductRepository(db)
	categoryRepo := infraRepo.NewCategoryRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	supplierRepo := infraRepo.NewSupplierRepository(db)
	saleRepo := infraRepo.NewSaleRepository(db)
	paymentRepo := infraRepo.NewPaymentRepository(db)
	returnRepo := infraRepo.NewReturnRepository(db)
	accountRepo := infraRepo.NewAccountRepository(db)
	journalRepo := infraRepo.NewJournalRepository(db)
	purchaseOrderRepo := infraRepo.NewPurchaseOrderRepository(db)
	stockTakeRepo := infraRepo.NewStockTakeRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)

	// Initialize services
	policy := service.InventoryPolicy{
		AllowNegativeStock: cfg.Inventory.AllowNegativeStock,
		AllowOverReceipt:   cfg.Inventory.AllowOverReceipt,
	}
	tenantService := service.NewTenantService(tenantRepo, log)
	customerService := service.NewCustomerService(tx, customerRepo, log)
	stockLedger := service.NewStockLedger(productRepo, policy, log)
	productService := service.NewProductService(tx, productRepo, categoryRepo, log)
	categoryService := service.NewCategoryService(tx, categoryRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	saleService := service.NewSaleService(tx, saleRepo, paymentRepo, customerService, stockLedger, locker, publisher, log)
	returnService := service.NewReturnService(tx, returnRepo, saleRepo, productRepo, customerService, stockLedger, locker, publisher, log)
	accountingService := service.NewAccountingService(tx, accountRepo, journalRepo, locker, publisher, log)
	purchaseOrderService := service.NewPurchaseOrderService(tx, purchaseOrderRepo, supplierRepo, productRepo, stockLedger, policy, locker, publisher, log)
	stockTakeService := service.NewStockTakeService(tx, stockTakeRepo, productRepo, stockLedger, locker, publisher, log)

	handlers := &routes.Handlers{
		Tenant:        handler.NewTenantHandler(tenantService),
		Product:       handler.NewProductHandler(productService),
		Category:      handler.NewCategoryHandler(categoryService),
		Customer:      handler.NewCustomerHandler(customerService),
		Supplier:      handler.NewSupplierHandler(supplierService),
		Sale:          handler.NewSaleHandler(saleService),
		Return:        handler.NewReturnHandler(returnService),
		Accounting:    handler.NewAccountingHandler(accountingService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(purchaseOrderService),
		StockTake:     handler.NewStockTakeHandler(stockTakeService),
	}

	rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Close()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Log:             log,
		TenantStatus:    tenantService,
		IdempotencyRepo: idempotencyRepo,
		Locker:          locker,
		RateLimiter:     rateLimiter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeIdempotencyKeys(ctx, idempotencyRepo, log)

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
		log.WithFields(logrus.Fields{"port": port, "env": cfg.App.Env}).Infof("starting %s", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// purgeIdempotencyKeys drops expired idempotency keys once an hour
func purgeIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, log logrus.FieldLogger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				logger.LogError(log, "main", "purgeIdempotencyKeys", "delete expired keys", nil, err)
				continue
			}
			if n > 0 {
				log.WithField("deleted", n).Debug("purged expired idempotency keys")
			}
		}
	}
}
