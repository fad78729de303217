package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salepilot-api/internal/config"
	domainRepo "github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/infrastructure/lock"
	"github.com/sangkips/salepilot-api/internal/presentation/http/handler"
	"github.com/sangkips/salepilot-api/internal/presentation/http/middleware"
	"github.com/sangkips/salepilot-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Permission names carried in access tokens
const (
	PermManageSales      = "manage-sales"
	PermManageReturns    = "manage-returns"
	PermManageProducts   = "manage-products"
	PermManageCustomers  = "manage-customers"
	PermManageSuppliers  = "manage-suppliers"
	PermManageAccounting = "manage-accounting"
	PermManagePurchases  = "manage-purchases"
	PermManageInventory  = "manage-inventory"

	RoleSuperAdmin = "super-admin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Tenant        *handler.TenantHandler
	Product       *handler.ProductHandler
	Category      *handler.CategoryHandler
	Customer      *handler.CustomerHandler
	Supplier      *handler.SupplierHandler
	Sale          *handler.SaleHandler
	Return        *handler.ReturnHandler
	Accounting    *handler.AccountingHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	StockTake     *handler.StockTakeHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Log             logrus.FieldLogger
	TenantStatus    middleware.TenantStatus
	IdempotencyRepo domainRepo.IdempotencyRepository
	Locker          lock.Locker
	RateLimiter     *middleware.TenantRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTManager))
	{
		registerAdminRoutes(v1, h)

		// Tenant-bound routes
		tenanted := v1.Group("")
		tenanted.Use(middleware.BindTenant(deps.TenantStatus))
		if deps.RateLimiter != nil {
			tenanted.Use(deps.RateLimiter.Middleware())
		}

		idempotent := middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Locker: deps.Locker,
		})

		tenanted.GET("/tenant", h.Tenant.GetCurrentTenant)
		registerSaleRoutes(tenanted, h, idempotent)
		registerReturnRoutes(tenanted, h, idempotent)
		registerProductRoutes(tenanted, h)
		registerCategoryRoutes(tenanted, h)
		registerCustomerRoutes(tenanted, h)
		registerSupplierRoutes(tenanted, h)
		registerAccountingRoutes(tenanted, h)
		registerPurchaseOrderRoutes(tenanted, h)
		registerStockTakeRoutes(tenanted, h)
	}

	return router
}

func registerAdminRoutes(v1 *gin.RouterGroup, h *Handlers) {
	admin := v1.Group("/admin/tenants")
	admin.Use(middleware.RequireRole(RoleSuperAdmin))
	{
		admin.GET("", h.Tenant.List)
		admin.POST("", h.Tenant.Create)
		admin.PUT("/:id/active", h.Tenant.SetActive)
	}
}

func registerSaleRoutes(rg *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	sales := rg.Group("/sales")
	sales.Use(middleware.RequirePermission(PermManageSales))
	{
		sales.GET("", h.Sale.List)
		sales.POST("", idempotent, h.Sale.Create)
		sales.GET("/:id", h.Sale.Get)
		sales.GET("/:id/items", h.Sale.ListItems)
		sales.GET("/:id/payments", h.Sale.ListPayments)
		sales.POST("/:id/payments", idempotent, h.Sale.AddPayment)
	}
}

func registerReturnRoutes(rg *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	returns := rg.Group("/returns")
	returns.Use(middleware.RequirePermission(PermManageReturns))
	{
		returns.GET("", h.Return.List)
		returns.POST("", idempotent, h.Return.Create)
		returns.GET("/:id", h.Return.Get)
	}
}

func registerProductRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	products.Use(middleware.RequirePermission(PermManageProducts))
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
	}
}

func registerCategoryRoutes(rg *gin.RouterGroup, h *Handlers) {
	categories := rg.Group("/categories")
	categories.Use(middleware.RequirePermission(PermManageProducts))
	{
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}
}

func registerCustomerRoutes(rg *gin.RouterGroup, h *Handlers) {
	customers := rg.Group("/customers")
	customers.Use(middleware.RequirePermission(PermManageCustomers))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.POST("/:id/store-credit", h.Customer.AddStoreCredit)
	}
}

func registerSupplierRoutes(rg *gin.RouterGroup, h *Handlers) {
	suppliers := rg.Group("/suppliers")
	suppliers.Use(middleware.RequirePermission(PermManageSuppliers))
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
	}
}

func registerAccountingRoutes(rg *gin.RouterGroup, h *Handlers) {
	accounting := rg.Group("/accounting")
	accounting.Use(middleware.RequirePermission(PermManageAccounting))
	{
		accounting.GET("/accounts", h.Accounting.ListAccounts)
		accounting.POST("/accounts", h.Accounting.CreateAccount)
		accounting.POST("/accounts/defaults", h.Accounting.InitializeDefaults)
		accounting.GET("/accounts/:id", h.Accounting.GetAccount)
		accounting.GET("/journal-entries", h.Accounting.ListJournalEntries)
		accounting.POST("/journal-entries", h.Accounting.PostJournalEntry)
		accounting.GET("/journal-entries/:id", h.Accounting.GetJournalEntry)
		accounting.GET("/trial-balance", h.Accounting.TrialBalance)
	}
}

func registerPurchaseOrderRoutes(rg *gin.RouterGroup, h *Handlers) {
	orders := rg.Group("/purchase-orders")
	orders.Use(middleware.RequirePermission(PermManagePurchases))
	{
		orders.GET("", h.PurchaseOrder.List)
		orders.POST("", h.PurchaseOrder.Create)
		orders.GET("/:id", h.PurchaseOrder.Get)
		orders.PUT("/:id/status", h.PurchaseOrder.UpdateStatus)
		orders.POST("/:id/receive", h.PurchaseOrder.Receive)
	}
}

func registerStockTakeRoutes(rg *gin.RouterGroup, h *Handlers) {
	stockTakes := rg.Group("/stock-takes")
	stockTakes.Use(middleware.RequirePermission(PermManageInventory))
	{
		stockTakes.GET("", h.StockTake.List)
		stockTakes.POST("", h.StockTake.Start)
		stockTakes.GET("/active", h.StockTake.GetActive)
		stockTakes.PUT("/active/items/:product_id", h.StockTake.UpdateCount)
		stockTakes.POST("/active/finalize", h.StockTake.Finalize)
		stockTakes.GET("/:id/items", h.StockTake.ListItems)
	}
}
