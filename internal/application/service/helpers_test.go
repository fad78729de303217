package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/domain/tenant"
	"github.com/sangkips/salepilot-api/internal/infrastructure/database"
	"github.com/sangkips/salepilot-api/internal/infrastructure/events"
	"github.com/sangkips/salepilot-api/internal/infrastructure/lock"
	infraRepo "github.com/sangkips/salepilot-api/internal/infrastructure/repository"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sangkips/salepilot-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	db  *gorm.DB
	pub *recordingPublisher

	customers  *CustomerService
	stock      *StockLedger
	sales      *SaleService
	returns    *ReturnService
	accounting *AccountingService
	purchases  *PurchaseOrderService
	stockTakes *StockTakeService
	products   *ProductService
	categories *CategoryService
	suppliers  *SupplierService
	tenants    *TenantService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithPolicy(t, InventoryPolicy{})
}

func newTestEnvWithPolicy(t *testing.T, policy InventoryPolicy) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := logger.NewNop()
	require.NoError(t, database.AutoMigrate(db, log))

	tx := database.NewTransactor(db)
	locker := lock.NewLocalLocker()
	pub := &recordingPublisher{}

	productRepo := infraRepo.NewProductRepository(db)
	categoryRepo := infraRepo.NewCategoryRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	supplierRepo := infraRepo.NewSupplierRepository(db)
	saleRepo := infraRepo.NewSaleRepository(db)

	customers := NewCustomerService(tx, customerRepo, log)
	stock := NewStockLedger(productRepo, policy, log)

	return &testEnv{
		db:         db,
		pub:        pub,
		customers:  customers,
		stock:      stock,
		sales:      NewSaleService(tx, saleRepo, infraRepo.NewPaymentRepository(db), customers, stock, locker, pub, log),
		returns:    NewReturnService(tx, infraRepo.NewReturnRepository(db), saleRepo, productRepo, customers, stock, locker, pub, log),
		accounting: NewAccountingService(tx, infraRepo.NewAccountRepository(db), infraRepo.NewJournalRepository(db), locker, pub, log),
		purchases:  NewPurchaseOrderService(tx, infraRepo.NewPurchaseOrderRepository(db), supplierRepo, productRepo, stock, policy, locker, pub, log),
		stockTakes: NewStockTakeService(tx, infraRepo.NewStockTakeRepository(db), productRepo, stock, locker, pub, log),
		products:   NewProductService(tx, productRepo, categoryRepo, log),
		categories: NewCategoryService(tx, categoryRepo),
		suppliers:  NewSupplierService(supplierRepo),
		tenants:    NewTenantService(infraRepo.NewTenantRepository(db), log),
	}
}

func tenantCtx() context.Context {
	return tenant.WithID(context.Background(), uuid.New())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperror.GetAppError(err).Kind, err.Error())
}

func (e *testEnv) product(t *testing.T, ctx context.Context, sku, price, cost, stock string) *entity.Product {
	t.Helper()
	p, err := e.products.CreateProduct(ctx, &CreateProductInput{
		Name:      "Product " + sku,
		SKU:       sku,
		Price:     dec(price),
		CostPrice: dec(cost),
		Stock:     dec(stock),
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) customer(t *testing.T, ctx context.Context, name string) *entity.Customer {
	t.Helper()
	c, err := e.customers.CreateCustomer(ctx, &CreateCustomerInput{Name: name})
	require.NoError(t, err)
	return c
}

func (e *testEnv) reloadProduct(t *testing.T, ctx context.Context, id uuid.UUID) *entity.Product {
	t.Helper()
	p, err := e.products.GetProduct(ctx, id)
	require.NoError(t, err)
	return p
}

func (e *testEnv) reloadCustomer(t *testing.T, ctx context.Context, id uuid.UUID) *entity.Customer {
	t.Helper()
	c, err := e.customers.GetCustomer(ctx, id)
	require.NoError(t, err)
	return c
}

func (e *testEnv) account(t *testing.T, ctx context.Context, number string, typ enum.AccountType) *entity.Account {
	t.Helper()
	a, err := e.accounting.CreateAccount(ctx, &CreateAccountInput{
		Number: number,
		Name:   "Account " + number,
		Type:   typ,
	})
	require.NoError(t, err)
	return a
}

func (e *testEnv) waitForEvent(t *testing.T, eventType string) {
	t.Helper()
	assert.Eventually(t, func() bool {
		for _, typ := range e.pub.types() {
			if typ == eventType {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond, "event %s was not published", eventType)
}
