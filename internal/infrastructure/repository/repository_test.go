package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/domain/tenant"
	"github.com/sangkips/salepilot-api/internal/infrastructure/database"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sangkips/salepilot-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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

	require.NoError(t, database.AutoMigrate(db, logger.NewNop()))
	return db
}

func tenantCtx() context.Context {
	return tenant.WithID(context.Background(), uuid.New())
}

func assertConflict(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict), "want CONFLICT, got %v", err)
}

func TestAutoMigrate_IsRepeatable(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, database.AutoMigrate(db, logger.NewNop()))
	assert.True(t, db.Migrator().HasIndex("products", "idx_products_tenant_sku"))
	assert.True(t, db.Migrator().HasIndex("accounts", "idx_accounts_tenant_singleton"))
}

func TestProductSKU_UniquePerTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := tenantCtx()

	require.NoError(t, repo.Create(ctx, &entity.Product{Name: "Widget", SKU: "SKU-1"}))
	assertConflict(t, repo.Create(ctx, &entity.Product{Name: "Widget again", SKU: "SKU-1"}))

	// another tenant may reuse the SKU
	require.NoError(t, repo.Create(tenantCtx(), &entity.Product{Name: "Widget", SKU: "SKU-1"}))

	t.Run("renaming onto a taken SKU", func(t *testing.T) {
		other := &entity.Product{Name: "Gadget", SKU: "SKU-2"}
		require.NoError(t, repo.Create(ctx, other))
		other.SKU = "SKU-1"
		assertConflict(t, repo.UpdateFields(ctx, other, "sku"))
	})

	t.Run("soft-deleted SKU can be reused", func(t *testing.T) {
		old := &entity.Product{Name: "Retired", SKU: "SKU-3"}
		require.NoError(t, repo.Create(ctx, old))
		require.NoError(t, db.WithContext(ctx).Delete(old).Error)
		require.NoError(t, repo.Create(ctx, &entity.Product{Name: "Replacement", SKU: "SKU-3"}))
	})
}

func TestCustomerEmail_UniquePerTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := tenantCtx()
	email := "ada@example.com"

	require.NoError(t, repo.Create(ctx, &entity.Customer{Name: "Ada", Email: &email}))
	assertConflict(t, repo.Create(ctx, &entity.Customer{Name: "Ada L", Email: &email}))
	require.NoError(t, repo.Create(tenantCtx(), &entity.Customer{Name: "Ada", Email: &email}))

	// customers without an email never collide
	require.NoError(t, repo.Create(ctx, &entity.Customer{Name: "Walk-in"}))
	require.NoError(t, repo.Create(ctx, &entity.Customer{Name: "Walk-in"}))
}

func TestAccount_UniqueNumberAndSingletonSubType(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := tenantCtx()
	ar := enum.AccountSubTypeAccountsReceivable
	cash := enum.AccountSubTypeCash

	require.NoError(t, repo.Create(ctx, &entity.Account{Number: "1100", Name: "AR", Type: enum.AccountTypeAsset, SubType: &ar, IsDebitNormal: true}))
	assertConflict(t, repo.Create(ctx, &entity.Account{Number: "1100", Name: "Dup", Type: enum.AccountTypeAsset, IsDebitNormal: true}))
	assertConflict(t, repo.Create(ctx, &entity.Account{Number: "1101", Name: "AR 2", Type: enum.AccountTypeAsset, SubType: &ar, IsDebitNormal: true}))

	// non-singleton sub-types may repeat
	require.NoError(t, repo.Create(ctx, &entity.Account{Number: "1000", Name: "Till", Type: enum.AccountTypeAsset, SubType: &cash, IsDebitNormal: true}))
	require.NoError(t, repo.Create(ctx, &entity.Account{Number: "1001", Name: "Bank", Type: enum.AccountTypeAsset, SubType: &cash, IsDebitNormal: true}))

	require.NoError(t, repo.Create(tenantCtx(), &entity.Account{Number: "1100", Name: "AR", Type: enum.AccountTypeAsset, SubType: &ar, IsDebitNormal: true}))
}

func TestPurchaseOrderNumber_UniquePerTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseOrderRepository(db)
	ctx := tenantCtx()
	supplierID := uuid.New()

	require.NoError(t, repo.Create(ctx, &entity.PurchaseOrder{PONumber: "PO-2026-0001", SupplierID: supplierID}))
	assertConflict(t, repo.Create(ctx, &entity.PurchaseOrder{PONumber: "PO-2026-0001", SupplierID: supplierID}))
	require.NoError(t, repo.Create(tenantCtx(), &entity.PurchaseOrder{PONumber: "PO-2026-0001", SupplierID: supplierID}))
}

func TestIdempotencyKey_DeleteFreesScope(t *testing.T) {
	db := newTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()

	newKey := func() *entity.IdempotencyKey {
		return &entity.IdempotencyKey{
			TenantID:     tenantID,
			UserID:       userID,
			Key:          "checkout-1",
			Endpoint:     "POST /api/v1/sales",
			ResponseCode: 201,
			ExpiresAt:    time.Now().Add(-time.Minute),
		}
	}

	first := newKey()
	require.NoError(t, repo.Create(ctx, first))
	require.ErrorIs(t, repo.Create(ctx, newKey()), gorm.ErrDuplicatedKey)

	require.NoError(t, repo.Delete(ctx, first.ID))
	found, err := repo.GetByKey(ctx, tenantID, userID, "checkout-1")
	require.NoError(t, err)
	assert.Nil(t, found)
	require.NoError(t, repo.Create(ctx, newKey()))
}
