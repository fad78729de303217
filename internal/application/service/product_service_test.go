package service

import (
	"testing"

	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_SKUUniquePerTenant(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")

	_, err := env.products.CreateProduct(ctx, &CreateProductInput{Name: "Dup", SKU: "SKU-1", Price: dec("1"), CostPrice: dec("1")})
	assertKind(t, err, apperror.KindConflict)

	env.product(t, tenantCtx(), "SKU-1", "10.00", "6.00", "5")
}

func TestProduct_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()

	_, err := env.products.CreateProduct(ctx, &CreateProductInput{Name: "Neg", SKU: "NEG", Price: dec("-1"), CostPrice: dec("1")})
	assertKind(t, err, apperror.KindInvalidAmount)

	_, err = env.products.CreateProduct(ctx, &CreateProductInput{SKU: "NONAME", Price: dec("1"), CostPrice: dec("1")})
	assertKind(t, err, apperror.KindValidation)
}

func TestUpdateProduct_LeavesStockAlone(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")
	other := env.product(t, ctx, "SKU-2", "10.00", "6.00", "5")

	price := dec("12.50")
	archived := enum.ProductStatusArchived
	updated, err := env.products.UpdateProduct(ctx, p.ID, &UpdateProductInput{Price: &price, Status: &archived})
	require.NoError(t, err)
	assertDecimal(t, "12.50", updated.Price)

	got := env.reloadProduct(t, ctx, p.ID)
	assertDecimal(t, "12.50", got.Price)
	assertDecimal(t, "5", got.Stock)
	assert.Equal(t, enum.ProductStatusArchived, got.Status)

	sku := "SKU-2"
	_, err = env.products.UpdateProduct(ctx, p.ID, &UpdateProductInput{SKU: &sku})
	assertKind(t, err, apperror.KindConflict)

	_, err = env.products.UpdateProduct(tenantCtx(), other.ID, &UpdateProductInput{Price: &price})
	assertKind(t, err, apperror.KindCrossTenant)
}

func TestListProducts_IsTenantScoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")
	env.product(t, ctx, "SKU-2", "10.00", "6.00", "5")
	env.product(t, tenantCtx(), "SKU-3", "10.00", "6.00", "5")

	list, err := env.products.ListProducts(ctx, &repository.ProductFilterParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Pagination.Total)
	assert.Len(t, list.Items, 2)
}
