package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/infrastructure/events"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReturn_CumulativeRefunds(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")
	c := env.customer(t, ctx, "Ada")

	sale, err := env.sales.CreateSale(ctx, twoUnitSale(p.ID, &c.ID, "21.00"))
	require.NoError(t, err)

	ret, err := env.returns.CreateReturn(ctx, &CreateReturnInput{
		SaleID:       sale.ID,
		Items:        []ReturnItemInput{{ProductID: p.ID, Quantity: dec("1"), AddToStock: true}},
		RefundAmount: dec("10.50"),
		RefundMethod: "Cash",
	})
	require.NoError(t, err)
	assert.Equal(t, &c.ID, ret.CustomerID)
	assertDecimal(t, "4", env.reloadProduct(t, ctx, p.ID).Stock)

	reloaded, err := env.sales.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.RefundStatusPartiallyRefunded, reloaded.RefundStatus)
	assertDecimal(t, "10.50", reloaded.RefundedAmount)

	t.Run("refund beyond amount paid", func(t *testing.T) {
		_, err := env.returns.CreateReturn(ctx, &CreateReturnInput{
			SaleID:       sale.ID,
			Items:        []ReturnItemInput{{ProductID: p.ID, Quantity: dec("1")}},
			RefundAmount: dec("10.51"),
			RefundMethod: "Cash",
		})
		assertKind(t, err, apperror.KindInvalidAmount)
	})

	_, err = env.returns.CreateReturn(ctx, &CreateReturnInput{
		SaleID:       sale.ID,
		Items:        []ReturnItemInput{{ProductID: p.ID, Quantity: dec("1")}},
		RefundAmount: dec("10.50"),
		RefundMethod: "Cash",
	})
	require.NoError(t, err)

	reloaded, err = env.sales.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.RefundStatusFullyRefunded, reloaded.RefundStatus)
	// the second line was not restocked
	assertDecimal(t, "4", env.reloadProduct(t, ctx, p.ID).Stock)

	returns, err := env.returns.ListReturns(ctx, nil, &sale.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, returns.Pagination.Total)

	env.waitForEvent(t, events.ReturnCreated)
}

func TestCreateReturn_StoreCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")
	c := env.customer(t, ctx, "Ada")

	sale, err := env.sales.CreateSale(ctx, twoUnitSale(p.ID, &c.ID, "21.00"))
	require.NoError(t, err)

	_, err = env.returns.CreateReturn(ctx, &CreateReturnInput{
		SaleID:       sale.ID,
		Items:        []ReturnItemInput{{ProductID: p.ID, Quantity: dec("2"), AddToStock: true}},
		RefundAmount: dec("21.00"),
		RefundMethod: "store credit",
	})
	require.NoError(t, err)

	assertDecimal(t, "21.00", env.reloadCustomer(t, ctx, c.ID).StoreCredit)
	assertDecimal(t, "5", env.reloadProduct(t, ctx, p.ID).Stock)
}

func TestCreateReturn_PerItemReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	a := env.product(t, ctx, "SKU-A", "10.00", "6.00", "5")
	b := env.product(t, ctx, "SKU-B", "10.00", "6.00", "5")

	sale, err := env.sales.CreateSale(ctx, &CreateSaleInput{
		Items: []SaleItemInput{
			{ProductID: a.ID, Quantity: dec("1")},
			{ProductID: b.ID, Quantity: dec("1")},
		},
		AmountPaid: dec("20.00"),
	})
	require.NoError(t, err)

	ret, err := env.returns.CreateReturn(ctx, &CreateReturnInput{
		SaleID: sale.ID,
		Items: []ReturnItemInput{
			{ProductID: a.ID, Quantity: dec("1"), Reason: strPtr("Damaged in transit")},
			{ProductID: b.ID, Quantity: dec("1")},
		},
		RefundAmount: dec("20.00"),
		RefundMethod: "Cash",
		Reason:       strPtr("Customer changed mind"),
	})
	require.NoError(t, err)

	stored, err := env.returns.GetReturn(ctx, ret.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	reasons := map[uuid.UUID]*string{}
	for _, item := range stored.Items {
		reasons[item.ProductID] = item.Reason
	}
	require.NotNil(t, reasons[a.ID])
	assert.Equal(t, "Damaged in transit", *reasons[a.ID])
	assert.Nil(t, reasons[b.ID])
	require.NotNil(t, stored.Reason)
	assert.Equal(t, "Customer changed mind", *stored.Reason)
}

func TestCreateReturn_Failures(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")
	sale, err := env.sales.CreateSale(ctx, twoUnitSale(p.ID, nil, "21.00"))
	require.NoError(t, err)

	t.Run("non-positive refund", func(t *testing.T) {
		_, err := env.returns.CreateReturn(ctx, &CreateReturnInput{
			SaleID:       sale.ID,
			Items:        []ReturnItemInput{{ProductID: p.ID, Quantity: dec("1")}},
			RefundAmount: dec("0"),
			RefundMethod: "Cash",
		})
		assertKind(t, err, apperror.KindInvalidAmount)
	})

	t.Run("unknown sale", func(t *testing.T) {
		_, err := env.returns.CreateReturn(ctx, &CreateReturnInput{
			SaleID:       uuid.New(),
			Items:        []ReturnItemInput{{ProductID: p.ID, Quantity: dec("1")}},
			RefundAmount: dec("1"),
			RefundMethod: "Cash",
		})
		assertKind(t, err, apperror.KindNotFound)
	})

	t.Run("foreign sale", func(t *testing.T) {
		_, err := env.returns.CreateReturn(tenantCtx(), &CreateReturnInput{
			SaleID:       sale.ID,
			Items:        []ReturnItemInput{{ProductID: p.ID, Quantity: dec("1")}},
			RefundAmount: dec("1"),
			RefundMethod: "Cash",
		})
		assertKind(t, err, apperror.KindCrossTenant)
	})

	t.Run("restock rolled back with a failing line", func(t *testing.T) {
		_, err := env.returns.CreateReturn(ctx, &CreateReturnInput{
			SaleID: sale.ID,
			Items: []ReturnItemInput{
				{ProductID: p.ID, Quantity: dec("1"), AddToStock: true},
				{ProductID: uuid.New(), Quantity: dec("1"), AddToStock: true},
			},
			RefundAmount: dec("1"),
			RefundMethod: "Cash",
		})
		assertKind(t, err, apperror.KindNotFound)
		assertDecimal(t, "3", env.reloadProduct(t, ctx, p.ID).Stock)
	})
}

func TestRefundStatusFor(t *testing.T) {
	assert.Equal(t, enum.RefundStatusNone, RefundStatusFor(dec("21"), dec("0")))
	assert.Equal(t, enum.RefundStatusPartiallyRefunded, RefundStatusFor(dec("21"), dec("20.99")))
	assert.Equal(t, enum.RefundStatusFullyRefunded, RefundStatusFor(dec("21"), dec("21")))
}
