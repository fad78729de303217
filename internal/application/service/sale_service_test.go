package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/domain/tenant"
	"github.com/sangkips/salepilot-api/internal/infrastructure/events"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sangkips/salepilot-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoUnitSale(productID uuid.UUID, customerID *uuid.UUID, cash string) *CreateSaleInput {
	return &CreateSaleInput{
		CustomerID: customerID,
		Items:      []SaleItemInput{{ProductID: productID, Quantity: dec("2")}},
		Tax:        dec("1.00"),
		AmountPaid: dec(cash),
	}
}

func TestCreateSale_FullyPaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")

	sale, err := env.sales.CreateSale(ctx, twoUnitSale(p.ID, nil, "21.00"))
	require.NoError(t, err)

	assertDecimal(t, "20.00", sale.Subtotal)
	assertDecimal(t, "21.00", sale.Total)
	assertDecimal(t, "21.00", sale.AmountPaid)
	assertDecimal(t, "0", sale.BalanceDue)
	assertDecimal(t, "0", sale.ChangeDue)
	assert.Equal(t, enum.PaymentStatusPaid, sale.PaymentStatus)
	assert.Regexp(t, `^TRX-\d+-[0-9A-F]{4}$`, sale.TransactionID)

	require.Len(t, sale.Items, 1)
	assertDecimal(t, "10.00", sale.Items[0].PriceAtSale)
	assertDecimal(t, "6.00", sale.Items[0].CostAtSale)

	assertDecimal(t, "3", env.reloadProduct(t, ctx, p.ID).Stock)

	payments, err := env.sales.ListPayments(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assertDecimal(t, "21.00", payments[0].Amount)

	env.waitForEvent(t, events.SaleCompleted)
}

func TestCreateSale_PartialPaymentChargesCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")
	c := env.customer(t, ctx, "Ada")

	sale, err := env.sales.CreateSale(ctx, twoUnitSale(p.ID, &c.ID, "10.00"))
	require.NoError(t, err)

	assertDecimal(t, "21.00", sale.Total)
	assertDecimal(t, "11.00", sale.BalanceDue)
	assert.Equal(t, enum.PaymentStatusPartiallyPaid, sale.PaymentStatus)
	assertDecimal(t, "-11.00", env.reloadCustomer(t, ctx, c.ID).AccountBalance)
}

func TestCreateSale_Unpaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")

	sale, err := env.sales.CreateSale(ctx, twoUnitSale(p.ID, nil, "0"))
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusUnpaid, sale.PaymentStatus)

	payments, err := env.sales.ListPayments(ctx, sale.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestCreateSale_ChangeDueAndPriceOverride(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")

	sale, err := env.sales.CreateSale(ctx, &CreateSaleInput{
		Items:      []SaleItemInput{{ProductID: p.ID, Quantity: dec("1"), Price: decPtr("8.50")}},
		AmountPaid: dec("10.00"),
	})
	require.NoError(t, err)

	assertDecimal(t, "8.50", sale.Total)
	assertDecimal(t, "1.50", sale.ChangeDue)
	assertDecimal(t, "0", sale.BalanceDue)
	assert.Equal(t, enum.PaymentStatusPaid, sale.PaymentStatus)
}

func TestCreateSale_PriceOverrideRoundedToCents(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")

	sale, err := env.sales.CreateSale(ctx, &CreateSaleInput{
		Items:      []SaleItemInput{{ProductID: p.ID, Quantity: dec("3"), Price: decPtr("3.335")}},
		AmountPaid: dec("20.00"),
	})
	require.NoError(t, err)

	stored, err := env.sales.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	item := stored.Items[0]
	assertDecimal(t, "3.34", item.PriceAtSale)
	assertDecimal(t, "10.02", item.LineTotal)
	assertDecimal(t, item.PriceAtSale.Mul(item.Quantity).String(), item.LineTotal)
	assertDecimal(t, "10.02", stored.Total)
}

func TestCreateSale_StoreCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")
	c := env.customer(t, ctx, "Ada")
	_, err := env.customers.AddStoreCredit(ctx, c.ID, dec("5.00"))
	require.NoError(t, err)

	in := twoUnitSale(p.ID, &c.ID, "16.00")
	in.StoreCreditUsed = dec("5.00")
	sale, err := env.sales.CreateSale(ctx, in)
	require.NoError(t, err)

	assertDecimal(t, "21.00", sale.AmountPaid)
	assert.Equal(t, enum.PaymentStatusPaid, sale.PaymentStatus)
	assertDecimal(t, "0", env.reloadCustomer(t, ctx, c.ID).StoreCredit)
}

func TestCreateSale_RollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p1 := env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")
	p2 := env.product(t, ctx, "SKU-2", "4.00", "2.00", "5")
	c := env.customer(t, ctx, "Ada")
	_, err := env.customers.AddStoreCredit(ctx, c.ID, dec("1.00"))
	require.NoError(t, err)

	t.Run("insufficient store credit", func(t *testing.T) {
		in := &CreateSaleInput{
			CustomerID: &c.ID,
			Items: []SaleItemInput{
				{ProductID: p1.ID, Quantity: dec("2")},
				{ProductID: p2.ID, Quantity: dec("1")},
			},
			StoreCreditUsed: dec("3.00"),
		}
		_, err := env.sales.CreateSale(ctx, in)
		assertKind(t, err, apperror.KindInsufficientCredit)
	})

	t.Run("missing product", func(t *testing.T) {
		in := &CreateSaleInput{
			Items: []SaleItemInput{
				{ProductID: p1.ID, Quantity: dec("2")},
				{ProductID: uuid.New(), Quantity: dec("1")},
			},
		}
		_, err := env.sales.CreateSale(ctx, in)
		assertKind(t, err, apperror.KindNotFound)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		in := &CreateSaleInput{
			Items: []SaleItemInput{
				{ProductID: p1.ID, Quantity: dec("2")},
				{ProductID: p2.ID, Quantity: dec("6")},
			},
		}
		_, err := env.sales.CreateSale(ctx, in)
		assertKind(t, err, apperror.KindInsufficientStock)
	})

	assertDecimal(t, "5", env.reloadProduct(t, ctx, p1.ID).Stock)
	assertDecimal(t, "5", env.reloadProduct(t, ctx, p2.ID).Stock)
	assertDecimal(t, "1.00", env.reloadCustomer(t, ctx, c.ID).StoreCredit)
	assertDecimal(t, "0", env.reloadCustomer(t, ctx, c.ID).AccountBalance)

	result, err := env.sales.ListSales(ctx, &repository.SaleFilterParams{})
	require.NoError(t, err)
	assert.Zero(t, result.Pagination.Total)
}

func TestCreateSale_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")

	t.Run("no items", func(t *testing.T) {
		_, err := env.sales.CreateSale(ctx, &CreateSaleInput{})
		assertKind(t, err, apperror.KindValidation)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := env.sales.CreateSale(ctx, &CreateSaleInput{
			Items: []SaleItemInput{{ProductID: p.ID, Quantity: decimal.Zero}},
		})
		assertKind(t, err, apperror.KindInvalidAmount)
	})

	t.Run("store credit without customer", func(t *testing.T) {
		in := twoUnitSale(p.ID, nil, "0")
		in.StoreCreditUsed = dec("1.00")
		_, err := env.sales.CreateSale(ctx, in)
		assertKind(t, err, apperror.KindBadRequest)
	})

	t.Run("discount larger than sale", func(t *testing.T) {
		in := twoUnitSale(p.ID, nil, "0")
		in.Discount = dec("50.00")
		_, err := env.sales.CreateSale(ctx, in)
		assertKind(t, err, apperror.KindInvalidAmount)
	})
}

func TestCreateSale_TenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctxA := tenantCtx()
	ctxB := tenantCtx()
	p := env.product(t, ctxA, "SKU-1", "10.00", "6.00", "5")
	c := env.customer(t, ctxA, "Ada")

	t.Run("foreign product", func(t *testing.T) {
		_, err := env.sales.CreateSale(ctxB, twoUnitSale(p.ID, nil, "21.00"))
		assertKind(t, err, apperror.KindCrossTenant)
	})

	t.Run("foreign customer", func(t *testing.T) {
		own := env.product(t, ctxB, "SKU-B", "10.00", "6.00", "5")
		_, err := env.sales.CreateSale(ctxB, twoUnitSale(own.ID, &c.ID, "0"))
		assertKind(t, err, apperror.KindCrossTenant)
	})

	t.Run("no tenant bound", func(t *testing.T) {
		_, err := env.sales.CreateSale(context.Background(), twoUnitSale(p.ID, nil, "21.00"))
		assertKind(t, err, apperror.KindIllegalState)
	})

	t.Run("unbound context", func(t *testing.T) {
		_, err := env.sales.CreateSale(tenant.Without(ctxA), twoUnitSale(p.ID, nil, "21.00"))
		assertKind(t, err, apperror.KindIllegalState)
	})

	assertDecimal(t, "5", env.reloadProduct(t, ctxA, p.ID).Stock)
}

func TestAddPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "5")
	c := env.customer(t, ctx, "Ada")

	sale, err := env.sales.CreateSale(ctx, twoUnitSale(p.ID, &c.ID, "0"))
	require.NoError(t, err)
	require.Equal(t, enum.PaymentStatusUnpaid, sale.PaymentStatus)

	sale, err = env.sales.AddPayment(ctx, sale.ID, &AddPaymentInput{Amount: dec("10.00"), Method: "Card"})
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPartiallyPaid, sale.PaymentStatus)
	assertDecimal(t, "11.00", sale.BalanceDue)
	assertDecimal(t, "-11.00", env.reloadCustomer(t, ctx, c.ID).AccountBalance)

	t.Run("overpayment rejected", func(t *testing.T) {
		_, err := env.sales.AddPayment(ctx, sale.ID, &AddPaymentInput{Amount: dec("11.01"), Method: "Cash"})
		assertKind(t, err, apperror.KindInvalidAmount)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, err := env.sales.AddPayment(ctx, sale.ID, &AddPaymentInput{Amount: dec("0"), Method: "Cash"})
		assertKind(t, err, apperror.KindInvalidAmount)
	})

	sale, err = env.sales.AddPayment(ctx, sale.ID, &AddPaymentInput{Amount: dec("11.00"), Method: "Cash"})
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPaid, sale.PaymentStatus)
	assertDecimal(t, "0", sale.BalanceDue)
	assertDecimal(t, "0", env.reloadCustomer(t, ctx, c.ID).AccountBalance)

	t.Run("paid sale takes no more payments", func(t *testing.T) {
		_, err := env.sales.AddPayment(ctx, sale.ID, &AddPaymentInput{Amount: dec("1.00"), Method: "Cash"})
		assertKind(t, err, apperror.KindConflict)
	})

	detail, err := env.sales.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Payments, 2)
	assert.Len(t, detail.Items, 1)

	env.waitForEvent(t, events.PaymentRecorded)
}

func TestAddPayment_ForeignSale(t *testing.T) {
	env := newTestEnv(t)
	ctxA := tenantCtx()
	p := env.product(t, ctxA, "SKU-1", "10.00", "6.00", "5")
	sale, err := env.sales.CreateSale(ctxA, twoUnitSale(p.ID, nil, "0"))
	require.NoError(t, err)

	_, err = env.sales.AddPayment(tenantCtx(), sale.ID, &AddPaymentInput{Amount: dec("1.00"), Method: "Cash"})
	assertKind(t, err, apperror.KindCrossTenant)
}

func TestListSales_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "50")
	c := env.customer(t, ctx, "Ada")

	_, err := env.sales.CreateSale(ctx, twoUnitSale(p.ID, nil, "21.00"))
	require.NoError(t, err)
	_, err = env.sales.CreateSale(ctx, twoUnitSale(p.ID, &c.ID, "0"))
	require.NoError(t, err)

	// another tenant's sales never show up
	other := tenantCtx()
	op := env.product(t, other, "SKU-1", "10.00", "6.00", "50")
	_, err = env.sales.CreateSale(other, twoUnitSale(op.ID, nil, "0"))
	require.NoError(t, err)

	all, err := env.sales.ListSales(ctx, &repository.SaleFilterParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Pagination.Total)

	unpaid := enum.PaymentStatusUnpaid
	filtered, err := env.sales.ListSales(ctx, &repository.SaleFilterParams{PaymentStatus: &unpaid})
	require.NoError(t, err)
	require.Len(t, filtered.Items, 1)
	assert.Equal(t, c.ID, *filtered.Items[0].CustomerID)

	byCustomer, err := env.sales.ListSales(ctx, &repository.SaleFilterParams{
		CustomerID: &c.ID,
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10},
	})
	require.NoError(t, err)
	assert.Len(t, byCustomer.Items, 1)
}

func TestSaleStatusHelpers(t *testing.T) {
	assertDecimal(t, "21.00", SaleTotal(dec("20.00"), dec("0"), dec("1.00")))
	assertDecimal(t, "15.00", SaleTotal(dec("20.00"), dec("6.00"), dec("1.00")))

	assert.Equal(t, enum.PaymentStatusPaid, StatusForPayment(dec("21"), dec("21")))
	assert.Equal(t, enum.PaymentStatusPaid, StatusForPayment(dec("0"), dec("0")))
	assert.Equal(t, enum.PaymentStatusPartiallyPaid, StatusForPayment(dec("21"), dec("10")))
	assert.Equal(t, enum.PaymentStatusUnpaid, StatusForPayment(dec("21"), dec("0")))

	// a recorded payment never leaves the sale UNPAID
	assert.Equal(t, enum.PaymentStatusPartiallyPaid, StatusAfterPayment(dec("21"), dec("0.01")))
	assert.Equal(t, enum.PaymentStatusPaid, StatusAfterPayment(dec("21"), dec("21")))
}
