package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/infrastructure/events"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) orderedPO(t *testing.T, ctx context.Context, productID uuid.UUID, qty, cost string) *entity.PurchaseOrder {
	t.Helper()
	supplier, err := e.suppliers.CreateSupplier(ctx, &SupplierInput{Name: "Acme Wholesale"})
	require.NoError(t, err)

	po, err := e.purchases.CreatePurchaseOrder(ctx, &CreatePurchaseOrderInput{
		SupplierID: supplier.ID,
		Items:      []PurchaseOrderItemInput{{ProductID: productID, Quantity: dec(qty), CostPrice: dec(cost)}},
	})
	require.NoError(t, err)

	po, err = e.purchases.UpdateStatus(ctx, po.ID, enum.PurchaseOrderStatusOrdered)
	require.NoError(t, err)
	return po
}

func receive(productID uuid.UUID, qty string) *ReceiveInventoryInput {
	return &ReceiveInventoryInput{Items: []ReceiveItemInput{{ProductID: productID, Quantity: dec(qty)}}}
}

func TestCreatePurchaseOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "6.00", "0")
	supplier, err := env.suppliers.CreateSupplier(ctx, &SupplierInput{Name: "Acme Wholesale"})
	require.NoError(t, err)

	in := &CreatePurchaseOrderInput{
		SupplierID:   supplier.ID,
		Items:        []PurchaseOrderItemInput{{ProductID: p.ID, Quantity: dec("3"), CostPrice: dec("4.25")}},
		ShippingCost: dec("5.00"),
		Tax:          dec("1.00"),
	}
	first, err := env.purchases.CreatePurchaseOrder(ctx, in)
	require.NoError(t, err)
	second, err := env.purchases.CreatePurchaseOrder(ctx, in)
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("PO-%d-0001", year), first.PONumber)
	assert.Equal(t, fmt.Sprintf("PO-%d-0002", year), second.PONumber)
	assert.Equal(t, enum.PurchaseOrderStatusDraft, first.Status)
	assertDecimal(t, "12.75", first.Subtotal)
	assertDecimal(t, "18.75", first.Total)
	assert.Equal(t, "Acme Wholesale", first.SupplierName)

	// numbering is per tenant
	other := tenantCtx()
	op := env.product(t, other, "SKU-1", "10.00", "6.00", "0")
	theirs := env.orderedPO(t, other, op.ID, "1", "1")
	assert.Equal(t, fmt.Sprintf("PO-%d-0001", year), theirs.PONumber)

	t.Run("foreign supplier", func(t *testing.T) {
		_, err := env.purchases.CreatePurchaseOrder(other, in)
		assertKind(t, err, apperror.KindCrossTenant)
	})

	t.Run("same product on two lines", func(t *testing.T) {
		_, err := env.purchases.CreatePurchaseOrder(ctx, &CreatePurchaseOrderInput{
			SupplierID: supplier.ID,
			Items: []PurchaseOrderItemInput{
				{ProductID: p.ID, Quantity: dec("5"), CostPrice: dec("5.00")},
				{ProductID: p.ID, Quantity: dec("5"), CostPrice: dec("6.00")},
			},
		})
		assertKind(t, err, apperror.KindConflict)

		orders, err := env.purchases.ListPurchaseOrders(ctx, nil, nil)
		require.NoError(t, err)
		assert.Len(t, orders.Items, 2)
	})
}

func TestReceiveInventory_PartialThenFull(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "5.00", "0")
	po := env.orderedPO(t, ctx, p.ID, "100", "5.00")
	assert.Equal(t, enum.PurchaseOrderStatusOrdered, po.Status)
	require.NotNil(t, po.OrderedAt)

	po, err := env.purchases.ReceiveInventory(ctx, po.ID, receive(p.ID, "60"))
	require.NoError(t, err)
	assert.Equal(t, enum.PurchaseOrderStatusPartiallyReceived, po.Status)
	assertDecimal(t, "60", env.reloadProduct(t, ctx, p.ID).Stock)

	po, err = env.purchases.ReceiveInventory(ctx, po.ID, receive(p.ID, "40"))
	require.NoError(t, err)
	assert.Equal(t, enum.PurchaseOrderStatusReceived, po.Status)
	assert.NotNil(t, po.ReceivedAt)
	assertDecimal(t, "100", env.reloadProduct(t, ctx, p.ID).Stock)

	stored, err := env.purchases.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assertDecimal(t, "100", stored.Items[0].ReceivedQuantity)

	t.Run("received order cannot take more", func(t *testing.T) {
		_, err := env.purchases.ReceiveInventory(ctx, po.ID, receive(p.ID, "1"))
		assertKind(t, err, apperror.KindConflict)
	})

	env.waitForEvent(t, events.PurchaseOrderReceived)
}

func TestReceiveInventory_OverReceipt(t *testing.T) {
	t.Run("rejected by default", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := tenantCtx()
		p := env.product(t, ctx, "SKU-1", "10.00", "5.00", "0")
		po := env.orderedPO(t, ctx, p.ID, "10", "5.00")

		_, err := env.purchases.ReceiveInventory(ctx, po.ID, receive(p.ID, "11"))
		assertKind(t, err, apperror.KindInvalidAmount)
		assertDecimal(t, "0", env.reloadProduct(t, ctx, p.ID).Stock)

		stored, err := env.purchases.GetPurchaseOrder(ctx, po.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.PurchaseOrderStatusOrdered, stored.Status)
		assertDecimal(t, "0", stored.Items[0].ReceivedQuantity)
	})

	t.Run("allowed by policy", func(t *testing.T) {
		env := newTestEnvWithPolicy(t, InventoryPolicy{AllowOverReceipt: true})
		ctx := tenantCtx()
		p := env.product(t, ctx, "SKU-1", "10.00", "5.00", "0")
		po := env.orderedPO(t, ctx, p.ID, "10", "5.00")

		po, err := env.purchases.ReceiveInventory(ctx, po.ID, receive(p.ID, "11"))
		require.NoError(t, err)
		assert.Equal(t, enum.PurchaseOrderStatusReceived, po.Status)
		assertDecimal(t, "11", env.reloadProduct(t, ctx, p.ID).Stock)
	})
}

func TestReceiveInventory_Guards(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "5.00", "0")
	supplier, err := env.suppliers.CreateSupplier(ctx, &SupplierInput{Name: "Acme"})
	require.NoError(t, err)
	draft, err := env.purchases.CreatePurchaseOrder(ctx, &CreatePurchaseOrderInput{
		SupplierID: supplier.ID,
		Items:      []PurchaseOrderItemInput{{ProductID: p.ID, Quantity: dec("5"), CostPrice: dec("5")}},
	})
	require.NoError(t, err)

	t.Run("draft", func(t *testing.T) {
		_, err := env.purchases.ReceiveInventory(ctx, draft.ID, receive(p.ID, "1"))
		assertKind(t, err, apperror.KindConflict)
	})

	ordered := env.orderedPO(t, ctx, p.ID, "5", "5")

	t.Run("product not on the order", func(t *testing.T) {
		_, err := env.purchases.ReceiveInventory(ctx, ordered.ID, receive(uuid.New(), "1"))
		assertKind(t, err, apperror.KindNotFound)
	})

	t.Run("zero quantity is skipped", func(t *testing.T) {
		po, err := env.purchases.ReceiveInventory(ctx, ordered.ID, receive(p.ID, "0"))
		require.NoError(t, err)
		assert.Equal(t, enum.PurchaseOrderStatusOrdered, po.Status)
	})

	t.Run("foreign order", func(t *testing.T) {
		_, err := env.purchases.ReceiveInventory(tenantCtx(), ordered.ID, receive(p.ID, "1"))
		assertKind(t, err, apperror.KindCrossTenant)
	})
}

func TestUpdateStatus_Transitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "5.00", "0")
	po := env.orderedPO(t, ctx, p.ID, "10", "5.00")

	_, err := env.purchases.ReceiveInventory(ctx, po.ID, receive(p.ID, "4"))
	require.NoError(t, err)

	_, err = env.purchases.UpdateStatus(ctx, po.ID, enum.PurchaseOrderStatusCanceled)
	assertKind(t, err, apperror.KindConflict)

	_, err = env.purchases.UpdateStatus(ctx, po.ID, enum.PurchaseOrderStatusReceived)
	assertKind(t, err, apperror.KindConflict)

	other := env.orderedPO(t, ctx, p.ID, "1", "5.00")
	canceled, err := env.purchases.UpdateStatus(ctx, other.ID, enum.PurchaseOrderStatusCanceled)
	require.NoError(t, err)
	assert.Equal(t, enum.PurchaseOrderStatusCanceled, canceled.Status)

	status := enum.PurchaseOrderStatusCanceled
	list, err := env.purchases.ListPurchaseOrders(ctx, nil, &status)
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Pagination.Total)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to enum.PurchaseOrderStatus
		want     bool
	}{
		{enum.PurchaseOrderStatusDraft, enum.PurchaseOrderStatusOrdered, true},
		{enum.PurchaseOrderStatusDraft, enum.PurchaseOrderStatusCanceled, true},
		{enum.PurchaseOrderStatusOrdered, enum.PurchaseOrderStatusCanceled, true},
		{enum.PurchaseOrderStatusOrdered, enum.PurchaseOrderStatusDraft, false},
		{enum.PurchaseOrderStatusDraft, enum.PurchaseOrderStatusReceived, false},
		{enum.PurchaseOrderStatusPartiallyReceived, enum.PurchaseOrderStatusCanceled, false},
		{enum.PurchaseOrderStatusReceived, enum.PurchaseOrderStatusCanceled, false},
		{enum.PurchaseOrderStatusCanceled, enum.PurchaseOrderStatusOrdered, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestReceiveInventory_WeightedAverageCost(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	p := env.product(t, ctx, "SKU-1", "10.00", "4.00", "10")
	po := env.orderedPO(t, ctx, p.ID, "30", "6.00")

	_, err := env.purchases.ReceiveInventory(ctx, po.ID, receive(p.ID, "30"))
	require.NoError(t, err)

	got := env.reloadProduct(t, ctx, p.ID)
	assertDecimal(t, "40", got.Stock)
	assertDecimal(t, "5.50", got.CostPrice)
}

func TestReceivingStatus(t *testing.T) {
	item := func(qty, received string) entity.PurchaseOrderItem {
		return entity.PurchaseOrderItem{Quantity: dec(qty), ReceivedQuantity: dec(received)}
	}
	assert.Equal(t, enum.PurchaseOrderStatusOrdered, ReceivingStatus([]entity.PurchaseOrderItem{item("5", "0"), item("2", "0")}))
	assert.Equal(t, enum.PurchaseOrderStatusPartiallyReceived, ReceivingStatus([]entity.PurchaseOrderItem{item("5", "5"), item("2", "0")}))
	assert.Equal(t, enum.PurchaseOrderStatusReceived, ReceivingStatus([]entity.PurchaseOrderItem{item("5", "5"), item("2", "3")}))
}
