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

func TestStockTake_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := tenantCtx()
	a := env.product(t, ctx, "SKU-A", "10.00", "6.00", "5")
	b := env.product(t, ctx, "SKU-B", "3.00", "1.00", "8")
	c := env.product(t, ctx, "SKU-C", "3.00", "1.00", "2")

	_, err := env.stockTakes.GetActiveStockTake(ctx)
	assertKind(t, err, apperror.KindNotFound)

	st, err := env.stockTakes.StartStockTake(ctx)
	require.NoError(t, err)
	assert.Equal(t, enum.StockTakeStatusActive, st.Status)
	require.Len(t, st.Items, 3)

	_, err = env.stockTakes.StartStockTake(ctx)
	assertKind(t, err, apperror.KindConflict)

	_, err = env.stockTakes.UpdateItemCount(ctx, a.ID, &UpdateItemCountInput{Counted: dec("4")})
	require.NoError(t, err)
	_, err = env.stockTakes.UpdateItemCount(ctx, b.ID, &UpdateItemCountInput{Counted: dec("8")})
	require.NoError(t, err)
	// a later count replaces the earlier one
	item, err := env.stockTakes.UpdateItemCount(ctx, a.ID, &UpdateItemCountInput{Counted: dec("3")})
	require.NoError(t, err)
	require.NotNil(t, item.Counted)
	assertDecimal(t, "3", *item.Counted)

	t.Run("negative count", func(t *testing.T) {
		_, err := env.stockTakes.UpdateItemCount(ctx, a.ID, &UpdateItemCountInput{Counted: dec("-1")})
		assertKind(t, err, apperror.KindInvalidAmount)
	})

	t.Run("product not in session", func(t *testing.T) {
		_, err := env.stockTakes.UpdateItemCount(ctx, uuid.New(), &UpdateItemCountInput{Counted: dec("1")})
		assertKind(t, err, apperror.KindNotFound)
	})

	done, err := env.stockTakes.FinalizeStockTake(ctx)
	require.NoError(t, err)
	assert.Equal(t, enum.StockTakeStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	assertDecimal(t, "3", env.reloadProduct(t, ctx, a.ID).Stock)
	assertDecimal(t, "8", env.reloadProduct(t, ctx, b.ID).Stock)
	// uncounted lines keep their stock
	assertDecimal(t, "2", env.reloadProduct(t, ctx, c.ID).Stock)

	_, err = env.stockTakes.GetActiveStockTake(ctx)
	assertKind(t, err, apperror.KindNotFound)
	_, err = env.stockTakes.FinalizeStockTake(ctx)
	assertKind(t, err, apperror.KindNotFound)

	items, err := env.stockTakes.GetStockTakeItems(ctx, done.ID)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	// a new session may start once the previous one is closed
	_, err = env.stockTakes.StartStockTake(ctx)
	require.NoError(t, err)

	list, err := env.stockTakes.ListStockTakes(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Pagination.Total)

	env.waitForEvent(t, events.StockTakeFinalized)
}

func TestStockTake_IsPerTenant(t *testing.T) {
	env := newTestEnv(t)
	ctxA, ctxB := tenantCtx(), tenantCtx()
	env.product(t, ctxA, "SKU-A", "10.00", "6.00", "5")
	env.product(t, ctxB, "SKU-B", "10.00", "6.00", "5")

	st, err := env.stockTakes.StartStockTake(ctxA)
	require.NoError(t, err)
	require.Len(t, st.Items, 1)
	assert.Equal(t, "SKU-A", st.Items[0].SKU)

	_, err = env.stockTakes.StartStockTake(ctxB)
	require.NoError(t, err)

	_, err = env.stockTakes.GetStockTakeItems(ctxB, st.ID)
	assertKind(t, err, apperror.KindCrossTenant)
}
