package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/pkg/pagination"
)

// PurchaseOrderRepository defines the interface for purchase order data operations
type PurchaseOrderRepository interface {
	// Create inserts the order header and its items
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error)
	// GetForUpdate loads the order with items and locks the header row
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error)
	UpdateFields(ctx context.Context, po *entity.PurchaseOrder, fields ...string) error
	UpdateItemReceived(ctx context.Context, item *entity.PurchaseOrderItem) error
	// CountByNumberPrefix counts the tenant's orders whose number starts with prefix
	CountByNumberPrefix(ctx context.Context, prefix string) (int64, error)
	List(ctx context.Context, params *pagination.PaginationParams, status *enum.PurchaseOrderStatus) ([]entity.PurchaseOrder, int64, error)
}

// StockTakeRepository defines the interface for stock take data operations
type StockTakeRepository interface {
	// Create inserts the session and its items
	Create(ctx context.Context, st *entity.StockTake) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.StockTake, error)
	// GetActive returns nil when the tenant has no active session
	GetActive(ctx context.Context) (*entity.StockTake, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.StockTake, error)
	// GetItem returns nil when the product is not part of the session
	GetItem(ctx context.Context, stockTakeID, productID uuid.UUID) (*entity.StockTakeItem, error)
	UpdateItemCount(ctx context.Context, item *entity.StockTakeItem) error
	UpdateFields(ctx context.Context, st *entity.StockTake, fields ...string) error
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.StockTake, int64, error)
}
