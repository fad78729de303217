package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	// Create inserts the sale header and its items
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// GetWithDetails loads the sale with items and payments
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	UpdateFields(ctx context.Context, sale *entity.Sale, fields ...string) error
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// ListWithCursor fetches params.Cursor.Limit+1 sales, newest first
	ListWithCursor(ctx context.Context, params *SaleCursorFilterParams) ([]entity.Sale, error)
	ListItems(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination    *pagination.PaginationParams
	CustomerID    *uuid.UUID
	PaymentStatus *enum.PaymentStatus
	From          *time.Time
	To            *time.Time
}

// SaleCursorFilterParams contains cursor-based filtering parameters for sale queries
type SaleCursorFilterParams struct {
	Cursor     *pagination.CursorParams
	CustomerID *uuid.UUID
}

// PaymentRepository is the append-only payment ledger
type PaymentRepository interface {
	Append(ctx context.Context, payment *entity.Payment) error
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.Payment, error)
}

// ReturnRepository defines the interface for sales return data operations
type ReturnRepository interface {
	// Create inserts the return header and its items
	Create(ctx context.Context, ret *entity.SalesReturn) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesReturn, error)
	List(ctx context.Context, params *pagination.PaginationParams, saleID *uuid.UUID) ([]entity.SalesReturn, int64, error)
}
