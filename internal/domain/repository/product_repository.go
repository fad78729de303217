package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetForUpdate loads the product and holds a row lock until the transaction ends
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetBySKU returns nil when the tenant has no product with that SKU
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// UpdateFields writes only the named columns of product
	UpdateFields(ctx context.Context, product *entity.Product, fields ...string) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	ListLowStock(ctx context.Context) ([]entity.Product, error)
	ListActive(ctx context.Context) ([]entity.Product, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID *uuid.UUID
	LowStock   bool
	Archived   bool
	SortBy     string
	SortOrder  string
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	// GetByName returns nil when the tenant has no category with that name
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]entity.Category, error)
}
