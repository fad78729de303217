package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sangkips/salepilot-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ProductService handles product-related operations. Stock is owned by the StockLedger
// and cannot be edited here.
type ProductService struct {
	tx           repository.Transactor
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	log          logrus.FieldLogger
}

// NewProductService creates a new product service
func NewProductService(
	tx repository.Transactor,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	log logrus.FieldLogger,
) *ProductService {
	return &ProductService{
		tx:           tx,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		log:          log.WithField("module", "product_service"),
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	CategoryID   *uuid.UUID       `json:"category_id"`
	Name         string           `json:"name" validate:"required,max=255"`
	SKU          string           `json:"sku" validate:"required,max=100"`
	Description  *string          `json:"description"`
	Price        decimal.Decimal  `json:"price" validate:"gte=0"`
	CostPrice    decimal.Decimal  `json:"cost_price" validate:"gte=0"`
	Stock        decimal.Decimal  `json:"stock" validate:"gte=0"`
	ReorderPoint *decimal.Decimal `json:"reorder_point" validate:"omitempty,gte=0"`
}

// CreateProduct creates a new product. SKUs are unique per tenant.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product := &entity.Product{
		CategoryID:   input.CategoryID,
		Name:         input.Name,
		SKU:          strings.TrimSpace(input.SKU),
		Description:  input.Description,
		Price:        input.Price,
		CostPrice:    input.CostPrice,
		Stock:        input.Stock,
		ReorderPoint: input.ReorderPoint,
		Status:       enum.ProductStatusActive,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.productRepo.GetBySKU(ctx, product.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflictError("Product SKU already exists")
		}
		if product.CategoryID != nil {
			if _, err := s.categoryRepo.GetByID(ctx, *product.CategoryID); err != nil {
				return err
			}
		}
		return s.productRepo.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	product.LowStock = product.IsLowStock()
	s.log.WithFields(logrus.Fields{"product": product.ID, "sku": product.SKU}).Info("product created")
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ListLowStock returns active products at or below their reorder point
func (s *ProductService) ListLowStock(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.ListLowStock(ctx)
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	CategoryID   *uuid.UUID          `json:"category_id"`
	Name         *string             `json:"name" validate:"omitempty,min=1,max=255"`
	SKU          *string             `json:"sku" validate:"omitempty,min=1,max=100"`
	Description  *string             `json:"description"`
	Price        *decimal.Decimal    `json:"price" validate:"omitempty,gte=0"`
	CostPrice    *decimal.Decimal    `json:"cost_price" validate:"omitempty,gte=0"`
	ReorderPoint *decimal.Decimal    `json:"reorder_point" validate:"omitempty,gte=0"`
	Status       *enum.ProductStatus `json:"status"`
}

// UpdateProduct updates a product's catalogue fields
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var product *entity.Product
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if input.SKU != nil {
			sku := strings.TrimSpace(*input.SKU)
			if sku != product.SKU {
				existing, err := s.productRepo.GetBySKU(ctx, sku)
				if err != nil {
					return err
				}
				if existing != nil {
					return apperror.NewConflictError("Product SKU already exists")
				}
				product.SKU = sku
			}
		}
		if input.CategoryID != nil {
			if _, err := s.categoryRepo.GetByID(ctx, *input.CategoryID); err != nil {
				return err
			}
			product.CategoryID = input.CategoryID
		}
		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = input.Description
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.CostPrice != nil {
			product.CostPrice = *input.CostPrice
		}
		if input.ReorderPoint != nil {
			product.ReorderPoint = input.ReorderPoint
		}
		if input.Status != nil {
			product.Status = *input.Status
		}

		return s.productRepo.UpdateFields(ctx, product,
			"category_id", "name", "sku", "description", "price", "cost_price", "reorder_point", "status")
	})
	if err != nil {
		return nil, err
	}

	product.LowStock = product.IsLowStock()
	return product, nil
}
