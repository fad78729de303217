package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/infrastructure/database"
	"github.com/sangkips/salepilot-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const itemBatchSize = 100

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	db := database.Conn(ctx, r.db)
	if err := db.Omit(clause.Associations).Create(sale).Error; err != nil {
		return err
	}
	if len(sale.Items) == 0 {
		return nil
	}
	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
	}
	return db.CreateInBatches(&sale.Items, itemBatchSize).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return findOwned[entity.Sale](ctx, database.Conn(ctx, r.db), "Sale", id)
}

func (r *saleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	db := database.Conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_date ASC") })
	return findOwned[entity.Sale](ctx, db, "Sale", id)
}

func (r *saleRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return findOwned[entity.Sale](ctx, ForUpdate(database.Conn(ctx, r.db)), "Sale", id)
}

func (r *saleRepository) UpdateFields(ctx context.Context, sale *entity.Sale, fields ...string) error {
	return database.Conn(ctx, r.db).Model(sale).Omit(clause.Associations).Select(fields).Updates(sale).Error
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.Sale{}).Scopes(TenantScope(ctx))

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *params.PaymentStatus)
	}
	if params.From != nil {
		query = query.Where("sale_date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("sale_date < ?", *params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("sale_date DESC").
		Find(&sales).Error

	return sales, total, err
}

// ListWithCursor walks sales by (created_at, id), newest first.
// Fetches limit+1 items to detect if there are more results.
func (r *saleRepository) ListWithCursor(ctx context.Context, params *domainRepo.SaleCursorFilterParams) ([]entity.Sale, error) {
	var sales []entity.Sale

	params.Cursor.Validate()
	query := database.Conn(ctx, r.db).Model(&entity.Sale{}).Scopes(TenantScope(ctx))
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	order := "created_at DESC, id DESC"
	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
			order = "created_at ASC, id ASC"
		}
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Order(order).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}

	if order == "created_at ASC, id ASC" {
		for i, j := 0, len(sales)-1; i < j; i, j = i+1, j-1 {
			sales[i], sales[j] = sales[j], sales[i]
		}
	}
	return sales, nil
}

func (r *saleRepository) ListItems(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error) {
	var items []entity.SaleItem
	err := database.Conn(ctx, r.db).
		Scopes(TenantScope(ctx)).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates the append-only payment ledger
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Append(ctx context.Context, payment *entity.Payment) error {
	return database.Conn(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := database.Conn(ctx, r.db).
		Scopes(TenantScope(ctx)).
		Where("sale_id = ?", saleID).
		Order("payment_date ASC, created_at ASC").
		Find(&payments).Error
	return payments, err
}

type returnRepository struct {
	db *gorm.DB
}

// NewReturnRepository creates a new sales return repository
func NewReturnRepository(db *gorm.DB) domainRepo.ReturnRepository {
	return &returnRepository{db: db}
}

func (r *returnRepository) Create(ctx context.Context, ret *entity.SalesReturn) error {
	db := database.Conn(ctx, r.db)
	if err := db.Omit(clause.Associations).Create(ret).Error; err != nil {
		return err
	}
	if len(ret.Items) == 0 {
		return nil
	}
	for i := range ret.Items {
		ret.Items[i].ReturnID = ret.ID
	}
	return db.CreateInBatches(&ret.Items, itemBatchSize).Error
}

func (r *returnRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesReturn, error) {
	return findOwned[entity.SalesReturn](ctx, database.Conn(ctx, r.db).Preload("Items"), "Return", id)
}

func (r *returnRepository) List(ctx context.Context, params *pagination.PaginationParams, saleID *uuid.UUID) ([]entity.SalesReturn, int64, error) {
	var returns []entity.SalesReturn
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.SalesReturn{}).Scopes(TenantScope(ctx))
	if saleID != nil {
		query = query.Where("sale_id = ?", *saleID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Items").
		Order("return_date DESC").
		Find(&returns).Error

	return returns, total, err
}
