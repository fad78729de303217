package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/infrastructure/database"
	"github.com/sangkips/salepilot-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type purchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository creates a new purchase order repository
func NewPurchaseOrderRepository(db *gorm.DB) domainRepo.PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	db := database.Conn(ctx, r.db)
	if err := db.Omit(clause.Associations).Create(po).Error; err != nil {
		return uniqueViolation(err, "Purchase order number "+po.PONumber+" already exists")
	}
	if len(po.Items) == 0 {
		return nil
	}
	for i := range po.Items {
		po.Items[i].PurchaseOrderID = po.ID
	}
	return db.CreateInBatches(&po.Items, itemBatchSize).Error
}

func (r *purchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	return findOwned[entity.PurchaseOrder](ctx, database.Conn(ctx, r.db).Preload("Items"), "Purchase order", id)
}

func (r *purchaseOrderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	db := ForUpdate(database.Conn(ctx, r.db)).Preload("Items")
	return findOwned[entity.PurchaseOrder](ctx, db, "Purchase order", id)
}

func (r *purchaseOrderRepository) UpdateFields(ctx context.Context, po *entity.PurchaseOrder, fields ...string) error {
	return database.Conn(ctx, r.db).Model(po).Omit(clause.Associations).Select(fields).Updates(po).Error
}

func (r *purchaseOrderRepository) UpdateItemReceived(ctx context.Context, item *entity.PurchaseOrderItem) error {
	return database.Conn(ctx, r.db).Model(item).Update("received_quantity", item.ReceivedQuantity).Error
}

func (r *purchaseOrderRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.PurchaseOrder{}).
		Scopes(TenantScope(ctx)).
		Where("po_number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

func (r *purchaseOrderRepository) List(ctx context.Context, params *pagination.PaginationParams, status *enum.PurchaseOrderStatus) ([]entity.PurchaseOrder, int64, error) {
	var orders []entity.PurchaseOrder
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.PurchaseOrder{}).Scopes(TenantScope(ctx))
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

type stockTakeRepository struct {
	db *gorm.DB
}

// NewStockTakeRepository creates a new stock take repository
func NewStockTakeRepository(db *gorm.DB) domainRepo.StockTakeRepository {
	return &stockTakeRepository{db: db}
}

func (r *stockTakeRepository) Create(ctx context.Context, st *entity.StockTake) error {
	db := database.Conn(ctx, r.db)
	if err := db.Omit(clause.Associations).Create(st).Error; err != nil {
		return err
	}
	if len(st.Items) == 0 {
		return nil
	}
	for i := range st.Items {
		st.Items[i].StockTakeID = st.ID
	}
	return db.CreateInBatches(&st.Items, itemBatchSize).Error
}

func (r *stockTakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockTake, error) {
	db := database.Conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") })
	return findOwned[entity.StockTake](ctx, db, "Stock take", id)
}

func (r *stockTakeRepository) GetActive(ctx context.Context) (*entity.StockTake, error) {
	db := database.Conn(ctx, r.db).
		Scopes(TenantScope(ctx)).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") })
	return firstOrNil[entity.StockTake](db, "status = ?", enum.StockTakeStatusActive)
}

func (r *stockTakeRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.StockTake, error) {
	db := ForUpdate(database.Conn(ctx, r.db)).Preload("Items")
	return findOwned[entity.StockTake](ctx, db, "Stock take", id)
}

func (r *stockTakeRepository) GetItem(ctx context.Context, stockTakeID, productID uuid.UUID) (*entity.StockTakeItem, error) {
	return firstOrNil[entity.StockTakeItem](database.Conn(ctx, r.db).Scopes(TenantScope(ctx)),
		"stock_take_id = ? AND product_id = ?", stockTakeID, productID)
}

func (r *stockTakeRepository) UpdateItemCount(ctx context.Context, item *entity.StockTakeItem) error {
	return database.Conn(ctx, r.db).Model(item).Update("counted", item.Counted).Error
}

func (r *stockTakeRepository) UpdateFields(ctx context.Context, st *entity.StockTake, fields ...string) error {
	return database.Conn(ctx, r.db).Model(st).Omit(clause.Associations).Select(fields).Updates(st).Error
}

func (r *stockTakeRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.StockTake, int64, error) {
	var takes []entity.StockTake
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.StockTake{}).Scopes(TenantScope(ctx))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("started_at DESC").
		Find(&takes).Error

	return takes, total, err
}
