package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/infrastructure/database"
	"github.com/sangkips/salepilot-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var productSortColumns = map[string]string{
	"name":       "name",
	"sku":        "sku",
	"price":      "price",
	"stock":      "stock",
	"created_at": "created_at",
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	err := database.Conn(ctx, r.db).Omit(clause.Associations).Create(product).Error
	return uniqueViolation(err, "Product with SKU "+product.SKU+" already exists")
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return findOwned[entity.Product](ctx, database.Conn(ctx, r.db).Preload("Category"), "Product", id)
}

func (r *productRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return findOwned[entity.Product](ctx, ForUpdate(database.Conn(ctx, r.db)), "Product", id)
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return firstOrNil[entity.Product](database.Conn(ctx, r.db).Scopes(TenantScope(ctx)), "sku = ?", sku)
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	err := database.Conn(ctx, r.db).Omit(clause.Associations).Save(product).Error
	return uniqueViolation(err, "Product with SKU "+product.SKU+" already exists")
}

func (r *productRepository) UpdateFields(ctx context.Context, product *entity.Product, fields ...string) error {
	err := database.Conn(ctx, r.db).Model(product).Select(fields).Updates(product).Error
	return uniqueViolation(err, "Product with SKU "+product.SKU+" already exists")
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.Product{}).Scopes(TenantScope(ctx))

	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.LowStock {
		query = query.Where("reorder_point IS NOT NULL AND stock <= reorder_point")
	}

	if !params.Archived {
		query = query.Where("status = ?", enum.ProductStatusActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if col, ok := productSortColumns[params.SortBy]; ok {
		sortBy = col
	}
	if strings.EqualFold(params.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Category").
		Order(sortBy + " " + sortOrder).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) ListLowStock(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := database.Conn(ctx, r.db).
		Scopes(TenantScope(ctx)).
		Where("status = ? AND reorder_point IS NOT NULL AND stock <= reorder_point", enum.ProductStatusActive).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) ListActive(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := database.Conn(ctx, r.db).
		Scopes(TenantScope(ctx)).
		Where("status = ?", enum.ProductStatusActive).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return database.Conn(ctx, r.db).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	return findOwned[entity.Category](ctx, database.Conn(ctx, r.db), "Category", id)
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return firstOrNil[entity.Category](database.Conn(ctx, r.db).Scopes(TenantScope(ctx)), "LOWER(name) = ?", strings.ToLower(name))
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return database.Conn(ctx, r.db).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.Conn(ctx, r.db).Scopes(TenantScope(ctx)).Delete(&entity.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error) {
	var categories []entity.Category
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.Category{}).Scopes(TenantScope(ctx))
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&categories).Error

	return categories, total, err
}

func (r *categoryRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]entity.Category, error) {
	var categories []entity.Category
	err := database.Conn(ctx, r.db).
		Scopes(TenantScope(ctx)).
		Where("parent_id = ?", parentID).
		Find(&categories).Error
	return categories, err
}
