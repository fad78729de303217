package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/infrastructure/database"
	"github.com/sangkips/salepilot-api/pkg/pagination"
	"gorm.io/gorm"
)

const errEmailTaken = "Customer email already exists"

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return uniqueViolation(database.Conn(ctx, r.db).Create(customer).Error, errEmailTaken)
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return findOwned[entity.Customer](ctx, database.Conn(ctx, r.db), "Customer", id)
}

func (r *customerRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return findOwned[entity.Customer](ctx, ForUpdate(database.Conn(ctx, r.db)), "Customer", id)
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return firstOrNil[entity.Customer](database.Conn(ctx, r.db).Scopes(TenantScope(ctx)), "LOWER(email) = ?", strings.ToLower(email))
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return uniqueViolation(database.Conn(ctx, r.db).Save(customer).Error, errEmailTaken)
}

func (r *customerRepository) UpdateFields(ctx context.Context, customer *entity.Customer, fields ...string) error {
	return uniqueViolation(database.Conn(ctx, r.db).Model(customer).Select(fields).Updates(customer).Error, errEmailTaken)
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.Conn(ctx, r.db).Scopes(TenantScope(ctx)).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *domainRepo.CustomerFilterParams) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.Customer{}).Scopes(TenantScope(ctx))

	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}
	if params.Outstanding {
		query = query.Where("account_balance < 0")
	}
	if params.WithCredit {
		query = query.Where("store_credit > 0")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

type supplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *gorm.DB) domainRepo.SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	return database.Conn(ctx, r.db).Create(supplier).Error
}

func (r *supplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	return findOwned[entity.Supplier](ctx, database.Conn(ctx, r.db), "Supplier", id)
}

func (r *supplierRepository) Update(ctx context.Context, supplier *entity.Supplier) error {
	return database.Conn(ctx, r.db).Save(supplier).Error
}

func (r *supplierRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Supplier, int64, error) {
	var suppliers []entity.Supplier
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.Supplier{}).Scopes(TenantScope(ctx))
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(contact_person) LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&suppliers).Error

	return suppliers, total, err
}
