package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sangkips/salepilot-api/pkg/pagination"
	"github.com/sangkips/salepilot-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// TenantService manages the registry of stores
type TenantService struct {
	tenantRepo repository.TenantRepository
	log        logrus.FieldLogger
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repository.TenantRepository, log logrus.FieldLogger) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		log:        log.WithField("module", "tenant_service"),
	}
}

// CreateTenantInput represents input for creating a tenant
type CreateTenantInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Slug     string `json:"slug" validate:"omitempty,max=255"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

// CreateTenant registers a new active tenant. The slug defaults to the slugified name.
func (s *TenantService) CreateTenant(ctx context.Context, input *CreateTenantInput) (*entity.Tenant, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	slug := input.Slug
	if slug == "" {
		slug = utils.Slugify(input.Name)
	}
	exists, err := s.tenantRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflictError("Tenant slug already exists")
	}

	t := &entity.Tenant{
		Name:     input.Name,
		Slug:     slug,
		Currency: input.Currency,
		Active:   true,
	}
	if t.Currency == "" {
		t.Currency = "USD"
	}
	if err := s.tenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"tenant": t.ID, "slug": t.Slug}).Info("tenant created")
	return t, nil
}

// GetTenant retrieves a tenant by ID
func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	t, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return t, nil
}

// GetTenantBySlug retrieves a tenant by slug
func (s *TenantService) GetTenantBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	t, err := s.tenantRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return t, nil
}

// SetActive enables or disables a tenant. Disabled tenants are refused at authentication.
func (s *TenantService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*entity.Tenant, error) {
	t, err := s.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Active = active
	if err := s.tenantRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// IsActive reports whether the tenant exists and is active
func (s *TenantService) IsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	t, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return t != nil && t.Active, nil
}

// ListTenants lists all tenants
func (s *TenantService) ListTenants(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Tenant], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	tenants, total, err := s.tenantRepo.ListAll(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(tenants, pag), nil
}
