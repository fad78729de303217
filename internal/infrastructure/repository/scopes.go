package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/tenant"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TenantScope returns a GORM scope that filters by the tenant bound to ctx.
// It should be applied to every query for tenant-scoped entities.
func TenantScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		tenantID, ok := tenant.FromContext(ctx)
		if !ok {
			// Fail-safe: no tenant, no rows
			return db.Where("1 = 0")
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}

// ForUpdate locks the selected rows until the surrounding transaction ends.
// SQLite has no row locks and the dialector drops the clause.
func ForUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// findOwned loads one row by primary key without a tenant filter so that a row
// of another tenant is reported as CROSS_TENANT rather than NOT_FOUND.
func findOwned[T any, PT interface {
	*T
	entity.TenantOwned
}](ctx context.Context, db *gorm.DB, resource string, id uuid.UUID) (*T, error) {
	if _, err := tenant.Require(ctx); err != nil {
		return nil, err
	}

	var v T
	err := db.First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError(resource)
	}
	if err != nil {
		return nil, err
	}
	if err := tenant.Authorize(ctx, PT(&v).OwnerTenant(), resource); err != nil {
		return nil, err
	}
	return &v, nil
}

// uniqueViolation reports a duplicate natural key as a Conflict.
// It relies on gorm.Config.TranslateError being enabled.
func uniqueViolation(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.NewConflictError(message)
	}
	return err
}

// firstOrNil maps gorm.ErrRecordNotFound to a nil result
func firstOrNil[T any](db *gorm.DB, query any, args ...any) (*T, error) {
	var v T
	err := db.Where(query, args...).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
