// Package tenant carries the current tenant (store) identity through a request.
//
// The tenant is a value on context.Context, never a global. Every repository
// call filters by it and every write to a tenant-scoped entity requires it.
package tenant

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sirupsen/logrus"
)

type ctxKey string

const (
	idKey      ctxKey = "tenant_id"
	unboundKey ctxKey = "tenant_unbound"
)

var (
	// ErrTenantMissing is returned for tenant-scoped writes with no tenant bound
	ErrTenantMissing = apperror.NewIllegalStateError("Tenant context is not set")
	// ErrTenantChanged is returned when a persisted entity's tenant would change
	ErrTenantChanged = apperror.NewIllegalStateError("Tenant of an existing entity cannot be changed")
)

// WithID binds id to ctx. A nil id is ignored and logged, ctx is returned unchanged.
func WithID(ctx context.Context, id uuid.UUID) context.Context {
	if id == uuid.Nil {
		logrus.WithField("module", "tenant").Warn("attempt to bind an empty tenant id ignored")
		return ctx
	}
	ctx = context.WithValue(ctx, unboundKey, false)
	return context.WithValue(ctx, idKey, id)
}

// Without returns a context with no tenant bound, shadowing any parent binding.
func Without(ctx context.Context) context.Context {
	return context.WithValue(ctx, unboundKey, true)
}

// FromContext returns the bound tenant id, if any.
func FromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	if unbound, _ := ctx.Value(unboundKey).(bool); unbound {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(idKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// Require is FromContext for callers that cannot proceed without a tenant.
func Require(ctx context.Context) (uuid.UUID, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return uuid.Nil, ErrTenantMissing
	}
	return id, nil
}

// Authorize checks that owner is the bound tenant.
// A mismatch is always reported as cross-tenant access, never as not found.
func Authorize(ctx context.Context, owner uuid.UUID, resource string) error {
	current, err := Require(ctx)
	if err != nil {
		return err
	}
	if owner != current {
		logrus.WithFields(logrus.Fields{
			"module":   "tenant",
			"resource": resource,
			"tenant":   current,
			"owner":    owner,
		}).Warn("cross-tenant access rejected")
		return apperror.NewCrossTenantError(resource)
	}
	return nil
}
