package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey returns nil when the key was never stored for this tenant and user
	GetByKey(ctx context.Context, tenantID, userID uuid.UUID, key string) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
