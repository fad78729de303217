package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/pkg/pagination"
)

// AccountRepository defines the interface for chart-of-accounts operations
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	// GetManyForUpdate locks the given accounts in ascending id order
	GetManyForUpdate(ctx context.Context, ids []uuid.UUID) ([]entity.Account, error)
	// GetByNumber returns nil when the tenant has no account with that number
	GetByNumber(ctx context.Context, number string) (*entity.Account, error)
	// GetBySubType returns nil when the tenant has no account of that sub-type
	GetBySubType(ctx context.Context, subType enum.AccountSubType) (*entity.Account, error)
	UpdateFields(ctx context.Context, account *entity.Account, fields ...string) error
	List(ctx context.Context) ([]entity.Account, error)
	Count(ctx context.Context) (int64, error)
}

// JournalRepository is the append-only journal
type JournalRepository interface {
	// Create inserts the entry and its lines
	Create(ctx context.Context, entry *entity.JournalEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.JournalEntry, error)
	List(ctx context.Context, params *JournalFilterParams) ([]entity.JournalEntry, int64, error)
}

// JournalFilterParams contains filtering parameters for journal queries
type JournalFilterParams struct {
	Pagination *pagination.PaginationParams
	AccountID  *uuid.UUID
	SourceType *enum.JournalSourceType
	From       *time.Time
	To         *time.Time
}
