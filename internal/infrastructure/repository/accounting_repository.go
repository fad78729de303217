package repository

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/domain/tenant"
	"github.com/sangkips/salepilot-api/internal/infrastructure/database"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sangkips/salepilot-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new chart-of-accounts repository
func NewAccountRepository(db *gorm.DB) domainRepo.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	err := database.Conn(ctx, r.db).Create(account).Error
	return uniqueViolation(err, "Account number "+account.Number+" or its sub-type already exists")
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return findOwned[entity.Account](ctx, database.Conn(ctx, r.db), "Account", id)
}

// GetManyForUpdate loads by raw id so that a foreign account is reported, not skipped
func (r *accountRepository) GetManyForUpdate(ctx context.Context, ids []uuid.UUID) ([]entity.Account, error) {
	if _, err := tenant.Require(ctx); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []entity.Account{}, nil
	}
	sorted := append([]uuid.UUID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })

	var accounts []entity.Account
	err := ForUpdate(database.Conn(ctx, r.db)).
		Where("id IN ?", sorted).
		Order("id ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]bool, len(accounts))
	for _, a := range accounts {
		if err := tenant.Authorize(ctx, a.TenantID, "Account"); err != nil {
			return nil, err
		}
		found[a.ID] = true
	}
	for _, id := range sorted {
		if !found[id] {
			return nil, apperror.NewNotFoundError("Account")
		}
	}
	return accounts, nil
}

func (r *accountRepository) GetByNumber(ctx context.Context, number string) (*entity.Account, error) {
	return firstOrNil[entity.Account](database.Conn(ctx, r.db).Scopes(TenantScope(ctx)), "number = ?", number)
}

func (r *accountRepository) GetBySubType(ctx context.Context, subType enum.AccountSubType) (*entity.Account, error) {
	return firstOrNil[entity.Account](database.Conn(ctx, r.db).Scopes(TenantScope(ctx)), "sub_type = ?", subType)
}

func (r *accountRepository) UpdateFields(ctx context.Context, account *entity.Account, fields ...string) error {
	return database.Conn(ctx, r.db).Model(account).Select(fields).Updates(account).Error
}

func (r *accountRepository) List(ctx context.Context) ([]entity.Account, error) {
	var accounts []entity.Account
	err := database.Conn(ctx, r.db).
		Scopes(TenantScope(ctx)).
		Order("number ASC").
		Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Account{}).Scopes(TenantScope(ctx)).Count(&count).Error
	return count, err
}

type journalRepository struct {
	db *gorm.DB
}

// NewJournalRepository creates the append-only journal repository
func NewJournalRepository(db *gorm.DB) domainRepo.JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) Create(ctx context.Context, entry *entity.JournalEntry) error {
	db := database.Conn(ctx, r.db)
	if err := db.Omit(clause.Associations).Create(entry).Error; err != nil {
		return err
	}
	for i := range entry.Lines {
		entry.Lines[i].JournalEntryID = entry.ID
		entry.Lines[i].Position = i
	}
	if len(entry.Lines) == 0 {
		return nil
	}
	return db.CreateInBatches(&entry.Lines, itemBatchSize).Error
}

func (r *journalRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.JournalEntry, error) {
	db := database.Conn(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
	return findOwned[entity.JournalEntry](ctx, db, "Journal entry", id)
}

func (r *journalRepository) List(ctx context.Context, params *domainRepo.JournalFilterParams) ([]entity.JournalEntry, int64, error) {
	var entries []entity.JournalEntry
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.JournalEntry{}).Scopes(TenantScope(ctx))

	if params.AccountID != nil {
		lines := database.Conn(ctx, r.db).Model(&entity.JournalEntryLine{}).
			Select("journal_entry_id").
			Where("account_id = ?", *params.AccountID)
		query = query.Where("id IN (?)", lines)
	}
	if params.SourceType != nil {
		query = query.Where("source_type = ?", *params.SourceType)
	}
	if params.From != nil {
		query = query.Where("entry_date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("entry_date < ?", *params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("entry_date DESC, created_at DESC").
		Find(&entries).Error

	return entries, total, err
}
