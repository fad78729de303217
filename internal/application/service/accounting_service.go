package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/domain/tenant"
	"github.com/sangkips/salepilot-api/internal/infrastructure/events"
	"github.com/sangkips/salepilot-api/internal/infrastructure/lock"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sangkips/salepilot-api/pkg/logger"
	"github.com/sangkips/salepilot-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// AccountingService maintains the chart of accounts and the double-entry journal
type AccountingService struct {
	tx          repository.Transactor
	accountRepo repository.AccountRepository
	journalRepo repository.JournalRepository
	locker      lock.Locker
	publisher   events.Publisher
	log         logrus.FieldLogger
}

// NewAccountingService creates a new accounting service
func NewAccountingService(
	tx repository.Transactor,
	accountRepo repository.AccountRepository,
	journalRepo repository.JournalRepository,
	locker lock.Locker,
	publisher events.Publisher,
	log logrus.FieldLogger,
) *AccountingService {
	return &AccountingService{
		tx:          tx,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		locker:      locker,
		publisher:   publisher,
		log:         log.WithField("module", "accounting_service"),
	}
}

// CreateAccountInput represents the create account input
type CreateAccountInput struct {
	Number        string               `json:"number" validate:"required,max=20"`
	Name          string               `json:"name" validate:"required,max=255"`
	Type          enum.AccountType     `json:"type" validate:"required"`
	SubType       *enum.AccountSubType `json:"sub_type"`
	Description   *string              `json:"description"`
	IsDebitNormal *bool                `json:"is_debit_normal"`
}

// CreateAccount adds an account. Numbers are unique per tenant and singleton
// sub-types (AR, AP, sales tax payable) may exist only once.
func (s *AccountingService) CreateAccount(ctx context.Context, input *CreateAccountInput) (*entity.Account, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !input.Type.Valid() {
		return nil, apperror.NewBadRequestError("Invalid account type: " + string(input.Type))
	}
	if input.SubType != nil && !input.SubType.Valid() {
		return nil, apperror.NewBadRequestError("Invalid account sub-type: " + string(*input.SubType))
	}

	account := &entity.Account{
		Number:        input.Number,
		Name:          input.Name,
		Type:          input.Type,
		SubType:       input.SubType,
		Description:   input.Description,
		IsDebitNormal: input.Type.DebitNormal(),
	}
	if input.IsDebitNormal != nil {
		account.IsDebitNormal = *input.IsDebitNormal
	}

	tenantID, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	release, err := s.locker.Obtain(ctx, lock.Key("posting", tenantID))
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.createAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountingService) createAccount(ctx context.Context, account *entity.Account) error {
	existing, err := s.accountRepo.GetByNumber(ctx, account.Number)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.NewConflictError("Account number " + account.Number + " already exists")
	}

	if account.SubType != nil && account.SubType.Singleton() {
		existing, err := s.accountRepo.GetBySubType(ctx, *account.SubType)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflictError("An account of sub-type " + string(*account.SubType) + " already exists")
		}
	}

	return s.accountRepo.Create(ctx, account)
}

// GetAccount retrieves an account by ID
func (s *AccountingService) GetAccount(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// ListAccounts returns the chart of accounts ordered by number
func (s *AccountingService) ListAccounts(ctx context.Context) ([]entity.Account, error) {
	return s.accountRepo.List(ctx)
}

type defaultAccount struct {
	number  string
	name    string
	typ     enum.AccountType
	subType enum.AccountSubType
}

var defaultChart = []defaultAccount{
	{"1000", "Cash", enum.AccountTypeAsset, enum.AccountSubTypeCash},
	{"1100", "Accounts Receivable", enum.AccountTypeAsset, enum.AccountSubTypeAccountsReceivable},
	{"1200", "Inventory", enum.AccountTypeAsset, enum.AccountSubTypeInventory},
	{"2000", "Accounts Payable", enum.AccountTypeLiability, enum.AccountSubTypeAccountsPayable},
	{"2100", "Sales Tax Payable", enum.AccountTypeLiability, enum.AccountSubTypeSalesTaxPayable},
	{"2200", "Store Credit Liability", enum.AccountTypeLiability, enum.AccountSubTypeStoreCredit},
	{"3000", "Opening Balance Equity", enum.AccountTypeEquity, ""},
	{"4000", "Sales Revenue", enum.AccountTypeRevenue, enum.AccountSubTypeSalesRevenue},
	{"5000", "Cost of Goods Sold", enum.AccountTypeExpense, enum.AccountSubTypeCOGS},
}

// InitializeDefaultAccounts seeds the default chart when the tenant has no accounts.
// A tenant that already has accounts gets its existing chart back unchanged.
func (s *AccountingService) InitializeDefaultAccounts(ctx context.Context) ([]entity.Account, error) {
	tenantID, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Obtain(ctx, lock.Key("posting", tenantID))
	if err != nil {
		return nil, err
	}
	defer release()

	seeded := false
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		count, err := s.accountRepo.Count(ctx)
		if err != nil || count > 0 {
			return err
		}

		for _, d := range defaultChart {
			account := &entity.Account{
				Number:        d.number,
				Name:          d.name,
				Type:          d.typ,
				IsDebitNormal: d.typ.DebitNormal(),
			}
			if d.subType != "" {
				st := d.subType
				account.SubType = &st
			}
			if err := s.createAccount(ctx, account); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if seeded {
		s.log.WithField("tenant", tenantID).Info("default chart of accounts created")
	}
	return s.accountRepo.List(ctx)
}

// JournalLineInput is one debit or credit
type JournalLineInput struct {
	AccountID uuid.UUID          `json:"account_id" validate:"required"`
	Type      enum.EntryLineType `json:"type" validate:"required"`
	Amount    decimal.Decimal    `json:"amount" validate:"gt=0"`
}

// PostJournalEntryInput represents a journal entry to post
type PostJournalEntryInput struct {
	EntryDate   *time.Time             `json:"entry_date"`
	Description string                 `json:"description" validate:"max=1000"`
	SourceType  enum.JournalSourceType `json:"source_type"`
	SourceID    *string                `json:"source_id" validate:"omitempty,max=100"`
	Lines       []JournalLineInput     `json:"lines" validate:"required,min=1,dive"`
}

// PostJournalEntry writes a balanced entry and moves every referenced account's balance
// in the same transaction. Postings for a tenant are serialized.
func (s *AccountingService) PostJournalEntry(ctx context.Context, input *PostJournalEntryInput) (entry *entity.JournalEntry, err error) {
	ctx, span := tracer.Start(ctx, "AccountingService.PostJournalEntry")
	defer func() { endSpan(span, err) }()

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.SourceType != "" && !input.SourceType.Valid() {
		return nil, apperror.NewBadRequestError("Invalid source type: " + string(input.SourceType))
	}

	debits, credits := decimal.Zero, decimal.Zero
	var accountIDs []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, l := range input.Lines {
		switch l.Type {
		case enum.EntryLineDebit:
			debits = debits.Add(l.Amount)
		case enum.EntryLineCredit:
			credits = credits.Add(l.Amount)
		default:
			return nil, apperror.NewBadRequestError("Invalid line type: " + string(l.Type))
		}
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			accountIDs = append(accountIDs, l.AccountID)
		}
	}
	if !debits.Equal(credits) {
		return nil, apperror.NewUnbalancedError(debits, credits)
	}

	tenantID, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	release, err := s.locker.Obtain(ctx, lock.Key("posting", tenantID))
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		accounts, err := s.accountRepo.GetManyForUpdate(ctx, accountIDs)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*entity.Account, len(accounts))
		for i := range accounts {
			byID[accounts[i].ID] = &accounts[i]
		}

		entry = &entity.JournalEntry{
			EntryDate:   time.Now(),
			Description: input.Description,
			SourceType:  enum.JournalSourceManual,
			SourceID:    input.SourceID,
			Lines:       make([]entity.JournalEntryLine, 0, len(input.Lines)),
		}
		if input.EntryDate != nil {
			entry.EntryDate = *input.EntryDate
		}
		if input.SourceType != "" {
			entry.SourceType = input.SourceType
		}

		for _, l := range input.Lines {
			account := byID[l.AccountID]
			account.Apply(l.Type, l.Amount)
			entry.Lines = append(entry.Lines, entity.JournalEntryLine{
				AccountID:   account.ID,
				AccountName: account.Name,
				Type:        l.Type,
				Amount:      l.Amount,
			})
		}
		if err := s.journalRepo.Create(ctx, entry); err != nil {
			return err
		}

		for i := range accounts {
			if err := s.accountRepo.UpdateFields(ctx, &accounts[i], "balance"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.LogError(s.log, "accounting_service.go", "PostJournalEntry", "post journal entry transaction", input.SourceID, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("journal_entry.id", entry.ID.String()))
	s.log.WithFields(logrus.Fields{
		"entry":  entry.ID,
		"source": string(entry.SourceType),
		"amount": debits.String(),
		"lines":  len(entry.Lines),
	}).Info("journal entry posted")
	publish(ctx, s.publisher, s.log, events.JournalEntryPosted, entry.ID, map[string]any{
		"source_type": entry.SourceType,
		"amount":      debits,
	})

	return entry, nil
}

// GetJournalEntry retrieves an entry with its lines
func (s *AccountingService) GetJournalEntry(ctx context.Context, id uuid.UUID) (*entity.JournalEntry, error) {
	return s.journalRepo.GetByID(ctx, id)
}

// ListJournalEntries lists entries newest first
func (s *AccountingService) ListJournalEntries(ctx context.Context, params *repository.JournalFilterParams) (*pagination.PaginatedResult[entity.JournalEntry], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	entries, total, err := s.journalRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(entries, pag), nil
}

// TrialBalanceRow is one account's balance placed in the debit or credit column
type TrialBalanceRow struct {
	AccountID uuid.UUID        `json:"account_id"`
	Number    string           `json:"number"`
	Name      string           `json:"name"`
	Type      enum.AccountType `json:"type"`
	Debit     decimal.Decimal  `json:"debit"`
	Credit    decimal.Decimal  `json:"credit"`
	Net       decimal.Decimal  `json:"net"`
}

// TrialBalance is the whole ledger at a point in time
type TrialBalance struct {
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"total_debits"`
	TotalCredits decimal.Decimal   `json:"total_credits"`
	IsBalanced   bool              `json:"is_balanced"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// TrialBalance classifies each account's running balance by its normal side.
// It reads the cached balances and does not replay journal lines.
func (s *AccountingService) TrialBalance(ctx context.Context) (*TrialBalance, error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	tb := &TrialBalance{
		Rows:         make([]TrialBalanceRow, 0, len(accounts)),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
		GeneratedAt:  time.Now(),
	}
	for _, a := range accounts {
		row := TrialBalanceRow{
			AccountID: a.ID,
			Number:    a.Number,
			Name:      a.Name,
			Type:      a.Type,
			Debit:     decimal.Zero,
			Credit:    decimal.Zero,
			Net:       a.Balance,
		}
		// a negative balance sits on the opposite side
		debitSide := a.IsDebitNormal != a.Balance.IsNegative()
		if debitSide {
			row.Debit = a.Balance.Abs()
		} else {
			row.Credit = a.Balance.Abs()
		}
		tb.TotalDebits = tb.TotalDebits.Add(row.Debit)
		tb.TotalCredits = tb.TotalCredits.Add(row.Credit)
		tb.Rows = append(tb.Rows, row)
	}
	tb.IsBalanced = tb.TotalDebits.Equal(tb.TotalCredits)
	return tb, nil
}
