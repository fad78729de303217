package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is a ledger account in a tenant's chart of accounts.
// Balance is a running total maintained by journal posting.
type Account struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	Number        string               `gorm:"size:20;not null;index" json:"number"`
	Name          string               `gorm:"size:255;not null" json:"name"`
	Type          enum.AccountType     `gorm:"size:20;not null" json:"type"`
	SubType       *enum.AccountSubType `gorm:"size:40;index" json:"sub_type,omitempty"`
	Description   *string              `gorm:"type:text" json:"description,omitempty"`
	Balance       decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	IsDebitNormal bool                 `gorm:"not null" json:"is_debit_normal"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	newID(&a.ID)
	return a.assignTenant(tx)
}

func (a *Account) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("IsDebitNormal") {
		return errImmutable
	}
	return a.guardTenant(tx)
}

func (Account) TableName() string {
	return "accounts"
}

// Apply moves the balance for one journal line according to the account's normal side.
func (a *Account) Apply(side enum.EntryLineType, amount decimal.Decimal) {
	if (side == enum.EntryLineDebit) == a.IsDebitNormal {
		a.Balance = a.Balance.Add(amount)
	} else {
		a.Balance = a.Balance.Sub(amount)
	}
}

// JournalEntry is a balanced set of debit and credit lines recording one business event
type JournalEntry struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	EntryDate   time.Time              `gorm:"not null;index" json:"entry_date"`
	Description string                 `gorm:"type:text" json:"description"`
	SourceType  enum.JournalSourceType `gorm:"size:20;not null" json:"source_type"`
	SourceID    *string                `gorm:"size:100;index" json:"source_id,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`

	// Relationships
	Lines []JournalEntryLine `gorm:"foreignKey:JournalEntryID" json:"lines,omitempty"`
}

func (e *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	newID(&e.ID)
	return e.assignTenant(tx)
}

func (e *JournalEntry) BeforeUpdate(tx *gorm.DB) error {
	return errImmutable
}

func (e *JournalEntry) BeforeDelete(tx *gorm.DB) error {
	return errImmutable
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}

// JournalEntryLine is one immutable debit or credit. AccountName is a snapshot.
type JournalEntryLine struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	JournalEntryID uuid.UUID          `gorm:"type:uuid;not null;index" json:"journal_entry_id"`
	AccountID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"account_id"`
	AccountName    string             `gorm:"size:255" json:"account_name"`
	Type           enum.EntryLineType `gorm:"size:10;not null" json:"type"`
	Amount         decimal.Decimal    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Position       int                `gorm:"not null" json:"position"`
}

func (l *JournalEntryLine) BeforeCreate(tx *gorm.DB) error {
	newID(&l.ID)
	return l.assignTenant(tx)
}

func (l *JournalEntryLine) BeforeUpdate(tx *gorm.DB) error {
	return errImmutable
}

func (l *JournalEntryLine) BeforeDelete(tx *gorm.DB) error {
	return errImmutable
}

func (JournalEntryLine) TableName() string {
	return "journal_entry_lines"
}
