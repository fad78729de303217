package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer represents a customer of a store.
// AccountBalance is signed: a negative balance is what the customer owes.
type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	Name           string          `gorm:"size:255;not null" json:"name"`
	Email          *string         `gorm:"size:255;index" json:"email,omitempty"`
	Phone          *string         `gorm:"size:50" json:"phone,omitempty"`
	Address        *string         `gorm:"type:text" json:"address,omitempty"`
	Notes          *string         `gorm:"type:text" json:"notes,omitempty"`
	StoreCredit    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"store_credit"`
	AccountBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"account_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	return c.assignTenant(tx)
}

func (c *Customer) BeforeUpdate(tx *gorm.DB) error {
	return c.guardTenant(tx)
}

func (c *Customer) BeforeDelete(tx *gorm.DB) error {
	return c.guardOwner(tx)
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// HasOutstandingBalance reports whether the customer owes the store money
func (c *Customer) HasOutstandingBalance() bool {
	return c.AccountBalance.IsNegative()
}
