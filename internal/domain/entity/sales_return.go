package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RefundMethodStoreCredit is the refund method that credits the customer instead of paying out
const RefundMethodStoreCredit = "Store Credit"

// SalesReturn records goods coming back against an earlier sale
type SalesReturn struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	CustomerID   *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"refund_amount"`
	RefundMethod string          `gorm:"size:50;not null" json:"refund_method"`
	Reason       *string         `gorm:"type:text" json:"reason,omitempty"`
	ReturnDate   time.Time       `gorm:"not null;index" json:"return_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relationships
	Items []ReturnItem `gorm:"foreignKey:ReturnID" json:"items,omitempty"`
}

func (r *SalesReturn) BeforeCreate(tx *gorm.DB) error {
	newID(&r.ID)
	return r.assignTenant(tx)
}

func (r *SalesReturn) BeforeUpdate(tx *gorm.DB) error {
	return r.guardTenant(tx)
}

func (SalesReturn) TableName() string {
	return "returns"
}

// ReturnItem is a returned product line. AddToStock puts the units back on the shelf.
type ReturnItem struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	ReturnID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"return_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string          `gorm:"size:255" json:"product_name"`
	Quantity    decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"quantity"`
	AddToStock  bool            `gorm:"not null;default:false" json:"add_to_stock"`
	Reason      *string         `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (i *ReturnItem) BeforeCreate(tx *gorm.DB) error {
	newID(&i.ID)
	return i.assignTenant(tx)
}

func (i *ReturnItem) BeforeUpdate(tx *gorm.DB) error {
	return i.guardTenant(tx)
}

func (ReturnItem) TableName() string {
	return "return_items"
}
