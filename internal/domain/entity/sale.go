package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is a completed point-of-sale transaction.
// Total = Subtotal - Discount + Tax and BalanceDue = max(Total - AmountPaid, 0).
type Sale struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	TransactionID   string             `gorm:"size:50;uniqueIndex;not null" json:"transaction_id"`
	CustomerID      *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Subtotal        decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"subtotal"`
	Discount        decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"discount"`
	Tax             decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"tax"`
	Total           decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"total"`
	StoreCreditUsed decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"store_credit_used"`
	AmountPaid      decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"amount_paid"`
	BalanceDue      decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"balance_due"`
	RefundedAmount  decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"refunded_amount"`
	PaymentStatus   enum.PaymentStatus `gorm:"default:0;index" json:"payment_status"`
	RefundStatus    enum.RefundStatus  `gorm:"default:0" json:"refund_status"`
	PaymentMethod   string             `gorm:"size:50" json:"payment_method"`
	Notes           *string            `gorm:"type:text" json:"notes,omitempty"`
	SaleDate        time.Time          `gorm:"not null;index" json:"sale_date"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`

	// ChangeDue is cash tendered above the total at checkout. Not persisted.
	ChangeDue decimal.Decimal `gorm:"-" json:"change_due"`

	// Relationships
	Items    []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	Payments []Payment  `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	newID(&s.ID)
	return s.assignTenant(tx)
}

func (s *Sale) BeforeUpdate(tx *gorm.DB) error {
	return s.guardTenant(tx)
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// Outstanding is what is still owed on the sale, never negative.
func (s *Sale) Outstanding() decimal.Decimal {
	return decimal.Max(s.Total.Sub(s.AmountPaid), decimal.Zero)
}

// SaleItem is one line of a sale with price and cost snapshotted at sale time
type SaleItem struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string          `gorm:"size:255" json:"product_name"`
	SKU         string          `gorm:"size:100" json:"sku"`
	Quantity    decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"quantity"`
	PriceAtSale decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price_at_sale"`
	CostAtSale  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"cost_at_sale"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	newID(&i.ID)
	return i.assignTenant(tx)
}

func (i *SaleItem) BeforeUpdate(tx *gorm.DB) error {
	return i.guardTenant(tx)
}

func (SaleItem) TableName() string {
	return "sale_items"
}

// Payment is an append-only record of money applied to a sale
type Payment struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method      string          `gorm:"size:50;not null" json:"method"`
	Reference   *string         `gorm:"size:255" json:"reference,omitempty"`
	PaymentDate time.Time       `gorm:"not null" json:"payment_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	newID(&p.ID)
	return p.assignTenant(tx)
}

// Payments are never mutated or deleted once written
func (p *Payment) BeforeUpdate(tx *gorm.DB) error {
	return errImmutable
}

func (p *Payment) BeforeDelete(tx *gorm.DB) error {
	return errImmutable
}

func (Payment) TableName() string {
	return "payments"
}
