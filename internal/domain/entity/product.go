package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the inventory
type Product struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	CategoryID   *uuid.UUID         `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name         string             `gorm:"size:255;not null" json:"name"`
	SKU          string             `gorm:"size:100;not null;index" json:"sku"`
	Description  *string            `gorm:"type:text" json:"description,omitempty"`
	Price        decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"price"`
	CostPrice    decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"cost_price"`
	Stock        decimal.Decimal    `gorm:"type:decimal(15,3);not null;default:0" json:"stock"`
	ReorderPoint *decimal.Decimal   `gorm:"type:decimal(15,3)" json:"reorder_point,omitempty"`
	Status       enum.ProductStatus `gorm:"default:0" json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DeletedAt    gorm.DeletedAt     `gorm:"index" json:"-"`

	// Derived on read, never stored
	LowStock bool `gorm:"-" json:"low_stock"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate generates a UUID and binds the tenant before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	newID(&p.ID)
	return p.assignTenant(tx)
}

func (p *Product) BeforeUpdate(tx *gorm.DB) error {
	return p.guardTenant(tx)
}

func (p *Product) AfterFind(tx *gorm.DB) error {
	p.LowStock = p.IsLowStock()
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether stock has fallen to the reorder point
func (p *Product) IsLowStock() bool {
	return p.ReorderPoint != nil && p.Stock.LessThanOrEqual(*p.ReorderPoint)
}

// Category represents a product category. The hierarchy is kept as parent ids only.
type Category struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	ParentID    *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	return c.assignTenant(tx)
}

func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	return c.guardTenant(tx)
}

func (c *Category) BeforeDelete(tx *gorm.DB) error {
	return c.guardOwner(tx)
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
