package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseOrder is an order raised against a supplier and received in one or more deliveries
type PurchaseOrder struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	PONumber     string                   `gorm:"size:50;not null;index" json:"po_number"`
	SupplierID   uuid.UUID                `gorm:"type:uuid;not null;index" json:"supplier_id"`
	SupplierName string                   `gorm:"size:255" json:"supplier_name"`
	Status       enum.PurchaseOrderStatus `gorm:"default:0;index" json:"status"`
	Subtotal     decimal.Decimal          `gorm:"type:decimal(15,2);not null;default:0" json:"subtotal"`
	ShippingCost decimal.Decimal          `gorm:"type:decimal(15,2);not null;default:0" json:"shipping_cost"`
	Tax          decimal.Decimal          `gorm:"type:decimal(15,2);not null;default:0" json:"tax"`
	Total        decimal.Decimal          `gorm:"type:decimal(15,2);not null;default:0" json:"total"`
	Notes        *string                  `gorm:"type:text" json:"notes,omitempty"`
	ExpectedAt   *time.Time               `json:"expected_at,omitempty"`
	OrderedAt    *time.Time               `json:"ordered_at,omitempty"`
	ReceivedAt   *time.Time               `json:"received_at,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`

	// Relationships
	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items,omitempty"`
}

func (po *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	newID(&po.ID)
	return po.assignTenant(tx)
}

func (po *PurchaseOrder) BeforeUpdate(tx *gorm.DB) error {
	return po.guardTenant(tx)
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// IsFinal reports whether the order can no longer change status
func (po *PurchaseOrder) IsFinal() bool {
	return po.Status == enum.PurchaseOrderStatusReceived || po.Status == enum.PurchaseOrderStatusCanceled
}

// PurchaseOrderItem is one ordered product. ReceivedQuantity only grows.
type PurchaseOrderItem struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName      string          `gorm:"size:255" json:"product_name"`
	SKU              string          `gorm:"size:100" json:"sku"`
	Quantity         decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"quantity"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"cost_price"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0" json:"received_quantity"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`
}

func (i *PurchaseOrderItem) BeforeCreate(tx *gorm.DB) error {
	newID(&i.ID)
	return i.assignTenant(tx)
}

func (i *PurchaseOrderItem) BeforeUpdate(tx *gorm.DB) error {
	return i.guardTenant(tx)
}

func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

func (i *PurchaseOrderItem) FullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.Quantity)
}

// Remaining is how much is still expected from the supplier
func (i *PurchaseOrderItem) Remaining() decimal.Decimal {
	return decimal.Max(i.Quantity.Sub(i.ReceivedQuantity), decimal.Zero)
}
