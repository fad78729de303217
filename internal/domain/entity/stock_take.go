package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockTake is a physical count session. At most one is active per tenant.
type StockTake struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	Status      enum.StockTakeStatus `gorm:"default:0;index" json:"status"`
	StartedAt   time.Time            `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	Items []StockTakeItem `gorm:"foreignKey:StockTakeID" json:"items,omitempty"`
}

func (st *StockTake) BeforeCreate(tx *gorm.DB) error {
	newID(&st.ID)
	return st.assignTenant(tx)
}

func (st *StockTake) BeforeUpdate(tx *gorm.DB) error {
	return st.guardTenant(tx)
}

func (StockTake) TableName() string {
	return "stock_takes"
}

// StockTakeItem holds the expected stock snapshot and, once counted, the counted quantity
type StockTakeItem struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantModel
	StockTakeID uuid.UUID        `gorm:"type:uuid;not null;index" json:"stock_take_id"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	Name        string           `gorm:"size:255" json:"name"`
	SKU         string           `gorm:"size:100" json:"sku"`
	Expected    decimal.Decimal  `gorm:"type:decimal(15,3);not null" json:"expected"`
	Counted     *decimal.Decimal `gorm:"type:decimal(15,3)" json:"counted,omitempty"`
}

func (i *StockTakeItem) BeforeCreate(tx *gorm.DB) error {
	newID(&i.ID)
	return i.assignTenant(tx)
}

func (i *StockTakeItem) BeforeUpdate(tx *gorm.DB) error {
	return i.guardTenant(tx)
}

func (StockTakeItem) TableName() string {
	return "stock_take_items"
}

// Variance is counted minus expected; zero when not yet counted
func (i *StockTakeItem) Variance() decimal.Decimal {
	if i.Counted == nil {
		return decimal.Zero
	}
	return i.Counted.Sub(i.Expected)
}
