package entity

import (
	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/tenant"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"gorm.io/gorm"
)

// TenantOwned is implemented by every tenant-scoped entity
type TenantOwned interface {
	OwnerTenant() uuid.UUID
}

// TenantModel is embedded by every tenant-scoped entity.
// The tenant is assigned once from the statement context at creation and never changes.
type TenantModel struct {
	TenantID uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
}

// OwnerTenant returns the tenant the entity belongs to
func (m TenantModel) OwnerTenant() uuid.UUID {
	return m.TenantID
}

// assignTenant runs from BeforeCreate hooks
func (m *TenantModel) assignTenant(tx *gorm.DB) error {
	current, err := tenant.Require(tx.Statement.Context)
	if err != nil {
		return err
	}
	if m.TenantID == uuid.Nil {
		m.TenantID = current
		return nil
	}
	if m.TenantID != current {
		return tenant.ErrTenantChanged
	}
	return nil
}

// guardTenant runs from BeforeUpdate hooks
func (m *TenantModel) guardTenant(tx *gorm.DB) error {
	if err := m.guardOwner(tx); err != nil {
		return err
	}
	if tx.Statement.Changed("TenantID") {
		return tenant.ErrTenantChanged
	}
	return nil
}

// guardOwner runs from BeforeDelete hooks
func (m *TenantModel) guardOwner(tx *gorm.DB) error {
	current, err := tenant.Require(tx.Statement.Context)
	if err != nil {
		return err
	}
	// Model(&Entity{}) statements carry no tenant; the query itself is tenant-scoped.
	if m.TenantID != uuid.Nil && m.TenantID != current {
		return tenant.ErrTenantChanged
	}
	return nil
}

var errImmutable = apperror.NewIllegalStateError("Ledger records are append-only")

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
