package request

import "github.com/shopspring/decimal"

// UpdatePurchaseOrderStatusRequest moves a purchase order to a new status
type UpdatePurchaseOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// StoreCreditRequest adds store credit to a customer
type StoreCreditRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// SetTenantActiveRequest enables or disables a tenant
type SetTenantActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
