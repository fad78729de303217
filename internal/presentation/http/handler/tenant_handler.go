package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salepilot-api/internal/application/service"
	"github.com/sangkips/salepilot-api/internal/domain/tenant"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/response"
)

// TenantHandler handles tenant-related HTTP requests
type TenantHandler struct {
	tenantService *service.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// GetCurrentTenant returns the tenant bound to the request
func (h *TenantHandler) GetCurrentTenant(c *gin.Context) {
	tenantID, ok := tenant.FromContext(c.Request.Context())
	if !ok {
		response.BadRequest(c, "No active tenant")
		return
	}

	t, err := h.tenantService.GetTenant(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tenant retrieved successfully", gin.H{"tenant": t})
}

// List handles listing all tenants (super-admin)
func (h *TenantHandler) List(c *gin.Context) {
	var page request.PageRequest
	if !bindQuery(c, &page) {
		return
	}

	result, err := h.tenantService.ListTenants(c.Request.Context(), page.Params())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Tenants retrieved successfully", result)
}

// Create handles registering a tenant (super-admin)
func (h *TenantHandler) Create(c *gin.Context) {
	var input service.CreateTenantInput
	if !bindJSON(c, &input) {
		return
	}

	t, err := h.tenantService.CreateTenant(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Tenant created successfully", t)
}

// SetActive handles enabling or disabling a tenant (super-admin)
func (h *TenantHandler) SetActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.SetTenantActiveRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.tenantService.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tenant updated successfully", t)
}
