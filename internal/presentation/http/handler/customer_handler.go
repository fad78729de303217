package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salepilot-api/internal/application/service"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers. outstanding=true and with_credit=true narrow the list.
func (h *CustomerHandler) List(c *gin.Context) {
	var filter request.CustomerFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), &repository.CustomerFilterParams{
		Pagination:  filter.Params(),
		Search:      filter.Search,
		Outstanding: filter.Outstanding,
		WithCredit:  filter.WithCredit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var input service.CreateCustomerInput
	if !bindJSON(c, &input) {
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Customer created successfully", customer)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer retrieved successfully", customer)
}

// Update handles updating a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input service.UpdateCustomerInput
	if !bindJSON(c, &input) {
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer updated successfully", customer)
}

// Delete handles deleting a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer deleted successfully", nil)
}

// AddStoreCredit handles crediting a customer's store credit
func (h *CustomerHandler) AddStoreCredit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.StoreCreditRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.AddStoreCredit(c.Request.Context(), id, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Store credit added successfully", customer)
}

// SupplierHandler handles supplier-related HTTP requests
type SupplierHandler struct {
	supplierService *service.SupplierService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(supplierService *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// List handles listing suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	var filter request.SearchRequest
	if !bindQuery(c, &filter) {
		return
	}

	result, err := h.supplierService.ListSuppliers(c.Request.Context(), filter.Params(), filter.Search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Suppliers retrieved successfully", result)
}

// Create handles creating a supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	var input service.SupplierInput
	if !bindJSON(c, &input) {
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Supplier created successfully", supplier)
}

// Get handles getting a single supplier
func (h *SupplierHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Supplier retrieved successfully", supplier)
}

// Update handles replacing a supplier's details
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input service.SupplierInput
	if !bindJSON(c, &input) {
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Supplier updated successfully", supplier)
}
