package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salepilot-api/internal/application/service"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/response"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// List handles listing sales (supports both page-based and cursor-based pagination)
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if !bindQuery(c, &filter) {
		return
	}
	customerID, ok := optionalID(c, "customer_id", filter.CustomerID)
	if !ok {
		return
	}

	if filter.CursorRequest.Requested() {
		result, err := h.saleService.ListSalesWithCursor(c.Request.Context(), &repository.SaleCursorFilterParams{
			Cursor:     filter.CursorRequest.Params(),
			CustomerID: customerID,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Sales retrieved successfully", result)
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: filter.PageRequest.Params(),
		CustomerID: customerID,
		From:       filter.From,
		To:         filter.To,
	}
	if filter.PaymentStatus != "" {
		status, err := enum.ParsePaymentStatus(filter.PaymentStatus)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		params.PaymentStatus = &status
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Create handles completing a sale
func (h *SaleHandler) Create(c *gin.Context) {
	var input service.CreateSaleInput
	if !bindJSON(c, &input) {
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale completed successfully", sale)
}

// Get handles getting a single sale with its items and payments
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved successfully", sale)
}

// ListItems handles listing the lines of a sale
func (h *SaleHandler) ListItems(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.saleService.ListItems(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale items retrieved successfully", items)
}

// ListPayments handles listing the payments recorded against a sale
func (h *SaleHandler) ListPayments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	payments, err := h.saleService.ListPayments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payments retrieved successfully", payments)
}

// AddPayment handles recording a later payment on a sale
func (h *SaleHandler) AddPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input service.AddPaymentInput
	if !bindJSON(c, &input) {
		return
	}

	sale, err := h.saleService.AddPayment(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment recorded successfully", sale)
}

// ReturnHandler handles return-related HTTP requests
type ReturnHandler struct {
	returnService *service.ReturnService
}

// NewReturnHandler creates a new return handler
func NewReturnHandler(returnService *service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// List handles listing returns, optionally for one sale
func (h *ReturnHandler) List(c *gin.Context) {
	var filter request.ReturnFilterRequest
	if !bindQuery(c, &filter) {
		return
	}
	saleID, ok := optionalID(c, "sale_id", filter.SaleID)
	if !ok {
		return
	}

	result, err := h.returnService.ListReturns(c.Request.Context(), filter.Params(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Returns retrieved successfully", result)
}

// Create handles processing a return
func (h *ReturnHandler) Create(c *gin.Context) {
	var input service.CreateReturnInput
	if !bindJSON(c, &input) {
		return
	}

	ret, err := h.returnService.CreateReturn(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Return processed successfully", ret)
}

// Get handles getting a single return
func (h *ReturnHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ret, err := h.returnService.GetReturn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Return retrieved successfully", ret)
}
