package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salepilot-api/internal/application/service"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/response"
)

// PurchaseOrderHandler handles purchase order HTTP requests
type PurchaseOrderHandler struct {
	purchaseOrderService *service.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(purchaseOrderService *service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{purchaseOrderService: purchaseOrderService}
}

// List handles listing purchase orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter request.PurchaseOrderFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	var status *enum.PurchaseOrderStatus
	if filter.Status != "" {
		parsed, err := enum.ParsePurchaseOrderStatus(filter.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		status = &parsed
	}

	result, err := h.purchaseOrderService.ListPurchaseOrders(c.Request.Context(), filter.Params(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Purchase orders retrieved successfully", result)
}

// Create handles creating a draft purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var input service.CreatePurchaseOrderInput
	if !bindJSON(c, &input) {
		return
	}

	po, err := h.purchaseOrderService.CreatePurchaseOrder(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Purchase order created successfully", po)
}

// Get handles getting a single purchase order with its items
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	po, err := h.purchaseOrderService.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Purchase order retrieved successfully", po)
}

// UpdateStatus handles moving a purchase order to ORDERED or CANCELED
func (h *PurchaseOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.UpdatePurchaseOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := enum.ParsePurchaseOrderStatus(req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	po, err := h.purchaseOrderService.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Purchase order status updated", po)
}

// Receive handles booking a delivery against a purchase order
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input service.ReceiveInventoryInput
	if !bindJSON(c, &input) {
		return
	}

	po, err := h.purchaseOrderService.ReceiveInventory(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Inventory received successfully", po)
}
