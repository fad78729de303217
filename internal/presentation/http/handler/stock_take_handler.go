package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salepilot-api/internal/application/service"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/response"
)

// StockTakeHandler handles stock take HTTP requests
type StockTakeHandler struct {
	stockTakeService *service.StockTakeService
}

// NewStockTakeHandler creates a new stock take handler
func NewStockTakeHandler(stockTakeService *service.StockTakeService) *StockTakeHandler {
	return &StockTakeHandler{stockTakeService: stockTakeService}
}

// List handles listing stock takes
func (h *StockTakeHandler) List(c *gin.Context) {
	var page request.PageRequest
	if !bindQuery(c, &page) {
		return
	}

	result, err := h.stockTakeService.ListStockTakes(c.Request.Context(), page.Params())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Stock takes retrieved successfully", result)
}

// Start handles opening a new stock take session
func (h *StockTakeHandler) Start(c *gin.Context) {
	st, err := h.stockTakeService.StartStockTake(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Stock take started", st)
}

// GetActive handles getting the open session
func (h *StockTakeHandler) GetActive(c *gin.Context) {
	st, err := h.stockTakeService.GetActiveStockTake(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Active stock take retrieved successfully", st)
}

// UpdateCount handles recording a counted quantity
func (h *StockTakeHandler) UpdateCount(c *gin.Context) {
	productID, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	var input service.UpdateItemCountInput
	if !bindJSON(c, &input) {
		return
	}

	item, err := h.stockTakeService.UpdateItemCount(c.Request.Context(), productID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Count recorded", item)
}

// Finalize handles applying counted quantities and closing the session
func (h *StockTakeHandler) Finalize(c *gin.Context) {
	st, err := h.stockTakeService.FinalizeStockTake(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock take finalized", st)
}

// ListItems handles listing the items of a session
func (h *StockTakeHandler) ListItems(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.stockTakeService.GetStockTakeItems(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock take items retrieved successfully", items)
}
