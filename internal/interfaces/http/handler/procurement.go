package handler

import (
	"context"

	tradeapp "github.com/GranDen-Corp/ls-erp-sub002/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProcurementHandler handles procurement plan API endpoints
type ProcurementHandler struct {
	BaseHandler
	procurementService *tradeapp.ProcurementService
}

// NewProcurementHandler creates a new ProcurementHandler
func NewProcurementHandler(procurementService *tradeapp.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{
		procurementService: procurementService,
	}
}

// RegisterRoutes registers procurement routes on the given router group
func (h *ProcurementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	procurements := rg.Group("/procurements")
	{
		procurements.POST("", h.Create)
		procurements.GET("", h.List)
		procurements.GET("/:id", h.GetByID)
		procurements.DELETE("/:id", h.Delete)

		procurements.POST("/:id/items", h.AddItem)
		procurements.DELETE("/:id/items/:item_id", h.RemoveItem)
		procurements.PATCH("/:id/items/:item_id/selection", h.SetItemSelected)

		procurements.POST("/:id/confirm", h.Confirm)
		procurements.POST("/:id/complete", h.Complete)
		procurements.POST("/:id/cancel", h.Cancel)
	}

	rg.GET("/orders/:id/procurements", h.ListByOrder)
}

// Create creates a procurement plan bound to an existing order
func (h *ProcurementHandler) Create(c *gin.Context) {
	var req tradeapp.CreateProcurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	proc, err := h.procurementService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, proc)
}

// GetByID retrieves a procurement plan by its ID
func (h *ProcurementHandler) GetByID(c *gin.Context) {
	procurementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid procurement ID format")
		return
	}

	proc, err := h.procurementService.GetByID(c.Request.Context(), procurementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, proc)
}

// List retrieves a paginated list of procurement plans
func (h *ProcurementHandler) List(c *gin.Context) {
	var filter tradeapp.ProcurementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	procs, total, err := h.procurementService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, procs, total, filter.Page, filter.PageSize)
}

// ListByOrder retrieves all procurement plans bound to an order
func (h *ProcurementHandler) ListByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	procs, err := h.procurementService.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, procs)
}

// AddItem adds a purchase line to a draft procurement plan
func (h *ProcurementHandler) AddItem(c *gin.Context) {
	procurementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid procurement ID format")
		return
	}

	var req tradeapp.AddProcurementItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	proc, err := h.procurementService.AddItem(c.Request.Context(), procurementID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, proc)
}

// RemoveItem removes a purchase line from a draft procurement plan
func (h *ProcurementHandler) RemoveItem(c *gin.Context) {
	procurementID, itemID, ok := h.parseItemPath(c)
	if !ok {
		return
	}

	proc, err := h.procurementService.RemoveItem(c.Request.Context(), procurementID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, proc)
}

// SetItemSelected flips a purchase line's reconciliation participation.
// Selection stays editable after the plan is confirmed.
func (h *ProcurementHandler) SetItemSelected(c *gin.Context) {
	procurementID, itemID, ok := h.parseItemPath(c)
	if !ok {
		return
	}

	var req tradeapp.SelectProcurementItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	proc, err := h.procurementService.SetItemSelected(c.Request.Context(), procurementID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, proc)
}

// Confirm transitions a procurement plan from DRAFT to CONFIRMED
func (h *ProcurementHandler) Confirm(c *gin.Context) {
	h.transition(c, h.procurementService.Confirm)
}

// Complete transitions a procurement plan from CONFIRMED to COMPLETED
func (h *ProcurementHandler) Complete(c *gin.Context) {
	h.transition(c, h.procurementService.Complete)
}

// Cancel cancels a procurement plan
func (h *ProcurementHandler) Cancel(c *gin.Context) {
	h.transition(c, h.procurementService.Cancel)
}

// Delete deletes a draft procurement plan
func (h *ProcurementHandler) Delete(c *gin.Context) {
	procurementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid procurement ID format")
		return
	}

	if err := h.procurementService.Delete(c.Request.Context(), procurementID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// transition runs a status transition identified by the procurement ID path param
func (h *ProcurementHandler) transition(c *gin.Context, fn func(ctx context.Context, procurementID uuid.UUID) (*tradeapp.ProcurementResponse, error)) {
	procurementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid procurement ID format")
		return
	}

	proc, err := fn(c.Request.Context(), procurementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, proc)
}

// parseItemPath parses the procurement and item ID path params
func (h *ProcurementHandler) parseItemPath(c *gin.Context) (procurementID, itemID uuid.UUID, ok bool) {
	procurementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid procurement ID format")
		return uuid.Nil, uuid.Nil, false
	}

	itemID, err = uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return procurementID, itemID, true
}
