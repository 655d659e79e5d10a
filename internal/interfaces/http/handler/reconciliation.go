package handler

import (
	tradeapp "github.com/GranDen-Corp/ls-erp-sub002/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReconciliationHandler exposes the order/procurement reconciliation check
type ReconciliationHandler struct {
	BaseHandler
	reconciliationService *tradeapp.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(reconciliationService *tradeapp.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
	}
}

// RegisterRoutes registers reconciliation routes on the given router group
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/orders/:id/reconciliation", h.Check)
}

// Check runs the reconciliation validation for an order against the
// purchase lines pooled from all its non-cancelled procurement plans
func (h *ReconciliationHandler) Check(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	result, err := h.reconciliationService.Check(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
