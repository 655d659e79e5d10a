package trade

import (
	"context"
	"time"

	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/trade"
	"github.com/google/uuid"
)

// ReconciliationService runs the order/procurement reconciliation check.
// Results are computed on demand and never persisted; callers re-run the
// check whenever order or procurement data changes.
type ReconciliationService struct {
	orderRepo       trade.OrderRepository
	procurementRepo trade.ProcurementRepository
	validator       *trade.Validator
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(orderRepo trade.OrderRepository, procurementRepo trade.ProcurementRepository, validator *trade.Validator) *ReconciliationService {
	return &ReconciliationService{
		orderRepo:       orderRepo,
		procurementRepo: procurementRepo,
		validator:       validator,
	}
}

// Check reconciles an order against every procurement plan bound to it.
// Procurement items from all plans are pooled; only selected items take
// part. Cancelled plans are excluded entirely.
func (s *ReconciliationService) Check(ctx context.Context, orderID uuid.UUID) (*ReconciliationResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	procurements, err := s.procurementRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var procurementItems []trade.ProcurementLineItem
	for idx := range procurements {
		if procurements[idx].Status == trade.ProcurementStatusCancelled {
			continue
		}
		procurementItems = append(procurementItems, procurements[idx].Items...)
	}

	results, summary, err := s.validator.Validate(ctx, order.Items, procurementItems, order.Currency)
	if err != nil {
		return nil, err
	}

	return &ReconciliationResponse{
		OrderID:   order.ID,
		Results:   results,
		Summary:   summary,
		CheckedAt: time.Now(),
	}, nil
}
