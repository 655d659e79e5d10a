package trade

import (
	"context"

	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared/valueobject"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/trade"
	"github.com/google/uuid"
)

// ProcurementService handles procurement plan business operations
type ProcurementService struct {
	procurementRepo trade.ProcurementRepository
	orderRepo       trade.OrderRepository
}

// NewProcurementService creates a new ProcurementService
func NewProcurementService(procurementRepo trade.ProcurementRepository, orderRepo trade.OrderRepository) *ProcurementService {
	return &ProcurementService{
		procurementRepo: procurementRepo,
		orderRepo:       orderRepo,
	}
}

// Create creates a new procurement plan bound to an existing order
func (s *ProcurementService) Create(ctx context.Context, req CreateProcurementRequest) (*ProcurementResponse, error) {
	// The order must exist before purchases can be planned against it.
	if _, err := s.orderRepo.FindByID(ctx, req.OrderID); err != nil {
		return nil, err
	}

	procurementNumber, err := s.procurementRepo.GenerateProcurementNumber(ctx)
	if err != nil {
		return nil, err
	}

	proc, err := trade.NewProcurement(procurementNumber, req.OrderID)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		unitPrice, err := valueobject.NewMoney(item.UnitPrice, itemCurrency(item.Currency))
		if err != nil {
			return nil, err
		}
		if _, err := proc.AddItem(item.ProductCode, item.SupplierID, item.SupplierName, item.Quantity, unitPrice, item.ExpectedDeliveryDate); err != nil {
			return nil, err
		}
	}

	if req.Remark != "" {
		proc.Remark = req.Remark
	}

	if err := s.procurementRepo.Save(ctx, proc); err != nil {
		return nil, err
	}

	response := ToProcurementResponse(proc)
	return &response, nil
}

// GetByID retrieves a procurement plan by ID
func (s *ProcurementService) GetByID(ctx context.Context, procurementID uuid.UUID) (*ProcurementResponse, error) {
	proc, err := s.procurementRepo.FindByID(ctx, procurementID)
	if err != nil {
		return nil, err
	}
	response := ToProcurementResponse(proc)
	return &response, nil
}

// ListByOrder retrieves all procurement plans for an order
func (s *ProcurementService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]ProcurementResponse, error) {
	procs, err := s.procurementRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToProcurementResponses(procs), nil
}

// List retrieves procurement plans with filtering and pagination
func (s *ProcurementService) List(ctx context.Context, filter ProcurementListFilter) ([]ProcurementResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.OrderID != nil {
		domainFilter.Filters["order_id"] = *filter.OrderID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}

	procs, err := s.procurementRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.procurementRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProcurementResponses(procs), total, nil
}

// AddItem adds a purchase line to a draft procurement plan
func (s *ProcurementService) AddItem(ctx context.Context, procurementID uuid.UUID, req AddProcurementItemRequest) (*ProcurementResponse, error) {
	proc, err := s.procurementRepo.FindByID(ctx, procurementID)
	if err != nil {
		return nil, err
	}

	unitPrice, err := valueobject.NewMoney(req.UnitPrice, itemCurrency(req.Currency))
	if err != nil {
		return nil, err
	}
	if _, err := proc.AddItem(req.ProductCode, req.SupplierID, req.SupplierName, req.Quantity, unitPrice, req.ExpectedDeliveryDate); err != nil {
		return nil, err
	}

	if err := s.procurementRepo.Save(ctx, proc); err != nil {
		return nil, err
	}

	response := ToProcurementResponse(proc)
	return &response, nil
}

// RemoveItem removes a purchase line from a draft procurement plan
func (s *ProcurementService) RemoveItem(ctx context.Context, procurementID, itemID uuid.UUID) (*ProcurementResponse, error) {
	proc, err := s.procurementRepo.FindByID(ctx, procurementID)
	if err != nil {
		return nil, err
	}
	if err := proc.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.procurementRepo.Save(ctx, proc); err != nil {
		return nil, err
	}

	response := ToProcurementResponse(proc)
	return &response, nil
}

// SetItemSelected flips an item's participation in reconciliation
func (s *ProcurementService) SetItemSelected(ctx context.Context, procurementID, itemID uuid.UUID, req SelectProcurementItemRequest) (*ProcurementResponse, error) {
	proc, err := s.procurementRepo.FindByID(ctx, procurementID)
	if err != nil {
		return nil, err
	}
	if err := proc.SetItemSelected(itemID, *req.Selected); err != nil {
		return nil, err
	}
	if err := s.procurementRepo.Save(ctx, proc); err != nil {
		return nil, err
	}

	response := ToProcurementResponse(proc)
	return &response, nil
}

// Confirm confirms a draft procurement plan
func (s *ProcurementService) Confirm(ctx context.Context, procurementID uuid.UUID) (*ProcurementResponse, error) {
	return s.transition(ctx, procurementID, func(p *trade.Procurement) error {
		return p.Confirm()
	})
}

// Complete marks a procurement plan as completed
func (s *ProcurementService) Complete(ctx context.Context, procurementID uuid.UUID) (*ProcurementResponse, error) {
	return s.transition(ctx, procurementID, func(p *trade.Procurement) error {
		return p.Complete()
	})
}

// Cancel cancels a procurement plan
func (s *ProcurementService) Cancel(ctx context.Context, procurementID uuid.UUID) (*ProcurementResponse, error) {
	return s.transition(ctx, procurementID, func(p *trade.Procurement) error {
		return p.Cancel()
	})
}

// Delete deletes a draft procurement plan
func (s *ProcurementService) Delete(ctx context.Context, procurementID uuid.UUID) error {
	proc, err := s.procurementRepo.FindByID(ctx, procurementID)
	if err != nil {
		return err
	}
	if proc.Status != trade.ProcurementStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft procurements can be deleted")
	}
	return s.procurementRepo.Delete(ctx, procurementID)
}

// itemCurrency resolves an optional request currency, defaulting to the
// reference currency when unset.
func itemCurrency(code string) valueobject.Currency {
	cur := valueobject.Currency(code)
	if cur.IsZeroValue() {
		return valueobject.ReferenceCurrency
	}
	return cur
}

// transition loads a procurement plan, applies a state change and saves it
func (s *ProcurementService) transition(ctx context.Context, procurementID uuid.UUID, fn func(*trade.Procurement) error) (*ProcurementResponse, error) {
	proc, err := s.procurementRepo.FindByID(ctx, procurementID)
	if err != nil {
		return nil, err
	}
	if err := fn(proc); err != nil {
		return nil, err
	}
	if err := s.procurementRepo.Save(ctx, proc); err != nil {
		return nil, err
	}

	response := ToProcurementResponse(proc)
	return &response, nil
}
