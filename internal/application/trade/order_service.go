package trade

import (
	"context"

	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared/valueobject"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService handles customer order business operations
type OrderService struct {
	orderRepo trade.OrderRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// Create creates a new customer order
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(orderNumber, req.CustomerID, req.CustomerName, valueobject.Currency(req.Currency))
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		unitPrice, err := valueobject.NewMoney(item.UnitPrice, order.Currency)
		if err != nil {
			return nil, err
		}
		orderItem, err := order.AddItem(item.ProductCode, item.ProductName, item.Quantity, unitPrice)
		if err != nil {
			return nil, err
		}
		if item.Remark != "" {
			orderItem.Remark = item.Remark
		}
	}

	if req.Remark != "" {
		order.SetRemark(req.Remark)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves an order by order number
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
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
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListItemResponses(orders), total, nil
}

// AddItem adds a line item to a draft order
func (s *OrderService) AddItem(ctx context.Context, orderID uuid.UUID, req AddOrderItemRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	unitPrice, err := valueobject.NewMoney(req.UnitPrice, order.Currency)
	if err != nil {
		return nil, err
	}
	if _, err := order.AddItem(req.ProductCode, req.ProductName, req.Quantity, unitPrice); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateItem updates quantity and/or price of an order item
func (s *OrderService) UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, req UpdateOrderItemRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if err := order.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.UnitPrice != nil {
		item := order.GetItem(itemID)
		if item == nil {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
		}
		unitPrice, err := valueobject.NewMoney(*req.UnitPrice, order.Currency)
		if err != nil {
			return nil, err
		}
		if err := item.UpdateUnitPrice(unitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// RemoveItem removes an item from a draft order
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// AddBatch allocates a new shipment batch against an order item
func (s *OrderService) AddBatch(ctx context.Context, orderID, itemID uuid.UUID, req AddBatchRequest) (*BatchResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	batch, err := order.AddBatch(itemID, req.Quantity, req.PlannedShipDate)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToBatchResponse(batch)
	return &response, nil
}

// UpdateBatch applies a partial update to a shipment batch
func (s *OrderService) UpdateBatch(ctx context.Context, orderID, itemID, batchID uuid.UUID, req UpdateBatchRequest) (*BatchResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	patch := trade.BatchPatch{
		Quantity:        req.Quantity,
		PlannedShipDate: req.PlannedShipDate,
		ActualShipDate:  req.ActualShipDate,
		TrackingNumber:  req.TrackingNumber,
		Notes:           req.Notes,
	}
	if req.Status != nil {
		status := trade.BatchStatus(*req.Status)
		patch.Status = &status
	}

	batch, err := order.UpdateBatch(itemID, batchID, patch)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToBatchResponse(batch)
	return &response, nil
}

// RemainingQuantity returns the unallocated quantity of an order item
func (s *OrderService) RemainingQuantity(ctx context.Context, orderID, itemID uuid.UUID) (decimal.Decimal, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	item := order.GetItem(itemID)
	if item == nil {
		return decimal.Zero, shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	return item.RemainingQuantity(), nil
}

// Confirm confirms a draft order
func (s *OrderService) Confirm(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *trade.Order) error {
		return order.Confirm()
	})
}

// Ship marks an order as shipped
func (s *OrderService) Ship(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *trade.Order) error {
		return order.Ship()
	})
}

// Complete marks an order as completed
func (s *OrderService) Complete(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *trade.Order) error {
		return order.Complete()
	})
}

// Cancel cancels an order
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *trade.Order) error {
		return order.Cancel(req.Reason)
	})
}

// Delete deletes a draft order
func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != trade.OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}
	return s.orderRepo.Delete(ctx, orderID)
}

// transition loads an order, applies a state change and saves it
func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, fn func(*trade.Order) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}
