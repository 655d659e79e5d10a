package trade

import (
	"time"

	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Order DTOs ====================

// CreateOrderRequest represents a request to create a customer order
type CreateOrderRequest struct {
	CustomerID   uuid.UUID              `json:"customer_id" binding:"required"`
	CustomerName string                 `json:"customer_name" binding:"required,min=1,max=200"`
	Currency     string                 `json:"currency" binding:"omitempty,len=3"`
	Items        []CreateOrderItemInput `json:"items"`
	Remark       string                 `json:"remark"`
}

// CreateOrderItemInput represents an item in the create order request
type CreateOrderItemInput struct {
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Remark      string          `json:"remark"`
}

// AddOrderItemRequest represents a request to add an item to an order
type AddOrderItemRequest struct {
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateOrderItemRequest represents a request to update an order item
type UpdateOrderItemRequest struct {
	Quantity  *decimal.Decimal `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search     string             `form:"search"`
	CustomerID *uuid.UUID         `form:"customer_id"`
	Status     *trade.OrderStatus `form:"status"`
	StartDate  *time.Time         `form:"start_date"`
	EndDate    *time.Time         `form:"end_date"`
	Page       int                `form:"page" binding:"omitempty,min=1"`
	PageSize   int                `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string             `form:"order_by"`
	OrderDir   string             `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ==================== Batch DTOs ====================

// AddBatchRequest represents a request to allocate a new shipment batch
type AddBatchRequest struct {
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	PlannedShipDate time.Time       `json:"planned_ship_date" binding:"required"`
}

// UpdateBatchRequest represents a partial update of a shipment batch
type UpdateBatchRequest struct {
	Quantity        *decimal.Decimal `json:"quantity"`
	PlannedShipDate *time.Time       `json:"planned_ship_date"`
	ActualShipDate  *time.Time       `json:"actual_ship_date"`
	Status          *string          `json:"status" binding:"omitempty,oneof=PENDING SHIPPED DELIVERED DELAYED"`
	TrackingNumber  *string          `json:"tracking_number"`
	Notes           *string          `json:"notes"`
}

// BatchResponse represents a shipment batch in API responses
type BatchResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderItemID     uuid.UUID       `json:"order_item_id"`
	BatchNumber     int             `json:"batch_number"`
	Quantity        decimal.Decimal `json:"quantity"`
	PlannedShipDate time.Time       `json:"planned_ship_date"`
	ActualShipDate  *time.Time      `json:"actual_ship_date,omitempty"`
	Status          string          `json:"status"`
	TrackingNumber  string          `json:"tracking_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ==================== Order Responses ====================

// OrderItemResponse represents an order line item in API responses
type OrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductCode       string          `json:"product_code"`
	ProductName       string          `json:"product_name"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Currency          string          `json:"currency"`
	Amount            decimal.Decimal `json:"amount"`
	AllocatedQuantity decimal.Decimal `json:"allocated_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	Batches           []BatchResponse `json:"batches"`
	Remark            string          `json:"remark,omitempty"`
}

// OrderResponse represents a customer order in API responses
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  string              `json:"order_number"`
	CustomerID   uuid.UUID           `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	Currency     string              `json:"currency"`
	Items        []OrderItemResponse `json:"items"`
	ItemCount    int                 `json:"item_count"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Status       string              `json:"status"`
	Remark       string              `json:"remark,omitempty"`
	ConfirmedAt  *time.Time          `json:"confirmed_at,omitempty"`
	ShippedAt    *time.Time          `json:"shipped_at,omitempty"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason string              `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Version      int                 `json:"version"`
}

// OrderListItemResponse represents a customer order in list responses (less detail)
type OrderListItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrderNumber  string          `json:"order_number"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Currency     string          `json:"currency"`
	ItemCount    int             `json:"item_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToBatchResponse converts a domain shipment batch to a response DTO
func ToBatchResponse(b *trade.ShipmentBatch) BatchResponse {
	return BatchResponse{
		ID:              b.ID,
		OrderItemID:     b.OrderItemID,
		BatchNumber:     b.BatchNumber,
		Quantity:        b.Quantity,
		PlannedShipDate: b.PlannedShipDate,
		ActualShipDate:  b.ActualShipDate,
		Status:          b.Status.String(),
		TrackingNumber:  b.TrackingNumber,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// ToOrderItemResponse converts a domain order item to a response DTO
func ToOrderItemResponse(item *trade.OrderLineItem) OrderItemResponse {
	batches := make([]BatchResponse, 0, len(item.Batches))
	for idx := range item.Batches {
		batches = append(batches, ToBatchResponse(&item.Batches[idx]))
	}
	return OrderItemResponse{
		ID:                item.ID,
		ProductCode:       item.ProductCode,
		ProductName:       item.ProductName,
		Quantity:          item.Quantity,
		UnitPrice:         item.UnitPrice,
		Currency:          string(item.Currency),
		Amount:            item.Amount(),
		AllocatedQuantity: item.AllocatedQuantity(),
		RemainingQuantity: item.RemainingQuantity(),
		Batches:           batches,
		Remark:            item.Remark,
	}
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(order *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for idx := range order.Items {
		items = append(items, ToOrderItemResponse(&order.Items[idx]))
	}
	return OrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		CustomerID:   order.CustomerID,
		CustomerName: order.CustomerName,
		Currency:     string(order.Currency),
		Items:        items,
		ItemCount:    order.ItemCount(),
		TotalAmount:  order.TotalAmount,
		Status:       order.Status.String(),
		Remark:       order.Remark,
		ConfirmedAt:  order.ConfirmedAt,
		ShippedAt:    order.ShippedAt,
		CompletedAt:  order.CompletedAt,
		CancelledAt:  order.CancelledAt,
		CancelReason: order.CancelReason,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
		Version:      order.Version,
	}
}

// ToOrderListItemResponses converts domain orders to list response DTOs
func ToOrderListItemResponses(orders []trade.Order) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, 0, len(orders))
	for idx := range orders {
		o := &orders[idx]
		responses = append(responses, OrderListItemResponse{
			ID:           o.ID,
			OrderNumber:  o.OrderNumber,
			CustomerID:   o.CustomerID,
			CustomerName: o.CustomerName,
			Currency:     string(o.Currency),
			ItemCount:    o.ItemCount(),
			TotalAmount:  o.TotalAmount,
			Status:       o.Status.String(),
			CreatedAt:    o.CreatedAt,
			UpdatedAt:    o.UpdatedAt,
		})
	}
	return responses
}

// ==================== Procurement DTOs ====================

// CreateProcurementRequest represents a request to create a procurement plan
type CreateProcurementRequest struct {
	OrderID uuid.UUID                    `json:"order_id" binding:"required"`
	Items   []CreateProcurementItemInput `json:"items"`
	Remark  string                       `json:"remark"`
}

// CreateProcurementItemInput represents an item in the create procurement request
type CreateProcurementItemInput struct {
	ProductCode          string          `json:"product_code" binding:"required,min=1,max=50"`
	SupplierID           uuid.UUID       `json:"supplier_id" binding:"required"`
	SupplierName         string          `json:"supplier_name" binding:"required,min=1,max=200"`
	Quantity             decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice            decimal.Decimal `json:"unit_price" binding:"required"`
	Currency             string          `json:"currency" binding:"omitempty,len=3"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date"`
}

// AddProcurementItemRequest represents a request to add a purchase line
type AddProcurementItemRequest struct {
	ProductCode          string          `json:"product_code" binding:"required,min=1,max=50"`
	SupplierID           uuid.UUID       `json:"supplier_id" binding:"required"`
	SupplierName         string          `json:"supplier_name" binding:"required,min=1,max=200"`
	Quantity             decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice            decimal.Decimal `json:"unit_price" binding:"required"`
	Currency             string          `json:"currency" binding:"omitempty,len=3"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date"`
}

// SelectProcurementItemRequest flips an item's reconciliation participation
type SelectProcurementItemRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

// ProcurementListFilter represents filter options for the procurement list
type ProcurementListFilter struct {
	Search   string                   `form:"search"`
	OrderID  *uuid.UUID               `form:"order_id"`
	Status   *trade.ProcurementStatus `form:"status"`
	Page     int                      `form:"page" binding:"omitempty,min=1"`
	PageSize int                      `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string                   `form:"order_by"`
	OrderDir string                   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProcurementItemResponse represents a purchase line in API responses
type ProcurementItemResponse struct {
	ID                   uuid.UUID       `json:"id"`
	ProductCode          string          `json:"product_code"`
	SupplierID           uuid.UUID       `json:"supplier_id"`
	SupplierName         string          `json:"supplier_name"`
	Quantity             decimal.Decimal `json:"quantity"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	Currency             string          `json:"currency"`
	Amount               decimal.Decimal `json:"amount"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty"`
	Selected             bool            `json:"selected"`
	Remark               string          `json:"remark,omitempty"`
}

// ProcurementResponse represents a procurement plan in API responses
type ProcurementResponse struct {
	ID                uuid.UUID                 `json:"id"`
	ProcurementNumber string                    `json:"procurement_number"`
	OrderID           uuid.UUID                 `json:"order_id"`
	Items             []ProcurementItemResponse `json:"items"`
	ItemCount         int                       `json:"item_count"`
	TotalAmount       decimal.Decimal           `json:"total_amount"`
	Status            string                    `json:"status"`
	Remark            string                    `json:"remark,omitempty"`
	ConfirmedAt       *time.Time                `json:"confirmed_at,omitempty"`
	CompletedAt       *time.Time                `json:"completed_at,omitempty"`
	CancelledAt       *time.Time                `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
	Version           int                       `json:"version"`
}

// ToProcurementItemResponse converts a domain purchase line to a response DTO
func ToProcurementItemResponse(item *trade.ProcurementLineItem) ProcurementItemResponse {
	return ProcurementItemResponse{
		ID:                   item.ID,
		ProductCode:          item.ProductCode,
		SupplierID:           item.SupplierID,
		SupplierName:         item.SupplierName,
		Quantity:             item.Quantity,
		UnitPrice:            item.UnitPrice,
		Currency:             string(item.Currency),
		Amount:               item.Amount(),
		ExpectedDeliveryDate: item.ExpectedDeliveryDate,
		Selected:             item.Selected,
		Remark:               item.Remark,
	}
}

// ToProcurementResponse converts a domain procurement plan to a response DTO
func ToProcurementResponse(proc *trade.Procurement) ProcurementResponse {
	items := make([]ProcurementItemResponse, 0, len(proc.Items))
	for idx := range proc.Items {
		items = append(items, ToProcurementItemResponse(&proc.Items[idx]))
	}
	return ProcurementResponse{
		ID:                proc.ID,
		ProcurementNumber: proc.ProcurementNumber,
		OrderID:           proc.OrderID,
		Items:             items,
		ItemCount:         len(proc.Items),
		TotalAmount:       proc.TotalAmount,
		Status:            proc.Status.String(),
		Remark:            proc.Remark,
		ConfirmedAt:       proc.ConfirmedAt,
		CompletedAt:       proc.CompletedAt,
		CancelledAt:       proc.CancelledAt,
		CreatedAt:         proc.CreatedAt,
		UpdatedAt:         proc.UpdatedAt,
		Version:           proc.Version,
	}
}

// ToProcurementResponses converts domain procurement plans to response DTOs
func ToProcurementResponses(procs []trade.Procurement) []ProcurementResponse {
	responses := make([]ProcurementResponse, 0, len(procs))
	for idx := range procs {
		responses = append(responses, ToProcurementResponse(&procs[idx]))
	}
	return responses
}

// ==================== Reconciliation DTOs ====================

// ReconciliationResponse is the full result of a reconciliation run
type ReconciliationResponse struct {
	OrderID   uuid.UUID                    `json:"order_id"`
	Results   []trade.ReconciliationResult `json:"results"`
	Summary   trade.ReconciliationSummary  `json:"summary"`
	CheckedAt time.Time                    `json:"checked_at"`
}
