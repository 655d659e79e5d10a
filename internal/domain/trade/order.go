package trade

import (
	"fmt"
	"time"

	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a customer order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusCompleted
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// OrderLineItem represents one product entry on a customer order. The
// product code is unique within the order and is the key procurement items
// are matched on. Delivery batches are managed through the batch allocator
// and must never sum past the item quantity.
type OrderLineItem struct {
	ID          uuid.UUID            `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_order_item_product,priority:1"`
	ProductCode string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_item_product,priority:2"`
	ProductName string               `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null"`
	Batches     []ShipmentBatch      `gorm:"foreignKey:OrderItemID;references:ID"`
	Remark      string               `gorm:"type:varchar(500)"`
	CreatedAt   time.Time            `gorm:"not null"`
	UpdatedAt   time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineItem) TableName() string {
	return "order_items"
}

// NewOrderLineItem creates a new order line item
func NewOrderLineItem(orderID uuid.UUID, productCode, productName string, quantity decimal.Decimal, unitPrice valueobject.Money) (*OrderLineItem, error) {
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product code cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderLineItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductCode: productCode,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Currency:    unitPrice.Currency(),
		Batches:     make([]ShipmentBatch, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AllocatedQuantity returns the sum of all batch quantities
func (i *OrderLineItem) AllocatedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, b := range i.Batches {
		total = total.Add(b.Quantity)
	}
	return total
}

// RemainingQuantity returns the unallocated portion of the item quantity
func (i *OrderLineItem) RemainingQuantity() decimal.Decimal {
	return RemainingQuantity(i.Quantity, i.Batches)
}

// AddBatch proposes a new shipment batch for this item through the allocator
func (i *OrderLineItem) AddBatch(quantity decimal.Decimal, plannedShipDate time.Time) (*ShipmentBatch, error) {
	batch, err := ProposeBatch(i.ID, i.Quantity, i.Batches, quantity, plannedShipDate)
	if err != nil {
		return nil, err
	}
	i.Batches = append(i.Batches, *batch)
	i.UpdatedAt = time.Now()
	return batch, nil
}

// UpdateBatch applies a patch to an existing batch of this item
func (i *OrderLineItem) UpdateBatch(batchID uuid.UUID, patch BatchPatch) (*ShipmentBatch, error) {
	for idx := range i.Batches {
		if i.Batches[idx].ID == batchID {
			if err := i.Batches[idx].Apply(patch, i.Quantity, i.Batches); err != nil {
				return nil, err
			}
			i.UpdatedAt = time.Now()
			return &i.Batches[idx], nil
		}
	}
	return nil, shared.NewDomainError("BATCH_NOT_FOUND", "Shipment batch not found")
}

// UpdateQuantity updates the item quantity. The new quantity may not drop
// below what is already allocated to batches.
func (i *OrderLineItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.LessThan(i.AllocatedQuantity()) {
		return shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Quantity %s is below the %s already allocated to batches", quantity, i.AllocatedQuantity()))
	}
	i.Quantity = quantity
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateUnitPrice updates the unit price
func (i *OrderLineItem) UpdateUnitPrice(unitPrice valueobject.Money) error {
	if unitPrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	i.UnitPrice = unitPrice.Amount()
	i.Currency = unitPrice.Currency()
	i.UpdatedAt = time.Now()
	return nil
}

// Amount returns quantity * unit price in the item currency
func (i *OrderLineItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// LatestPlannedShipDate returns the latest planned ship date among the
// item's batches, or nil when the item has no batches.
func (i *OrderLineItem) LatestPlannedShipDate() *time.Time {
	var latest *time.Time
	for idx := range i.Batches {
		d := i.Batches[idx].PlannedShipDate
		if latest == nil || d.After(*latest) {
			latest = &d
		}
	}
	return latest
}

// Order represents a customer order aggregate root
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber  string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	CustomerName string               `gorm:"type:varchar(200);not null"`
	Currency     valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	Items        []OrderLineItem      `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount  decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Status       OrderStatus          `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Remark       string               `gorm:"type:text"`
	ConfirmedAt  *time.Time           `gorm:"index"`
	ShippedAt    *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new customer order
func NewOrder(orderNumber string, customerID uuid.UUID, customerName string, orderCurrency valueobject.Currency) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if orderCurrency.IsZeroValue() {
		orderCurrency = valueobject.ReferenceCurrency
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Currency:          orderCurrency,
		Items:             make([]OrderLineItem, 0),
		TotalAmount:       decimal.Zero,
		Status:            OrderStatusDraft,
	}, nil
}

// AddItem adds a new line item to the order.
// Only allowed in DRAFT status; product codes must be unique per order.
func (o *Order) AddItem(productCode, productName string, quantity decimal.Decimal, unitPrice valueobject.Money) (*OrderLineItem, error) {
	if o.Status != OrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}
	for _, item := range o.Items {
		if item.ProductCode == productCode {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	item, err := NewOrderLineItem(o.ID, productCode, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing item.
// Only allowed in DRAFT status.
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft order")
	}
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes an item from the order.
// Only allowed in DRAFT status; items with allocated batches cannot be removed.
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft order")
	}
	for idx, item := range o.Items {
		if item.ID == itemID {
			if len(item.Batches) > 0 {
				return shared.NewDomainError("INVALID_STATE", "Cannot remove an item with shipment batches")
			}
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// AddBatch proposes a new shipment batch against an order item.
// Allowed while the order is not in a terminal state.
func (o *Order) AddBatch(itemID uuid.UUID, quantity decimal.Decimal, plannedShipDate time.Time) (*ShipmentBatch, error) {
	if o.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add batches to a %s order", o.Status))
	}
	item := o.GetItem(itemID)
	if item == nil {
		return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	batch, err := item.AddBatch(quantity, plannedShipDate)
	if err != nil {
		return nil, err
	}
	o.UpdatedAt = time.Now()
	return batch, nil
}

// UpdateBatch applies a patch to a shipment batch of an order item
func (o *Order) UpdateBatch(itemID, batchID uuid.UUID, patch BatchPatch) (*ShipmentBatch, error) {
	if o.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update batches of a %s order", o.Status))
	}
	item := o.GetItem(itemID)
	if item == nil {
		return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	batch, err := item.UpdateBatch(batchID, patch)
	if err != nil {
		return nil, err
	}
	o.UpdatedAt = time.Now()
	return batch, nil
}

// SetRemark sets the order remark
func (o *Order) SetRemark(remark string) {
	o.Remark = remark
	o.UpdatedAt = time.Now()
}

// Confirm confirms the order, transitioning from DRAFT to CONFIRMED.
// Requires at least one item in the order.
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm order without items")
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	return nil
}

// Ship marks the order as shipped.
// Requires the full quantity of every item to be allocated to batches.
func (o *Order) Ship() error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship order in %s status", o.Status))
	}
	for _, item := range o.Items {
		if !item.RemainingQuantity().IsZero() {
			return shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Item %s has %s unallocated quantity", item.ProductCode, item.RemainingQuantity()))
		}
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.ShippedAt = &now
	o.UpdatedAt = now
	return nil
}

// Complete marks the order as completed (delivered/received)
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now
	return nil
}

// Cancel cancels the order.
// Allowed only in DRAFT or CONFIRMED status.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	return nil
}

// recalculateTotals recalculates the order total
func (o *Order) recalculateTotals() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount())
	}
	o.TotalAmount = total
}

// ItemCount returns the number of items in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// IsTerminal returns true if order is in a terminal state (completed or cancelled)
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// GetItem returns an item by its ID
func (o *Order) GetItem(itemID uuid.UUID) *OrderLineItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns an item by product code
func (o *Order) GetItemByProduct(productCode string) *OrderLineItem {
	for idx := range o.Items {
		if o.Items[idx].ProductCode == productCode {
			return &o.Items[idx]
		}
	}
	return nil
}
