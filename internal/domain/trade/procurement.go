package trade

import (
	"fmt"
	"time"

	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcurementStatus represents the status of a procurement plan
type ProcurementStatus string

const (
	ProcurementStatusDraft     ProcurementStatus = "DRAFT"
	ProcurementStatusConfirmed ProcurementStatus = "CONFIRMED"
	ProcurementStatusCompleted ProcurementStatus = "COMPLETED"
	ProcurementStatusCancelled ProcurementStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ProcurementStatus
func (s ProcurementStatus) IsValid() bool {
	switch s {
	case ProcurementStatusDraft, ProcurementStatusConfirmed, ProcurementStatusCompleted, ProcurementStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ProcurementStatus
func (s ProcurementStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ProcurementStatus) CanTransitionTo(target ProcurementStatus) bool {
	switch s {
	case ProcurementStatusDraft:
		return target == ProcurementStatusConfirmed || target == ProcurementStatusCancelled
	case ProcurementStatusConfirmed:
		return target == ProcurementStatusCompleted || target == ProcurementStatusCancelled
	case ProcurementStatusCompleted, ProcurementStatusCancelled:
		return false // Terminal states
	}
	return false
}

// ProcurementLineItem represents one product entry on a supplier purchase,
// matched to an order line item by product code. Several partial purchases
// may exist for the same product code; only items flagged Selected take part
// in reconciliation.
type ProcurementLineItem struct {
	ID                   uuid.UUID            `gorm:"type:uuid;primary_key"`
	ProcurementID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductCode          string               `gorm:"type:varchar(50);not null;index"`
	SupplierID           uuid.UUID            `gorm:"type:uuid;not null"`
	SupplierName         string               `gorm:"type:varchar(200);not null"`
	Quantity             decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	UnitPrice            decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency             valueobject.Currency `gorm:"type:varchar(3);not null"`
	ExpectedDeliveryDate *time.Time
	Selected             bool      `gorm:"not null;default:true"`
	Remark               string    `gorm:"type:varchar(500)"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProcurementLineItem) TableName() string {
	return "procurement_items"
}

// NewProcurementLineItem creates a new procurement line item.
// New items start selected; deselection is an explicit user action.
func NewProcurementLineItem(procurementID uuid.UUID, productCode string, supplierID uuid.UUID, supplierName string, quantity decimal.Decimal, unitPrice valueobject.Money, expectedDeliveryDate *time.Time) (*ProcurementLineItem, error) {
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product code cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &ProcurementLineItem{
		ID:                   uuid.New(),
		ProcurementID:        procurementID,
		ProductCode:          productCode,
		SupplierID:           supplierID,
		SupplierName:         supplierName,
		Quantity:             quantity,
		UnitPrice:            unitPrice.Amount(),
		Currency:             unitPrice.Currency(),
		ExpectedDeliveryDate: expectedDeliveryDate,
		Selected:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// Amount returns quantity * unit price in the item currency
func (i *ProcurementLineItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Procurement represents a purchase plan bound to one customer order
type Procurement struct {
	shared.BaseAggregateRoot
	ProcurementNumber string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderID           uuid.UUID             `gorm:"type:uuid;not null;index"`
	Items             []ProcurementLineItem `gorm:"foreignKey:ProcurementID;references:ID"`
	TotalAmount       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status            ProcurementStatus     `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Remark            string                `gorm:"type:text"`
	ConfirmedAt       *time.Time            `gorm:"index"`
	CompletedAt       *time.Time
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (Procurement) TableName() string {
	return "procurements"
}

// NewProcurement creates a new procurement plan for an order
func NewProcurement(procurementNumber string, orderID uuid.UUID) (*Procurement, error) {
	if procurementNumber == "" {
		return nil, shared.NewDomainError("INVALID_PROCUREMENT_NUMBER", "Procurement number cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}

	return &Procurement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProcurementNumber: procurementNumber,
		OrderID:           orderID,
		Items:             make([]ProcurementLineItem, 0),
		TotalAmount:       decimal.Zero,
		Status:            ProcurementStatusDraft,
	}, nil
}

// AddItem adds a purchase line to the plan. Unlike order items, multiple
// lines for one product code are allowed (partial purchases from different
// suppliers).
func (p *Procurement) AddItem(productCode string, supplierID uuid.UUID, supplierName string, quantity decimal.Decimal, unitPrice valueobject.Money, expectedDeliveryDate *time.Time) (*ProcurementLineItem, error) {
	if p.Status != ProcurementStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft procurement")
	}

	item, err := NewProcurementLineItem(p.ID, productCode, supplierID, supplierName, quantity, unitPrice, expectedDeliveryDate)
	if err != nil {
		return nil, err
	}

	p.Items = append(p.Items, *item)
	p.recalculateTotals()
	p.UpdatedAt = time.Now()

	return item, nil
}

// RemoveItem removes a purchase line from the plan
func (p *Procurement) RemoveItem(itemID uuid.UUID) error {
	if p.Status != ProcurementStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft procurement")
	}
	for idx, item := range p.Items {
		if item.ID == itemID {
			p.Items = append(p.Items[:idx], p.Items[idx+1:]...)
			p.recalculateTotals()
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Procurement item not found")
}

// SetItemSelected flips the reconciliation participation flag of an item
func (p *Procurement) SetItemSelected(itemID uuid.UUID, selected bool) error {
	for idx := range p.Items {
		if p.Items[idx].ID == itemID {
			p.Items[idx].Selected = selected
			p.Items[idx].UpdatedAt = time.Now()
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Procurement item not found")
}

// UpdateItemQuantity updates the quantity of a purchase line
func (p *Procurement) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if p.Status != ProcurementStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft procurement")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	for idx := range p.Items {
		if p.Items[idx].ID == itemID {
			p.Items[idx].Quantity = quantity
			p.Items[idx].UpdatedAt = time.Now()
			p.recalculateTotals()
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Procurement item not found")
}

// SelectedItems returns the purchase lines participating in reconciliation
func (p *Procurement) SelectedItems() []ProcurementLineItem {
	selected := make([]ProcurementLineItem, 0, len(p.Items))
	for _, item := range p.Items {
		if item.Selected {
			selected = append(selected, item)
		}
	}
	return selected
}

// Confirm confirms the procurement plan
func (p *Procurement) Confirm() error {
	if !p.Status.CanTransitionTo(ProcurementStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm procurement in %s status", p.Status))
	}
	if len(p.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm procurement without items")
	}

	now := time.Now()
	p.Status = ProcurementStatusConfirmed
	p.ConfirmedAt = &now
	p.UpdatedAt = now
	return nil
}

// Complete marks the procurement plan as completed
func (p *Procurement) Complete() error {
	if !p.Status.CanTransitionTo(ProcurementStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete procurement in %s status", p.Status))
	}

	now := time.Now()
	p.Status = ProcurementStatusCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
	return nil
}

// Cancel cancels the procurement plan
func (p *Procurement) Cancel() error {
	if !p.Status.CanTransitionTo(ProcurementStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel procurement in %s status", p.Status))
	}

	now := time.Now()
	p.Status = ProcurementStatusCancelled
	p.CancelledAt = &now
	p.UpdatedAt = now
	return nil
}

// recalculateTotals recalculates the plan total
func (p *Procurement) recalculateTotals() {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Amount())
	}
	p.TotalAmount = total
}

// GetItem returns an item by its ID
func (p *Procurement) GetItem(itemID uuid.UUID) *ProcurementLineItem {
	for idx := range p.Items {
		if p.Items[idx].ID == itemID {
			return &p.Items[idx]
		}
	}
	return nil
}
