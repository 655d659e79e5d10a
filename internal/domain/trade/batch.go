package trade

import (
	"fmt"
	"time"

	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStatus represents the status of a shipment batch
type BatchStatus string

const (
	BatchStatusPending   BatchStatus = "PENDING"
	BatchStatusShipped   BatchStatus = "SHIPPED"
	BatchStatusDelivered BatchStatus = "DELIVERED"
	BatchStatusDelayed   BatchStatus = "DELAYED"
)

// IsValid checks if the status is a valid BatchStatus
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusPending, BatchStatusShipped, BatchStatusDelivered, BatchStatusDelayed:
		return true
	}
	return false
}

// String returns the string representation of BatchStatus
func (s BatchStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// DELAYED is not terminal: a delayed batch can still ship or be delivered.
func (s BatchStatus) CanTransitionTo(target BatchStatus) bool {
	switch s {
	case BatchStatusPending:
		return target == BatchStatusShipped || target == BatchStatusDelayed
	case BatchStatusShipped:
		return target == BatchStatusDelivered || target == BatchStatusDelayed
	case BatchStatusDelayed:
		return target == BatchStatusShipped || target == BatchStatusDelivered
	case BatchStatusDelivered:
		return false // Terminal state
	}
	return false
}

// ShipmentBatch is a partial-quantity shipment commitment against one order
// line item. Batch numbers are 1-based and sequential within the item.
type ShipmentBatch struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber     int             `gorm:"not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PlannedShipDate time.Time       `gorm:"not null"`
	ActualShipDate  *time.Time
	Status          BatchStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	TrackingNumber  string      `gorm:"type:varchar(100)"`
	Notes           string      `gorm:"type:varchar(500)"`
	CreatedAt       time.Time   `gorm:"not null"`
	UpdatedAt       time.Time   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShipmentBatch) TableName() string {
	return "shipment_batches"
}

// BatchPatch describes an in-place edit of a shipment batch. Nil fields are
// left unchanged.
type BatchPatch struct {
	Quantity        *decimal.Decimal
	PlannedShipDate *time.Time
	ActualShipDate  *time.Time
	Status          *BatchStatus
	TrackingNumber  *string
	Notes           *string
}

// RemainingQuantity returns the unallocated portion of totalQuantity after
// subtracting every batch. Pure function. A negative result means the batch
// list already violates the allocation invariant; the allocator itself never
// produces such a list, so callers must treat it as an invalid-state signal.
func RemainingQuantity(totalQuantity decimal.Decimal, batches []ShipmentBatch) decimal.Decimal {
	allocated := decimal.Zero
	for _, b := range batches {
		allocated = allocated.Add(b.Quantity)
	}
	return totalQuantity.Sub(allocated)
}

// ProposeBatch gates the creation of a new batch against the allocation
// invariant. On acceptance it returns a PENDING batch numbered
// len(existing)+1; on rejection it returns a domain error and performs no
// mutation.
func ProposeBatch(orderItemID uuid.UUID, totalQuantity decimal.Decimal, existing []ShipmentBatch, quantity decimal.Decimal, plannedShipDate time.Time) (*ShipmentBatch, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if plannedShipDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Planned ship date is required")
	}

	remaining := RemainingQuantity(totalQuantity, existing)
	if quantity.GreaterThan(remaining) {
		return nil, shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Batch quantity %s exceeds remaining unallocated quantity %s", quantity, remaining))
	}

	now := time.Now()
	return &ShipmentBatch{
		ID:              uuid.New(),
		OrderItemID:     orderItemID,
		BatchNumber:     len(existing) + 1,
		Quantity:        quantity,
		PlannedShipDate: plannedShipDate,
		Status:          BatchStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Apply applies a patch to the batch. Quantity changes are re-validated
// against totalQuantity across allBatches with this batch's new quantity
// substituted in, so the sum invariant holds at update time as well as at
// creation time. The batch is only mutated when every change is accepted.
func (b *ShipmentBatch) Apply(patch BatchPatch, totalQuantity decimal.Decimal, allBatches []ShipmentBatch) error {
	if patch.Quantity != nil {
		if patch.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
		}
		newTotal := decimal.Zero
		for _, other := range allBatches {
			if other.ID == b.ID {
				newTotal = newTotal.Add(*patch.Quantity)
			} else {
				newTotal = newTotal.Add(other.Quantity)
			}
		}
		if newTotal.GreaterThan(totalQuantity) {
			return shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Updated batch quantities %s exceed order item quantity %s", newTotal, totalQuantity))
		}
	}
	if patch.PlannedShipDate != nil && patch.PlannedShipDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Planned ship date cannot be cleared")
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Unknown batch status %q", string(*patch.Status)))
		}
		if *patch.Status != b.Status && !b.Status.CanTransitionTo(*patch.Status) {
			return shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Cannot transition batch from %s to %s", b.Status, *patch.Status))
		}
	}

	if patch.Quantity != nil {
		b.Quantity = *patch.Quantity
	}
	if patch.PlannedShipDate != nil {
		b.PlannedShipDate = *patch.PlannedShipDate
	}
	if patch.ActualShipDate != nil {
		b.ActualShipDate = patch.ActualShipDate
	}
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.TrackingNumber != nil {
		b.TrackingNumber = *patch.TrackingNumber
	}
	if patch.Notes != nil {
		b.Notes = *patch.Notes
	}
	b.UpdatedAt = time.Now()

	return nil
}

// IsOverdue reports whether the batch looks delayed at the given instant:
// not yet delivered, no actual ship date, and past the planned date. This is
// a display concern; the batch status is only ever set explicitly.
func (b *ShipmentBatch) IsOverdue(now time.Time) bool {
	if b.Status == BatchStatusDelivered {
		return false
	}
	if b.ActualShipDate != nil {
		return false
	}
	return now.After(b.PlannedShipDate)
}
