package trade

import (
	"context"

	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the persistence interface for customer orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	GenerateOrderNumber(ctx context.Context) (string, error)
}

// ProcurementRepository defines the persistence interface for procurement plans
type ProcurementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Procurement, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]Procurement, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Procurement, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, procurement *Procurement) error
	Delete(ctx context.Context, id uuid.UUID) error
	GenerateProcurementNumber(ctx context.Context) (string, error)
}
