package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProcurementRepository implements trade.ProcurementRepository using GORM
type GormProcurementRepository struct {
	db *gorm.DB
}

// NewGormProcurementRepository creates a new GormProcurementRepository
func NewGormProcurementRepository(db *gorm.DB) *GormProcurementRepository {
	return &GormProcurementRepository{db: db}
}

// FindByID finds a procurement plan by its ID
func (r *GormProcurementRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Procurement, error) {
	var proc trade.Procurement
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&proc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &proc, nil
}

// FindByOrderID finds all procurement plans bound to an order
func (r *GormProcurementRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]trade.Procurement, error) {
	var procs []trade.Procurement
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&procs).Error; err != nil {
		return nil, err
	}
	return procs, nil
}

// FindAll finds procurement plans with filtering and pagination
func (r *GormProcurementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Procurement, error) {
	var procs []trade.Procurement
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Procurement{}).Preload("Items"), filter)
	if err := query.Find(&procs).Error; err != nil {
		return nil, err
	}
	return procs, nil
}

// Count counts procurement plans matching the filter
func (r *GormProcurementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Procurement{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a procurement plan together with its items
func (r *GormProcurementRepository) Save(ctx context.Context, proc *trade.Procurement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(proc).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(proc.Items))
		for i, item := range proc.Items {
			currentItemIDs[i] = item.ID
		}
		itemScope := tx.Where("procurement_id = ?", proc.ID)
		if len(currentItemIDs) > 0 {
			itemScope = itemScope.Where("id NOT IN ?", currentItemIDs)
		}
		if err := itemScope.Delete(&trade.ProcurementLineItem{}).Error; err != nil {
			return err
		}

		for i := range proc.Items {
			proc.Items[i].ProcurementID = proc.ID
			if err := tx.Save(&proc.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete deletes a procurement plan and its items
func (r *GormProcurementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("procurement_id = ?", id).
			Delete(&trade.ProcurementLineItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&trade.Procurement{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// GenerateProcurementNumber generates the next sequential procurement number
// for the current year, e.g. PO-2026-00017
func (r *GormProcurementRepository) GenerateProcurementNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PO-%d-", year)

	var last trade.Procurement
	err := r.db.WithContext(ctx).
		Model(&trade.Procurement{}).
		Where("procurement_number LIKE ?", prefix+"%").
		Order("procurement_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.ProcurementNumber != "" {
		parts := strings.Split(last.ProcurementNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyFilter applies filter options including pagination and ordering
func (r *GormProcurementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProcurementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("procurement_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormProcurementRepository implements ProcurementRepository
var _ trade.ProcurementRepository = (*GormProcurementRepository)(nil)
