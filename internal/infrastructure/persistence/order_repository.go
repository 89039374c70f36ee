package persistence

import (
	"context"
	"errors"

	"github.com/consignment/backend/internal/domain/shared"
	"github.com/consignment/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByReference finds an order by its reference
func (r *GormOrderRepository) FindByReference(ctx context.Context, reference string) (*trade.Order, error) {
	if reference == "" {
		return nil, shared.ErrNotFound
	}
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("reference = ?", reference).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByLegacyID finds an order imported from a legacy webshop order
func (r *GormOrderRepository) FindByLegacyID(ctx context.Context, legacyID string) (*trade.Order, error) {
	if legacyID == "" {
		return nil, shared.ErrNotFound
	}
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("legacy_id = ?", legacyID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindLineByLegacyID finds an order line by its legacy line id
func (r *GormOrderRepository) FindLineByLegacyID(ctx context.Context, legacyLineID string) (*trade.OrderLine, error) {
	if legacyLineID == "" {
		return nil, shared.ErrNotFound
	}
	var line trade.OrderLine
	if err := r.db.WithContext(ctx).
		Where("legacy_line_id = ?", legacyLineID).
		First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// Save persists an order together with its lines
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(order).Error
}

// SaveLine persists a single order line
func (r *GormOrderRepository) SaveLine(ctx context.Context, line *trade.OrderLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// Count returns the total number of orders
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.Order{}).Count(&count).Error
	return count, err
}
