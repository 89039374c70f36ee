package persistence

import (
	"context"
	"errors"

	"github.com/consignment/backend/internal/domain/loyalty"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVoucherRepository implements VoucherRepository using GORM
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// FindByID finds a voucher by its ID
func (r *GormVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*loyalty.Voucher, error) {
	var voucher loyalty.Voucher
	if err := r.db.WithContext(ctx).First(&voucher, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &voucher, nil
}

// FindByCode finds a voucher by its code
func (r *GormVoucherRepository) FindByCode(ctx context.Context, code string) (*loyalty.Voucher, error) {
	if code == "" {
		return nil, shared.ErrNotFound
	}
	var voucher loyalty.Voucher
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &voucher, nil
}

// Save persists a voucher
func (r *GormVoucherRepository) Save(ctx context.Context, voucher *loyalty.Voucher) error {
	return r.db.WithContext(ctx).Save(voucher).Error
}

// Count returns the total number of vouchers
func (r *GormVoucherRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&loyalty.Voucher{}).Count(&count).Error
	return count, err
}
