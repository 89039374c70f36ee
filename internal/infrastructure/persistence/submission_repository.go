package persistence

import (
	"context"
	"errors"

	"github.com/consignment/backend/internal/domain/consignment"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubmissionRepository implements SubmissionRepository using GORM
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewGormSubmissionRepository creates a new GormSubmissionRepository
func NewGormSubmissionRepository(db *gorm.DB) *GormSubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// FindByID finds a submission by its ID
func (r *GormSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*consignment.Submission, error) {
	var submission consignment.Submission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// FindByLegacyID finds a submission by its legacy primary key
func (r *GormSubmissionRepository) FindByLegacyID(ctx context.Context, legacyID string) (*consignment.Submission, error) {
	if legacyID == "" {
		return nil, shared.ErrNotFound
	}
	var submission consignment.Submission
	if err := r.db.WithContext(ctx).
		Where("legacy_id = ?", legacyID).
		First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// FindByName finds a submission by its display name
func (r *GormSubmissionRepository) FindByName(ctx context.Context, name string) (*consignment.Submission, error) {
	var submission consignment.Submission
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// Save persists a submission
func (r *GormSubmissionRepository) Save(ctx context.Context, submission *consignment.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

// Count returns the total number of submissions
func (r *GormSubmissionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&consignment.Submission{}).Count(&count).Error
	return count, err
}
