package persistence

import (
	"context"
	"errors"

	"github.com/consignment/backend/internal/domain/catalog"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBrandRepository implements BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// FindByID finds a brand by its ID
func (r *GormBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Brand, error) {
	var brand catalog.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &brand, nil
}

// FindByName finds a brand by its name
func (r *GormBrandRepository) FindByName(ctx context.Context, name string) (*catalog.Brand, error) {
	var brand catalog.Brand
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &brand, nil
}

// Save persists a brand
func (r *GormBrandRepository) Save(ctx context.Context, brand *catalog.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

// Count returns the total number of brands
func (r *GormBrandRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Brand{}).Count(&count).Error
	return count, err
}

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindByNameAndParent finds a category by name under a specific parent
func (r *GormCategoryRepository) FindByNameAndParent(ctx context.Context, name string, parentID *uuid.UUID, kind catalog.CategoryKind) (*catalog.Category, error) {
	q := r.db.WithContext(ctx).Where("name = ? AND kind = ?", name, kind)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	var category catalog.Category
	if err := q.First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Save persists a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// GormAttributeRepository implements AttributeRepository using GORM
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewGormAttributeRepository creates a new GormAttributeRepository
func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

// FindAttributeByName finds an attribute axis by name
func (r *GormAttributeRepository) FindAttributeByName(ctx context.Context, name string) (*catalog.Attribute, error) {
	var attribute catalog.Attribute
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&attribute).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &attribute, nil
}

// FindValue finds a value under an attribute
func (r *GormAttributeRepository) FindValue(ctx context.Context, attributeID uuid.UUID, name string) (*catalog.AttributeValue, error) {
	var value catalog.AttributeValue
	if err := r.db.WithContext(ctx).
		Where("attribute_id = ? AND name = ?", attributeID, name).
		First(&value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &value, nil
}

// SaveAttribute persists an attribute
func (r *GormAttributeRepository) SaveAttribute(ctx context.Context, attribute *catalog.Attribute) error {
	return r.db.WithContext(ctx).Save(attribute).Error
}

// SaveValue persists an attribute value
func (r *GormAttributeRepository) SaveValue(ctx context.Context, value *catalog.AttributeValue) error {
	return r.db.WithContext(ctx).Save(value).Error
}

// SaveLine persists a product attribute line, ignoring duplicates
func (r *GormAttributeRepository) SaveLine(ctx context.Context, line *catalog.ProductAttributeLine) error {
	var existing catalog.ProductAttributeLine
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND attribute_id = ? AND attribute_value_id = ?",
			line.ProductID, line.AttributeID, line.AttributeValueID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(line).Error
}

// FindLines returns all attribute lines of a product
func (r *GormAttributeRepository) FindLines(ctx context.Context, productID uuid.UUID) ([]catalog.ProductAttributeLine, error) {
	var lines []catalog.ProductAttributeLine
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&lines).Error
	return lines, err
}
