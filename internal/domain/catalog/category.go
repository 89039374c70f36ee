package catalog

import (
	"strings"

	"github.com/consignment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryKind distinguishes the public webshop tree from its backend mirror
type CategoryKind string

const (
	CategoryKindPublic  CategoryKind = "public"
	CategoryKindBackend CategoryKind = "backend"
)

// Category is one node of the hierarchical product category tree. The
// webshop tree and the backend tree are kept as separate mirrored
// hierarchies, matching how the commerce platform models them.
type Category struct {
	shared.BaseEntity
	Name     string       `gorm:"type:varchar(200);not null;uniqueIndex:idx_category_name_parent_kind,priority:1"`
	ParentID *uuid.UUID   `gorm:"type:uuid;index;uniqueIndex:idx_category_name_parent_kind,priority:2"`
	Kind     CategoryKind `gorm:"type:varchar(20);not null;default:'public';uniqueIndex:idx_category_name_parent_kind,priority:3"`
	// AttributeValueID links a leaf category to its "Type" facet value so
	// category navigation and attribute filtering stay consistent.
	AttributeValueID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a category node under an optional parent
func NewCategory(name string, parentID *uuid.UUID, kind CategoryKind) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if kind != CategoryKindPublic && kind != CategoryKindBackend {
		return nil, shared.NewDomainError("INVALID_KIND", "Category kind must be 'public' or 'backend'")
	}

	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		ParentID:   parentID,
		Kind:       kind,
	}, nil
}

// LinkAttributeValue ties a leaf category to its facet value
func (c *Category) LinkAttributeValue(valueID uuid.UUID) {
	c.AttributeValueID = &valueID
	c.Touch()
}

// IsRoot reports whether the node has no parent
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
