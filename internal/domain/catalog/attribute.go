package catalog

import (
	"strings"

	"github.com/consignment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Well-known attribute names used by the migration
const (
	AttributeBrand     = "Merk"
	AttributeSize      = "Maat"
	AttributeShoeSize  = "Schoenmaat"
	AttributeSeason    = "Seizoen"
	AttributeGender    = "Geslacht"
	AttributeType      = "Type"
	AttributeCondition = "Conditie"
)

// Attribute is a faceted-filter axis (brand, size, season, ...)
type Attribute struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(200);not null;uniqueIndex"`
}

// AttributeValue is one selectable value of an attribute
type AttributeValue struct {
	shared.BaseEntity
	AttributeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attr_value,priority:1"`
	Name        string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_attr_value,priority:2"`
}

// ProductAttributeLine links a product to exactly one attribute value.
// Multi-value legacy fields become one line per value, never one line
// with several values.
type ProductAttributeLine struct {
	shared.BaseEntity
	ProductID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_attr_line,priority:1"`
	AttributeID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_attr_line,priority:2"`
	AttributeValueID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_attr_line,priority:3"`
}

// TableName returns the table name for GORM
func (Attribute) TableName() string { return "product_attributes" }

// TableName returns the table name for GORM
func (AttributeValue) TableName() string { return "product_attribute_values" }

// TableName returns the table name for GORM
func (ProductAttributeLine) TableName() string { return "product_attribute_lines" }

// NewAttribute creates a new attribute axis
func NewAttribute(name string) (*Attribute, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Attribute name cannot be empty")
	}
	return &Attribute{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// NewAttributeValue creates a value under an attribute
func NewAttributeValue(attributeID uuid.UUID, name string) (*AttributeValue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Attribute value cannot be empty")
	}
	if attributeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ATTRIBUTE", "Attribute value requires an attribute")
	}
	return &AttributeValue{BaseEntity: shared.NewBaseEntity(), AttributeID: attributeID, Name: name}, nil
}

// SplitAttributeValues splits a raw multi-value legacy field into its
// individual values. Legacy exports join values with '/', '&', ' en ' or '|'.
func SplitAttributeValues(raw string) []string {
	cleaned := strings.NewReplacer("/", "|", "&", "|", " en ", "|").Replace(raw)
	parts := strings.Split(cleaned, "|")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	return values
}
