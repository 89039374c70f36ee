package catalog

import (
	"context"

	"github.com/google/uuid"
)

// AttributeRepository persists attributes and their values
type AttributeRepository interface {
	FindAttributeByName(ctx context.Context, name string) (*Attribute, error)
	FindValue(ctx context.Context, attributeID uuid.UUID, name string) (*AttributeValue, error)
	SaveAttribute(ctx context.Context, attribute *Attribute) error
	SaveValue(ctx context.Context, value *AttributeValue) error
	SaveLine(ctx context.Context, line *ProductAttributeLine) error
	FindLines(ctx context.Context, productID uuid.UUID) ([]ProductAttributeLine, error)
}
