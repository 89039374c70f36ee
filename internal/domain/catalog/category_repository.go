package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository persists categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByNameAndParent(ctx context.Context, name string, parentID *uuid.UUID, kind CategoryKind) (*Category, error)
	Save(ctx context.Context, category *Category) error
}
