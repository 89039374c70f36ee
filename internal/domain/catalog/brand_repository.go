package catalog

import (
	"context"

	"github.com/google/uuid"
)

// BrandRepository persists brands
type BrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	FindByName(ctx context.Context, name string) (*Brand, error)
	Save(ctx context.Context, brand *Brand) error
	Count(ctx context.Context) (int64, error)
}
