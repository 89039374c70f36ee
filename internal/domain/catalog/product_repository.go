package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository persists products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByLegacyID(ctx context.Context, legacyID string) (*Product, error)
	FindByCode(ctx context.Context, code string) (*Product, error)
	CountBySubmission(ctx context.Context, submissionID uuid.UUID) (int64, error)
	Save(ctx context.Context, product *Product) error
	SaveImage(ctx context.Context, image *ProductImage) error
	FindImages(ctx context.Context, productID uuid.UUID) ([]ProductImage, error)
	Count(ctx context.Context) (int64, error)
}
