package trade

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository persists sales orders and their lines
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByReference(ctx context.Context, reference string) (*Order, error)
	FindByLegacyID(ctx context.Context, legacyID string) (*Order, error)
	FindLineByLegacyID(ctx context.Context, legacyLineID string) (*OrderLine, error)
	Save(ctx context.Context, order *Order) error
	SaveLine(ctx context.Context, line *OrderLine) error
	Count(ctx context.Context) (int64, error)
}
