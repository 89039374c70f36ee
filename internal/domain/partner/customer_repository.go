package partner

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByLegacyID finds a customer by its legacy shop id
	FindByLegacyID(ctx context.Context, legacyID string) (*Customer, error)

	// FindByEmail finds a customer by email (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// FindByName finds a customer by exact name (case-insensitive)
	FindByName(ctx context.Context, name string) (*Customer, error)

	// Save creates or updates a customer including its bank accounts
	Save(ctx context.Context, customer *Customer) error

	// Count counts all customers
	Count(ctx context.Context) (int64, error)
}
