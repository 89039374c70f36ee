package consignment

import (
	"context"

	"github.com/google/uuid"
)

// SubmissionRepository defines the interface for submission persistence
type SubmissionRepository interface {
	// FindByID finds a submission by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Submission, error)

	// FindByLegacyID finds a submission by its legacy shop id
	FindByLegacyID(ctx context.Context, legacyID string) (*Submission, error)

	// FindByName finds a submission by its exact name
	FindByName(ctx context.Context, name string) (*Submission, error)

	// Save creates or updates a submission
	Save(ctx context.Context, submission *Submission) error

	// Count counts all submissions
	Count(ctx context.Context) (int64, error)
}
