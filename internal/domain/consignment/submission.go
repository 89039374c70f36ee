package consignment

import (
	"time"

	"github.com/consignment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmissionState mirrors the lifecycle of a consignment intake batch
type SubmissionState string

const (
	SubmissionStateDraft  SubmissionState = "draft"
	SubmissionStateOnline SubmissionState = "online"
	SubmissionStateClosed SubmissionState = "closed"
)

// UnsoldAction is what the consignor wants done with unsold items
type UnsoldAction string

const (
	UnsoldActionDonate UnsoldAction = "donate"
	UnsoldActionReturn UnsoldAction = "return"
)

// MigrationStockName is the name of the synthetic submission that parks
// the duplicated "still available" copies created during migration.
const MigrationStockName = "MIGRATION - Stock copies"

// Submission is a consignment intake batch (one bag of clothing handed in
// by one consignor). Payout terms are a contract: once an order line has
// frozen a commission against this submission, the percentage must no
// longer change.
type Submission struct {
	shared.BaseEntity
	LegacyID         string    `gorm:"type:varchar(50);uniqueIndex:idx_submission_legacy_id,where:legacy_id <> ''"`
	LegacyCode       string    `gorm:"type:varchar(50);index"`
	CustomerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(200);not null"`
	ReceivedDate     time.Time
	PublishedDate    time.Time
	State            SubmissionState `gorm:"type:varchar(20);not null;default:'draft'"`
	PayoutMethod     string          `gorm:"type:varchar(20);not null;default:'coupon'"`
	PayoutPercentage decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0.5"`
	TermsFrozen      bool            `gorm:"not null;default:false"`
	UnsoldAction     UnsoldAction    `gorm:"type:varchar(20);not null;default:'donate'"`
	Notes            string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Submission) TableName() string {
	return "consignment_submissions"
}

// NewSubmission creates a submission for a customer with the default
// coupon payout terms used during migration.
func NewSubmission(legacyID, legacyCode string, customerID uuid.UUID, received, published time.Time) (*Submission, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Submission requires a customer")
	}

	return &Submission{
		BaseEntity:       shared.NewBaseEntity(),
		LegacyID:         legacyID,
		LegacyCode:       legacyCode,
		CustomerID:       customerID,
		Name:             "Nieuw",
		ReceivedDate:     received,
		PublishedDate:    published,
		State:            SubmissionStateOnline,
		PayoutMethod:     "coupon",
		PayoutPercentage: decimal.NewFromFloat(0.5),
		UnsoldAction:     UnsoldActionDonate,
	}, nil
}

// NewMigrationStockSubmission creates the synthetic submission that holds
// duplicated stock copies. It pays out nothing; copies parked here were
// already settled with the consignor.
func NewMigrationStockSubmission(customerID uuid.UUID) *Submission {
	now := time.Now()
	return &Submission{
		BaseEntity:       shared.NewBaseEntity(),
		CustomerID:       customerID,
		Name:             MigrationStockName,
		ReceivedDate:     now,
		PublishedDate:    now,
		State:            SubmissionStateOnline,
		PayoutMethod:     "coupon",
		PayoutPercentage: decimal.NewFromFloat(0.5),
		UnsoldAction:     UnsoldActionDonate,
	}
}

// SetPayoutTerms updates the payout contract. Once frozen (a paid order
// line recorded a commission against these terms) the call is rejected.
func (s *Submission) SetPayoutTerms(method string, percentage decimal.Decimal) error {
	if s.TermsFrozen {
		return shared.NewDomainError("TERMS_FROZEN", "Payout terms are frozen once a commission was settled")
	}
	if method != "cash" && method != "coupon" {
		return shared.NewDomainError("INVALID_PAYOUT_METHOD", "Payout method must be 'cash' or 'coupon'")
	}
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_PERCENTAGE", "Payout percentage must be between 0 and 1")
	}
	s.PayoutMethod = method
	s.PayoutPercentage = percentage
	s.Touch()
	return nil
}

// FreezeTerms marks the payout contract as settled
func (s *Submission) FreezeTerms() {
	if !s.TermsFrozen {
		s.TermsFrozen = true
		s.Touch()
	}
}

// SetUnsoldAction records the consignor's wish for unsold items
func (s *Submission) SetUnsoldAction(action UnsoldAction) {
	s.UnsoldAction = action
	s.Touch()
}

// AppendNote appends a free-form note (submission notes from the legacy
// export survive migration as plain text).
func (s *Submission) AppendNote(note string) {
	if note == "" {
		return
	}
	if s.Notes != "" {
		s.Notes += "\n"
	}
	s.Notes += note
	s.Touch()
}

// IsMigrationStock reports whether this is the synthetic stock-copy parking submission
func (s *Submission) IsMigrationStock() bool {
	return s.Name == MigrationStockName
}
