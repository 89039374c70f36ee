package migration

import (
	"context"
	"errors"
	"io"

	"github.com/consignment/backend/internal/domain/consignment"
	"github.com/consignment/backend/internal/domain/migration"
	"github.com/consignment/backend/internal/domain/partner"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/consignment/backend/internal/infrastructure/csvimport"
	"github.com/consignment/backend/internal/infrastructure/images"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MigrationCustomerName is the synthetic payer used on orders created
// from legacy product rows
const MigrationCustomerName = "Fictieve Migratie Klant"

// MigrationCustomerEmail is the synthetic payer's email address
const MigrationCustomerEmail = "migratie@ottersenflamingos.be"

// Files names the CSV exports of one migration run. Empty paths are
// skipped.
type Files struct {
	Customers   string
	Submissions string
	Brands      string
	Products    string
	GiftCards   string
	PromoCodes  string
	Orders      string
	OrderLines  string
}

// brandRef caches what a product row needs from an imported brand
type brandRef struct {
	BrandID     uuid.UUID
	AttributeID uuid.UUID
	ValueID     uuid.UUID
}

// submissionRef caches what a product row needs from its submission
type submissionRef struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	LegacyCode string
}

// Service drives the legacy shop migration. It is single-threaded; the
// caches live for one run and are never invalidated mid-run.
type Service struct {
	uow            migration.UnitOfWork
	images         *images.Fetcher
	rules          migration.Rules
	checkpointRows int
	logger         *zap.Logger

	customers   map[string]uuid.UUID
	submissions map[string]submissionRef
	brands      map[string]brandRef
	categories  map[string]categoryRef

	migrationCustomerID   uuid.UUID
	migrationSubmissionID uuid.UUID

	report *Report
}

// NewService creates a migration service
func NewService(uow migration.UnitOfWork, fetcher *images.Fetcher, rules migration.Rules, checkpointRows int, logger *zap.Logger) *Service {
	if checkpointRows <= 0 {
		checkpointRows = 100
	}
	return &Service{
		uow:            uow,
		images:         fetcher,
		rules:          rules,
		checkpointRows: checkpointRows,
		logger:         logger.Named("migration"),
		customers:      make(map[string]uuid.UUID),
		submissions:    make(map[string]submissionRef),
		brands:         make(map[string]brandRef),
		categories:     make(map[string]categoryRef),
		report:         NewReport(),
	}
}

// Run executes the full migration in the fixed file order. Re-running
// on the same input is a no-op for everything already materialized.
func (s *Service) Run(ctx context.Context, files Files) (*Report, error) {
	s.logger.Info("migration started")

	if err := s.ensureMigrationRecords(ctx); err != nil {
		return s.report, err
	}

	steps := []struct {
		name string
		path string
		fn   func(context.Context, string) error
	}{
		{"customers", files.Customers, s.importCustomers},
		{"submissions", files.Submissions, s.importSubmissions},
		{"brands", files.Brands, s.importBrands},
		{"products", files.Products, s.importProducts},
		{"gift cards", files.GiftCards, s.importGiftCards},
		{"promo codes", files.PromoCodes, s.importPromoCodes},
		{"orders", files.Orders, s.importOrders},
	}
	for _, step := range steps {
		if step.path == "" {
			continue
		}
		s.logger.Info("import step started", zap.String("step", step.name))
		if err := step.fn(ctx, step.path); err != nil {
			return s.report, err
		}
	}

	// Order lines need the finance data from the products CSV
	if files.OrderLines != "" {
		s.logger.Info("import step started", zap.String("step", "order lines"))
		if err := s.importOrderLines(ctx, files.OrderLines, files.Products); err != nil {
			return s.report, err
		}
	}

	s.report.Log(s.logger)
	s.logger.Info("migration finished")
	return s.report, nil
}

// ensureMigrationRecords creates the synthetic payer customer and the
// shared migration stock submission used by paid rows and duplicates
func (s *Service) ensureMigrationRecords(ctx context.Context) error {
	return s.uow.WithinBatch(ctx, func(repos migration.Repos) error {
		customer, err := repos.Customers.FindByName(ctx, MigrationCustomerName)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			customer, err = partner.NewCustomer("", MigrationCustomerEmail, MigrationCustomerName)
			if err != nil {
				return err
			}
			if err := repos.Customers.Save(ctx, customer); err != nil {
				return err
			}
		}
		s.migrationCustomerID = customer.ID

		sub, err := repos.Submissions.FindByName(ctx, consignment.MigrationStockName)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			sub = consignment.NewMigrationStockSubmission(customer.ID)
			if err := repos.Submissions.Save(ctx, sub); err != nil {
				return err
			}
		}
		s.migrationSubmissionID = sub.ID
		return nil
	})
}

// forEachRow streams a CSV file in checkpoint-sized batches. Each batch
// is one transaction; a row error is logged and counted, never fatal.
func (s *Service) forEachRow(ctx context.Context, path, skipCategory string, fn func(migration.Repos, csvimport.Row) error) error {
	reader, err := csvimport.NewReader(path)
	if err != nil {
		return err
	}

	done := false
	total := 0
	for !done {
		batchErr := s.uow.WithinBatch(ctx, func(repos migration.Repos) error {
			for i := 0; i < s.checkpointRows; i++ {
				row, err := reader.Read()
				if err == io.EOF {
					done = true
					return nil
				}
				if err != nil {
					s.logger.Warn("unreadable csv row skipped", zap.String("file", path), zap.Error(err))
					s.report.Skip(skipCategory, "unreadable row")
					continue
				}
				total++
				if err := fn(repos, row); err != nil {
					s.logger.Warn("row skipped",
						zap.String("file", path), zap.Int("row", total), zap.Error(err))
					s.report.Skip(skipCategory, err.Error())
				}
			}
			return nil
		})
		if batchErr != nil {
			return batchErr
		}
		if total > 0 && total%1000 == 0 {
			s.logger.Info("progress", zap.String("file", path), zap.Int("rows", total))
		}
	}
	return nil
}
