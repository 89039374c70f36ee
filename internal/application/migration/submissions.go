package migration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/consignment/backend/internal/domain/consignment"
	"github.com/consignment/backend/internal/domain/migration"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/consignment/backend/internal/infrastructure/csvimport"
	"go.uber.org/zap"
)

// importSubmissions loads the consignment bag export. The received and
// published dates follow a fixed fallback order when the legacy export
// is incomplete.
func (s *Service) importSubmissions(ctx context.Context, path string) error {
	return s.forEachRow(ctx, path, "submissions", func(repos migration.Repos, row csvimport.Row) error {
		return s.processSubmissionRow(ctx, repos, row)
	})
}

func (s *Service) processSubmissionRow(ctx context.Context, repos migration.Repos, row csvimport.Row) error {
	legacyID := csvimport.CleanLegacyID(row.Resolve("zak_id"))
	customerLegacyID := csvimport.CleanLegacyID(row.Resolve("KlantId", "klant_id"))
	if legacyID == "" || customerLegacyID == "" {
		return errors.New("missing bag id or customer id")
	}

	customerID, ok := s.customers[customerLegacyID]
	if !ok {
		customer, err := repos.Customers.FindByLegacyID(ctx, customerLegacyID)
		if err != nil {
			return fmt.Errorf("unknown customer %s", customerLegacyID)
		}
		customerID = customer.ID
		s.customers[customerLegacyID] = customerID
	}

	legacyCode := row.Resolve("code")

	sub, err := repos.Submissions.FindByLegacyID(ctx, legacyID)
	if err == nil {
		s.submissions[legacyID] = submissionRef{ID: sub.ID, CustomerID: sub.CustomerID, LegacyCode: sub.LegacyCode}
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	received, published := s.resolveSubmissionDates(row, legacyID, legacyCode)

	sub, err = consignment.NewSubmission(legacyID, legacyCode, customerID, received, published)
	if err != nil {
		return fmt.Errorf("invalid submission: %w", err)
	}

	if strings.Contains(strings.ToLower(row.Resolve("schenking")), "terug") {
		sub.SetUnsoldAction(consignment.UnsoldActionReturn)
	} else {
		sub.SetUnsoldAction(consignment.UnsoldActionDonate)
	}

	if notes := row.Resolve("notities"); notes != "" && !strings.EqualFold(notes, "nan") {
		sub.AppendNote(notes)
	}
	if legacyCode != "" {
		sub.AppendNote("Oude code: " + legacyCode)
	}

	if err := repos.Submissions.Save(ctx, sub); err != nil {
		return err
	}
	s.report.SubmissionsCreated++
	s.submissions[legacyID] = submissionRef{ID: sub.ID, CustomerID: customerID, LegacyCode: legacyCode}
	return nil
}

// resolveSubmissionDates applies the fallback order: both dates known,
// one known for both, or July 1st of the year encoded in the legacy code.
func (s *Service) resolveSubmissionDates(row csvimport.Row, legacyID, legacyCode string) (received, published time.Time) {
	sent := csvimport.ParseDate(row.Resolve("datum_verzonden"), s.logger)
	arrived := csvimport.ParseDate(row.Resolve("datum_ontvangen"), s.logger)

	switch {
	case sent != nil && arrived != nil:
		return *sent, *arrived
	case sent != nil:
		return *sent, *sent
	case arrived != nil:
		return *arrived, *arrived
	}

	year := time.Now().Year()
	if len(legacyCode) >= 4 {
		if y, err := strconv.Atoi(legacyCode[:4]); err == nil {
			year = y
		}
	}
	fallback := time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC)
	s.logger.Info("no submission dates found, fallback used",
		zap.String("bag", legacyID),
		zap.String("code", legacyCode),
		zap.Time("fallback", fallback))
	return fallback, fallback
}
