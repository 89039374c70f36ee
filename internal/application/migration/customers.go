package migration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/consignment/backend/internal/domain/migration"
	"github.com/consignment/backend/internal/domain/partner"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/consignment/backend/internal/infrastructure/csvimport"
)

// importCustomers loads the consignor export. Customers are matched by
// email or legacy id before insert; existing records are only patched
// where fields are still blank.
func (s *Service) importCustomers(ctx context.Context, path string) error {
	return s.forEachRow(ctx, path, "customers", func(repos migration.Repos, row csvimport.Row) error {
		return s.processCustomerRow(ctx, repos, row)
	})
}

func (s *Service) processCustomerRow(ctx context.Context, repos migration.Repos, row csvimport.Row) error {
	legacyID := csvimport.CleanLegacyID(row.Resolve("klant_id"))
	email := strings.ToLower(row.Resolve("username", "email"))
	if legacyID == "" || email == "" {
		return errors.New("missing legacy id or email")
	}

	street := strings.TrimSpace(row.Resolve("straat") + " " + row.Resolve("huisnr"))
	street2 := ""
	if bus := row.Resolve("bus"); bus != "" && !strings.EqualFold(bus, "nan") {
		street2 = "Bus " + bus
	}
	name := strings.TrimSpace(row.Resolve("voornaam") + " " + row.Resolve("achternaam"))
	if name == "" {
		name = email
	}

	customer, err := repos.Customers.FindByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		customer, err = repos.Customers.FindByLegacyID(ctx, legacyID)
	}

	switch {
	case err == nil:
		customer.PatchMissing(legacyID, name, street, street2, row.Resolve("postcode"), row.Resolve("gemeente"))
		s.report.CustomersUpdated++
	case errors.Is(err, shared.ErrNotFound):
		customer, err = partner.NewCustomer(legacyID, email, name)
		if err != nil {
			return fmt.Errorf("invalid customer: %w", err)
		}
		customer.SetAddress(street, street2, row.Resolve("postcode"), row.Resolve("gemeente"))
		s.report.CustomersCreated++
	default:
		return err
	}

	iban := row.Resolve("rekeningnummer")
	if iban == "" || strings.EqualFold(iban, "nan") {
		iban = row.Resolve("rekeningnummer2")
	}
	if iban != "" && !strings.EqualFold(iban, "nan") {
		customer.AddBankAccount(iban)
	}

	if err := repos.Customers.Save(ctx, customer); err != nil {
		return err
	}
	s.customers[legacyID] = customer.ID
	return nil
}
