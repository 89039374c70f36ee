package migration

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/consignment/backend/internal/domain/catalog"
	"github.com/consignment/backend/internal/domain/migration"
	"github.com/consignment/backend/internal/domain/partner"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/consignment/backend/internal/domain/trade"
	"github.com/consignment/backend/internal/infrastructure/csvimport"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FallbackProductCode identifies the placeholder product that carries
// order lines whose legacy product no longer exists
const FallbackProductCode = "MIGRATIE_ITEM"

// GuestCustomerName is used when a legacy order names no buyer at all
const GuestCustomerName = "Onbekende Klant"

func (s *Service) importOrders(ctx context.Context, path string) error {
	return s.forEachRow(ctx, path, "orders", func(repos migration.Repos, row csvimport.Row) error {
		return s.processOrderRow(ctx, repos, row)
	})
}

// processOrderRow imports one legacy webshop order as a draft. The
// legacy bestel id is the idempotency key; lines follow in their own
// import step.
func (s *Service) processOrderRow(ctx context.Context, repos migration.Repos, row csvimport.Row) error {
	legacyID := strings.TrimSpace(row.Resolve("bestel_id"))
	if legacyID == "" {
		s.report.Skip("orders", "missing bestel id")
		return nil
	}

	_, err := repos.Orders.FindByLegacyID(ctx, legacyID)
	if err == nil {
		s.report.Skip("orders", "already exists")
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	orderDate := time.Now()
	if parsed := csvimport.ParseDate(row.Resolve("datum"), s.logger); parsed != nil {
		orderDate = *parsed
	}

	customerID, err := s.resolveOrderCustomer(ctx, repos, row)
	if err != nil {
		return err
	}

	order, err := trade.NewOrder(customerID, "LEGACY_"+legacyID, orderDate)
	if err != nil {
		return err
	}
	order.LegacyID = legacyID
	if number := strings.TrimSpace(row.Resolve("ordernummer")); number != "" {
		order.Note = "Import: " + number
	}
	if err := repos.Orders.Save(ctx, order); err != nil {
		return err
	}
	s.report.LegacyOrdersCreated++
	return nil
}

// resolveOrderCustomer finds the buyer by invoice email, then by name,
// and finally creates a guest customer from the invoice address
func (s *Service) resolveOrderCustomer(ctx context.Context, repos migration.Repos, row csvimport.Row) (uuid.UUID, error) {
	email := strings.ToLower(strings.TrimSpace(row.Resolve("factuur_email")))
	if email != "" {
		customer, err := repos.Customers.FindByEmail(ctx, email)
		if err == nil {
			return customer.ID, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, err
		}
	}

	name := strings.TrimSpace(row.Resolve("factuur_naam"))
	if name != "" {
		customer, err := repos.Customers.FindByName(ctx, name)
		if err == nil {
			return customer.ID, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, err
		}
	}
	if name == "" {
		name = GuestCustomerName
	}

	customer, err := partner.NewGuestCustomer(name, email)
	if err != nil {
		// Broken invoice emails still get a guest record
		customer, err = partner.NewGuestCustomer(name, "")
		if err != nil {
			return uuid.Nil, err
		}
	}
	customer.SetAddress(strings.TrimSpace(row.Resolve("factuur_straat")), "", "", strings.TrimSpace(row.Resolve("factuur_gemeente")))
	if err := repos.Customers.Save(ctx, customer); err != nil {
		return uuid.Nil, err
	}
	s.logger.Info("guest customer created", zap.String("name", name))
	return customer.ID, nil
}

// lineFinance is the payout state of one legacy product, prepared from
// the products CSV before the order lines run
type lineFinance struct {
	Paid       bool
	Commission decimal.Decimal
}

// importOrderLines attaches the legacy order lines to their orders. The
// products CSV is read up front because only it knows whether a line
// was already paid out and at what commission.
func (s *Service) importOrderLines(ctx context.Context, linesPath, productsPath string) error {
	finance, err := s.loadLineFinance(productsPath)
	if err != nil {
		return err
	}
	s.logger.Info("finance map ready", zap.Int("products", len(finance)))

	return s.forEachRow(ctx, linesPath, "order lines", func(repos migration.Repos, row csvimport.Row) error {
		return s.processOrderLineRow(ctx, repos, row, finance)
	})
}

func (s *Service) loadLineFinance(productsPath string) (map[string]lineFinance, error) {
	finance := make(map[string]lineFinance)
	if productsPath == "" {
		return finance, nil
	}
	reader, err := csvimport.NewReader(productsPath)
	if err != nil {
		return nil, err
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	oneHundred := decimal.NewFromInt(100)
	for _, row := range rows {
		pid := csvimport.CleanLegacyID(row.Resolve("product_id"))
		if pid == "" {
			continue
		}
		price := csvimport.ParseDecimal(row.Resolve("prijs"))
		percentage := csvimport.ParseDecimal(row.Resolve("commissie"))
		finance[pid] = lineFinance{
			Paid:       csvimport.ParseBool(row.Resolve("uitbetaald")),
			Commission: price.Mul(percentage.Div(oneHundred)),
		}
	}
	return finance, nil
}

func (s *Service) processOrderLineRow(ctx context.Context, repos migration.Repos, row csvimport.Row, finance map[string]lineFinance) error {
	legacyLineID := strings.TrimSpace(row.Resolve("order_product_id"))
	if legacyLineID == "" {
		s.report.Skip("order lines", "missing line id")
		return nil
	}

	_, err := repos.Orders.FindLineByLegacyID(ctx, legacyLineID)
	if err == nil {
		s.report.OrderLinesSkipped++
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	orderLegacyID := strings.TrimSpace(row.Resolve("order_id", "order_id_top"))
	order, err := repos.Orders.FindByLegacyID(ctx, orderLegacyID)
	if errors.Is(err, shared.ErrNotFound) {
		s.report.Skip("order lines", "unknown order")
		return nil
	}
	if err != nil {
		return err
	}

	product, err := s.resolveLineProduct(ctx, repos, csvimport.CleanLegacyID(row.Resolve("product_id")))
	if err != nil {
		return err
	}

	price := csvimport.ParseDecimal(strings.ReplaceAll(row.Resolve("prijs"), "€", ""))

	fin := finance[csvimport.CleanLegacyID(row.Resolve("product_id"))]
	commission := decimal.Zero
	if fin.Paid {
		commission = fin.Commission
	}

	line, err := order.AddLine(product.ID, product.Name, decimal.NewFromInt(1), price, commission)
	if err != nil {
		return err
	}
	line.LegacyLineID = legacyLineID
	line.Paid = fin.Paid
	if err := repos.Orders.SaveLine(ctx, line); err != nil {
		return err
	}
	s.report.OrderLinesCreated++
	return nil
}

// resolveLineProduct finds the line's product by legacy id, falling
// back to the shared placeholder for deleted legacy products
func (s *Service) resolveLineProduct(ctx context.Context, repos migration.Repos, legacyID string) (*catalog.Product, error) {
	if legacyID != "" {
		product, err := repos.Products.FindByLegacyID(ctx, legacyID)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	product, err := repos.Products.FindByCode(ctx, FallbackProductCode)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err = catalog.NewProduct(s.migrationSubmissionID, catalog.FallbackProductName, decimal.Zero)
	if err != nil {
		return nil, err
	}
	product.Code = FallbackProductCode
	if err := repos.Products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
