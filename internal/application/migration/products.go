package migration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/consignment/backend/internal/domain/catalog"
	"github.com/consignment/backend/internal/domain/consignment"
	"github.com/consignment/backend/internal/domain/migration"
	"github.com/consignment/backend/internal/domain/partner"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/consignment/backend/internal/infrastructure/csvimport"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// conditionHearts maps the legacy condition grade to a hearts rating.
// Grades below 3 were never exported.
var conditionHearts = map[string]int{"5": 5, "4": 4, "3": 3}

func (s *Service) importProducts(ctx context.Context, path string) error {
	return s.forEachRow(ctx, path, "products", func(repos migration.Repos, row csvimport.Row) error {
		return s.processProductRow(ctx, repos, row)
	})
}

// processProductRow upserts one legacy product and materializes its
// status outcome, either a historical order, a withdraw or a publish.
func (s *Service) processProductRow(ctx context.Context, repos migration.Repos, row csvimport.Row) error {
	name := strings.TrimSpace(row.Resolve("naam"))
	lowered := strings.ToLower(name)
	if strings.Contains(lowered, "kadobon") || strings.Contains(lowered, "cadeaubon") || strings.Contains(lowered, "giftcard") {
		s.report.Skip("products", "gift card row")
		return nil
	}

	legacyID := csvimport.CleanLegacyID(row.Resolve("product_id"))
	zakID := csvimport.CleanLegacyID(row.Resolve("zak_id"))
	if zakID == "" {
		s.report.Skip("products", "missing submission id")
		return nil
	}
	submission, err := s.resolveSubmission(ctx, repos, zakID)
	if errors.Is(err, shared.ErrNotFound) {
		s.report.Skip("products", "unknown submission")
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.applyCommission(ctx, repos, submission, row.Resolve("commissie")); err != nil {
		return err
	}

	category, err := s.resolveCategory(ctx, repos, row.Resolve("type"))
	if err != nil {
		return err
	}

	var brand *brandRef
	if merkID := csvimport.CleanLegacyID(row.Resolve("merk_id")); merkID != "" {
		if ref, ok := s.brands[merkID]; ok {
			brand = &ref
		}
	}

	product, created, err := s.upsertProduct(ctx, repos, submission, row, legacyID, name, category, brand)
	if err != nil {
		return err
	}
	if created {
		s.report.ProductsCreated++
	} else {
		s.report.ProductsUpdated++
	}

	signals := migration.RowSignals{
		Paid:               csvimport.ParseBool(row.Resolve("uitbetaald")),
		Sold:               csvimport.ParseBool(row.Resolve("verkocht")),
		Hidden:             csvimport.ParseBool(row.Resolve("product_niet_weergeven")),
		DefinitelyInactive: strings.Contains(strings.ToLower(row.Resolve("status_image")), "nietactief.png"),
		SaleDate:           csvimport.ParseDate(row.Resolve("datum_verkocht"), s.logger),
		PayoutDate:         csvimport.ParseDate(row.Resolve("datum_uitbetaald"), s.logger),
		StockQty:           csvimport.ParseDecimal(row.Resolve("stock")),
		LegacyCode:         submission.LegacyCode,
		ReasonText:         strings.TrimSpace(row.Resolve("waarom_niet_weergeven")),
	}
	outcome := migration.Classify(signals, s.rules)
	for _, note := range outcome.Notes {
		s.logger.Warn("status fallback",
			zap.String("product", legacyID), zap.String("note", note))
	}
	return s.applyOutcome(ctx, repos, product, submission, outcome)
}

// resolveSubmission returns the submission for a legacy zak id, loading
// through the run cache
func (s *Service) resolveSubmission(ctx context.Context, repos migration.Repos, zakID string) (*consignment.Submission, error) {
	if ref, ok := s.submissions[zakID]; ok {
		return repos.Submissions.FindByID(ctx, ref.ID)
	}
	submission, err := repos.Submissions.FindByLegacyID(ctx, zakID)
	if err != nil {
		return nil, err
	}
	s.submissions[zakID] = submissionRef{
		ID:         submission.ID,
		CustomerID: submission.CustomerID,
		LegacyCode: submission.LegacyCode,
	}
	return submission, nil
}

// applyCommission back-propagates the legacy commission column onto the
// submission terms and the consignor's payout preference. Only the two
// known grades exist; anything else is left alone.
func (s *Service) applyCommission(ctx context.Context, repos migration.Repos, submission *consignment.Submission, raw string) error {
	var method string
	var percentage decimal.Decimal
	switch int(csvimport.ParseDecimal(raw).IntPart()) {
	case 30:
		method, percentage = string(partner.PayoutMethodCash), decimal.NewFromFloat(0.30)
	case 50:
		method, percentage = string(partner.PayoutMethodCoupon), decimal.NewFromFloat(0.50)
	default:
		return nil
	}
	if submission.PayoutMethod == method {
		return nil
	}
	if err := submission.SetPayoutTerms(method, percentage); err != nil {
		// Frozen terms stay as they were paid out
		s.logger.Debug("payout terms unchanged",
			zap.String("submission", submission.LegacyID), zap.Error(err))
		return nil
	}
	if err := repos.Submissions.Save(ctx, submission); err != nil {
		return err
	}

	customer, err := repos.Customers.FindByID(ctx, submission.CustomerID)
	if err != nil {
		return err
	}
	if string(customer.PayoutMethod) != method {
		if err := customer.SetPayoutPreference(partner.PayoutMethod(method)); err != nil {
			return err
		}
		if err := repos.Customers.Save(ctx, customer); err != nil {
			return err
		}
	}
	return nil
}

// upsertProduct finds the product by legacy id, then code, patching it
// in place; otherwise it creates the product with price, images and
// attribute lines. Rows without a code get one generated from the
// submission name and its product count.
func (s *Service) upsertProduct(ctx context.Context, repos migration.Repos, submission *consignment.Submission, row csvimport.Row, legacyID, name string, category *categoryRef, brand *brandRef) (*catalog.Product, bool, error) {
	code := strings.TrimSpace(row.Resolve("code"))

	product, err := s.findProduct(ctx, repos, legacyID, code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	if product != nil {
		product.Name = name
		product.SubmissionID = submission.ID
		if product.LegacyID == "" {
			product.LegacyID = legacyID
		}
		if product.Code == "" {
			product.Code = code
		}
		product.Description = row.Resolve("lange_omschrijving")
		s.linkFacets(product, category, brand)
		if err := repos.Products.Save(ctx, product); err != nil {
			return nil, false, err
		}
		if brand != nil {
			if err := s.saveAttributeLine(ctx, repos, product.ID, brand.AttributeID, brand.ValueID); err != nil {
				return nil, false, err
			}
		}
		return product, false, nil
	}

	if code == "" {
		count, err := repos.Products.CountBySubmission(ctx, submission.ID)
		if err != nil {
			return nil, false, err
		}
		code = fmt.Sprintf("%s-%d", submission.Name, count+1)
	}

	product, err = catalog.NewProduct(submission.ID, name, csvimport.ParseDecimal(row.Resolve("prijs")))
	if err != nil {
		return nil, false, err
	}
	product.LegacyID = legacyID
	product.Code = code
	product.Description = row.Resolve("lange_omschrijving")
	s.linkFacets(product, category, brand)

	if imageURL := strings.TrimSpace(row.Resolve("foto")); imageURL != "" {
		if data := s.images.Fetch(imageURL, legacyID); data != nil {
			product.SetImage(s.images.CachePath(imageURL, legacyID))
		}
	}

	if err := repos.Products.Save(ctx, product); err != nil {
		return nil, false, err
	}
	if err := s.addExtraImages(ctx, repos, product, row.Resolve("extra_fotos"), legacyID); err != nil {
		return nil, false, err
	}
	if err := s.addProductAttributes(ctx, repos, product, row, category, brand); err != nil {
		return nil, false, err
	}
	return product, true, nil
}

// addExtraImages imports the comma-separated gallery URLs of a row
func (s *Service) addExtraImages(ctx context.Context, repos migration.Repos, product *catalog.Product, raw, legacyID string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return nil
	}
	for i, imageURL := range strings.Split(raw, ",") {
		imageURL = strings.TrimSpace(imageURL)
		if imageURL == "" {
			continue
		}
		if data := s.images.Fetch(imageURL, legacyID); data == nil {
			continue
		}
		path := s.images.CachePath(imageURL, legacyID)
		if path == "" {
			continue
		}
		image, err := catalog.NewProductImage(product.ID, fmt.Sprintf("%s - Extra %d", product.Name, i+1), path)
		if err != nil {
			return err
		}
		if err := repos.Products.SaveImage(ctx, image); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) findProduct(ctx context.Context, repos migration.Repos, legacyID, code string) (*catalog.Product, error) {
	if legacyID != "" {
		product, err := repos.Products.FindByLegacyID(ctx, legacyID)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	if code != "" {
		return repos.Products.FindByCode(ctx, code)
	}
	return nil, shared.ErrNotFound
}

func (s *Service) linkFacets(product *catalog.Product, category *categoryRef, brand *brandRef) {
	if category != nil {
		publicID, backendID := category.PublicID, category.BackendID
		product.LinkCategories(&publicID, &backendID)
	}
	if brand != nil {
		product.LinkBrand(brand.BrandID)
	}
}

// addProductAttributes creates the faceted-filter lines for a freshly
// created product. Shoes use the dedicated shoe size axis.
func (s *Service) addProductAttributes(ctx context.Context, repos migration.Repos, product *catalog.Product, row csvimport.Row, category *categoryRef, brand *brandRef) error {
	if size := strings.TrimSpace(row.Resolve("maat")); size != "" {
		axis := catalog.AttributeSize
		if category != nil && category.IsShoe {
			axis = catalog.AttributeShoeSize
		}
		if err := s.addAttribute(ctx, repos, product.ID, axis, size); err != nil {
			return err
		}
	}
	if season := strings.TrimSpace(row.Resolve("seizoen")); season != "" {
		if err := s.addAttribute(ctx, repos, product.ID, catalog.AttributeSeason, season); err != nil {
			return err
		}
	}
	if gender := strings.TrimSpace(row.Resolve("categorie")); gender != "" {
		if err := s.addAttribute(ctx, repos, product.ID, catalog.AttributeGender, gender); err != nil {
			return err
		}
	}
	if hearts, ok := conditionHearts[strings.TrimSpace(row.Resolve("staat"))]; ok {
		if err := product.SetCondition(hearts); err != nil {
			return err
		}
		if err := repos.Products.Save(ctx, product); err != nil {
			return err
		}
		label := strings.Repeat("❤️", hearts) + strings.Repeat("🤍", 5-hearts)
		if err := s.addAttribute(ctx, repos, product.ID, catalog.AttributeCondition, label); err != nil {
			return err
		}
	}
	if brand != nil {
		if err := s.saveAttributeLine(ctx, repos, product.ID, brand.AttributeID, brand.ValueID); err != nil {
			return err
		}
	}
	return nil
}

// addAttribute splits a raw legacy value and links each part as its own
// attribute line
func (s *Service) addAttribute(ctx context.Context, repos migration.Repos, productID uuid.UUID, attrName, raw string) error {
	for _, valueName := range catalog.SplitAttributeValues(raw) {
		attr, value, err := s.ensureAttributeValue(ctx, repos, attrName, valueName)
		if err != nil {
			return err
		}
		if err := s.saveAttributeLine(ctx, repos, productID, attr.ID, value.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) saveAttributeLine(ctx context.Context, repos migration.Repos, productID, attributeID, valueID uuid.UUID) error {
	return repos.Attributes.SaveLine(ctx, &catalog.ProductAttributeLine{
		BaseEntity:       shared.NewBaseEntity(),
		ProductID:        productID,
		AttributeID:      attributeID,
		AttributeValueID: valueID,
	})
}
