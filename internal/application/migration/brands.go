package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/consignment/backend/internal/domain/catalog"
	"github.com/consignment/backend/internal/domain/migration"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/consignment/backend/internal/infrastructure/csvimport"
)

// importBrands loads the brand export and keeps the Merk attribute in
// sync, so products can carry the brand both as a relation and as a
// filterable facet.
func (s *Service) importBrands(ctx context.Context, path string) error {
	return s.forEachRow(ctx, path, "brands", func(repos migration.Repos, row csvimport.Row) error {
		return s.processBrandRow(ctx, repos, row)
	})
}

func (s *Service) processBrandRow(ctx context.Context, repos migration.Repos, row csvimport.Row) error {
	legacyID := csvimport.CleanLegacyID(row.Resolve("merk_id"))
	name := row.Resolve("naam")
	if legacyID == "" || name == "" {
		return errors.New("missing brand id or name")
	}

	brand, err := repos.Brands.FindByName(ctx, name)
	created := false
	if errors.Is(err, shared.ErrNotFound) {
		brand, err = catalog.NewBrand(name)
		if err != nil {
			return fmt.Errorf("invalid brand: %w", err)
		}
		created = true
	} else if err != nil {
		return err
	}

	brand.UpdateContent(
		row.Resolve("omschrijving_nl"),
		row.Resolve("seo_titel"),
		row.Resolve("seo_description"),
		row.Resolve("seo_keywords"),
	)

	// Logo downloads are skipped when the brand already carries one
	if !brand.HasLogo() {
		if logoURL := row.Resolve("foto"); logoURL != "" {
			if data := s.images.Fetch(logoURL, "MERK_"+legacyID); data != nil {
				brand.SetLogo(s.images.CachePath(logoURL, "MERK_"+legacyID))
			}
		}
	}

	attr, value, err := s.ensureAttributeValue(ctx, repos, catalog.AttributeBrand, name)
	if err != nil {
		return err
	}
	brand.LinkAttributeValue(value.ID)

	if err := repos.Brands.Save(ctx, brand); err != nil {
		return err
	}
	if created {
		s.report.BrandsCreated++
	} else {
		s.report.BrandsUpdated++
	}

	s.brands[legacyID] = brandRef{BrandID: brand.ID, AttributeID: attr.ID, ValueID: value.ID}
	return nil
}

// ensureAttributeValue finds or creates an attribute axis and one of
// its values
func (s *Service) ensureAttributeValue(ctx context.Context, repos migration.Repos, attrName, valueName string) (*catalog.Attribute, *catalog.AttributeValue, error) {
	attr, err := repos.Attributes.FindAttributeByName(ctx, attrName)
	if errors.Is(err, shared.ErrNotFound) {
		attr, err = catalog.NewAttribute(attrName)
		if err != nil {
			return nil, nil, err
		}
		if err := repos.Attributes.SaveAttribute(ctx, attr); err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}

	value, err := repos.Attributes.FindValue(ctx, attr.ID, valueName)
	if errors.Is(err, shared.ErrNotFound) {
		value, err = catalog.NewAttributeValue(attr.ID, valueName)
		if err != nil {
			return nil, nil, err
		}
		if err := repos.Attributes.SaveValue(ctx, value); err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}

	return attr, value, nil
}
