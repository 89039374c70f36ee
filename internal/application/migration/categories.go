package migration

import (
	"context"
	"errors"
	"strings"

	"github.com/consignment/backend/internal/domain/catalog"
	"github.com/consignment/backend/internal/domain/migration"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// categoryMapping maps each legacy category label to its "Parent /
// Child" webshop path and the matching Type attribute value
var categoryMapping = map[string]struct {
	Path      string
	TypeValue string
}{
	"Zalig zotte deals":   {"Kleding / Zalig zotte deals", "Zalig zotte deals"},
	"Feest!":              {"Kleding / Feest!", "Feest!"},
	"Tutjes":              {"Accessoires / Tutjes", "Tutjes"},
	"kousen":              {"Schoenen en Kousen / Kousen", "Kousen"},
	"Speelgoed":           {"Accessoires / Speelgoed", "Speelgoed"},
	"Setje":               {"Kleding / Setje", "Setje"},
	"Skiwear":             {"Kleding / Skiwear", "Skiwear"},
	"Accessoires":         {"Accessoires / Accessoires", "Accessoires"},
	"Body":                {"Kleding / Body", "Body"},
	"Schoenen":            {"Schoenen en Kousen / Schoenen", "Schoenen"},
	"Jumpsuit/Salopet":    {"Kleding / Jumpsuit/Salopet", "Jumpsuit/Salopet"},
	"Boxpak":              {"Kleding / Boxpak", "Boxpak"},
	"Hoedjes & Petjes":    {"Kleding / Hoedjes & Petjes", "Hoedjes & Petjes"},
	"Muts & Sjaal":        {"Kleding / Muts & Sjaal", "Muts & Sjaal"},
	"Swim & Beachwear":    {"Kleding / Swim & Beachwear", "Swim & Beachwear"},
	"Blousje":             {"Kleding / Blousje", "Blousje"},
	"Hemd":                {"Kleding / Hemd", "Hemd"},
	"Pyjama & Pantoffels": {"Kleding / Pyjama & Pantoffels", "Pyjama & Pantoffels"},
	"Jas":                 {"Kleding / Jas", "Jas"},
	"Rokje":               {"Kleding / Rokje", "Rokje"},
	"Kleedje":             {"Kleding / Kleedje", "Kleedje"},
	"Short":               {"Kleding / Short", "Short"},
	"Trui & Cardigan":     {"Kleding / Trui & Cardigan", "Trui & Cardigan"},
	"T - Shirt":           {"Kleding / T-Shirt", "T-Shirt"},
	"Broek":               {"Kleding / Broek", "Broek"},
}

// categoryRef caches the resolved category ids for one legacy label
type categoryRef struct {
	PublicID  uuid.UUID
	BackendID uuid.UUID
	IsShoe    bool
}

// resolveCategory finds or creates the category path for a legacy
// label and keeps the leaf linked to its Type attribute value. Unknown
// labels resolve to nothing, the product just stays uncategorized.
func (s *Service) resolveCategory(ctx context.Context, repos migration.Repos, legacyLabel string) (*categoryRef, error) {
	legacyLabel = strings.TrimSpace(legacyLabel)
	if legacyLabel == "" {
		return nil, nil
	}
	if ref, ok := s.categories[legacyLabel]; ok {
		return &ref, nil
	}

	mapping, ok := categoryMapping[legacyLabel]
	if !ok {
		return nil, nil
	}

	_, typeValue, err := s.ensureAttributeValue(ctx, repos, catalog.AttributeType, mapping.TypeValue)
	if err != nil {
		return nil, err
	}

	// Walk the public path, creating missing segments on demand
	var parentID *uuid.UUID
	var leaf *catalog.Category
	for _, part := range strings.Split(mapping.Path, "/") {
		name := strings.TrimSpace(part)
		leaf, err = s.ensureCategory(ctx, repos, name, parentID, catalog.CategoryKindPublic)
		if err != nil {
			return nil, err
		}
		id := leaf.ID
		parentID = &id
	}

	if leaf.AttributeValueID == nil || *leaf.AttributeValueID != typeValue.ID {
		leaf.LinkAttributeValue(typeValue.ID)
		if err := repos.Categories.Save(ctx, leaf); err != nil {
			return nil, err
		}
	}

	// The backend category mirrors the leaf name without hierarchy
	backend, err := s.ensureCategory(ctx, repos, leaf.Name, nil, catalog.CategoryKindBackend)
	if err != nil {
		return nil, err
	}

	ref := categoryRef{
		PublicID:  leaf.ID,
		BackendID: backend.ID,
		IsShoe:    strings.Contains(mapping.Path, "Schoenen"),
	}
	s.categories[legacyLabel] = ref
	return &ref, nil
}

func (s *Service) ensureCategory(ctx context.Context, repos migration.Repos, name string, parentID *uuid.UUID, kind catalog.CategoryKind) (*catalog.Category, error) {
	category, err := repos.Categories.FindByNameAndParent(ctx, name, parentID, kind)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	category, err = catalog.NewCategory(name, parentID, kind)
	if err != nil {
		return nil, err
	}
	if err := repos.Categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
