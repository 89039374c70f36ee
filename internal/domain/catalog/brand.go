package catalog

import (
	"strings"

	"github.com/consignment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Brand is a clothing brand carried over from the legacy shop. Each brand
// maps 1:1 to a value of the "Merk" attribute so that the brand page and
// the faceted filter stay in sync.
type Brand struct {
	shared.BaseEntity
	Name             string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description      string     `gorm:"type:text"`
	Published        bool       `gorm:"not null;default:false"`
	LogoPath         string     `gorm:"type:varchar(500)"`
	MetaTitle        string     `gorm:"type:varchar(200)"`
	MetaDescription  string     `gorm:"type:text"`
	MetaKeywords     string     `gorm:"type:text"`
	AttributeValueID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a published brand
func NewBrand(name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}

	return &Brand{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Published:  true,
	}, nil
}

// UpdateContent updates the description and SEO fields
func (b *Brand) UpdateContent(description, metaTitle, metaDescription, metaKeywords string) {
	b.Description = description
	b.MetaTitle = metaTitle
	b.MetaDescription = metaDescription
	b.MetaKeywords = metaKeywords
	b.Published = true
	b.Touch()
}

// SetLogo records the cached logo file path
func (b *Brand) SetLogo(path string) {
	b.LogoPath = path
	b.Touch()
}

// HasLogo reports whether a logo is already attached
func (b *Brand) HasLogo() bool {
	return b.LogoPath != ""
}

// LinkAttributeValue ties the brand to its "Merk" facet value
func (b *Brand) LinkAttributeValue(valueID uuid.UUID) {
	b.AttributeValueID = &valueID
	b.Touch()
}
