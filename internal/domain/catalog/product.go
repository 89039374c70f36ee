package catalog

import (
	"strings"

	"github.com/consignment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnsoldReason records why a product left the shop without being sold
type UnsoldReason string

const (
	UnsoldReasonNone     UnsoldReason = ""
	UnsoldReasonCharity  UnsoldReason = "charity"
	UnsoldReasonReturned UnsoldReason = "returned"
	UnsoldReasonLost     UnsoldReason = "lost"
	UnsoldReasonBrand    UnsoldReason = "brand"
	UnsoldReasonUnknown  UnsoldReason = "unknown"
	UnsoldReasonOther    UnsoldReason = "other"
)

// FallbackProductName is assigned to order lines whose legacy product
// no longer exists
const FallbackProductName = "MIGRATIE ITEM"

// Product is a single consigned article. Every product belongs to a
// submission; articles from the shop's own stock hang off the shared
// migration stock submission.
type Product struct {
	shared.BaseEntity
	SubmissionID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	LegacyID          string          `gorm:"type:varchar(50);uniqueIndex:idx_product_legacy_id,where:legacy_id <> ''"`
	Code              string          `gorm:"type:varchar(100);uniqueIndex:idx_product_code,where:code <> ''"`
	Name              string          `gorm:"type:varchar(500);not null"`
	Description       string          `gorm:"type:text"`
	ListPrice         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockQty          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Published         bool            `gorm:"not null;default:false"`
	UnsoldReason      UnsoldReason    `gorm:"type:varchar(20);not null;default:''"`
	ConditionHearts   int             `gorm:"not null;default:0"`
	InternalNotes     string          `gorm:"type:text"`
	ImagePath         string          `gorm:"type:varchar(500)"`
	BrandID           *uuid.UUID      `gorm:"type:uuid;index"`
	PublicCategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	BackendCategoryID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string { return "products" }

// ProductImage is a gallery image next to the product's main image
type ProductImage struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(500);not null"`
	Path      string    `gorm:"type:varchar(500);not null"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string { return "product_images" }

// NewProductImage creates a gallery image for a product
func NewProductImage(productID uuid.UUID, name, path string) (*ProductImage, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Image requires a product")
	}
	if strings.TrimSpace(path) == "" {
		return nil, shared.NewDomainError("INVALID_PATH", "Image requires a path")
	}
	return &ProductImage{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Name:       name,
		Path:       path,
	}, nil
}

// NewProduct creates a product under a submission
func NewProduct(submissionID uuid.UUID, name string, listPrice decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if submissionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBMISSION", "Product requires a submission")
	}
	if listPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "List price cannot be negative")
	}
	return &Product{
		BaseEntity:   shared.NewBaseEntity(),
		SubmissionID: submissionID,
		Name:         name,
		ListPrice:    listPrice,
		StockQty:     decimal.Zero,
	}, nil
}

// SetStock replaces the on-hand quantity
func (p *Product) SetStock(qty decimal.Decimal) error {
	if qty.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}
	p.StockQty = qty
	p.Touch()
	return nil
}

// Publish makes the product visible in the webshop
func (p *Product) Publish() {
	p.Published = true
	p.UnsoldReason = UnsoldReasonNone
	p.Touch()
}

// Unpublish hides the product without recording a reason
func (p *Product) Unpublish() {
	p.Published = false
	p.Touch()
}

// MarkSold zeroes the stock and hides the product
func (p *Product) MarkSold() {
	p.StockQty = decimal.Zero
	p.Published = false
	p.Touch()
}

// Withdraw takes the product out of circulation for the given reason.
// Stock goes to zero and the product is unpublished.
func (p *Product) Withdraw(reason UnsoldReason) error {
	switch reason {
	case UnsoldReasonCharity, UnsoldReasonReturned, UnsoldReasonLost,
		UnsoldReasonBrand, UnsoldReasonUnknown, UnsoldReasonOther:
	default:
		return shared.NewDomainError("INVALID_REASON", "Unknown withdraw reason: "+string(reason))
	}
	p.StockQty = decimal.Zero
	p.Published = false
	p.UnsoldReason = reason
	p.Touch()
	return nil
}

// SetCondition stores the 0-5 hearts condition rating
func (p *Product) SetCondition(hearts int) error {
	if hearts < 0 || hearts > 5 {
		return shared.NewDomainError("INVALID_CONDITION", "Condition must be between 0 and 5 hearts")
	}
	p.ConditionHearts = hearts
	p.Touch()
	return nil
}

// SetImage records the local path of the main product image
func (p *Product) SetImage(path string) {
	p.ImagePath = path
	p.Touch()
}

// AppendInternalNote adds a line to the backend-only notes
func (p *Product) AppendInternalNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if p.InternalNotes != "" {
		p.InternalNotes += "\n"
	}
	p.InternalNotes += note
	p.Touch()
}

// LinkBrand attaches the brand facet
func (p *Product) LinkBrand(brandID uuid.UUID) {
	p.BrandID = &brandID
	p.Touch()
}

// LinkCategories attaches the public and backend category facets
func (p *Product) LinkCategories(publicID, backendID *uuid.UUID) {
	p.PublicCategoryID = publicID
	p.BackendCategoryID = backendID
	p.Touch()
}

// InStock reports whether any sellable quantity remains
func (p *Product) InStock() bool {
	return p.StockQty.IsPositive()
}
