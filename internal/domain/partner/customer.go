package partner

import (
	"regexp"
	"strings"

	"github.com/consignment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutMethod is how a consignor prefers to be paid out
type PayoutMethod string

const (
	PayoutMethodCash   PayoutMethod = "cash"
	PayoutMethodCoupon PayoutMethod = "coupon"
)

// Customer represents a consignor or webshop customer carried over from the
// legacy shop. It is the aggregate root for customer-related operations;
// bank accounts live inside the aggregate.
type Customer struct {
	shared.BaseEntity
	LegacyID        string          `gorm:"type:varchar(50);uniqueIndex:idx_customer_legacy_id,where:legacy_id <> ''"`
	Email           string          `gorm:"type:varchar(200);uniqueIndex:idx_customer_email,where:email <> ''"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Street          string          `gorm:"type:varchar(200)"`
	Street2         string          `gorm:"type:varchar(100)"`
	Zip             string          `gorm:"type:varchar(20)"`
	City            string          `gorm:"type:varchar(100)"`
	PayoutMethod    PayoutMethod    `gorm:"type:varchar(20)"`
	CashPayoutPct   decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"`
	CouponPayoutPct decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"`
	Notes           string          `gorm:"type:text"`
	BankAccounts    []BankAccount   `gorm:"foreignKey:CustomerID"`
}

// BankAccount is an IBAN attached to a customer. The same IBAN is never
// stored twice for one customer.
type BankAccount struct {
	shared.BaseEntity
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_bank_customer_iban,priority:1"`
	IBAN       string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_bank_customer_iban,priority:2"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// TableName returns the table name for GORM
func (BankAccount) TableName() string {
	return "customer_bank_accounts"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(legacyID, email, name string) (*Customer, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if name == "" {
		name = email
	}

	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		LegacyID:   legacyID,
		Email:      email,
		Name:       name,
	}, nil
}

// NewGuestCustomer creates a customer from historical order data, where an
// email address is not always present.
func NewGuestCustomer(name, email string) (*Customer, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}

	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		Name:       name,
	}, nil
}

// SetAddress sets the customer's address fields
func (c *Customer) SetAddress(street, street2, zip, city string) {
	c.Street = street
	c.Street2 = street2
	c.Zip = zip
	c.City = city
	c.Touch()
}

// PatchMissing fills in fields that are still blank from a later data
// source. Populated fields are never overwritten; a blank input never
// clears anything.
func (c *Customer) PatchMissing(legacyID, name, street, street2, zip, city string) {
	if c.LegacyID == "" && legacyID != "" {
		c.LegacyID = legacyID
	}
	if c.Name == "" && name != "" {
		c.Name = name
	}
	if c.Street == "" && street != "" {
		c.Street = street
	}
	if c.Street2 == "" && street2 != "" {
		c.Street2 = street2
	}
	if c.Zip == "" && zip != "" {
		c.Zip = zip
	}
	if c.City == "" && city != "" {
		c.City = city
	}
	c.Touch()
}

// SetPayoutPreference records the payout method the consignor chose in the
// legacy system, together with the matching percentage.
func (c *Customer) SetPayoutPreference(method PayoutMethod) error {
	switch method {
	case PayoutMethodCash:
		c.CashPayoutPct = decimal.NewFromFloat(0.30)
		c.CouponPayoutPct = decimal.Zero
	case PayoutMethodCoupon:
		c.CashPayoutPct = decimal.Zero
		c.CouponPayoutPct = decimal.NewFromFloat(0.50)
	default:
		return shared.NewDomainError("INVALID_PAYOUT_METHOD", "Payout method must be 'cash' or 'coupon'")
	}
	c.PayoutMethod = method
	c.Touch()
	return nil
}

// AddBankAccount attaches an IBAN to the customer unless an identical one
// is already present. Returns true when a new account was added.
func (c *Customer) AddBankAccount(iban string) bool {
	clean := NormalizeIBAN(iban)
	if clean == "" {
		return false
	}
	for _, acc := range c.BankAccounts {
		if acc.IBAN == clean {
			return false
		}
	}
	c.BankAccounts = append(c.BankAccounts, BankAccount{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: c.ID,
		IBAN:       clean,
	})
	c.Touch()
	return true
}

// NormalizeIBAN strips spaces and uppercases an IBAN string
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(iban), " ", ""))
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
