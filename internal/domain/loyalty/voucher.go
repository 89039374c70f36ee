package loyalty

import (
	"strings"
	"time"

	"github.com/consignment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherKind distinguishes stored-value cards from discount codes
type VoucherKind string

const (
	KindGiftCard     VoucherKind = "gift_card"
	KindPromoFixed   VoucherKind = "promo_fixed"
	KindPromoPercent VoucherKind = "promo_percent"
)

// Voucher is a gift card or promotion code carried over from the legacy
// shop. Gift cards hold a remaining balance, promo codes hold either a
// fixed amount or a percentage.
type Voucher struct {
	shared.BaseEntity
	Code       string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Kind       VoucherKind     `gorm:"type:varchar(20);not null"`
	Balance    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index"`
	ExpiresAt  *time.Time
	Active     bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Voucher) TableName() string { return "vouchers" }

// NewGiftCard creates a gift card with a remaining balance
func NewGiftCard(code string, balance decimal.Decimal) (*Voucher, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Voucher code cannot be empty")
	}
	if balance.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Gift card balance cannot be negative")
	}
	return &Voucher{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Kind:       KindGiftCard,
		Balance:    balance,
		Active:     balance.IsPositive(),
	}, nil
}

// NewPromoFixed creates a fixed-amount discount code
func NewPromoFixed(code string, amount decimal.Decimal) (*Voucher, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Voucher code cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Discount amount must be positive")
	}
	return &Voucher{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Kind:       KindPromoFixed,
		Balance:    amount,
		Active:     true,
	}, nil
}

// NewPromoPercent creates a percentage discount code
func NewPromoPercent(code string, percentage decimal.Decimal) (*Voucher, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Voucher code cannot be empty")
	}
	if !percentage.IsPositive() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_PERCENTAGE", "Discount percentage must be between 0 and 100")
	}
	return &Voucher{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Kind:       KindPromoPercent,
		Percentage: percentage,
		Active:     true,
	}, nil
}

// AssignCustomer links the voucher to its holder
func (v *Voucher) AssignCustomer(customerID uuid.UUID) {
	v.CustomerID = &customerID
	v.Touch()
}

// SetExpiry records the expiry date and deactivates already-expired vouchers
func (v *Voucher) SetExpiry(expiresAt time.Time, now time.Time) {
	v.ExpiresAt = &expiresAt
	if expiresAt.Before(now) {
		v.Active = false
	}
	v.Touch()
}

// Deactivate retires the voucher
func (v *Voucher) Deactivate() {
	v.Active = false
	v.Touch()
}
