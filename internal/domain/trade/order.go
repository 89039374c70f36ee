package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/consignment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderState is the lifecycle state of a sales order
type OrderState string

const (
	OrderStateDraft     OrderState = "draft"
	OrderStateConfirmed OrderState = "confirmed"
	OrderStateDone      OrderState = "done"
)

// Order is a sales order. Orders synthesized from legacy data carry a
// deterministic reference so re-imports find them instead of creating
// duplicates.
type Order struct {
	shared.BaseEntity
	Reference  string      `gorm:"type:varchar(100);not null;uniqueIndex"`
	LegacyID   string      `gorm:"type:varchar(50);uniqueIndex:idx_order_legacy_id,where:legacy_id <> ''"`
	CustomerID uuid.UUID   `gorm:"type:uuid;not null;index"`
	OrderDate  time.Time   `gorm:"not null"`
	State      OrderState  `gorm:"type:varchar(20);not null;default:'draft'"`
	Note       string      `gorm:"type:text"`
	Lines      []OrderLine `gorm:"foreignKey:OrderID"`
}

// OrderLine is one product position on an order. The commission owed to
// the consignor is frozen at creation and never recomputed afterwards.
type OrderLine struct {
	shared.BaseEntity
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	LegacyLineID     string          `gorm:"type:varchar(50);uniqueIndex:idx_order_line_legacy_id,where:legacy_line_id <> ''"`
	Description      string          `gorm:"type:varchar(500)"`
	Quantity         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DeliveredQty     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	InvoicedQty      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	FrozenCommission decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Paid             bool            `gorm:"not null;default:false"`
	PayoutDate       *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string { return "sales_orders" }

// TableName returns the table name for GORM
func (OrderLine) TableName() string { return "sales_order_lines" }

// MigrationReference builds the deterministic reference of an order
// synthesized from a legacy product sale
func MigrationReference(legacyID string, orderDate time.Time) string {
	return fmt.Sprintf("MIGR_%s_%s", legacyID, orderDate.Format("2006-01-02"))
}

// NewOrder creates a draft order
func NewOrder(customerID uuid.UUID, reference string, orderDate time.Time) (*Order, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Order reference cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Order requires a customer")
	}
	if orderDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Order requires an order date")
	}
	return &Order{
		BaseEntity: shared.NewBaseEntity(),
		Reference:  reference,
		CustomerID: customerID,
		OrderDate:  orderDate,
		State:      OrderStateDraft,
	}, nil
}

// AddLine appends a line with frozen commission. Delivered and invoiced
// quantities match the ordered quantity because historical sales are
// imported as fully settled.
func (o *Order) AddLine(productID uuid.UUID, description string, qty, unitPrice, commission decimal.Decimal) (*OrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Order line requires a product")
	}
	if !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Order line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	line := OrderLine{
		BaseEntity:       shared.NewBaseEntity(),
		OrderID:          o.ID,
		ProductID:        productID,
		Description:      description,
		Quantity:         qty,
		UnitPrice:        unitPrice,
		DeliveredQty:     qty,
		InvoicedQty:      qty,
		FrozenCommission: commission,
	}
	o.Lines = append(o.Lines, line)
	o.Touch()
	return &o.Lines[len(o.Lines)-1], nil
}

// Confirm moves a draft order to confirmed
func (o *Order) Confirm() error {
	if o.State != OrderStateDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be confirmed")
	}
	o.State = OrderStateConfirmed
	o.Touch()
	return nil
}

// MarkDone closes the order
func (o *Order) MarkDone() error {
	if o.State != OrderStateConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Only confirmed orders can be closed")
	}
	o.State = OrderStateDone
	o.Touch()
	return nil
}

// MarkPaid records the consignor payout on a line. The payout date and
// the frozen commission are never changed once set.
func (l *OrderLine) MarkPaid(payoutDate time.Time) {
	if l.Paid {
		return
	}
	l.Paid = true
	l.PayoutDate = &payoutDate
	l.Touch()
}

// TotalAmount is the line total before commission
func (l *OrderLine) TotalAmount() decimal.Decimal {
	return l.UnitPrice.Mul(l.Quantity)
}
