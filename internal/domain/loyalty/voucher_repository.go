package loyalty

import (
	"context"

	"github.com/google/uuid"
)

// VoucherRepository persists gift cards and promo codes
type VoucherRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Voucher, error)
	FindByCode(ctx context.Context, code string) (*Voucher, error)
	Save(ctx context.Context, voucher *Voucher) error
	Count(ctx context.Context) (int64, error)
}
