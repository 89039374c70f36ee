package migration

import (
	"context"

	"github.com/consignment/backend/internal/domain/catalog"
	"github.com/consignment/backend/internal/domain/consignment"
	"github.com/consignment/backend/internal/domain/loyalty"
	"github.com/consignment/backend/internal/domain/partner"
	"github.com/consignment/backend/internal/domain/trade"
)

// Repos bundles the repositories one import batch writes through. All
// writes inside a batch share the same transaction, so a crash loses at
// most one partial batch.
type Repos struct {
	Customers   partner.CustomerRepository
	Submissions consignment.SubmissionRepository
	Brands      catalog.BrandRepository
	Categories  catalog.CategoryRepository
	Attributes  catalog.AttributeRepository
	Products    catalog.ProductRepository
	Orders      trade.OrderRepository
	Vouchers    loyalty.VoucherRepository
}

// UnitOfWork runs a function against a transactional set of repositories
type UnitOfWork interface {
	WithinBatch(ctx context.Context, fn func(Repos) error) error
}
