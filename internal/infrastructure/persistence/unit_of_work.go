package persistence

import (
	"context"

	"github.com/consignment/backend/internal/domain/migration"
	"gorm.io/gorm"
)

// NewRepos builds the repository bundle over a database handle. The
// handle can be a live connection or an open transaction.
func NewRepos(db *gorm.DB) migration.Repos {
	return migration.Repos{
		Customers:   NewGormCustomerRepository(db),
		Submissions: NewGormSubmissionRepository(db),
		Brands:      NewGormBrandRepository(db),
		Categories:  NewGormCategoryRepository(db),
		Attributes:  NewGormAttributeRepository(db),
		Products:    NewGormProductRepository(db),
		Orders:      NewGormOrderRepository(db),
		Vouchers:    NewGormVoucherRepository(db),
	}
}

// GormUnitOfWork implements migration.UnitOfWork over GORM transactions
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// WithinBatch runs fn inside one transaction, committing at the end
func (u *GormUnitOfWork) WithinBatch(ctx context.Context, fn func(migration.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}
