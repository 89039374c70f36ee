package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/consignment/backend/internal/domain/catalog"
	"github.com/consignment/backend/internal/domain/consignment"
	"github.com/consignment/backend/internal/domain/migration"
	"github.com/consignment/backend/internal/domain/partner"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/consignment/backend/internal/domain/trade"
	"github.com/consignment/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	db, err := NewDatabase(cfg)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGormCustomerRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormCustomerRepository(db.DB)
	ctx := context.Background()

	customer, err := partner.NewCustomer("17", "an@voorbeeld.be", "An Peeters")
	require.NoError(t, err)
	customer.AddBankAccount("BE71 0961 2345 6769")
	require.NoError(t, repo.Save(ctx, customer))

	t.Run("find by legacy id", func(t *testing.T) {
		found, err := repo.FindByLegacyID(ctx, "17")
		require.NoError(t, err)
		assert.Equal(t, customer.ID, found.ID)
		require.Len(t, found.BankAccounts, 1)
		assert.Equal(t, "BE71096123456769", found.BankAccounts[0].IBAN)
	})

	t.Run("find by email is case-insensitive", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "AN@Voorbeeld.BE")
		require.NoError(t, err)
		assert.Equal(t, customer.ID, found.ID)
	})

	t.Run("missing customer yields ErrNotFound", func(t *testing.T) {
		_, err := repo.FindByLegacyID(ctx, "99999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("empty legacy id never matches", func(t *testing.T) {
		_, err := repo.FindByLegacyID(ctx, "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("update in place keeps the count", func(t *testing.T) {
		found, err := repo.FindByLegacyID(ctx, "17")
		require.NoError(t, err)
		found.SetAddress("Hoogstraat 1", "", "2000", "Antwerpen")
		require.NoError(t, repo.Save(ctx, found))

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		again, err := repo.FindByLegacyID(ctx, "17")
		require.NoError(t, err)
		assert.Equal(t, "Antwerpen", again.City)
	})
}

func TestGormSubmissionRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormSubmissionRepository(db.DB)
	customers := NewGormCustomerRepository(db.DB)
	ctx := context.Background()

	customer, err := partner.NewCustomer("17", "an@voorbeeld.be", "An Peeters")
	require.NoError(t, err)
	require.NoError(t, customers.Save(ctx, customer))

	received := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sub, err := consignment.NewSubmission("301", "20240301", customer.ID, received, received)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sub))

	found, err := repo.FindByLegacyID(ctx, "301")
	require.NoError(t, err)
	assert.Equal(t, sub.ID, found.ID)
	assert.Equal(t, consignment.SubmissionStateOnline, found.State)

	_, err = repo.FindByLegacyID(ctx, "0")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository(t *testing.T) {
	db := openTestDB(t)
	products := NewGormProductRepository(db.DB)
	ctx := context.Background()

	sub := seedSubmission(t, db)

	product, err := catalog.NewProduct(sub.ID, "Rode jas maat 104", decimal.NewFromFloat(12.50))
	require.NoError(t, err)
	product.LegacyID = "41215"
	product.Code = "20240301-1"
	require.NoError(t, products.Save(ctx, product))

	t.Run("lookup by legacy id then code", func(t *testing.T) {
		byID, err := products.FindByLegacyID(ctx, "41215")
		require.NoError(t, err)
		assert.Equal(t, product.ID, byID.ID)

		byCode, err := products.FindByCode(ctx, "20240301-1")
		require.NoError(t, err)
		assert.Equal(t, product.ID, byCode.ID)
	})

	t.Run("count by submission", func(t *testing.T) {
		count, err := products.CountBySubmission(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("gallery images round-trip", func(t *testing.T) {
		image, err := catalog.NewProductImage(product.ID, "Rode jas maat 104 - Extra 1", "/cache/41215/extra1.jpg")
		require.NoError(t, err)
		require.NoError(t, products.SaveImage(ctx, image))

		found, err := products.FindImages(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "/cache/41215/extra1.jpg", found[0].Path)

		none, err := products.FindImages(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("withdraw round-trips the reason", func(t *testing.T) {
		require.NoError(t, product.Withdraw(catalog.UnsoldReasonCharity))
		require.NoError(t, products.Save(ctx, product))

		found, err := products.FindByLegacyID(ctx, "41215")
		require.NoError(t, err)
		assert.Equal(t, catalog.UnsoldReasonCharity, found.UnsoldReason)
		assert.False(t, found.Published)
		assert.True(t, found.StockQty.IsZero())
	})
}

func TestGormOrderRepository(t *testing.T) {
	db := openTestDB(t)
	orders := NewGormOrderRepository(db.DB)
	ctx := context.Background()

	sub := seedSubmission(t, db)
	product, err := catalog.NewProduct(sub.ID, "Broek", decimal.NewFromInt(8))
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db.DB).Save(ctx, product))

	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	order, err := trade.NewOrder(sub.CustomerID, trade.MigrationReference("41215", date), date)
	require.NoError(t, err)
	_, err = order.AddLine(product.ID, product.Name, decimal.NewFromInt(1), product.ListPrice, decimal.NewFromInt(4))
	require.NoError(t, err)
	require.NoError(t, order.Confirm())
	require.NoError(t, orders.Save(ctx, order))

	found, err := orders.FindByReference(ctx, "MIGR_41215_2025-10-15")
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStateConfirmed, found.State)
	require.Len(t, found.Lines, 1)
	assert.True(t, found.Lines[0].FrozenCommission.Equal(decimal.NewFromInt(4)))

	_, err = orders.FindByReference(ctx, "MIGR_41215_2025-10-16")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUnitOfWork_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	uow := NewGormUnitOfWork(db.DB)
	ctx := context.Background()

	err := uow.WithinBatch(ctx, func(repos migration.Repos) error {
		customer, err := partner.NewCustomer("55", "piet@voorbeeld.be", "Piet")
		if err != nil {
			return err
		}
		if err := repos.Customers.Save(ctx, customer); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	count, err := NewGormCustomerRepository(db.DB).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func seedSubmission(t *testing.T, db *Database) *consignment.Submission {
	t.Helper()
	ctx := context.Background()

	customer, err := partner.NewCustomer("17", "an@voorbeeld.be", "An Peeters")
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db.DB).Save(ctx, customer))

	received := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sub, err := consignment.NewSubmission("301", "20240301", customer.ID, received, received)
	require.NoError(t, err)
	require.NoError(t, NewGormSubmissionRepository(db.DB).Save(ctx, sub))
	return sub
}
