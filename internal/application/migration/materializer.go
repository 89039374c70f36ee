package migration

import (
	"context"
	"errors"

	"github.com/consignment/backend/internal/domain/catalog"
	"github.com/consignment/backend/internal/domain/consignment"
	"github.com/consignment/backend/internal/domain/migration"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/consignment/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// applyOutcome materializes one classification outcome onto the product
func (s *Service) applyOutcome(ctx context.Context, repos migration.Repos, product *catalog.Product, submission *consignment.Submission, outcome migration.Outcome) error {
	switch outcome.Kind {
	case migration.OutcomeOrder:
		return s.synthesizeOrder(ctx, repos, product, submission, *outcome.Order)
	case migration.OutcomeWithdraw:
		return s.withdrawProduct(ctx, repos, product, *outcome.Withdraw)
	case migration.OutcomePublish:
		return s.publishProduct(ctx, repos, product, *outcome.Publish)
	default:
		return shared.NewDomainError("INVALID_OUTCOME", "Unknown outcome kind: "+string(outcome.Kind))
	}
}

// synthesizeOrder records a historical sale as a confirmed order on the
// synthetic migration payer. The deterministic reference makes re-runs
// skip orders that already exist; the product still ends up at zero
// stock and offline either way.
func (s *Service) synthesizeOrder(ctx context.Context, repos migration.Repos, product *catalog.Product, submission *consignment.Submission, action migration.OrderAction) error {
	reference := trade.MigrationReference(product.LegacyID, action.Date)

	existing, err := repos.Orders.FindByReference(ctx, reference)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if existing != nil && existing.State != trade.OrderStateDraft {
		s.logger.Info("order already exists",
			zap.String("reference", reference), zap.String("product", product.Name))
		s.report.OrdersSkipped++
		product.MarkSold()
		if err := repos.Products.Save(ctx, product); err != nil {
			return err
		}
	} else {
		commission := decimal.Zero
		if action.Paid {
			commission = product.ListPrice.Mul(submission.PayoutPercentage)
			submission.FreezeTerms()
			if err := repos.Submissions.Save(ctx, submission); err != nil {
				return err
			}
		}

		order, err := trade.NewOrder(s.migrationCustomerID, reference, action.Date)
		if err != nil {
			return err
		}
		line, err := order.AddLine(product.ID, product.Name, decimal.NewFromInt(1), product.ListPrice, commission)
		if err != nil {
			return err
		}
		if action.Paid && action.PayoutDate != nil {
			line.MarkPaid(*action.PayoutDate)
		}
		if err := order.Confirm(); err != nil {
			return err
		}
		if err := repos.Orders.Save(ctx, order); err != nil {
			return err
		}
		s.report.OrdersCreated++

		product.MarkSold()
		if err := repos.Products.Save(ctx, product); err != nil {
			return err
		}
	}

	if action.DuplicateCopy {
		return s.duplicateCopy(ctx, repos, product, action.CopyStock)
	}
	return nil
}

// duplicateCopy clones a paid-out but still present product into the
// shared migration stock submission so it can be sold again. The copy
// carries the original code with a -C suffix and no legacy id.
func (s *Service) duplicateCopy(ctx context.Context, repos migration.Repos, original *catalog.Product, stock decimal.Decimal) error {
	copyCode := original.Code + "-C"

	_, err := repos.Products.FindByCode(ctx, copyCode)
	if err == nil {
		s.logger.Info("stock copy already exists", zap.String("code", copyCode))
		s.report.CopiesSkipped++
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	dup, err := catalog.NewProduct(s.migrationSubmissionID, original.Name, original.ListPrice)
	if err != nil {
		return err
	}
	dup.Code = copyCode
	dup.Description = original.Description
	dup.ImagePath = original.ImagePath
	dup.ConditionHearts = original.ConditionHearts
	dup.LinkCategories(original.PublicCategoryID, original.BackendCategoryID)
	if original.BrandID != nil {
		dup.LinkBrand(*original.BrandID)
	}
	if err := dup.SetStock(stock); err != nil {
		return err
	}
	dup.Publish()
	if err := repos.Products.Save(ctx, dup); err != nil {
		return err
	}

	lines, err := repos.Attributes.FindLines(ctx, original.ID)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := s.saveAttributeLine(ctx, repos, dup.ID, line.AttributeID, line.AttributeValueID); err != nil {
			return err
		}
	}

	s.report.CopiesCreated++
	s.logger.Info("stock copy created",
		zap.String("code", copyCode), zap.String("name", dup.Name))
	return nil
}

// withdrawProduct takes the product offline with a mapped reason while
// keeping the row's stock value on record
func (s *Service) withdrawProduct(ctx context.Context, repos migration.Repos, product *catalog.Product, action migration.WithdrawAction) error {
	if err := product.Withdraw(action.Reason); err != nil {
		return err
	}
	if err := product.SetStock(action.Stock); err != nil {
		return err
	}
	if action.Note != "" {
		product.AppendInternalNote("[MIGRATIE] Reden onverkocht: " + action.Note)
	}
	if err := repos.Products.Save(ctx, product); err != nil {
		return err
	}
	s.report.Withdrawn++
	return nil
}

// publishProduct puts the product online with the row's stock
func (s *Service) publishProduct(ctx context.Context, repos migration.Repos, product *catalog.Product, action migration.PublishAction) error {
	if err := product.SetStock(action.Stock); err != nil {
		return err
	}
	product.Publish()
	if err := repos.Products.Save(ctx, product); err != nil {
		return err
	}
	s.report.Published++
	return nil
}
