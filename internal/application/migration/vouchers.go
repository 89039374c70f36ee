package migration

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/consignment/backend/internal/domain/loyalty"
	"github.com/consignment/backend/internal/domain/migration"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/consignment/backend/internal/infrastructure/csvimport"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// residualThreshold separates usable gift card balances from rounding
// remnants of the legacy shop
var residualThreshold = decimal.NewFromFloat(0.01)

func (s *Service) importGiftCards(ctx context.Context, path string) error {
	now := time.Now()
	return s.forEachRow(ctx, path, "gift cards", func(repos migration.Repos, row csvimport.Row) error {
		return s.processGiftCardRow(ctx, repos, row, now)
	})
}

// processGiftCardRow imports one legacy gift card with its remaining
// balance. Used-up and expired cards are counted, not imported.
func (s *Service) processGiftCardRow(ctx context.Context, repos migration.Repos, row csvimport.Row, now time.Time) error {
	code := strings.TrimSpace(row.Resolve("code"))
	if code == "" {
		s.report.Skip("gift cards", "missing code")
		return nil
	}

	existing, err := s.findVoucher(ctx, repos, code)
	if err != nil {
		return err
	}
	if existing != nil {
		s.report.VouchersSkipped++
		s.report.Skip("gift cards", "already exists")
		return nil
	}

	total := csvimport.ParseDecimal(row.Resolve("bedrag"))
	used := csvimport.ParseDecimal(row.Resolve("bedrag_gebruikt"))
	rest := total.Sub(used)
	if rest.LessThanOrEqual(residualThreshold) {
		s.report.VouchersSkipped++
		s.report.Skip("gift cards", "used up")
		return nil
	}

	expiresAt := csvimport.ParseDate(row.Resolve("tot"), s.logger)
	if expiresAt != nil && expiresAt.Before(now) {
		s.report.VouchersSkipped++
		s.report.Skip("gift cards", "expired")
		return nil
	}

	card, err := loyalty.NewGiftCard(code, rest)
	if err != nil {
		return err
	}
	if expiresAt != nil {
		card.SetExpiry(*expiresAt, now)
	}
	if err := repos.Vouchers.Save(ctx, card); err != nil {
		return err
	}
	s.report.GiftCardsCreated++
	return nil
}

func (s *Service) importPromoCodes(ctx context.Context, path string) error {
	now := time.Now()
	return s.forEachRow(ctx, path, "promo codes", func(repos migration.Repos, row csvimport.Row) error {
		return s.processPromoCodeRow(ctx, repos, row, now)
	})
}

// processPromoCodeRow imports one legacy discount code. The 'soort'
// column splits them into fixed-amount and percentage codes; both take
// their value from the 'aantal' column.
func (s *Service) processPromoCodeRow(ctx context.Context, repos migration.Repos, row csvimport.Row, now time.Time) error {
	code := strings.TrimSpace(row.Resolve("code"))
	if code == "" {
		s.report.Skip("promo codes", "missing code")
		return nil
	}

	existing, err := s.findVoucher(ctx, repos, code)
	if err != nil {
		return err
	}
	if existing != nil {
		s.report.VouchersSkipped++
		s.report.Skip("promo codes", "already exists")
		return nil
	}

	expiresAt := csvimport.ParseDate(row.Resolve("tot"), s.logger)
	if expiresAt != nil && expiresAt.Before(now) {
		s.report.VouchersSkipped++
		s.report.Skip("promo codes", "expired")
		return nil
	}

	value := csvimport.ParseDecimal(row.Resolve("aantal"))
	if !value.IsPositive() {
		s.report.VouchersSkipped++
		s.report.Skip("promo codes", "no value")
		return nil
	}

	var voucher *loyalty.Voucher
	soort := strings.ToLower(row.Resolve("soort"))
	switch {
	case strings.Contains(soort, "vast"):
		voucher, err = loyalty.NewPromoFixed(code, value)
	case strings.Contains(soort, "percentage"):
		voucher, err = loyalty.NewPromoPercent(code, value)
	default:
		s.logger.Warn("unknown promo code kind",
			zap.String("code", code), zap.String("soort", soort))
		s.report.Skip("promo codes", "unknown kind")
		return nil
	}
	if err != nil {
		return err
	}
	if expiresAt != nil {
		voucher.SetExpiry(*expiresAt, now)
	}
	if err := repos.Vouchers.Save(ctx, voucher); err != nil {
		return err
	}
	s.report.PromoCodesCreated++
	return nil
}

func (s *Service) findVoucher(ctx context.Context, repos migration.Repos, code string) (*loyalty.Voucher, error) {
	voucher, err := repos.Vouchers.FindByCode(ctx, code)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return voucher, nil
}
