package migration

import "go.uber.org/zap"

// Report accumulates the per-outcome and per-skip counters of one run.
// It is the only user-visible failure surface: bad rows are counted
// here, never fatal.
type Report struct {
	CustomersCreated    int
	CustomersUpdated    int
	SubmissionsCreated  int
	BrandsCreated       int
	BrandsUpdated       int
	ProductsCreated     int
	ProductsUpdated     int
	OrdersCreated       int
	OrdersSkipped       int
	CopiesCreated       int
	CopiesSkipped       int
	Withdrawn           int
	Published           int
	GiftCardsCreated    int
	PromoCodesCreated   int
	VouchersSkipped     int
	LegacyOrdersCreated int
	OrderLinesCreated   int
	OrderLinesSkipped   int

	// Skips counts skipped rows per category and reason
	Skips map[string]map[string]int
}

// NewReport creates an empty report
func NewReport() *Report {
	return &Report{Skips: make(map[string]map[string]int)}
}

// Skip counts one skipped row
func (r *Report) Skip(category, reason string) {
	if r.Skips[category] == nil {
		r.Skips[category] = make(map[string]int)
	}
	r.Skips[category][reason]++
}

// SkipCount returns the total number of skipped rows in a category
func (r *Report) SkipCount(category string) int {
	total := 0
	for _, n := range r.Skips[category] {
		total += n
	}
	return total
}

// Log writes the final summary
func (r *Report) Log(logger *zap.Logger) {
	logger.Info("migration summary",
		zap.Int("customers_created", r.CustomersCreated),
		zap.Int("customers_updated", r.CustomersUpdated),
		zap.Int("submissions_created", r.SubmissionsCreated),
		zap.Int("brands_created", r.BrandsCreated),
		zap.Int("products_created", r.ProductsCreated),
		zap.Int("products_updated", r.ProductsUpdated),
		zap.Int("orders_created", r.OrdersCreated),
		zap.Int("orders_skipped", r.OrdersSkipped),
		zap.Int("copies_created", r.CopiesCreated),
		zap.Int("withdrawn", r.Withdrawn),
		zap.Int("published", r.Published),
		zap.Int("gift_cards_created", r.GiftCardsCreated),
		zap.Int("promo_codes_created", r.PromoCodesCreated),
		zap.Int("legacy_orders_created", r.LegacyOrdersCreated),
		zap.Int("order_lines_created", r.OrderLinesCreated),
	)
	for category, reasons := range r.Skips {
		for reason, n := range reasons {
			logger.Info("skipped rows",
				zap.String("category", category),
				zap.String("reason", reason),
				zap.Int("count", n))
		}
	}
}
