package migration

import (
	"testing"
	"time"

	"github.com/consignment/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() Rules {
	return Rules{
		Cutoff:           time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
		ExemptLegacyCode: "20250012",
		PaidFallbackDate: time.Date(2022, 8, 31, 0, 0, 0, 0, time.UTC),
	}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestClassify_InactiveMarker(t *testing.T) {
	out := Classify(RowSignals{
		DefinitelyInactive: true,
		Paid:               true,
		Sold:               true,
		SaleDate:           datePtr(2025, 5, 1),
	}, testRules())

	require.Equal(t, OutcomeWithdraw, out.Kind)
	assert.Equal(t, catalog.UnsoldReasonOther, out.Withdraw.Reason)
	assert.Contains(t, out.Withdraw.Note, "nietactief")
}

func TestClassify_Paid(t *testing.T) {
	rules := testRules()

	t.Run("paid and sold uses sale date, records payout date", func(t *testing.T) {
		out := Classify(RowSignals{
			Paid:       true,
			Sold:       true,
			SaleDate:   datePtr(2025, 3, 10),
			PayoutDate: datePtr(2025, 4, 1),
		}, rules)

		require.Equal(t, OutcomeOrder, out.Kind)
		assert.True(t, out.Order.Paid)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), out.Order.Date)
		require.NotNil(t, out.Order.PayoutDate)
		assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), *out.Order.PayoutDate)
		assert.False(t, out.Order.DuplicateCopy)
	})

	t.Run("paid and sold without sale date uses payout date", func(t *testing.T) {
		out := Classify(RowSignals{
			Paid:       true,
			Sold:       true,
			PayoutDate: datePtr(2025, 4, 1),
		}, rules)

		require.Equal(t, OutcomeOrder, out.Kind)
		assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), out.Order.Date)
	})

	t.Run("paid without payout date falls back to sale date and logs", func(t *testing.T) {
		out := Classify(RowSignals{
			Paid:     true,
			Sold:     true,
			SaleDate: datePtr(2025, 3, 10),
		}, rules)

		require.Equal(t, OutcomeOrder, out.Kind)
		require.NotNil(t, out.Order.PayoutDate)
		assert.Equal(t, out.Order.Date, *out.Order.PayoutDate)
		assert.NotEmpty(t, out.Notes)
	})

	t.Run("paid without any date uses configured fallback", func(t *testing.T) {
		out := Classify(RowSignals{Paid: true, Sold: true}, rules)

		require.Equal(t, OutcomeOrder, out.Kind)
		assert.Equal(t, rules.PaidFallbackDate, out.Order.Date)
		require.NotNil(t, out.Order.PayoutDate)
		assert.Equal(t, rules.PaidFallbackDate, *out.Order.PayoutDate)
		assert.NotEmpty(t, out.Notes)
	})

	t.Run("paid without any date and no fallback becomes withdraw", func(t *testing.T) {
		r := rules
		r.PaidFallbackDate = time.Time{}
		out := Classify(RowSignals{Paid: true, Sold: true}, r)

		require.Equal(t, OutcomeWithdraw, out.Kind)
		assert.Contains(t, out.Withdraw.Note, "geen geldige datum")
	})

	t.Run("paid unsold visible with stock duplicates a copy", func(t *testing.T) {
		out := Classify(RowSignals{
			Paid:       true,
			PayoutDate: datePtr(2025, 2, 1),
			StockQty:   decimal.NewFromInt(3),
		}, rules)

		require.Equal(t, OutcomeOrder, out.Kind)
		assert.True(t, out.Order.Paid)
		assert.True(t, out.Order.DuplicateCopy)
		assert.True(t, out.Order.CopyStock.Equal(decimal.NewFromInt(3)))
	})

	t.Run("paid unsold hidden makes an order without a copy", func(t *testing.T) {
		out := Classify(RowSignals{
			Paid:       true,
			Hidden:     true,
			PayoutDate: datePtr(2025, 2, 1),
			StockQty:   decimal.NewFromInt(3),
		}, rules)

		require.Equal(t, OutcomeOrder, out.Kind)
		assert.False(t, out.Order.DuplicateCopy)
	})

	t.Run("paid unsold visible without stock makes an order without a copy", func(t *testing.T) {
		out := Classify(RowSignals{
			Paid:       true,
			PayoutDate: datePtr(2025, 2, 1),
		}, rules)

		require.Equal(t, OutcomeOrder, out.Kind)
		assert.False(t, out.Order.DuplicateCopy)
	})

	t.Run("paid after cutoff still paid, with a note", func(t *testing.T) {
		out := Classify(RowSignals{
			Paid:       true,
			Sold:       true,
			SaleDate:   datePtr(2025, 10, 15),
			PayoutDate: datePtr(2025, 10, 20),
		}, rules)

		require.Equal(t, OutcomeOrder, out.Kind)
		assert.True(t, out.Order.Paid)
		assert.NotEmpty(t, out.Notes)
	})
}

func TestClassify_UnpaidSold(t *testing.T) {
	rules := testRules()

	t.Run("sold after cutoff becomes unpaid order at sale date", func(t *testing.T) {
		out := Classify(RowSignals{
			Sold:     true,
			SaleDate: datePtr(2025, 10, 15),
		}, rules)

		require.Equal(t, OutcomeOrder, out.Kind)
		assert.False(t, out.Order.Paid)
		assert.Nil(t, out.Order.PayoutDate)
		assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), out.Order.Date)
	})

	t.Run("sold before cutoff for the exempt code becomes unpaid order", func(t *testing.T) {
		out := Classify(RowSignals{
			Sold:       true,
			SaleDate:   datePtr(2025, 5, 1),
			LegacyCode: "20250012",
		}, rules)

		require.Equal(t, OutcomeOrder, out.Kind)
		assert.False(t, out.Order.Paid)
	})

	t.Run("sold before cutoff otherwise becomes withdraw", func(t *testing.T) {
		out := Classify(RowSignals{
			Sold:       true,
			SaleDate:   datePtr(2025, 5, 1),
			LegacyCode: "20240003",
			StockQty:   decimal.NewFromInt(1),
		}, rules)

		require.Equal(t, OutcomeWithdraw, out.Kind)
		assert.Contains(t, out.Withdraw.Note, "niet betaald")
		assert.True(t, out.Withdraw.Stock.Equal(decimal.NewFromInt(1)))
	})

	t.Run("sold without sale date becomes withdraw", func(t *testing.T) {
		out := Classify(RowSignals{Sold: true}, rules)

		require.Equal(t, OutcomeWithdraw, out.Kind)
		assert.Contains(t, out.Withdraw.Note, "Geen verkoopdatum")
	})

	t.Run("sold without sale date keeps the free-text reason", func(t *testing.T) {
		out := Classify(RowSignals{Sold: true, ReasonText: "klant heeft teruggevraagd"}, rules)

		require.Equal(t, OutcomeWithdraw, out.Kind)
		assert.Equal(t, catalog.UnsoldReasonReturned, out.Withdraw.Reason)
	})
}

func TestClassify_UnpaidUnsold(t *testing.T) {
	rules := testRules()

	t.Run("visible becomes publish with stock", func(t *testing.T) {
		out := Classify(RowSignals{StockQty: decimal.NewFromInt(2)}, rules)

		require.Equal(t, OutcomePublish, out.Kind)
		assert.True(t, out.Publish.Stock.Equal(decimal.NewFromInt(2)))
	})

	t.Run("hidden becomes withdraw with keyword-mapped reason", func(t *testing.T) {
		out := Classify(RowSignals{
			Hidden:     true,
			ReasonText: "naar goed doel gebracht",
			StockQty:   decimal.NewFromInt(1),
		}, rules)

		require.Equal(t, OutcomeWithdraw, out.Kind)
		assert.Equal(t, catalog.UnsoldReasonCharity, out.Withdraw.Reason)
	})

	t.Run("hidden without text and without stock is unknown", func(t *testing.T) {
		out := Classify(RowSignals{Hidden: true}, rules)

		require.Equal(t, OutcomeWithdraw, out.Kind)
		assert.Equal(t, catalog.UnsoldReasonUnknown, out.Withdraw.Reason)
	})
}

func TestClassify_ExactlyOneVariant(t *testing.T) {
	rules := testRules()
	dates := []*time.Time{nil, datePtr(2025, 5, 1), datePtr(2025, 10, 15)}
	bools := []bool{false, true}

	for _, paid := range bools {
		for _, sold := range bools {
			for _, hidden := range bools {
				for _, inactive := range bools {
					for _, sale := range dates {
						for _, payout := range dates {
							out := Classify(RowSignals{
								Paid:               paid,
								Sold:               sold,
								Hidden:             hidden,
								DefinitelyInactive: inactive,
								SaleDate:           sale,
								PayoutDate:         payout,
								StockQty:           decimal.NewFromInt(1),
							}, rules)

							set := 0
							if out.Order != nil {
								set++
							}
							if out.Withdraw != nil {
								set++
							}
							if out.Publish != nil {
								set++
							}
							require.Equal(t, 1, set, "signals paid=%v sold=%v hidden=%v inactive=%v", paid, sold, hidden, inactive)
						}
					}
				}
			}
		}
	}
}

func TestMapWithdrawReason(t *testing.T) {
	tests := []struct {
		text   string
		stock  int64
		expect catalog.UnsoldReason
	}{
		{"Klant kwam het terug halen", 0, catalog.UnsoldReasonReturned},
		{"Opgehaald door eigenaar", 1, catalog.UnsoldReasonReturned},
		{"naar Spullenhulp", 0, catalog.UnsoldReasonCharity},
		{"gedoneerd aan goed doel", 0, catalog.UnsoldReasonCharity},
		{"vlek op de mouw", 0, catalog.UnsoldReasonLost},
		{"kapot gegaan in winkel", 0, catalog.UnsoldReasonLost},
		{"verkeerd merk", 0, catalog.UnsoldReasonBrand},
		{"", 0, catalog.UnsoldReasonUnknown},
		{"", 2, catalog.UnsoldReasonOther},
		{"iets anders", 0, catalog.UnsoldReasonOther},
	}
	for _, tt := range tests {
		got := MapWithdrawReason(tt.text, decimal.NewFromInt(tt.stock))
		assert.Equal(t, tt.expect, got, "text=%q stock=%d", tt.text, tt.stock)
	}
}
