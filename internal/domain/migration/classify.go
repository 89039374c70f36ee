package migration

import (
	"strings"
	"time"

	"github.com/consignment/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// RowSignals are the status facts of one legacy product row, already
// normalized to typed values by the CSV layer
type RowSignals struct {
	Paid               bool
	Sold               bool
	Hidden             bool
	DefinitelyInactive bool
	SaleDate           *time.Time
	PayoutDate         *time.Time
	StockQty           decimal.Decimal
	LegacyCode         string
	ReasonText         string
}

// Rules holds the configurable constants the classification depends on
type Rules struct {
	Cutoff           time.Time
	ExemptLegacyCode string
	PaidFallbackDate time.Time
}

// OutcomeKind tags the variant of an Outcome
type OutcomeKind string

const (
	OutcomeOrder    OutcomeKind = "order"
	OutcomeWithdraw OutcomeKind = "withdraw"
	OutcomePublish  OutcomeKind = "publish"
)

// OrderAction synthesizes a historical sales order for the product
type OrderAction struct {
	Date          time.Time
	Paid          bool
	PayoutDate    *time.Time
	DuplicateCopy bool
	CopyStock     decimal.Decimal
}

// WithdrawAction takes the product off sale with a reason
type WithdrawAction struct {
	Stock  decimal.Decimal
	Reason catalog.UnsoldReason
	Note   string
}

// PublishAction puts the product online with the given stock
type PublishAction struct {
	Stock decimal.Decimal
}

// Outcome is the single decision for one row. Exactly one of the
// variant pointers is set, matching Kind. Notes carry fallbacks the
// caller must log.
type Outcome struct {
	Kind     OutcomeKind
	Order    *OrderAction
	Withdraw *WithdrawAction
	Publish  *PublishAction
	Notes    []string
}

func orderOutcome(a OrderAction, notes []string) Outcome {
	return Outcome{Kind: OutcomeOrder, Order: &a, Notes: notes}
}

func withdrawOutcome(stock decimal.Decimal, note string, notes []string) Outcome {
	return Outcome{
		Kind: OutcomeWithdraw,
		Withdraw: &WithdrawAction{
			Stock:  stock,
			Reason: MapWithdrawReason(note, stock),
			Note:   note,
		},
		Notes: notes,
	}
}

func publishOutcome(stock decimal.Decimal) Outcome {
	return Outcome{Kind: OutcomePublish, Publish: &PublishAction{Stock: stock}}
}

// Classify decides what happens to one legacy product row. The branch
// order is load-bearing: the first matching rule wins.
func Classify(sig RowSignals, rules Rules) Outcome {
	if sig.DefinitelyInactive {
		return withdrawOutcome(sig.StockQty, "Afbeelding 'nietactief.png'", nil)
	}

	if sig.Paid {
		return classifyPaid(sig, rules)
	}

	if sig.Sold && sig.SaleDate != nil {
		saleDate := *sig.SaleDate
		switch {
		case saleDate.After(rules.Cutoff):
			return orderOutcome(OrderAction{Date: saleDate, Paid: false}, nil)
		case sig.LegacyCode == rules.ExemptLegacyCode:
			return orderOutcome(OrderAction{Date: saleDate, Paid: false}, nil)
		default:
			note := sig.ReasonText
			if note == "" {
				note = "MIGRATIE: Verkocht maar niet betaald vóór cutoff (inconsistentie)."
			}
			return withdrawOutcome(sig.StockQty, note, nil)
		}
	}

	if sig.Sold {
		note := sig.ReasonText
		if note == "" {
			note = "MIGRATIE: Geen verkoopdatum bekend."
		}
		return withdrawOutcome(sig.StockQty, note, nil)
	}

	if !sig.Hidden {
		return publishOutcome(sig.StockQty)
	}

	if sig.Hidden {
		return withdrawOutcome(sig.StockQty, sig.ReasonText, nil)
	}

	return withdrawOutcome(sig.StockQty, "MIGRATIE FOUT: Onbekende statuscombinatie.",
		[]string{"unknown status combination"})
}

// classifyPaid handles every row with the paid flag set. The effective
// order date prefers the sale date, then the payout date, then the
// configured fallback.
func classifyPaid(sig RowSignals, rules Rules) Outcome {
	var notes []string
	var orderDate time.Time
	var payoutDate *time.Time

	switch {
	case sig.PayoutDate != nil:
		if sig.SaleDate != nil {
			orderDate = *sig.SaleDate
		} else {
			orderDate = *sig.PayoutDate
		}
		payoutDate = sig.PayoutDate
	case sig.SaleDate != nil:
		orderDate = *sig.SaleDate
		payoutDate = sig.SaleDate
		notes = append(notes, "paid without payout date, sale date used for both")
	default:
		if rules.PaidFallbackDate.IsZero() {
			return withdrawOutcome(sig.StockQty,
				"MIGRATIE FOUT: Betaald=Ja maar geen geldige datum.",
				[]string{"paid row without any usable date"})
		}
		orderDate = rules.PaidFallbackDate
		fb := rules.PaidFallbackDate
		payoutDate = &fb
		notes = append(notes, "paid without any date, configured fallback date used")
	}

	if orderDate.After(rules.Cutoff) {
		notes = append(notes, "paid but order date after cutoff, processed as paid anyway")
	}

	action := OrderAction{Date: orderDate, Paid: true, PayoutDate: payoutDate}
	if !sig.Sold && !sig.Hidden && sig.StockQty.IsPositive() {
		action.DuplicateCopy = true
		action.CopyStock = sig.StockQty
	}
	return orderOutcome(action, notes)
}

// MapWithdrawReason maps free-text withdraw reasons onto the closed
// reason set. Substring match, case-insensitive, first hit wins. A row
// without any text and without stock is genuinely unknown.
func MapWithdrawReason(text string, stock decimal.Decimal) catalog.UnsoldReason {
	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(t, "terug") || strings.Contains(t, "opgehaald"):
		return catalog.UnsoldReasonReturned
	case strings.Contains(t, "goed doel") || strings.Contains(t, "spullenhulp") || strings.Contains(t, "doneer"):
		return catalog.UnsoldReasonCharity
	case strings.Contains(t, "verloren") || strings.Contains(t, "kapot") || strings.Contains(t, "vlek"):
		return catalog.UnsoldReasonLost
	case strings.Contains(t, "merk"):
		return catalog.UnsoldReasonBrand
	case t == "" && !stock.IsPositive():
		return catalog.UnsoldReasonUnknown
	default:
		return catalog.UnsoldReasonOther
	}
}
