package expense

import (
	"github.com/shopspring/decimal"
)

// DefaultKmRate is the per-kilometer rate applied when an entry gives kilometers without a rate.
var DefaultKmRate = decimal.RequireFromString("0.14")

// recalcTolerance is the drift between a stored and a live total that triggers a rewrite.
var recalcTolerance = decimal.RequireFromString("0.005")

// ComputeEntry fills the derived fields of e.
//
// km_rate falls back to defaultKmRate when kilometers are set without a rate.
// km_amount is kilometers × km_rate rounded to cents, or null when kilometers are absent.
// daily_total is the sum of every set category amount plus km_amount.
func ComputeEntry(e *Entry, defaultKmRate decimal.Decimal) {
	e.KmAmount = decimal.NullDecimal{}

	if e.Kilometers.Valid {
		if !e.KmRate.Valid {
			e.KmRate = decimal.NewNullDecimal(defaultKmRate)
		}

		e.KmAmount = decimal.NewNullDecimal(e.Kilometers.Decimal.Mul(e.KmRate.Decimal).Round(2))
	}

	total := decimal.Zero

	for _, c := range Categories {
		if v := e.Amounts.Get(c); v.Valid {
			total = total.Add(v.Decimal)
		}
	}

	if e.KmAmount.Valid {
		total = total.Add(e.KmAmount.Decimal)
	}

	e.DailyTotal = total
}

// SheetTotal sums the daily totals of entries.
func SheetTotal(entries []*Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.DailyTotal)
	}

	return total
}

// NeedsRecalculation reports whether stored drifted from live by more than the tolerance.
func NeedsRecalculation(stored, live decimal.Decimal) bool {
	return stored.Sub(live).Abs().GreaterThan(recalcTolerance)
}

// Summary aggregates a sheet's entries per column.
type Summary struct {
	EntryCount int
	Categories map[Category]decimal.Decimal
	Kilometers decimal.Decimal
	KmAmount   decimal.Decimal
	Subtotal   decimal.Decimal
	Anticipo   decimal.Decimal
	Balance    decimal.Decimal // Subtotal - Anticipo
}

func Summarize(s *Sheet) Summary {
	sum := Summary{
		EntryCount: len(s.Entries),
		Categories: make(map[Category]decimal.Decimal, len(Categories)),
		Anticipo:   s.Anticipo,
	}

	for _, c := range Categories {
		sum.Categories[c] = decimal.Zero
	}

	for _, e := range s.Entries {
		for _, c := range Categories {
			if v := e.Amounts.Get(c); v.Valid {
				sum.Categories[c] = sum.Categories[c].Add(v.Decimal)
			}
		}

		if e.Kilometers.Valid {
			sum.Kilometers = sum.Kilometers.Add(e.Kilometers.Decimal)
		}

		if e.KmAmount.Valid {
			sum.KmAmount = sum.KmAmount.Add(e.KmAmount.Decimal)
		}

		sum.Subtotal = sum.Subtotal.Add(e.DailyTotal)
	}

	sum.Balance = sum.Subtotal.Sub(sum.Anticipo)

	return sum
}
