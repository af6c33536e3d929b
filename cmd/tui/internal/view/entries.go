package view

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

const entriesPerPage = 5

type sortKey int

const (
	sortByDate sortKey = iota
	sortByMerchant
	sortByTotal
)

func (k sortKey) String() string {
	switch k {
	case sortByDate:
		return "Date"
	case sortByMerchant:
		return "Merchant"
	case sortByTotal:
		return "Total"
	}

	return "Unknown"
}

func (k sortKey) next() sortKey {
	return (k + 1) % 3
}

type sortConfig struct {
	key  sortKey
	desc bool
}

// defaultSort shows the most recent entries first.
var defaultSort = sortConfig{key: sortByDate, desc: true}

// sortEntries returns a sorted copy of entries. Entries without a merchant
// sort last in both directions when sorting by merchant.
func sortEntries(entries []api.Entry, cfg sortConfig) []api.Entry {
	out := slices.Clone(entries)

	slices.SortStableFunc(out, func(a, b api.Entry) int {
		if cfg.key == sortByMerchant {
			switch {
			case a.MerchantName == "" && b.MerchantName == "":
				return 0
			case a.MerchantName == "":
				return 1
			case b.MerchantName == "":
				return -1
			}
		}

		c := compareEntries(a, b, cfg.key)
		if cfg.desc {
			return -c
		}

		return c
	})

	return out
}

func compareEntries(a, b api.Entry, key sortKey) int {
	switch key {
	case sortByMerchant:
		return cmp.Compare(strings.ToLower(a.MerchantName), strings.ToLower(b.MerchantName))
	case sortByTotal:
		return a.DailyTotal.Cmp(b.DailyTotal)
	}

	return a.EntryDate.Compare(b.EntryDate.Time)
}

// paginate returns the entries shown on page p, the page actually shown
// after clamping p to the valid range, and the number of pages.
func paginate(entries []api.Entry, p int) ([]api.Entry, int, int) {
	pages := (len(entries) + entriesPerPage - 1) / entriesPerPage
	if pages == 0 {
		return nil, 1, 0
	}

	p = min(max(p, 1), pages)

	start := (p - 1) * entriesPerPage
	end := min(start+entriesPerPage, len(entries))

	return entries[start:end], p, pages
}

type columnTotals struct {
	Categories map[expense.Category]decimal.Decimal
	KmAmount   decimal.Decimal
	Total      decimal.Decimal
}

// sumEntries adds up every column over all entries, not only the visible page.
func sumEntries(entries []api.Entry) columnTotals {
	t := columnTotals{Categories: make(map[expense.Category]decimal.Decimal, len(expense.Categories))}

	for _, c := range expense.Categories {
		t.Categories[c] = decimal.Zero
	}

	for _, e := range entries {
		for _, c := range expense.Categories {
			if v := e.Amount(c); v.Valid {
				t.Categories[c] = t.Categories[c].Add(v.Decimal)
			}
		}

		if e.KmAmount.Valid {
			t.KmAmount = t.KmAmount.Add(e.KmAmount.Decimal)
		}

		t.Total = t.Total.Add(e.DailyTotal)
	}

	return t
}
