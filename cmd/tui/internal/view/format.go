package view

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
}

// FormatAmount renders an amount with two decimals and the currency symbol,
// or the currency code when there is no symbol.
func FormatAmount(d decimal.Decimal, currency string) string {
	if sym, ok := currencySymbols[currency]; ok {
		return d.StringFixed(2) + " " + sym
	}

	return d.StringFixed(2) + " " + currency
}

// FormatNull renders a nullable amount, "-" when unset.
func FormatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}

	return d.Decimal.StringFixed(2)
}

// FormatDate formats a date as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func statusLabel(s expense.Status) string {
	switch s {
	case expense.StatusPendingValidation:
		return "Pending"
	case expense.StatusValidated:
		return "Validated"
	case expense.StatusRejected:
		return "Rejected"
	}

	return string(s)
}

func categoryLabel(c expense.Category) string {
	switch c {
	case expense.CategoryParking:
		return "Parking"
	case expense.CategoryTaxi:
		return "Taxi"
	case expense.CategoryTransport:
		return "Plane/Train"
	case expense.CategoryHotel:
		return "Hotel"
	case expense.CategoryLunch:
		return "Lunch"
	case expense.CategoryDinner:
		return "Dinner"
	case expense.CategoryMiscellaneous:
		return "Miscellaneous"
	}

	return string(c)
}
