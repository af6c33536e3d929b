package expense_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func TestComputeEntry(t *testing.T) {
	type testCase struct {
		name         string
		entry        expense.Entry
		wantKmRate   decimal.NullDecimal
		wantKmAmount decimal.NullDecimal
		wantTotal    string
	}

	tests := []testCase{
		{
			name:      "ExpenseOnly",
			entry:     expense.Entry{Amounts: expense.Amounts{Parking: nd("10"), Lunch: nd("12.50")}},
			wantTotal: "22.50",
		},
		{
			name:         "MileageDefaultRate",
			entry:        expense.Entry{Kilometers: nd("100")},
			wantKmRate:   nd("0.14"),
			wantKmAmount: nd("14"),
			wantTotal:    "14",
		},
		{
			name:         "MileageCustomRateRounded",
			entry:        expense.Entry{Kilometers: nd("33.3"), KmRate: nd("0.19")},
			wantKmRate:   nd("0.19"),
			wantKmAmount: nd("6.33"),
			wantTotal:    "6.33",
		},
		{
			name:         "Mixed",
			entry:        expense.Entry{Amounts: expense.Amounts{Taxi: nd("8.20")}, Kilometers: nd("10"), KmRate: nd("0.20")},
			wantKmRate:   nd("0.20"),
			wantKmAmount: nd("2"),
			wantTotal:    "10.20",
		},
		{
			name:      "NoKilometersClearsKmAmount",
			entry:     expense.Entry{Amounts: expense.Amounts{Hotel: nd("80")}, KmAmount: nd("99")},
			wantTotal: "80",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.entry
			expense.ComputeEntry(&e, expense.DefaultKmRate)

			assert.True(t, dec(tt.wantTotal).Equal(e.DailyTotal), "daily total %s", e.DailyTotal)
			assert.Equal(t, tt.wantKmAmount.Valid, e.KmAmount.Valid)

			if tt.wantKmAmount.Valid {
				assert.True(t, tt.wantKmAmount.Decimal.Equal(e.KmAmount.Decimal), "km amount %s", e.KmAmount.Decimal)
				assert.True(t, tt.wantKmRate.Decimal.Equal(e.KmRate.Decimal), "km rate %s", e.KmRate.Decimal)
			}
		})
	}
}

func TestComputeEntry_Idempotent(t *testing.T) {
	e := expense.Entry{Amounts: expense.Amounts{Dinner: nd("21.35")}, Kilometers: nd("42")}

	expense.ComputeEntry(&e, expense.DefaultKmRate)
	first := e

	expense.ComputeEntry(&e, expense.DefaultKmRate)

	assert.True(t, first.DailyTotal.Equal(e.DailyTotal))
	assert.True(t, first.KmAmount.Decimal.Equal(e.KmAmount.Decimal))
}

func TestSheetTotal(t *testing.T) {
	entries := []*expense.Entry{
		{Amounts: expense.Amounts{Parking: nd("10")}, Kilometers: nd("0")},
		{Kilometers: nd("100"), KmRate: nd("0.14")},
	}

	for _, e := range entries {
		expense.ComputeEntry(e, expense.DefaultKmRate)
	}

	assert.True(t, dec("24.00").Equal(expense.SheetTotal(entries)))
	assert.True(t, decimal.Zero.Equal(expense.SheetTotal(nil)))
}

func TestNeedsRecalculation(t *testing.T) {
	tests := []struct {
		stored, live string
		want         bool
	}{
		{"24.00", "24.00", false},
		{"24.00", "24.004", false},
		{"24.00", "24.01", true},
		{"0", "15.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.stored+"/"+tt.live, func(t *testing.T) {
			assert.Equal(t, tt.want, expense.NeedsRecalculation(dec(tt.stored), dec(tt.live)))
		})
	}
}

func TestSummarize(t *testing.T) {
	sheet := &expense.Sheet{
		Anticipo: dec("20"),
		Entries: []*expense.Entry{
			{Amounts: expense.Amounts{Parking: nd("10"), Lunch: nd("5")}},
			{Amounts: expense.Amounts{Parking: nd("2.5")}, Kilometers: nd("50")},
		},
	}

	for _, e := range sheet.Entries {
		expense.ComputeEntry(e, expense.DefaultKmRate)
	}

	sum := expense.Summarize(sheet)

	assert.Equal(t, 2, sum.EntryCount)
	assert.True(t, dec("12.5").Equal(sum.Categories[expense.CategoryParking]))
	assert.True(t, dec("5").Equal(sum.Categories[expense.CategoryLunch]))
	assert.True(t, decimal.Zero.Equal(sum.Categories[expense.CategoryHotel]))
	assert.True(t, dec("50").Equal(sum.Kilometers))
	assert.True(t, dec("7").Equal(sum.KmAmount))
	assert.True(t, dec("24.5").Equal(sum.Subtotal))
	assert.True(t, dec("4.5").Equal(sum.Balance))
}
