package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

func entryOn(day int, merchant, total string) api.Entry {
	return api.Entry{
		EntryDate:    api.DateOf(time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC)),
		MerchantName: merchant,
		DailyTotal:   decimal.RequireFromString(total),
	}
}

func merchants(entries []api.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.MerchantName)
	}

	return out
}

func TestSortEntries(t *testing.T) {
	entries := []api.Entry{
		entryOn(3, "taxi", "12"),
		entryOn(1, "", "40"),
		entryOn(7, "Hotel", "90"),
		entryOn(5, "bar", "8.5"),
	}

	type testCase struct {
		name string
		cfg  sortConfig
		want []string
	}

	tests := []testCase{
		{name: "DateDescending", cfg: defaultSort, want: []string{"Hotel", "bar", "taxi", ""}},
		{name: "DateAscending", cfg: sortConfig{key: sortByDate}, want: []string{"", "taxi", "bar", "Hotel"}},
		{name: "MerchantAscending", cfg: sortConfig{key: sortByMerchant}, want: []string{"bar", "Hotel", "taxi", ""}},
		{name: "MerchantDescendingKeepsBlankLast", cfg: sortConfig{key: sortByMerchant, desc: true}, want: []string{"taxi", "Hotel", "bar", ""}},
		{name: "TotalDescending", cfg: sortConfig{key: sortByTotal, desc: true}, want: []string{"Hotel", "", "taxi", "bar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sortEntries(entries, tt.cfg)
			assert.Equal(t, tt.want, merchants(got))
		})
	}

	assert.Equal(t, "taxi", entries[0].MerchantName, "input must not be reordered")
}

func TestPaginate(t *testing.T) {
	entries := make([]api.Entry, 12)
	for i := range entries {
		entries[i] = entryOn(i+1, string(rune('a'+i)), "1")
	}

	type testCase struct {
		name      string
		entries   []api.Entry
		page      int
		wantLen   int
		wantPage  int
		wantPages int
	}

	tests := []testCase{
		{name: "FirstPage", entries: entries, page: 1, wantLen: 5, wantPage: 1, wantPages: 3},
		{name: "LastPartialPage", entries: entries, page: 3, wantLen: 2, wantPage: 3, wantPages: 3},
		{name: "ClampsPastEnd", entries: entries, page: 9, wantLen: 2, wantPage: 3, wantPages: 3},
		{name: "ClampsZero", entries: entries, page: 0, wantLen: 5, wantPage: 1, wantPages: 3},
		{name: "Empty", entries: nil, page: 2, wantLen: 0, wantPage: 1, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, p, pages := paginate(tt.entries, tt.page)

			assert.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantPage, p)
			assert.Equal(t, tt.wantPages, pages)
		})
	}
}

func TestSumEntries(t *testing.T) {
	parking := entryOn(1, "", "10")
	parking.ParkingAmount = decimal.NewNullDecimal(decimal.RequireFromString("10"))

	mileage := entryOn(2, "", "14")
	mileage.KmAmount = decimal.NewNullDecimal(decimal.RequireFromString("14"))

	mixed := entryOn(3, "", "30.5")
	mixed.ParkingAmount = decimal.NewNullDecimal(decimal.RequireFromString("2.5"))
	mixed.DinnerAmount = decimal.NewNullDecimal(decimal.RequireFromString("28"))

	got := sumEntries([]api.Entry{parking, mileage, mixed})

	assert.Equal(t, "12.5", got.Categories[expense.CategoryParking].String())
	assert.Equal(t, "28", got.Categories[expense.CategoryDinner].String())
	assert.True(t, got.Categories[expense.CategoryHotel].IsZero())
	assert.Equal(t, "14", got.KmAmount.String())
	assert.Equal(t, "54.5", got.Total.String())
}
