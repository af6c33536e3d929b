package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gastos/internal/database"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/matching/store"
)

// Runs against the database in GASTOS_TEST_DATABASE_URL and empties its
// merchant_categories table.
func newStore(t *testing.T) *store.Store {
	t.Helper()

	url := os.Getenv("GASTOS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("GASTOS_TEST_DATABASE_URL not set")
	}

	db, err := database.New(context.Background(), url, database.Pool{MaxOpenConns: 2})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))

	_, err = db.Exec(`DELETE FROM merchant_categories`)
	require.NoError(t, err)

	return store.New(db)
}

func TestStore_FindCategory(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMapping(ctx, "A_B", expense.CategoryParking))
	require.NoError(t, s.SaveMapping(ctx, "100%", expense.CategoryHotel))
	require.NoError(t, s.SaveMapping(ctx, "TAXI", expense.CategoryTaxi))
	require.NoError(t, s.SaveMapping(ctx, "TAXI SOL AEROPUERTO", expense.CategoryTransport))

	type testCase struct {
		name     string
		merchant string
		want     expense.Category
	}

	tests := []testCase{
		{name: "Contained", merchant: "PAGO A_B MADRID", want: expense.CategoryParking},
		{name: "UnderscoreIsLiteral", merchant: "AXB", want: ""},
		{name: "PercentIsLiteral", merchant: "HOTEL 1000", want: ""},
		{name: "PercentMatchesItself", merchant: "DESCUENTO 100% HOTEL", want: expense.CategoryHotel},
		{name: "LongestPatternWins", merchant: "TAXI SOL AEROPUERTO T4", want: expense.CategoryTransport},
		{name: "CaseInsensitive", merchant: "taxi centro", want: expense.CategoryTaxi},
		{name: "NoMatch", merchant: "RESTAURANTE", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FindCategory(ctx, tt.merchant)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
