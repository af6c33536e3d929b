package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/importer"
	"github.com/MrJamesThe3rd/gastos/internal/importer/statement"
)

type suggesterFunc func(ctx context.Context, merchant string) (expense.Category, error)

func (f suggesterFunc) Suggest(ctx context.Context, merchant string) (expense.Category, error) {
	return f(ctx, merchant)
}

const mayStatement = `Fecha;Concepto;Importe
02/05/2024;PARKING PLAZA MAYOR;-12,50
03/05/2024;TAXI MADRID;-9,80
05/05/2024;DEVOLUCION;4,00
30/04/2024;RESTAURANTE ABRIL;-30,00
`

func TestService_Plan(t *testing.T) {
	sheet := &expense.Sheet{Month: 5, Year: 2024, PaymentMethodFilter: new(expense.PaymentCash)}

	suggester := suggesterFunc(func(_ context.Context, merchant string) (expense.Category, error) {
		switch {
		case strings.HasPrefix(merchant, "PARKING"):
			return expense.CategoryParking, nil
		case strings.HasPrefix(merchant, "TAXI"):
			return "", errors.New("lookup failed")
		}

		return "", nil
	})

	svc := importer.NewService(statement.NewParser(), suggester)

	plan, err := svc.Plan(context.Background(), sheet, strings.NewReader(mayStatement))
	require.NoError(t, err)

	assert.Equal(t, "cuenta", plan.Profile)
	assert.Equal(t, 1, plan.Credits)

	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, "RESTAURANTE ABRIL", plan.Skipped[0].Description)
	assert.Equal(t, 5, plan.Skipped[0].Row)

	require.Len(t, plan.Entries, 2)

	parking := plan.Entries[0]
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), parking.EntryDate)
	assert.Equal(t, "PARKING PLAZA MAYOR", parking.MerchantName)
	assert.Equal(t, "EFECTIVO", parking.PaymentMethod)
	assert.True(t, decimal.RequireFromString("12.50").Equal(parking.Amounts.Parking.Decimal))

	taxi := plan.Entries[1]
	assert.False(t, taxi.Amounts.Taxi.Valid)
	assert.True(t, decimal.RequireFromString("9.80").Equal(taxi.Amounts.Miscellaneous.Decimal))
}

func TestService_Plan_NoSuggesterDefaultsToCard(t *testing.T) {
	svc := importer.NewService(statement.NewParser(), nil)

	plan, err := svc.Plan(context.Background(), &expense.Sheet{Month: 5, Year: 2024}, strings.NewReader(mayStatement))
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)

	for _, e := range plan.Entries {
		assert.Equal(t, "TARJETA", e.PaymentMethod)
		assert.True(t, e.Amounts.Miscellaneous.Valid)
	}
}

func TestService_Plan_ParseError(t *testing.T) {
	svc := importer.NewService(statement.NewParser(), nil)

	_, err := svc.Plan(context.Background(), &expense.Sheet{Month: 5, Year: 2024}, strings.NewReader("nope"))
	assert.ErrorIs(t, err, statement.ErrUnknownFormat)
}
