package expense_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

func TestValidateEntry(t *testing.T) {
	day := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name       string
		entry      expense.Entry
		wantFields []string
	}

	tests := []testCase{
		{
			name:  "ValidExpense",
			entry: expense.Entry{EntryDate: day, PaymentMethod: "TARJETA", Amounts: expense.Amounts{Taxi: nd("12")}},
		},
		{
			name:  "ValidMileageWithoutPaymentMethod",
			entry: expense.Entry{EntryDate: day, PaymentMethod: "N/A", Kilometers: nd("120"), KmRate: nd("0.14")},
		},
		{
			name:  "ZeroKilometersAllowed",
			entry: expense.Entry{EntryDate: day, Kilometers: nd("0"), KmRate: nd("0.14")},
		},
		{
			name:       "MissingDateAndType",
			entry:      expense.Entry{},
			wantFields: []string{"entry_date", "entry_type"},
		},
		{
			name:       "ExpenseWithoutPaymentMethod",
			entry:      expense.Entry{EntryDate: day, PaymentMethod: "N/A", Amounts: expense.Amounts{Hotel: nd("90")}},
			wantFields: []string{"payment_method"},
		},
		{
			name:       "NonPositiveAmount",
			entry:      expense.Entry{EntryDate: day, PaymentMethod: "EFECTIVO", Amounts: expense.Amounts{Lunch: nd("0"), Dinner: nd("-3")}},
			wantFields: []string{"lunch_amount", "dinner_amount"},
		},
		{
			name:       "NegativeKilometersAndZeroRate",
			entry:      expense.Entry{EntryDate: day, Kilometers: nd("-5"), KmRate: nd("0")},
			wantFields: []string{"kilometers", "km_rate"},
		},
		{
			name:       "AmountsFinerThanCents",
			entry:      expense.Entry{EntryDate: day, PaymentMethod: "TARJETA", Amounts: expense.Amounts{Parking: nd("10.005"), Taxi: nd("10.005")}},
			wantFields: []string{"parking_amount", "taxi_amount"},
		},
		{
			name:       "KilometersAndRateTooPrecise",
			entry:      expense.Entry{EntryDate: day, Kilometers: nd("12.345"), KmRate: nd("0.14005")},
			wantFields: []string{"kilometers", "km_rate"},
		},
		{
			name:  "RateWithFourDecimals",
			entry: expense.Entry{EntryDate: day, Kilometers: nd("12.5"), KmRate: nd("0.1425")},
		},
		{
			name:  "TrailingZerosAllowed",
			entry: expense.Entry{EntryDate: day, PaymentMethod: "EFECTIVO", Amounts: expense.Amounts{Hotel: nd("89.9000")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := expense.ValidateEntry(&tt.entry)

			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var ve *expense.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Len(t, ve.Fields, len(tt.wantFields))

			for _, f := range tt.wantFields {
				assert.Contains(t, ve.Fields, f)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	ve := &expense.ValidationError{}
	assert.NoError(t, ve.Err())

	ve.Add("name", "field required")
	ve.Add("currency", "must be an ISO 4217 currency code")
	ve.Add("name", "ignored")

	assert.Equal(t, "validation failed: currency: must be an ISO 4217 currency code; name: field required", ve.Error())
}
