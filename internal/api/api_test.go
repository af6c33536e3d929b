package api_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

func TestDate_JSON(t *testing.T) {
	var d api.Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-02"`), &d))
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), d.Time)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-05-02"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"02/05/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240502`), &d))
}

func TestEntry_AmountsAsNumbers(t *testing.T) {
	e := &expense.Entry{
		EntryDate:  time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Amounts:    expense.Amounts{Parking: decimal.NewNullDecimal(decimal.RequireFromString("10.5"))},
		DailyTotal: decimal.RequireFromString("10.5"),
	}

	out, err := json.Marshal(api.EntryFrom(e))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))

	assert.Equal(t, 10.5, got["parking_amount"])
	assert.Equal(t, 10.5, got["daily_total"])
	assert.Nil(t, got["taxi_amount"])
	assert.Equal(t, "2024-05-02", got["entry_date"])
}

func TestEntryUpdateRequest_Patch(t *testing.T) {
	var req api.EntryUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"taxi_amount": 12.5,
		"parking_amount": null,
		"receipt_google_drive_id": null,
		"entry_date": "2024-05-03"
	}`), &req))

	p := req.Patch()

	assert.Nil(t, p.NewSheetID)
	assert.True(t, p.EntryDate.Valid)
	assert.Equal(t, 3, p.EntryDate.V.Day())
	assert.False(t, p.MerchantName.Set)
	assert.True(t, p.ReceiptDriveID.Set)
	assert.False(t, p.ReceiptDriveID.Valid)

	require.Len(t, p.Amounts, 2)
	assert.True(t, p.Amounts[expense.CategoryTaxi].V.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, p.Amounts[expense.CategoryParking].Set)
	assert.False(t, p.Amounts[expense.CategoryParking].Valid)
}

func TestEntryUpdateRequest_OmitsUnsetFields(t *testing.T) {
	req := api.EntryUpdateRequest{}
	req.Location.Set = true

	out, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"location": null}`, string(out))
}
