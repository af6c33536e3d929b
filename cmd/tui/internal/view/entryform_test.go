package view

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/client"
	"github.com/MrJamesThe3rd/gastos/internal/optional"
)

var (
	cardSheet = api.Sheet{
		ID:                  uuid.MustParse("6f1c2b7e-1111-4a2b-9c3d-000000000001"),
		Name:                "Mayo",
		Currency:            "EUR",
		PaymentMethodFilter: new("TARJETA"),
	}
	legacySheet = api.Sheet{
		ID:       uuid.MustParse("6f1c2b7e-1111-4a2b-9c3d-000000000002"),
		Name:     "Abril",
		Currency: "EUR",
	}
	defaultRate = decimal.RequireFromString("0.14")
)

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestReduceEntryForm_StartAdd(t *testing.T) {
	today := time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC)

	s := reduceEntryForm(entryFormState{}, startAdd{sheet: cardSheet, today: today, kmRate: defaultRate})

	assert.False(t, s.editing())
	assert.True(t, s.paymentLocked)
	assert.Equal(t, entryInput{
		Date:          "2024-05-20",
		SheetID:       cardSheet.ID.String(),
		Types:         []string{typeExpense},
		PaymentMethod: "TARJETA",
		KmRate:        "0.14",
	}, s.input)
}

func TestReduceEntryForm_StartEdit(t *testing.T) {
	type testCase struct {
		name        string
		sheet       api.Sheet
		entry       api.Entry
		wantTypes   []string
		wantPayment string
		wantInput   func(t *testing.T, in entryInput)
	}

	date := api.DateOf(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))

	tests := []testCase{
		{
			name:        "Expense",
			sheet:       legacySheet,
			entry:       api.Entry{ID: uuid.New(), EntryDate: date, PaymentMethod: "EFECTIVO", HotelAmount: nd("90.5"), ReceiptDriveID: "f1"},
			wantTypes:   []string{typeExpense},
			wantPayment: "EFECTIVO",
			wantInput: func(t *testing.T, in entryInput) {
				assert.Equal(t, "hotel", in.Category)
				assert.Equal(t, "90.5", in.Amount)
				assert.Equal(t, "0.14", in.KmRate)
			},
		},
		{
			name:        "MileageOnlyDropsNotApplicable",
			sheet:       legacySheet,
			entry:       api.Entry{ID: uuid.New(), EntryDate: date, PaymentMethod: "N/A", Kilometers: nd("120"), KmRate: nd("0.19")},
			wantTypes:   []string{typeMileage},
			wantPayment: "",
			wantInput: func(t *testing.T, in entryInput) {
				assert.Equal(t, "120", in.Kilometers)
				assert.Equal(t, "0.19", in.KmRate)
			},
		},
		{
			name:        "BothOnCardSheet",
			sheet:       cardSheet,
			entry:       api.Entry{ID: uuid.New(), EntryDate: date, PaymentMethod: "EFECTIVO", TaxiAmount: nd("12"), Kilometers: nd("0")},
			wantTypes:   []string{typeExpense, typeMileage},
			wantPayment: "TARJETA",
		},
		{
			name:        "EmptyEntryDefaultsToExpense",
			sheet:       legacySheet,
			entry:       api.Entry{ID: uuid.New(), EntryDate: date},
			wantTypes:   []string{typeExpense},
			wantPayment: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := reduceEntryForm(entryFormState{}, startEdit{sheet: tt.sheet, entry: tt.entry, kmRate: defaultRate})

			assert.True(t, s.editing())
			assert.Equal(t, "2024-05-02", s.input.Date)
			assert.Equal(t, tt.sheet.ID.String(), s.input.SheetID)
			assert.Equal(t, tt.wantTypes, s.input.Types)
			assert.Equal(t, tt.wantPayment, s.input.PaymentMethod)
			assert.Equal(t, tt.entry.ReceiptDriveID, s.receipt.DriveID)

			if tt.wantInput != nil {
				tt.wantInput(t, s.input)
			}
		})
	}
}

func TestReduceEntryForm_EditInput(t *testing.T) {
	s := reduceEntryForm(entryFormState{}, startAdd{sheet: cardSheet, today: time.Now(), kmRate: defaultRate})

	in := s.input
	in.PaymentMethod = "EFECTIVO"
	in.ReceiptPath = "/tmp/ticket.jpg"

	s = reduceEntryForm(s, editInput{input: in})
	assert.Equal(t, "TARJETA", s.input.PaymentMethod, "sheet filter wins")
	assert.Equal(t, "/tmp/ticket.jpg", s.input.ReceiptPath)

	in = s.input
	in.Types = []string{typeMileage}

	s = reduceEntryForm(s, editInput{input: in})
	assert.Empty(t, s.input.ReceiptPath, "mileage entries carry no receipt")
}

func TestReduceEntryForm_RemoveReceipt(t *testing.T) {
	withReceipt := reduceEntryForm(entryFormState{}, startEdit{
		sheet:  legacySheet,
		entry:  api.Entry{ID: uuid.New(), PaymentMethod: "EFECTIVO", TaxiAmount: nd("5"), ReceiptDriveID: "f1"},
		kmRate: defaultRate,
	})

	s := reduceEntryForm(withReceipt, removeReceipt{})
	assert.True(t, s.receiptRemoved)

	s = reduceEntryForm(entryFormState{}, startAdd{sheet: legacySheet, today: time.Now(), kmRate: defaultRate})
	s = reduceEntryForm(s, removeReceipt{})
	assert.False(t, s.receiptRemoved)
}

func TestReduceEntryForm_Submit(t *testing.T) {
	base := entryInput{
		Date:          "2024-05-02",
		SheetID:       legacySheet.ID.String(),
		Types:         []string{typeExpense},
		PaymentMethod: "EFECTIVO",
		Category:      "taxi",
		Amount:        "12,40",
		KmRate:        "0.14",
	}

	type testCase struct {
		name       string
		edit       func(in *entryInput)
		wantErrors map[string]string
	}

	tests := []testCase{
		{name: "ValidExpenseWithDecimalComma", edit: func(*entryInput) {}},
		{
			name: "NoType",
			edit: func(in *entryInput) { in.Types = nil },
			wantErrors: map[string]string{
				"types": "select at least one entry type (expense or mileage)",
			},
		},
		{
			name: "ExpenseFields",
			edit: func(in *entryInput) {
				in.PaymentMethod = " "
				in.Category = ""
				in.Amount = "0"
				in.ReceiptPath = "ticket.gif"
			},
			wantErrors: map[string]string{
				"payment_method": "payment method is required for expenses",
				"category":       "category is required for expenses",
				"amount":         "amount must be positive",
				"receipt":        "receipt must be a JPEG, PNG or PDF file",
			},
		},
		{
			name: "MileageFields",
			edit: func(in *entryInput) {
				in.Types = []string{typeMileage}
				in.Kilometers = "-4"
				in.KmRate = "abc"
			},
			wantErrors: map[string]string{
				"kilometers": "kilometers cannot be negative",
				"km_rate":    "rate must be a number",
			},
		},
		{
			name: "ZeroKilometersAllowed",
			edit: func(in *entryInput) {
				in.Types = []string{typeMileage}
				in.Kilometers = "0"
			},
		},
		{
			name: "BadDate",
			edit: func(in *entryInput) { in.Date = "02/05/2024" },
			wantErrors: map[string]string{
				"date": "date must be YYYY-MM-DD",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.edit(&in)

			s := reduceEntryForm(entryFormState{sheet: legacySheet}, editInput{input: in})
			s = reduceEntryForm(s, submit{})

			if len(tt.wantErrors) == 0 {
				assert.Empty(t, s.errors)
				assert.True(t, s.submitting)

				return
			}

			assert.Equal(t, tt.wantErrors, s.errors)
			assert.False(t, s.submitting)
			assert.True(t, s.failed)
		})
	}
}

func TestReduceEntryForm_SubmitFailed(t *testing.T) {
	s := entryFormState{submitting: true}

	s = reduceEntryForm(s, submitFailed{err: &client.APIError{
		Status: 422,
		Errors: []api.FieldError{
			{Loc: []string{"body", "entry_date"}, Msg: "entry date is required"},
			{Loc: []string{"body", "taxi_amount"}, Msg: "amount must be greater than 0"},
		},
	}})

	assert.False(t, s.submitting)
	assert.True(t, s.failed)
	assert.Equal(t, map[string]string{
		"date":   "entry date is required",
		"amount": "amount must be greater than 0",
	}, s.errors)

	s = reduceEntryForm(entryFormState{submitting: true}, submitFailed{err: errors.New("connection refused")})
	assert.Equal(t, "connection refused", s.status)
	assert.Empty(t, s.errors)
}

func TestEntryFormState_CreateRequest(t *testing.T) {
	s := reduceEntryForm(entryFormState{}, startAdd{sheet: cardSheet, today: time.Now(), kmRate: defaultRate})

	in := s.input
	in.Date = "2024-05-02"
	in.Types = []string{typeExpense, typeMileage}
	in.Merchant = " Taxi Madrid "
	in.Category = "taxi"
	in.Amount = "12,40"
	in.Kilometers = "100"
	s = reduceEntryForm(s, editInput{input: in})

	req := s.createRequest(&api.ReceiptUploadResponse{GoogleFileID: "f9", FileName: "2024-05-02.jpg"})

	assert.Equal(t, "2024-05-02", req.EntryDate.String())
	assert.Equal(t, "Taxi Madrid", req.MerchantName)
	assert.Equal(t, "TARJETA", req.PaymentMethod)
	assert.Equal(t, "12.4", req.TaxiAmount.Decimal.String())
	assert.False(t, req.HotelAmount.Valid)
	assert.Equal(t, "100", req.Kilometers.Decimal.String())
	assert.Equal(t, "0.14", req.KmRate.Decimal.String())
	assert.Equal(t, "f9", req.ReceiptDriveID)
	assert.Equal(t, "2024-05-02.jpg", req.ReceiptFileName)

	in.Types = []string{typeMileage}
	s = reduceEntryForm(s, editInput{input: in})

	req = s.createRequest(nil)
	assert.Equal(t, "N/A", req.PaymentMethod)
	assert.False(t, req.TaxiAmount.Valid)
	assert.Empty(t, req.MerchantName)
}

func TestEntryFormState_UpdateRequest(t *testing.T) {
	entry := api.Entry{
		ID:             uuid.New(),
		EntryDate:      api.DateOf(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)),
		PaymentMethod:  "EFECTIVO",
		HotelAmount:    nd("90"),
		Project:        "Obra 12",
		ReceiptDriveID: "f1",
	}

	edit := func(t *testing.T, change func(in *entryInput), actions ...entryAction) entryFormState {
		t.Helper()

		s := reduceEntryForm(entryFormState{}, startEdit{sheet: legacySheet, entry: entry, kmRate: defaultRate})

		in := s.input
		change(&in)

		s = reduceEntryForm(s, editInput{input: in})
		for _, a := range actions {
			s = reduceEntryForm(s, a)
		}

		return s
	}

	t.Run("KeepsStoredReceipt", func(t *testing.T) {
		s := edit(t, func(in *entryInput) { in.Amount = "95" })
		req := s.updateRequest(nil)

		assert.False(t, req.ReceiptDriveID.Set)
		assert.False(t, req.NewSheetID.Set)
		assert.Equal(t, optional.Of(decimal.RequireFromString("95")), req.HotelAmount)
		assert.Equal(t, optional.Null[decimal.Decimal](), req.TaxiAmount)
		assert.Equal(t, optional.Of("Obra 12"), req.Project)
		assert.Equal(t, optional.Null[string](), req.Company)
	})

	t.Run("RemovedReceiptIsCleared", func(t *testing.T) {
		s := edit(t, func(*entryInput) {}, removeReceipt{})
		req := s.updateRequest(nil)

		assert.Equal(t, optional.Null[string](), req.ReceiptDriveID)
		assert.Equal(t, optional.Null[string](), req.ReceiptFileName)
	})

	t.Run("UploadedReceiptReplaces", func(t *testing.T) {
		s := edit(t, func(in *entryInput) { in.ReceiptPath = "/tmp/new.pdf" })
		req := s.updateRequest(&api.ReceiptUploadResponse{GoogleFileID: "f2", FileName: "2024-05-02_Obra 12.pdf"})

		assert.Equal(t, optional.Of("f2"), req.ReceiptDriveID)
		assert.Equal(t, optional.Of("2024-05-02_Obra 12.pdf"), req.ReceiptFileName)
		assert.Equal(t, optional.Null[string](), req.ReceiptWebViewLink)
	})

	t.Run("MoveToMileageOnOtherSheet", func(t *testing.T) {
		s := edit(t, func(in *entryInput) {
			in.SheetID = cardSheet.ID.String()
			in.Types = []string{typeMileage}
			in.Kilometers = "50"
		})
		req := s.updateRequest(nil)

		assert.Equal(t, optional.Of(cardSheet.ID), req.NewSheetID)
		assert.Equal(t, optional.Of("N/A"), req.PaymentMethod)
		assert.Equal(t, optional.Null[decimal.Decimal](), req.HotelAmount)
		assert.Equal(t, optional.Of(decimal.RequireFromString("50")), req.Kilometers)
		assert.Equal(t, optional.Null[string](), req.ReceiptDriveID)
	})
}
