package expense_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/optional"
)

var (
	owner     = expense.Actor{UserID: "user-1", FirstName: "Ana", LastName: "García"}
	stranger  = expense.Actor{UserID: "user-2"}
	validator = expense.Actor{UserID: "boss", Validator: true}
)

func pendingSheet(id uuid.UUID, entries ...*expense.Entry) *expense.Sheet {
	for _, e := range entries {
		e.SheetID = id
		expense.ComputeEntry(e, expense.DefaultKmRate)
	}

	return &expense.Sheet{
		ID:          id,
		UserID:      owner.UserID,
		Status:      expense.StatusPendingValidation,
		Currency:    "EUR",
		Entries:     entries,
		TotalAmount: expense.SheetTotal(entries),
	}
}

func parkingEntry(amount string) *expense.Entry {
	return &expense.Entry{
		ID:            uuid.New(),
		EntryDate:     time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		MerchantName:  "Parking Centro",
		PaymentMethod: "TARJETA",
		Amounts:       expense.Amounts{Parking: nd(amount)},
	}
}

func TestService_CreateSheet(t *testing.T) {
	type args struct {
		params expense.CreateSheetParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *expense.MockRepository)
		wantErr   bool
		wantField string
	}

	valid := expense.CreateSheetParams{
		Name:                "Mayo",
		Month:               5,
		Year:                2024,
		Currency:            "eur",
		PaymentMethodFilter: expense.PaymentCard,
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{params: valid},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					CreateSheet(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, s *expense.Sheet) error {
						s.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name: "MissingPaymentMethodFilter",
			args: args{params: expense.CreateSheetParams{
				Name:     "Mayo",
				Month:    5,
				Year:     2024,
				Currency: "EUR",
			}},
			wantErr:   true,
			wantField: "payment_method_filter",
		},
		{
			name: "InvalidMonth",
			args: args{params: func() expense.CreateSheetParams {
				p := valid
				p.Month = 13
				return p
			}()},
			wantErr:   true,
			wantField: "month",
		},
		{
			name: "NegativeAnticipo",
			args: args{params: func() expense.CreateSheetParams {
				p := valid
				p.Anticipo = dec("-1")
				return p
			}()},
			wantErr:   true,
			wantField: "anticipo",
		},
		{
			name: "RepoError",
			args: args{params: valid},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					CreateSheet(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := expense.NewService(repo, nil, nil, expense.DefaultKmRate)
			got, err := svc.CreateSheet(context.Background(), owner, tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				if tt.wantField != "" {
					var ve *expense.ValidationError
					require.True(t, errors.As(err, &ve))
					assert.Contains(t, ve.Fields, tt.wantField)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, "EUR", got.Currency)
			assert.Equal(t, expense.StatusPendingValidation, got.Status)
			assert.Equal(t, "Ana García", got.UserName)
			assert.Equal(t, owner.UserID, got.UserID)
			assert.True(t, got.TotalAmount.IsZero())
		})
	}
}

func TestService_ListSheets(t *testing.T) {
	type testCase struct {
		name      string
		actor     expense.Actor
		setupMock func(m *expense.MockRepository)
	}

	tests := []testCase{
		{
			name:  "OwnerSeesOwnSheets",
			actor: owner,
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					ListSheets(gomock.Any(), expense.ListFilter{UserID: new(owner.UserID)}).
					Return([]*expense.Sheet{{ID: uuid.New()}}, nil)
			},
		},
		{
			name:  "ValidatorSeesEverything",
			actor: validator,
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					ListSheets(gomock.Any(), expense.ListFilter{}).
					Return([]*expense.Sheet{{ID: uuid.New()}}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := expense.NewService(repo, nil, nil, expense.DefaultKmRate)
			got, err := svc.ListSheets(context.Background(), tt.actor, expense.ListFilter{})

			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestService_GetSheet(t *testing.T) {
	sheetID := uuid.New()

	type testCase struct {
		name      string
		actor     expense.Actor
		setupMock func(m *expense.MockRepository)
		wantTotal string
		wantErr   error
	}

	tests := []testCase{
		{
			name:  "UpToDate",
			actor: owner,
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().GetSheet(gomock.Any(), sheetID).Return(pendingSheet(sheetID, parkingEntry("10")), nil)
			},
			wantTotal: "10",
		},
		{
			name:  "StaleTotalRecalculated",
			actor: owner,
			setupMock: func(m *expense.MockRepository) {
				s := pendingSheet(sheetID, parkingEntry("10"), parkingEntry("5.25"))
				s.TotalAmount = decimal.Zero

				m.EXPECT().GetSheet(gomock.Any(), sheetID).Return(s, nil)
				m.EXPECT().
					UpdateSheetTotal(gomock.Any(), sheetID, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ uuid.UUID, total decimal.Decimal) error {
						assert.True(t, dec("15.25").Equal(total))
						return nil
					})
			},
			wantTotal: "15.25",
		},
		{
			name:  "RecalculationPersistFailureIgnored",
			actor: owner,
			setupMock: func(m *expense.MockRepository) {
				s := pendingSheet(sheetID, parkingEntry("7"))
				s.TotalAmount = dec("1")

				m.EXPECT().GetSheet(gomock.Any(), sheetID).Return(s, nil)
				m.EXPECT().UpdateSheetTotal(gomock.Any(), sheetID, gomock.Any()).Return(errors.New("db down"))
			},
			wantTotal: "7",
		},
		{
			name:  "Forbidden",
			actor: stranger,
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().GetSheet(gomock.Any(), sheetID).Return(pendingSheet(sheetID), nil)
			},
			wantErr: expense.ErrForbidden,
		},
		{
			name:  "ValidatorMayReadAnySheet",
			actor: validator,
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().GetSheet(gomock.Any(), sheetID).Return(pendingSheet(sheetID), nil)
			},
			wantTotal: "0",
		},
		{
			name:  "NotFound",
			actor: owner,
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().GetSheet(gomock.Any(), sheetID).Return(nil, expense.ErrSheetNotFound)
			},
			wantErr: expense.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := expense.NewService(repo, nil, nil, expense.DefaultKmRate)
			got, err := svc.GetSheet(context.Background(), tt.actor, sheetID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.True(t, dec(tt.wantTotal).Equal(got.TotalAmount), "total %s", got.TotalAmount)
		})
	}
}

func TestService_UpdateSheet(t *testing.T) {
	sheetID := uuid.New()

	type args struct {
		actor  expense.Actor
		params expense.UpdateSheetParams
	}

	type testCase struct {
		name       string
		args       args
		status     expense.Status
		expectSave bool
		wantStatus expense.Status
		wantErr    error
		wantField  string
	}

	tests := []testCase{
		{
			name:       "OwnerRenames",
			args:       args{actor: owner, params: expense.UpdateSheetParams{Name: new("Mayo bis")}},
			status:     expense.StatusPendingValidation,
			expectSave: true,
			wantStatus: expense.StatusPendingValidation,
		},
		{
			name:    "OwnerCannotValidate",
			args:    args{actor: owner, params: expense.UpdateSheetParams{Status: new(expense.StatusValidated)}},
			status:  expense.StatusPendingValidation,
			wantErr: expense.ErrForbidden,
		},
		{
			name:       "ValidatorApproves",
			args:       args{actor: validator, params: expense.UpdateSheetParams{Status: new(expense.StatusValidated)}},
			status:     expense.StatusPendingValidation,
			expectSave: true,
			wantStatus: expense.StatusValidated,
		},
		{
			name:      "RejectWithoutComments",
			args:      args{actor: validator, params: expense.UpdateSheetParams{Status: new(expense.StatusRejected)}},
			status:    expense.StatusPendingValidation,
			wantField: "comments",
		},
		{
			name: "RejectWithComments",
			args: args{actor: validator, params: expense.UpdateSheetParams{
				Status:   new(expense.StatusRejected),
				Comments: new("Falta el ticket del hotel"),
			}},
			status:     expense.StatusPendingValidation,
			expectSave: true,
			wantStatus: expense.StatusRejected,
		},
		{
			name:       "OwnerResubmitsRejected",
			args:       args{actor: owner, params: expense.UpdateSheetParams{Status: new(expense.StatusPendingValidation)}},
			status:     expense.StatusRejected,
			expectSave: true,
			wantStatus: expense.StatusPendingValidation,
		},
		{
			name:    "ValidatedIsLocked",
			args:    args{actor: validator, params: expense.UpdateSheetParams{Status: new(expense.StatusPendingValidation)}},
			status:  expense.StatusValidated,
			wantErr: expense.ErrSheetLocked,
		},
		{
			name:    "StrangerForbidden",
			args:    args{actor: stranger, params: expense.UpdateSheetParams{Name: new("Mio")}},
			status:  expense.StatusPendingValidation,
			wantErr: expense.ErrForbidden,
		},
		{
			name:      "InvalidCurrency",
			args:      args{actor: owner, params: expense.UpdateSheetParams{Currency: new("EURO")}},
			wantField: "currency",
		},
		{
			name:      "AnticipoFinerThanCents",
			args:      args{actor: owner, params: expense.UpdateSheetParams{Anticipo: new(dec("50.005"))}},
			wantField: "anticipo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			tx := expense.NewMockSheetTx(ctrl)

			if tt.status != "" {
				sheet := pendingSheet(sheetID)
				sheet.Status = tt.status

				if tt.status == expense.StatusRejected {
					sheet.Comments = "missing receipts"
				}

				calls := []any{
					repo.EXPECT().BeginSheetTx(gomock.Any(), sheetID).Return(tx, nil),
					tx.EXPECT().GetSheet(gomock.Any(), sheetID).Return(sheet, nil),
				}

				if tt.expectSave {
					calls = append(calls,
						tx.EXPECT().UpdateSheet(gomock.Any(), gomock.Any()).Return(nil),
						tx.EXPECT().Commit().Return(nil),
					)
				}

				gomock.InOrder(calls...)
				tx.EXPECT().Rollback().Return(nil)
			}

			svc := expense.NewService(repo, nil, nil, expense.DefaultKmRate)
			got, err := svc.UpdateSheet(context.Background(), tt.args.actor, sheetID, tt.args.params)

			if tt.wantField != "" {
				var ve *expense.ValidationError
				require.True(t, errors.As(err, &ve), "got %v", err)
				assert.Contains(t, ve.Fields, tt.wantField)

				return
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestService_DeleteSheet(t *testing.T) {
	sheetID := uuid.New()

	withReceipt := parkingEntry("3")
	withReceipt.Receipt = expense.Receipt{DriveID: "drive-1", FileName: "2024-05-02.pdf"}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	tx := expense.NewMockSheetTx(ctrl)
	janitor := expense.NewMockReceiptJanitor(ctrl)

	// Receipts are collected from the sheet as read under the lock.
	gomock.InOrder(
		repo.EXPECT().BeginSheetTx(gomock.Any(), sheetID).Return(tx, nil),
		tx.EXPECT().GetSheet(gomock.Any(), sheetID).Return(pendingSheet(sheetID, withReceipt, parkingEntry("4")), nil),
		tx.EXPECT().DeleteSheet(gomock.Any(), sheetID).Return(nil),
		tx.EXPECT().Commit().Return(nil),
		janitor.EXPECT().Discard(gomock.Any(), []string{"drive-1"}).Return(nil),
	)
	tx.EXPECT().Rollback().Return(nil)

	svc := expense.NewService(repo, janitor, nil, expense.DefaultKmRate)
	require.NoError(t, svc.DeleteSheet(context.Background(), owner, sheetID))
}

func TestService_DeleteSheet_Validated(t *testing.T) {
	sheetID := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	tx := expense.NewMockSheetTx(ctrl)

	locked := pendingSheet(sheetID)
	locked.Status = expense.StatusValidated

	repo.EXPECT().BeginSheetTx(gomock.Any(), sheetID).Return(tx, nil)
	tx.EXPECT().GetSheet(gomock.Any(), sheetID).Return(locked, nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := expense.NewService(repo, nil, nil, expense.DefaultKmRate)
	assert.ErrorIs(t, svc.DeleteSheet(context.Background(), owner, sheetID), expense.ErrSheetLocked)
}

func TestService_AddEntry(t *testing.T) {
	sheetID := uuid.New()
	day := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		params    expense.EntryParams
		setupMock func(repo *expense.MockRepository, tx *expense.MockSheetTx, learner *expense.MockCategoryLearner)
		wantTotal string
		wantErr   error
		wantField string
	}

	tests := []testCase{
		{
			name: "Success",
			params: expense.EntryParams{
				EntryDate:     day,
				MerchantName:  " Parking Centro ",
				PaymentMethod: "TARJETA",
				Amounts:       expense.Amounts{Parking: nd("10")},
				Kilometers:    nd("100"),
			},
			setupMock: func(repo *expense.MockRepository, tx *expense.MockSheetTx, learner *expense.MockCategoryLearner) {
				var created *expense.Entry

				gomock.InOrder(
					repo.EXPECT().BeginSheetTx(gomock.Any(), sheetID).Return(tx, nil),
					tx.EXPECT().GetSheet(gomock.Any(), sheetID).Return(pendingSheet(sheetID), nil),
					tx.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, e *expense.Entry) error {
							e.ID = uuid.New()
							created = e

							return nil
						}),
					tx.EXPECT().GetSheet(gomock.Any(), sheetID).
						DoAndReturn(func(context.Context, uuid.UUID) (*expense.Sheet, error) {
							s := pendingSheet(sheetID)
							s.Entries = []*expense.Entry{created}

							return s, nil
						}),
					tx.EXPECT().UpdateSheetTotal(gomock.Any(), sheetID, gomock.Any()).
						DoAndReturn(func(_ context.Context, _ uuid.UUID, total decimal.Decimal) error {
							assert.True(t, dec("24").Equal(total))
							return nil
						}),
					tx.EXPECT().Commit().Return(nil),
				)
				tx.EXPECT().Rollback().Return(nil)
				learner.EXPECT().Learn(gomock.Any(), "Parking Centro", expense.CategoryParking).Return(nil)
			},
			wantTotal: "24",
		},
		{
			name:      "NoEntryType",
			params:    expense.EntryParams{EntryDate: day, PaymentMethod: "TARJETA"},
			wantField: "entry_type",
		},
		{
			name: "AmountsFinerThanCents",
			params: expense.EntryParams{
				EntryDate:     day,
				PaymentMethod: "TARJETA",
				Amounts:       expense.Amounts{Parking: nd("10.005"), Taxi: nd("10.005")},
			},
			wantField: "parking_amount",
		},
		{
			name: "SheetLocked",
			params: expense.EntryParams{
				EntryDate:  day,
				Kilometers: nd("12"),
			},
			setupMock: func(repo *expense.MockRepository, tx *expense.MockSheetTx, _ *expense.MockCategoryLearner) {
				locked := pendingSheet(sheetID)
				locked.Status = expense.StatusValidated

				repo.EXPECT().BeginSheetTx(gomock.Any(), sheetID).Return(tx, nil)
				tx.EXPECT().GetSheet(gomock.Any(), sheetID).Return(locked, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: expense.ErrSheetLocked,
		},
		{
			name: "Forbidden",
			params: expense.EntryParams{
				EntryDate:  day,
				Kilometers: nd("12"),
			},
			setupMock: func(repo *expense.MockRepository, tx *expense.MockSheetTx, _ *expense.MockCategoryLearner) {
				other := pendingSheet(sheetID)
				other.UserID = "someone-else"

				repo.EXPECT().BeginSheetTx(gomock.Any(), sheetID).Return(tx, nil)
				tx.EXPECT().GetSheet(gomock.Any(), sheetID).Return(other, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: expense.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			tx := expense.NewMockSheetTx(ctrl)
			learner := expense.NewMockCategoryLearner(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tx, learner)
			}

			svc := expense.NewService(repo, nil, learner, expense.DefaultKmRate)
			got, err := svc.AddEntry(context.Background(), owner, sheetID, tt.params)

			if tt.wantField != "" {
				var ve *expense.ValidationError
				require.True(t, errors.As(err, &ve), "got %v", err)
				assert.Contains(t, ve.Fields, tt.wantField)

				return
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, got.Entries, 1)
			assert.Equal(t, "Parking Centro", got.Entries[0].MerchantName)
			assert.True(t, dec(tt.wantTotal).Equal(got.TotalAmount))
		})
	}
}

func TestService_UpdateEntry_MoveUpdatesBothTotals(t *testing.T) {
	sourceID := uuid.New()
	targetID := uuid.New()

	moved := parkingEntry("10")
	kept := parkingEntry("4")
	entryID := moved.ID

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	tx := expense.NewMockSheetTx(ctrl)

	totals := map[uuid.UUID]decimal.Decimal{}
	recordTotal := func(_ context.Context, id uuid.UUID, total decimal.Decimal) error {
		totals[id] = total
		return nil
	}

	gomock.InOrder(
		repo.EXPECT().BeginSheetTx(gomock.Any(), sourceID, targetID).Return(tx, nil),
		tx.EXPECT().GetSheet(gomock.Any(), sourceID).Return(pendingSheet(sourceID, moved, kept), nil),
		tx.EXPECT().GetSheet(gomock.Any(), targetID).Return(pendingSheet(targetID), nil),
		tx.EXPECT().UpdateEntry(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *expense.Entry) error {
				assert.Equal(t, targetID, e.SheetID)
				assert.True(t, dec("12").Equal(e.DailyTotal))

				return nil
			}),
		tx.EXPECT().GetSheet(gomock.Any(), sourceID).Return(pendingSheet(sourceID, parkingEntry("4")), nil),
		tx.EXPECT().UpdateSheetTotal(gomock.Any(), sourceID, gomock.Any()).DoAndReturn(recordTotal),
		tx.EXPECT().GetSheet(gomock.Any(), targetID).
			DoAndReturn(func(context.Context, uuid.UUID) (*expense.Sheet, error) {
				e := parkingEntry("12")
				e.ID = entryID

				return pendingSheet(targetID, e), nil
			}),
		tx.EXPECT().UpdateSheetTotal(gomock.Any(), targetID, gomock.Any()).DoAndReturn(recordTotal),
		tx.EXPECT().Commit().Return(nil),
	)
	tx.EXPECT().Rollback().Return(nil)

	svc := expense.NewService(repo, nil, nil, expense.DefaultKmRate)
	got, err := svc.UpdateEntry(context.Background(), owner, sourceID, entryID, expense.EntryPatch{
		NewSheetID: &targetID,
		Amounts: map[expense.Category]optional.Value[decimal.Decimal]{
			expense.CategoryParking: optional.Of(dec("12")),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, targetID, got.ID)
	assert.True(t, dec("4").Equal(totals[sourceID]))
	assert.True(t, dec("12").Equal(totals[targetID]))
}

func TestService_UpdateEntry_ReplacedReceiptDiscarded(t *testing.T) {
	sheetID := uuid.New()

	entry := parkingEntry("10")
	entry.Receipt = expense.Receipt{DriveID: "old", WebViewLink: "https://drive/old", FileName: "old.pdf"}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	tx := expense.NewMockSheetTx(ctrl)
	janitor := expense.NewMockReceiptJanitor(ctrl)

	repo.EXPECT().BeginSheetTx(gomock.Any(), sheetID).Return(tx, nil)
	tx.EXPECT().GetSheet(gomock.Any(), sheetID).Return(pendingSheet(sheetID, entry), nil).Times(2)
	tx.EXPECT().UpdateEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *expense.Entry) error {
			assert.Equal(t, expense.Receipt{DriveID: "new", FileName: "2024-05-02.pdf"}, e.Receipt)
			return nil
		})
	tx.EXPECT().UpdateSheetTotal(gomock.Any(), sheetID, gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)
	janitor.EXPECT().Discard(gomock.Any(), []string{"old"}).Return(nil)

	svc := expense.NewService(repo, janitor, nil, expense.DefaultKmRate)
	_, err := svc.UpdateEntry(context.Background(), owner, sheetID, entry.ID, expense.EntryPatch{
		ReceiptDriveID:  optional.Of("new"),
		ReceiptFileName: optional.Of("2024-05-02.pdf"),
	})

	require.NoError(t, err)
}

func TestService_DeleteEntry(t *testing.T) {
	sheetID := uuid.New()

	entry := parkingEntry("10")
	entry.Receipt = expense.Receipt{DriveID: "drive-9"}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	tx := expense.NewMockSheetTx(ctrl)
	janitor := expense.NewMockReceiptJanitor(ctrl)

	gomock.InOrder(
		repo.EXPECT().BeginSheetTx(gomock.Any(), sheetID).Return(tx, nil),
		tx.EXPECT().GetSheet(gomock.Any(), sheetID).Return(pendingSheet(sheetID, entry), nil),
		tx.EXPECT().DeleteEntry(gomock.Any(), entry.ID).Return(nil),
		tx.EXPECT().GetSheet(gomock.Any(), sheetID).Return(pendingSheet(sheetID), nil),
		tx.EXPECT().UpdateSheetTotal(gomock.Any(), sheetID, gomock.Any()).Return(nil),
		tx.EXPECT().Commit().Return(nil),
		janitor.EXPECT().Discard(gomock.Any(), []string{"drive-9"}).Return(nil),
	)
	tx.EXPECT().Rollback().Return(nil)

	svc := expense.NewService(repo, janitor, nil, expense.DefaultKmRate)
	got, err := svc.DeleteEntry(context.Background(), owner, sheetID, entry.ID)

	require.NoError(t, err)
	assert.Empty(t, got.Entries)
	assert.True(t, got.TotalAmount.IsZero())
}

func TestService_DeleteEntry_UnknownEntry(t *testing.T) {
	sheetID := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	tx := expense.NewMockSheetTx(ctrl)

	repo.EXPECT().BeginSheetTx(gomock.Any(), sheetID).Return(tx, nil)
	tx.EXPECT().GetSheet(gomock.Any(), sheetID).Return(pendingSheet(sheetID), nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := expense.NewService(repo, nil, nil, expense.DefaultKmRate)
	_, err := svc.DeleteEntry(context.Background(), owner, sheetID, uuid.New())

	assert.ErrorIs(t, err, expense.ErrEntryNotFound)
	assert.ErrorIs(t, err, expense.ErrNotFound)
}
