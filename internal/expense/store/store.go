package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectSheetColumns = `
	s.id, s.user_id, s.user_name, s.creator_first_name, s.creator_last_name, s.name,
	s.month, s.year, s.currency, s.payment_method_filter, s.status, s.comments,
	s.anticipo, s.total_amount, s.created_at, s.updated_at
`

// scanSheet reads a sheet row in selectSheetColumns order.
func scanSheet(s scanner) (*expense.Sheet, error) {
	var sh expense.Sheet

	var userName, firstName, lastName, filter, comments sql.NullString

	var status string

	if err := s.Scan(
		&sh.ID, &sh.UserID, &userName, &firstName, &lastName, &sh.Name,
		&sh.Month, &sh.Year, &sh.Currency, &filter, &status, &comments,
		&sh.Anticipo, &sh.TotalAmount, &sh.CreatedAt, &sh.UpdatedAt,
	); err != nil {
		return nil, err
	}

	sh.UserName = userName.String
	sh.CreatorFirstName = firstName.String
	sh.CreatorLastName = lastName.String
	sh.Status = expense.Status(status)
	sh.Comments = comments.String

	if filter.Valid {
		sh.PaymentMethodFilter = new(expense.PaymentMethodFilter(filter.String))
	}

	return &sh, nil
}

const selectEntryColumns = `
	e.id, e.expense_sheet_id, e.entry_date, e.merchant_name, e.payment_method,
	e.project, e.company, e.location,
	e.receipt_google_drive_id, e.receipt_web_view_link, e.receipt_web_content_link, e.receipt_file_name,
	e.parking_amount, e.taxi_amount, e.transport_amount, e.hotel_amount,
	e.lunch_amount, e.dinner_amount, e.miscellaneous_amount,
	e.kilometers, e.km_rate, e.km_amount, e.daily_total, e.created_at, e.updated_at
`

// scanEntry reads an entry row in selectEntryColumns order.
func scanEntry(s scanner) (*expense.Entry, error) {
	var e expense.Entry

	var merchant, payment, project, company, location sql.NullString

	var driveID, viewLink, contentLink, fileName sql.NullString

	a := &e.Amounts

	if err := s.Scan(
		&e.ID, &e.SheetID, &e.EntryDate, &merchant, &payment,
		&project, &company, &location,
		&driveID, &viewLink, &contentLink, &fileName,
		&a.Parking, &a.Taxi, &a.Transport, &a.Hotel,
		&a.Lunch, &a.Dinner, &a.Miscellaneous,
		&e.Kilometers, &e.KmRate, &e.KmAmount, &e.DailyTotal, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.MerchantName = merchant.String
	e.PaymentMethod = payment.String
	e.Project = project.String
	e.Company = company.String
	e.Location = location.String
	e.Receipt = expense.Receipt{
		DriveID:        driveID.String,
		WebViewLink:    viewLink.String,
		WebContentLink: contentLink.String,
		FileName:       fileName.String,
	}

	return &e, nil
}

// nullString stores empty strings as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) CreateSheet(ctx context.Context, sh *expense.Sheet) error {
	query := `
		INSERT INTO expense_sheets (
			user_id, user_name, creator_first_name, creator_last_name, name, month, year,
			currency, payment_method_filter, status, comments, anticipo, total_amount, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		RETURNING id, created_at
	`

	var filter sql.NullString
	if sh.PaymentMethodFilter != nil {
		filter = nullString(string(*sh.PaymentMethodFilter))
	}

	err := s.db.QueryRowContext(ctx, query,
		sh.UserID,
		nullString(sh.UserName),
		nullString(sh.CreatorFirstName),
		nullString(sh.CreatorLastName),
		sh.Name,
		sh.Month,
		sh.Year,
		sh.Currency,
		filter,
		sh.Status,
		nullString(sh.Comments),
		sh.Anticipo,
		sh.TotalAmount,
	).Scan(&sh.ID, &sh.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating expense sheet: %w", err)
	}

	return nil
}

func (s *Store) GetSheet(ctx context.Context, id uuid.UUID) (*expense.Sheet, error) {
	return getSheet(ctx, s.db, id)
}

// getSheet loads a sheet together with its entries ordered by date.
func getSheet(ctx context.Context, q querier, id uuid.UUID) (*expense.Sheet, error) {
	query := `SELECT ` + selectSheetColumns + ` FROM expense_sheets s WHERE s.id = $1`

	sh, err := scanSheet(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrSheetNotFound
		}

		return nil, fmt.Errorf("getting expense sheet: %w", err)
	}

	entriesQuery := `SELECT ` + selectEntryColumns + `
		FROM expense_entries e
		WHERE e.expense_sheet_id = $1
		ORDER BY e.entry_date ASC, e.created_at ASC`

	rows, err := q.QueryContext(ctx, entriesQuery, id)
	if err != nil {
		return nil, fmt.Errorf("listing expense entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense entry: %w", err)
		}

		sh.Entries = append(sh.Entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense entries: %w", err)
	}

	return sh, nil
}

func (s *Store) ListSheets(ctx context.Context, filter expense.ListFilter) ([]*expense.Sheet, error) {
	query := `SELECT ` + selectSheetColumns + ` FROM expense_sheets s WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND s.user_id = $%d", argIdx)

		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.Year != nil {
		query += fmt.Sprintf(" AND s.year = $%d", argIdx)

		args = append(args, *filter.Year)
		argIdx++
	}

	if filter.Month != nil {
		query += fmt.Sprintf(" AND s.month = $%d", argIdx)

		args = append(args, *filter.Month)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND s.status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	query += " ORDER BY s.year DESC, s.month DESC, s.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expense sheets: %w", err)
	}
	defer rows.Close()

	var sheets []*expense.Sheet

	for rows.Next() {
		sh, err := scanSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense sheet: %w", err)
		}

		sheets = append(sheets, sh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense sheets: %w", err)
	}

	return sheets, nil
}

func updateSheet(ctx context.Context, q querier, sh *expense.Sheet) error {
	query := `
		UPDATE expense_sheets
		SET name = $1, month = $2, year = $3, currency = $4, payment_method_filter = $5,
			status = $6, comments = $7, user_name = $8, anticipo = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`

	var filter sql.NullString
	if sh.PaymentMethodFilter != nil {
		filter = nullString(string(*sh.PaymentMethodFilter))
	}

	err := q.QueryRowContext(ctx, query,
		sh.Name,
		sh.Month,
		sh.Year,
		sh.Currency,
		filter,
		sh.Status,
		nullString(sh.Comments),
		nullString(sh.UserName),
		sh.Anticipo,
		sh.ID,
	).Scan(&sh.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return expense.ErrSheetNotFound
		}

		return fmt.Errorf("updating expense sheet: %w", err)
	}

	return nil
}

func (s *Store) UpdateSheetTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	return updateSheetTotal(ctx, s.db, id, total)
}

func updateSheetTotal(ctx context.Context, q querier, id uuid.UUID, total decimal.Decimal) error {
	query := `UPDATE expense_sheets SET total_amount = $1, updated_at = NOW() WHERE id = $2`

	if _, err := q.ExecContext(ctx, query, total, id); err != nil {
		return fmt.Errorf("updating expense sheet total: %w", err)
	}

	return nil
}

// deleteSheet removes a sheet; its entries go with it through ON DELETE CASCADE.
func deleteSheet(ctx context.Context, q querier, id uuid.UUID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM expense_sheets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting expense sheet: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting expense sheet: %w", err)
	}

	if n == 0 {
		return expense.ErrSheetNotFound
	}

	return nil
}

func sheetLockKey(id uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("expense_sheet"))
	h.Write([]byte{0})
	h.Write(id[:])

	return int64(h.Sum64())
}

type sheetTx struct {
	tx *sql.Tx
}

// BeginSheetTx opens a transaction and takes an advisory lock per sheet.
// Locks are acquired in id order so concurrent moves between the same two
// sheets cannot deadlock.
func (s *Store) BeginSheetTx(ctx context.Context, sheetIDs ...uuid.UUID) (expense.SheetTx, error) {
	ids := slices.Clone(sheetIDs)
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	ids = slices.Compact(ids)

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning sheet tx: %w", err)
	}

	for _, id := range ids {
		if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", sheetLockKey(id)); err != nil {
			dbTx.Rollback()
			return nil, fmt.Errorf("acquiring sheet lock: %w", err)
		}
	}

	return &sheetTx{tx: dbTx}, nil
}

func (stx *sheetTx) Commit() error   { return stx.tx.Commit() }
func (stx *sheetTx) Rollback() error { return stx.tx.Rollback() }

func (stx *sheetTx) GetSheet(ctx context.Context, id uuid.UUID) (*expense.Sheet, error) {
	return getSheet(ctx, stx.tx, id)
}

func (stx *sheetTx) UpdateSheet(ctx context.Context, sh *expense.Sheet) error {
	return updateSheet(ctx, stx.tx, sh)
}

func (stx *sheetTx) DeleteSheet(ctx context.Context, id uuid.UUID) error {
	return deleteSheet(ctx, stx.tx, id)
}

func (stx *sheetTx) UpdateSheetTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	return updateSheetTotal(ctx, stx.tx, id, total)
}

func entryArgs(e *expense.Entry) []any {
	a := e.Amounts

	return []any{
		e.SheetID,
		e.EntryDate,
		nullString(e.MerchantName),
		nullString(e.PaymentMethod),
		nullString(e.Project),
		nullString(e.Company),
		nullString(e.Location),
		nullString(e.Receipt.DriveID),
		nullString(e.Receipt.WebViewLink),
		nullString(e.Receipt.WebContentLink),
		nullString(e.Receipt.FileName),
		a.Parking, a.Taxi, a.Transport, a.Hotel, a.Lunch, a.Dinner, a.Miscellaneous,
		e.Kilometers,
		e.KmRate,
		e.KmAmount,
		e.DailyTotal,
	}
}

func (stx *sheetTx) CreateEntry(ctx context.Context, e *expense.Entry) error {
	query := `
		INSERT INTO expense_entries (
			expense_sheet_id, entry_date, merchant_name, payment_method, project, company, location,
			receipt_google_drive_id, receipt_web_view_link, receipt_web_content_link, receipt_file_name,
			parking_amount, taxi_amount, transport_amount, hotel_amount, lunch_amount, dinner_amount, miscellaneous_amount,
			kilometers, km_rate, km_amount, daily_total, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, NOW())
		RETURNING id, created_at
	`

	if err := stx.tx.QueryRowContext(ctx, query, entryArgs(e)...).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("creating expense entry: %w", err)
	}

	return nil
}

func (stx *sheetTx) UpdateEntry(ctx context.Context, e *expense.Entry) error {
	query := `
		UPDATE expense_entries
		SET expense_sheet_id = $1, entry_date = $2, merchant_name = $3, payment_method = $4,
			project = $5, company = $6, location = $7,
			receipt_google_drive_id = $8, receipt_web_view_link = $9, receipt_web_content_link = $10, receipt_file_name = $11,
			parking_amount = $12, taxi_amount = $13, transport_amount = $14, hotel_amount = $15,
			lunch_amount = $16, dinner_amount = $17, miscellaneous_amount = $18,
			kilometers = $19, km_rate = $20, km_amount = $21, daily_total = $22, updated_at = NOW()
		WHERE id = $23
		RETURNING updated_at
	`

	args := append(entryArgs(e), e.ID)

	if err := stx.tx.QueryRowContext(ctx, query, args...).Scan(&e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return expense.ErrEntryNotFound
		}

		return fmt.Errorf("updating expense entry: %w", err)
	}

	return nil
}

func (stx *sheetTx) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	res, err := stx.tx.ExecContext(ctx, `DELETE FROM expense_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting expense entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting expense entry: %w", err)
	}

	if n == 0 {
		return expense.ErrEntryNotFound
	}

	return nil
}
