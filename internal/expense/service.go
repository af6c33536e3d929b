package expense

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateSheet(ctx context.Context, s *Sheet) error
	GetSheet(ctx context.Context, id uuid.UUID) (*Sheet, error)
	ListSheets(ctx context.Context, filter ListFilter) ([]*Sheet, error)
	UpdateSheetTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error

	// BeginSheetTx opens a transaction holding an exclusive lock on every given sheet.
	BeginSheetTx(ctx context.Context, sheetIDs ...uuid.UUID) (SheetTx, error)
}

// SheetTx is a transaction holding the locks of its sheets.
type SheetTx interface {
	GetSheet(ctx context.Context, id uuid.UUID) (*Sheet, error)
	UpdateSheet(ctx context.Context, s *Sheet) error
	DeleteSheet(ctx context.Context, id uuid.UUID) error
	CreateEntry(ctx context.Context, e *Entry) error
	UpdateEntry(ctx context.Context, e *Entry) error
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	UpdateSheetTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error
	Commit() error
	Rollback() error
}

// ReceiptJanitor disposes of receipt files no entry references anymore.
type ReceiptJanitor interface {
	Discard(ctx context.Context, driveIDs []string) error
}

// CategoryLearner remembers which category a merchant's expenses go to.
type CategoryLearner interface {
	Learn(ctx context.Context, merchant string, category Category) error
}

type Service struct {
	repo          Repository
	janitor       ReceiptJanitor
	learner       CategoryLearner
	defaultKmRate decimal.Decimal
}

// NewService wires the expense service. janitor and learner may be nil.
func NewService(repo Repository, janitor ReceiptJanitor, learner CategoryLearner, defaultKmRate decimal.Decimal) *Service {
	return &Service{
		repo:          repo,
		janitor:       janitor,
		learner:       learner,
		defaultKmRate: defaultKmRate,
	}
}

func (s *Service) DefaultKmRate() decimal.Decimal {
	return s.defaultKmRate
}

func (s *Service) CreateSheet(ctx context.Context, actor Actor, params CreateSheetParams) (*Sheet, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Currency = strings.ToUpper(strings.TrimSpace(params.Currency))

	ve := &ValidationError{}
	if err := collectStruct(ve, params); err != nil {
		return nil, err
	}

	checkNonNegative(ve, "anticipo", params.Anticipo)
	checkPlaces(ve, "anticipo", params.Anticipo, amountPlaces)

	if err := ve.Err(); err != nil {
		return nil, err
	}

	userName := strings.TrimSpace(params.UserName)
	if userName == "" {
		userName = actor.fullName()
	}

	sheet := &Sheet{
		UserID:              actor.UserID,
		UserName:            userName,
		CreatorFirstName:    actor.FirstName,
		CreatorLastName:     actor.LastName,
		Name:                params.Name,
		Month:               params.Month,
		Year:                params.Year,
		Currency:            params.Currency,
		PaymentMethodFilter: new(params.PaymentMethodFilter),
		Status:              StatusPendingValidation,
		Anticipo:            params.Anticipo,
		TotalAmount:         decimal.Zero,
	}

	if err := s.repo.CreateSheet(ctx, sheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	return sheet, nil
}

// ListSheets returns sheets without entries. Non-validators only see their own sheets.
func (s *Service) ListSheets(ctx context.Context, actor Actor, filter ListFilter) ([]*Sheet, error) {
	if !actor.Validator {
		filter.UserID = new(actor.UserID)
	}

	return s.repo.ListSheets(ctx, filter)
}

// GetSheet loads a sheet with its entries. A stored total that drifted from the
// entries is recomputed and persisted.
func (s *Service) GetSheet(ctx context.Context, actor Actor, id uuid.UUID) (*Sheet, error) {
	sheet, err := s.repo.GetSheet(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.canAccess(sheet) {
		return nil, ErrForbidden
	}

	live := SheetTotal(sheet.Entries)
	if !NeedsRecalculation(sheet.TotalAmount, live) {
		return sheet, nil
	}

	if err := s.repo.UpdateSheetTotal(ctx, id, live); err != nil {
		slog.WarnContext(ctx, "failed to persist recalculated total", "sheet_id", id, "error", err)
	}

	sheet.TotalAmount = live

	return sheet, nil
}

func (s *Service) UpdateSheet(ctx context.Context, actor Actor, id uuid.UUID, params UpdateSheetParams) (*Sheet, error) {
	ve := &ValidationError{}
	if err := collectStruct(ve, params); err != nil {
		return nil, err
	}

	if params.Anticipo != nil {
		checkNonNegative(ve, "anticipo", *params.Anticipo)
		checkPlaces(ve, "anticipo", *params.Anticipo, amountPlaces)
	}

	if err := ve.Err(); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginSheetTx(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("begin sheet tx: %w", err)
	}
	defer tx.Rollback()

	sheet, err := tx.GetSheet(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.canAccess(sheet) {
		return nil, ErrForbidden
	}

	sheet.TotalAmount = SheetTotal(sheet.Entries)

	if params.empty() {
		return sheet, nil
	}

	if sheet.Status == StatusValidated {
		return nil, ErrSheetLocked
	}

	applySheetParams(sheet, params)

	if params.Status != nil && *params.Status != sheet.Status {
		if requiresValidator(*params.Status) && !actor.Validator {
			return nil, ErrForbidden
		}

		if err := Transition(sheet, *params.Status, sheet.Comments); err != nil {
			return nil, err
		}
	}

	if sheet.Status == StatusRejected && strings.TrimSpace(sheet.Comments) == "" {
		ve.Add("comments", "comments are required when rejecting a sheet")
		return nil, ve
	}

	if err := tx.UpdateSheet(ctx, sheet); err != nil {
		return nil, fmt.Errorf("update sheet: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sheet: %w", err)
	}

	return sheet, nil
}

func applySheetParams(sheet *Sheet, p UpdateSheetParams) {
	if p.Name != nil {
		sheet.Name = strings.TrimSpace(*p.Name)
	}

	if p.Month != nil {
		sheet.Month = *p.Month
	}

	if p.Year != nil {
		sheet.Year = *p.Year
	}

	if p.Currency != nil {
		sheet.Currency = strings.ToUpper(strings.TrimSpace(*p.Currency))
	}

	if p.PaymentMethodFilter != nil {
		sheet.PaymentMethodFilter = new(*p.PaymentMethodFilter)
	}

	if p.Comments != nil {
		sheet.Comments = strings.TrimSpace(*p.Comments)
	}

	if p.UserName != nil {
		sheet.UserName = strings.TrimSpace(*p.UserName)
	}

	if p.Anticipo != nil {
		sheet.Anticipo = *p.Anticipo
	}
}

// DeleteSheet removes a sheet with its entries and discards their receipt files.
func (s *Service) DeleteSheet(ctx context.Context, actor Actor, id uuid.UUID) error {
	tx, err := s.repo.BeginSheetTx(ctx, id)
	if err != nil {
		return fmt.Errorf("begin sheet tx: %w", err)
	}
	defer tx.Rollback()

	sheet, err := s.writableSheet(ctx, tx, actor, id)
	if err != nil {
		return err
	}

	if err := tx.DeleteSheet(ctx, id); err != nil {
		return fmt.Errorf("delete sheet: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sheet: %w", err)
	}

	var receipts []string

	for _, e := range sheet.Entries {
		if e.HasReceipt() {
			receipts = append(receipts, e.Receipt.DriveID)
		}
	}

	s.discard(ctx, receipts...)

	return nil
}

// Summary returns per-column totals of a sheet.
func (s *Service) Summary(ctx context.Context, actor Actor, id uuid.UUID) (*Sheet, Summary, error) {
	sheet, err := s.GetSheet(ctx, actor, id)
	if err != nil {
		return nil, Summary{}, err
	}

	return sheet, Summarize(sheet), nil
}

// AddEntry creates an entry and returns the refreshed sheet.
func (s *Service) AddEntry(ctx context.Context, actor Actor, sheetID uuid.UUID, params EntryParams) (*Sheet, error) {
	entry := params.toEntry(sheetID)
	ComputeEntry(entry, s.defaultKmRate)

	if err := s.validateEntry(params, entry); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginSheetTx(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("begin sheet tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.writableSheet(ctx, tx, actor, sheetID); err != nil {
		return nil, err
	}

	if err := tx.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	sheet, err := s.refreshTotal(ctx, tx, sheetID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit entry: %w", err)
	}

	s.learn(ctx, entry)

	return sheet, nil
}

// AddEntries creates several entries in one transaction. Used by statement imports.
func (s *Service) AddEntries(ctx context.Context, actor Actor, sheetID uuid.UUID, params []EntryParams) (*Sheet, error) {
	entries := make([]*Entry, 0, len(params))

	for _, p := range params {
		entry := p.toEntry(sheetID)
		ComputeEntry(entry, s.defaultKmRate)

		if err := s.validateEntry(p, entry); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	tx, err := s.repo.BeginSheetTx(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("begin sheet tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.writableSheet(ctx, tx, actor, sheetID); err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if err := tx.CreateEntry(ctx, entry); err != nil {
			return nil, fmt.Errorf("create entry: %w", err)
		}
	}

	sheet, err := s.refreshTotal(ctx, tx, sheetID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit entries: %w", err)
	}

	return sheet, nil
}

func (s *Service) GetEntry(ctx context.Context, actor Actor, sheetID, entryID uuid.UUID) (*Entry, error) {
	sheet, err := s.repo.GetSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	if !actor.canAccess(sheet) {
		return nil, ErrForbidden
	}

	return findEntry(sheet, entryID)
}

// UpdateEntry applies patch to an entry. When the patch moves the entry to
// another sheet both totals are recomputed and the destination sheet is returned.
func (s *Service) UpdateEntry(ctx context.Context, actor Actor, sheetID, entryID uuid.UUID, patch EntryPatch) (*Sheet, error) {
	targetID := sheetID
	if patch.NewSheetID != nil && *patch.NewSheetID != uuid.Nil {
		targetID = *patch.NewSheetID
	}

	moving := targetID != sheetID

	lockIDs := []uuid.UUID{sheetID}
	if moving {
		lockIDs = append(lockIDs, targetID)
	}

	tx, err := s.repo.BeginSheetTx(ctx, lockIDs...)
	if err != nil {
		return nil, fmt.Errorf("begin sheet tx: %w", err)
	}
	defer tx.Rollback()

	source, err := s.writableSheet(ctx, tx, actor, sheetID)
	if err != nil {
		return nil, err
	}

	entry, err := findEntry(source, entryID)
	if err != nil {
		return nil, err
	}

	previousReceipt := entry.Receipt.DriveID

	patch.apply(entry)

	if moving {
		if _, err := s.writableSheet(ctx, tx, actor, targetID); err != nil {
			return nil, err
		}

		entry.SheetID = targetID
	}

	ComputeEntry(entry, s.defaultKmRate)

	ve := &ValidationError{}
	if err := collectStruct(ve, entryParamsOf(entry)); err != nil {
		return nil, err
	}

	if err := ValidateEntry(entry); err != nil {
		return nil, mergeValidation(ve, err)
	}

	if err := ve.Err(); err != nil {
		return nil, err
	}

	if err := tx.UpdateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	sheet, err := s.refreshTotal(ctx, tx, sheetID)
	if err != nil {
		return nil, err
	}

	if moving {
		sheet, err = s.refreshTotal(ctx, tx, targetID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit entry: %w", err)
	}

	if previousReceipt != "" && previousReceipt != entry.Receipt.DriveID {
		s.discard(ctx, previousReceipt)
	}

	s.learn(ctx, entry)

	return sheet, nil
}

// DeleteEntry removes an entry, discards its receipt and returns the refreshed sheet.
func (s *Service) DeleteEntry(ctx context.Context, actor Actor, sheetID, entryID uuid.UUID) (*Sheet, error) {
	tx, err := s.repo.BeginSheetTx(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("begin sheet tx: %w", err)
	}
	defer tx.Rollback()

	source, err := s.writableSheet(ctx, tx, actor, sheetID)
	if err != nil {
		return nil, err
	}

	entry, err := findEntry(source, entryID)
	if err != nil {
		return nil, err
	}

	if err := tx.DeleteEntry(ctx, entryID); err != nil {
		return nil, fmt.Errorf("delete entry: %w", err)
	}

	sheet, err := s.refreshTotal(ctx, tx, sheetID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit entry: %w", err)
	}

	if entry.HasReceipt() {
		s.discard(ctx, entry.Receipt.DriveID)
	}

	return sheet, nil
}

// writableSheet loads a sheet inside tx and checks the actor may change its entries.
func (s *Service) writableSheet(ctx context.Context, tx SheetTx, actor Actor, id uuid.UUID) (*Sheet, error) {
	sheet, err := tx.GetSheet(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.canAccess(sheet) {
		return nil, ErrForbidden
	}

	if sheet.Status == StatusValidated {
		return nil, ErrSheetLocked
	}

	return sheet, nil
}

// refreshTotal reloads a sheet inside tx and persists the sum of its entries.
func (s *Service) refreshTotal(ctx context.Context, tx SheetTx, id uuid.UUID) (*Sheet, error) {
	sheet, err := tx.GetSheet(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload sheet: %w", err)
	}

	total := SheetTotal(sheet.Entries)
	if err := tx.UpdateSheetTotal(ctx, id, total); err != nil {
		return nil, fmt.Errorf("update sheet total: %w", err)
	}

	sheet.TotalAmount = total

	return sheet, nil
}

func (s *Service) validateEntry(params EntryParams, entry *Entry) error {
	ve := &ValidationError{}
	if err := collectStruct(ve, params); err != nil {
		return err
	}

	if err := ValidateEntry(entry); err != nil {
		return mergeValidation(ve, err)
	}

	return ve.Err()
}

func (s *Service) discard(ctx context.Context, driveIDs ...string) {
	if s.janitor == nil || len(driveIDs) == 0 {
		return
	}

	if err := s.janitor.Discard(ctx, driveIDs); err != nil {
		slog.WarnContext(ctx, "failed to schedule receipt cleanup", "receipts", driveIDs, "error", err)
	}
}

// learn teaches the merchant's category when an expense uses exactly one category.
func (s *Service) learn(ctx context.Context, e *Entry) {
	if s.learner == nil || e.MerchantName == "" {
		return
	}

	var only Category

	for _, c := range Categories {
		if !e.Amounts.Get(c).Valid {
			continue
		}

		if only != "" {
			return
		}

		only = c
	}

	if only == "" {
		return
	}

	if err := s.learner.Learn(ctx, e.MerchantName, only); err != nil {
		slog.WarnContext(ctx, "failed to learn merchant category", "merchant", e.MerchantName, "error", err)
	}
}

func findEntry(sheet *Sheet, id uuid.UUID) (*Entry, error) {
	for _, e := range sheet.Entries {
		if e.ID == id {
			return e, nil
		}
	}

	return nil, ErrEntryNotFound
}

func entryParamsOf(e *Entry) EntryParams {
	return EntryParams{
		EntryDate:     e.EntryDate,
		MerchantName:  e.MerchantName,
		PaymentMethod: e.PaymentMethod,
		Project:       e.Project,
		Company:       e.Company,
		Location:      e.Location,
	}
}

// mergeValidation folds the fields of a *ValidationError err into ve.
func mergeValidation(ve *ValidationError, err error) error {
	other, ok := err.(*ValidationError)
	if !ok {
		return err
	}

	for field, msg := range other.Fields {
		ve.Add(field, msg)
	}

	return ve
}
