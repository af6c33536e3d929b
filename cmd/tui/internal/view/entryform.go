package view

import (
	"errors"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/client"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/optional"
)

const (
	typeExpense = "expense"
	typeMileage = "mileage"
)

// entryInput holds the raw values of the entry form as typed.
type entryInput struct {
	Date          string
	SheetID       string
	Types         []string
	Merchant      string
	PaymentMethod string
	Category      string
	Amount        string
	Project       string
	Company       string
	Location      string
	Kilometers    string
	KmRate        string
	ReceiptPath   string
}

func (in entryInput) has(kind string) bool {
	return slices.Contains(in.Types, kind)
}

type storedReceipt struct {
	DriveID        string
	WebViewLink    string
	WebContentLink string
	FileName       string
}

// entryFormState is the whole state of the entry form. It only changes
// through reduceEntryForm.
type entryFormState struct {
	input entryInput

	sheet         api.Sheet
	entryID       uuid.UUID // Zero when adding
	paymentLocked bool      // The sheet fixes the payment method

	receipt        storedReceipt
	receiptRemoved bool

	errors     map[string]string
	submitting bool
	status     string
	failed     bool
}

func (s entryFormState) editing() bool {
	return s.entryID != uuid.Nil
}

type entryAction interface {
	entryAction()
}

type (
	// startAdd opens an empty form for a new entry on sheet.
	startAdd struct {
		sheet  api.Sheet
		today  time.Time
		kmRate decimal.Decimal
	}

	// startEdit loads entry of sheet into the form.
	startEdit struct {
		sheet  api.Sheet
		entry  api.Entry
		kmRate decimal.Decimal
	}

	// editInput replaces the typed values.
	editInput struct{ input entryInput }

	// removeReceipt drops the selected file and the stored receipt.
	removeReceipt struct{}

	// submit validates the form; without errors the form becomes submitting.
	submit struct{}

	submitFailed struct{ err error }

	submitSucceeded struct{}
)

func (startAdd) entryAction()        {}
func (startEdit) entryAction()       {}
func (editInput) entryAction()       {}
func (removeReceipt) entryAction()   {}
func (submit) entryAction()          {}
func (submitFailed) entryAction()    {}
func (submitSucceeded) entryAction() {}

func reduceEntryForm(s entryFormState, action entryAction) entryFormState {
	switch a := action.(type) {
	case startAdd:
		s = entryFormState{sheet: a.sheet}
		s.input = entryInput{
			Date:    a.today.Format(time.DateOnly),
			SheetID: a.sheet.ID.String(),
			Types:   []string{typeExpense},
			KmRate:  a.kmRate.String(),
		}
		s.lockPayment()

	case startEdit:
		s = entryFormState{sheet: a.sheet, entryID: a.entry.ID}
		s.input = inputFromEntry(a.entry, a.kmRate)
		s.input.SheetID = a.sheet.ID.String()
		s.receipt = storedReceipt{
			DriveID:        a.entry.ReceiptDriveID,
			WebViewLink:    a.entry.ReceiptWebViewLink,
			WebContentLink: a.entry.ReceiptWebContentLink,
			FileName:       a.entry.ReceiptFileName,
		}
		s.lockPayment()

	case editInput:
		s.input = a.input
		s.input.Types = slices.Clone(a.input.Types)
		s.status = ""

		// Receipts belong to expenses only.
		if !s.input.has(typeExpense) {
			s.input.ReceiptPath = ""
		}

		s.lockPayment()

	case removeReceipt:
		s.input.ReceiptPath = ""
		s.receiptRemoved = s.receipt.DriveID != ""

	case submit:
		if s.submitting {
			return s
		}

		s.errors = validateEntryInput(s.input)
		s.submitting = len(s.errors) == 0
		s.status, s.failed = "", false

		if !s.submitting {
			s.status, s.failed = "Fix the highlighted fields", true
		}

	case submitFailed:
		s.submitting = false
		s.status, s.failed = a.err.Error(), true

		var apiErr *client.APIError
		if errors.As(a.err, &apiErr) && len(apiErr.Errors) > 0 {
			s.errors = maps.Clone(s.errors)
			if s.errors == nil {
				s.errors = make(map[string]string)
			}

			for field, msg := range apiErr.FieldErrors() {
				s.errors[formField(field)] = msg
			}
		}

	case submitSucceeded:
		s.submitting = false
		s.errors = nil
		s.status, s.failed = "Entry saved", false
	}

	return s
}

func (s *entryFormState) lockPayment() {
	s.paymentLocked = s.sheet.PaymentMethodFilter != nil
	if s.paymentLocked && s.input.has(typeExpense) {
		s.input.PaymentMethod = *s.sheet.PaymentMethodFilter
	}
}

func inputFromEntry(e api.Entry, kmRate decimal.Decimal) entryInput {
	in := entryInput{
		Date:     e.EntryDate.String(),
		Merchant: e.MerchantName,
		Project:  e.Project,
		Company:  e.Company,
		Location: e.Location,
		KmRate:   kmRate.String(),
	}

	for _, c := range expense.Categories {
		if v := e.Amount(c); v.Valid {
			in.Category = string(c)
			in.Amount = v.Decimal.String()

			break
		}
	}

	hasExpense := in.Category != ""
	hasMileage := e.Kilometers.Valid

	if hasExpense || !hasMileage {
		in.Types = append(in.Types, typeExpense)
	}

	if hasMileage {
		in.Types = append(in.Types, typeMileage)
		in.Kilometers = e.Kilometers.Decimal.String()
	}

	if e.KmRate.Valid {
		in.KmRate = e.KmRate.Decimal.String()
	}

	if e.PaymentMethod != expense.PaymentNotApplicable || hasExpense {
		in.PaymentMethod = e.PaymentMethod
	}

	return in
}

// formField maps an API field name onto the form field showing it.
func formField(apiField string) string {
	switch {
	case apiField == "entry_date":
		return "date"
	case apiField == "entry_type":
		return "types"
	case strings.HasSuffix(apiField, "_amount") && apiField != "km_amount":
		return "amount"
	case strings.HasPrefix(apiField, "receipt"):
		return "receipt"
	}

	return apiField
}

var receiptExtensions = []string{".jpg", ".jpeg", ".png", ".pdf"}

func validateEntryInput(in entryInput) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(in.Date) == "" {
		errs["date"] = "date is required"
	} else if _, err := api.ParseDate(strings.TrimSpace(in.Date)); err != nil {
		errs["date"] = "date must be YYYY-MM-DD"
	}

	if _, err := uuid.Parse(in.SheetID); err != nil {
		errs["sheet"] = "expense sheet is required"
	}

	if !in.has(typeExpense) && !in.has(typeMileage) {
		errs["types"] = "select at least one entry type (expense or mileage)"
	}

	if in.has(typeExpense) {
		if strings.TrimSpace(in.PaymentMethod) == "" {
			errs["payment_method"] = "payment method is required for expenses"
		}

		if in.Category == "" {
			errs["category"] = "category is required for expenses"
		}

		if msg := checkNumber(in.Amount, "amount", true); msg != "" {
			errs["amount"] = msg
		}

		if p := strings.TrimSpace(in.ReceiptPath); p != "" &&
			!slices.Contains(receiptExtensions, strings.ToLower(filepath.Ext(p))) {
			errs["receipt"] = "receipt must be a JPEG, PNG or PDF file"
		}
	}

	if in.has(typeMileage) {
		if msg := checkNumber(in.Kilometers, "kilometers", false); msg != "" {
			errs["kilometers"] = msg
		}

		if msg := checkNumber(in.KmRate, "rate", true); msg != "" {
			errs["km_rate"] = msg
		}
	}

	return errs
}

// checkNumber returns a message when s is missing, not a number, negative,
// or zero while positive is required.
func checkNumber(s, name string, positive bool) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return name + " is required"
	}

	d, err := decimal.NewFromString(normalizeDecimal(s))
	if err != nil {
		return name + " must be a number"
	}

	if d.IsNegative() {
		return name + " cannot be negative"
	}

	if positive && d.IsZero() {
		return name + " must be positive"
	}

	return ""
}

// normalizeDecimal accepts a decimal comma.
func normalizeDecimal(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}

func parseNumber(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(normalizeDecimal(s))
	return d
}

func nullNumber(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(parseNumber(s))
}

// createRequest builds the request adding the entry. uploaded is the receipt
// uploaded for it, if any.
func (s entryFormState) createRequest(uploaded *api.ReceiptUploadResponse) api.EntryRequest {
	in := s.input
	date, _ := api.ParseDate(strings.TrimSpace(in.Date))

	req := api.EntryRequest{
		EntryDate:     date,
		PaymentMethod: expense.PaymentNotApplicable,
		Project:       strings.TrimSpace(in.Project),
		Company:       strings.TrimSpace(in.Company),
		Location:      strings.TrimSpace(in.Location),
	}

	if in.has(typeExpense) {
		req.MerchantName = strings.TrimSpace(in.Merchant)
		req.PaymentMethod = strings.TrimSpace(in.PaymentMethod)

		amount := nullNumber(in.Amount)

		switch expense.Category(in.Category) {
		case expense.CategoryParking:
			req.ParkingAmount = amount
		case expense.CategoryTaxi:
			req.TaxiAmount = amount
		case expense.CategoryTransport:
			req.TransportAmount = amount
		case expense.CategoryHotel:
			req.HotelAmount = amount
		case expense.CategoryLunch:
			req.LunchAmount = amount
		case expense.CategoryDinner:
			req.DinnerAmount = amount
		case expense.CategoryMiscellaneous:
			req.MiscellaneousAmount = amount
		}

		if uploaded != nil {
			req.ReceiptDriveID = uploaded.GoogleFileID
			req.ReceiptWebViewLink = uploaded.WebViewLink
			req.ReceiptWebContentLink = uploaded.WebContentLink
			req.ReceiptFileName = uploaded.FileName
		}
	}

	if in.has(typeMileage) {
		req.Kilometers = nullNumber(in.Kilometers)
		req.KmRate = nullNumber(in.KmRate)
	}

	return req
}

// updateRequest builds the full replacement of the edited entry. The stored
// receipt is kept unless a new file was uploaded, it was removed, or the
// entry is no longer an expense.
func (s entryFormState) updateRequest(uploaded *api.ReceiptUploadResponse) api.EntryUpdateRequest {
	in := s.input
	date, _ := api.ParseDate(strings.TrimSpace(in.Date))

	req := api.EntryUpdateRequest{
		EntryDate:           optional.Of(date),
		MerchantName:        optional.Null[string](),
		PaymentMethod:       optional.Of(expense.PaymentNotApplicable),
		Project:             optionalText(in.Project),
		Company:             optionalText(in.Company),
		Location:            optionalText(in.Location),
		ParkingAmount:       optional.Null[decimal.Decimal](),
		TaxiAmount:          optional.Null[decimal.Decimal](),
		TransportAmount:     optional.Null[decimal.Decimal](),
		HotelAmount:         optional.Null[decimal.Decimal](),
		LunchAmount:         optional.Null[decimal.Decimal](),
		DinnerAmount:        optional.Null[decimal.Decimal](),
		MiscellaneousAmount: optional.Null[decimal.Decimal](),
		Kilometers:          optional.Null[decimal.Decimal](),
		KmRate:              optional.Null[decimal.Decimal](),
	}

	if target, err := uuid.Parse(in.SheetID); err == nil && target != s.sheet.ID {
		req.NewSheetID = optional.Of(target)
	}

	isExpense := in.has(typeExpense)

	if isExpense {
		req.MerchantName = optionalText(in.Merchant)
		req.PaymentMethod = optional.Of(strings.TrimSpace(in.PaymentMethod))

		amount := optional.Of(parseNumber(in.Amount))

		switch expense.Category(in.Category) {
		case expense.CategoryParking:
			req.ParkingAmount = amount
		case expense.CategoryTaxi:
			req.TaxiAmount = amount
		case expense.CategoryTransport:
			req.TransportAmount = amount
		case expense.CategoryHotel:
			req.HotelAmount = amount
		case expense.CategoryLunch:
			req.LunchAmount = amount
		case expense.CategoryDinner:
			req.DinnerAmount = amount
		case expense.CategoryMiscellaneous:
			req.MiscellaneousAmount = amount
		}
	}

	if in.has(typeMileage) {
		req.Kilometers = optional.Of(parseNumber(in.Kilometers))
		req.KmRate = optional.Of(parseNumber(in.KmRate))
	}

	switch {
	case isExpense && uploaded != nil:
		req.ReceiptDriveID = optional.Of(uploaded.GoogleFileID)
		req.ReceiptWebViewLink = optionalText(uploaded.WebViewLink)
		req.ReceiptWebContentLink = optionalText(uploaded.WebContentLink)
		req.ReceiptFileName = optionalText(uploaded.FileName)
	case !isExpense || s.receiptRemoved:
		req.ReceiptDriveID = optional.Null[string]()
		req.ReceiptWebViewLink = optional.Null[string]()
		req.ReceiptWebContentLink = optional.Null[string]()
		req.ReceiptFileName = optional.Null[string]()
	}

	return req
}

func optionalText(s string) optional.Value[string] {
	s = strings.TrimSpace(s)
	if s == "" {
		return optional.Null[string]()
	}

	return optional.Of(s)
}
