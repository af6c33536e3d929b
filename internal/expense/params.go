package expense

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gastos/internal/optional"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID    string
	FirstName string
	LastName  string
	Validator bool // May read every sheet and validate or reject them
}

func (a Actor) canAccess(s *Sheet) bool {
	return a.Validator || s.UserID == a.UserID
}

func (a Actor) fullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

type ListFilter struct {
	UserID *string
	Year   *int
	Month  *int
	Status *Status
}

type CreateSheetParams struct {
	Name                string              `json:"name" validate:"required,max=200"`
	Month               int                 `json:"month" validate:"min=1,max=12"`
	Year                int                 `json:"year" validate:"min=2000,max=2100"`
	Currency            string              `json:"currency" validate:"required,iso4217"`
	PaymentMethodFilter PaymentMethodFilter `json:"payment_method_filter" validate:"required,oneof=TARJETA EFECTIVO"`
	UserName            string              `json:"user_name" validate:"max=200"`
	Anticipo            decimal.Decimal     `json:"anticipo"`
}

// UpdateSheetParams is a partial update; nil fields are left untouched.
type UpdateSheetParams struct {
	Name                *string              `json:"name" validate:"omitnil,min=1,max=200"`
	Month               *int                 `json:"month" validate:"omitnil,min=1,max=12"`
	Year                *int                 `json:"year" validate:"omitnil,min=2000,max=2100"`
	Currency            *string              `json:"currency" validate:"omitnil,iso4217"`
	PaymentMethodFilter *PaymentMethodFilter `json:"payment_method_filter" validate:"omitnil,oneof=TARJETA EFECTIVO"`
	Status              *Status              `json:"status" validate:"omitnil,oneof=pending_validation validated rejected"`
	Comments            *string              `json:"comments" validate:"omitnil,max=2000"`
	UserName            *string              `json:"user_name" validate:"omitnil,max=200"`
	Anticipo            *decimal.Decimal     `json:"anticipo"`
}

func (p UpdateSheetParams) empty() bool {
	return p.Name == nil && p.Month == nil && p.Year == nil && p.Currency == nil &&
		p.PaymentMethodFilter == nil && p.Status == nil && p.Comments == nil &&
		p.UserName == nil && p.Anticipo == nil
}

type EntryParams struct {
	EntryDate     time.Time           `json:"entry_date"`
	MerchantName  string              `json:"merchant_name" validate:"max=200"`
	PaymentMethod string              `json:"payment_method" validate:"max=50"`
	Project       string              `json:"project" validate:"max=200"`
	Company       string              `json:"company" validate:"max=200"`
	Location      string              `json:"location" validate:"max=200"`
	Receipt       Receipt             `json:"-"`
	Amounts       Amounts             `json:"-"`
	Kilometers    decimal.NullDecimal `json:"kilometers"`
	KmRate        decimal.NullDecimal `json:"km_rate"`
}

func (p EntryParams) toEntry(sheetID uuid.UUID) *Entry {
	return &Entry{
		SheetID:       sheetID,
		EntryDate:     p.EntryDate,
		MerchantName:  strings.TrimSpace(p.MerchantName),
		PaymentMethod: strings.TrimSpace(p.PaymentMethod),
		Project:       strings.TrimSpace(p.Project),
		Company:       strings.TrimSpace(p.Company),
		Location:      strings.TrimSpace(p.Location),
		Receipt:       p.Receipt,
		Amounts:       p.Amounts,
		Kilometers:    p.Kilometers,
		KmRate:        p.KmRate,
	}
}

// EntryPatch is a partial entry update. Unset fields are left untouched and
// null fields are cleared. A NewSheetID different from the current sheet moves
// the entry.
type EntryPatch struct {
	NewSheetID *uuid.UUID

	EntryDate     optional.Value[time.Time]
	MerchantName  optional.Value[string]
	PaymentMethod optional.Value[string]
	Project       optional.Value[string]
	Company       optional.Value[string]
	Location      optional.Value[string]

	ReceiptDriveID        optional.Value[string]
	ReceiptWebViewLink    optional.Value[string]
	ReceiptWebContentLink optional.Value[string]
	ReceiptFileName       optional.Value[string]

	Amounts    map[Category]optional.Value[decimal.Decimal]
	Kilometers optional.Value[decimal.Decimal]
	KmRate     optional.Value[decimal.Decimal]
}

func (p EntryPatch) apply(e *Entry) {
	if p.EntryDate.Set {
		e.EntryDate = p.EntryDate.V
	}

	setString(&e.MerchantName, p.MerchantName)
	setString(&e.PaymentMethod, p.PaymentMethod)
	setString(&e.Project, p.Project)
	setString(&e.Company, p.Company)
	setString(&e.Location, p.Location)

	for c, v := range p.Amounts {
		e.Amounts.Set(c, nullDecimal(v))
	}

	if p.Kilometers.Set {
		e.Kilometers = nullDecimal(p.Kilometers)
	}

	if p.KmRate.Set {
		e.KmRate = nullDecimal(p.KmRate)
	}

	p.applyReceipt(&e.Receipt)
}

// applyReceipt keeps the receipt fields consistent: clearing the drive id
// clears the whole receipt, and a new drive id drops the links and file name
// of the previous file unless the patch supplies them.
func (p EntryPatch) applyReceipt(r *Receipt) {
	if p.ReceiptDriveID.Set {
		newID := strings.TrimSpace(p.ReceiptDriveID.V)
		if newID == "" {
			*r = Receipt{}
			return
		}

		if newID != r.DriveID {
			*r = Receipt{DriveID: newID}
		}
	}

	setString(&r.WebViewLink, p.ReceiptWebViewLink)
	setString(&r.WebContentLink, p.ReceiptWebContentLink)
	setString(&r.FileName, p.ReceiptFileName)

	if p.ReceiptFileName.Set && !p.ReceiptFileName.Valid && r.DriveID == "" {
		*r = Receipt{}
	}
}

func setString(dst *string, v optional.Value[string]) {
	if !v.Set {
		return
	}

	*dst = strings.TrimSpace(v.V)
}

func nullDecimal(v optional.Value[decimal.Decimal]) decimal.NullDecimal {
	if !v.Valid {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(v.V)
}
