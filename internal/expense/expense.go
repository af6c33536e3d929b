package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the validation state of an expense sheet.
type Status string

const (
	StatusPendingValidation Status = "pending_validation"
	StatusValidated         Status = "validated"
	StatusRejected          Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPendingValidation, StatusValidated, StatusRejected:
		return true
	}

	return false
}

// PaymentMethodFilter scopes a sheet to card or cash expenses.
type PaymentMethodFilter string

const (
	PaymentCard PaymentMethodFilter = "TARJETA"
	PaymentCash PaymentMethodFilter = "EFECTIVO"
)

// PaymentNotApplicable is the payment method sent for mileage-only entries.
const PaymentNotApplicable = "N/A"

// Category identifies one of the per-category amount columns of an entry.
type Category string

const (
	CategoryParking       Category = "parking"
	CategoryTaxi          Category = "taxi"
	CategoryTransport     Category = "transport"
	CategoryHotel         Category = "hotel"
	CategoryLunch         Category = "lunch"
	CategoryDinner        Category = "dinner"
	CategoryMiscellaneous Category = "miscellaneous"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryParking,
	CategoryTaxi,
	CategoryTransport,
	CategoryHotel,
	CategoryLunch,
	CategoryDinner,
	CategoryMiscellaneous,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// Field returns the name of the amount field for the category, e.g. "parking_amount".
func (c Category) Field() string {
	return string(c) + "_amount"
}

// Amounts holds the nullable per-category amounts of an entry.
type Amounts struct {
	Parking       decimal.NullDecimal
	Taxi          decimal.NullDecimal
	Transport     decimal.NullDecimal
	Hotel         decimal.NullDecimal
	Lunch         decimal.NullDecimal
	Dinner        decimal.NullDecimal
	Miscellaneous decimal.NullDecimal
}

func (a *Amounts) ref(c Category) *decimal.NullDecimal {
	switch c {
	case CategoryParking:
		return &a.Parking
	case CategoryTaxi:
		return &a.Taxi
	case CategoryTransport:
		return &a.Transport
	case CategoryHotel:
		return &a.Hotel
	case CategoryLunch:
		return &a.Lunch
	case CategoryDinner:
		return &a.Dinner
	case CategoryMiscellaneous:
		return &a.Miscellaneous
	}

	return nil
}

func (a Amounts) Get(c Category) decimal.NullDecimal {
	if p := a.ref(c); p != nil {
		return *p
	}

	return decimal.NullDecimal{}
}

func (a *Amounts) Set(c Category, v decimal.NullDecimal) {
	if p := a.ref(c); p != nil {
		*p = v
	}
}

// Any reports whether at least one category amount is set.
func (a Amounts) Any() bool {
	for _, c := range Categories {
		if a.Get(c).Valid {
			return true
		}
	}

	return false
}

// Receipt references a receipt file stored in Google Drive.
type Receipt struct {
	DriveID        string
	WebViewLink    string
	WebContentLink string
	FileName       string
}

// Sheet is a monthly, currency-scoped container of expense entries.
type Sheet struct {
	ID                  uuid.UUID
	UserID              string
	UserName            string
	CreatorFirstName    string
	CreatorLastName     string
	Name                string
	Month               int
	Year                int
	Currency            string
	PaymentMethodFilter *PaymentMethodFilter // nil for legacy sheets
	Status              Status
	Comments            string
	Anticipo            decimal.Decimal
	TotalAmount         decimal.Decimal // Cached sum of entry daily totals
	Entries             []*Entry        // Loaded on Get, ordered by entry date
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}

// Entry is a single expense or mileage record belonging to one sheet.
type Entry struct {
	ID            uuid.UUID
	SheetID       uuid.UUID
	EntryDate     time.Time
	MerchantName  string
	PaymentMethod string
	Project       string
	Company       string
	Location      string
	Receipt       Receipt
	Amounts       Amounts
	Kilometers    decimal.NullDecimal
	KmRate        decimal.NullDecimal
	KmAmount      decimal.NullDecimal // Derived
	DailyTotal    decimal.Decimal     // Derived
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

func (e *Entry) IsExpense() bool {
	return e.Amounts.Any()
}

func (e *Entry) IsMileage() bool {
	return e.Kilometers.Valid
}

func (e *Entry) HasReceipt() bool {
	return e.Receipt.DriveID != ""
}
