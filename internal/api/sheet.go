package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

type CreateSheetRequest = expense.CreateSheetParams

type UpdateSheetRequest = expense.UpdateSheetParams

type Sheet struct {
	ID                  uuid.UUID       `json:"id"`
	UserID              string          `json:"user_id"`
	UserName            string          `json:"user_name,omitempty"`
	CreatorFirstName    string          `json:"creator_first_name,omitempty"`
	CreatorLastName     string          `json:"creator_last_name,omitempty"`
	Name                string          `json:"name"`
	Month               int             `json:"month"`
	Year                int             `json:"year"`
	Currency            string          `json:"currency"`
	PaymentMethodFilter *string         `json:"payment_method_filter"`
	Status              expense.Status  `json:"status"`
	Comments            string          `json:"comments,omitempty"`
	Anticipo            decimal.Decimal `json:"anticipo"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	Entries             []Entry         `json:"entries"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty"`
}

func SheetFrom(s *expense.Sheet) Sheet {
	out := Sheet{
		ID:               s.ID,
		UserID:           s.UserID,
		UserName:         s.UserName,
		CreatorFirstName: s.CreatorFirstName,
		CreatorLastName:  s.CreatorLastName,
		Name:             s.Name,
		Month:            s.Month,
		Year:             s.Year,
		Currency:         s.Currency,
		Status:           s.Status,
		Comments:         s.Comments,
		Anticipo:         s.Anticipo,
		TotalAmount:      s.TotalAmount,
		Entries:          make([]Entry, 0, len(s.Entries)),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}

	if s.PaymentMethodFilter != nil {
		out.PaymentMethodFilter = new(string(*s.PaymentMethodFilter))
	}

	for _, e := range s.Entries {
		out.Entries = append(out.Entries, EntryFrom(e))
	}

	return out
}

func SheetsFrom(sheets []*expense.Sheet) []Sheet {
	out := make([]Sheet, 0, len(sheets))
	for _, s := range sheets {
		out = append(out, SheetFrom(s))
	}

	return out
}

// Summary holds the column totals of a sheet.
type Summary struct {
	SheetID    uuid.UUID                  `json:"sheet_id"`
	EntryCount int                        `json:"entry_count"`
	Categories map[string]decimal.Decimal `json:"categories"`
	Kilometers decimal.Decimal            `json:"kilometers"`
	KmAmount   decimal.Decimal            `json:"km_amount"`
	Subtotal   decimal.Decimal            `json:"subtotal"`
	Anticipo   decimal.Decimal            `json:"anticipo"`
	Balance    decimal.Decimal            `json:"balance"`
}

func SummaryFrom(id uuid.UUID, s expense.Summary) Summary {
	out := Summary{
		SheetID:    id,
		EntryCount: s.EntryCount,
		Categories: make(map[string]decimal.Decimal, len(s.Categories)),
		Kilometers: s.Kilometers,
		KmAmount:   s.KmAmount,
		Subtotal:   s.Subtotal,
		Anticipo:   s.Anticipo,
		Balance:    s.Balance,
	}

	for c, v := range s.Categories {
		out.Categories[c.Field()] = v
	}

	return out
}

type ExportRequest struct {
	SheetID uuid.UUID `json:"sheet_id"`
}

type ExportResponse struct {
	FileName          string `json:"file_name"`
	FileContentBase64 string `json:"file_content_base64"`
}

type SkippedRow struct {
	Row         int    `json:"row"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

type ImportResponse struct {
	Profile  string       `json:"profile"`
	Charset  string       `json:"charset"`
	Planned  int          `json:"planned"`
	Imported int          `json:"imported"`
	Credits  int          `json:"credits"`
	Skipped  []SkippedRow `json:"skipped"`
	Sheet    *Sheet       `json:"sheet,omitempty"`
}

type ReceiptUploadResponse struct {
	GoogleFileID   string `json:"google_file_id"`
	FileName       string `json:"file_name"`
	WebViewLink    string `json:"web_view_link,omitempty"`
	WebContentLink string `json:"web_content_link,omitempty"`
}

type CategorySuggestion struct {
	Merchant string           `json:"merchant"`
	Category expense.Category `json:"category,omitempty"`
}

type LearnCategoryRequest struct {
	Merchant string           `json:"merchant"`
	Category expense.Category `json:"category"`
}
