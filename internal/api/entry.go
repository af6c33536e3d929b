package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/optional"
)

type Entry struct {
	ID                    uuid.UUID           `json:"id"`
	SheetID               uuid.UUID           `json:"expense_sheet_id"`
	EntryDate             Date                `json:"entry_date"`
	MerchantName          string              `json:"merchant_name,omitempty"`
	PaymentMethod         string              `json:"payment_method,omitempty"`
	Project               string              `json:"project,omitempty"`
	Company               string              `json:"company,omitempty"`
	Location              string              `json:"location,omitempty"`
	ReceiptDriveID        string              `json:"receipt_google_drive_id,omitempty"`
	ReceiptWebViewLink    string              `json:"receipt_google_drive_web_view_link,omitempty"`
	ReceiptWebContentLink string              `json:"receipt_google_drive_web_content_link,omitempty"`
	ReceiptFileName       string              `json:"receipt_google_drive_file_name,omitempty"`
	ParkingAmount         decimal.NullDecimal `json:"parking_amount"`
	TaxiAmount            decimal.NullDecimal `json:"taxi_amount"`
	TransportAmount       decimal.NullDecimal `json:"transport_amount"`
	HotelAmount           decimal.NullDecimal `json:"hotel_amount"`
	LunchAmount           decimal.NullDecimal `json:"lunch_amount"`
	DinnerAmount          decimal.NullDecimal `json:"dinner_amount"`
	MiscellaneousAmount   decimal.NullDecimal `json:"miscellaneous_amount"`
	Kilometers            decimal.NullDecimal `json:"kilometers"`
	KmRate                decimal.NullDecimal `json:"km_rate"`
	KmAmount              decimal.NullDecimal `json:"km_amount"`
	DailyTotal            decimal.Decimal     `json:"daily_total"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             *time.Time          `json:"updated_at,omitempty"`
}

func EntryFrom(e *expense.Entry) Entry {
	return Entry{
		ID:                    e.ID,
		SheetID:               e.SheetID,
		EntryDate:             DateOf(e.EntryDate),
		MerchantName:          e.MerchantName,
		PaymentMethod:         e.PaymentMethod,
		Project:               e.Project,
		Company:               e.Company,
		Location:              e.Location,
		ReceiptDriveID:        e.Receipt.DriveID,
		ReceiptWebViewLink:    e.Receipt.WebViewLink,
		ReceiptWebContentLink: e.Receipt.WebContentLink,
		ReceiptFileName:       e.Receipt.FileName,
		ParkingAmount:         e.Amounts.Parking,
		TaxiAmount:            e.Amounts.Taxi,
		TransportAmount:       e.Amounts.Transport,
		HotelAmount:           e.Amounts.Hotel,
		LunchAmount:           e.Amounts.Lunch,
		DinnerAmount:          e.Amounts.Dinner,
		MiscellaneousAmount:   e.Amounts.Miscellaneous,
		Kilometers:            e.Kilometers,
		KmRate:                e.KmRate,
		KmAmount:              e.KmAmount,
		DailyTotal:            e.DailyTotal,
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
	}
}

// Amount returns the entry's amount for category c.
func (e Entry) Amount(c expense.Category) decimal.NullDecimal {
	switch c {
	case expense.CategoryParking:
		return e.ParkingAmount
	case expense.CategoryTaxi:
		return e.TaxiAmount
	case expense.CategoryTransport:
		return e.TransportAmount
	case expense.CategoryHotel:
		return e.HotelAmount
	case expense.CategoryLunch:
		return e.LunchAmount
	case expense.CategoryDinner:
		return e.DinnerAmount
	case expense.CategoryMiscellaneous:
		return e.MiscellaneousAmount
	}

	return decimal.NullDecimal{}
}

// EntryRequest creates an entry. The derived fields are computed server side.
type EntryRequest struct {
	EntryDate             Date                `json:"entry_date"`
	MerchantName          string              `json:"merchant_name,omitempty"`
	PaymentMethod         string              `json:"payment_method"`
	Project               string              `json:"project,omitempty"`
	Company               string              `json:"company,omitempty"`
	Location              string              `json:"location,omitempty"`
	ReceiptDriveID        string              `json:"receipt_google_drive_id,omitempty"`
	ReceiptWebViewLink    string              `json:"receipt_google_drive_web_view_link,omitempty"`
	ReceiptWebContentLink string              `json:"receipt_google_drive_web_content_link,omitempty"`
	ReceiptFileName       string              `json:"receipt_google_drive_file_name,omitempty"`
	ParkingAmount         decimal.NullDecimal `json:"parking_amount"`
	TaxiAmount            decimal.NullDecimal `json:"taxi_amount"`
	TransportAmount       decimal.NullDecimal `json:"transport_amount"`
	HotelAmount           decimal.NullDecimal `json:"hotel_amount"`
	LunchAmount           decimal.NullDecimal `json:"lunch_amount"`
	DinnerAmount          decimal.NullDecimal `json:"dinner_amount"`
	MiscellaneousAmount   decimal.NullDecimal `json:"miscellaneous_amount"`
	Kilometers            decimal.NullDecimal `json:"kilometers"`
	KmRate                decimal.NullDecimal `json:"km_rate"`
}

func (r EntryRequest) Params() expense.EntryParams {
	return expense.EntryParams{
		EntryDate:     r.EntryDate.Time,
		MerchantName:  r.MerchantName,
		PaymentMethod: r.PaymentMethod,
		Project:       r.Project,
		Company:       r.Company,
		Location:      r.Location,
		Receipt: expense.Receipt{
			DriveID:        r.ReceiptDriveID,
			WebViewLink:    r.ReceiptWebViewLink,
			WebContentLink: r.ReceiptWebContentLink,
			FileName:       r.ReceiptFileName,
		},
		Amounts: expense.Amounts{
			Parking:       r.ParkingAmount,
			Taxi:          r.TaxiAmount,
			Transport:     r.TransportAmount,
			Hotel:         r.HotelAmount,
			Lunch:         r.LunchAmount,
			Dinner:        r.DinnerAmount,
			Miscellaneous: r.MiscellaneousAmount,
		},
		Kilometers: r.Kilometers,
		KmRate:     r.KmRate,
	}
}

// EntryUpdateRequest is a partial update: absent fields are kept, null
// fields are cleared.
type EntryUpdateRequest struct {
	NewSheetID            optional.Value[uuid.UUID]       `json:"new_sheet_id,omitzero"`
	EntryDate             optional.Value[Date]            `json:"entry_date,omitzero"`
	MerchantName          optional.Value[string]          `json:"merchant_name,omitzero"`
	PaymentMethod         optional.Value[string]          `json:"payment_method,omitzero"`
	Project               optional.Value[string]          `json:"project,omitzero"`
	Company               optional.Value[string]          `json:"company,omitzero"`
	Location              optional.Value[string]          `json:"location,omitzero"`
	ReceiptDriveID        optional.Value[string]          `json:"receipt_google_drive_id,omitzero"`
	ReceiptWebViewLink    optional.Value[string]          `json:"receipt_google_drive_web_view_link,omitzero"`
	ReceiptWebContentLink optional.Value[string]          `json:"receipt_google_drive_web_content_link,omitzero"`
	ReceiptFileName       optional.Value[string]          `json:"receipt_google_drive_file_name,omitzero"`
	ParkingAmount         optional.Value[decimal.Decimal] `json:"parking_amount,omitzero"`
	TaxiAmount            optional.Value[decimal.Decimal] `json:"taxi_amount,omitzero"`
	TransportAmount       optional.Value[decimal.Decimal] `json:"transport_amount,omitzero"`
	HotelAmount           optional.Value[decimal.Decimal] `json:"hotel_amount,omitzero"`
	LunchAmount           optional.Value[decimal.Decimal] `json:"lunch_amount,omitzero"`
	DinnerAmount          optional.Value[decimal.Decimal] `json:"dinner_amount,omitzero"`
	MiscellaneousAmount   optional.Value[decimal.Decimal] `json:"miscellaneous_amount,omitzero"`
	Kilometers            optional.Value[decimal.Decimal] `json:"kilometers,omitzero"`
	KmRate                optional.Value[decimal.Decimal] `json:"km_rate,omitzero"`
}

func (r EntryUpdateRequest) Patch() expense.EntryPatch {
	p := expense.EntryPatch{
		MerchantName:          r.MerchantName,
		PaymentMethod:         r.PaymentMethod,
		Project:               r.Project,
		Company:               r.Company,
		Location:              r.Location,
		ReceiptDriveID:        r.ReceiptDriveID,
		ReceiptWebViewLink:    r.ReceiptWebViewLink,
		ReceiptWebContentLink: r.ReceiptWebContentLink,
		ReceiptFileName:       r.ReceiptFileName,
		Kilometers:            r.Kilometers,
		KmRate:                r.KmRate,
		Amounts:               make(map[expense.Category]optional.Value[decimal.Decimal]),
	}

	if r.NewSheetID.Valid {
		p.NewSheetID = new(r.NewSheetID.V)
	}

	if r.EntryDate.Set {
		p.EntryDate = optional.Value[time.Time]{Set: true, Valid: r.EntryDate.Valid, V: r.EntryDate.V.Time}
	}

	amounts := map[expense.Category]optional.Value[decimal.Decimal]{
		expense.CategoryParking:       r.ParkingAmount,
		expense.CategoryTaxi:          r.TaxiAmount,
		expense.CategoryTransport:     r.TransportAmount,
		expense.CategoryHotel:         r.HotelAmount,
		expense.CategoryLunch:         r.LunchAmount,
		expense.CategoryDinner:        r.DinnerAmount,
		expense.CategoryMiscellaneous: r.MiscellaneousAmount,
	}

	for c, v := range amounts {
		if v.Set {
			p.Amounts[c] = v
		}
	}

	return p
}
