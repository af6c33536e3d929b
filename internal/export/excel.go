package export

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

const (
	reportTitle   = "INFORME DE GASTOS MENSUALES DEL PERSONAL"
	tableStartRow = 6
	notAvailable  = "N/A"
)

var columns = []string{
	"FECHA", "PROYECTO", "EMPRESA", "LOCALIDAD",
	"PARKING", "TAXI", "KM", "IMPORTE KMs",
	"AVION/HOTEL/COCHE", "HOTEL", "ALMUERZO", "CENA", "VARIOS",
	"TOTAL DIARIO", "Ticket Adjunto",
}

// 1-based column positions.
const (
	colDate = iota + 1
	colProject
	colCompany
	colLocation
	colParking
	colTaxi
	colKm
	colKmAmount
	colTransport
	colHotel
	colLunch
	colDinner
	colMisc
	colDailyTotal
	colReceipt
)

var categoryColumns = map[expense.Category]int{
	expense.CategoryParking:       colParking,
	expense.CategoryTaxi:          colTaxi,
	expense.CategoryTransport:     colTransport,
	expense.CategoryHotel:         colHotel,
	expense.CategoryLunch:         colLunch,
	expense.CategoryDinner:        colDinner,
	expense.CategoryMiscellaneous: colMisc,
}

var monthNames = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName returns the Spanish name of month (1-12).
func MonthName(month int) string {
	if month < 1 || month > len(monthNames) {
		return "Mes Desconocido"
	}

	return monthNames[month-1]
}

// CurrencyFormat is the number format for amounts in currency.
func CurrencyFormat(currency string) string {
	switch currency {
	case "EUR":
		return `#,##0.00 "€"`
	case "USD":
		return `"$"#,##0.00`
	case "GBP":
		return `"£"#,##0.00`
	}

	return fmt.Sprintf(`#,##0.00 "%s"`, currency)
}

var invalidSheetTitleChars = regexp.MustCompile(`[\\/*?:\[\]]`)

func worksheetTitle(name string) string {
	title := []rune(invalidSheetTitleChars.ReplaceAllString(name, "_"))
	if len(title) > 31 {
		title = title[:31]
	}

	if len(title) == 0 {
		return "Hoja"
	}

	return string(title)
}

// ExcelFileName is <name>_<YYYY_MM_DD>.xlsx with the name reduced to safe characters.
func (s *Service) ExcelFileName(sheetName string) string {
	name := safeName(sheetName)
	if name == "" {
		name = "HojaDeGastos"
	}

	return fmt.Sprintf("%s_%s.xlsx", name, s.now().Format("2006_01_02"))
}

// Excel renders the monthly expense report workbook for a sheet.
func (s *Service) Excel(ctx context.Context, actor expense.Actor, sheetID uuid.UUID) (*File, error) {
	sheet, err := s.sheets.GetSheet(ctx, actor, sheetID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	w := &workbook{f: f, sheet: worksheetTitle(sheet.Name)}
	if err := f.SetSheetName(f.GetSheetName(0), w.sheet); err != nil {
		return nil, fmt.Errorf("naming worksheet: %w", err)
	}

	if err := w.styles(sheet.Currency); err != nil {
		return nil, fmt.Errorf("creating styles: %w", err)
	}

	w.header(sheet)
	w.table(sheet)

	if w.err != nil {
		return nil, fmt.Errorf("writing workbook: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}

	return &File{Name: s.ExcelFileName(sheet.Name), Content: buf.Bytes()}, nil
}

// workbook writes cells and keeps the first error.
type workbook struct {
	f     *excelize.File
	sheet string
	err   error

	title, bold, head, textCell, boldCell, label, money, boldMoney, km, boldKm, centered, italic, totalLabel, totalMoney int
}

func (w *workbook) styles(currency string) error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	doubleTop := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 6},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	right := &excelize.Alignment{Horizontal: "right"}
	moneyFmt := CurrencyFormat(currency)
	kmFmt := "0.00"

	defs := []struct {
		id    *int
		style *excelize.Style
	}{
		{&w.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}, Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"}}},
		{&w.bold, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&w.head, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    border,
		}},
		{&w.boldCell, &excelize.Style{Border: border, Font: &excelize.Font{Bold: true}}},
		{&w.label, &excelize.Style{Border: border, Alignment: right, Font: &excelize.Font{Bold: true}}},
		{&w.textCell, &excelize.Style{Border: border, Alignment: &excelize.Alignment{Horizontal: "left"}}},
		{&w.money, &excelize.Style{Border: border, Alignment: right, CustomNumFmt: &moneyFmt}},
		{&w.boldMoney, &excelize.Style{Border: border, Alignment: right, CustomNumFmt: &moneyFmt, Font: &excelize.Font{Bold: true}}},
		{&w.km, &excelize.Style{Border: border, Alignment: right, CustomNumFmt: &kmFmt}},
		{&w.boldKm, &excelize.Style{Border: border, Alignment: right, CustomNumFmt: &kmFmt, Font: &excelize.Font{Bold: true}}},
		{&w.centered, &excelize.Style{Border: border, Alignment: &excelize.Alignment{Horizontal: "center"}}},
		{&w.italic, &excelize.Style{Font: &excelize.Font{Italic: true}, Alignment: &excelize.Alignment{Horizontal: "center"}}},
		{&w.totalLabel, &excelize.Style{Border: doubleTop, Alignment: right, Font: &excelize.Font{Bold: true}}},
		{&w.totalMoney, &excelize.Style{Border: doubleTop, Alignment: right, CustomNumFmt: &moneyFmt, Font: &excelize.Font{Bold: true}}},
	}

	for _, d := range defs {
		id, err := w.f.NewStyle(d.style)
		if err != nil {
			return err
		}

		*d.id = id
	}

	return nil
}

func (w *workbook) set(col, row int, value any, style int) {
	if w.err != nil {
		return
	}

	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}

	if value != nil {
		if w.err = w.f.SetCellValue(w.sheet, name, value); w.err != nil {
			return
		}
	}

	if style != 0 {
		w.err = w.f.SetCellStyle(w.sheet, name, name, style)
	}
}

func (w *workbook) merge(row, fromCol, toCol int) {
	if w.err != nil {
		return
	}

	from, _ := excelize.CoordinatesToCellName(fromCol, row)
	to, _ := excelize.CoordinatesToCellName(toCol, row)
	w.err = w.f.MergeCell(w.sheet, from, to)
}

func (w *workbook) header(sheet *expense.Sheet) {
	w.set(1, 1, reportTitle, w.title)
	w.merge(1, 1, len(columns))

	w.set(1, 2, "NOMBRE Y APELLIDOS:", w.bold)
	w.set(3, 2, orNA(sheet.CreatorFirstName), 0)
	w.set(4, 2, orNA(sheet.CreatorLastName), 0)

	payment := notAvailable
	if sheet.PaymentMethodFilter != nil {
		payment = string(*sheet.PaymentMethodFilter)
	}

	w.set(1, 3, "PAGO:", w.bold)
	w.set(3, 3, payment, 0)
	w.set(5, 3, "MONEDA:", w.bold)
	w.set(7, 3, orNA(sheet.Currency), 0)

	w.set(1, 4, "MES:", w.bold)
	w.set(3, 4, MonthName(sheet.Month), 0)
	w.set(5, 4, "AÑO:", w.bold)
	w.set(7, 4, strconv.Itoa(sheet.Year), 0)

	for i, title := range columns {
		w.set(i+1, tableStartRow, title, w.head)

		width := 15.0
		if len(title) > 10 {
			width = float64(len(title) + 5)
		}

		if w.err == nil {
			col, _ := excelize.ColumnNumberToName(i + 1)
			w.err = w.f.SetColWidth(w.sheet, col, col, width)
		}
	}
}

func (w *workbook) table(sheet *expense.Sheet) {
	row := tableStartRow + 1

	if len(sheet.Entries) == 0 {
		w.set(1, row, "No hay gastos en esta hoja.", w.italic)
		w.merge(row, 1, len(columns))

		return
	}

	for _, e := range sheet.Entries {
		w.entry(row, e)
		row++
	}

	sum := expense.Summarize(sheet)

	w.set(1, row, "TOTALES PARCIALES", w.boldCell)

	for c, col := range categoryColumns {
		w.set(col, row, amount(sum.Categories[c]), w.boldMoney)
	}

	w.set(colKm, row, amount(sum.Kilometers), w.boldKm)
	w.set(colKmAmount, row, amount(sum.KmAmount), w.boldMoney)
	w.set(colDailyTotal, row, amount(sum.Subtotal), w.boldMoney)

	row += 2

	// The advance is offset against the spending, the same balance the summary reports.
	devolucion := decimal.Zero
	total := sum.Balance.Sub(devolucion)

	w.set(colMisc, row, "SUBTOTAL", w.label)
	w.set(colDailyTotal, row, amount(sum.Subtotal), w.boldMoney)
	w.set(colMisc, row+1, "ANTICIPO", w.label)
	w.set(colDailyTotal, row+1, amount(sum.Anticipo), w.boldMoney)
	w.set(colMisc, row+2, "DEVOLUCION", w.label)
	w.set(colDailyTotal, row+2, amount(devolucion), w.boldMoney)
	w.set(colMisc, row+3, "TOTAL", w.totalLabel)
	w.set(colDailyTotal, row+3, amount(total), w.totalMoney)

	if w.err == nil {
		fit := true
		w.err = w.f.SetPageLayout(w.sheet, &excelize.PageLayoutOptions{FitToWidth: new(1), FitToHeight: new(0)})

		if w.err == nil {
			w.err = w.f.SetSheetProps(w.sheet, &excelize.SheetPropsOptions{FitToPage: &fit})
		}
	}
}

func (w *workbook) entry(row int, e *expense.Entry) {
	date := ""
	if !e.EntryDate.IsZero() {
		date = e.EntryDate.Format("02/01/2006")
	}

	w.set(colDate, row, date, w.textCell)
	w.set(colProject, row, e.Project, w.textCell)
	w.set(colCompany, row, e.MerchantName, w.textCell)
	w.set(colLocation, row, e.Location, w.textCell)

	for c, col := range categoryColumns {
		w.set(col, row, amount(e.Amounts.Get(c).Decimal), w.money)
	}

	w.set(colKm, row, amount(e.Kilometers.Decimal), w.km)
	w.set(colKmAmount, row, amount(e.KmAmount.Decimal), w.money)
	w.set(colDailyTotal, row, amount(e.DailyTotal), w.boldMoney)

	attached := "No"
	if e.HasReceipt() && e.Receipt.FileName != "" {
		attached = "Sí"
	}

	w.set(colReceipt, row, attached, w.centered)
}

func amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}

	return s
}
