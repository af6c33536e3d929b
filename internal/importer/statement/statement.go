// Package statement reads bank and card statement CSV exports.
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/gastos/internal/encoding"
)

var dateLayouts = []string{"02-01-2006", "02/01/2006", "2006-01-02", "02/01/06"}

// Line is one movement of a statement.
type Line struct {
	Row         int // 1-based row in the file
	Date        time.Time
	Description string
	Amount      decimal.Decimal // Always positive
	Debit       bool
}

type Statement struct {
	Profile string
	Charset enc.Charset
	Lines   []Line
}

// Parser auto-detects the statement layout by matching column headers
// against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) (*Statement, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrUnknownFormat
	}

	lines, err := parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	if err != nil {
		return nil, err
	}

	return &Statement{Profile: profile.Name, Charset: charset, Lines: lines}, nil
}

// ErrUnknownFormat is returned when no header row matches a known profile.
var ErrUnknownFormat = errors.New("unrecognised statement format: expected a date, description and amount header")

type colIndex map[string]int

// detectProfile returns the first profile whose columns all appear in one
// row, with that row's column index and position.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if _, dup := cols[name]; name != "" && !dup {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts movements below the header. Rows without a parseable
// date or amount (totals, footers, blank lines) are skipped.
func parseRows(p *Profile, cols colIndex, rows [][]string, firstRow int) ([]Line, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var lines []Line

	for i, row := range rows {
		rowNum := firstRow + i + 1

		date, ok := parseDate(cellValue(row, dateIdx))
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, debit, ok := parseAmount(p, cols, row)
		if !ok {
			continue
		}

		lines = append(lines, Line{
			Row:         rowNum,
			Date:        date,
			Description: desc,
			Amount:      amount,
			Debit:       debit,
		})
	}

	return lines, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseAmount returns the absolute amount and whether it is a debit.
func parseAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, bool, bool) {
	switch p.AmountMode {
	case amountSingle:
		return parseSingleAmount(row, cols[p.AmountCol], p.ChargesPositive)
	case amountSplit:
		return parseSplitAmount(row, cols[p.DebitCol], cols[p.CreditCol])
	}

	return decimal.Zero, false, false
}

func parseSingleAmount(row []string, idx int, chargesPositive bool) (decimal.Decimal, bool, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, false, false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false, false
	}

	debit := d.IsNegative()
	if chargesPositive {
		debit = !debit
	}

	return d.Abs(), debit, true
}

func parseSplitAmount(row []string, debitIdx, creditIdx int) (decimal.Decimal, bool, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		d, err := parseEuropeanAmount(s)
		if err == nil && !d.IsZero() {
			return d.Abs(), true, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		d, err := parseEuropeanAmount(s)
		if err == nil && !d.IsZero() {
			return d.Abs(), false, true
		}
	}

	return decimal.Zero, false, false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
