package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gastos/internal/encoding"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/importer/statement"
)

// Suggester proposes a category for a merchant.
type Suggester interface {
	Suggest(ctx context.Context, merchant string) (expense.Category, error)
}

type Parser interface {
	Parse(r io.Reader) (*statement.Statement, error)
}

type Service struct {
	parser    Parser
	suggester Suggester
}

// NewService builds an importer. suggester may be nil, in which case every
// expense goes to the miscellaneous category.
func NewService(parser Parser, suggester Suggester) *Service {
	return &Service{parser: parser, suggester: suggester}
}

// Skipped is a statement debit that was not turned into an entry.
type Skipped struct {
	Row         int
	Description string
	Reason      string
}

type Plan struct {
	Profile string
	Charset encoding.Charset
	Entries []expense.EntryParams
	Skipped []Skipped
	Credits int // Credit movements, which are never imported
}

// Plan reads a statement and turns every debit dated inside the sheet's
// month into entry params ready for expense.Service.AddEntries.
func (s *Service) Plan(ctx context.Context, sheet *expense.Sheet, r io.Reader) (*Plan, error) {
	st, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing statement: %w", err)
	}

	paymentMethod := string(expense.PaymentCard)
	if sheet.PaymentMethodFilter != nil {
		paymentMethod = string(*sheet.PaymentMethodFilter)
	}

	plan := &Plan{Profile: st.Profile, Charset: st.Charset}

	for _, line := range st.Lines {
		if !line.Debit {
			plan.Credits++
			continue
		}

		if line.Date.Year() != sheet.Year || int(line.Date.Month()) != sheet.Month {
			plan.Skipped = append(plan.Skipped, Skipped{
				Row:         line.Row,
				Description: line.Description,
				Reason:      fmt.Sprintf("dated %s, outside %02d/%d", line.Date.Format("2006-01-02"), sheet.Month, sheet.Year),
			})

			continue
		}

		params := expense.EntryParams{
			EntryDate:     line.Date,
			MerchantName:  line.Description,
			PaymentMethod: paymentMethod,
		}
		params.Amounts.Set(s.category(ctx, line.Description), decimal.NewNullDecimal(line.Amount))

		plan.Entries = append(plan.Entries, params)
	}

	return plan, nil
}

func (s *Service) category(ctx context.Context, merchant string) expense.Category {
	if s.suggester == nil {
		return expense.CategoryMiscellaneous
	}

	c, err := s.suggester.Suggest(ctx, merchant)
	if err != nil {
		slog.WarnContext(ctx, "failed to suggest category", "merchant", merchant, "error", err)
		return expense.CategoryMiscellaneous
	}

	if !c.Valid() {
		return expense.CategoryMiscellaneous
	}

	return c
}
