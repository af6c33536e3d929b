package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/currency"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/client"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

type sheetInput struct {
	Name          string
	Month         string
	Year          string
	Currency      string
	PaymentMethod string
	UserName      string
	Anticipo      string
}

func newSheetInput(now time.Time) sheetInput {
	return sheetInput{
		Month:         strconv.Itoa(int(now.Month())),
		Year:          strconv.Itoa(now.Year()),
		Currency:      "EUR",
		PaymentMethod: string(expense.PaymentCard),
		Anticipo:      "0",
	}
}

func sheetInputFrom(s api.Sheet) sheetInput {
	in := sheetInput{
		Name:     s.Name,
		Month:    strconv.Itoa(s.Month),
		Year:     strconv.Itoa(s.Year),
		Currency: s.Currency,
		UserName: s.UserName,
		Anticipo: s.Anticipo.String(),
	}

	if s.PaymentMethodFilter != nil {
		in.PaymentMethod = *s.PaymentMethodFilter
	}

	return in
}

func validateSheetInput(in sheetInput) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	}

	if m, err := strconv.Atoi(strings.TrimSpace(in.Month)); err != nil || m < 1 || m > 12 {
		errs["month"] = "month must be between 1 and 12"
	}

	if y, err := strconv.Atoi(strings.TrimSpace(in.Year)); err != nil || y < 2000 || y > 2100 {
		errs["year"] = "year must be between 2000 and 2100"
	}

	if _, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(in.Currency))); err != nil {
		errs["currency"] = "currency must be a three letter ISO code"
	}

	switch expense.PaymentMethodFilter(in.PaymentMethod) {
	case expense.PaymentCard, expense.PaymentCash:
	default:
		errs["payment_method_filter"] = "payment method must be TARJETA or EFECTIVO"
	}

	if msg := checkNumber(in.Anticipo, "anticipo", false); msg != "" {
		errs["anticipo"] = msg
	}

	return errs
}

func (in sheetInput) createRequest() api.CreateSheetRequest {
	month, _ := strconv.Atoi(strings.TrimSpace(in.Month))
	year, _ := strconv.Atoi(strings.TrimSpace(in.Year))

	return api.CreateSheetRequest{
		Name:                strings.TrimSpace(in.Name),
		Month:               month,
		Year:                year,
		Currency:            strings.ToUpper(strings.TrimSpace(in.Currency)),
		PaymentMethodFilter: expense.PaymentMethodFilter(in.PaymentMethod),
		UserName:            strings.TrimSpace(in.UserName),
		Anticipo:            parseNumber(in.Anticipo),
	}
}

// updateRequest sends only the fields that differ from orig.
func (in sheetInput) updateRequest(orig api.Sheet) api.UpdateSheetRequest {
	req := in.createRequest()

	var out api.UpdateSheetRequest

	if req.Name != orig.Name {
		out.Name = new(req.Name)
	}

	if req.Month != orig.Month {
		out.Month = new(req.Month)
	}

	if req.Year != orig.Year {
		out.Year = new(req.Year)
	}

	if req.Currency != orig.Currency {
		out.Currency = new(req.Currency)
	}

	if orig.PaymentMethodFilter == nil || string(req.PaymentMethodFilter) != *orig.PaymentMethodFilter {
		out.PaymentMethodFilter = new(req.PaymentMethodFilter)
	}

	if req.UserName != orig.UserName {
		out.UserName = new(req.UserName)
	}

	if !req.Anticipo.Equal(orig.Anticipo) {
		out.Anticipo = new(req.Anticipo)
	}

	return out
}

// SheetFormModel creates a sheet or edits the header of an existing one.
type SheetFormModel struct {
	CommonModel
	env Env

	sheet *api.Sheet // Nil when creating
	input *sheetInput
	form  *huh.Form

	errors     map[string]string
	submitting bool
	status     string
}

func NewSheetFormModel(env Env, sheet *api.Sheet) SheetFormModel {
	in := newSheetInput(time.Now())
	if sheet != nil {
		in = sheetInputFrom(*sheet)
	}

	m := SheetFormModel{env: env, sheet: sheet, input: &in}
	m.buildForm()

	return m
}

func (m SheetFormModel) Title() string {
	if m.sheet != nil {
		return "Edit Sheet"
	}

	return "New Sheet"
}

func (m SheetFormModel) ShortHelp() string { return "Esc: cancel | Enter/Tab: navigate form" }

func (m SheetFormModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SheetFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sheetSavedMsg:
		m.submitting = false

		if msg.err != nil {
			m.status = msg.err.Error()
			m.errors = make(map[string]string)

			var apiErr *client.APIError
			if errors.As(msg.err, &apiErr) {
				for field, text := range apiErr.FieldErrors() {
					m.errors[field] = text
				}
			}

			m.buildForm()

			return m, m.form.Init()
		}

		if m.sheet != nil {
			return m, done("Sheet updated")
		}

		id := msg.sheet.ID

		return m, tea.Sequence(done("Sheet created"), func() tea.Msg { return OpenSheetMsg{ID: id} })

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}

		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.errors = validateSheetInput(*m.input)
	if len(m.errors) > 0 {
		m.status = "Fix the highlighted fields"
		m.buildForm()

		return m, m.form.Init()
	}

	m.submitting = true
	m.status = ""

	return m, m.saveCmd()
}

func (m *SheetFormModel) buildForm() {
	hint := func(field, text string) string {
		if msg, ok := m.errors[field]; ok {
			return errorStyle.Render(msg)
		}

		return text
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Description(hint("name", "")).
				Value(&m.input.Name),
			huh.NewInput().
				Key("month").
				Title("Month").
				Description(hint("month", "1-12")).
				Value(&m.input.Month),
			huh.NewInput().
				Key("year").
				Title("Year").
				Description(hint("year", "")).
				Value(&m.input.Year),
			huh.NewInput().
				Key("currency").
				Title("Currency").
				Description(hint("currency", "ISO code, e.g. EUR")).
				Value(&m.input.Currency),
			huh.NewSelect[string]().
				Key("payment_method_filter").
				Title("Payment method").
				Description(hint("payment_method_filter", "Every expense on the sheet uses it")).
				Options(
					huh.NewOption("Card (TARJETA)", string(expense.PaymentCard)),
					huh.NewOption("Cash (EFECTIVO)", string(expense.PaymentCash)),
				).
				Value(&m.input.PaymentMethod),
			huh.NewInput().
				Key("user_name").
				Title("Employee name").
				Description(hint("user_name", "Optional")).
				Value(&m.input.UserName),
			huh.NewInput().
				Key("anticipo").
				Title("Advance (anticipo)").
				Description(hint("anticipo", "")).
				Value(&m.input.Anticipo),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m SheetFormModel) View() string {
	if m.submitting {
		return lipgloss.NewStyle().Padding(1).Render(titleStyle.Render(m.Title()) + "\n\nSaving...")
	}

	return lipgloss.NewStyle().Padding(1).Render(
		titleStyle.Render(m.Title()) + "\n\n" + toast(m.status, m.status != "") + m.form.View(),
	)
}

type sheetSavedMsg struct {
	sheet *api.Sheet
	err   error
}

func (m SheetFormModel) saveCmd() tea.Cmd {
	env := m.env
	in := *m.input
	orig := m.sheet

	return func() tea.Msg {
		ctx, cancel := env.ctx()
		defer cancel()

		if orig == nil {
			sheet, err := env.API.CreateSheet(ctx, in.createRequest())
			return sheetSavedMsg{sheet: sheet, err: err}
		}

		req := in.updateRequest(*orig)
		if req == (api.UpdateSheetRequest{}) {
			return sheetSavedMsg{sheet: orig}
		}

		sheet, err := env.API.UpdateSheet(ctx, orig.ID, req)
		if err != nil {
			return sheetSavedMsg{err: fmt.Errorf("updating sheet: %w", err)}
		}

		return sheetSavedMsg{sheet: sheet}
	}
}
