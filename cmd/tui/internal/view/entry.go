package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/client"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

// EntryFormModel adds or edits one entry. All form state goes through
// reduceEntryForm; the huh form only collects the typed values.
type EntryFormModel struct {
	CommonModel
	env Env

	state  entryFormState
	sheets []api.Sheet // Move targets when editing

	input *entryInput
	form  *huh.Form
}

func NewEntryFormModel(env Env, sheet api.Sheet, sheets []api.Sheet, entry *api.Entry) EntryFormModel {
	m := EntryFormModel{env: env, sheets: sheets}

	if entry == nil {
		m.state = reduceEntryForm(entryFormState{}, startAdd{sheet: sheet, today: time.Now(), kmRate: env.DefaultKmRate})
	} else {
		m.state = reduceEntryForm(entryFormState{}, startEdit{sheet: sheet, entry: *entry, kmRate: env.DefaultKmRate})
	}

	m.buildForm()

	return m
}

func (m EntryFormModel) Title() string {
	if m.state.editing() {
		return "Edit Entry"
	}

	return "Add Entry"
}

func (m EntryFormModel) ShortHelp() string {
	if m.state.receipt.DriveID != "" || m.input.ReceiptPath != "" {
		return "Esc: cancel | Ctrl+X: remove receipt | Enter/Tab: navigate form"
	}

	return "Esc: cancel | Enter/Tab: navigate form"
}

func (m EntryFormModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m EntryFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case entrySavedMsg:
		if msg.err != nil {
			m.state = reduceEntryForm(m.state, submitFailed{err: msg.err})
			m.buildForm()

			return m, m.form.Init()
		}

		m.state = reduceEntryForm(m.state, submitSucceeded{})

		return m, done(m.state.status)

	case tea.KeyMsg:
		if m.state.submitting {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "ctrl+x":
			m.state = reduceEntryForm(m.state, editInput{input: *m.input})
			m.state = reduceEntryForm(m.state, removeReceipt{})
			m.state.status = "Receipt will be removed on save"
			m.buildForm()

			return m, m.form.Init()
		}
	}

	if m.state.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = reduceEntryForm(m.state, editInput{input: *m.input})
	m.state = reduceEntryForm(m.state, submit{})

	if !m.state.submitting {
		m.buildForm()
		return m, m.form.Init()
	}

	return m, m.saveCmd()
}

// buildForm renders the current state into a fresh form, showing the
// errors of the last submit next to their fields.
func (m *EntryFormModel) buildForm() {
	in := m.state.input
	m.input = &in

	s := m.state
	hint := func(field, text string) string {
		if msg, ok := s.errors[field]; ok {
			return errorStyle.Render(msg)
		}

		return text
	}

	general := []huh.Field{
		huh.NewInput().
			Key("date").
			Title("Date").
			Description(hint("date", "YYYY-MM-DD")).
			Value(&m.input.Date),

		huh.NewMultiSelect[string]().
			Key("types").
			Title("Entry type").
			Description(hint("types", "Expense, mileage or both")).
			Options(
				huh.NewOption("Expense", typeExpense),
				huh.NewOption("Mileage", typeMileage),
			).
			Value(&m.input.Types),
	}

	if s.editing() && len(m.sheets) > 1 {
		opts := make([]huh.Option[string], 0, len(m.sheets))
		for _, sh := range m.sheets {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%02d/%d)", sh.Name, sh.Month, sh.Year), sh.ID.String()))
		}

		general = append(general, huh.NewSelect[string]().
			Key("sheet").
			Title("Expense sheet").
			Description(hint("sheet", "Pick another sheet to move the entry")).
			Options(opts...).
			Value(&m.input.SheetID))
	}

	categories := make([]huh.Option[string], 0, len(expense.Categories))
	for _, c := range expense.Categories {
		categories = append(categories, huh.NewOption(categoryLabel(c), string(c)))
	}

	var payment huh.Field = huh.NewSelect[string]().
		Key("payment_method").
		Title("Payment method").
		Description(hint("payment_method", "")).
		Options(
			huh.NewOption("Card (TARJETA)", string(expense.PaymentCard)),
			huh.NewOption("Cash (EFECTIVO)", string(expense.PaymentCash)),
		).
		Value(&m.input.PaymentMethod)

	if s.paymentLocked {
		payment = huh.NewNote().
			Title("Payment method").
			Description(m.input.PaymentMethod + " (set by the sheet)")
	}

	receiptHint := "Optional JPEG, PNG or PDF path"
	switch {
	case s.receiptRemoved:
		receiptHint = "Stored receipt will be removed"
	case s.receipt.FileName != "":
		receiptHint = "Current: " + s.receipt.FileName + ". A new path replaces it"
	}

	m.form = huh.NewForm(
		huh.NewGroup(general...),

		huh.NewGroup(
			huh.NewInput().
				Key("merchant").
				Title("Merchant").
				Value(&m.input.Merchant),
			payment,
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Description(hint("category", "")).
				Options(categories...).
				Value(&m.input.Category),
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Description(hint("amount", s.sheet.Currency)).
				Value(&m.input.Amount),
			huh.NewInput().
				Key("receipt").
				Title("Receipt file").
				Description(hint("receipt", receiptHint)).
				Value(&m.input.ReceiptPath),
		).WithHideFunc(func() bool { return !m.input.has(typeExpense) }),

		huh.NewGroup(
			huh.NewInput().
				Key("kilometers").
				Title("Kilometers").
				Description(hint("kilometers", "")).
				Value(&m.input.Kilometers),
			huh.NewInput().
				Key("km_rate").
				Title("Rate per km").
				Description(hint("km_rate", "")).
				Value(&m.input.KmRate),
		).WithHideFunc(func() bool { return !m.input.has(typeMileage) }),

		huh.NewGroup(
			huh.NewInput().Key("project").Title("Project").Value(&m.input.Project),
			huh.NewInput().Key("company").Title("Company").Value(&m.input.Company),
			huh.NewInput().Key("location").Title("Location").Value(&m.input.Location),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m EntryFormModel) View() string {
	header := titleStyle.Render(fmt.Sprintf("%s · %s", m.Title(), m.state.sheet.Name))

	if m.state.submitting {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\nSaving...")
	}

	return lipgloss.NewStyle().Padding(1).Render(
		header + "\n\n" + toast(m.state.status, m.state.failed) + m.form.View(),
	)
}

type entrySavedMsg struct {
	err error
}

func (m EntryFormModel) saveCmd() tea.Cmd {
	s := m.state
	env := m.env

	return func() tea.Msg {
		ctx, cancel := env.ctx()
		defer cancel()

		var uploaded *api.ReceiptUploadResponse

		if path := strings.TrimSpace(s.input.ReceiptPath); path != "" && s.input.has(typeExpense) {
			res, err := uploadReceipt(ctx, env, s, path)
			if err != nil {
				return entrySavedMsg{err: fmt.Errorf("uploading receipt: %w", err)}
			}

			uploaded = res
		}

		if s.editing() {
			_, err := env.API.UpdateEntry(ctx, s.sheet.ID, s.entryID, s.updateRequest(uploaded))
			return entrySavedMsg{err: err}
		}

		sheetID, err := uuid.Parse(s.input.SheetID)
		if err != nil {
			return entrySavedMsg{err: err}
		}

		_, err = env.API.AddEntry(ctx, sheetID, s.createRequest(uploaded))

		return entrySavedMsg{err: err}
	}
}

func uploadReceipt(ctx context.Context, env Env, s entryFormState, path string) (*api.ReceiptUploadResponse, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if env.MaxReceiptBytes > 0 && info.Size() > env.MaxReceiptBytes {
		return nil, fmt.Errorf("file is larger than %d MB", env.MaxReceiptBytes>>20)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	date, _ := api.ParseDate(strings.TrimSpace(s.input.Date))

	return env.API.UploadReceipt(ctx, client.UploadReceiptParams{
		SheetName:   s.sheet.Name,
		ExpenseDate: date.Time,
		Project:     strings.TrimSpace(s.input.Project),
		Company:     strings.TrimSpace(s.input.Company),
		FileName:    filepath.Base(path),
		Content:     f,
	})
}
