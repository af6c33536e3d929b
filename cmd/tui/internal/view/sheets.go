package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/client"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

type sheetsState int

const (
	sheetsStateBrowse sheetsState = iota
	sheetsStateConfirmDelete
)

var statusFilters = []expense.Status{
	"",
	expense.StatusPendingValidation,
	expense.StatusValidated,
	expense.StatusRejected,
}

// SheetsModel lists the expense sheets visible to the user.
type SheetsModel struct {
	CommonModel
	env Env

	state   sheetsState
	table   table.Model
	sheets  []api.Sheet
	loading bool

	statusIdx int
	year      int // Zero lists every year

	status string
	failed bool
}

func NewSheetsModel(env Env) SheetsModel {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Period", Width: 8},
		{Title: "Currency", Width: 8},
		{Title: "Payment", Width: 9},
		{Title: "Status", Width: 10},
		{Title: "Entries", Width: 7},
		{Title: "Total", Width: 14},
	}

	return SheetsModel{
		env:     env,
		table:   newTable(columns, 15),
		loading: true,
	}
}

// WithStatus returns the model showing status, e.g. after a form closed.
func (m SheetsModel) WithStatus(status string) SheetsModel {
	m.status = status
	m.failed = false

	return m
}

func (m SheetsModel) Title() string { return "Expense Sheets" }

func (m SheetsModel) ShortHelp() string {
	if m.state == sheetsStateConfirmDelete {
		return "y: delete | any other key: cancel"
	}

	return "Enter: open | n: new | e: edit | d: delete | s: status filter | y: year filter | r: refresh | q: quit"
}

func (m SheetsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SheetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sheetsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading sheets: %v", msg.err)
			m.failed = true

			return m, nil
		}

		m.sheets = msg.sheets
		m.refreshTable()

		return m, nil

	case sheetDeletedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting sheet: %v", msg.err)
			m.failed = true

			return m, nil
		}

		m.status = "Sheet deleted"
		m.failed = false

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil

	case tea.KeyMsg:
		if m.state == sheetsStateConfirmDelete {
			m.state = sheetsStateBrowse
			m.table.Focus()

			sheet, ok := m.selected()
			if msg.String() != "y" || !ok {
				m.status = ""
				return m, nil
			}

			return m, m.deleteCmd(sheet)
		}

		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.statusIdx = (m.statusIdx + 1) % len(statusFilters)
			m.loading = true

			return m, m.loadCmd()
		case "y":
			m.year = nextYearFilter(m.year, time.Now().Year())
			m.loading = true

			return m, m.loadCmd()
		case "n":
			return m, func() tea.Msg { return EditSheetMsg{} }
		case "enter":
			if sheet, ok := m.selected(); ok {
				return m, func() tea.Msg { return OpenSheetMsg{ID: sheet.ID} }
			}

			return m, nil
		case "e":
			if sheet, ok := m.selected(); ok {
				return m, func() tea.Msg { return EditSheetMsg{Sheet: &sheet} }
			}

			return m, nil
		case "d":
			sheet, ok := m.selected()
			if !ok {
				return m, nil
			}

			m.state = sheetsStateConfirmDelete
			m.status = fmt.Sprintf("Delete %q and its %d entries? (y/N)", sheet.Name, len(sheet.Entries))
			m.failed = true
			m.table.Blur()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// nextYearFilter cycles through every year, this year and the previous one.
func nextYearFilter(year, current int) int {
	switch year {
	case 0:
		return current
	case current:
		return current - 1
	}

	return 0
}

func (m SheetsModel) selected() (api.Sheet, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.sheets) {
		return api.Sheet{}, false
	}

	return m.sheets[idx], true
}

func (m *SheetsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.sheets))

	for _, s := range m.sheets {
		payment := "Any"
		if s.PaymentMethodFilter != nil {
			payment = *s.PaymentMethodFilter
		}

		rows = append(rows, table.Row{
			s.Name,
			fmt.Sprintf("%02d/%d", s.Month, s.Year),
			s.Currency,
			payment,
			statusLabel(s.Status),
			fmt.Sprintf("%d", len(s.Entries)),
			FormatAmount(s.TotalAmount, s.Currency),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m SheetsModel) View() string {
	statusLabels := []string{"All", "Pending", "Validated", "Rejected"}

	year := "All"
	if m.year != 0 {
		year = fmt.Sprintf("%d", m.year)
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [y] Year: %s",
		accentStyle.Render(statusLabels[m.statusIdx]),
		accentStyle.Render(year),
	)

	body := tableBox(m.table)

	switch {
	case m.loading:
		body = "Loading..."
	case len(m.sheets) == 0:
		body = faintStyle.Render("No expense sheets yet. Press n to create one.")
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.Title()),
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		body,
		"",
		toast(m.status, m.failed),
	))
}

type sheetsLoadedMsg struct {
	sheets []api.Sheet
	err    error
}

type sheetDeletedMsg struct {
	err error
}

func (m SheetsModel) loadCmd() tea.Cmd {
	env := m.env
	filter := client.ListFilter{Year: m.year, Status: statusFilters[m.statusIdx]}

	return func() tea.Msg {
		ctx, cancel := env.ctx()
		defer cancel()

		sheets, err := env.API.ListSheets(ctx, filter)

		return sheetsLoadedMsg{sheets: sheets, err: err}
	}
}

func (m SheetsModel) deleteCmd(sheet api.Sheet) tea.Cmd {
	env := m.env

	return func() tea.Msg {
		ctx, cancel := env.ctx()
		defer cancel()

		return sheetDeletedMsg{err: env.API.DeleteSheet(ctx, sheet.ID)}
	}
}
