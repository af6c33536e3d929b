package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/client"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

const merchantColumn = 1

type detailState int

const (
	detailStateBrowse detailState = iota
	detailStateConfirmDelete
)

// DetailModel shows one sheet with its paged entries and column totals.
type DetailModel struct {
	CommonModel
	env Env
	id  uuid.UUID

	state   detailState
	loading bool

	sheet   *api.Sheet
	summary *api.Summary
	sheets  []api.Sheet // Open sheets an entry can be moved to

	sort  sortConfig
	page  int
	table table.Model

	status string
	failed bool
}

func NewDetailModel(env Env, id uuid.UUID) DetailModel {
	columns := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Merchant", Width: 22},
		{Title: "Category", Width: 13},
		{Title: "Amount", Width: 10},
		{Title: "Km", Width: 7},
		{Title: "Km amount", Width: 10},
		{Title: "Total", Width: 10},
		{Title: "Receipt", Width: 7},
	}

	return DetailModel{
		env:     env,
		id:      id,
		loading: true,
		sort:    defaultSort,
		page:    1,
		table:   newTable(columns, entriesPerPage+1),
	}
}

// WithStatus returns the model showing status, e.g. after a form closed.
func (m DetailModel) WithStatus(status string) DetailModel {
	m.status = status
	m.failed = false

	return m
}

func (m DetailModel) Title() string { return "Expense Sheet" }

func (m DetailModel) ShortHelp() string {
	if m.state == detailStateConfirmDelete {
		return "y: delete | any other key: cancel"
	}

	return "a: add | e: edit | x: delete | s: sort | o: order | ←/→: page | v: review | i: import | X: export | r: refresh | Esc: back"
}

func (m DetailModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DetailModel) locked() bool {
	return m.sheet != nil && m.sheet.Status == expense.StatusValidated
}

func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading sheet: %v", msg.err)
			m.failed = true

			return m, nil
		}

		m.sheet = msg.sheet
		m.summary = msg.summary
		m.sheets = msg.sheets
		m.refreshTable()

		return m, nil

	case entryDeletedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting entry: %v", msg.err)
			m.failed = true

			return m, nil
		}

		m.status = "Entry deleted"
		m.failed = false

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.fitColumns()

		return m, nil

	case tea.KeyMsg:
		if m.state == detailStateConfirmDelete {
			m.state = detailStateBrowse
			m.table.Focus()

			entry, ok := m.selected()
			if msg.String() != "y" || !ok {
				m.status = ""
				return m, nil
			}

			return m, m.deleteCmd(entry)
		}

		if m.sheet == nil {
			if msg.Type == tea.KeyEsc {
				return m, Back
			}

			return m, nil
		}

		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m DetailModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sheet := *m.sheet

	switch msg.String() {
	case "esc":
		return m, Back
	case "r":
		m.loading = true
		return m, m.loadCmd()
	case "s":
		m.sort.key = m.sort.key.next()
		m.page = 1
		m.refreshTable()

		return m, nil
	case "o":
		m.sort.desc = !m.sort.desc
		m.page = 1
		m.refreshTable()

		return m, nil
	case "left", "h":
		m.page--
		m.refreshTable()

		return m, nil
	case "right", "l":
		m.page++
		m.refreshTable()

		return m, nil
	case "v":
		return m, func() tea.Msg { return ReviewSheetMsg{Sheet: sheet} }
	case "X":
		return m, func() tea.Msg { return ExportMsg{Sheet: sheet} }
	}

	if m.locked() {
		switch msg.String() {
		case "a", "e", "x", "i":
			m.status = "This sheet is validated and can no longer be changed"
			m.failed = true

			return m, nil
		}
	}

	switch msg.String() {
	case "a":
		return m, func() tea.Msg { return EditEntryMsg{Sheet: sheet} }
	case "e":
		entry, ok := m.selected()
		if !ok {
			return m, nil
		}

		sheets := m.sheets

		return m, func() tea.Msg { return EditEntryMsg{Sheet: sheet, Sheets: sheets, Entry: &entry} }
	case "x":
		entry, ok := m.selected()
		if !ok {
			return m, nil
		}

		m.state = detailStateConfirmDelete
		m.status = fmt.Sprintf("Delete the entry of %s? (y/N)", FormatDate(entry.EntryDate.Time))
		m.failed = true
		m.table.Blur()

		return m, nil
	case "i":
		return m, func() tea.Msg { return ImportMsg{Sheet: sheet} }
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// fitColumns gives the merchant column whatever width the screen has left.
func (m *DetailModel) fitColumns() {
	columns := m.table.Columns()

	used := 0
	for i, c := range columns {
		if i != merchantColumn {
			used += c.Width + 2
		}
	}

	columns[merchantColumn].Width = min(max(m.Width-used-8, 22), 60)
	m.table.SetColumns(columns)
}

func (m DetailModel) pageEntries() []api.Entry {
	if m.sheet == nil {
		return nil
	}

	items, _, _ := paginate(sortEntries(m.sheet.Entries, m.sort), m.page)

	return items
}

func (m DetailModel) selected() (api.Entry, bool) {
	items := m.pageEntries()

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(items) {
		return api.Entry{}, false
	}

	return items[idx], true
}

func (m *DetailModel) refreshTable() {
	if m.sheet == nil {
		return
	}

	items, page, _ := paginate(sortEntries(m.sheet.Entries, m.sort), m.page)
	m.page = page

	rows := make([]table.Row, 0, len(items))
	for _, e := range items {
		receipt := ""
		if e.ReceiptDriveID != "" {
			receipt = "yes"
		}

		category, amount := entryCategory(e)

		rows = append(rows, table.Row{
			FormatDate(e.EntryDate.Time),
			e.MerchantName,
			category,
			amount,
			FormatNull(e.Kilometers),
			FormatNull(e.KmAmount),
			e.DailyTotal.StringFixed(2),
			receipt,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// entryCategory names the category column of an entry and its amount.
func entryCategory(e api.Entry) (string, string) {
	var (
		names []string
		last  string
	)

	for _, c := range expense.Categories {
		if v := e.Amount(c); v.Valid {
			names = append(names, categoryLabel(c))
			last = v.Decimal.StringFixed(2)
		}
	}

	switch len(names) {
	case 0:
		if e.KmAmount.Valid {
			return "Mileage", "-"
		}

		return "-", "-"
	case 1:
		return names[0], last
	}

	return strings.Join(names, "+"), "-"
}

func (m DetailModel) View() string {
	if m.sheet == nil {
		body := "Loading..."
		if !m.loading {
			body = toast(m.status, m.failed)
		}

		return lipgloss.NewStyle().Padding(1).Render(body)
	}

	s := m.sheet

	payment := "Any"
	if s.PaymentMethodFilter != nil {
		payment = *s.PaymentMethodFilter
	}

	header := []string{
		titleStyle.Render(s.Name) + faintStyle.Render(fmt.Sprintf("  %02d/%d · %s · %s", s.Month, s.Year, s.Currency, payment)),
		"Status: " + accentStyle.Render(statusLabel(s.Status)),
	}

	if s.Comments != "" {
		header = append(header, "Comments: "+s.Comments)
	}

	_, page, pages := paginate(s.Entries, m.page)

	var listing string
	if len(s.Entries) == 0 {
		listing = faintStyle.Render("No entries yet. Press a to add one.")
	} else {
		order := "asc"
		if m.sort.desc {
			order = "desc"
		}

		listing = lipgloss.JoinVertical(lipgloss.Left,
			tableBox(m.table),
			faintStyle.Render(fmt.Sprintf("Page %d of %d · %d entries · Sorted by %s (%s)", page, pages, len(s.Entries), m.sort.key, order)),
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, header...),
		"",
		listing,
		"",
		m.totalsView(),
		"",
		toast(m.status, m.failed),
	))
}

func (m DetailModel) totalsView() string {
	s := m.sheet
	totals := sumEntries(s.Entries)

	var parts []string
	for _, c := range expense.Categories {
		if v := totals.Categories[c]; !v.IsZero() {
			parts = append(parts, fmt.Sprintf("%s %s", categoryLabel(c), v.StringFixed(2)))
		}
	}

	if !totals.KmAmount.IsZero() {
		parts = append(parts, "Mileage "+totals.KmAmount.StringFixed(2))
	}

	lines := []string{
		"Totals: " + strings.Join(parts, " | "),
		"Subtotal: " + FormatAmount(totals.Total, s.Currency),
	}

	if m.summary != nil {
		lines = append(lines,
			"Anticipo: "+FormatAmount(m.summary.Anticipo, s.Currency),
			titleStyle.Render("Balance: "+FormatAmount(m.summary.Balance, s.Currency)),
		)
	}

	if len(parts) == 0 {
		lines = lines[1:]
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

type detailLoadedMsg struct {
	sheet   *api.Sheet
	summary *api.Summary
	sheets  []api.Sheet
	err     error
}

type entryDeletedMsg struct {
	err error
}

func (m DetailModel) loadCmd() tea.Cmd {
	env := m.env
	id := m.id

	return func() tea.Msg {
		ctx, cancel := env.ctx()
		defer cancel()

		var msg detailLoadedMsg

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			sheet, err := env.API.GetSheet(gctx, id)
			msg.sheet = sheet

			return err
		})

		g.Go(func() error {
			summary, err := env.API.Summary(gctx, id)
			msg.summary = summary

			return err
		})

		g.Go(func() error {
			sheets, err := env.API.ListSheets(gctx, client.ListFilter{})
			if err != nil {
				return err
			}

			for _, s := range sheets {
				if s.Status != expense.StatusValidated {
					msg.sheets = append(msg.sheets, s)
				}
			}

			return nil
		})

		if err := g.Wait(); err != nil {
			return detailLoadedMsg{err: err}
		}

		return msg
	}
}

func (m DetailModel) deleteCmd(entry api.Entry) tea.Cmd {
	env := m.env
	sheetID := m.id

	return func() tea.Msg {
		ctx, cancel := env.ctx()
		defer cancel()

		_, err := env.API.DeleteEntry(ctx, sheetID, entry.ID)

		return entryDeletedMsg{err: err}
	}
}
