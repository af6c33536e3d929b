package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/gastos/internal/api"
)

// Statement imports parse and store a whole file; give them more time.
const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStatePlanning
	importStatePreview
	importStateImporting
	importStateResult
)

// ImportModel loads a card statement CSV into a sheet. The file is first
// sent as a dry run and only imported after the plan is confirmed.
type ImportModel struct {
	CommonModel
	env   Env
	sheet api.Sheet

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model
	path       string

	plan    *api.ImportResponse
	skipped list.Model

	status string
	err    error
}

func NewImportModel(env Env, sheet api.Sheet) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return ImportModel{
		env:        env,
		sheet:      sheet,
		filePicker: fp,
		spinner:    s,
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "y: import | ↑/↓: skipped rows | Esc: pick another file"
	case importStateResult:
		return "Enter: back to sheet | Esc: pick another file"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importPlannedMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err

			return m, nil
		}

		m.plan = msg.res
		m.state = importStatePreview
		m.skipped = newSkippedList(msg.res.Skipped)

		return m, nil

	case importDoneMsg:
		m.state = importStateResult
		m.err = msg.err

		if msg.err == nil {
			m.status = fmt.Sprintf("Imported %d entries into %s.", msg.res.Imported, m.sheet.Name)
		}

		return m, nil

	case spinner.TickMsg:
		if m.state != importStatePlanning && m.state != importStateImporting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStatePreview:
			return m.updatePreview(msg)
		case importStateResult:
			if msg.Type == tea.KeyEnter && m.err == nil {
				return m, done(m.status)
			}

			return m, nil
		}
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.state = importStatePlanning
		m.err = nil

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path, true))
	}

	if didSelect, path := m.filePicker.DidSelectDisabledFile(msg); didSelect {
		m.err = fmt.Errorf("%s is not a CSV statement", filepath.Base(path))
		return m, cmd
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.plan = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case importStatePlanning, importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "y" && m.plan.Planned > 0 {
		m.state = importStateImporting
		return m, tea.Batch(m.spinner.Tick, m.importCmd(m.path, false))
	}

	var cmd tea.Cmd
	m.skipped, cmd = m.skipped.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	header := titleStyle.Render("Import into " + m.sheet.Name)

	var body string

	switch m.state {
	case importStateFilePick:
		body = "Pick a statement CSV:\n\n" + m.filePicker.View()
		if m.err != nil {
			body += "\n" + errorStyle.Render(m.err.Error())
		}
	case importStatePlanning:
		body = fmt.Sprintf("%s Reading %s...", m.spinner.View(), filepath.Base(m.path))
	case importStateImporting:
		body = fmt.Sprintf("%s Importing entries...", m.spinner.View())
	case importStatePreview:
		body = m.viewPreview()
	case importStateResult:
		if m.err != nil {
			body = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
		} else {
			body = okStyle.Render(m.status)
		}
	}

	return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + body)
}

func (m ImportModel) viewPreview() string {
	p := m.plan

	lines := []string{
		fmt.Sprintf("File: %s (%s, %s)", filepath.Base(m.path), p.Profile, p.Charset),
		fmt.Sprintf("Entries to import: %s", accentStyle.Render(fmt.Sprintf("%d", p.Planned))),
		fmt.Sprintf("Credits ignored: %d", p.Credits),
		fmt.Sprintf("Rows skipped: %d", len(p.Skipped)),
	}

	if len(p.Skipped) > 0 {
		lines = append(lines, "", m.skipped.View())
	}

	if p.Planned == 0 {
		lines = append(lines, "", faintStyle.Render("Nothing to import from this file."))
	} else {
		lines = append(lines, "", "Press y to import.")
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

type skippedItem struct {
	row api.SkippedRow
}

func (i skippedItem) Title() string       { return fmt.Sprintf("Row %d: %s", i.row.Row, i.row.Description) }
func (i skippedItem) Description() string { return i.row.Reason }
func (i skippedItem) FilterValue() string { return i.row.Description }

func newSkippedList(rows []api.SkippedRow) list.Model {
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = skippedItem{row: r}
	}

	l := list.New(items, list.NewDefaultDelegate(), 70, 12)
	l.Title = "Skipped rows"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

type importPlannedMsg struct {
	res *api.ImportResponse
	err error
}

type importDoneMsg struct {
	res *api.ImportResponse
	err error
}

func (m ImportModel) importCmd(path string, dryRun bool) tea.Cmd {
	env := m.env
	sheetID := m.sheet.ID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), max(env.Timeout, importTimeout))
		defer cancel()

		var res *api.ImportResponse

		f, err := os.Open(path)
		if err == nil {
			res, err = env.API.ImportStatement(ctx, sheetID, filepath.Base(path), f, dryRun)
			f.Close()
		}

		if dryRun {
			return importPlannedMsg{res: res, err: err}
		}

		return importDoneMsg{res: res, err: err}
	}
}
