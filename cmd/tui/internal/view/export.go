package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/client"
)

// Receipt archives download every receipt from Drive first.
const exportTimeout = 2 * time.Minute

type exportKind string

const (
	exportExcel    exportKind = "excel"
	exportReceipts exportKind = "receipts"
)

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

type exportInput struct {
	Kind exportKind
	Dir  string
}

// ExportModel downloads the Excel report or the receipts archive of a sheet
// into a local directory.
type ExportModel struct {
	CommonModel
	env   Env
	sheet api.Sheet

	state   exportState
	input   *exportInput
	form    *huh.Form
	spinner spinner.Model

	path string
	err  error
}

func NewExportModel(env Env, sheet api.Sheet) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		env:     env,
		sheet:   sheet,
		input:   &exportInput{Kind: exportExcel, Dir: "./exports"},
		spinner: s,
	}
	m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Export Sheet" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to sheet"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && (keyMsg.Type == tea.KeyEsc || keyMsg.Type == tea.KeyEnter) {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(*m.input))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.path = result.path
		m.err = result.err

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m *ExportModel) buildForm() {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[exportKind]().
				Key("kind").
				Title("What to export").
				Options(
					huh.NewOption("Excel report (.xlsx)", exportExcel),
					huh.NewOption("Receipts archive (.zip)", exportReceipts),
				).
				Value(&m.input.Kind),
			huh.NewInput().
				Key("dir").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.input.Dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	header := titleStyle.Render("Export " + m.sheet.Name)

	switch m.state {
	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + m.form.View())

	case exportStateExporting:
		what := "Building the Excel report..."
		if m.input.Kind == exportReceipts {
			what = "Downloading receipts..."
		}

		return lipgloss.NewStyle().Padding(1).Render(
			header + "\n\n" + fmt.Sprintf("%s %s", m.spinner.View(), what),
		)

	case exportStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(
				header + "\n\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)),
			)
		}

		return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Export Complete!"),
			"",
			"Saved to "+m.path,
		))
	}

	return ""
}

type exportResultMsg struct {
	path string
	err  error
}

func (m ExportModel) runExportCmd(in exportInput) tea.Cmd {
	env := m.env
	id := m.sheet.ID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), max(env.Timeout, exportTimeout))
		defer cancel()

		var (
			file *client.File
			err  error
		)

		switch in.Kind {
		case exportReceipts:
			file, err = env.API.ReceiptsZip(ctx, id)
		default:
			file, err = env.API.ExportExcel(ctx, id)
		}

		if err != nil {
			return exportResultMsg{err: err}
		}

		path, err := saveExport(in.Dir, file)

		return exportResultMsg{path: path, err: err}
	}
}

// saveExport writes file into dir, creating dir when needed, and returns
// the written path.
func saveExport(dir string, file *client.File) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "./exports"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(file.Name))
	if err := os.WriteFile(path, file.Content, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	return path, nil
}
