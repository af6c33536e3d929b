package main

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/gastos/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/gastos/internal/client"
	"github.com/MrJamesThe3rd/gastos/internal/config"
	"github.com/MrJamesThe3rd/gastos/internal/logging"
)

var helpStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(1)

type View int

const (
	ViewSheets View = iota
	ViewSheetForm
	ViewDetail
	ViewEntryForm
	ViewReview
	ViewImport
	ViewExport
)

type model struct {
	env view.Env

	currentView View
	size        tea.WindowSizeMsg

	sheetsView    view.SheetsModel
	sheetFormView view.SheetFormModel
	detailView    view.DetailModel
	entryFormView view.EntryFormModel
	reviewView    view.ReviewModel
	importView    view.ImportModel
	exportView    view.ExportModel

	// inSheet is set while the detail view is the place to return to.
	inSheet bool
}

func initialModel(env view.Env) model {
	return model{
		env:         env,
		currentView: ViewSheets,
		sheetsView:  view.NewSheetsModel(env),
	}
}

func (m model) Init() tea.Cmd {
	return m.sheetsView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.size = msg

	case view.OpenSheetMsg:
		m.inSheet = true
		m.currentView = ViewDetail
		m.detailView = view.NewDetailModel(m.env, msg.ID)

		return m, tea.Batch(m.detailView.Init(), m.resize())

	case view.EditSheetMsg:
		m.currentView = ViewSheetForm
		m.sheetFormView = view.NewSheetFormModel(m.env, msg.Sheet)

		return m, m.sheetFormView.Init()

	case view.EditEntryMsg:
		m.currentView = ViewEntryForm
		m.entryFormView = view.NewEntryFormModel(m.env, msg.Sheet, msg.Sheets, msg.Entry)

		return m, m.entryFormView.Init()

	case view.ReviewSheetMsg:
		m.currentView = ViewReview
		m.reviewView = view.NewReviewModel(m.env, msg.Sheet)

		return m, m.reviewView.Init()

	case view.ImportMsg:
		m.currentView = ViewImport
		m.importView = view.NewImportModel(m.env, msg.Sheet)

		return m, m.importView.Init()

	case view.ExportMsg:
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(m.env, msg.Sheet)

		return m, m.exportView.Init()

	case view.BackMsg:
		return m.back("")

	case view.DoneMsg:
		return m.back(msg.Status)
	}

	return m.updateCurrent(msg)
}

// back leaves the current view for the sheet it belongs to, or for the
// sheet list, and reloads it.
func (m model) back(status string) (tea.Model, tea.Cmd) {
	if m.currentView == ViewDetail {
		m.inSheet = false
	}

	if m.inSheet {
		m.currentView = ViewDetail
		m.detailView = m.detailView.WithStatus(status)

		return m, m.detailView.Init()
	}

	m.currentView = ViewSheets
	m.sheetsView = m.sheetsView.WithStatus(status)

	return m, m.sheetsView.Init()
}

func (m model) resize() tea.Cmd {
	size := m.size
	if size.Width == 0 {
		return nil
	}

	return func() tea.Msg { return size }
}

func (m model) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		next tea.Model
		cmd  tea.Cmd
	)

	switch m.currentView {
	case ViewSheets:
		next, cmd = m.sheetsView.Update(msg)
		m.sheetsView = next.(view.SheetsModel)
	case ViewSheetForm:
		next, cmd = m.sheetFormView.Update(msg)
		m.sheetFormView = next.(view.SheetFormModel)
	case ViewDetail:
		next, cmd = m.detailView.Update(msg)
		m.detailView = next.(view.DetailModel)
	case ViewEntryForm:
		next, cmd = m.entryFormView.Update(msg)
		m.entryFormView = next.(view.EntryFormModel)
	case ViewReview:
		next, cmd = m.reviewView.Update(msg)
		m.reviewView = next.(view.ReviewModel)
	case ViewImport:
		next, cmd = m.importView.Update(msg)
		m.importView = next.(view.ImportModel)
	case ViewExport:
		next, cmd = m.exportView.Update(msg)
		m.exportView = next.(view.ExportModel)
	}

	return m, cmd
}

func (m model) current() view.View {
	switch m.currentView {
	case ViewSheetForm:
		return m.sheetFormView
	case ViewDetail:
		return m.detailView
	case ViewEntryForm:
		return m.entryFormView
	case ViewReview:
		return m.reviewView
	case ViewImport:
		return m.importView
	case ViewExport:
		return m.exportView
	}

	return m.sheetsView
}

func (m model) View() string {
	v := m.current()

	return v.View() + "\n" + helpStyle.Render(v.ShortHelp())
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadClient()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The screen belongs to the UI; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()

		logOut = f
	}

	logging.SetupWriter(logOut, slog.LevelInfo, "tui")

	// Views bound every call with their own context deadline.
	env := view.Env{
		API:             client.New(cfg.APIURL, cfg.Token, &http.Client{}),
		Timeout:         cfg.Timeout,
		DefaultKmRate:   cfg.DefaultKmRate,
		MaxReceiptBytes: cfg.MaxReceiptBytes,
	}

	slog.Info("starting tui", "api", cfg.APIURL)

	p := tea.NewProgram(initialModel(env), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
