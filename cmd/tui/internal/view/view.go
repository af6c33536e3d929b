package view

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/client"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// Env is what every view needs to talk to the API. It is built once in main
// and passed down explicitly.
type Env struct {
	API             *client.Client
	Timeout         time.Duration
	DefaultKmRate   decimal.Decimal
	MaxReceiptBytes int64
}

// ctx returns a context bounded by the configured request timeout.
func (e Env) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), e.Timeout)
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

// BackMsg leaves the current view.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// DoneMsg closes a form view; Status is shown by the view returned to.
type DoneMsg struct {
	Status string
}

func done(status string) tea.Cmd {
	return func() tea.Msg { return DoneMsg{Status: status} }
}

// Navigation requests, handled by the root model.
type (
	OpenSheetMsg struct{ ID uuid.UUID }

	// EditSheetMsg opens the sheet form; a nil Sheet creates one.
	EditSheetMsg struct{ Sheet *api.Sheet }

	// EditEntryMsg opens the entry form; a nil Entry adds one to Sheet.
	EditEntryMsg struct {
		Sheet  api.Sheet
		Sheets []api.Sheet
		Entry  *api.Entry
	}

	ReviewSheetMsg struct{ Sheet api.Sheet }
	ImportMsg      struct{ Sheet api.Sheet }
	ExportMsg      struct{ Sheet api.Sheet }
)

var (
	faintStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	panelStyle  = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

// toast renders the status line of a view.
func toast(status string, failed bool) string {
	if status == "" {
		return ""
	}

	if failed {
		return errorStyle.Render(status) + "\n"
	}

	return faintStyle.Render(status) + "\n"
}

func newTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func tableBox(t table.Model) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(t.View())
}
