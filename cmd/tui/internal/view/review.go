package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

type reviewInput struct {
	Status   expense.Status
	Comments string
}

// reviewTargets lists the statuses a sheet in status from can be moved to,
// starting with from itself.
func reviewTargets(from expense.Status) []expense.Status {
	out := []expense.Status{from}

	for _, to := range []expense.Status{expense.StatusPendingValidation, expense.StatusValidated, expense.StatusRejected} {
		if to != from && expense.CanTransition(from, to) {
			out = append(out, to)
		}
	}

	return out
}

func validateReview(sheet api.Sheet, in reviewInput) map[string]string {
	errs := make(map[string]string)

	if !expense.CanTransition(sheet.Status, in.Status) {
		errs["status"] = fmt.Sprintf("a %s sheet cannot be moved to %s", statusLabel(sheet.Status), statusLabel(in.Status))
	}

	if in.Status == expense.StatusRejected && strings.TrimSpace(in.Comments) == "" {
		errs["comments"] = "comments are required when rejecting a sheet"
	}

	return errs
}

func (in reviewInput) request(sheet api.Sheet) api.UpdateSheetRequest {
	var req api.UpdateSheetRequest

	if in.Status != sheet.Status {
		req.Status = new(in.Status)
	}

	if comments := strings.TrimSpace(in.Comments); comments != sheet.Comments {
		req.Comments = new(comments)
	}

	return req
}

// ReviewModel changes the status of a sheet and its reviewer comments.
type ReviewModel struct {
	CommonModel
	env Env

	sheet api.Sheet
	input *reviewInput
	form  *huh.Form

	errors     map[string]string
	submitting bool
	status     string
}

func NewReviewModel(env Env, sheet api.Sheet) ReviewModel {
	m := ReviewModel{
		env:   env,
		sheet: sheet,
		input: &reviewInput{Status: sheet.Status, Comments: sheet.Comments},
	}
	m.buildForm()

	return m
}

func (m ReviewModel) Title() string { return "Review Sheet" }

func (m ReviewModel) ShortHelp() string { return "Esc: cancel | Enter/Tab: navigate form" }

func (m ReviewModel) Init() tea.Cmd {
	if m.sheet.Status == expense.StatusValidated {
		return nil
	}

	return m.form.Init()
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewSavedMsg:
		m.submitting = false

		if msg.err != nil {
			m.status = msg.err.Error()
			m.buildForm()

			return m, m.form.Init()
		}

		return m, done("Sheet marked as " + statusLabel(m.input.Status))

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}

		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.submitting || m.sheet.Status == expense.StatusValidated {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.errors = validateReview(m.sheet, *m.input)
	if len(m.errors) > 0 {
		m.status = "Fix the highlighted fields"
		m.buildForm()

		return m, m.form.Init()
	}

	req := m.input.request(m.sheet)
	if req == (api.UpdateSheetRequest{}) {
		return m, done("Nothing changed")
	}

	m.submitting = true
	m.status = ""

	return m, m.saveCmd(req)
}

func (m *ReviewModel) buildForm() {
	hint := func(field, text string) string {
		if msg, ok := m.errors[field]; ok {
			return errorStyle.Render(msg)
		}

		return text
	}

	targets := reviewTargets(m.sheet.Status)

	opts := make([]huh.Option[expense.Status], 0, len(targets))
	for _, s := range targets {
		opts = append(opts, huh.NewOption(statusLabel(s), s))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[expense.Status]().
				Key("status").
				Title("Status").
				Description(hint("status", "")).
				Options(opts...).
				Value(&m.input.Status),
			huh.NewText().
				Key("comments").
				Title("Comments").
				Description(hint("comments", "Required when rejecting")).
				CharLimit(2000).
				Value(&m.input.Comments),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m ReviewModel) View() string {
	header := titleStyle.Render(fmt.Sprintf("Review · %s", m.sheet.Name)) + "\n" +
		faintStyle.Render(fmt.Sprintf("%d entries · %s", len(m.sheet.Entries), FormatAmount(m.sheet.TotalAmount, m.sheet.Currency)))

	switch {
	case m.sheet.Status == expense.StatusValidated:
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" +
			okStyle.Render("This sheet is validated. Its status can no longer change."))
	case m.submitting:
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\nSaving...")
	}

	return lipgloss.NewStyle().Padding(1).Render(
		header + "\n\n" + toast(m.status, m.status != "") + m.form.View(),
	)
}

type reviewSavedMsg struct {
	err error
}

func (m ReviewModel) saveCmd(req api.UpdateSheetRequest) tea.Cmd {
	env := m.env
	id := m.sheet.ID

	return func() tea.Msg {
		ctx, cancel := env.ctx()
		defer cancel()

		_, err := env.API.UpdateSheet(ctx, id, req)

		return reviewSavedMsg{err: err}
	}
}
