package view

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/export"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type exportState int

const (
	exportStateTimeframe exportState = iota
	exportStatePath
	exportStateExporting
	exportStateResult
)

type ExportModel struct {
	CommonModel

	state           exportState
	err             error
	timeframePicker TimeframePicker

	filter transaction.Filter

	form    *huh.Form
	path    *string
	spinner spinner.Model
	file    string
	count   int
	summary string
}

func NewExportModel(env *Env) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(env.Palette.Accent)

	return ExportModel{
		CommonModel:     CommonModel{env: env},
		state:           exportStateTimeframe,
		timeframePicker: NewTimeframePicker(env, TimeframeThisMonth),
		path:            new(env.ExportDir),
		spinner:         s,
	}
}

func (m ExportModel) Title() string { return m.env.T("Export Transactions") }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return m.env.T("Esc: back to menu")
	case exportStateExporting:
		return m.env.T("Exporting...")
	}

	return m.env.T("Esc: back | Enter: confirm")
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.filter = transaction.Filter{}
		if !tfMsg.All {
			m.filter.DateFrom = new(tfMsg.Start)
			m.filter.DateTo = new(tfMsg.End)
		}

		m.form = m.buildPathForm()
		m.state = exportStatePath

		return m, m.form.Init()
	}

	switch m.state {
	case exportStateTimeframe:
		return m.updateTimeframe(msg)
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = exportStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		}
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

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.filter, *m.path))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.file = result.file
		m.count = result.count
		m.summary = result.summary

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title(m.env.T("Output directory")).
				Description(m.env.T("Directory will be created if it doesn't exist")).
				Placeholder(m.env.ExportDir).
				Value(m.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case exportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(m.spinner.View() + " " + m.env.T("Exporting transactions..."))

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(m.errorText(m.env.T("Error: %v", m.err)))
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.env.Palette.Income).
		Render(m.env.T("Export Complete!"))

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			m.env.T("%d transactions written to %s", m.count, m.file),
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	file    string
	count   int
	summary string
	err     error
}

func (m ExportModel) runExportCmd(filter transaction.Filter, dir string) tea.Cmd {
	env := m.env

	return func() tea.Msg {
		if dir == "" {
			dir = env.ExportDir
		}

		file, err := env.Export.Export(filter, dir, env.Clock.Now())
		if err != nil {
			return exportResultMsg{err: err}
		}

		txs := env.Tx.Filtered(filter)

		return exportResultMsg{
			file:    file,
			count:   len(txs),
			summary: export.Summary(txs),
		}
	}
}

