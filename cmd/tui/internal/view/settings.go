package view

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/locale"
	"github.com/MrJamesThe3rd/pennywise/internal/theme"
)

type settingsItem int

const (
	settingsTheme settingsItem = iota
	settingsAutoTheme
	settingsLanguage
	settingsClearAll
	settingsCount
)

type SettingsModel struct {
	CommonModel

	cursor    settingsItem
	confirm   *huh.Form
	confirmed *bool
	status    string
	err       error
}

func NewSettingsModel(env *Env) SettingsModel {
	return SettingsModel{CommonModel: CommonModel{env: env}}
}

func (m SettingsModel) Title() string { return m.env.T("Settings") }

func (m SettingsModel) ShortHelp() string {
	return m.env.T("↑/↓: move | Enter: change | Esc: back")
}

func (m SettingsModel) Init() tea.Cmd {
	return nil
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(settingsResultMsg); ok {
		m.err = res.err
		m.status = res.status

		if res.err != nil {
			return m, nil
		}

		return m, SettingsChanged
	}

	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < settingsCount-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.activate()
	}

	return m, nil
}

func (m SettingsModel) activate() (tea.Model, tea.Cmd) {
	env := m.env
	m.status, m.err = "", nil

	switch m.cursor {
	case settingsTheme:
		return m, settingsCmd(func() error {
			ctx, cancel := storeCtx()
			defer cancel()

			return env.Theme.Toggle(ctx)
		})
	case settingsAutoTheme:
		enabled := !env.Theme.Settings().AutoTheme

		return m, settingsCmd(func() error {
			ctx, cancel := storeCtx()
			defer cancel()

			return env.Theme.SetAuto(ctx, enabled)
		})
	case settingsLanguage:
		next := nextLang(env.Lang)

		return m, settingsCmd(func() error {
			ctx, cancel := storeCtx()
			defer cancel()

			return env.Locale.Select(ctx, next)
		})
	case settingsClearAll:
		m.confirmed = new(false)
		m.confirm = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(env.T("Delete all transactions?")).
					Description(env.T("This cannot be undone.")).
					Affirmative(env.T("Yes")).
					Negative(env.T("No")).
					Value(m.confirmed),
			),
		).WithWidth(50).WithShowHelp(false)

		return m, m.confirm.Init()
	}

	return m, nil
}

func nextLang(current locale.Lang) locale.Lang {
	langs := locale.Supported()
	i := slices.Index(langs, current)

	return langs[(i+1)%len(langs)]
}

func (m SettingsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.confirm, m.confirmed = nil, nil
		return m, nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	if m.confirm.State != huh.StateCompleted {
		return m, cmd
	}

	confirmed := *m.confirmed
	m.confirm, m.confirmed = nil, nil

	if !confirmed {
		return m, nil
	}

	svc := m.env.Tx

	return m, func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		if err := svc.ClearAll(ctx); err != nil {
			return settingsResultMsg{err: err}
		}

		return settingsResultMsg{status: "All transactions deleted."}
	}
}

func (m SettingsModel) View() string {
	if m.confirm != nil {
		return lipgloss.NewStyle().Padding(1).Render(m.confirm.View())
	}

	settings := m.env.Theme.Settings()

	mode := m.env.T("Light")
	if settings.Mode == theme.Dark {
		mode = m.env.T("Dark")
	}

	auto := m.env.T("Off")
	if settings.AutoTheme {
		auto = m.env.T("On")
	}

	rows := []string{
		fmt.Sprintf("%-24s %s", m.env.T("Theme"), mode),
		fmt.Sprintf("%-24s %s", m.env.T("Automatic theme"), auto),
		fmt.Sprintf("%-24s %s", m.env.T("Language"), m.env.Lang.Name()),
		m.fg(m.env.Palette.Expense).Render(m.env.T("Delete all transactions")),
	}

	var sb strings.Builder

	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(m.env.T("Settings")) + "\n\n")

	for i, row := range rows {
		cursor := "  "
		if settingsItem(i) == m.cursor {
			cursor = m.accent("> ")
		}

		sb.WriteString(cursor + row + "\n")
	}

	if settings.AutoTheme {
		sb.WriteString("\n" + m.muted(m.env.T("Light from %02d:00, dark from %02d:00.", theme.DayStart, theme.NightStart)))
	}

	switch {
	case m.err != nil:
		sb.WriteString("\n\n" + m.errorText(m.env.T("Error: %v", m.err)))
	case m.status != "":
		sb.WriteString("\n\n" + m.muted(m.env.T(m.status)))
	}

	return lipgloss.NewStyle().Padding(1).Render(sb.String())
}

type settingsResultMsg struct {
	status string
	err    error
}

func settingsCmd(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return settingsResultMsg{err: fn()}
	}
}
