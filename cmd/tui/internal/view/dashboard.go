package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/currency"
	"github.com/MrJamesThe3rd/pennywise/internal/report"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const recentCount = 5

type currencyTotals struct {
	code   currency.Code
	totals transaction.Totals
}

type DashboardModel struct {
	CommonModel

	table   table.Model
	totals  []currencyTotals
	monthly *report.Monthly
	recent  []*transaction.Transaction

	width int
	err   error
}

func NewDashboardModel(env *Env) DashboardModel {
	columns := []table.Column{
		{Title: env.T("Date"), Width: 12},
		{Title: env.T("Category"), Width: 16},
		{Title: env.T("Amount"), Width: 16},
		{Title: env.T("Note"), Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(recentCount+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(env.Palette.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return DashboardModel{
		CommonModel: CommonModel{env: env},
		table:       t,
		width:       80,
	}
}

func (m DashboardModel) Title() string { return m.env.T("Dashboard") }

func (m DashboardModel) ShortHelp() string {
	return m.env.T("Esc: back | r: refresh | t: toggle theme")
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.err = msg.err
		m.totals = msg.totals
		m.monthly = msg.monthly
		m.recent = msg.recent
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "t":
			return m, m.toggleThemeCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(m.errorText(m.env.T("Error: %v", m.err)))
	}

	sections := []string{m.totalsView()}

	if m.monthly != nil {
		header := lipgloss.NewStyle().Bold(true).Render(m.env.T("This month (EUR)"))
		sections = append(sections, header+"\n"+m.todayView()+"\n\n"+renderChart(m.monthly, 10, m.env.Palette))
	}

	recent := lipgloss.NewStyle().Bold(true).Render(m.env.T("Recent transactions"))
	if len(m.recent) == 0 {
		recent += "\n" + m.muted(m.env.T("No transactions yet."))
	} else {
		recent += "\n" + m.table.View()
	}

	sections = append(sections, recent)

	return lipgloss.NewStyle().Padding(1).Render(strings.Join(sections, "\n\n"))
}

func (m DashboardModel) totalsView() string {
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(m.env.Palette.Border).
		Padding(0, 1).
		MarginRight(1)

	income := m.fg(m.env.Palette.Income)
	expense := m.fg(m.env.Palette.Expense)

	cards := make([]string, 0, len(m.totals))

	for _, ct := range m.totals {
		cards = append(cards, box.Render(fmt.Sprintf("%s\n%s %s\n%s %s\n%s %s",
			lipgloss.NewStyle().Bold(true).Render(string(ct.code)),
			m.env.T("Income:"), income.Render(FormatMoney(m.env.Lang, ct.totals.Income, ct.code)),
			m.env.T("Expense:"), expense.Render(FormatMoney(m.env.Lang, ct.totals.Expense, ct.code)),
			m.env.T("Balance:"), FormatMoney(m.env.Lang, ct.totals.Balance, ct.code),
		)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m DashboardModel) todayView() string {
	now := m.monthly.Now

	return fmt.Sprintf("%s  %s %s  %s %s  %s %s",
		m.muted(m.env.T("Today")),
		m.env.T("Income:"), m.fg(m.env.Palette.Income).Render(FormatMoney(m.env.Lang, now.Income, currency.Reference)),
		m.env.T("Expense:"), m.fg(m.env.Palette.Expense).Render(FormatMoney(m.env.Lang, now.Expense, currency.Reference)),
		m.env.T("Balance:"), FormatMoney(m.env.Lang, now.Balance, currency.Reference),
	)
}

func (m *DashboardModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.recent))
	for _, tx := range m.recent {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			m.env.T(transaction.CategoryLabel(tx.Category)),
			FormatSigned(m.env.Lang, tx),
			tx.Note,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type dashboardLoadedMsg struct {
	totals  []currencyTotals
	monthly *report.Monthly
	recent  []*transaction.Transaction
	err     error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	env := m.env

	return func() tea.Msg {
		codes := env.Tx.UsedCurrencies()
		if len(codes) == 0 {
			codes = []currency.Code{currency.Reference}
		}

		totals := make([]currencyTotals, len(codes))
		for i, c := range codes {
			totals[i] = currencyTotals{code: c, totals: env.Tx.Totals(c)}
		}

		monthly, err := report.Build(env.Tx.All(), env.Clock.Now(), env.Rates)

		return dashboardLoadedMsg{
			totals:  totals,
			monthly: monthly,
			recent:  env.Tx.Recent(recentCount),
			err:     err,
		}
	}
}

func (m DashboardModel) toggleThemeCmd() tea.Cmd {
	svc := m.env.Theme

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		if err := svc.Toggle(ctx); err != nil {
			return dashboardLoadedMsg{err: err}
		}

		return SettingsChangedMsg{}
	}
}
