package view

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type txState int

const (
	txStateTimeframe txState = iota
	txStateList
	txStateForm
	txStateConfirmDelete
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	env *Env
	tx  *transaction.Transaction
}

func (i txItem) Title() string {
	category := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.env.T(transaction.CategoryLabel(i.tx.Category))))

	return fmt.Sprintf("%s  %s  %s", FormatDate(i.tx.Date), FormatSigned(i.env.Lang, i.tx), category)
}

func (i txItem) Description() string {
	return i.tx.Note
}

func (i txItem) FilterValue() string {
	return i.tx.Note + " " + i.tx.Category
}

type TransactionsModel struct {
	CommonModel

	state           txState
	timeframePicker TimeframePicker
	list            list.Model
	form            *huh.Form
	values          *txForm
	editing         *transaction.Transaction
	confirm         *huh.Form
	confirmed       *bool

	startDate time.Time
	endDate   time.Time
	allTime   bool

	typeFilter     *transaction.Type
	categoryFilter int // index into transaction.Categories(), -1 for all

	status string
}

func NewTransactionsModel(env *Env) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{env: env}, 0, 0)
	l.Title = env.T("Transactions")
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return TransactionsModel{
		CommonModel:     CommonModel{env: env},
		timeframePicker: NewTimeframePicker(env, TimeframeThisWeek),
		list:            l,
		categoryFilter:  -1,
	}
}

func (m TransactionsModel) Title() string { return m.env.T("Transactions") }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateTimeframe:
		return m.env.T("Esc: back | Enter: select")
	case txStateList:
		return m.env.T("Esc: back | a: add | Enter: edit | d: delete | t: type | c: category | /: search")
	case txStateForm, txStateConfirmDelete:
		return m.env.T("Esc: cancel | Enter/Tab: navigate form")
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.startDate = msg.Start
		m.endDate = msg.End
		m.allTime = msg.All
		m.state = txStateList
		m.refreshListItems()

		return m, nil

	case saveTxResultMsg:
		m.state = txStateList
		m.form, m.values, m.editing = nil, nil, nil
		m.confirm, m.confirmed = nil, nil

		if msg.err != nil {
			m.status = m.env.T("Error saving: %v", msg.err)
		} else {
			m.status = m.env.T(msg.status)
		}

		m.refreshListItems()

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateForm:
		return m.updateForm(msg)
	case txStateConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			m.state = txStateTimeframe
			m.timeframePicker.Reset()
			m.status = ""

			return m, nil
		case "a":
			return m.startForm(nil)
		case "enter", "e":
			if selected, ok := m.list.SelectedItem().(txItem); ok {
				return m.startForm(selected.tx)
			}

			return m, nil
		case "d":
			return m.startDelete()
		case "t":
			m.typeFilter = nextType(m.typeFilter)
			m.refreshListItems()

			return m, nil
		case "c":
			m.categoryFilter++
			if m.categoryFilter >= len(transaction.Categories()) {
				m.categoryFilter = -1
			}

			m.refreshListItems()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func nextType(t *transaction.Type) *transaction.Type {
	switch {
	case t == nil:
		return new(transaction.TypeIncome)
	case *t == transaction.TypeIncome:
		return new(transaction.TypeExpense)
	}

	return nil
}

func (m TransactionsModel) startForm(tx *transaction.Transaction) (tea.Model, tea.Cmd) {
	m.editing = tx
	m.values = newTxForm(m.env.Clock.Now())

	if tx != nil {
		m.values = txFormFrom(tx)
	}

	m.form = m.values.build(m.env)
	m.state = txStateForm
	m.status = ""

	return m, m.form.Init()
}

func (m TransactionsModel) startDelete() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	m.editing = selected.tx
	m.confirmed = new(false)
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(m.env.T("Delete this transaction?")).
				Affirmative(m.env.T("Yes")).
				Negative(m.env.T("No")).
				Value(m.confirmed),
		),
	).WithWidth(50).WithShowHelp(false)
	m.state = txStateConfirmDelete

	return m, m.confirm.Init()
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
		m.form, m.values, m.editing = nil, nil, nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveTxCmd()
}

func (m TransactionsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
		m.confirm, m.confirmed, m.editing = nil, nil, nil

		return m, nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	if m.confirm.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirmed {
		m.state = txStateList
		m.confirm, m.confirmed, m.editing = nil, nil, nil

		return m, nil
	}

	return m, m.deleteTxCmd()
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case txStateList:
		header := m.filterLine()
		if m.status != "" {
			header += "\n" + m.muted(m.status)
		}

		if len(m.list.Items()) == 0 {
			return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + m.muted(m.env.T("No transactions found.")))
		}

		return lipgloss.NewStyle().Padding(1).Render(header + "\n" + m.list.View())

	case txStateForm:
		if m.form == nil {
			return ""
		}

		title := m.env.T("New transaction")
		if m.editing != nil {
			title = m.env.T("Edit transaction")
		}

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" + m.form.View(),
		)

	case txStateConfirmDelete:
		if m.confirm == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.txInfoView() + "\n" + m.confirm.View())
	}

	return ""
}

func (m TransactionsModel) filterLine() string {
	period := m.env.T("All Time")
	if !m.allTime {
		period = fmt.Sprintf("%s – %s", FormatDate(m.startDate), FormatDate(m.endDate))
	}

	typ := m.env.T("all types")
	if m.typeFilter != nil {
		typ = m.env.T(string(*m.typeFilter))
	}

	category := m.env.T("all categories")
	if m.categoryFilter >= 0 {
		category = m.env.T(transaction.CategoryLabel(transaction.Categories()[m.categoryFilter]))
	}

	return m.accent(strings.Join([]string{period, typ, category}, " · "))
}

func (m TransactionsModel) txInfoView() string {
	if m.editing == nil {
		return ""
	}

	tx := m.editing

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(m.env.Palette.Border).
		Padding(0, 1).
		Render(m.env.T("Date: %s  |  Amount: %s  |  Category: %s\nNote: %s",
			FormatDate(tx.Date),
			FormatSigned(m.env.Lang, tx),
			m.env.T(transaction.CategoryLabel(tx.Category)),
			tx.Note,
		))
}

func (m TransactionsModel) filter() transaction.Filter {
	f := transaction.Filter{Type: m.typeFilter}

	if !m.allTime {
		f.DateFrom = new(m.startDate)
		f.DateTo = new(m.endDate)
	}

	if m.categoryFilter >= 0 {
		f.Category = new(transaction.Categories()[m.categoryFilter])
	}

	return f
}

func (m *TransactionsModel) refreshListItems() {
	txs := m.env.Tx.Filtered(m.filter())

	items := make([]list.Item, len(txs))
	for i, tx := range txs {
		items[i] = txItem{env: m.env, tx: tx}
	}

	m.list.SetItems(items)
}

// Messages

type saveTxResultMsg struct {
	status string
	err    error
}

func (m TransactionsModel) saveTxCmd() tea.Cmd {
	env := m.env
	values := m.values
	editing := m.editing

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		loc := env.Clock.Now().Location()

		if editing == nil {
			d, err := values.Draft(loc)
			if err != nil {
				return saveTxResultMsg{err: err}
			}

			if _, err := env.Tx.Add(ctx, d); err != nil {
				return saveTxResultMsg{err: err}
			}

			return saveTxResultMsg{status: "Added."}
		}

		p, err := values.Patch(loc)
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		if err := env.Tx.Update(ctx, editing.ID, p); err != nil {
			return saveTxResultMsg{err: err}
		}

		if editing.Note != "" && *p.Category != editing.Category && *p.Category != transaction.CategoryOther {
			if err := env.Matching.Learn(ctx, editing.Note, *p.Category); err != nil {
				slog.Error("failed to learn category rule", "note", editing.Note, "category", *p.Category, "error", err)
				return saveTxResultMsg{status: "Saved, but the category rule was not stored."}
			}
		}

		return saveTxResultMsg{status: "Saved."}
	}
}

func (m TransactionsModel) deleteTxCmd() tea.Cmd {
	svc := m.env.Tx
	id := m.editing.ID

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{status: "Deleted."}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct {
	env *Env
}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	desc := i.Description()

	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(d.env.Palette.Accent).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)

	if desc == "" {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(desc))
}
