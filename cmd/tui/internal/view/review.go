package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateReviewing
)

// ReviewModel walks through uncategorized transactions one by one. Each
// choice is saved and remembered as a rule for the note pattern.
type ReviewModel struct {
	CommonModel

	state           reviewState
	timeframePicker TimeframePicker

	queue      []*transaction.Transaction
	current    *transaction.Transaction
	totalCount int

	categories   []string
	cursor       int
	patternInput textinput.Model
	patternFocus bool

	status string
}

func NewReviewModel(env *Env) ReviewModel {
	ti := textinput.New()
	ti.Prompt = env.T("Rule: ")
	ti.Placeholder = env.T("text to match in future notes")
	ti.Width = 50

	return ReviewModel{
		CommonModel:     CommonModel{env: env},
		timeframePicker: NewTimeframePicker(env, TimeframeThisWeek),
		categories: slices.DeleteFunc(transaction.Categories(), func(c string) bool {
			return c == transaction.CategoryOther
		}),
		patternInput: ti,
	}
}

func (m ReviewModel) Title() string { return m.env.T("Review Categories") }

func (m ReviewModel) ShortHelp() string {
	if m.state == reviewStateReviewing {
		return m.env.T("↑/↓: category | Tab: edit rule | Enter: save & next | s: skip | Esc: back")
	}

	return m.env.T("Esc: back | Enter: select")
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.queue = reviewQueue(m.env.Tx, msg)
		m.totalCount = len(m.queue)
		m.state = reviewStateReviewing
		m.status = ""

		return m, m.nextTx()

	case reviewSavedMsg:
		if msg.err != nil {
			m.status = m.env.T("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = ""

		return m, m.nextTx()

	case tea.KeyMsg:
		if m.state == reviewStateTimeframe {
			if msg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
				return m, Back
			}

			break
		}

		return m.updateReviewing(msg)
	}

	if m.state == reviewStateTimeframe {
		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd
	m.patternInput, cmd = m.patternInput.Update(msg)

	return m, cmd
}

// reviewQueue lists the uncategorized transactions of the period, oldest first.
func reviewQueue(svc *transaction.Service, msg TimeframeSelectedMsg) []*transaction.Transaction {
	var txs []*transaction.Transaction
	if msg.All {
		txs = svc.ByCategory(transaction.CategoryOther)
	} else {
		txs = svc.Filtered(reviewFilter(msg))
	}

	slices.SortStableFunc(txs, func(a, b *transaction.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	return txs
}

func reviewFilter(msg TimeframeSelectedMsg) transaction.Filter {
	f := transaction.Filter{Category: new(transaction.CategoryOther)}

	if !msg.All {
		f.DateFrom = new(msg.Start)
		f.DateTo = new(msg.End)
	}

	return f
}

func (m ReviewModel) updateReviewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = reviewStateTimeframe
		m.timeframePicker.Reset()
		m.queue, m.current = nil, nil

		return m, nil
	case tea.KeyTab:
		m.patternFocus = !m.patternFocus
		if m.patternFocus {
			return m, m.patternInput.Focus()
		}

		m.patternInput.Blur()

		return m, nil
	case tea.KeyEnter:
		if m.current == nil {
			return m, nil
		}

		return m, m.saveCmd(m.current, m.categories[m.cursor], m.patternInput.Value())
	}

	if m.current == nil {
		return m, nil
	}

	if m.patternFocus {
		var cmd tea.Cmd
		m.patternInput, cmd = m.patternInput.Update(msg)

		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.categories)-1 {
			m.cursor++
		}
	case "s":
		return m, m.nextTx()
	}

	return m, nil
}

// nextTx pops the queue and preselects the suggested category, if any.
func (m *ReviewModel) nextTx() tea.Cmd {
	m.patternFocus = false
	m.patternInput.Blur()

	if len(m.queue) == 0 {
		m.current = nil
		return nil
	}

	m.current = m.queue[0]
	m.queue = m.queue[1:]
	m.cursor = 0
	m.patternInput.SetValue(m.current.Note)

	if m.current.Note == "" {
		return nil
	}

	ctx, cancel := storeCtx()
	defer cancel()

	suggestion, err := m.env.Matching.Suggest(ctx, m.current.Note)
	if err != nil || suggestion == "" {
		return nil
	}

	if i := slices.Index(m.categories, suggestion); i >= 0 {
		m.cursor = i
	}

	return nil
}

func (m ReviewModel) View() string {
	if m.state == reviewStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(
			m.env.T("Review uncategorized transactions") + "\n\n" + m.timeframePicker.View(),
		)
	}

	if m.current == nil {
		done := m.env.T("All done! No more uncategorized transactions.")
		if m.totalCount == 0 {
			done = m.env.T("No uncategorized transactions found.")
		}

		return lipgloss.NewStyle().Padding(2).Render(done + "\n\n" + m.muted(m.env.T("(Esc to back)")))
	}

	var sb strings.Builder

	progress := m.totalCount - len(m.queue)
	sb.WriteString(m.accent(m.env.T("Reviewing %d/%d", progress, m.totalCount)) + "\n\n")

	sb.WriteString(lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(m.env.Palette.Border).
		Padding(0, 1).
		Render(m.env.T("Date: %s  |  Amount: %s\nNote: %s",
			FormatDate(m.current.Date),
			FormatSigned(m.env.Lang, m.current),
			m.current.Note,
		)))
	sb.WriteString("\n\n")

	for i, c := range m.categories {
		cursor := "  "
		label := m.env.T(transaction.CategoryLabel(c))

		if i == m.cursor {
			cursor = "> "
			label = m.accent(label)
		}

		fmt.Fprintf(&sb, "%s%s\n", cursor, label)
	}

	sb.WriteString("\n" + m.patternInput.View())

	if m.status != "" {
		sb.WriteString("\n\n" + m.errorText(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(sb.String())
}

type reviewSavedMsg struct {
	err error
}

func (m ReviewModel) saveCmd(tx *transaction.Transaction, category, pattern string) tea.Cmd {
	env := m.env

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		if err := env.Tx.Update(ctx, tx.ID, transaction.Patch{Category: &category}); err != nil {
			return reviewSavedMsg{err: err}
		}

		if strings.TrimSpace(pattern) != "" {
			if err := env.Matching.Learn(ctx, pattern, category); err != nil {
				return reviewSavedMsg{err: err}
			}
		}

		return reviewSavedMsg{}
	}
}
