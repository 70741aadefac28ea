package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateSourceSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateConflicts
	importStateResult
)

type ImportModel struct {
	CommonModel

	state          importState
	filePicker     filepicker.Model
	spinner        spinner.Model
	selectedSource importer.Source
	sources        []importer.Source
	sourceCursor   int

	newDrafts    []transaction.Draft
	conflicts    []transaction.Conflict
	conflictList list.Model
	selected     map[int]bool

	categorized int
	status      string
	err         error
}

func NewImportModel(env *Env) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt", ".tsv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(env.Palette.Accent)

	return ImportModel{
		CommonModel: CommonModel{env: env},
		filePicker:  fp,
		spinner:     sp,
		sources:     importer.Sources(),
		selected:    make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return m.env.T("Import Transactions") }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateConflicts {
		return m.env.T("Space: toggle | a: all | n: none | Enter: confirm | Esc: cancel")
	}

	return m.env.T("Esc: back | Enter: select")
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateSourceSelect {
			return m.updateSourceSelect(msg)
		}

		if m.state == importStateConflicts {
			return m.updateConflicts(msg)
		}

	case spinner.TickMsg:
		if m.state != importStateImporting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case importResultMsg:
		m.categorized = msg.categorized

		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = m.env.T("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.result.Conflicts) == 0 {
			m.state = importStateResult
			m.status = m.env.T("Imported %d transactions.", len(msg.result.Imported))

			return m, nil
		}

		m.newDrafts = msg.result.New
		m.conflicts = msg.result.Conflicts
		m.selected = make(map[int]bool)
		m.state = importStateConflicts

		items := make([]list.Item, len(m.conflicts))
		for i, c := range m.conflicts {
			items[i] = conflictItem{conflict: c, index: i}
		}

		delegate := conflictDelegate{env: m.env, selected: m.selected}
		m.conflictList = list.New(items, delegate, 80, 20)
		m.conflictList.Title = m.env.T("Possible duplicates")
		m.conflictList.SetShowStatusBar(false)
		m.conflictList.SetFilteringEnabled(false)
		m.conflictList.SetShowHelp(false)

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = m.env.T("Error: %v", msg.err)

			return m, nil
		}

		m.status = m.env.T("Imported %d transactions.", msg.count)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = m.env.T("Importing from %s...", path)

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateSourceSelect
		return m, nil
	case importStateResult:
		m.state = importStateSourceSelect
		m.err = nil
		m.status = ""
		m.categorized = 0

		return m, nil
	case importStateConflicts:
		m.state = importStateSourceSelect
		m.conflicts = nil
		m.newDrafts = nil
		m.selected = make(map[int]bool)

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateSourceSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.sourceCursor > 0 {
			m.sourceCursor--
		}
	case tea.KeyDown:
		if m.sourceCursor < len(m.sources)-1 {
			m.sourceCursor++
		}
	case tea.KeyEnter:
		m.selectedSource = m.sources[m.sourceCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.conflictList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.conflicts {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.conflicts {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateSourceSelect:
		return m.viewSourceSelect()
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.spinner.View() + " " + m.status)
	case importStateConflicts:
		hint := m.muted(m.env.T("%d new transactions will be imported. Select duplicates to import anyway.", len(m.newDrafts)))
		return lipgloss.NewStyle().Padding(1).Render(hint + "\n\n" + m.conflictList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewSourceSelect() string {
	var sb strings.Builder

	sb.WriteString(m.env.T("Select statement format:") + "\n\n")

	for i, source := range m.sources {
		cursor := " "
		label := sourceLabel(m.env, source)

		if i == m.sourceCursor {
			cursor = ">"
			label = m.accent(label)
		}

		fmt.Fprintf(&sb, "%s %s\n", cursor, label)
	}

	return lipgloss.NewStyle().Padding(2).Render(sb.String())
}

func sourceLabel(env *Env, s importer.Source) string {
	switch s {
	case importer.SourceCGD:
		return env.T("CGD bank statement")
	case importer.SourceLedger:
		return env.T("Pennywise CSV")
	}

	return string(s)
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		m.env.T("Select file to import (%s):", sourceLabel(m.env, m.selectedSource)) + "\n\n" + m.filePicker.View(),
	)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	back := "\n\n" + m.muted(m.env.T("(Esc to go back)"))

	if m.err != nil {
		return style.Render(m.errorText(m.status) + back)
	}

	status := m.fg(m.env.Palette.Income).Render(m.status)
	if m.categorized > 0 {
		status += "\n" + m.muted(m.env.T("%d categorized from saved rules.", m.categorized))
	}

	return style.Render(status + back)
}

// Messages

type importResultMsg struct {
	result      *transaction.ImportResult
	categorized int
	err         error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	env := m.env
	source := m.selectedSource

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		drafts, err := env.Importer.Import(source, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		categorized, err := env.Matching.Categorize(ctx, drafts)
		if err != nil {
			return importResultMsg{err: err}
		}

		result, err := env.Tx.ImportBatch(ctx, drafts)
		if err != nil {
			return importResultMsg{categorized: categorized, err: err}
		}

		return importResultMsg{result: result, categorized: categorized}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	svc := m.env.Tx
	newDrafts := m.newDrafts
	conflicts := m.conflicts
	selected := m.selected

	return func() tea.Msg {
		drafts := append([]transaction.Draft(nil), newDrafts...)

		for i, c := range conflicts {
			if !selected[i] {
				continue
			}

			drafts = append(drafts, c.Incoming)
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := svc.CreateBatch(ctx, drafts)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		return confirmResultMsg{count: len(txs)}
	}
}

// Conflict list item

type conflictItem struct {
	conflict transaction.Conflict
	index    int
}

func (i conflictItem) Title() string       { return "" }
func (i conflictItem) Description() string { return "" }
func (i conflictItem) FilterValue() string { return "" }

// Conflict list delegate

type conflictDelegate struct {
	env      *Env
	selected map[int]bool
}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if d.selected[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	incoming := item.conflict.Incoming
	existing := item.conflict.Existing

	line1 := fmt.Sprintf("%s%s %s  %s  %s",
		cursor, checkbox,
		FormatDate(incoming.Date),
		FormatSigned(d.env.Lang, &transaction.Transaction{Type: incoming.Type, Amount: incoming.Amount, Currency: incoming.Currency}),
		incoming.Note,
	)

	line2 := d.env.T("      Existing: %s  %s  %s [%s]",
		FormatDate(existing.Date),
		FormatSigned(d.env.Lang, existing),
		existing.Note,
		d.env.T(transaction.CategoryLabel(existing.Category)),
	)

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
