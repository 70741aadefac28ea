package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pennywise/internal/calendar"
	"github.com/MrJamesThe3rd/pennywise/internal/currency"
	"github.com/MrJamesThe3rd/pennywise/internal/export"
	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/locale"
	"github.com/MrJamesThe3rd/pennywise/internal/matching"
	"github.com/MrJamesThe3rd/pennywise/internal/theme"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// Env is shared by every screen. Lang and Palette change at runtime, so
// screens hold a pointer.
type Env struct {
	Tx       *transaction.Service
	Matching *matching.Service
	Importer *importer.Service
	Export   *export.Service
	Theme    *theme.Service
	Locale   *locale.Service

	Clock     calendar.Clock
	Rates     currency.RateProvider
	ExportDir string

	Lang    locale.Lang
	Palette Palette
}

// T translates a UI string for the current language.
func (e *Env) T(key string, args ...any) string {
	return e.Lang.Printer().Sprintf(key, args...)
}

// Palette holds the colors for one display mode.
type Palette struct {
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Border  lipgloss.Color
	Income  lipgloss.Color
	Expense lipgloss.Color
	Error   lipgloss.Color
}

func PaletteFor(mode theme.Mode) Palette {
	if mode == theme.Dark {
		return Palette{
			Text:    lipgloss.Color("252"),
			Muted:   lipgloss.Color("243"),
			Accent:  lipgloss.Color("205"),
			Border:  lipgloss.Color("240"),
			Income:  lipgloss.Color("42"),
			Expense: lipgloss.Color("203"),
			Error:   lipgloss.Color("196"),
		}
	}

	return Palette{
		Text:    lipgloss.Color("235"),
		Muted:   lipgloss.Color("245"),
		Accent:  lipgloss.Color("57"),
		Border:  lipgloss.Color("250"),
		Income:  lipgloss.Color("28"),
		Expense: lipgloss.Color("160"),
		Error:   lipgloss.Color("160"),
	}
}

// CommonModel is embedded by all views.
type CommonModel struct {
	env *Env
}

func (c CommonModel) fg(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(color)
}

func (c CommonModel) accent(s string) string {
	return c.fg(c.env.Palette.Accent).Render(s)
}

func (c CommonModel) muted(s string) string {
	return c.fg(c.env.Palette.Muted).Render(s)
}

func (c CommonModel) errorText(s string) string {
	return c.fg(c.env.Palette.Error).Render(s)
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// SettingsChangedMsg is sent after the theme or language changed, so the root
// model can refresh Env.
type SettingsChangedMsg struct{}

func SettingsChanged() tea.Msg {
	return SettingsChangedMsg{}
}
