package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pennywise/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pennywise/internal/calendar"
	"github.com/MrJamesThe3rd/pennywise/internal/config"
	"github.com/MrJamesThe3rd/pennywise/internal/currency"
	"github.com/MrJamesThe3rd/pennywise/internal/database"
	"github.com/MrJamesThe3rd/pennywise/internal/export"
	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/kv"
	kvSqlite "github.com/MrJamesThe3rd/pennywise/internal/kv/sqlite"
	"github.com/MrJamesThe3rd/pennywise/internal/locale"
	"github.com/MrJamesThe3rd/pennywise/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/pennywise/internal/matching/store"
	"github.com/MrJamesThe3rd/pennywise/internal/theme"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
	txStore "github.com/MrJamesThe3rd/pennywise/internal/transaction/store"
)

const startupTimeout = 10 * time.Second

type menuEntry struct {
	title string
	open  func(env *view.Env) view.View
}

var menu = []menuEntry{
	{"Dashboard", func(env *view.Env) view.View { return view.NewDashboardModel(env) }},
	{"Transactions", func(env *view.Env) view.View { return view.NewTransactionsModel(env) }},
	{"Review Categories", func(env *view.Env) view.View { return view.NewReviewModel(env) }},
	{"Import Transactions", func(env *view.Env) view.View { return view.NewImportModel(env) }},
	{"Export Transactions", func(env *view.Env) view.View { return view.NewExportModel(env) }},
	{"Settings", func(env *view.Env) view.View { return view.NewSettingsModel(env) }},
}

type model struct {
	env     *view.Env
	appName string
	logger  *slog.Logger

	current view.View // nil while the menu is shown
	width   int
	height  int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil {
			return m.updateMenu(msg)
		}

	case view.BackMsg:
		m.current = nil
		return m, nil

	case view.SettingsChangedMsg:
		m.refreshEnv()
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	if v, ok := next.(view.View); ok {
		m.current = v
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "q" {
		return m, tea.Quit
	}

	for i, entry := range menu {
		if key != fmt.Sprint(i+1) {
			continue
		}

		m.current = entry.open(m.env)

		size := func() tea.Msg { return tea.WindowSizeMsg{Width: m.width, Height: m.height} }

		return m, tea.Batch(m.current.Init(), size)
	}

	return m, nil
}

// refreshEnv picks up the current theme and language after a settings change
// or a scheduled theme switch.
func (m model) refreshEnv() {
	m.env.Palette = view.PaletteFor(m.env.Theme.Mode())

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	lang, err := m.env.Locale.Current(ctx)
	if err != nil {
		m.logger.Warn("reading language", "error", err)
		return
	}

	m.env.Lang = lang
}

func (m model) View() string {
	if m.current != nil {
		help := lipgloss.NewStyle().Foreground(m.env.Palette.Muted).Render(m.current.ShortHelp())
		return m.current.View() + "\n" + lipgloss.NewStyle().PaddingLeft(1).Render(help)
	}

	var sb strings.Builder

	sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(m.env.Palette.Accent).Render(m.appName) + "\n\n")

	for i, entry := range menu {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, m.env.T(entry.title))
	}

	sb.WriteString("\nq. " + m.env.T("Quit"))

	return lipgloss.NewStyle().Padding(2).Render(sb.String())
}

// openStore returns the configured backend and a func releasing it.
func openStore(cfg *config.Config) (kv.Store, func() error, error) {
	if cfg.Data.Backend == config.BackendMemory {
		return kv.NewMemory(), func() error { return nil }, nil
	}

	db, err := database.New(cfg.Data.SQLitePath)
	if err != nil {
		return nil, nil, err
	}

	return kvSqlite.New(db), db.Close, nil
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := tea.LogToFile(cfg.Log.File, "")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer closeStore()

	clock := calendar.SystemClock{}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	txSvc := transaction.NewService(txStore.New(store, logger), clock)
	if err := txSvc.Load(ctx); err != nil {
		return err
	}

	themeSvc := theme.NewService(store, clock, logger)
	if err := themeSvc.Load(ctx); err != nil {
		logger.Warn("applying theme", "error", err)
	}

	localeSvc := locale.NewService(store, cfg.App.Locale)

	lang, err := localeSvc.Current(ctx)
	if err != nil {
		logger.Warn("reading language", "error", err)
	}

	env := &view.Env{
		Tx:        txSvc,
		Matching:  matching.NewService(matchingStore.New(store)),
		Importer:  importer.NewService(time.Local, logger),
		Export:    export.NewService(txSvc),
		Theme:     themeSvc,
		Locale:    localeSvc,
		Clock:     clock,
		Rates:     currency.DefaultRates,
		ExportDir: cfg.Data.ExportDir,
		Lang:      lang,
		Palette:   view.PaletteFor(themeSvc.Mode()),
	}

	logger.Info("starting", "backend", cfg.Data.Backend, "transactions", len(txSvc.All()), "lang", lang, "theme", themeSvc.Mode())

	p := tea.NewProgram(model{env: env, appName: cfg.App.Name, logger: logger}, tea.WithAltScreen())

	scheduler, err := theme.NewScheduler(themeSvc, cfg.Theme.CheckInterval, logger, func(theme.Mode) {
		p.Send(view.SettingsChangedMsg{})
	})
	if err != nil {
		return err
	}

	scheduler.Start()
	defer scheduler.Stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("pennywise failed", "error", err)
		os.Exit(1)
	}
}
