// Package tui is the interactive terminal dashboard: the same metrics,
// breakdowns, insights and forecasts as the static report, with
// category and month filters cycled from the keyboard.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fincast/fincast/internal/cli"
	"github.com/fincast/fincast/internal/dataset"
	"github.com/fincast/fincast/internal/forecast"
	"github.com/fincast/fincast/internal/report"
)

// Tab identifies one dashboard view.
type Tab int

// Dashboard tabs.
const (
	TabOverview Tab = iota
	TabTransactions
	TabForecast
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabTransactions:
		return "Transactions"
	case TabForecast:
		return "Forecast"
	default:
		return "Unknown"
	}
}

// Config holds everything the dashboard needs to run.
type Config struct {
	Store    *dataset.Store
	Forecast forecast.Options
}

// Model holds the dashboard state. All queries run synchronously: the
// dataset is in memory and every computation is bounded.
type Model struct {
	ctx        context.Context
	store      *dataset.Store
	lastError  error
	categories []string // with leading "" for All
	months     []string
	dailyNet   []dataset.DayNet
	report     report.Report
	table      table.Model
	keymap     KeyMap
	help       help.Model
	config     Config
	filter     dataset.Filter
	tab        Tab
	width      int
	height     int
	quitting   bool
}

// NewModel builds the dashboard model and loads the initial view.
func NewModel(ctx context.Context, cfg Config) (Model, error) {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Description", Width: 28},
		{Title: "Category", Width: 16},
		{Title: "Amount", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(cli.PrimaryColor)
	styles.Selected = styles.Selected.Foreground(cli.PrimaryColor).Bold(true)
	t.SetStyles(styles)

	m := Model{
		ctx:    ctx,
		store:  cfg.Store,
		config: cfg,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		table:  t,
	}

	categories, err := cfg.Store.Categories(ctx)
	if err != nil {
		return Model{}, fmt.Errorf("loading categories: %w", err)
	}
	m.categories = append([]string{""}, categories...)

	months, err := cfg.Store.Months(ctx)
	if err != nil {
		return Model{}, fmt.Errorf("loading months: %w", err)
	}
	m.months = append([]string{""}, months...)

	if err := m.refresh(); err != nil {
		return Model{}, err
	}

	return m, nil
}

// refresh recomputes the report and table rows for the active filter.
func (m *Model) refresh() error {
	r, err := report.Build(m.ctx, m.store, m.filter, m.config.Forecast)
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}
	m.report = r

	m.dailyNet, err = m.store.DailyNet(m.ctx, m.filter)
	if err != nil {
		return fmt.Errorf("loading daily nets: %w", err)
	}

	txns, err := m.store.Transactions(m.ctx, m.filter)
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}

	rows := make([]table.Row, len(txns))
	for i, t := range txns {
		rows[i] = table.Row{
			t.Date.Format("2006-01-02"),
			t.Description,
			t.Category,
			cli.FormatMoney(t.Amount),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()

	return nil
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(6, msg.Height-10))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keymap.NextTab):
			m.tab = (m.tab + 1) % tabCount
			return m, nil

		case key.Matches(msg, m.keymap.PrevTab):
			m.tab = (m.tab + tabCount - 1) % tabCount
			return m, nil

		case key.Matches(msg, m.keymap.NextCategory):
			m.filter.Category = cycle(m.categories, m.filter.Category)
			m.lastError = m.refresh()
			return m, nil

		case key.Matches(msg, m.keymap.NextMonth):
			m.filter.Month = cycle(m.months, m.filter.Month)
			m.lastError = m.refresh()
			return m, nil

		case key.Matches(msg, m.keymap.ClearFilters):
			m.filter = dataset.Filter{}
			m.lastError = m.refresh()
			return m, nil
		}
	}

	if m.tab == TabTransactions {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

// cycle advances to the next value, wrapping to the front.
func cycle(values []string, current string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	if len(values) > 0 {
		return values[0]
	}
	return ""
}
