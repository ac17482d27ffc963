package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fincast/fincast/internal/cli"
	"github.com/fincast/fincast/internal/dataset"
	"github.com/fincast/fincast/internal/report"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(cli.SubtleColor).
				Padding(0, 2)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cli.SubtleColor).
			Padding(0, 1).
			MarginRight(2)
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	if m.lastError != nil {
		b.WriteString(cli.FormatError(m.lastError.Error()))
		b.WriteString("\n")
	}

	switch m.tab {
	case TabOverview:
		b.WriteString(m.overviewView())
	case TabTransactions:
		b.WriteString(m.table.View())
	case TabForecast:
		b.WriteString(m.forecastView())
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))

	return b.String()
}

func (m Model) headerView() string {
	tabs := make([]string, 0, int(tabCount))
	for t := TabOverview; t < tabCount; t++ {
		style := inactiveTabStyle
		if t == m.tab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}

	category, month := m.filter.Category, m.filter.Month
	if category == "" {
		category = "All"
	}
	if month == "" {
		month = "All"
	}
	filterInfo := cli.SubtleStyle.Render(
		fmt.Sprintf("category: %s  month: %s  rows: %d", category, month, m.report.Totals.Count))

	return lipgloss.JoinHorizontal(lipgloss.Center,
		cli.TitleStyle.UnsetMargins().Render(cli.LedgerIcon+" fincast"),
		"  ",
		strings.Join(tabs, ""),
		"  ",
		filterInfo,
	)
}

func (m Model) overviewView() string {
	metrics := sectionStyle.Render(strings.Join([]string{
		cli.BoldStyle.Render("Key Metrics"),
		metricLine("Net", m.report.Totals.Net),
		metricLine("Average", m.report.Totals.Mean),
		metricLine("Income", m.report.Totals.Income),
		metricLine("Expenses", -m.report.Totals.Expenses),
	}, "\n"))

	insights := sectionStyle.Render(strings.Join([]string{
		cli.BoldStyle.Render("Insights"),
		"Best month:  " + orDash(m.report.Insights.BestMonth),
		"Worst month: " + orDash(m.report.Insights.WorstMonth),
		"Trend:       " + trendLabel(m.report.Insights.Trend),
	}, "\n"))

	top := lipgloss.JoinHorizontal(lipgloss.Top, metrics, insights)

	var sections []string
	sections = append(sections, top)

	if len(m.dailyNet) > 1 {
		sections = append(sections, sectionStyle.Render(strings.Join([]string{
			cli.BoldStyle.Render("Daily Net"),
			sparkline(m.dailyNet, 60),
			cli.SubtleStyle.Render(fmt.Sprintf("%s to %s",
				m.dailyNet[0].Date.Format("2006-01-02"),
				m.dailyNet[len(m.dailyNet)-1].Date.Format("2006-01-02"))),
		}, "\n")))
	}

	if len(m.report.IncomeByCategory) > 0 || len(m.report.ExpenseByCategory) > 0 {
		income := sectionStyle.Render(breakdownLines("Income by Category", m.report.IncomeByCategory, cli.IncomeStyle))
		expenses := sectionStyle.Render(breakdownLines("Expenses by Category", m.report.ExpenseByCategory, cli.ExpenseStyle))
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, income, expenses))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) forecastView() string {
	result := m.report.Forecast
	if len(result.Income) == 0 && len(result.Expense) == 0 {
		return cli.SubtleStyle.Render("No forecast available")
	}

	summary := sectionStyle.Render(strings.Join([]string{
		cli.BoldStyle.Render(fmt.Sprintf("Next %d Days", result.Horizon)),
		"Predicted income:   " + cli.IncomeStyle.Render(cli.FormatMoney(result.TotalIncome())),
		"Predicted expenses: " + cli.ExpenseStyle.Render(cli.FormatMoney(result.TotalExpense())),
		"Predicted net:      " + cli.FormatMoney(result.NetBalance()),
	}, "\n"))

	days := len(result.Income)
	if len(result.Expense) > days {
		days = len(result.Expense)
	}

	lines := []string{cli.BoldStyle.Render(fmt.Sprintf("%-12s %14s %14s", "Date", "Income", "Expenses"))}
	for i := 0; i < days; i++ {
		var date, income, expense string
		if i < len(result.Income) {
			date = result.Income[i].Date.Format("2006-01-02")
			income = cli.FormatMoney(result.Income[i].Amount)
		}
		if i < len(result.Expense) {
			if date == "" {
				date = result.Expense[i].Date.Format("2006-01-02")
			}
			expense = cli.FormatMoney(result.Expense[i].Amount)
		}
		lines = append(lines, fmt.Sprintf("%-12s %14s %14s", date, income, expense))
	}

	return lipgloss.JoinVertical(lipgloss.Left, summary, strings.Join(lines, "\n"))
}

func metricLine(label string, amount float64) string {
	style := cli.IncomeStyle
	if amount < 0 {
		style = cli.ExpenseStyle
	}
	return fmt.Sprintf("%-10s %s", label, style.Render(cli.FormatMoney(amount)))
}

func breakdownLines(title string, breakdown []dataset.CategoryTotal, style lipgloss.Style) string {
	lines := []string{cli.BoldStyle.Render(title)}
	if len(breakdown) == 0 {
		lines = append(lines, cli.SubtleStyle.Render("none"))
	}
	for _, ct := range breakdown {
		bar := strings.Repeat("█", barBlocks(ct.Share))
		lines = append(lines, fmt.Sprintf("%-16s %s %s",
			ct.Category, style.Render(bar), cli.FormatMoney(ct.Total)))
	}
	return strings.Join(lines, "\n")
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline scales the daily nets into a single row of block glyphs,
// at most width columns wide.
func sparkline(days []dataset.DayNet, width int) string {
	if len(days) > width {
		days = days[len(days)-width:]
	}

	lo, hi := days[0].Net, days[0].Net
	for _, d := range days {
		if d.Net < lo {
			lo = d.Net
		}
		if d.Net > hi {
			hi = d.Net
		}
	}

	runes := make([]rune, len(days))
	for i, d := range days {
		idx := 0
		if hi > lo {
			idx = int((d.Net - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		runes[i] = sparkRunes[idx]
	}

	return string(runes)
}

func barBlocks(share float64) int {
	n := int(share * 16)
	if n < 1 {
		n = 1
	}
	return n
}

func trendLabel(t report.Trend) string {
	switch t {
	case report.TrendUp:
		return "📈 up"
	case report.TrendDown:
		return "📉 down"
	default:
		return "➡️ stable"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
