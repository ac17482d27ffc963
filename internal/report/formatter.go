package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fincast/fincast/internal/cli"
	"github.com/fincast/fincast/internal/dataset"
	"github.com/fincast/fincast/internal/forecast"
)

const barWidth = 24

// CLIFormatter renders a Report as styled terminal sections.
type CLIFormatter struct {
	w io.Writer
}

// NewCLIFormatter creates a formatter writing to w.
func NewCLIFormatter(w io.Writer) *CLIFormatter {
	return &CLIFormatter{w: w}
}

// Format writes the full report.
func (f *CLIFormatter) Format(r Report) error {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("Financial Dashboard"))
	b.WriteString("\n")
	b.WriteString(cli.SubtitleStyle.Render(filterLine(r)))
	b.WriteString("\n\n")

	b.WriteString(f.metricsSection(r))

	if len(r.IncomeByCategory) > 0 {
		b.WriteString(f.breakdownSection("Income by Category", r.IncomeByCategory, cli.IncomeStyle))
	}
	if len(r.ExpenseByCategory) > 0 {
		b.WriteString(f.breakdownSection("Expenses by Category", r.ExpenseByCategory, cli.ExpenseStyle))
	}

	b.WriteString(f.insightsSection(r.Insights))
	b.WriteString(f.forecastSection(r.Forecast))

	_, err := fmt.Fprintln(f.w, b.String())
	return err
}

// FormatForecast writes only the forecast section, for the forecast
// subcommand.
func (f *CLIFormatter) FormatForecast(result forecast.Result) error {
	var b strings.Builder
	b.WriteString(cli.FormatTitle("Forecast"))
	b.WriteString("\n\n")
	b.WriteString(f.forecastSection(result))
	b.WriteString(f.forecastTable(result))

	_, err := fmt.Fprintln(f.w, b.String())
	return err
}

func filterLine(r Report) string {
	category, month := r.Filter.Category, r.Filter.Month
	if category == "" {
		category = "All"
	}
	if month == "" {
		month = "All"
	}
	return fmt.Sprintf("Category: %s  %s  Month: %s  %s  %d transactions",
		category, cli.SubtleStyle.Render("|"), month, cli.SubtleStyle.Render("|"), r.Totals.Count)
}

func (f *CLIFormatter) metricsSection(r Report) string {
	rows := []string{
		metricRow("Net Transaction Amount", cli.FormatMoney(r.Totals.Net), signedStyle(r.Totals.Net)),
		metricRow("Average Transaction Amount", cli.FormatMoney(r.Totals.Mean), signedStyle(r.Totals.Mean)),
		metricRow("Total Income", cli.FormatMoney(r.Totals.Income), cli.IncomeStyle),
		metricRow("Total Expenses", cli.FormatMoney(r.Totals.Expenses), cli.ExpenseStyle),
	}

	return cli.RenderBox(cli.CoinIcon+" Key Metrics", strings.Join(rows, "\n")) + "\n\n"
}

func (f *CLIFormatter) breakdownSection(title string, breakdown []dataset.CategoryTotal, style lipgloss.Style) string {
	var rows []string
	for _, ct := range breakdown {
		bar := strings.Repeat("█", blocks(ct.Share))
		rows = append(rows, fmt.Sprintf("%-18s %s %s  %s",
			truncate(ct.Category, 18),
			style.Render(bar),
			cli.FormatMoney(ct.Total),
			cli.SubtleStyle.Render(fmt.Sprintf("%.1f%%", ct.Share*100)),
		))
	}

	return cli.RenderBox(title, strings.Join(rows, "\n")) + "\n\n"
}

func (f *CLIFormatter) insightsSection(in Insights) string {
	var rows []string
	if in.BestMonth != "" {
		rows = append(rows, fmt.Sprintf("%s Month with highest net income: %s",
			cli.CalendarIcon, cli.IncomeStyle.Render(in.BestMonth)))
		rows = append(rows, fmt.Sprintf("%s Month with lowest net income:  %s",
			cli.CalendarIcon, cli.ExpenseStyle.Render(in.WorstMonth)))
	}

	switch in.Trend {
	case TrendUp:
		rows = append(rows, "📈 Recent transaction amounts are trending up")
	case TrendDown:
		rows = append(rows, "📉 Recent transaction amounts are trending down")
	default:
		rows = append(rows, "➡️  Recent transaction amounts are stable")
	}

	return cli.RenderBox("Insights", strings.Join(rows, "\n")) + "\n\n"
}

func (f *CLIFormatter) forecastSection(result forecast.Result) string {
	if len(result.Income) == 0 && len(result.Expense) == 0 {
		return cli.RenderBox("Forecast", cli.SubtleStyle.Render("No forecast available")) + "\n"
	}

	rows := []string{
		metricRow(fmt.Sprintf("Predicted Income (%d days)", result.Horizon),
			cli.FormatMoney(result.TotalIncome()), cli.IncomeStyle),
		metricRow(fmt.Sprintf("Predicted Expenses (%d days)", result.Horizon),
			cli.FormatMoney(result.TotalExpense()), cli.ExpenseStyle),
		metricRow("Predicted Net Balance",
			cli.FormatMoney(result.NetBalance()), signedStyle(result.NetBalance())),
	}

	for _, note := range constantFitNotes(result) {
		rows = append(rows, cli.SubtleStyle.Render(note))
	}

	return cli.RenderBox(cli.ChartIcon+" Forecast", strings.Join(rows, "\n")) + "\n"
}

// forecastTable lists the daily predictions side by side.
func (f *CLIFormatter) forecastTable(result forecast.Result) string {
	days := len(result.Income)
	if len(result.Expense) > days {
		days = len(result.Expense)
	}
	if days == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-12s %14s %14s", "Date", "Income", "Expenses")))
	b.WriteString("\n")

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
		b.WriteString(fmt.Sprintf("%-12s %14s %14s\n", date, income, expense))
	}

	return b.String()
}

func constantFitNotes(result forecast.Result) []string {
	var notes []string
	if result.IncomeModel != nil && result.IncomeModel.Constant {
		notes = append(notes, "income fit is a flat line: too few distinct dates")
	}
	if result.ExpenseModel != nil && result.ExpenseModel.Constant {
		notes = append(notes, "expense fit is a flat line: too few distinct dates")
	}
	return notes
}

func metricRow(label, value string, style lipgloss.Style) string {
	return fmt.Sprintf("%-30s %s", label, style.Render(value))
}

func signedStyle(amount float64) lipgloss.Style {
	if amount < 0 {
		return cli.ExpenseStyle
	}
	return cli.IncomeStyle
}

func blocks(share float64) int {
	n := int(share * barWidth)
	if n < 1 {
		n = 1
	}
	return n
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
