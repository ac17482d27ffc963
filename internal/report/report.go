// Package report assembles the dashboard's view of a loaded dataset:
// the summary metrics, category breakdowns, monthly insights, the
// recent trend, and the forecast for both directions.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/fincast/fincast/internal/common"
	"github.com/fincast/fincast/internal/dataset"
	"github.com/fincast/fincast/internal/forecast"
	"github.com/fincast/fincast/internal/model"
)

// Trend summarizes the direction of recent transaction amounts.
type Trend string

// Trend values.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// trendWindow is how many recent transactions feed the trend insight.
const trendWindow = 3

// Insights are the time-based observations shown under the metrics.
type Insights struct {
	BestMonth  string // month with the highest net, e.g. "January 2024"
	WorstMonth string // month with the lowest net
	Trend      Trend
}

// Report is everything the dashboard renders for one filtered view.
type Report struct {
	Filter            dataset.Filter
	Totals            dataset.Totals
	IncomeByCategory  []dataset.CategoryTotal
	ExpenseByCategory []dataset.CategoryTotal
	Insights          Insights
	Forecast          forecast.Result
}

// Build computes the full report for the filter. The forecast always
// runs on the unfiltered dataset; everything else honors the filter.
// Category breakdowns are only computed when no category filter is
// active, since a single-category pie is meaningless.
func Build(ctx context.Context, store *dataset.Store, filter dataset.Filter, opts forecast.Options) (Report, error) {
	r := Report{Filter: filter}

	var err error
	r.Totals, err = store.Totals(ctx, filter)
	if err != nil {
		return Report{}, fmt.Errorf("computing totals: %w", err)
	}

	if filter.Category == "" {
		r.IncomeByCategory, err = store.CategoryBreakdown(ctx, filter, model.DirectionIncome)
		if err != nil {
			return Report{}, fmt.Errorf("computing income breakdown: %w", err)
		}
		r.ExpenseByCategory, err = store.CategoryBreakdown(ctx, filter, model.DirectionExpense)
		if err != nil {
			return Report{}, fmt.Errorf("computing expense breakdown: %w", err)
		}
	}

	r.Insights, err = buildInsights(ctx, store, filter)
	if err != nil {
		return Report{}, err
	}

	txns, err := store.Transactions(ctx, dataset.Filter{})
	if err != nil {
		return Report{}, fmt.Errorf("loading transactions for forecast: %w", err)
	}
	if len(txns) == 0 {
		return Report{}, common.ErrNoData
	}

	r.Forecast, err = forecast.ForecastTransactions(txns, opts)
	if err != nil {
		return Report{}, fmt.Errorf("forecasting: %w", err)
	}

	return r, nil
}

func buildInsights(ctx context.Context, store *dataset.Store, filter dataset.Filter) (Insights, error) {
	months, err := store.MonthlyNet(ctx, filter)
	if err != nil {
		return Insights{}, fmt.Errorf("computing monthly nets: %w", err)
	}

	insights := Insights{Trend: TrendStable}
	if best, worst, ok := bestAndWorstMonth(months); ok {
		insights.BestMonth = best
		insights.WorstMonth = worst
	}

	amounts, err := store.RecentAmounts(ctx, filter, trendWindow)
	if err != nil {
		return Insights{}, fmt.Errorf("computing recent trend: %w", err)
	}
	insights.Trend = recentTrend(amounts)

	return insights, nil
}

// bestAndWorstMonth scans the contiguous month range from first to last,
// counting absent months as zero net. The first occurrence wins ties.
func bestAndWorstMonth(months []dataset.MonthNet) (best, worst string, ok bool) {
	if len(months) == 0 {
		return "", "", false
	}

	nets := make(map[string]float64, len(months))
	for _, m := range months {
		nets[m.Month] = m.Net
	}

	first, err := time.Parse("2006-01", months[0].Month)
	if err != nil {
		return "", "", false
	}
	last, err := time.Parse("2006-01", months[len(months)-1].Month)
	if err != nil {
		return "", "", false
	}

	var bestNet, worstNet float64
	for cur := first; !cur.After(last); cur = cur.AddDate(0, 1, 0) {
		net := nets[cur.Format("2006-01")]
		label := cur.Format("January 2006")

		if best == "" || net > bestNet {
			best, bestNet = label, net
		}
		if worst == "" || net < worstNet {
			worst, worstNet = label, net
		}
	}

	return best, worst, true
}

// recentTrend is the mean percent change across consecutive amounts in
// the window. Pairs whose base is zero are ignored; with no usable pair
// the trend is stable.
func recentTrend(amounts []float64) Trend {
	var sum float64
	var pairs int
	for i := 1; i < len(amounts); i++ {
		if amounts[i-1] == 0 {
			continue
		}
		sum += (amounts[i] - amounts[i-1]) / amounts[i-1]
		pairs++
	}

	if pairs == 0 {
		return TrendStable
	}

	switch mean := sum / float64(pairs); {
	case mean > 0:
		return TrendUp
	case mean < 0:
		return TrendDown
	default:
		return TrendStable
	}
}
