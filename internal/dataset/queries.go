package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/fincast/fincast/internal/model"
)

// Totals are the summary metrics for a filtered view.
type Totals struct {
	Count    int
	Sum      float64 // signed sum of every amount
	Mean     float64 // signed mean; 0 when the view is empty
	Income   float64 // sum of non-negative amounts
	Expenses float64 // absolute value of the negative sum
	Net      float64 // Income - Expenses; equals Sum
}

// CategoryTotal is one category's contribution to a direction.
type CategoryTotal struct {
	Category string
	Total    float64 // absolute for expense categories
	Share    float64 // fraction of the direction total, in [0, 1]
}

// MonthNet is a month's net amount, keyed "2006-01".
type MonthNet struct {
	Month string
	Net   float64
}

// DayNet is a single day's net amount.
type DayNet struct {
	Date time.Time
	Net  float64
}

// Totals computes the summary metrics for the filter.
func (s *Store) Totals(ctx context.Context, f Filter) (Totals, error) {
	clause, args := f.where()

	var t Totals
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(amount), 0),
			COALESCE(AVG(amount), 0),
			COALESCE(SUM(CASE WHEN amount >= 0 THEN amount ELSE 0 END), 0),
			COALESCE(ABS(SUM(CASE WHEN amount < 0 THEN amount ELSE 0 END)), 0)
		FROM transactions`+clause, args...,
	).Scan(&t.Count, &t.Sum, &t.Mean, &t.Income, &t.Expenses)
	if err != nil {
		return Totals{}, fmt.Errorf("querying totals: %w", err)
	}

	t.Net = t.Income - t.Expenses

	return t, nil
}

// CategoryBreakdown returns per-category totals for one direction,
// descending by total, each with its share of the direction total.
// Expense totals are absolute values.
func (s *Store) CategoryBreakdown(ctx context.Context, f Filter, direction model.Direction) ([]CategoryTotal, error) {
	clause, args := f.where()

	sign := "amount >= 0"
	total := "SUM(amount)"
	if direction == model.DirectionExpense {
		sign = "amount < 0"
		total = "ABS(SUM(amount))"
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT category, %s AS total
		FROM transactions
		%s AND %s
		GROUP BY category
		ORDER BY total DESC, category ASC`, total, clause, sign), args...)
	if err != nil {
		return nil, fmt.Errorf("querying category breakdown: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var breakdown []CategoryTotal
	var directionTotal float64
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		directionTotal += ct.Total
		breakdown = append(breakdown, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	if directionTotal > 0 {
		for i := range breakdown {
			breakdown[i].Share = breakdown[i].Total / directionTotal
		}
	}

	return breakdown, nil
}

// MonthlyNet returns per-month net sums in ascending month order. Months
// with no matching rows are absent; callers needing a contiguous range
// zero-fill the gaps.
func (s *Store) MonthlyNet(ctx context.Context, f Filter) ([]MonthNet, error) {
	clause, args := f.where()

	rows, err := s.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m', date) AS month, SUM(amount)
		FROM transactions`+clause+`
		GROUP BY month
		ORDER BY month ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying monthly nets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var months []MonthNet
	for rows.Next() {
		var m MonthNet
		if err := rows.Scan(&m.Month, &m.Net); err != nil {
			return nil, fmt.Errorf("scanning month row: %w", err)
		}
		months = append(months, m)
	}

	return months, rows.Err()
}

// DailyNet returns per-day net sums in ascending date order.
func (s *Store) DailyNet(ctx context.Context, f Filter) ([]DayNet, error) {
	clause, args := f.where()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, SUM(amount)
		FROM transactions`+clause+`
		GROUP BY date
		ORDER BY date ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying daily nets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var days []DayNet
	for rows.Next() {
		var dateStr string
		var d DayNet
		if err := rows.Scan(&dateStr, &d.Net); err != nil {
			return nil, fmt.Errorf("scanning day row: %w", err)
		}
		d.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing stored date %q: %w", dateStr, err)
		}
		days = append(days, d)
	}

	return days, rows.Err()
}

// Categories returns the distinct category labels, sorted.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "SELECT DISTINCT category FROM transactions ORDER BY category ASC")
}

// Months returns the distinct months present, sorted ascending.
func (s *Store) Months(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "SELECT DISTINCT strftime('%Y-%m', date) FROM transactions ORDER BY 1 ASC")
}

func (s *Store) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying distinct values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

// Transactions returns the filtered rows ordered by date, preserving
// insertion order on ties.
func (s *Store) Transactions(ctx context.Context, f Filter) ([]model.Transaction, error) {
	clause, args := f.where()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, description, category, amount
		FROM transactions`+clause+`
		ORDER BY date ASC, rowid ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var dateStr string
		if err := rows.Scan(&t.ID, &dateStr, &t.Description, &t.Category, &t.Amount); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing stored date %q: %w", dateStr, err)
		}
		txns = append(txns, t)
	}

	return txns, rows.Err()
}

// RecentAmounts returns the last n filtered amounts in date order, the
// input for the recent-trend insight.
func (s *Store) RecentAmounts(ctx context.Context, f Filter, n int) ([]float64, error) {
	clause, args := f.where()
	args = append(args, n)

	// The inner query takes the newest n rows; the outer one restores
	// chronological order.
	rows, err := s.db.QueryContext(ctx, `
		SELECT amount FROM (
			SELECT rowid, date, amount
			FROM transactions`+clause+`
			ORDER BY date DESC, rowid DESC
			LIMIT ?
		) ORDER BY date ASC, rowid ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying recent amounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var amounts []float64
	for rows.Next() {
		var a float64
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scanning amount: %w", err)
		}
		amounts = append(amounts, a)
	}

	return amounts, rows.Err()
}
