package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fincast/fincast/internal/common"
	"github.com/fincast/fincast/internal/model"
)

// Header aliases, matched case-insensitively after trimming.
var (
	dateAliases        = []string{"date", "transaction date", "posted date"}
	categoryAliases    = []string{"category"}
	amountAliases      = []string{"transaction amount", "amount"}
	descriptionAliases = []string{"description", "name", "memo", "payee"}
)

// Date layouts tried in order; ISO 8601 first, then common US forms.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// columnMap locates the required and optional columns in a header row.
type columnMap struct {
	date        int
	category    int
	amount      int
	description int
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{date: -1, category: -1, amount: -1, description: -1}

	find := func(aliases []string) int {
		for i, h := range header {
			name := strings.ToLower(strings.TrimSpace(h))
			for _, alias := range aliases {
				if name == alias {
					return i
				}
			}
		}
		return -1
	}

	cols.date = find(dateAliases)
	cols.category = find(categoryAliases)
	cols.amount = find(amountAliases)
	cols.description = find(descriptionAliases)

	switch {
	case cols.date < 0:
		return cols, fmt.Errorf("%w: date", common.ErrMissingColumn)
	case cols.category < 0:
		return cols, fmt.Errorf("%w: Category", common.ErrMissingColumn)
	case cols.amount < 0:
		return cols, fmt.Errorf("%w: Transaction Amount", common.ErrMissingColumn)
	}

	return cols, nil
}

// parseCSV reads a header-prefixed CSV of transactions. Rows whose date
// or amount cannot be coerced are skipped and recorded; a missing
// required column fails the whole file.
func parseCSV(r io.Reader) ([]model.Transaction, []SkippedRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, nil, err
	}

	var txns []model.Transaction
	var skipped []SkippedRow
	line := 1 // header consumed

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped = append(skipped, SkippedRow{Line: line, Reason: fmt.Sprintf("malformed CSV: %v", err)})
			continue
		}
		if cols.date >= len(record) || cols.category >= len(record) || cols.amount >= len(record) {
			skipped = append(skipped, SkippedRow{Line: line, Reason: "too few fields"})
			continue
		}

		date, err := parseDate(record[cols.date])
		if err != nil {
			skipped = append(skipped, SkippedRow{Line: line, Reason: err.Error()})
			continue
		}

		amount, err := parseAmount(record[cols.amount])
		if err != nil {
			skipped = append(skipped, SkippedRow{Line: line, Reason: err.Error()})
			continue
		}

		txn := model.Transaction{
			Date:     model.Day(date),
			Category: strings.TrimSpace(record[cols.category]),
			Amount:   amount,
		}
		if cols.description >= 0 && cols.description < len(record) {
			txn.Description = strings.TrimSpace(record[cols.description])
		}
		txn.ID = txn.GenerateID()

		txns = append(txns, txn)
	}

	return txns, skipped, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// parseAmount coerces a decimal string, tolerating a currency symbol,
// thousands separators, and parenthesized negatives.
func parseAmount(value string) (float64, error) {
	s := strings.TrimSpace(value)
	original := s

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, ",", "")
	if strings.HasPrefix(s, "-$") {
		negative = true
		s = s[2:]
	}
	s = strings.TrimPrefix(s, "$")

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount %q", original)
	}
	if negative {
		amount = -amount
	}

	return amount, nil
}
