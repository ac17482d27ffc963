// Package loader reads transaction files into model.Transaction values.
// It understands CSV exports and OFX/QFX bank statements, skips rows it
// cannot coerce with a per-row reason, and dedupes across files by
// content hash.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fincast/fincast/internal/common"
	"github.com/fincast/fincast/internal/model"
)

// SkippedRow records one input row that could not be coerced.
type SkippedRow struct {
	Reason string
	Line   int
}

// Report summarizes the load of a single file. Skipped rows are
// data-quality warnings, never fatal to the file.
type Report struct {
	File    string
	Skipped []SkippedRow
	Parsed  int
}

// Load reads every given file, dispatching on extension, and returns the
// combined transactions with duplicates removed. One report per file.
func Load(ctx context.Context, paths []string) ([]model.Transaction, []Report, error) {
	if len(paths) == 0 {
		return nil, nil, common.ErrNoTransactions
	}

	var all []model.Transaction
	reports := make([]Report, 0, len(paths))
	seen := make(map[string]bool)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		txns, report, err := LoadFile(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("loading %s: %w", path, err)
		}

		duplicates := 0
		for _, t := range txns {
			if seen[t.ID] {
				duplicates++
				continue
			}
			seen[t.ID] = true
			all = append(all, t)
		}
		if duplicates > 0 {
			common.LogInfo("skipped duplicate transactions", common.Fields{
				"file":       path,
				"duplicates": duplicates,
			})
		}

		reports = append(reports, report)
	}

	return all, reports, nil
}

// LoadFile reads a single transaction file, dispatching on extension.
func LoadFile(ctx context.Context, path string) ([]model.Transaction, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("opening file: %w", err)
	}
	defer func() { _ = f.Close() }()

	report := Report{File: path}

	var txns []model.Transaction
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		txns, report.Skipped, err = parseCSV(f)
	case ".ofx", ".qfx":
		txns, err = parseOFX(ctx, f)
	default:
		return nil, Report{}, fmt.Errorf("%w: %s", common.ErrUnsupportedFile, filepath.Ext(path))
	}
	if err != nil {
		return nil, Report{}, err
	}

	report.Parsed = len(txns)
	for _, row := range report.Skipped {
		common.LogWarn("skipped malformed row", common.Fields{
			"file":   path,
			"line":   row.Line,
			"reason": row.Reason,
		})
	}

	return txns, report, nil
}
