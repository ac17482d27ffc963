package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/fincast/fincast/internal/cli"
	"github.com/fincast/fincast/internal/dataset"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [files...]",
		Short: "Write the filtered transactions back out as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			filter, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetString("output")

			store, err := openStore(ctx, args)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			count, err := exportCSV(ctx, store, filter, output)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Wrote %d transactions to %s", count, output)))
			return nil
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().StringP("output", "o", "filtered_transactions.csv", "output file")

	return cmd
}

// exportCSV writes the filtered rows in the same column layout the
// loader reads, so exports round-trip.
func exportCSV(ctx context.Context, store *dataset.Store, filter dataset.Filter, path string) (int, error) {
	txns, err := store.Transactions(ctx, filter)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "Description", "Category", "Transaction Amount"}); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for _, t := range txns {
		record := []string{
			t.Date.Format("2006-01-02"),
			t.Description,
			t.Category,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return 0, fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flushing output: %w", err)
	}

	return len(txns), nil
}
