package main

import (
	"fmt"

	"github.com/fincast/fincast/internal/cli"
	"github.com/fincast/fincast/internal/loader"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "Scan input files for data-quality problems",
		Long: `Parse each input file and report how many rows were loaded and which
rows were skipped, with the line number and reason for every skip.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			files, err := dataFiles(args)
			if err != nil {
				return err
			}

			bar := progressbar.Default(int64(len(files)), "checking")

			var reports []loader.Report
			var failures int
			for _, file := range files {
				_, report, err := loader.LoadFile(ctx, file)
				_ = bar.Add(1)
				if err != nil {
					failures++
					fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", file, err)))
					continue
				}
				reports = append(reports, report)
			}
			_ = bar.Finish()

			for _, report := range reports {
				printReport(report)
			}

			if failures > 0 {
				return fmt.Errorf("%d of %d files failed to load", failures, len(files))
			}
			return nil
		},
	}
}

func printReport(report loader.Report) {
	if len(report.Skipped) == 0 {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s: %d rows, no problems", report.File, report.Parsed)))
		return
	}

	fmt.Println(cli.FormatWarning(fmt.Sprintf("%s: %d rows, %d skipped",
		report.File, report.Parsed, len(report.Skipped))))
	for _, row := range report.Skipped {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  line %d: %s", row.Line, row.Reason)))
	}
}
