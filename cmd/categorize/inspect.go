package main

import (
	"fmt"

	"github.com/Veraticus/txn-categorize/internal/cli"
	"github.com/spf13/cobra"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the transactions in a file",
		Long: `Show the transactions loaded from a CSV, TSV or XLSX file. The Label column
is never shown.

Examples:
  categorize inspect transactions.csv
  categorize inspect transactions.xlsx --limit 5
  categorize inspect transactions.csv --row 12`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().IntP("limit", "n", previewRows, "maximum rows to show (0 = all)")
	cmd.Flags().IntP("row", "r", 0, "show only this row")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ds, err := loadDataset(args[0], settings)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if cmd.Flags().Changed("row") {
		row, _ := cmd.Flags().GetInt("row")
		rendered, renderErr := cli.RenderRow(ds, row)
		if renderErr != nil {
			return renderErr
		}
		fmt.Fprintln(out, rendered)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%d transactions", ds.Len())))
	fmt.Fprintln(out, cli.RenderDataset(ds, limit))
	return nil
}
