package main

import (
	"fmt"

	"github.com/Veraticus/txn-categorize/internal/cli"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the categories the model may choose from",
		Long: `List the built-in categories plus up to two custom ones.

Examples:
  categorize categories
  categorize categories --category sport --category charity`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tax, err := taxonomyFromFlags(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle(fmt.Sprintf("%d categories", tax.Len())))
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderCategories(tax))
			return nil
		},
	}

	addCategoryFlag(cmd)

	return cmd
}
