package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/txn-categorize/internal/cli"
	"github.com/Veraticus/txn-categorize/internal/common"
	"github.com/Veraticus/txn-categorize/internal/config"
	"github.com/Veraticus/txn-categorize/internal/model"
	"github.com/Veraticus/txn-categorize/internal/prompt"
	"github.com/spf13/cobra"
)

func promptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt [FILE]",
		Short: "Print the prompt that would be sent for a row",
		Long: `Print the messages that classify would send for a row, without calling the
model. With --raw the templates are shown with placeholders instead and no
file is needed.

Examples:
  categorize prompt transactions.csv --row 3
  categorize prompt transactions.csv --row 3 --category sport
  categorize prompt --raw`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPrompt,
	}

	cmd.Flags().IntP("row", "r", 0, "row to build the prompt for")
	cmd.Flags().Bool("raw", false, "show the templates with placeholders")
	addCategoryFlag(cmd)

	return cmd
}

func runPrompt(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	tax, err := taxonomyFromFlags(cmd)
	if err != nil {
		return err
	}

	builder, err := prompt.NewBuilder(prompt.Options{OverrideVendor: settings.OverrideVendor})
	if err != nil {
		return err
	}

	var req model.ClassificationRequest
	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		req, err = builder.Raw(tax)
	} else {
		if len(args) == 0 {
			return fmt.Errorf("%w: a transaction file is required unless --raw is set", common.ErrInvalidConfig)
		}
		req, err = requestForRow(cmd, args[0], settings, tax, builder)
	}
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), cli.RenderRequest(req))
	return nil
}

func requestForRow(cmd *cobra.Command, path string, settings config.Settings, tax *model.Taxonomy, builder *prompt.Builder) (model.ClassificationRequest, error) {
	ds, err := loadDataset(path, settings)
	if err != nil {
		return model.ClassificationRequest{}, err
	}

	row, err := selectRow(cmd.Context(), cmd, ds)
	if err != nil {
		return model.ClassificationRequest{}, err
	}

	rec, err := ds.Row(row)
	if err != nil {
		return model.ClassificationRequest{}, err
	}

	slog.Debug("building prompt", "row", row, "counterparty", rec.CounterpartyName)
	return builder.Build(tax, rec)
}
