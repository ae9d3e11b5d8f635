package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/txn-categorize/internal/cli"
	"github.com/Veraticus/txn-categorize/internal/config"
	"github.com/Veraticus/txn-categorize/internal/dataset"
	"github.com/Veraticus/txn-categorize/internal/model"
	"github.com/Veraticus/txn-categorize/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// previewRows is how many rows are shown before the row prompt.
const previewRows = 20

// loadSettings reads settings for commands that do not call the model, so
// model parameters are not validated.
func loadSettings() (config.Settings, error) {
	settings := config.FromViper(viper.GetViper())
	return settings, settings.ValidateDataset()
}

func loadDataset(path string, settings config.Settings) (*dataset.Dataset, error) {
	opts := dataset.Options{}
	if d := []rune(settings.Delimiter); len(d) == 1 {
		opts.Delimiter = d[0]
	}

	ds, err := dataset.LoadFile(config.ExpandPath(path), opts)
	if err != nil {
		return nil, err
	}

	slog.Info("dataset loaded", "path", path, "rows", ds.Len(), "columns", len(ds.Columns()))
	return ds, nil
}

func addCategoryFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("category", "c", nil, "additional category, may be given twice")
}

func taxonomyFromFlags(cmd *cobra.Command) (*model.Taxonomy, error) {
	custom, err := cmd.Flags().GetStringSlice("category")
	if err != nil {
		return nil, err
	}
	return model.NewTaxonomy(custom...)
}

// selectRow uses --row when given, the interactive picker on a terminal and a
// plain prompt otherwise.
func selectRow(ctx context.Context, cmd *cobra.Command, ds *dataset.Dataset) (int, error) {
	row, err := cmd.Flags().GetInt("row")
	if err != nil {
		return 0, err
	}
	if cmd.Flags().Changed("row") {
		return row, nil
	}

	if isTerminal(cmd.InOrStdin()) {
		return tui.PickRow(ctx, ds, 0, cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	fmt.Fprintln(cmd.ErrOrStderr(), cli.RenderDataset(ds, previewRows))
	return cli.PromptRow(ctx, cli.NewLineReader(cmd.InOrStdin()), cmd.ErrOrStderr(), ds.Len(), 0)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
