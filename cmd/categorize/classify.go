// Package main contains the categorize CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/txn-categorize/internal/cli"
	"github.com/Veraticus/txn-categorize/internal/common"
	"github.com/Veraticus/txn-categorize/internal/config"
	"github.com/Veraticus/txn-categorize/internal/llm"
	"github.com/Veraticus/txn-categorize/internal/model"
	"github.com/Veraticus/txn-categorize/internal/prompt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type classifyOutput struct {
	CounterpartyName string `json:"counterparty_name"`
	model.ClassificationResult
	Row int `json:"row"`
}

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify FILE",
		Short: "Categorise one transaction",
		Long: `Categorise a single transaction from FILE with the language model.

Without --row an interactive picker is shown when running in a terminal,
otherwise the row number is read from standard input.

The API key is read from llm.api_key in the config file, CATEGORIZE_LLM_API_KEY
or OPENAI_API_KEY.

Examples:
  categorize classify transactions.csv
  categorize classify transactions.csv --row 4
  categorize classify transactions.csv --row 4 --category sport --category charity
  categorize classify transactions.xlsx --row 0 --temperature 0.5 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: runClassify,
	}

	// Flags
	cmd.Flags().IntP("row", "r", 0, "row to classify")
	addCategoryFlag(cmd)
	cmd.Flags().Float64P("temperature", "t", config.DefaultTemperature, "sampling temperature (0.01 to 1.0)")
	cmd.Flags().String("model", config.DefaultModel, "model identifier")
	cmd.Flags().Bool("strict", false, "reject categories outside the list")
	cmd.Flags().Bool("show-prompt", false, "print the prompt before sending it")
	cmd.Flags().StringP("output", "o", outputTable, "output format (table, json)")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag("llm.temperature", cmd.Flags().Lookup("temperature"))
	_ = viper.BindPFlag("llm.model", cmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("classification.strict", cmd.Flags().Lookup("strict"))

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	output, _ := cmd.Flags().GetString("output")
	if output != outputTable && output != outputJSON {
		return fmt.Errorf("%w: unknown output format %q", common.ErrInvalidConfig, output)
	}

	// Credential and settings are checked before anything is loaded
	settings := config.FromViper(viper.GetViper())
	if err := settings.ValidateCredential(); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	tax, err := taxonomyFromFlags(cmd)
	if err != nil {
		return err
	}

	ds, err := loadDataset(args[0], settings)
	if err != nil {
		return err
	}

	row, err := selectRow(ctx, cmd, ds)
	if err != nil {
		return err
	}

	rec, err := ds.Row(row)
	if err != nil {
		return err
	}

	builder, err := prompt.NewBuilder(prompt.Options{OverrideVendor: settings.OverrideVendor})
	if err != nil {
		return err
	}

	req, err := builder.Build(tax, rec)
	if err != nil {
		return err
	}

	if show, _ := cmd.Flags().GetBool("show-prompt"); show {
		fmt.Fprint(cmd.ErrOrStderr(), cli.RenderRequest(req))
	}

	classifier, err := createClassifier(settings)
	if err != nil {
		return err
	}

	slog.Info("classifying transaction", "row", row, "model", settings.Model)

	var result model.ClassificationResult
	err = cli.WithSpinner(cmd.ErrOrStderr(), "Asking the model", func() error {
		var classifyErr error
		result, classifyErr = classifier.Classify(ctx, req, tax)
		return classifyErr
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if output == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(classifyOutput{
			Row:                  row,
			CounterpartyName:     rec.CounterpartyName,
			ClassificationResult: result,
		})
	}

	fmt.Fprintln(out, cli.RenderResult(result))
	return nil
}

// createClassifier builds the classifier from settings.
func createClassifier(settings config.Settings) (*llm.Classifier, error) {
	cfg := llm.Config{
		APIKey:      settings.APIKey,
		Model:       settings.Model,
		BaseURL:     settings.BaseURL,
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
		Timeout:     settings.Timeout,
		MaxRetries:  settings.MaxRetries,
		RetryDelay:  settings.RetryDelay,
		Strict:      settings.Strict,
	}

	client, err := llm.NewOpenAIClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return llm.NewClassifier(client, cfg, slog.Default()), nil
}
