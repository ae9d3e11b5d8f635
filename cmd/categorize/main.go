package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/txn-categorize/internal/cli"
	"github.com/Veraticus/txn-categorize/internal/common"
	"github.com/Veraticus/txn-categorize/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "categorize",
		Short: "Categorise a bank transaction with a language model",
		Long: `categorize loads a table of bank transactions, lets you pick one row and asks
an OpenAI-compatible model for a primary and a backup spending category.

The file must have COUNTERPARTY_NAME, MCC_CODE, OPERATION_TYPE and AVG_SPEND_EUR
columns. A Label column, if present, is ignored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, cfgFile)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/categorize/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(promptCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	handler := cli.NewInterruptHandler(os.Stderr)
	ctx, stop := handler.HandleInterrupts(context.Background())

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, cli.FormatError(common.Describe(err)))

	var userErr *common.UserError
	if !errors.As(err, &userErr) {
		fmt.Fprintln(w, cli.SubtleStyle.Render(err.Error()))
	}
}

func initConfig(cmd *cobra.Command, cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(config.ExpandPath(cfgFile))
	} else {
		dir, err := config.Dir()
		if err != nil {
			return err
		}

		viper.AddConfigPath(dir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables: CATEGORIZE_LLM_MODEL overrides llm.model
	viper.SetEnvPrefix("CATEGORIZE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("%w: failed to read config: %w", common.ErrInvalidConfig, err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := common.SetupLogger(cmd.ErrOrStderr(),
		viper.GetString("logging.level"),
		viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	slog.Debug("configuration loaded", "file", viper.ConfigFileUsed())
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "categorize %s\n", version)
		},
	}
}
