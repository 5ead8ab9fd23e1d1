// Package cmd defines the command-line interface for gradekit.
package cmd

import (
	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyPurgeCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("passes", "p", contract.DefaultPasses, "Number of independent grading passes")
	rootCmd.PersistentFlags().Float64P("tolerance", "t", contract.DefaultTolerance, "Agreement tolerance as percent of a criterion's max points")
	rootCmd.PersistentFlags().Bool("single-pass", false, "Allow a degraded report when only one pass survives")
	rootCmd.PersistentFlags().String("strictness", string(schema.ProportionalStrictness), "Scoring strictness: proportional or hardfail")
	rootCmd.PersistentFlags().StringP("model", "m", contract.DefaultModel, "Model identifier to grade with")
	rootCmd.PersistentFlags().String("base-url", contract.DefaultBaseURL, "Base URL of the OpenAI-compatible endpoint")
	rootCmd.PersistentFlags().String("api-key", "", "API key for the grading endpoint (prefer GRADEKIT_API_KEY)")
	rootCmd.PersistentFlags().Float64("temperature", contract.DefaultTemperature, "Sampling temperature for grading passes")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Per-request timeout (e.g. 90s, 2m)")
	rootCmd.PersistentFlags().Int("retries", contract.DefaultRetries, "Retries per pass on transient backend failures")
	rootCmd.PersistentFlags().StringP("output", "o", string(schema.TextOut), "Output format: text or csv or json (parquet via 'history export')")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print per-pass progress to stderr")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored band labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
