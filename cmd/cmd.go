// Package cmd defines the command-line interface for stylemetrics.
package cmd

import (
	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or yaml or json or csv or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for percentages in the text table")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("sink-backend", string(schema.NoneBackend), "Run sink backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("sink-db-connect", "", "Database connection string for the run sink (file path for sqlite)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of extractCmd to Viper
	extractCmd.Flags().String("src-dir", contract.DefaultSourceDir, "Source directory relative to the project root")
	extractCmd.Flags().String("test-dir", contract.DefaultTestDir, "Test directory relative to the project root")
	extractCmd.Flags().String("ext", contract.DefaultExtension, "Source file extension")
	extractCmd.Flags().String("test-suffix", "", "Filename suffix that marks a test file (default Test<ext>)")
	extractCmd.Flags().String("report-file", contract.DefaultReportFile, "Path of the YAML report file (empty disables it)")
	extractCmd.Flags().String("s3-endpoint", "", "S3-compatible endpoint for report upload (host:port)")
	extractCmd.Flags().String("s3-region", contract.DefaultS3Region, "Region of the upload bucket")
	extractCmd.Flags().String("s3-bucket", "", "Bucket that receives the YAML report")
	extractCmd.Flags().String("s3-access-key", "", "Access key for report upload")
	extractCmd.Flags().String("s3-secret-key", "", "Secret key for report upload (prefer STYLEMETRICS_S3_SECRET_KEY)")
	extractCmd.Flags().Bool("s3-use-ssl", false, "Use TLS when talking to the upload endpoint")
	if err := viper.BindPFlags(extractCmd.Flags()); err != nil {
		contract.LogFatal("Error binding extract flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
