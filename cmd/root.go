package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/internal/iosink"
	"github.com/huangsam/stylemetrics/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// sinkManager is the global run sink instance.
var sinkManager contract.SinkManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "stylemetrics",
	Short:              "Extract coding-style metrics from a PHP project.",
	Long:               `Stylemetrics scans a PHP project and reports how consistently it adopts modern coding conventions.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setConfigSearch points viper at --config or the default search paths.
func setConfigSearch() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".stylemetrics") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigSearch()

	// Set environment variable prefix
	viper.SetEnvPrefix("STYLEMETRICS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("src-dir", contract.DefaultSourceDir)
	viper.SetDefault("test-dir", contract.DefaultTestDir)
	viper.SetDefault("ext", contract.DefaultExtension)
	viper.SetDefault("report-file", contract.DefaultReportFile)
	viper.SetDefault("sink-backend", schema.NoneBackend)
	viper.SetDefault("sink-db-connect", "")
	viper.SetDefault("s3-region", contract.DefaultS3Region)
	viper.SetDefault("color", "yes")
	viper.SetDefault("emoji", "no")
}

// readConfig merges the config file into viper. A missing file is fine.
func readConfig() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(ctx context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := readConfig(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.RootPathStr = "."
	if len(args) > 0 {
		input.RootPathStr = args[0]
	}
	if len(args) > 1 {
		input.SourceArg = args[1]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(ctx, cfg, input); err != nil {
		return err
	}

	// 5. Open the run sink with validated config
	if err := iosink.InitSink(cfg.SinkBackend, cfg.SinkDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run sink: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// outputSetup validates rendering options only. No project is resolved.
func outputSetup(_ *cobra.Command, _ []string) error {
	if err := readConfig(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return contract.ProcessOutputConfig(cfg, input)
}

// loadConfigFile handles config file loading logic common to the sink commands.
func loadConfigFile() error {
	setConfigSearch()
	return readConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetSinkManager sets the global run sink manager.
func SetSinkManager(mgr contract.SinkManager) {
	sinkManager = mgr
}
