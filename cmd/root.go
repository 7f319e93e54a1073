package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/churnchart/core"
	"github.com/huangsam/churnchart/internal/contract"
	"github.com/huangsam/churnchart/internal/iocache"
	"github.com/huangsam/churnchart/internal/observability"
	"github.com/huangsam/churnchart/internal/theme"
	"github.com/huangsam/churnchart/schema"
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

// storeManager is the global persistence manager instance.
var storeManager contract.StoreManager = iocache.Manager

// metrics collects pass counters for the current run.
var metrics = observability.NewMetrics()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "churnchart",
	Short:              "Chart contribution activity as daily candlesticks.",
	Long:               `churnchart turns pull requests, issues, commits, stars and forks into daily buckets, trend deltas and a candlestick chart of code churn.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// configPaths points viper at the config file locations.
func configPaths() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".churnchart") // Name of config file (without extension)
	viper.SetConfigType("yaml")        // We'll use YAML format
	viper.AddConfigPath(".")           // Look in the current directory
	viper.AddConfigPath("$HOME")       // Look in the home directory
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configPaths()

	// Set environment variable prefix
	viper.SetEnvPrefix("CHURNCHART")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("window", string(contract.DefaultWindow))
	viper.SetDefault("source", string(schema.FileSource))
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", string(schema.TextOut))
	viper.SetDefault("period", contract.DefaultTrendPeriod)
	viper.SetDefault("viewport", string(schema.RegularViewport))
	viper.SetDefault("theme", string(schema.LightTheme))
	viper.SetDefault("event-backend", string(schema.SQLiteBackend))
	viper.SetDefault("event-db-connect", "")
	viper.SetDefault("color", "yes")
}

// readConfigFile loads the config file if present.
func readConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := readConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.InputPathStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	// This function populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	contract.SetupLogging(cfg.Verbose)
	theme.Default.Set(cfg.Chart.Theme)

	// 5. Initialize persistence only when the command reads from it
	if cfg.Source == schema.DBSource {
		return initStore(cfg.EventBackend, cfg.EventDBConnect)
	}
	return nil
}

// initStore initializes the event store for the given backend.
func initStore(backend schema.DatabaseBackend, connStr string) error {
	if err := iocache.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// runContext returns the context passed to core, carrying the run metrics.
func runContext() context.Context {
	return core.WithMetrics(rootCtx, metrics)
}

// run executes a core entry point and writes the metrics textfile afterwards.
func run(exec core.ExecutorFunc, failure string) {
	if err := exec(runContext(), cfg, storeManager); err != nil {
		contract.LogFatal(failure, err)
	}
	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		contract.LogWarn("Failed to write metrics", err)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}
