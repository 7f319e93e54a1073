// Package cmd defines the command-line interface for churnchart.
package cmd

import (
	"github.com/huangsam/churnchart/internal/contract"
	"github.com/huangsam/churnchart/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(bucketsCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the events subcommands to the parent events command
	eventsCmd.AddCommand(eventsImportCmd)
	eventsCmd.AddCommand(eventsStatusCmd)
	eventsCmd.AddCommand(eventsClearCmd)
	eventsCmd.AddCommand(eventsMigrateCmd)
	eventsCmd.AddCommand(eventsExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("input", "i", "", "Activity file (.json, .csv or .parquet)")
	rootCmd.PersistentFlags().String("source", string(schema.FileSource), "Where to read activity from: file or db")
	rootCmd.PersistentFlags().StringP("window", "w", string(contract.DefaultWindow), "Time window: 7d or 30d or 90d or 1y or all")
	rootCmd.PersistentFlags().String("end", "", "End of the window in ISO8601 or time ago (default now)")
	rootCmd.PersistentFlags().Bool("include-bots", false, "Keep events authored by bots")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or svg or png or html")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Chart width in pixels (0 = viewport default)")
	rootCmd.PersistentFlags().Int("height", 0, "Chart height in pixels (0 = viewport default)")
	rootCmd.PersistentFlags().Bool("expanded", false, "Use the expanded chart height")
	rootCmd.PersistentFlags().String("viewport", string(schema.RegularViewport), "Viewport class: regular or compact")
	rootCmd.PersistentFlags().Bool("log-scale", false, "Use a symmetric log scale for the candle axis")
	rootCmd.PersistentFlags().String("theme", string(schema.LightTheme), "Theme: light or dark")
	rootCmd.PersistentFlags().String("empty-message", "", "Message drawn when there is not enough activity to chart")
	rootCmd.PersistentFlags().String("event-backend", string(schema.SQLiteBackend), "Event store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("event-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus pass metrics to this textfile")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of trendCmd to Viper
	trendCmd.Flags().String("period", contract.DefaultTrendPeriod, "Length of each compared period")
	trendCmd.Flags().String("metrics", "", "Comma-separated metrics to compare (default all)")
	if err := viper.BindPFlags(trendCmd.Flags()); err != nil {
		contract.LogFatal("Error binding trend flags", err)
	}

	// Bind all flags of eventsMigrateCmd to Viper
	eventsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 for latest, 0 to roll back)")
	if err := viper.BindPFlags(eventsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migrate flags", err)
	}
}
