package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/churnchart/schema"
)

// Default values for configuration.
const (
	DefaultWindow      = schema.Window30d
	DefaultTrendPeriod = "7 days"
	DefaultPrecision   = 1
	MaxPrecision       = 2
	MaxSurfaceSize     = 10000
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ChartConfig holds the options consumed by the chart view.
type ChartConfig struct {
	Width        int // 0 = viewport default
	Height       int // 0 = viewport default
	Expanded     bool
	Viewport     schema.Viewport
	LogScale     bool
	Theme        schema.Theme
	EmptyMessage string
}

// Config holds the runtime configuration.
// This struct is the "final, validated" config.
type Config struct {
	InputPath   string
	Source      schema.InputSource
	Window      schema.Window
	EndTime     time.Time
	IncludeBots bool

	TrendPeriod  time.Duration
	TrendMetrics []string

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	UseColors  bool

	Chart ChartConfig

	EventBackend   schema.DatabaseBackend
	EventDBConnect string // Please use env var as this is plaintext

	MetricsFile string
	Verbose     bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Input          string `mapstructure:"input"`
	Source         string `mapstructure:"source"`
	Window         string `mapstructure:"window"`
	End            string `mapstructure:"end"`
	IncludeBots    bool   `mapstructure:"include-bots"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Color          string `mapstructure:"color"`
	EventBackend   string `mapstructure:"event-backend"`
	EventDBConnect string `mapstructure:"event-db-connect"`
	MetricsFile    string `mapstructure:"metrics-file"`
	Verbose        bool   `mapstructure:"verbose"`

	// --- Chart surface flags ---
	Width        int    `mapstructure:"width"`
	Height       int    `mapstructure:"height"`
	Expanded     bool   `mapstructure:"expanded"`
	Viewport     string `mapstructure:"viewport"`
	LogScale     bool   `mapstructure:"log-scale"`
	Theme        string `mapstructure:"theme"`
	EmptyMessage string `mapstructure:"empty-message"`

	// --- Fields from trendCmd.Flags() ---
	Period  string `mapstructure:"period"`
	Metrics string `mapstructure:"metrics"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.TrendMetrics = slices.Clone(c.TrendMetrics)
	return &clone
}

// CloneWithEnd creates a copy of the Config with a new end time.
func (c *Config) CloneWithEnd(end time.Time) *Config {
	clone := c.Clone()
	clone.EndTime = end
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSource(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	if err := processTrend(cfg, input); err != nil {
		return err
	}
	return processChart(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("event-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("event-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.IncludeBots = input.IncludeBots
	cfg.MetricsFile = input.MetricsFile
	cfg.Verbose = input.Verbose

	colors, err := ParseBoolString(defaultString(input.Color, "yes"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	precision := input.Precision
	if precision == 0 {
		precision = DefaultPrecision
	}
	if precision < 1 || precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = precision

	cfg.Output = schema.OutputMode(strings.ToLower(defaultString(input.Output, string(schema.TextOut))))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, svg, png, html", input.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.PNGOut) && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", cfg.Output)
	}

	cfg.EventBackend = schema.DatabaseBackend(strings.ToLower(defaultString(input.EventBackend, string(schema.SQLiteBackend))))
	if _, ok := schema.ValidDatabaseBackends[cfg.EventBackend]; !ok {
		return fmt.Errorf("invalid event backend '%s'. must be sqlite, mysql, postgresql, none", input.EventBackend)
	}
	cfg.EventDBConnect = input.EventDBConnect
	return ValidateDatabaseConnectionString(cfg.EventBackend, cfg.EventDBConnect)
}

// processSource resolves where activity is read from.
func processSource(cfg *Config, input *ConfigRawInput) error {
	cfg.Source = schema.InputSource(strings.ToLower(defaultString(input.Source, string(schema.FileSource))))
	if _, ok := schema.ValidInputSources[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be file, db", input.Source)
	}

	// The --input flag takes precedence over the positional argument.
	path := strings.TrimSpace(input.Input)
	if path == "" {
		path = strings.TrimSpace(input.InputPathStr)
	}
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("invalid input path %q: %w", path, err)
		}
		cfg.InputPath = filepath.Clean(abs)
	}

	if cfg.Source == schema.DBSource && cfg.EventBackend == schema.NoneBackend {
		return fmt.Errorf("--source db requires an event backend other than none")
	}
	return nil
}

// processTimeRange handles the window and end time.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	cfg.Window = schema.Window(strings.ToLower(defaultString(input.Window, string(DefaultWindow))))
	if _, ok := schema.WindowDays[cfg.Window]; !ok && cfg.Window != schema.WindowAll {
		return fmt.Errorf("invalid window '%s'. must be 7d, 30d, 90d, 1y, all", input.Window)
	}

	end, err := ParseEndTime(input.End, time.Now())
	if err != nil {
		return err
	}
	cfg.EndTime = end.UTC()
	return nil
}

// processTrend handles the comparison period and metric selection.
func processTrend(cfg *Config, input *ConfigRawInput) error {
	period, err := ParseLookbackDuration(defaultString(input.Period, DefaultTrendPeriod))
	if err != nil {
		return fmt.Errorf("invalid --period: %w", err)
	}
	cfg.TrendPeriod = period

	cfg.TrendMetrics = nil
	for m := range strings.SplitSeq(input.Metrics, ",") {
		if trimmed := strings.TrimSpace(m); trimmed != "" {
			cfg.TrendMetrics = append(cfg.TrendMetrics, strings.ToLower(trimmed))
		}
	}
	return nil
}

// processChart validates the chart surface options.
func processChart(cfg *Config, input *ConfigRawInput) error {
	if input.Width < 0 || input.Width > MaxSurfaceSize {
		return fmt.Errorf("width must be between 0 and %d (received %d)", MaxSurfaceSize, input.Width)
	}
	if input.Height < 0 || input.Height > MaxSurfaceSize {
		return fmt.Errorf("height must be between 0 and %d (received %d)", MaxSurfaceSize, input.Height)
	}

	viewport := schema.Viewport(strings.ToLower(defaultString(input.Viewport, string(schema.RegularViewport))))
	if _, ok := schema.ValidViewports[viewport]; !ok {
		return fmt.Errorf("invalid viewport '%s'. must be regular, compact", input.Viewport)
	}

	theme := schema.Theme(strings.ToLower(defaultString(input.Theme, string(schema.LightTheme))))
	if _, ok := schema.ValidThemes[theme]; !ok {
		return fmt.Errorf("invalid theme '%s'. must be light, dark", input.Theme)
	}

	cfg.Chart = ChartConfig{
		Width:        input.Width,
		Height:       input.Height,
		Expanded:     input.Expanded,
		Viewport:     viewport,
		LogScale:     input.LogScale,
		Theme:        theme,
		EmptyMessage: input.EmptyMessage,
	}
	return nil
}

// GetEventDBFilePath returns the path to the SQLite DB file for the event store.
func GetEventDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".churnchart_events.db"
	}
	return filepath.Join(homeDir, ".churnchart_events.db")
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}

// RevalidateQuery applies per-request overrides (used by the MCP server) on top
// of an already validated config. Empty strings keep the current values.
func RevalidateQuery(cfg *Config, window, end, period string) error {
	if window != "" {
		w := schema.Window(strings.ToLower(strings.TrimSpace(window)))
		if _, ok := schema.WindowDays[w]; !ok && w != schema.WindowAll {
			return fmt.Errorf("invalid window '%s'. must be 7d, 30d, 90d, 1y, all", window)
		}
		cfg.Window = w
	}
	if end != "" {
		t, err := ParseEndTime(end, time.Now())
		if err != nil {
			return err
		}
		cfg.EndTime = t.UTC()
	}
	if period != "" {
		d, err := ParseLookbackDuration(period)
		if err != nil {
			return fmt.Errorf("invalid period: %w", err)
		}
		cfg.TrendPeriod = d
	}
	return nil
}
