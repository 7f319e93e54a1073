package cmd

import (
	"github.com/huangsam/churnchart/core"
	"github.com/huangsam/churnchart/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// chartCmd draws the candlestick and volume chart.
var chartCmd = &cobra.Command{
	Use:   "chart [activity-file]",
	Short: "Draw daily churn as candlesticks with a volume strip.",
	Long: `The chart command buckets activity by UTC day, fills quiet days in the window,
and draws one candle per day. Candle bodies span deletions to additions, and the
volume strip shows total lines changed colored by which side dominated.

Output defaults to SVG. Use --output html for an interactive page, or
text/csv/json/parquet to inspect the projected candles.

Examples:
  # Dark SVG of the last 90 days
  churnchart chart activity.json --window 90d --theme dark --output-file churn.svg

  # Compact chart with a log-scaled candle axis
  churnchart chart activity.csv --viewport compact --log-scale --output-file churn.svg

  # Interactive HTML page from the event store
  churnchart chart --source db --output html --output-file churn.html`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		viper.SetDefault("output", string(schema.SVGOut))
		return sharedSetup(rootCtx, cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		run(core.ExecuteChart, "Chart failed")
	},
}
