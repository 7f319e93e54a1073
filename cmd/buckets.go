package cmd

import (
	"github.com/huangsam/churnchart/core"
	"github.com/spf13/cobra"
)

// bucketsCmd prints the daily buckets behind the chart.
var bucketsCmd = &cobra.Command{
	Use:   "buckets [activity-file]",
	Short: "List activity aggregated by UTC day.",
	Long: `The buckets command normalizes activity records, drops bots unless
--include-bots is set, and sums additions, deletions, commits and files changed
per UTC day. Finite windows include quiet days as zero buckets; --window all
lists only the days that saw activity.

Examples:
  # Last 30 days as a table
  churnchart buckets activity.json

  # Every active day as CSV
  churnchart buckets activity.json --window all --output csv --output-file days.csv

  # A fixed week ending on a given date
  churnchart buckets activity.json --window 7d --end 2024-03-31T00:00:00Z --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		run(core.ExecuteBuckets, "Bucket listing failed")
	},
}
