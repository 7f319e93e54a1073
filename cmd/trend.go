package cmd

import (
	"github.com/huangsam/churnchart/core"
	"github.com/spf13/cobra"
)

// trendCmd compares the latest period with the one before it.
var trendCmd = &cobra.Command{
	Use:   "trend [activity-file]",
	Short: "Compare activity between two consecutive periods.",
	Long: `The trend command splits time at --end into a current period and the
previous period of the same length, then reports each metric with its percent
change. A previous value of zero is treated as one so growth from nothing
stays finite. A bare date given to --end (YYYY-MM-DD) includes that whole day
in the current period; a full timestamp is an exclusive cutoff.

Metrics: additions, deletions, volume, commits, files_changed, active_days.

Examples:
  # This week against last week
  churnchart trend activity.json

  # Last 30 days against the 30 before, only two metrics
  churnchart trend activity.json --period "30 days" --metrics additions,deletions

  # Quarter over quarter from the event store
  churnchart trend --source db --period "3 months" --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		run(core.ExecuteTrend, "Trend comparison failed")
	},
}
