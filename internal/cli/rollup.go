package cli

import (
	"github.com/spf13/cobra"
)

var rollupLast int

var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Show recent daily aggregates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Rollup(rollupLast)
	},
}

var rollupRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recompute all daily aggregates from the snapshot log",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().RollupRebuild()
	},
}

func init() {
	rollupCmd.Flags().IntVar(&rollupLast, "last", 30, "Number of days to show")
	rollupCmd.AddCommand(rollupRebuildCmd)
}
