package cli

import (
	"github.com/spf13/cobra"
)

var historyLast int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent snapshots with deltas",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().History(historyLast)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLast, "last", 10, "Number of snapshots to show")
}
