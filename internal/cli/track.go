package cli

import (
	"github.com/spf13/cobra"
)

var trackFiat string

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Run one tracking cycle and print the portfolio report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Track(cmd.Context(), trackFiat)
	},
}

func init() {
	trackCmd.Flags().StringVar(&trackFiat, "fiat", "", "Quote currency (default from config)")
}
