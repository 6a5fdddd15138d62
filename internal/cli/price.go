package cli

import (
	"github.com/spf13/cobra"
)

var priceFiat string

var priceCmd = &cobra.Command{
	Use:   "price <symbols>",
	Short: "Quote live prices for comma-separated symbols",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Price(cmd.Context(), args[0], priceFiat)
	},
}

func init() {
	priceCmd.Flags().StringVar(&priceFiat, "fiat", "", "Quote currency (default from config)")
}
