package cli

import (
	"github.com/spf13/cobra"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/app"
)

var (
	alertAbove   []string
	alertBelow   []string
	alertWebhook string
	alertFiat    string
)

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Evaluate price threshold rules and notify a webhook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Alert(cmd.Context(), app.AlertOptions{
			Above:   alertAbove,
			Below:   alertBelow,
			Webhook: alertWebhook,
			Fiat:    alertFiat,
		})
	},
}

func init() {
	alertCmd.Flags().StringArrayVar(&alertAbove, "above", nil, "Rule symbol=limit triggering when price rises above limit (repeatable)")
	alertCmd.Flags().StringArrayVar(&alertBelow, "below", nil, "Rule symbol=limit triggering when price falls below limit (repeatable)")
	alertCmd.Flags().StringVar(&alertWebhook, "webhook", "", "Webhook endpoint (default from config)")
	alertCmd.Flags().StringVar(&alertFiat, "fiat", "", "Quote currency (default from config)")
}
