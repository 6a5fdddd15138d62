package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/app"
)

var (
	daemonFiat     string
	daemonInterval int
	daemonJitter   int
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Poll prices on an interval until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Daemon(cmd.Context(), app.DaemonOptions{
			Fiat:     daemonFiat,
			Interval: time.Duration(daemonInterval) * time.Second,
			Jitter:   time.Duration(daemonJitter) * time.Second,
		})
	},
}

func init() {
	daemonCmd.Flags().StringVar(&daemonFiat, "fiat", "", "Quote currency (default from config)")
	daemonCmd.Flags().IntVar(&daemonInterval, "interval", 0, "Seconds between cycles (default from config)")
	daemonCmd.Flags().IntVar(&daemonJitter, "jitter", -1, "Max random seconds added per cycle (default from config)")
}
