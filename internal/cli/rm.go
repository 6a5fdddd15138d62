package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	rmQty  float64
	rmAll  bool
	rmFiat string
)

var rmCmd = &cobra.Command{
	Use:   "rm <symbol>",
	Short: "Remove quantity from, or delete, a holding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !rmAll && rmQty <= 0 {
			return errors.New("provide --qty > 0 or --all")
		}
		if rmAll && rmQty > 0 {
			return errors.New("--qty and --all are mutually exclusive")
		}
		return getApp().RemovePosition(cmd.Context(), args[0], rmQty, rmAll, rmFiat)
	},
}

func init() {
	rmCmd.Flags().Float64Var(&rmQty, "qty", 0, "Quantity to remove")
	rmCmd.Flags().BoolVar(&rmAll, "all", false, "Remove the whole position")
	rmCmd.Flags().StringVar(&rmFiat, "fiat", "", "Quote currency (default from config)")
}
