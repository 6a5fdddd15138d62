package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	setQty  string
	setCost string
	setFiat string
)

var setCmd = &cobra.Command{
	Use:   "set <symbol>",
	Short: "Overwrite fields of an existing holding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if setQty == "" && setCost == "" {
			return errors.New("provide --qty and/or --cost")
		}
		qty, err := optionalFloat(setQty)
		if err != nil {
			return err
		}
		cost, err := optionalFloat(setCost)
		if err != nil {
			return err
		}
		return getApp().SetPosition(cmd.Context(), args[0], qty, cost, setFiat)
	},
}

func init() {
	setCmd.Flags().StringVar(&setQty, "qty", "", "Absolute quantity")
	setCmd.Flags().StringVar(&setCost, "cost", "", "Absolute cost basis per unit")
	setCmd.Flags().StringVar(&setFiat, "fiat", "", "Quote currency (default from config)")
}
