package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

var (
	addCost string
	addFiat string
)

var addCmd = &cobra.Command{
	Use:   "add <symbol> <qty>",
	Short: "Add to or create a holding",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return err
		}
		cost, err := optionalFloat(addCost)
		if err != nil {
			return err
		}
		return getApp().AddPosition(cmd.Context(), args[0], qty, cost, addFiat)
	},
}

func init() {
	addCmd.Flags().StringVar(&addCost, "cost", "", "Cost basis per unit for this lot")
	addCmd.Flags().StringVar(&addFiat, "fiat", "", "Quote currency (default from config)")
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
