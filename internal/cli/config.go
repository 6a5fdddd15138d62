package cli

import (
	"github.com/spf13/cobra"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/app"
)

var (
	configShow      bool
	configPath      bool
	configSet       []string
	configAddSymbol []string
	configRmSymbol  []string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit persisted settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().ConfigCmd(app.ConfigOptions{
			Show:          configShow,
			Path:          configPath,
			Set:           configSet,
			AddSymbols:    configAddSymbol,
			RemoveSymbols: configRmSymbol,
		})
	},
}

func init() {
	configCmd.Flags().BoolVar(&configShow, "show", false, "Print the effective settings")
	configCmd.Flags().BoolVar(&configPath, "path", false, "Print the settings file path")
	configCmd.Flags().StringArrayVar(&configSet, "set", nil, "Set key=value (repeatable)")
	configCmd.Flags().StringArrayVar(&configAddSymbol, "add-symbol", nil, "Map symbol=asset-id (repeatable)")
	configCmd.Flags().StringArrayVar(&configRmSymbol, "rm-symbol", nil, "Remove a symbol mapping (repeatable)")
}
