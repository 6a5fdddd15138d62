package cli

import (
	"github.com/spf13/cobra"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/app"
)

var (
	exportLast int
	exportCSV  string
	exportPNG  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export snapshots to CSV and/or chart daily rollups to PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Export(app.ExportOptions{
			Last:    exportLast,
			CSVPath: exportCSV,
			PNGPath: exportPNG,
		})
	},
}

func init() {
	exportCmd.Flags().IntVar(&exportLast, "last", 100, "Number of snapshots to export")
	exportCmd.Flags().StringVar(&exportCSV, "out", "", "CSV output path")
	exportCmd.Flags().StringVar(&exportPNG, "png", "", "PNG chart output path")
}
