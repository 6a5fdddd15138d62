package app

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/storage"
)

// ExportOptions hold parameters for exporting history.
type ExportOptions struct {
	Last    int
	CSVPath string
	PNGPath string
}

// Export writes the last N snapshots as CSV and/or renders the daily
// rollup series as a PNG chart.
func (a *App) Export(opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --out or --png must be provided")
	}

	store := a.newStore()

	if opts.CSVPath != "" {
		snapshots, err := store.ReadRecentSnapshots(opts.Last)
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			fmt.Fprintln(os.Stdout, "No snapshots to export. Run `crypto track` first.")
			return nil
		}
		if err := writeSnapshotsCSV(opts.CSVPath, snapshots); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Exported %d snapshots to %s\n", len(snapshots), opts.CSVPath)
	}

	if opts.PNGPath != "" {
		rollups, err := store.ReadAllRollups()
		if err != nil {
			return err
		}
		if len(rollups) < 2 {
			return errors.New("need at least two daily rollups to chart; run `crypto rollup rebuild` first")
		}
		if err := writeRollupsPNG(opts.PNGPath, rollups); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Chart written to %s\n", opts.PNGPath)
	}

	return nil
}

// writeSnapshotsCSV emits one row per snapshot with the union of asset ids
// across the export window as per-asset price columns.
func writeSnapshotsCSV(path string, snapshots []storage.Snapshot) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	idSet := map[string]struct{}{}
	for _, snap := range snapshots {
		for id := range snap.Prices {
			idSet[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append([]string{"ts", "vs_currency", "total_value"}, ids...)
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, snap := range snapshots {
		record := []string{
			snap.TS,
			snap.VSCurrency,
			fmt.Sprintf("%.2f", snap.TotalValue),
		}
		for _, id := range ids {
			price, ok := snap.Prices[id]
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, fmt.Sprintf("%.6f", price))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeRollupsPNG(path string, rollups []storage.DailyRollup) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, 0, len(rollups))
	closes := make([]float64, 0, len(rollups))
	highs := make([]float64, 0, len(rollups))
	lows := make([]float64, 0, len(rollups))

	for _, rec := range rollups {
		day, err := time.Parse("2006-01-02", rec.Date)
		if err != nil {
			continue
		}
		x = append(x, day)
		closes = append(closes, rec.Close)
		highs = append(highs, rec.High)
		lows = append(lows, rec.Low)
	}
	if len(x) < 2 {
		return errors.New("not enough chartable rollup rows")
	}

	valueFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Portfolio value",
			ValueFormatter: valueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Close",
				XValues: x,
				YValues: closes,
			},
			chart.TimeSeries{
				Name:    "High",
				XValues: x,
				YValues: highs,
			},
			chart.TimeSeries{
				Name:    "Low",
				XValues: x,
				YValues: lows,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
