package app

import (
	"fmt"
	"os"
	"text/tabwriter"
)

// Rollup prints the last n daily aggregates.
func (a *App) Rollup(n int) error {
	store := a.newStore()
	rows, err := store.ReadRecentRollups(n)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No daily rollups yet. Run `crypto track` a few times, or `crypto rollup rebuild`.")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date\tOpen\tClose\tHigh\tLow\tAvg\tCount")
	for _, rec := range rows {
		fmt.Fprintf(writer, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%d\n",
			rec.Date, rec.Open, rec.Close, rec.High, rec.Low, rec.Avg, rec.Count)
	}
	return writer.Flush()
}

// RollupRebuild recomputes the rollup file from the full snapshot log.
// The rebuild is the repair path when the derived store drifts or is lost.
func (a *App) RollupRebuild() error {
	store := a.newStore()
	days, snapshots, err := store.RebuildRollups()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Rebuilt %d day(s) from %d snapshot(s).\n", days, snapshots)
	return nil
}
