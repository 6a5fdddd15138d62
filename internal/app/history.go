package app

import (
	"fmt"
	"os"
	"text/tabwriter"
)

// History prints the last n snapshots with the delta versus the previous
// observation.
func (a *App) History(n int) error {
	store := a.newStore()
	rows, err := store.ReadRecentSnapshots(n)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No snapshots yet. Run `crypto track` or start the daemon.")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Timestamp\tTotal Value\tΔ vs prev")

	havePrev := false
	var prev float64
	for _, snap := range rows {
		delta := "-"
		if havePrev {
			diff := snap.TotalValue - prev
			pct := 0.0
			if prev != 0 {
				pct = diff / prev * 100.0
			}
			delta = fmt.Sprintf("%+.2f (%+.2f%%)", diff, pct)
		}
		fmt.Fprintf(writer, "%s\t%.2f %s\t%s\n", snap.TS, snap.TotalValue, upper(snap.VSCurrency), delta)
		prev = snap.TotalValue
		havePrev = true
	}
	return writer.Flush()
}
