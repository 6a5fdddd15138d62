package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/portfolio"
	"github.com/ianisnotreal/crypto-tracker-cli/internal/service"
)

// Track runs one fetch-value-persist cycle and prints the report.
func (a *App) Track(ctx context.Context, fiat string) error {
	store := a.newStore()
	svc := a.newService(store, a.resolveFiat(fiat))

	result, err := svc.RunCycle(ctx)
	if err != nil {
		if err == service.ErrNoPositions {
			fmt.Fprintln(os.Stdout, "No positions found. Add some with `crypto add` or edit portfolio.json.")
			return nil
		}
		return err
	}

	printReport(result.Report, a.resolveFiat(fiat))

	if result.Outcome == service.OutcomeDegraded {
		fmt.Fprintln(os.Stdout, "(prices served from cache; live sources unavailable)")
	}
	if !result.Guard.Accepted {
		fmt.Fprintf(os.Stdout, "snapshot quarantined: %.1f%% deviation from recent median %.2f\n",
			result.Guard.Deviation*100, result.Guard.Median)
	}
	return nil
}

func printReport(report portfolio.Report, fiat string) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Symbol\tPrice (%s)\tValue\tP/L\tP/L %%\n", upper(fiat))

	for _, row := range report.Positions {
		fmt.Fprintf(writer, "%s\t%.2f\t%.2f\t%+.2f\t%+.2f%%\n",
			upper(row.Symbol), row.Price, row.Value, row.PNL, row.PNLPct)
	}
	fmt.Fprintf(writer, "TOTAL\t\t%.2f\t\t\n", report.TotalValue)
	writer.Flush()
}
