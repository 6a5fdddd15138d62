package app

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Price quotes live prices for comma-separated symbols.
func (a *App) Price(ctx context.Context, symbolsCSV, fiat string) error {
	fiat = a.resolveFiat(fiat)

	var symbols []string
	for _, s := range strings.Split(symbolsCSV, ",") {
		if s = strings.TrimSpace(strings.ToLower(s)); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		return fmt.Errorf("provide symbols, e.g. `crypto price btc,eth`")
	}

	ids := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		id, err := a.Config.ResolveSymbol(sym)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	store := a.newStore()
	prices, err := a.newSource(store).Prices(ctx, ids, fiat)
	if err != nil {
		return err
	}

	for i, sym := range symbols {
		fmt.Fprintf(os.Stdout, "%-6s %.4f %s\n", upper(sym), prices[ids[i]][fiat], upper(fiat))
	}
	return nil
}

func upper(s string) string {
	return strings.ToUpper(s)
}
