package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/portfolio"
)

// AddPosition adds or increases a holding, then runs one cycle so the new
// state is valued and persisted immediately.
func (a *App) AddPosition(ctx context.Context, symbol string, qty float64, cost *float64, fiat string) error {
	id, err := a.Config.ResolveSymbol(symbol)
	if err != nil {
		return err
	}

	dir := a.Config.DataDir
	port, err := portfolio.Load(dir)
	if err != nil {
		return err
	}
	port.Upsert(id, symbol, qty, cost)
	if err := portfolio.Save(dir, port); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Added/updated %s qty=%g\n", upper(symbol), qty)
	return a.Track(ctx, fiat)
}

// RemovePosition removes quantity from, or deletes, a holding.
func (a *App) RemovePosition(ctx context.Context, symbol string, qty float64, all bool, fiat string) error {
	dir := a.Config.DataDir
	port, err := portfolio.Load(dir)
	if err != nil {
		return err
	}
	if err := port.Remove(symbol, qty, all); err != nil {
		return err
	}
	if err := portfolio.Save(dir, port); err != nil {
		return err
	}

	if all {
		fmt.Fprintf(os.Stdout, "Removed ALL of %s.\n", upper(symbol))
	} else {
		fmt.Fprintf(os.Stdout, "Removed %g of %s.\n", qty, upper(symbol))
	}
	return a.Track(ctx, fiat)
}

// SetPosition overwrites absolute fields of an existing holding.
func (a *App) SetPosition(ctx context.Context, symbol string, qty, cost *float64, fiat string) error {
	dir := a.Config.DataDir
	port, err := portfolio.Load(dir)
	if err != nil {
		return err
	}
	if err := port.Set(symbol, qty, cost); err != nil {
		return err
	}
	if err := portfolio.Save(dir, port); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Set %s.\n", upper(symbol))
	return a.Track(ctx, fiat)
}
