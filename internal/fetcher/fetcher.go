package fetcher

import (
	"context"
	"errors"
)

// PriceMap maps an asset id to its per-quote-currency prices,
// e.g. {"bitcoin": {"usd": 12345.67}}.
type PriceMap map[string]map[string]float64

// PriceSource retrieves current prices for a set of asset ids in one
// quote currency.
type PriceSource interface {
	Prices(ctx context.Context, ids []string, quote string) (PriceMap, error)
}

// ErrUnavailable indicates no live source could produce any price data.
// Callers are expected to fall back to their own cache.
var ErrUnavailable = errors.New("price data unavailable")

// Flatten reduces a PriceMap to one quote currency. Ids without a price in
// that currency map to 0.
func Flatten(prices PriceMap, ids []string, quote string) map[string]float64 {
	flat := make(map[string]float64, len(ids))
	for _, id := range ids {
		flat[id] = prices[id][quote]
	}
	return flat
}
