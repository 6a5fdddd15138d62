package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// CacheWriter is the slice of the storage layer the fetcher needs for its
// opportunistic cache overwrite on fallback success.
type CacheWriter interface {
	WriteCache(prices map[string]float64, fetchedAt time.Time) error
}

// Resilient composes the primary source with the best-effort secondary.
// When the primary is exhausted and the quote currency is the one the
// fallback supports, it serves whatever subset the secondary can resolve
// and refreshes the cache with it. If neither source produces data the
// caller gets ErrUnavailable and is expected to degrade to its own cache.
type Resilient struct {
	primary  PriceSource
	fallback PriceSource
	cache    CacheWriter
	logger   zerolog.Logger
}

// NewResilient wires the composed source.
func NewResilient(primary, fallback PriceSource, cache CacheWriter, logger zerolog.Logger) *Resilient {
	return &Resilient{
		primary:  primary,
		fallback: fallback,
		cache:    cache,
		logger:   logger.With().Str("component", "price_source").Logger(),
	}
}

// Prices returns a price map for ids, or ErrUnavailable.
func (r *Resilient) Prices(ctx context.Context, ids []string, quote string) (PriceMap, error) {
	prices, primaryErr := r.primary.Prices(ctx, ids, quote)
	if primaryErr == nil {
		return prices, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if r.fallback == nil || quote != FallbackCurrency {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, primaryErr)
	}

	r.logger.Warn().Err(primaryErr).Msg("primary source exhausted; trying fallback")

	fbPrices, fbErr := r.fallback.Prices(ctx, ids, quote)
	if fbErr != nil || len(fbPrices) == 0 {
		if fbErr == nil {
			fbErr = fmt.Errorf("fallback resolved no ids")
		}
		return nil, fmt.Errorf("%w: primary: %s; fallback: %s", ErrUnavailable, primaryErr, fbErr)
	}

	if r.cache != nil {
		flat := make(map[string]float64, len(fbPrices))
		for id, quotes := range fbPrices {
			flat[id] = quotes[quote]
		}
		if err := r.cache.WriteCache(flat, time.Now()); err != nil {
			r.logger.Error().Err(err).Msg("cache refresh after fallback failed")
		}
	}

	r.logger.Info().Int("resolved", len(fbPrices)).Int("requested", len(ids)).Msg("served prices from fallback source")
	return fbPrices, nil
}

var _ PriceSource = (*Resilient)(nil)
