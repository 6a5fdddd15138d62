package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/fetcher"
	"github.com/ianisnotreal/crypto-tracker-cli/internal/portfolio"
	"github.com/ianisnotreal/crypto-tracker-cli/internal/storage"
)

// ErrNoPositions indicates there is nothing to value.
var ErrNoPositions = errors.New("portfolio has no positions")

// Outcome classifies how a cycle obtained its prices.
type Outcome int

const (
	// OutcomeLive means a live source (primary or fallback) served the cycle.
	OutcomeLive Outcome = iota
	// OutcomeDegraded means every live path failed and the cycle ran on
	// the cached last-known-good prices.
	OutcomeDegraded
	// OutcomeFailed means no price data was available at all.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLive:
		return "live"
	case OutcomeDegraded:
		return "degraded"
	default:
		return "failed"
	}
}

// CycleResult is the observable outcome of one fetch-guard-append cycle.
type CycleResult struct {
	Outcome  Outcome
	Guard    storage.GuardResult
	Report   portfolio.Report
	Snapshot storage.Snapshot
}

// Service orchestrates one polling cycle: fetch prices, value the
// portfolio, screen the snapshot, and persist.
type Service struct {
	source fetcher.PriceSource
	store  *storage.Store
	logger zerolog.Logger

	quote     string
	window    int
	threshold float64
}

// New constructs the cycle service.
func New(source fetcher.PriceSource, store *storage.Store, quote string, window int, threshold float64, logger zerolog.Logger) *Service {
	return &Service{
		source:    source,
		store:     store,
		logger:    logger.With().Str("component", "service").Logger(),
		quote:     quote,
		window:    window,
		threshold: threshold,
	}
}

// RunCycle executes one complete cycle. Persistence failures degrade, they
// never fail the cycle; only the total absence of price data is an error.
func (s *Service) RunCycle(ctx context.Context) (CycleResult, error) {
	port, err := portfolio.Load(s.store.Dir())
	if err != nil {
		return CycleResult{Outcome: OutcomeFailed}, err
	}
	ids := port.IDs()
	if len(ids) == 0 {
		return CycleResult{Outcome: OutcomeFailed}, ErrNoPositions
	}

	result := CycleResult{Outcome: OutcomeLive}

	prices, fetchErr := s.source.Prices(ctx, ids, s.quote)
	if fetchErr != nil {
		if ctx.Err() != nil {
			return CycleResult{Outcome: OutcomeFailed}, ctx.Err()
		}
		cached := s.store.ReadCache()
		if len(cached.LastPrices) == 0 {
			return CycleResult{Outcome: OutcomeFailed}, fetchErr
		}
		s.logger.Warn().Err(fetchErr).
			Str("cached_at", cached.LastFetchTS).
			Msg("all live sources failed; valuing against cached prices")
		prices = fetcher.PriceMap{}
		for id, price := range cached.LastPrices {
			prices[id] = map[string]float64{s.quote: price}
		}
		result.Outcome = OutcomeDegraded
	}

	result.Report = port.Valuate(prices, s.quote)

	now := time.Now().UTC()
	result.Snapshot = s.buildSnapshot(now, ids, prices, result.Report)

	result.Guard = s.store.GuardedAppend(result.Snapshot, s.window, s.threshold)

	if result.Outcome == OutcomeLive {
		if err := s.store.WriteCache(fetcher.Flatten(prices, ids, s.quote), now); err != nil {
			s.logger.Error().Err(err).Msg("cache overwrite failed")
		}
	}

	s.logger.Info().
		Str("outcome", result.Outcome.String()).
		Bool("accepted", result.Guard.Accepted).
		Float64("total_value", result.Report.TotalValue).
		Msg("cycle complete")

	return result, nil
}

func (s *Service) buildSnapshot(now time.Time, ids []string, prices fetcher.PriceMap, report portfolio.Report) storage.Snapshot {
	rows, err := marshalRows(report.Positions)
	if err != nil {
		s.logger.Warn().Err(err).Msg("position rows not serializable; omitting from snapshot")
		rows = nil
	}
	return storage.Snapshot{
		TS:         now.Format(time.RFC3339),
		VSCurrency: s.quote,
		TotalValue: report.TotalValue,
		Prices:     fetcher.Flatten(prices, ids, s.quote),
		Positions:  rows,
	}
}
