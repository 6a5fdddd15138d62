package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/fetcher"
	"github.com/ianisnotreal/crypto-tracker-cli/internal/portfolio"
	"github.com/ianisnotreal/crypto-tracker-cli/internal/storage"
)

type stubSource struct {
	prices fetcher.PriceMap
	err    error
}

func (s *stubSource) Prices(ctx context.Context, ids []string, quote string) (fetcher.PriceMap, error) {
	return s.prices, s.err
}

func newTestService(t *testing.T, source fetcher.PriceSource) (*Service, *storage.Store) {
	t.Helper()
	store := storage.NewStore(t.TempDir(), zerolog.Nop())
	svc := New(source, store, "usd", 10, 0.8, zerolog.Nop())
	return svc, store
}

func seedPortfolio(t *testing.T, dir string) {
	t.Helper()
	p := &portfolio.Portfolio{}
	p.Upsert("bitcoin", "btc", 0.5, nil)
	p.Upsert("ethereum", "eth", 10, nil)
	if err := portfolio.Save(dir, p); err != nil {
		t.Fatalf("save portfolio: %v", err)
	}
}

func TestRunCycleLive(t *testing.T) {
	source := &stubSource{prices: fetcher.PriceMap{
		"bitcoin":  {"usd": 70000},
		"ethereum": {"usd": 3500},
	}}
	svc, store := newTestService(t, source)
	seedPortfolio(t, store.Dir())

	res, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if res.Outcome != OutcomeLive {
		t.Fatalf("outcome = %v, want live", res.Outcome)
	}
	if !res.Guard.Accepted {
		t.Fatalf("guard = %+v", res.Guard)
	}
	if res.Report.TotalValue != 70000 {
		t.Fatalf("total = %v, want 70000", res.Report.TotalValue)
	}

	snaps, err := store.ReadAllSnapshots()
	if err != nil {
		t.Fatalf("ReadAllSnapshots: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("snapshot count = %d, want 1", len(snaps))
	}
	if snaps[0].TotalValue != 70000 || snaps[0].VSCurrency != "usd" {
		t.Fatalf("snapshot = %+v", snaps[0])
	}
	if snaps[0].Prices["bitcoin"] != 70000 {
		t.Fatalf("snapshot prices = %v", snaps[0].Prices)
	}
	if _, err := time.Parse(time.RFC3339, snaps[0].TS); err != nil {
		t.Fatalf("snapshot ts %q not RFC3339: %v", snaps[0].TS, err)
	}

	rollups, err := store.ReadAllRollups()
	if err != nil {
		t.Fatalf("ReadAllRollups: %v", err)
	}
	if len(rollups) != 1 || rollups[0].Count != 1 {
		t.Fatalf("rollups = %+v", rollups)
	}

	cache := store.ReadCache()
	if cache.LastPrices["bitcoin"] != 70000 || cache.LastPrices["ethereum"] != 3500 {
		t.Fatalf("cache = %+v", cache)
	}
}

func TestRunCycleDegradedFromCache(t *testing.T) {
	source := &stubSource{err: errors.New("all sources down")}
	svc, store := newTestService(t, source)
	seedPortfolio(t, store.Dir())

	cachedAt := time.Now().Add(-time.Hour)
	if err := store.WriteCache(map[string]float64{"bitcoin": 68000, "ethereum": 3400}, cachedAt); err != nil {
		t.Fatalf("WriteCache: %v", err)
	}

	res, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if res.Outcome != OutcomeDegraded {
		t.Fatalf("outcome = %v, want degraded", res.Outcome)
	}
	if res.Report.TotalValue != 0.5*68000+10*3400 {
		t.Fatalf("total = %v", res.Report.TotalValue)
	}

	// A degraded cycle must not refresh the cache with its own stale input.
	cache := store.ReadCache()
	if cache.LastFetchTS != cachedAt.UTC().Format(time.RFC3339) {
		t.Fatalf("cache timestamp rewritten: %q", cache.LastFetchTS)
	}

	snaps, err := store.ReadAllSnapshots()
	if err != nil {
		t.Fatalf("ReadAllSnapshots: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("degraded cycle must still append, got %d snapshots", len(snaps))
	}
}

func TestRunCycleFailsWithoutCache(t *testing.T) {
	fetchErr := errors.New("all sources down")
	svc, store := newTestService(t, &stubSource{err: fetchErr})
	seedPortfolio(t, store.Dir())

	res, err := svc.RunCycle(context.Background())
	if !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v, want the fetch error", err)
	}
	if res.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %v, want failed", res.Outcome)
	}

	snaps, readErr := store.ReadAllSnapshots()
	if readErr != nil {
		t.Fatalf("ReadAllSnapshots: %v", readErr)
	}
	if len(snaps) != 0 {
		t.Fatalf("failed cycle must not append, got %d snapshots", len(snaps))
	}
}

func TestRunCycleEmptyPortfolio(t *testing.T) {
	svc, _ := newTestService(t, &stubSource{})

	_, err := svc.RunCycle(context.Background())
	if !errors.Is(err, ErrNoPositions) {
		t.Fatalf("err = %v, want ErrNoPositions", err)
	}
}

func TestRunCycleContextCancelled(t *testing.T) {
	svc, store := newTestService(t, &stubSource{err: errors.New("boom")})
	seedPortfolio(t, store.Dir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.RunCycle(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestOutcomeString(t *testing.T) {
	if OutcomeLive.String() != "live" || OutcomeDegraded.String() != "degraded" || OutcomeFailed.String() != "failed" {
		t.Fatal("outcome strings drifted")
	}
}
