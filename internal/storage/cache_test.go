package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	s := newTestStore(t)

	fetchedAt := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	prices := map[string]float64{"bitcoin": 70000, "ethereum": 3500}
	if err := s.WriteCache(prices, fetchedAt); err != nil {
		t.Fatalf("WriteCache: %v", err)
	}

	rec := s.ReadCache()
	if rec.LastPrices["bitcoin"] != 70000 || rec.LastPrices["ethereum"] != 3500 {
		t.Fatalf("prices = %v", rec.LastPrices)
	}
	if rec.LastFetchTS != "2026-08-20T10:30:00Z" {
		t.Fatalf("fetch ts = %q", rec.LastFetchTS)
	}
}

func TestCacheOverwrittenWholesale(t *testing.T) {
	s := newTestStore(t)

	if err := s.WriteCache(map[string]float64{"bitcoin": 70000, "cardano": 0.5}, time.Now()); err != nil {
		t.Fatalf("WriteCache: %v", err)
	}
	if err := s.WriteCache(map[string]float64{"bitcoin": 71000}, time.Now()); err != nil {
		t.Fatalf("WriteCache: %v", err)
	}

	rec := s.ReadCache()
	if len(rec.LastPrices) != 1 {
		t.Fatalf("stale entries survived: %v", rec.LastPrices)
	}
	if rec.LastPrices["bitcoin"] != 71000 {
		t.Fatalf("bitcoin = %v", rec.LastPrices["bitcoin"])
	}
}

func TestReadCacheMissingOrCorrupt(t *testing.T) {
	s := newTestStore(t)

	rec := s.ReadCache()
	if len(rec.LastPrices) != 0 || rec.LastFetchTS != "" {
		t.Fatalf("missing cache should read empty: %+v", rec)
	}

	if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), cacheFile), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	rec = s.ReadCache()
	if len(rec.LastPrices) != 0 {
		t.Fatalf("corrupt cache should read empty: %+v", rec)
	}
}
