package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubSource struct {
	prices PriceMap
	err    error
	calls  int
}

func (s *stubSource) Prices(ctx context.Context, ids []string, quote string) (PriceMap, error) {
	s.calls++
	return s.prices, s.err
}

type stubCache struct {
	prices    map[string]float64
	fetchedAt time.Time
	writes    int
}

func (s *stubCache) WriteCache(prices map[string]float64, fetchedAt time.Time) error {
	s.prices = prices
	s.fetchedAt = fetchedAt
	s.writes++
	return nil
}

func TestResilientPrimarySuccessSkipsFallback(t *testing.T) {
	primary := &stubSource{prices: PriceMap{"bitcoin": {"usd": 70000}}}
	fallback := &stubSource{}
	cache := &stubCache{}

	r := NewResilient(primary, fallback, cache, zerolog.Nop())
	prices, err := r.Prices(context.Background(), []string{"bitcoin"}, "usd")
	if err != nil {
		t.Fatalf("Prices: %v", err)
	}
	if prices["bitcoin"]["usd"] != 70000 {
		t.Fatalf("bitcoin = %v", prices["bitcoin"]["usd"])
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback should not be consulted, got %d calls", fallback.calls)
	}
	if cache.writes != 0 {
		t.Fatalf("cache should not be written on primary success, got %d writes", cache.writes)
	}
}

func TestResilientServesPartialFallbackAndRefreshesCache(t *testing.T) {
	primary := &stubSource{err: errors.New("rate limited")}
	fallback := &stubSource{prices: PriceMap{"bitcoin": {"usd": 69500}}}
	cache := &stubCache{}

	r := NewResilient(primary, fallback, cache, zerolog.Nop())
	prices, err := r.Prices(context.Background(), []string{"bitcoin", "ethereum"}, "usd")
	if err != nil {
		t.Fatalf("Prices: %v", err)
	}
	if len(prices) != 1 {
		t.Fatalf("expected the partial result, got %v", prices)
	}
	if prices["bitcoin"]["usd"] != 69500 {
		t.Fatalf("bitcoin = %v", prices["bitcoin"]["usd"])
	}
	if cache.writes != 1 {
		t.Fatalf("cache writes = %d, want 1", cache.writes)
	}
	if cache.prices["bitcoin"] != 69500 {
		t.Fatalf("cached bitcoin = %v", cache.prices["bitcoin"])
	}
}

func TestResilientNoFallbackForNonUSDQuote(t *testing.T) {
	primary := &stubSource{err: errors.New("server error")}
	fallback := &stubSource{prices: PriceMap{"bitcoin": {"usd": 69500}}}

	r := NewResilient(primary, fallback, nil, zerolog.Nop())
	_, err := r.Prices(context.Background(), []string{"bitcoin"}, "eur")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback must not serve eur, got %d calls", fallback.calls)
	}
}

func TestResilientBothSourcesFail(t *testing.T) {
	primary := &stubSource{err: errors.New("primary down")}
	fallback := &stubSource{err: errors.New("fallback down")}
	cache := &stubCache{}

	r := NewResilient(primary, fallback, cache, zerolog.Nop())
	_, err := r.Prices(context.Background(), []string{"bitcoin"}, "usd")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if cache.writes != 0 {
		t.Fatalf("cache must stay untouched, got %d writes", cache.writes)
	}
}

func TestResilientEmptyFallbackResultIsUnavailable(t *testing.T) {
	primary := &stubSource{err: errors.New("primary down")}
	fallback := &stubSource{prices: PriceMap{}}

	r := NewResilient(primary, fallback, nil, zerolog.Nop())
	_, err := r.Prices(context.Background(), []string{"bitcoin"}, "usd")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFlatten(t *testing.T) {
	prices := PriceMap{"bitcoin": {"usd": 70000}}
	flat := Flatten(prices, []string{"bitcoin", "ethereum"}, "usd")
	if flat["bitcoin"] != 70000 {
		t.Fatalf("bitcoin = %v", flat["bitcoin"])
	}
	if flat["ethereum"] != 0 {
		t.Fatalf("missing id should flatten to 0, got %v", flat["ethereum"])
	}
}
