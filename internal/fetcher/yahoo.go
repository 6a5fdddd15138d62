package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// FallbackCurrency is the only quote currency the secondary source can
// serve: Yahoo quote pages carry USD pairs.
const FallbackCurrency = "usd"

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/125.0.0.0 Safari/537.36"

// defaultTickers maps common asset ids to Yahoo Finance symbols.
var defaultTickers = map[string]string{
	"bitcoin":  "BTC-USD",
	"ethereum": "ETH-USD",
	"solana":   "SOL-USD",
	"dogecoin": "DOGE-USD",
	"cardano":  "ADA-USD",
}

// Price extraction from the embedded JSON blobs in Yahoo quote pages.
var (
	reRegularMarketPrice = regexp.MustCompile(`"regularMarketPrice"\s*:\s*\{"raw"\s*:\s*([0-9]+(?:\.[0-9]+)?)`)
	reCurrentPrice       = regexp.MustCompile(`"currentPrice"\s*:\s*\{"raw"\s*:\s*([0-9]+(?:\.[0-9]+)?)`)
)

// YahooOptions parameterise the secondary fetcher.
type YahooOptions struct {
	BaseURL string
	Timeout time.Duration
	Tickers map[string]string
}

// Yahoo scrapes best-effort USD prices from Yahoo Finance quote pages. It
// is used only when the primary source is exhausted; ids without a ticker
// mapping or whose page cannot be parsed are omitted, never an error.
type Yahoo struct {
	opts    YahooOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
	tickers map[string]string
}

// NewYahoo constructs the secondary fetcher.
func NewYahoo(opts YahooOptions, logger zerolog.Logger) *Yahoo {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://finance.yahoo.com"
	}

	tickers := opts.Tickers
	if len(tickers) == 0 {
		tickers = defaultTickers
	}

	return &Yahoo{
		opts:    opts,
		logger:  logger.With().Str("component", "yahoo_fallback").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		tickers: tickers,
	}
}

// Prices resolves each id through the ticker map and scrapes its quote
// page. Partial results are expected; only the fallback currency is
// supported.
func (y *Yahoo) Prices(ctx context.Context, ids []string, quote string) (PriceMap, error) {
	if quote != FallbackCurrency {
		return nil, fmt.Errorf("yahoo fallback serves %s only, not %s", FallbackCurrency, quote)
	}

	out := PriceMap{}
	for _, id := range ids {
		ticker, ok := y.tickers[strings.ToLower(id)]
		if !ok {
			continue
		}
		price, err := y.fetchTicker(ctx, ticker)
		if err != nil {
			y.logger.Debug().Err(err).Str("id", id).Str("ticker", ticker).Msg("fallback scrape failed for id")
			continue
		}
		out[id] = map[string]float64{FallbackCurrency: price}
	}
	return out, nil
}

func (y *Yahoo) fetchTicker(ctx context.Context, ticker string) (float64, error) {
	endpoint := fmt.Sprintf("%s/quote/%s/", y.baseURL, ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := y.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("yahoo quote page status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	m := reRegularMarketPrice.FindSubmatch(body)
	if m == nil {
		m = reCurrentPrice.FindSubmatch(body)
	}
	if m == nil {
		return 0, fmt.Errorf("no price found in quote page for %s", ticker)
	}

	price, err := strconv.ParseFloat(string(m[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("parse scraped price: %w", err)
	}
	return price, nil
}

var _ PriceSource = (*Yahoo)(nil)
