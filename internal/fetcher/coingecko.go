package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// CoinGeckoOptions parameterise the primary price fetcher.
type CoinGeckoOptions struct {
	BaseURL        string
	UserAgent      string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// CoinGecko fetches spot prices from the CoinGecko simple-price API with
// retry, Retry-After handling, and exponential backoff.
type CoinGecko struct {
	opts    CoinGeckoOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string

	// wait is swapped out in tests to observe computed delays.
	wait func(ctx context.Context, d time.Duration) error
}

// NewCoinGecko constructs the primary fetcher.
func NewCoinGecko(opts CoinGeckoOptions, logger zerolog.Logger) *CoinGecko {
	connect := opts.ConnectTimeout
	if connect <= 0 {
		connect = 3 * time.Second
	}
	read := opts.ReadTimeout
	if read <= 0 {
		read = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3/simple/price"
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: connect}).DialContext,
	}

	return &CoinGecko{
		opts:    opts,
		logger:  logger.With().Str("component", "coingecko_fetcher").Logger(),
		client:  &http.Client{Timeout: read, Transport: transport},
		baseURL: baseURL,
		wait:    sleep,
	}
}

// Prices fetches all ids batched into one call. Rate limiting (429) and
// server-side failures (5xx, timeout, connection error) are retried up to
// the attempt budget; any other non-2xx status fails immediately.
func (c *CoinGecko) Prices(ctx context.Context, ids []string, quote string) (PriceMap, error) {
	if len(ids) == 0 {
		return PriceMap{}, nil
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", quote)
	endpoint := c.baseURL + "?" + query.Encode()

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		start := time.Now()
		prices, retryAfter, err := c.attempt(ctx, endpoint)
		elapsed := time.Since(start)

		if err == nil {
			c.logger.Info().
				Int("ids", len(ids)).
				Dur("elapsed", elapsed).
				Msg("prices fetched")
			return prices, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isRetryable(err) {
			return nil, err
		}

		lastErr = err
		c.logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("elapsed", elapsed).
			Msg("price fetch attempt failed; retrying")

		if attempt == maxAttempts-1 {
			break
		}
		if waitErr := c.wait(ctx, retryDelay(attempt, retryAfter, time.Now())); waitErr != nil {
			return nil, waitErr
		}
	}

	return nil, fmt.Errorf("price fetch failed after %d attempts: %w", maxAttempts, lastErr)
}

// attempt issues one request. The returned retryAfter is the raw header
// value for the backoff computation.
func (c *CoinGecko) attempt(ctx context.Context, endpoint string) (PriceMap, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// Timeouts and connection-level failures are transient.
		return nil, "", &transientError{err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &transientError{err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var prices PriceMap
		if err := json.Unmarshal(body, &prices); err != nil {
			return nil, "", fmt.Errorf("parse price response: %w", err)
		}
		return prices, "", nil

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, resp.Header.Get("Retry-After"),
			&transientError{err: fmt.Errorf("coingecko rate limited (429)")}

	case resp.StatusCode >= 500:
		return nil, resp.Header.Get("Retry-After"),
			&transientError{err: fmt.Errorf("coingecko server error (%d)", resp.StatusCode)}

	default:
		return nil, "", fmt.Errorf("coingecko api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// transientError marks a failure as retryable.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

var _ PriceSource = (*CoinGecko)(nil)
