package fetcher

import (
	"context"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// Resilience tuning for the primary source.
const (
	maxAttempts = 5
	baseBackoff = 600 * time.Millisecond
	maxBackoff  = 8 * time.Second
	jitterBound = 350 * time.Millisecond
)

// parseRetryAfter interprets an RFC 7231 Retry-After header value as a
// wait duration: a plain non-negative number of seconds, or an HTTP-date
// whose remaining delta from now is clamped to >= 0. Anything unusable
// yields 0.
func parseRetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return 0
	}

	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}

	when, err := http.ParseTime(value)
	if err != nil {
		return 0
	}
	delta := when.Sub(now)
	if delta < 0 {
		return 0
	}
	return delta
}

// retryDelay picks the wait before the next attempt: the server hint when
// present and positive, otherwise capped exponential backoff plus uniform
// jitter.
func retryDelay(attempt int, retryAfter string, now time.Time) time.Duration {
	if hint := parseRetryAfter(retryAfter, now); hint > 0 {
		return hint
	}

	delay := baseBackoff << attempt
	if delay > maxBackoff || delay <= 0 {
		delay = maxBackoff
	}
	return delay + time.Duration(rand.Int63n(int64(jitterBound)))
}

// sleep blocks for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
