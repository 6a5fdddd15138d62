package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// WriteCache overwrites the last-known-good price map wholesale.
func (s *Store) WriteCache(prices map[string]float64, fetchedAt time.Time) error {
	rec := CacheRecord{
		LastPrices:  prices,
		LastFetchTS: fetchedAt.UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	return WriteFileAtomic(s.path(cacheFile), data)
}

// ReadCache returns the cached price map. A missing or unreadable cache
// yields an empty record, never an error: the cache is a best-effort last
// resort, not a source of truth.
func (s *Store) ReadCache() CacheRecord {
	empty := CacheRecord{LastPrices: map[string]float64{}}

	data, err := os.ReadFile(s.path(cacheFile))
	if err != nil {
		return empty
	}

	var rec CacheRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn().Err(err).Msg("cache file unreadable; ignoring")
		return empty
	}
	if rec.LastPrices == nil {
		rec.LastPrices = map[string]float64{}
	}
	return rec
}
