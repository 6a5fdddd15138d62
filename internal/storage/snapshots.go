package storage

import (
	"encoding/json"
	"strconv"
)

// AppendSnapshot durably appends one record to the snapshot log and folds
// it into the daily rollup for its date. Both writes are best-effort: an
// I/O failure is logged and absorbed, never raised into the caller's
// cycle. A lost observation is preferable to a crashed polling process.
func (s *Store) AppendSnapshot(snap Snapshot) {
	if err := s.appendLine(s.path(snapshotsFile), snap); err != nil {
		s.logger.Error().Err(err).Str("ts", snap.TS).Msg("snapshot append failed; observation lost")
		return
	}

	if err := s.UpsertRollup(snap); err != nil {
		s.logger.Error().Err(err).Str("ts", snap.TS).Msg("daily rollup update failed")
	}
}

// ReadRecentSnapshots returns the last n log records in chronological
// order, fewer if the log holds fewer. Malformed lines are skipped.
func (s *Store) ReadRecentSnapshots(n int) ([]Snapshot, error) {
	all, err := s.ReadAllSnapshots()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

// ReadAllSnapshots returns every parseable log record in append order.
func (s *Store) ReadAllSnapshots() ([]Snapshot, error) {
	var out []Snapshot
	err := readLines(s.path(snapshotsFile), func(line []byte) {
		var snap Snapshot
		if err := json.Unmarshal(line, &snap); err != nil {
			return
		}
		out = append(out, snap)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// readLastTotals returns the last n total_value observations from the log.
// Unparsable values read as 0.0 so the outlier guard never aborts on a
// degenerate history.
func (s *Store) readLastTotals(n int) []float64 {
	var totals []float64
	err := readLines(s.path(snapshotsFile), func(line []byte) {
		var raw struct {
			TotalValue any `json:"total_value"`
		}
		if err := json.Unmarshal(line, &raw); err != nil {
			return
		}
		totals = append(totals, coerceFloat(raw.TotalValue))
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read snapshot history")
		return nil
	}
	if n > 0 && len(totals) > n {
		totals = totals[len(totals)-n:]
	}
	return totals
}

func coerceFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
	}
	return 0.0
}
