package storage

import (
	"encoding/json"
	"math"
	"sort"
)

// ReasonOutlierTotal is the quarantine reason for deviation rejections.
const ReasonOutlierTotal = "outlier_total_value"

// GuardResult reports the outcome of a guarded append.
type GuardResult struct {
	Accepted  bool
	Median    float64
	Deviation float64
	Threshold float64
}

// GuardedAppend screens snap against the recent history before appending.
// The reference is the median of the last `window` totals; a candidate
// whose fractional deviation from it exceeds `threshold` is diverted to
// the quarantine file and never reaches the log or the rollups.
//
// With fewer than max(3, min(window, 10)) prior observations the candidate
// is accepted unconditionally: a fresh install must not reject its own
// bootstrap data.
func (s *Store) GuardedAppend(snap Snapshot, window int, threshold float64) GuardResult {
	ref := s.readLastTotals(window)

	minHistory := window
	if minHistory > 10 {
		minHistory = 10
	}
	if minHistory < 3 {
		minHistory = 3
	}
	if len(ref) < minHistory {
		s.AppendSnapshot(snap)
		return GuardResult{Accepted: true, Threshold: threshold}
	}

	med := median(ref)
	base := med
	if base <= 0 {
		base = 1.0
	}
	deviation := math.Abs(snap.TotalValue-med) / base

	result := GuardResult{
		Median:    med,
		Deviation: deviation,
		Threshold: threshold,
	}

	if deviation > threshold {
		rec := QuarantineRecord{
			Reason:     ReasonOutlierTotal,
			Median:     med,
			TotalValue: snap.TotalValue,
			Deviation:  deviation,
			Threshold:  threshold,
			TS:         snap.TS,
			VSCurrency: snap.VSCurrency,
			Prices:     snap.Prices,
		}
		if err := s.appendLine(s.path(quarantineFile), rec); err != nil {
			s.logger.Error().Err(err).Msg("quarantine write failed")
		}
		s.logger.Warn().
			Float64("total_value", snap.TotalValue).
			Float64("median", med).
			Float64("deviation", deviation).
			Float64("threshold", threshold).
			Msg("snapshot rejected as outlier")
		return result
	}

	s.AppendSnapshot(snap)
	result.Accepted = true
	return result
}

// ReadQuarantine returns every parseable quarantine record in append order.
func (s *Store) ReadQuarantine() ([]QuarantineRecord, error) {
	var out []QuarantineRecord
	err := readLines(s.path(quarantineFile), func(line []byte) {
		var rec QuarantineRecord
		if jsonErr := json.Unmarshal(line, &rec); jsonErr != nil {
			return
		}
		out = append(out, rec)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// median averages the two central values for even-length windows.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0.0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	m := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[m]
	}
	return (sorted[m-1] + sorted[m]) / 2.0
}
