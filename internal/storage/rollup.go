package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// UpsertRollup incrementally folds one snapshot into the rollup record for
// its UTC calendar date and atomically rewrites the date-sorted rollup
// file. The running mean is reconstructed from avg*count so the result
// matches a full rebuild exactly.
func (s *Store) UpsertRollup(snap Snapshot) error {
	date := utcDate(snap.TS)
	total := snap.TotalValue

	rows, err := s.ReadAllRollups()
	if err != nil {
		return err
	}

	idx := -1
	for i := range rows {
		if rows[i].Date == date {
			idx = i
			break
		}
	}

	if idx < 0 {
		rows = append(rows, DailyRollup{
			Date:  date,
			Open:  total,
			Close: total,
			High:  total,
			Low:   total,
			Avg:   total,
			Count: 1,
		})
	} else {
		rec := rows[idx]
		prevSum := rec.Avg * float64(rec.Count)
		rec.Count++
		rec.Close = total
		if total > rec.High {
			rec.High = total
		}
		if total < rec.Low {
			rec.Low = total
		}
		rec.Avg = (prevSum + total) / float64(rec.Count)
		rows[idx] = rec
	}

	return s.writeRollups(rows)
}

// RebuildRollups recomputes the entire rollup file from the snapshot log,
// replacing it atomically. Rebuilding is idempotent: unchanged input yields
// byte-identical output. An empty or missing log produces an empty file.
func (s *Store) RebuildRollups() (days, snapshots int, err error) {
	perDay := make(map[string]*rollupAccum)

	scanErr := readLines(s.path(snapshotsFile), func(line []byte) {
		snapshots++
		var snap Snapshot
		if jsonErr := json.Unmarshal(line, &snap); jsonErr != nil {
			return
		}
		date := utcDate(snap.TS)
		total := snap.TotalValue

		acc, ok := perDay[date]
		if !ok {
			perDay[date] = &rollupAccum{
				open:  total,
				close: total,
				high:  total,
				low:   total,
				sum:   total,
				count: 1,
			}
			return
		}
		acc.close = total
		if total > acc.high {
			acc.high = total
		}
		if total < acc.low {
			acc.low = total
		}
		acc.sum += total
		acc.count++
	})
	if scanErr != nil {
		return 0, 0, scanErr
	}

	rows := make([]DailyRollup, 0, len(perDay))
	for date, acc := range perDay {
		rows = append(rows, DailyRollup{
			Date:  date,
			Open:  acc.open,
			Close: acc.close,
			High:  acc.high,
			Low:   acc.low,
			Avg:   acc.sum / float64(acc.count),
			Count: acc.count,
		})
	}

	if err := s.writeRollups(rows); err != nil {
		return 0, 0, err
	}
	return len(rows), snapshots, nil
}

type rollupAccum struct {
	open, close, high, low, sum float64
	count                       int
}

// ReadRecentRollups returns the last n day-records in date order.
func (s *Store) ReadRecentRollups(n int) ([]DailyRollup, error) {
	rows, err := s.ReadAllRollups()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(rows) > n {
		rows = rows[len(rows)-n:]
	}
	return rows, nil
}

// ReadAllRollups returns every parseable rollup row sorted by date.
func (s *Store) ReadAllRollups() ([]DailyRollup, error) {
	var rows []DailyRollup
	err := readLines(s.path(rollupsFile), func(line []byte) {
		var rec DailyRollup
		if jsonErr := json.Unmarshal(line, &rec); jsonErr != nil {
			return
		}
		rows = append(rows, rec)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows, nil
}

// writeRollups atomically replaces the rollup file, sorted by date.
func (s *Store) writeRollups(rows []DailyRollup) error {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	var buf bytes.Buffer
	for _, rec := range rows {
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal rollup %s: %w", rec.Date, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	return WriteFileAtomic(s.path(rollupsFile), buf.Bytes())
}

// utcDate buckets an RFC3339 timestamp into a UTC calendar date. Malformed
// timestamps bucket to the current instant rather than failing the update.
func utcDate(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t = time.Now()
	}
	return t.UTC().Format(dateLayout)
}
