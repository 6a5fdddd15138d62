package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppendAndReadSnapshots(t *testing.T) {
	s := newTestStore(t)

	s.AppendSnapshot(snap("2026-08-20T10:00:00Z", 100))
	s.AppendSnapshot(snap("2026-08-20T11:00:00Z", 105))

	all, err := s.ReadAllSnapshots()
	if err != nil {
		t.Fatalf("ReadAllSnapshots: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("snapshot count = %d, want 2", len(all))
	}
	if all[0].TotalValue != 100 || all[1].TotalValue != 105 {
		t.Fatalf("append order broken: %+v", all)
	}
	if all[0].Prices["bitcoin"] != 100 {
		t.Fatalf("prices not round-tripped: %+v", all[0])
	}
}

func TestReadRecentSnapshotsTail(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		s.AppendSnapshot(snap("2026-08-20T10:00:00Z", float64(i)))
	}

	recent, err := s.ReadRecentSnapshots(3)
	if err != nil {
		t.Fatalf("ReadRecentSnapshots: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("recent count = %d, want 3", len(recent))
	}
	if recent[0].TotalValue != 2 || recent[2].TotalValue != 4 {
		t.Fatalf("wrong tail: %+v", recent)
	}
}

func TestReadSnapshotsSkipsMalformedLines(t *testing.T) {
	s := newTestStore(t)
	s.AppendSnapshot(snap("2026-08-20T10:00:00Z", 100))

	path := filepath.Join(s.Dir(), snapshotsFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("{truncated\n"); err != nil {
		t.Fatalf("corrupt log: %v", err)
	}
	f.Close()
	s.AppendSnapshot(snap("2026-08-20T11:00:00Z", 105))

	all, err := s.ReadAllSnapshots()
	if err != nil {
		t.Fatalf("ReadAllSnapshots: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("snapshot count = %d, want 2 (corrupt line skipped)", len(all))
	}
}

func TestReadLastTotalsCoercesDegenerateValues(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Dir(), snapshotsFile)

	lines := `{"ts":"2026-08-20T10:00:00Z","total_value":100.5}
{"ts":"2026-08-20T11:00:00Z","total_value":"250.25"}
{"ts":"2026-08-20T12:00:00Z","total_value":null}
`
	if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	totals := s.readLastTotals(10)
	if len(totals) != 3 {
		t.Fatalf("totals = %v, want 3 entries", totals)
	}
	if totals[0] != 100.5 || totals[1] != 250.25 || totals[2] != 0 {
		t.Fatalf("totals = %v", totals)
	}
}
