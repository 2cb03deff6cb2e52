package perf_test

import (
	"fmt"
	"testing"
	"time"

	"coachdesk/internal/adapters/http/perf"
)

func TestCollector_RecordAndSnapshot(t *testing.T) {
	c := perf.NewCollector(16)
	now := time.Now()

	for i := 0; i < 4; i++ {
		c.Record(perf.Entry{Kind: perf.KindRequest, Path: "/api/agenda", DurationMs: float64(10 * (i + 1)), Timestamp: now})
	}
	c.Record(perf.Entry{Kind: perf.KindQuery, Path: "QueryContext", DurationMs: 3, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 5)
	if snap.TotalRecorded != 5 {
		t.Errorf("TotalRecorded = %d, want 5", snap.TotalRecorded)
	}
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "/api/agenda" {
		t.Fatalf("SlowestPaths = %+v, want one /api/agenda entry", snap.SlowestPaths)
	}
	if snap.SlowestPaths[0].Count != 4 {
		t.Errorf("path count = %d, want 4", snap.SlowestPaths[0].Count)
	}
	if snap.SlowestPaths[0].AvgMs != 25 {
		t.Errorf("path avg = %v, want 25", snap.SlowestPaths[0].AvgMs)
	}
	if snap.SlowestPaths[0].MaxMs != 40 {
		t.Errorf("path max = %v, want 40", snap.SlowestPaths[0].MaxMs)
	}
	if len(snap.SlowestQueries) != 1 {
		t.Errorf("SlowestQueries = %+v, want one entry", snap.SlowestQueries)
	}
	if snap.RequestP50Ms < 20 || snap.RequestP50Ms > 30 {
		t.Errorf("RequestP50Ms = %v, want between 20 and 30", snap.RequestP50Ms)
	}
}

func TestCollector_RingOverwrite(t *testing.T) {
	c := perf.NewCollector(4)
	now := time.Now()
	for i := 0; i < 10; i++ {
		c.Record(perf.Entry{Kind: perf.KindRequest, Path: fmt.Sprintf("/p%d", i), DurationMs: 1, Timestamp: now})
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 10 {
		t.Errorf("TotalRecorded = %d, want 10", snap.TotalRecorded)
	}
	// Only the last 4 survive in the ring.
	if len(snap.SlowestPaths) != 4 {
		t.Errorf("retained paths = %d, want 4", len(snap.SlowestPaths))
	}
}

func TestCollector_SnapshotSinceFilter(t *testing.T) {
	c := perf.NewCollector(8)
	old := time.Now().Add(-2 * time.Hour)
	c.Record(perf.Entry{Kind: perf.KindRequest, Path: "/old", DurationMs: 5, Timestamp: old})
	snap := c.Snapshot(time.Now().Add(-time.Minute), 5)
	if len(snap.SlowestPaths) != 0 {
		t.Errorf("entries before since included: %+v", snap.SlowestPaths)
	}
}
