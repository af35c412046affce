package stability

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"orcaScanner/internal/eventlog"
	"orcaScanner/internal/model"
)

func TestComputeFallbackWithOneDay(t *testing.T) {
	dir := t.TempDir()
	log := eventlog.NewJSONLLog[Snapshot](filepath.Join(dir, "pool_stats_history.jsonl"), nil)
	tracker := NewTracker(log, DefaultConfig(), nil)

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	pending := []Snapshot{{Timestamp: now, Address: "pool1", TVLUSD: 1_000_000, Volume24hUSD: 200_000}}

	metrics, err := tracker.Compute(context.Background(), pending, now)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	got := metrics["pool1"]
	if got.StabilityScore != 0.25 {
		t.Fatalf("stability score = %f, want 0.25", got.StabilityScore)
	}
	if got.Note == "" {
		t.Fatalf("expected fallback note")
	}
	if math.IsNaN(got.StabilityScore) || math.IsInf(got.StabilityScore, 0) {
		t.Fatalf("score must be finite")
	}
}

func TestComputeAcrossDays(t *testing.T) {
	dir := t.TempDir()
	log := eventlog.NewJSONLLog[Snapshot](filepath.Join(dir, "history.jsonl"), nil)
	tracker := NewTracker(log, DefaultConfig(), nil)
	ctx := context.Background()

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	history := []Snapshot{
		// Outside the 7 day window.
		{Timestamp: now.Add(-9 * 24 * time.Hour), Address: "pool1", TVLUSD: 1_000_000, Volume24hUSD: 5_000_000},
		{Timestamp: now.Add(-2 * 24 * time.Hour), Address: "pool1", TVLUSD: 1_000_000, Volume24hUSD: 100_000},
		{Timestamp: now.Add(-2*24*time.Hour + time.Hour), Address: "pool1", TVLUSD: 1_000_000, Volume24hUSD: 300_000},
		{Timestamp: now.Add(-24 * time.Hour), Address: "pool1", TVLUSD: 0, Volume24hUSD: 300_000},
	}
	if err := tracker.Record(ctx, history); err != nil {
		t.Fatalf("record: %v", err)
	}

	pending := []Snapshot{{Timestamp: now, Address: "pool1", TVLUSD: 1_000_000, Volume24hUSD: 200_000}}
	metrics, err := tracker.Compute(ctx, pending, now)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	got := metrics["pool1"]
	// Day buckets: 0.2 (avg of 0.1 and 0.3) and 0.2. Zero stdev.
	if got.Days != 2 {
		t.Fatalf("days = %d, want 2", got.Days)
	}
	if math.Abs(got.MeanVolTvl7d-0.2) > 1e-9 {
		t.Fatalf("mean = %f, want 0.2", got.MeanVolTvl7d)
	}
	if got.StabilityScore != 1 {
		t.Fatalf("score = %f, want 1", got.StabilityScore)
	}
	if got.Note != "" {
		t.Fatalf("unexpected note %q", got.Note)
	}
}

func TestComputeVolatileTurnover(t *testing.T) {
	tracker := NewTracker(nil, DefaultConfig(), nil)
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	pending := []Snapshot{
		{Timestamp: now.Add(-24 * time.Hour), Address: "pool1", TVLUSD: 100, Volume24hUSD: 10},
		{Timestamp: now, Address: "pool1", TVLUSD: 100, Volume24hUSD: 30},
	}
	metrics, err := tracker.Compute(context.Background(), pending, now)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// mean 0.2, stdev 0.1 -> 1/(1+0.5)
	want := 1 / 1.5
	if math.Abs(metrics["pool1"].StabilityScore-want) > 1e-9 {
		t.Fatalf("score = %f, want %f", metrics["pool1"].StabilityScore, want)
	}
}

func TestComputeZeroMean(t *testing.T) {
	tracker := NewTracker(nil, DefaultConfig(), nil)
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	pending := []Snapshot{
		{Timestamp: now.Add(-24 * time.Hour), Address: "pool1", TVLUSD: 100, Volume24hUSD: 0},
		{Timestamp: now, Address: "pool1", TVLUSD: 100, Volume24hUSD: 0},
	}
	metrics, err := tracker.Compute(context.Background(), pending, now)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if metrics["pool1"].StabilityScore != 0.25 || metrics["pool1"].Note == "" {
		t.Fatalf("expected fallback, got %+v", metrics["pool1"])
	}
}

func TestLookupMissingPool(t *testing.T) {
	tracker := NewTracker(nil, DefaultConfig(), nil)
	got := tracker.Lookup(map[string]model.StabilityMetric{}, "missing")
	if got.StabilityScore != 0.25 || got.Note == "" {
		t.Fatalf("expected fallback metric, got %+v", got)
	}
}

func TestSnapshotsFor(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	pools := []model.Pool{{Address: "a", TVLUSD: 10, Stats24h: model.WindowStats{VolumeUSD: 5}}}
	got := SnapshotsFor(pools, now)
	if len(got) != 1 || got[0].Address != "a" || got[0].TVLUSD != 10 || got[0].Volume24hUSD != 5 || !got[0].Timestamp.Equal(now) {
		t.Fatalf("unexpected snapshots: %+v", got)
	}
}
