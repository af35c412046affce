// Package stability scores how steady each pool's daily turnover has been
// over a trailing window of snapshots.
package stability

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"orcaScanner/internal/eventlog"
	"orcaScanner/internal/model"
)

const dayLayout = "2006-01-02"

// Snapshot is one pool observation appended to the history log per run.
type Snapshot struct {
	Timestamp    time.Time `json:"ts"`
	Address      string    `json:"address"`
	TVLUSD       float64   `json:"tvlUsd"`
	Volume24hUSD float64   `json:"volume24hUsd"`
}

func (s Snapshot) EventTime() time.Time {
	return s.Timestamp
}

// Config tunes the tracker.
type Config struct {
	WindowDays    int     `mapstructure:"window_days"`
	FallbackScore float64 `mapstructure:"fallback_score"`
}

func DefaultConfig() Config {
	return Config{
		WindowDays:    7,
		FallbackScore: 0.25,
	}
}

// Tracker computes stability metrics from a snapshot log.
type Tracker struct {
	log    eventlog.Log[Snapshot]
	cfg    Config
	logger *zap.Logger
}

func NewTracker(log eventlog.Log[Snapshot], cfg Config, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = DefaultConfig().WindowDays
	}
	return &Tracker{log: log, cfg: cfg, logger: logger}
}

// SnapshotsFor builds this run's snapshots, one per pool.
func SnapshotsFor(pools []model.Pool, now time.Time) []Snapshot {
	out := make([]Snapshot, 0, len(pools))
	for _, pool := range pools {
		out = append(out, Snapshot{
			Timestamp:    now.UTC(),
			Address:      pool.Address,
			TVLUSD:       pool.TVLUSD,
			Volume24hUSD: pool.Stats24h.VolumeUSD,
		})
	}
	return out
}

type dayBucket struct {
	sum   float64
	count int
}

// Compute returns metrics keyed by pool address. pending holds snapshots of the
// current run that have not been appended yet.
func (t *Tracker) Compute(ctx context.Context, pending []Snapshot, now time.Time) (map[string]model.StabilityMetric, error) {
	since := now.UTC().Add(-time.Duration(t.cfg.WindowDays) * 24 * time.Hour)

	var history []Snapshot
	if t.log != nil {
		scanned, err := t.log.Scan(ctx, since)
		if err != nil {
			return nil, fmt.Errorf("scan pool stats history: %w", err)
		}
		history = scanned
	}
	history = append(history, pending...)

	buckets := make(map[string]map[string]*dayBucket)
	for _, snap := range history {
		ts := snap.Timestamp.UTC()
		if ts.Before(since) || ts.After(now.UTC()) {
			continue
		}
		if snap.Address == "" || snap.TVLUSD <= 0 || !finite(snap.Volume24hUSD) {
			continue
		}
		days, ok := buckets[snap.Address]
		if !ok {
			days = make(map[string]*dayBucket)
			buckets[snap.Address] = days
		}
		day := ts.Format(dayLayout)
		b, ok := days[day]
		if !ok {
			b = &dayBucket{}
			days[day] = b
		}
		b.sum += snap.Volume24hUSD / snap.TVLUSD
		b.count++
	}

	out := make(map[string]model.StabilityMetric, len(buckets))
	for address, days := range buckets {
		out[address] = t.metric(address, days)
	}
	t.logger.Debug("stability computed",
		zap.Int("snapshots", len(history)),
		zap.Int("pools", len(out)),
	)
	return out, nil
}

// Lookup returns the metric for address or the neutral fallback.
func (t *Tracker) Lookup(metrics map[string]model.StabilityMetric, address string) model.StabilityMetric {
	if m, ok := metrics[address]; ok {
		return m
	}
	return t.fallback(address, 0, "no snapshot history")
}

// Record appends snapshots to the history log.
func (t *Tracker) Record(ctx context.Context, snapshots []Snapshot) error {
	if t.log == nil || len(snapshots) == 0 {
		return nil
	}
	if err := t.log.Append(ctx, snapshots...); err != nil {
		return fmt.Errorf("append pool stats history: %w", err)
	}
	return nil
}

func (t *Tracker) metric(address string, days map[string]*dayBucket) model.StabilityMetric {
	keys := make([]string, 0, len(days))
	for day := range days {
		keys = append(keys, day)
	}
	sort.Strings(keys)

	series := make([]float64, 0, len(keys))
	for _, day := range keys {
		b := days[day]
		series = append(series, b.sum/float64(b.count))
	}

	if len(series) < 2 {
		return t.fallback(address, len(series), fmt.Sprintf("insufficient history: %d daily bucket(s), need 2", len(series)))
	}

	mean, stdev := meanStdev(series)
	if mean <= 0 || !finite(mean) || !finite(stdev) {
		return t.fallback(address, len(series), "non-positive mean turnover")
	}

	score := clamp01(1 / (1 + stdev/mean))
	return model.StabilityMetric{
		Address:        address,
		StabilityScore: score,
		MeanVolTvl7d:   mean,
		StdevVolTvl7d:  stdev,
		Days:           len(series),
	}
}

func (t *Tracker) fallback(address string, days int, note string) model.StabilityMetric {
	return model.StabilityMetric{
		Address:        address,
		StabilityScore: t.cfg.FallbackScore,
		Days:           days,
		Note:           note,
	}
}

// meanStdev returns the mean and population standard deviation.
func meanStdev(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
