// Package ledger keeps the append-only performance ledger and its rolling summary.
package ledger

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

const DefaultWindowDays = 7

// Ledger appends run entries and summarizes them.
type Ledger struct {
	log    eventlog.Log[model.LedgerEntry]
	logger *zap.Logger
}

func New(log eventlog.Log[model.LedgerEntry], logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{log: log, logger: logger}
}

// NewEntry builds the ledger row for one run.
func NewEntry(runID string, now time.Time, state model.RegimeState, sl model.Shortlist, alerts []model.Alert) model.LedgerEntry {
	members := make([]string, 0, len(sl.Selected))
	for _, item := range sl.Selected {
		members = append(members, item.Pool.Address)
	}
	var funding *float64
	if f := state.Metrics.FundingAprPct; f != nil {
		v := *f
		funding = &v
	}
	return model.LedgerEntry{
		RunID:         runID,
		Timestamp:     now.UTC().Format(time.RFC3339Nano),
		Regime:        state.Regime,
		RegimeScore:   state.Score,
		FundingAprPct: funding,
		ShortlistSize: len(members),
		Shortlist:     members,
		AlertCount:    len(alerts),
	}
}

// Append adds one entry.
func (l *Ledger) Append(ctx context.Context, entry model.LedgerEntry) error {
	if err := l.log.Append(ctx, entry); err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}
	return nil
}

// Summarize aggregates the entries within windowDays of the latest entry.
// Anchoring at the latest entry keeps the summary stable when nothing was appended.
func (l *Ledger) Summarize(ctx context.Context, windowDays int) (model.PerformanceSummary, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	entries, err := l.log.Scan(ctx, time.Time{})
	if err != nil {
		return model.PerformanceSummary{}, fmt.Errorf("scan ledger: %w", err)
	}
	return Summarize(entries, windowDays), nil
}

type timedEntry struct {
	entry model.LedgerEntry
	ts    time.Time
}

// Summarize is the pure aggregation behind Ledger.Summarize.
func Summarize(entries []model.LedgerEntry, windowDays int) model.PerformanceSummary {
	summary := model.PerformanceSummary{
		WindowDays:         windowDays,
		RegimeCounts:       map[model.Regime]int{},
		ShortlistFrequency: map[string]int{},
	}

	timed := make([]timedEntry, 0, len(entries))
	var latest time.Time
	for _, entry := range entries {
		ts, ok := entry.Time()
		if !ok {
			continue
		}
		timed = append(timed, timedEntry{entry: entry, ts: ts})
		if ts.After(latest) {
			latest = ts
		}
	}
	if len(timed) == 0 {
		summary.Notes = append(summary.Notes, "no ledger entries with a parseable timestamp")
		return summary
	}

	since := latest.Add(-time.Duration(windowDays) * 24 * time.Hour)
	window := timed[:0]
	for _, te := range timed {
		if !te.ts.Before(since) {
			window = append(window, te)
		}
	}
	sort.SliceStable(window, func(i, j int) bool { return window[i].ts.Before(window[j].ts) })

	var fundingSum float64
	var shortlistSum int
	var prev model.Regime
	for i, te := range window {
		e := te.entry
		summary.RegimeCounts[e.Regime]++
		if i > 0 && e.Regime != prev {
			summary.RegimeChanges++
		}
		prev = e.Regime
		if e.FundingAprPct != nil && !math.IsNaN(*e.FundingAprPct) && !math.IsInf(*e.FundingAprPct, 0) {
			fundingSum += *e.FundingAprPct
			summary.FundingSamples++
		}
		shortlistSum += e.ShortlistSize
		summary.TotalAlerts += e.AlertCount
		for _, address := range e.Shortlist {
			summary.ShortlistFrequency[address]++
		}
	}

	summary.Entries = len(window)
	summary.AsOf = latest.Format(time.RFC3339Nano)
	summary.LatestRegime = window[len(window)-1].entry.Regime
	summary.AvgShortlistSize = round(float64(shortlistSum)/float64(len(window)), 4)
	if summary.FundingSamples > 0 {
		avg := round(fundingSum/float64(summary.FundingSamples), 4)
		summary.AvgFundingAprPct = &avg
	} else {
		summary.Notes = append(summary.Notes, "no funding samples in window")
	}
	return summary
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
