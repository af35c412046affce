// Package pipeline runs one scanner cycle end to end and commits its outputs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"orcaScanner/internal/alerts"
	"orcaScanner/internal/allocation"
	"orcaScanner/internal/config"
	"orcaScanner/internal/eventlog"
	"orcaScanner/internal/hedge"
	"orcaScanner/internal/ledger"
	"orcaScanner/internal/model"
	"orcaScanner/internal/outputs"
	"orcaScanner/internal/provider"
	"orcaScanner/internal/rangeplan"
	"orcaScanner/internal/ranking"
	"orcaScanner/internal/regime"
	"orcaScanner/internal/shortlist"
	"orcaScanner/internal/stability"
	"orcaScanner/internal/tokens"
)

// Config holds runtime settings for one cycle.
type Config struct {
	OutDir           string
	PriceDays        int
	LedgerWindowDays int
	Profile          alerts.Profile
	Components       config.Components
}

// Deps are the collaborators and stores a cycle reads and writes.
type Deps struct {
	Pools    provider.PoolSource
	Enricher provider.Enricher
	Funding  provider.FundingSource
	Prices   provider.PriceSeriesSource

	StabilityLog eventlog.Log[stability.Snapshot]
	LedgerLog    eventlog.Log[model.LedgerEntry]
	State        regime.StateStore

	Logger *zap.Logger
	Now    func() time.Time
	RunID  func() string
}

// Pipeline wires every stage of a cycle.
type Pipeline struct {
	cfg    Config
	deps   Deps
	dir    outputs.Dir
	logger *zap.Logger

	tracker   *stability.Tracker
	detector  *regime.Detector
	ranker    *ranking.Ranker
	engine    *shortlist.Engine
	ranges    *rangeplan.Planner
	hedges    *hedge.Planner
	allocator *allocation.Recommender
	monitor   *alerts.Monitor
	ledger    *ledger.Ledger
}

// New builds a Pipeline with its dependencies.
func New(cfg Config, deps Deps) (*Pipeline, error) {
	if cfg.OutDir == "" {
		return nil, fmt.Errorf("output dir is required")
	}
	if deps.Pools == nil {
		return nil, fmt.Errorf("pool source is nil")
	}
	if deps.Prices == nil {
		return nil, fmt.Errorf("price series source is nil")
	}
	if deps.StabilityLog == nil || deps.LedgerLog == nil {
		return nil, fmt.Errorf("event logs are required")
	}
	if deps.State == nil {
		return nil, fmt.Errorf("regime state store is nil")
	}
	if cfg.PriceDays <= 0 {
		cfg.PriceDays = 31
	}
	if cfg.LedgerWindowDays <= 0 {
		cfg.LedgerWindowDays = ledger.DefaultWindowDays
	}
	if cfg.Profile == (alerts.Profile{}) {
		cfg.Profile = alerts.DefaultProfile()
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.RunID == nil {
		deps.RunID = uuid.NewString
	}

	c := cfg.Components
	registry := tokens.NewRegistry(c.Tokens)
	return &Pipeline{
		cfg:       cfg,
		deps:      deps,
		dir:       outputs.Dir{Path: cfg.OutDir},
		logger:    logger,
		tracker:   stability.NewTracker(deps.StabilityLog, c.Stability, logger),
		detector:  regime.NewDetector(c.Regime, logger),
		ranker:    ranking.NewRanker(c.Ranking, registry, logger),
		engine:    shortlist.NewEngine(c.Shortlist, logger),
		ranges:    rangeplan.NewPlanner(c.Ranges),
		hedges:    hedge.NewPlanner(c.Hedge, registry, logger),
		allocator: allocation.NewRecommender(c.Allocation),
		monitor:   alerts.NewMonitor(c.Alerts, logger),
		ledger:    ledger.New(deps.LedgerLog, logger),
	}, nil
}

// Result is everything one cycle produced.
type Result struct {
	RunID      string
	State      model.RegimeState
	Ranked     ranking.Output
	Shortlist  model.Shortlist
	Plans      outputs.Plans
	Allocation model.Allocation
	Alerts     []model.Alert
	Entry      model.LedgerEntry
	Summary    model.PerformanceSummary
}

// collected is the output of the concurrent collaborator fan-out.
type collected struct {
	prices      []float64
	funding     *float64
	enrichments map[string]model.Enrichment
	notes       []string
}

// Run executes one cycle. Nothing is written unless every stage succeeds.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	now := p.deps.Now().UTC()
	runID := p.deps.RunID()
	logger := p.logger.With(zap.String("run_id", runID))

	pools, err := p.deps.Pools.ListPools(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list pools: %w", err)
	}
	logger.Info("pools fetched", zap.Int("pools", len(pools)))

	in, err := p.collect(ctx, pools)
	if err != nil {
		return Result{}, err
	}

	var solUSD *float64
	if last := in.prices[len(in.prices)-1]; last > 0 {
		solUSD = &last
	}

	snapshots := stability.SnapshotsFor(pools, now)
	metrics, err := p.tracker.Compute(ctx, snapshots, now)
	if err != nil {
		return Result{}, fmt.Errorf("compute stability: %w", err)
	}

	rankRes := p.ranker.Rank(ranking.Inputs{
		Pools:       pools,
		Enrichments: in.enrichments,
		Stability: func(address string) model.StabilityMetric {
			return p.tracker.Lookup(metrics, address)
		},
		SOLPriceUSD: solUSD,
	})

	previous, stateNote := p.previousState(ctx)
	state := p.detector.Detect(regime.Inputs{
		Prices:        in.prices,
		FundingAprPct: in.funding,
		Pools:         eligiblePools(rankRes.Classified),
		Previous:      previous,
		Now:           now,
	})
	state.Notes = append(state.Notes, in.notes...)
	if stateNote != "" {
		state.Notes = append(state.Notes, stateNote)
	}

	ranked := p.ranker.BuildOutput(rankRes, len(pools), state.Regime, now)
	sl := p.engine.Select(state.Regime, rankRes.Ranked)
	plans := p.plan(sl, state, now)
	alloc := p.allocator.Recommend(sl)

	fired := p.monitor.Evaluate(alerts.Inputs{
		State:        state,
		Previous:     previous,
		Shortlist:    sl,
		Plans:        plans.Plans,
		PreviousBase: p.previousBaseRanges(),
		Profile:      p.cfg.Profile,
	})

	res := Result{
		RunID:      runID,
		State:      state,
		Ranked:     ranked,
		Shortlist:  sl,
		Plans:      plans,
		Allocation: alloc,
		Alerts:     fired,
		Entry:      ledger.NewEntry(runID, now, state, sl, fired),
	}

	if err := p.commit(ctx, &res, snapshots); err != nil {
		return Result{}, err
	}

	logger.Info("cycle complete",
		zap.String("regime", string(state.Regime)),
		zap.Float64("score", state.Score),
		zap.Int("ranked", len(ranked.Pools)),
		zap.Int("shortlist", len(sl.Selected)),
		zap.Int("alerts", len(fired)),
	)
	return res, nil
}

// collect fans out the price series, funding and enrichment lookups. Only the
// price series is fatal.
func (p *Pipeline) collect(ctx context.Context, pools []model.Pool) (collected, error) {
	var (
		out         collected
		fundingNote string
		enrichNote  string
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		prices, err := p.deps.Prices.DailyPrices(gctx, p.cfg.PriceDays)
		if err != nil {
			return fmt.Errorf("fetch price series: %w", err)
		}
		if len(prices) == 0 {
			return fmt.Errorf("fetch price series: empty series")
		}
		out.prices = prices
		return nil
	})

	g.Go(func() error {
		if p.deps.Funding == nil {
			fundingNote = "funding source not configured"
			return nil
		}
		apr, err := p.deps.Funding.FundingAPR(gctx)
		if err != nil {
			p.logger.Warn("funding unavailable", zap.Error(err))
			fundingNote = "funding unavailable: " + err.Error()
			return nil
		}
		out.funding = &apr
		return nil
	})

	g.Go(func() error {
		out.enrichments = map[string]model.Enrichment{}
		if p.deps.Enricher == nil {
			enrichNote = "on-chain enrichment not configured"
			return nil
		}
		enrichments, err := p.deps.Enricher.Enrich(gctx, pools)
		if err != nil {
			p.logger.Warn("enrichment unavailable", zap.Error(err))
			enrichNote = "on-chain enrichment unavailable: " + err.Error()
			return nil
		}
		failed := 0
		for _, en := range enrichments {
			if !en.Validated {
				failed++
			}
		}
		if failed > 0 {
			p.logger.Warn("enrichment degraded", zap.Int("failed", failed), zap.Int("pools", len(enrichments)))
		}
		out.enrichments = enrichments
		return nil
	})

	if err := g.Wait(); err != nil {
		return collected{}, err
	}
	for _, note := range []string{fundingNote, enrichNote} {
		if note != "" {
			out.notes = append(out.notes, note)
		}
	}
	return out, nil
}

// previousState loads the last persisted regime. A failed load disables
// hysteresis for this cycle and is reported as a note.
func (p *Pipeline) previousState(ctx context.Context) (*model.RegimeState, string) {
	prev, ok, err := p.deps.State.Load(ctx)
	if err != nil {
		p.logger.Warn("previous regime state unreadable", zap.Error(err))
		return nil, "previous regime state unreadable: " + err.Error()
	}
	if !ok {
		return nil, ""
	}
	return &prev, ""
}

// previousBaseRanges reads the Base ranges of the last committed plans.
func (p *Pipeline) previousBaseRanges() map[string]model.RangePreset {
	var prev outputs.Plans
	if err := outputs.ReadJSON(p.dir.File(outputs.PlansFile), &prev); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("previous plans unreadable", zap.Error(err))
		}
		return nil
	}
	return prev.BaseRanges()
}

func (p *Pipeline) plan(sl model.Shortlist, state model.RegimeState, now time.Time) outputs.Plans {
	doc := outputs.Plans{GeneratedAt: now, Regime: state.Regime, Plans: []model.PoolPlan{}}
	if len(sl.Selected) == 0 {
		doc.Notes = append(doc.Notes, "empty shortlist: no plans")
		return doc
	}
	for _, item := range sl.Selected {
		vol, presets := p.ranges.Plan(item.Ranked, state)
		plan := model.PoolPlan{
			Pool:         item.Pool,
			TokenA:       item.Ranked.TokenA,
			TokenB:       item.Ranked.TokenB,
			SpotPrice:    item.Ranked.Price,
			AnnualVolPct: vol,
			Presets:      presets,
		}
		if base, ok := plan.Preset(model.PresetBase); ok {
			plan.Hedge = p.hedges.Plan(item.Ranked, base, state)
		}
		doc.Plans = append(doc.Plans, plan)
	}
	return doc
}

// commit stages every output document, appends the logs, saves the regime
// state and only then moves the documents into place. A failure before the
// final rename leaves the previous run's documents untouched.
func (p *Pipeline) commit(ctx context.Context, res *Result, snapshots []stability.Snapshot) error {
	docs := []struct {
		name string
		v    any
	}{
		{outputs.RegimeStateFile, res.State},
		{outputs.RankedPoolsFile, res.Ranked},
		{outputs.ShortlistFile, res.Shortlist},
		{outputs.PlansFile, res.Plans},
		{outputs.AllocationFile, res.Allocation},
		{outputs.AlertsFile, nonNilAlerts(res.Alerts)},
	}
	encoded := make(map[string][]byte, len(docs))
	for _, d := range docs {
		data, err := outputs.Encode(d.v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", d.name, err)
		}
		encoded[d.name] = data
	}

	var staged outputs.Staged
	defer staged.Discard()
	for _, d := range docs {
		if err := staged.Stage(p.dir.File(d.name), encoded[d.name]); err != nil {
			return err
		}
	}

	if err := p.tracker.Record(ctx, snapshots); err != nil {
		return fmt.Errorf("record stability snapshots: %w", err)
	}
	if err := p.ledger.Append(ctx, res.Entry); err != nil {
		return err
	}
	summary, err := p.ledger.Summarize(ctx, p.cfg.LedgerWindowDays)
	if err != nil {
		return err
	}
	if err := staged.StageJSON(p.dir.File(outputs.PerformanceSummaryFile), summary); err != nil {
		return err
	}
	if err := p.deps.State.Save(ctx, res.State); err != nil {
		return fmt.Errorf("save regime state: %w", err)
	}
	if err := staged.Commit(); err != nil {
		return err
	}
	res.Summary = summary
	return nil
}

// AssertOutputs fails when any required output file is missing. The error
// lists the missing paths sorted.
func AssertOutputs(dir string) error {
	missing := outputs.Dir{Path: dir}.Missing()
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing outputs:\n  %s", strings.Join(missing, "\n  "))
}

func eligiblePools(classified []model.RankedPool) []model.Pool {
	out := make([]model.Pool, 0, len(classified))
	for _, rp := range classified {
		if rp.Eligible {
			out = append(out, rp.Pool)
		}
	}
	return out
}

func nonNilAlerts(in []model.Alert) []model.Alert {
	if in == nil {
		return []model.Alert{}
	}
	return in
}
