// Package shortlist picks at most two pools to deploy into, following
// regime-dependent pair preferences behind hard guardrails.
package shortlist

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"orcaScanner/internal/model"
)

// Guardrail rejection codes.
const (
	ReasonTVLGuardrail    = "tvl_below_guardrail"
	ReasonVolumeGuardrail = "volume_below_guardrail"
	ReasonDepthGuardrail  = "depth_ratio_below_guardrail"
)

// Selection reason codes.
const (
	ReasonRegimeLow            = "regime_low"
	ReasonRegimeModerate       = "regime_moderate"
	ReasonRegimeHigh           = "regime_high"
	ReasonCarryPreference      = "carry_preference"
	ReasonStableAnchor         = "stable_anchor"
	ReasonCarryLeg             = "carry_leg"
	ReasonDefensiveStable      = "defensive_stable"
	ReasonDefensiveSecond      = "defensive_second_stable"
	ReasonExceptionalSOLStable = "exceptional_sol_stable"
	ReasonBestComposite        = "best_composite_in_bucket"
	ReasonFallbackAnyType      = "fallback_any_type"
)

type candidate struct {
	pool      model.RankedPool
	composite float64
}

// rule fills one slot. A nil filter accepts every pool of the listed types.
type rule struct {
	slot    int
	types   []model.PoolType
	filter  func(model.RankedPool) bool
	reasons []string
	// optional rules leave their slot empty instead of falling back.
	optional bool
}

// Engine selects the shortlist.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Guardrails returns the ordered rejection codes for pool. Empty means it passed.
func (e *Engine) Guardrails(pool model.RankedPool) []string {
	var reasons []string
	if pool.TVLUSD < e.cfg.MinTVL {
		reasons = append(reasons, ReasonTVLGuardrail)
	}
	if pool.Stats24h.VolumeUSD < e.cfg.MinVolume24h {
		reasons = append(reasons, ReasonVolumeGuardrail)
	}
	if pool.Depth.Ratio1Pct < e.cfg.MinDepthRatio {
		reasons = append(reasons, ReasonDepthGuardrail)
	}
	return reasons
}

// Composite is the selection key for pool under regime.
func (e *Engine) Composite(pool model.RankedPool, regime model.Regime) float64 {
	w := e.cfg.Weights
	depthWeight := w.Depth
	if regime == model.RegimeHigh {
		depthWeight = w.HighDepth
	}
	fee := ratioCap(pool.FeeAprPct, e.cfg.FeeAprScalePct)
	depth := ratioCap(pool.Depth.Ratio1Pct, e.cfg.DepthRatioScale)
	return w.Score*pool.Score/100 + w.FeeApr*fee + depthWeight*depth
}

// Exceptional reports whether a SOL-STABLE pool clears the LOW slot 2 bar.
func (e *Engine) Exceptional(pool model.RankedPool) bool {
	bar := e.cfg.Exceptional
	return pool.Type == model.PoolTypeSOLStable &&
		pool.Depth.Ratio1Pct >= bar.MinDepthRatio &&
		pool.FeeAprPct >= bar.MinFeeAprPct &&
		pool.Score >= bar.MinScore
}

// Select builds the shortlist from the ranked universe.
func (e *Engine) Select(regime model.Regime, ranked []model.RankedPool) model.Shortlist {
	out := model.Shortlist{
		Regime:   regime,
		MaxPools: model.MaxShortlistPools,
		Selected: []model.ShortlistItem{},
	}

	var survivors []candidate
	for _, pool := range ranked {
		if !pool.Type.Visible() {
			continue
		}
		if reasons := e.Guardrails(pool); len(reasons) > 0 {
			out.Rejected = append(out.Rejected, model.Rejection{Pool: pool.Ref(), Reasons: reasons})
			continue
		}
		survivors = append(survivors, candidate{pool: pool, composite: e.Composite(pool, regime)})
	}
	sort.SliceStable(survivors, func(i, j int) bool {
		a, b := survivors[i], survivors[j]
		if a.composite != b.composite {
			return a.composite > b.composite
		}
		if a.pool.Score != b.pool.Score {
			return a.pool.Score > b.pool.Score
		}
		return a.pool.Address < b.pool.Address
	})
	out.Candidates = len(survivors)

	if len(survivors) == 0 {
		out.Notes = append(out.Notes, "no pool passed the guardrails")
		e.logger.Info("shortlist empty", zap.String("regime", string(regime)), zap.Int("rejected", len(out.Rejected)))
		return out
	}

	used := make(map[string]bool)
	var gaps []int
	for _, r := range e.rules(regime) {
		c, ok := pick(survivors, used, r)
		if !ok {
			if r.optional {
				out.Notes = append(out.Notes, fmt.Sprintf("slot %d left empty: no pool met the %s bar", r.slot, ReasonExceptionalSOLStable))
				continue
			}
			gaps = append(gaps, r.slot)
			continue
		}
		used[c.pool.Address] = true
		reasons := append([]string{}, r.reasons...)
		reasons = append(reasons, ReasonBestComposite)
		out.Selected = append(out.Selected, item(r.slot, c, reasons))
	}

	for _, slot := range gaps {
		c, ok := pick(survivors, used, rule{slot: slot})
		if !ok {
			out.Notes = append(out.Notes, fmt.Sprintf("slot %d left empty: no unused guardrail survivor", slot))
			continue
		}
		used[c.pool.Address] = true
		out.Selected = append(out.Selected, item(slot, c, []string{regimeReason(regime), ReasonFallbackAnyType}))
	}

	sort.Slice(out.Selected, func(i, j int) bool { return out.Selected[i].Slot < out.Selected[j].Slot })
	if len(out.Selected) > out.MaxPools {
		out.Selected = out.Selected[:out.MaxPools]
	}

	e.logger.Info("shortlist selected",
		zap.String("regime", string(regime)),
		zap.Int("candidates", out.Candidates),
		zap.Int("selected", len(out.Selected)),
		zap.Int("rejected", len(out.Rejected)),
	)
	return out
}

func (e *Engine) rules(regime model.Regime) []rule {
	carry := []model.PoolType{model.PoolTypeSOLLST, model.PoolTypeLSTStable}
	stable := []model.PoolType{model.PoolTypeSOLStable}

	switch regime {
	case model.RegimeLow:
		return []rule{
			{slot: 1, types: carry, reasons: []string{ReasonRegimeLow, ReasonCarryPreference}},
			{slot: 2, types: stable, filter: e.Exceptional, reasons: []string{ReasonRegimeLow, ReasonExceptionalSOLStable}, optional: true},
		}
	case model.RegimeHigh:
		return []rule{
			{slot: 1, types: stable, reasons: []string{ReasonRegimeHigh, ReasonDefensiveStable}},
			{slot: 2, types: stable, reasons: []string{ReasonRegimeHigh, ReasonDefensiveSecond}},
		}
	default:
		return []rule{
			{slot: 1, types: stable, reasons: []string{ReasonRegimeModerate, ReasonStableAnchor}},
			{slot: 2, types: carry, reasons: []string{ReasonRegimeModerate, ReasonCarryLeg}},
		}
	}
}

// pick returns the best unused survivor allowed by r. survivors is in composite order.
func pick(survivors []candidate, used map[string]bool, r rule) (candidate, bool) {
	for _, c := range survivors {
		if used[c.pool.Address] {
			continue
		}
		if len(r.types) > 0 && !hasType(r.types, c.pool.Type) {
			continue
		}
		if r.filter != nil && !r.filter(c.pool) {
			continue
		}
		return c, true
	}
	return candidate{}, false
}

func item(slot int, c candidate, reasons []string) model.ShortlistItem {
	return model.ShortlistItem{
		Slot:      slot,
		Pool:      c.pool.Ref(),
		Composite: math.Round(c.composite*1e6) / 1e6,
		Reasons:   reasons,
		Ranked:    c.pool,
	}
}

func hasType(types []model.PoolType, t model.PoolType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func regimeReason(regime model.Regime) string {
	switch regime {
	case model.RegimeLow:
		return ReasonRegimeLow
	case model.RegimeHigh:
		return ReasonRegimeHigh
	default:
		return ReasonRegimeModerate
	}
}

func ratioCap(v, scale float64) float64 {
	if scale <= 0 || v <= 0 || math.IsNaN(v) {
		return 0
	}
	return math.Min(v/scale, 1)
}

// HasReason reports whether item carries code.
func HasReason(item model.ShortlistItem, code string) bool {
	for _, r := range item.Reasons {
		if r == code {
			return true
		}
	}
	return false
}
