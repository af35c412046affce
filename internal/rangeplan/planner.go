// Package rangeplan sizes liquidity ranges around spot from a volatility proxy.
package rangeplan

import (
	"math"

	"orcaScanner/internal/model"
)

var weeksPerYear = math.Sqrt(52)

// Planner builds range presets.
type Planner struct {
	cfg Config
}

func NewPlanner(cfg Config) *Planner {
	return &Planner{cfg: cfg}
}

// VolProxy picks the regime volatility used for ranges: 7d, then 30d, then the default.
func (p *Planner) VolProxy(metrics model.RegimeMetrics) float64 {
	if v := metrics.Vol7dPct; v != nil && *v > 0 {
		return *v
	}
	if v := metrics.Vol30dPct; v != nil && *v > 0 {
		return *v
	}
	return p.cfg.DefaultVolPct
}

// AnnualVol converts the regime proxy into a pair-specific annual volatility.
func (p *Planner) AnnualVol(t model.PoolType, proxy float64) float64 {
	prof := p.cfg.profile(t)
	return clamp(proxy*prof.VolFactor, prof.MinVolPct, prof.MaxVolPct)
}

// Presets returns Conservative, Base and Aggressive ranges around spot.
func (p *Planner) Presets(t model.PoolType, regime model.Regime, annualVol, spot float64) []model.RangePreset {
	prof := p.cfg.profile(t)
	sigma := annualVol / weeksPerYear
	rm := p.cfg.regimeMultiplier(regime)

	build := func(name model.PresetName, mult float64) model.RangePreset {
		h := clamp(sigma*mult*rm, p.cfg.MinHalfWidthPct, p.cfg.MaxHalfWidthPct)
		if name == model.PresetBase && t.StableAnchored() {
			floor := p.cfg.StableBaseFloorPct
			if regime == model.RegimeLow {
				floor = p.cfg.StableBaseFloorLowPct
			}
			h = clamp(h, floor, p.cfg.StableBaseCeilingPct)
		}
		h = round(h, 4)
		return model.RangePreset{
			Name:         name,
			HalfWidthPct: h,
			Lower:        spot * (1 - h/100),
			Upper:        spot * (1 + h/100),
		}
	}

	return []model.RangePreset{
		build(model.PresetConservative, prof.Multipliers.Conservative),
		build(model.PresetBase, prof.Multipliers.Base),
		build(model.PresetAggressive, prof.Multipliers.Aggressive),
	}
}

// Plan returns the annual volatility and presets for a shortlisted pool.
func (p *Planner) Plan(pool model.RankedPool, state model.RegimeState) (float64, []model.RangePreset) {
	vol := p.AnnualVol(pool.Type, p.VolProxy(state.Metrics))
	return vol, p.Presets(pool.Type, state.Regime, vol, pool.Price)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

func round(v float64, places int) float64 {
	pow := math.Pow10(places)
	return math.Round(v*pow) / pow
}
