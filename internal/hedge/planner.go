// Package hedge sizes a short against the risk-asset exposure of a planned position.
package hedge

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"orcaScanner/internal/model"
	"orcaScanner/internal/tokens"
)

// Planner builds hedge plans.
type Planner struct {
	cfg    Config
	tokens *tokens.Registry
	logger *zap.Logger
}

func NewPlanner(cfg Config, registry *tokens.Registry, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{cfg: cfg, tokens: registry, logger: logger}
}

// Plan sizes the hedge for pool given its base range and the regime state.
func (p *Planner) Plan(pool model.RankedPool, base model.RangePreset, state model.RegimeState) model.HedgePlan {
	solUSD := state.Metrics.SpotPriceUSD
	est := p.Estimate(pool, base, solUSD)
	if est.Source == model.DepositRatioFallback {
		p.logger.Warn("hedge ratio fallback",
			zap.String("pool", pool.Address),
			zap.String("reason", est.Reason),
		)
	}

	plan := model.HedgePlan{
		Side:               model.HedgeNone,
		DeltaFraction:      decimal.NewFromFloat(est.DeltaFraction).Round(4).InexactFloat64(),
		RegimeMultiplier:   p.regimeMultiplier(state.Regime),
		FundingPenalty:     1,
		DepositRatioSource: est.Source,
		Provenance:         est.Provenance,
	}
	if est.Source == model.DepositRatioFallback {
		plan.Note = "fallback heuristic used: " + est.Reason
	}
	if f := state.Metrics.FundingAprPct; f != nil && *f > p.cfg.FundingPenaltyAbove {
		plan.FundingPenalty = p.cfg.FundingPenalty
	}

	zero := 0.0
	if est.DeltaFraction < p.cfg.MinDeltaFraction {
		plan.ShortSOLPer10k = &zero
		if plan.Note == "" {
			plan.Note = "delta below hedge threshold"
		}
		return plan
	}

	size := decimal.NewFromFloat(est.DeltaFraction).
		Mul(decimal.NewFromFloat(plan.RegimeMultiplier)).
		Mul(decimal.NewFromFloat(plan.FundingPenalty)).
		Mul(decimal.NewFromFloat(p.cfg.NotionalUSD))
	plan.Enabled = true
	plan.Side = model.HedgeShortSOL
	plan.ShortUSDPer10k = size.Round(2).InexactFloat64()
	if solUSD != nil && *solUSD > 0 {
		sol := size.Div(decimal.NewFromFloat(*solUSD)).Round(4).InexactFloat64()
		plan.ShortSOLPer10k = &sol
	}
	return plan
}

func (p *Planner) regimeMultiplier(r model.Regime) float64 {
	switch r {
	case model.RegimeLow:
		return p.cfg.Regime.Low
	case model.RegimeHigh:
		return p.cfg.Regime.High
	default:
		return p.cfg.Regime.Moderate
	}
}
