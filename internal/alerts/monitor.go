// Package alerts evaluates threshold breaches for the current run.
package alerts

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"orcaScanner/internal/model"
)

// Inputs is everything one evaluation reads. PreviousBase maps pool address to
// the Base range planned by the previous run.
type Inputs struct {
	State        model.RegimeState
	Previous     *model.RegimeState
	Shortlist    model.Shortlist
	Plans        []model.PoolPlan
	PreviousBase map[string]model.RangePreset
	Profile      Profile
}

// Monitor is stateless between runs.
type Monitor struct {
	cfg    Config
	logger *zap.Logger
}

func NewMonitor(cfg Config, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{cfg: cfg, logger: logger}
}

// Evaluate returns alerts in a stable order: market-wide first, then per pool by slot.
func (m *Monitor) Evaluate(in Inputs) []model.Alert {
	out := []model.Alert{}

	if f := in.State.Metrics.FundingAprPct; f != nil {
		if sev, threshold, ok := above(*f, m.cfg.FundingWarnPct, m.cfg.FundingCriticalPct); ok {
			out = append(out, model.Alert{
				Severity: sev,
				Kind:     model.AlertFundingSpike,
				Message:  fmt.Sprintf("funding proxy %.2f%% APR at or above %.2f%%", *f, threshold),
				Metric:   model.AlertMetric{Name: "fundingAprPct", Value: *f, Threshold: threshold},
			})
		}
	}

	if prev := in.Previous; prev != nil && prev.Regime.Valid() && prev.Regime != in.State.Regime {
		out = append(out, model.Alert{
			Severity: model.SeverityInfo,
			Kind:     model.AlertRegimeChange,
			Message:  fmt.Sprintf("regime changed from %s to %s", prev.Regime, in.State.Regime),
			Metric:   model.AlertMetric{Name: "regimeScore", Value: in.State.Score, Threshold: prev.Score},
		})
	}

	plans := make(map[string]model.PoolPlan, len(in.Plans))
	for _, plan := range in.Plans {
		plans[plan.Pool.Address] = plan
	}

	for _, item := range in.Shortlist.Selected {
		pool := item.Pool
		rp := item.Ranked

		if rp.TVLUSD > 0 {
			turnover := rp.Stats24h.VolumeUSD / rp.TVLUSD
			if sev, threshold, ok := below(turnover, m.cfg.TurnoverWarn, m.cfg.TurnoverCritical); ok {
				out = append(out, poolAlert(pool, sev, model.AlertTurnoverCollapse,
					fmt.Sprintf("24h turnover %.2f%% below %.2f%%", turnover*100, threshold*100),
					model.AlertMetric{Name: "volumeTvl24h", Value: turnover, Threshold: threshold}))
			}
		}
		if sev, threshold, ok := below(rp.TVLUSD, m.cfg.TVLWarn, m.cfg.TVLCritical); ok {
			out = append(out, poolAlert(pool, sev, model.AlertTVLFlight,
				fmt.Sprintf("TVL $%.0f below $%.0f", rp.TVLUSD, threshold),
				model.AlertMetric{Name: "tvlUsd", Value: rp.TVLUSD, Threshold: threshold}))
		}
		if sev, threshold, ok := below(rp.Depth.Ratio1Pct, m.cfg.DepthWarn, m.cfg.DepthCritical); ok {
			out = append(out, poolAlert(pool, sev, model.AlertDepthCollapse,
				fmt.Sprintf("±1%% depth %.2f%% of TVL below %.2f%%", rp.Depth.Ratio1Pct*100, threshold*100),
				model.AlertMetric{Name: "depthRatio1Pct", Value: rp.Depth.Ratio1Pct, Threshold: threshold}))
		}

		base, source, ok := m.baseRange(pool.Address, plans, in.PreviousBase)
		if !ok {
			continue
		}
		dist, ok := EdgeDistancePct(rp.Price, base)
		if !ok {
			continue
		}
		if sev, threshold, ok := below(dist, in.Profile.WarnEdgePct, in.Profile.ActEdgePct); ok {
			out = append(out, poolAlert(pool, sev, model.AlertRangeEdgeProximity,
				fmt.Sprintf("spot %.6g is %.2f%% from the %s Base range edge (profile %s)", rp.Price, dist, source, in.Profile.Name),
				model.AlertMetric{Name: "edgeDistancePct", Value: dist, Threshold: threshold}))
		}
	}

	m.logger.Info("alerts evaluated", zap.Int("alerts", len(out)))
	return out
}

func (m *Monitor) baseRange(address string, plans map[string]model.PoolPlan, previous map[string]model.RangePreset) (model.RangePreset, string, bool) {
	if base, ok := previous[address]; ok && base.Upper > base.Lower {
		return base, "previous", true
	}
	if plan, ok := plans[address]; ok {
		if base, ok := plan.Preset(model.PresetBase); ok {
			return base, "planned", true
		}
	}
	return model.RangePreset{}, "", false
}

// EdgeDistancePct is the distance from spot to the nearest range edge as a
// percent of spot. It is negative when spot is outside the range.
func EdgeDistancePct(spot float64, r model.RangePreset) (float64, bool) {
	if spot <= 0 || math.IsNaN(spot) || math.IsInf(spot, 0) {
		return 0, false
	}
	d := math.Min(spot-r.Lower, r.Upper-spot)
	return d / spot * 100, true
}

func poolAlert(pool model.PoolRef, sev model.Severity, kind model.AlertKind, msg string, metric model.AlertMetric) model.Alert {
	ref := pool
	return model.Alert{Severity: sev, Kind: kind, Pool: &ref, Message: msg, Metric: metric}
}

// above fires when v reaches warn, escalating at critical.
func above(v, warn, critical float64) (model.Severity, float64, bool) {
	switch {
	case v >= critical:
		return model.SeverityCritical, critical, true
	case v >= warn:
		return model.SeverityWarn, warn, true
	default:
		return "", 0, false
	}
}

// below fires when v drops under warn, escalating under critical.
func below(v, warn, critical float64) (model.Severity, float64, bool) {
	switch {
	case v < critical:
		return model.SeverityCritical, critical, true
	case v < warn:
		return model.SeverityWarn, warn, true
	default:
		return "", 0, false
	}
}
