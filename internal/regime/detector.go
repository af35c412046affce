// Package regime classifies the market into LOW, MODERATE or HIGH stress and
// keeps the label sticky across runs.
package regime

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"orcaScanner/internal/model"
)

const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendFlat    = "flat"
)

// Inputs carries everything one detection needs.
type Inputs struct {
	// Prices are daily closes of the risk asset, oldest first.
	Prices        []float64
	FundingAprPct *float64
	// Pools is the universe the turnover aggregate is computed over.
	Pools    []model.Pool
	Previous *model.RegimeState
	Now      time.Time
}

// Detector computes RegimeState values.
type Detector struct {
	cfg    Config
	logger *zap.Logger
}

func NewDetector(cfg Config, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{cfg: cfg, logger: logger}
}

// Detect builds the regime state for this run.
func (d *Detector) Detect(in Inputs) model.RegimeState {
	var notes []string
	metrics := model.RegimeMetrics{FundingAprPct: finitePtr(in.FundingAprPct)}

	returns := LogReturns(in.Prices)
	if v, ok := RealizedVol(returns, d.cfg.LongVolWindow); ok {
		metrics.Vol30dPct = &v
	} else {
		notes = append(notes, fmt.Sprintf("vol30d unavailable: %d returns, need %d", len(returns), d.cfg.LongVolWindow))
	}
	if v, ok := RealizedVol(returns, d.cfg.ShortVolWindow); ok {
		metrics.Vol7dPct = &v
	} else {
		notes = append(notes, fmt.Sprintf("vol7d unavailable: %d returns, need %d", len(returns), d.cfg.ShortVolWindow))
	}
	if metrics.Vol7dPct != nil && metrics.Vol30dPct != nil && *metrics.Vol30dPct > 0 {
		vr := *metrics.Vol7dPct / *metrics.Vol30dPct
		metrics.VolRatio = &vr
	}
	if n := len(in.Prices); n > 0 && in.Prices[n-1] > 0 {
		spot := in.Prices[n-1]
		metrics.SpotPriceUSD = &spot
	}
	if metrics.FundingAprPct == nil {
		notes = append(notes, "funding proxy unavailable")
	}

	turnover := AggregateTurnover(in.Pools)
	metrics.Turnover24h = turnover.Day
	metrics.Turnover7dAvg = turnover.WeekAvg
	metrics.Turnover30dAvg = turnover.MonthAvg
	if turnover.WeekAvg != nil && turnover.MonthAvg != nil && *turnover.MonthAvg > 0 {
		trend := *turnover.WeekAvg / *turnover.MonthAvg
		metrics.TurnoverTrend = &trend
	}
	metrics.TurnoverTrendKind = d.trendKind(metrics.TurnoverTrend)

	signals := model.RegimeSignals{
		Volatility:    normalize(volProxy(metrics), d.cfg.Calibration.VolPct),
		VolRatio:      normalize(metrics.VolRatio, d.cfg.Calibration.VolRatio),
		Funding:       normalize(metrics.FundingAprPct, d.cfg.Calibration.FundingAprPct),
		TurnoverTrend: normalize(metrics.TurnoverTrend, d.cfg.Calibration.TurnoverTrend),
	}
	w := d.cfg.Weights
	score := w.Volatility*signals.Volatility +
		w.VolRatio*signals.VolRatio +
		w.Funding*signals.Funding +
		w.TurnoverTrend*signals.TurnoverTrend

	proposed := d.proposed(score)
	final := proposed
	hyst := model.Hysteresis{}
	if prev := in.Previous; prev != nil && prev.Regime.Valid() {
		prevScore := prev.Score
		hyst.PreviousRegime = prev.Regime
		hyst.PreviousScore = &prevScore
		final = d.applyHysteresis(proposed, score, prev.Regime)
		hyst.Applied = final != proposed
		if hyst.Applied {
			notes = append(notes, fmt.Sprintf("hysteresis held %s (proposed %s, score %.3f)", final, proposed, score))
		}
	}

	computable := 0
	for _, p := range []*float64{metrics.Vol30dPct, metrics.Vol7dPct, metrics.FundingAprPct, metrics.Turnover7dAvg, metrics.Turnover30dAvg} {
		if p != nil {
			computable++
		}
	}
	confidence := math.Max(d.cfg.ConfidenceFloor, d.cfg.ConfidenceFloor+d.cfg.ConfidenceStep*float64(computable))
	confidence = math.Min(confidence, 1)

	state := model.RegimeState{
		Regime:         final,
		ProposedRegime: proposed,
		Confidence:     round(confidence, 4),
		Score:          round(score, 6),
		Metrics:        metrics,
		Signals:        signals,
		Hysteresis:     hyst,
		UpdatedAt:      in.Now.UTC(),
		Notes:          notes,
	}
	d.logger.Info("regime detected",
		zap.String("regime", string(final)),
		zap.String("proposed", string(proposed)),
		zap.Float64("score", state.Score),
		zap.Float64("confidence", state.Confidence),
		zap.Bool("hysteresis", hyst.Applied),
	)
	return state
}

func (d *Detector) proposed(score float64) model.Regime {
	switch {
	case score >= d.cfg.HighCutoff:
		return model.RegimeHigh
	case score <= d.cfg.LowCutoff:
		return model.RegimeLow
	default:
		return model.RegimeModerate
	}
}

// applyHysteresis keeps HIGH/LOW while the score stays within StickyMargin of
// the entry cutoff and only leaves MODERATE once the cutoff is cleared by FlipMargin.
func (d *Detector) applyHysteresis(proposed model.Regime, score float64, previous model.Regime) model.Regime {
	switch previous {
	case model.RegimeHigh:
		if score >= d.cfg.HighCutoff-d.cfg.StickyMargin {
			return model.RegimeHigh
		}
	case model.RegimeLow:
		if score <= d.cfg.LowCutoff+d.cfg.StickyMargin {
			return model.RegimeLow
		}
	case model.RegimeModerate:
		switch {
		case score > d.cfg.HighCutoff+d.cfg.FlipMargin:
			return model.RegimeHigh
		case score < d.cfg.LowCutoff-d.cfg.FlipMargin:
			return model.RegimeLow
		default:
			return model.RegimeModerate
		}
	}
	return proposed
}

func (d *Detector) trendKind(trend *float64) string {
	if trend == nil {
		return TrendFlat
	}
	switch {
	case *trend > d.cfg.TrendRisingAbove:
		return TrendRising
	case *trend < d.cfg.TrendFallingBelow:
		return TrendFalling
	default:
		return TrendFlat
	}
}

// volProxy prefers the long window and falls back to the short one.
func volProxy(m model.RegimeMetrics) *float64 {
	if m.Vol30dPct != nil {
		return m.Vol30dPct
	}
	return m.Vol7dPct
}

// normalize maps v into [0,1] against b. Missing values are neutral.
func normalize(v *float64, b Bounds) float64 {
	if v == nil || b.Max <= b.Min {
		return 0.5
	}
	n := (*v - b.Min) / (b.Max - b.Min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

func finitePtr(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	out := *v
	return &out
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
