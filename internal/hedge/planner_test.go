package hedge

import (
	"math"
	"strings"
	"testing"

	"orcaScanner/internal/clmm"
	"orcaScanner/internal/model"
	"orcaScanner/internal/tokens"
)

func solUSDCPool(t *testing.T) model.RankedPool {
	t.Helper()
	tick, err := clmm.PriceToTick(150, 9, 6)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	return model.RankedPool{
		Pool: model.Pool{
			Address:     "pool1",
			TokenA:      model.Token{Symbol: "SOL", Decimals: model.Uint8(9)},
			TokenB:      model.Token{Symbol: "USDC", Decimals: model.Uint8(6)},
			TickSpacing: 64,
			SqrtPrice:   clmm.TickToSqrtPriceX64(tick).String(),
			Price:       150,
		},
		Type: model.PoolTypeSOLStable,
	}
}

func basePreset(spot, h float64) model.RangePreset {
	return model.RangePreset{Name: model.PresetBase, HalfWidthPct: h, Lower: spot * (1 - h/100), Upper: spot * (1 + h/100)}
}

func newPlanner(cfg Config) *Planner {
	return NewPlanner(cfg, tokens.NewRegistry(tokens.DefaultConfig()), nil)
}

func TestEstimatePrecise(t *testing.T) {
	p := newPlanner(DefaultConfig())
	sol := 150.0
	est := p.Estimate(solUSDCPool(t), basePreset(150, 10), &sol)
	if est.Source != model.DepositRatioPrecise {
		t.Fatalf("source = %s, reason %q", est.Source, est.Reason)
	}
	if est.DeltaFraction < 0.4 || est.DeltaFraction > 0.6 {
		t.Fatalf("delta = %f", est.DeltaFraction)
	}
	if !strings.HasPrefix(est.Provenance, "tick_math") {
		t.Fatalf("provenance = %q", est.Provenance)
	}
}

func TestEstimateFallbackWithoutDecimals(t *testing.T) {
	p := newPlanner(DefaultConfig())
	pool := solUSDCPool(t)
	pool.TokenA.Decimals = nil
	sol := 150.0

	est := p.Estimate(pool, basePreset(150, 10), &sol)
	if est.Source != model.DepositRatioFallback || est.DeltaFraction != 0.5 {
		t.Fatalf("estimate = %+v", est)
	}
	if !strings.Contains(est.Reason, "token decimals") {
		t.Fatalf("reason = %q", est.Reason)
	}

	wide := p.Estimate(pool, basePreset(150, 20), &sol)
	if math.Abs(wide.DeltaFraction-0.54) > 1e-9 {
		t.Fatalf("width adjusted delta = %f", wide.DeltaFraction)
	}
}

func TestEstimateFallbackWithoutSOLPrice(t *testing.T) {
	p := newPlanner(DefaultConfig())
	pool := model.RankedPool{
		Pool: model.Pool{
			TokenA:      model.Token{Symbol: "mSOL", Decimals: model.Uint8(9)},
			TokenB:      model.Token{Symbol: "JitoSOL", Decimals: model.Uint8(9)},
			TickSpacing: 1,
			SqrtPrice:   clmm.TickToSqrtPriceX64(0).String(),
			Price:       1,
		},
		Type: model.PoolTypeLSTLST,
	}
	est := p.Estimate(pool, basePreset(1, 2), nil)
	if est.Source != model.DepositRatioFallback || est.DeltaFraction != 1 {
		t.Fatalf("estimate = %+v", est)
	}
}

func TestPlanSizing(t *testing.T) {
	p := newPlanner(DefaultConfig())
	pool := solUSDCPool(t)
	pool.TokenA.Decimals = nil // force the 0.5 heuristic
	sol := 150.0
	funding := 25.0
	state := model.RegimeState{
		Regime:  model.RegimeModerate,
		Metrics: model.RegimeMetrics{SpotPriceUSD: &sol, FundingAprPct: &funding},
	}

	plan := p.Plan(pool, basePreset(150, 10), state)
	if !plan.Enabled || plan.Side != model.HedgeShortSOL {
		t.Fatalf("plan disabled: %+v", plan)
	}
	if plan.FundingPenalty != 0.9 || plan.RegimeMultiplier != 0.95 {
		t.Fatalf("multipliers = %+v", plan)
	}
	if plan.ShortUSDPer10k != 4275 {
		t.Fatalf("short usd = %f, want 4275", plan.ShortUSDPer10k)
	}
	if plan.ShortSOLPer10k == nil || *plan.ShortSOLPer10k != 28.5 {
		t.Fatalf("short sol = %v, want 28.5", plan.ShortSOLPer10k)
	}
	if plan.DepositRatioSource != model.DepositRatioFallback || plan.Note == "" {
		t.Fatalf("fallback not tagged: %+v", plan)
	}
}

func TestPlanDisabledBelowThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FallbackStableDelta = 0.05
	cfg.WidthAdjustPerPct = 0
	p := newPlanner(cfg)
	pool := solUSDCPool(t)
	pool.TokenA.Decimals = nil

	plan := p.Plan(pool, basePreset(150, 10), model.RegimeState{Regime: model.RegimeLow})
	if plan.Enabled || plan.Side != model.HedgeNone || plan.ShortUSDPer10k != 0 {
		t.Fatalf("plan should be disabled: %+v", plan)
	}
	if plan.ShortSOLPer10k == nil || *plan.ShortSOLPer10k != 0 {
		t.Fatalf("short sol = %v", plan.ShortSOLPer10k)
	}
}
