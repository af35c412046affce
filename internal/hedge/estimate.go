package hedge

import (
	"errors"
	"fmt"
	"math"

	"orcaScanner/internal/clmm"
	"orcaScanner/internal/model"
)

var errPrecondition = errors.New("precise deposit ratio precondition missing")

// Estimate is a delta fraction tagged with the path that produced it.
// Provenance is set on the precise path, Reason on the fallback path.
type Estimate struct {
	DeltaFraction float64
	Source        model.DepositRatioSource
	Provenance    string
	Reason        string
}

func Precise(delta float64, provenance string) Estimate {
	return Estimate{DeltaFraction: delta, Source: model.DepositRatioPrecise, Provenance: provenance}
}

func Fallback(delta float64, reason string) Estimate {
	return Estimate{DeltaFraction: delta, Source: model.DepositRatioFallback, Reason: reason}
}

// Estimate computes the SOL-exposed USD share of a liquidity add over the base range.
func (p *Planner) Estimate(pool model.RankedPool, base model.RangePreset, solUSD *float64) Estimate {
	est, err := p.precise(pool, base, solUSD)
	if err == nil {
		return est
	}
	return p.fallback(pool.Type, base.HalfWidthPct, err.Error())
}

func (p *Planner) precise(pool model.RankedPool, base model.RangePreset, solUSD *float64) (Estimate, error) {
	if pool.TokenA.Decimals == nil || pool.TokenB.Decimals == nil {
		return Estimate{}, fmt.Errorf("%w: token decimals", errPrecondition)
	}
	if pool.TickSpacing <= 0 {
		return Estimate{}, fmt.Errorf("%w: tick spacing", errPrecondition)
	}
	sqrtCurrent, err := clmm.ParseU128(pool.SqrtPrice)
	if err != nil || sqrtCurrent.Sign() == 0 {
		return Estimate{}, fmt.Errorf("%w: sqrt price", errPrecondition)
	}
	priceA, priceB, err := p.tokens.USDPrices(pool.Pool, solUSD)
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: %v", errPrecondition, err)
	}
	liquidity, err := clmm.ParseU128(p.cfg.QuoteLiquidity)
	if err != nil || liquidity.Sign() == 0 {
		return Estimate{}, fmt.Errorf("%w: quote liquidity", errPrecondition)
	}

	decA, decB := *pool.TokenA.Decimals, *pool.TokenB.Decimals
	lowerTick, err := clmm.PriceToTick(base.Lower, decA, decB)
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: lower tick: %v", errPrecondition, err)
	}
	upperTick, err := clmm.PriceToTick(base.Upper, decA, decB)
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: upper tick: %v", errPrecondition, err)
	}
	lowerTick, _ = clmm.AlignTick(lowerTick, pool.TickSpacing, false)
	upperTick, _ = clmm.AlignTick(upperTick, pool.TickSpacing, true)
	if lowerTick >= upperTick {
		return Estimate{}, fmt.Errorf("%w: empty tick range", errPrecondition)
	}

	amountA, amountB := clmm.AmountsForLiquidity(
		liquidity,
		sqrtCurrent,
		clmm.TickToSqrtPriceX64(lowerTick),
		clmm.TickToSqrtPriceX64(upperTick),
	)
	usdA := clmm.ToUnits(amountA, decA) * priceA
	usdB := clmm.ToUnits(amountB, decB) * priceB
	total := usdA + usdB
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return Estimate{}, fmt.Errorf("%w: zero quote value", errPrecondition)
	}

	var exposed float64
	if p.tokens.SOLExposed(pool.TokenA.Symbol) {
		exposed += usdA
	}
	if p.tokens.SOLExposed(pool.TokenB.Symbol) {
		exposed += usdB
	}
	provenance := fmt.Sprintf("tick_math ticks=[%d,%d] spacing=%d", lowerTick, upperTick, pool.TickSpacing)
	return Precise(exposed/total, provenance), nil
}

// fallback uses a per-type delta. Stable-anchored pairs lean further into the
// risk asset as the range widens.
func (p *Planner) fallback(t model.PoolType, halfWidthPct float64, reason string) Estimate {
	if !t.StableAnchored() {
		return Fallback(p.cfg.FallbackLSTDelta, reason)
	}
	adj := p.cfg.WidthAdjustPerPct * (halfWidthPct - p.cfg.WidthReferencePct)
	adj = math.Max(-p.cfg.WidthAdjustMax, math.Min(p.cfg.WidthAdjustMax, adj))
	return Fallback(p.cfg.FallbackStableDelta+adj, reason)
}
