package ranking

import (
	"fmt"
	"math/big"

	"orcaScanner/internal/clmm"
	"orcaScanner/internal/model"
)

const ProvenanceNoTickArrays = "heuristic_no_tick_arrays"

// estimateDepth prices the USD absorbed by ±1% and ±2% moves from the active
// liquidity, assuming no initialized tick is crossed. When that is not possible
// it falls back to a per-type fraction of TVL.
func (r *Ranker) estimateDepth(pool model.Pool, poolType model.PoolType, enrichment *model.Enrichment, solUSD *float64) model.Depth {
	liquidity, sqrtPrice := pool.Liquidity, pool.SqrtPrice
	if enrichment != nil && enrichment.Validated && enrichment.Liquidity != "" && enrichment.SqrtPrice != "" {
		liquidity, sqrtPrice = enrichment.Liquidity, enrichment.SqrtPrice
	}

	depth, err := r.liquidityDepth(pool, liquidity, sqrtPrice, solUSD)
	if err == nil {
		return depth
	}
	return r.fallbackDepth(pool, poolType, err.Error())
}

func (r *Ranker) liquidityDepth(pool model.Pool, liquidityRaw, sqrtRaw string, solUSD *float64) (model.Depth, error) {
	if pool.TVLUSD <= 0 {
		return model.Depth{}, fmt.Errorf("non-positive tvl")
	}
	if pool.TokenA.Decimals == nil || pool.TokenB.Decimals == nil {
		return model.Depth{}, fmt.Errorf("missing token decimals")
	}
	liquidity, err := clmm.ParseU128(liquidityRaw)
	if err != nil {
		return model.Depth{}, fmt.Errorf("liquidity: %v", err)
	}
	sqrtPrice, err := clmm.ParseU128(sqrtRaw)
	if err != nil {
		return model.Depth{}, fmt.Errorf("sqrt price: %v", err)
	}
	if liquidity.Sign() == 0 || sqrtPrice.Sign() == 0 {
		return model.Depth{}, fmt.Errorf("no active liquidity")
	}
	priceA, priceB, err := r.tokens.USDPrices(pool, solUSD)
	if err != nil {
		return model.Depth{}, err
	}

	side := func(pct float64) (float64, float64) {
		down, up := clmm.MoveDepth(liquidity, sqrtPrice, pct)
		minus := usd(down, *pool.TokenA.Decimals, priceA, pool.TVLUSD)
		plus := usd(up, *pool.TokenB.Decimals, priceB, pool.TVLUSD)
		return plus, minus
	}
	plus1, minus1 := side(0.01)
	plus2, minus2 := side(0.02)

	return model.Depth{
		Plus1PctUSD:  plus1,
		Minus1PctUSD: minus1,
		Plus2PctUSD:  plus2,
		Minus2PctUSD: minus2,
		Ratio1Pct:    minFloat(plus1, minus1) / pool.TVLUSD,
		Provenance:   ProvenanceNoTickArrays,
	}, nil
}

func (r *Ranker) fallbackDepth(pool model.Pool, poolType model.PoolType, reason string) model.Depth {
	fraction := r.cfg.depthFraction(poolType)
	tvl := pool.TVLUSD
	if tvl < 0 {
		tvl = 0
	}
	one := tvl * fraction
	two := tvl * fraction * 2
	return model.Depth{
		Plus1PctUSD:  one,
		Minus1PctUSD: one,
		Plus2PctUSD:  two,
		Minus2PctUSD: two,
		Ratio1Pct:    fraction,
		Provenance:   "fallback heuristic used: " + reason,
	}
}

// usd converts a raw amount to USD, capped at the pool TVL.
func usd(amount *big.Int, decimals uint8, price, tvl float64) float64 {
	v := clmm.ToUnits(amount, decimals) * price
	if v > tvl {
		return tvl
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
