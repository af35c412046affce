package tokens

import (
	"errors"
	"math"

	"orcaScanner/internal/model"
)

var ErrNoPriceMapping = errors.New("no usd price mapping")

// USDPrices returns USD prices for both sides of pool. Stables are 1 and the
// risk asset is solUSD. A side with no direct price is cross-derived from the
// pool spot price (tokenB per tokenA).
func (r *Registry) USDPrices(pool model.Pool, solUSD *float64) (float64, float64, error) {
	priceA, okA := r.direct(pool.TokenA.Symbol, solUSD)
	priceB, okB := r.direct(pool.TokenB.Symbol, solUSD)
	spot := pool.Price
	spotOK := spot > 0 && !math.IsInf(spot, 0) && !math.IsNaN(spot)

	switch {
	case okA && okB:
		return priceA, priceB, nil
	case okA && spotOK:
		return priceA, priceA / spot, nil
	case okB && spotOK:
		return priceB * spot, priceB, nil
	default:
		return 0, 0, ErrNoPriceMapping
	}
}

func (r *Registry) direct(symbol string, solUSD *float64) (float64, bool) {
	switch r.Kind(symbol) {
	case KindStable:
		return 1, true
	case KindRisk:
		if solUSD != nil && *solUSD > 0 {
			return *solUSD, true
		}
	}
	return 0, false
}
