package clmm

import (
	"math/big"

	gethmath "github.com/ethereum/go-ethereum/common/math"
)

// AmountsForLiquidity returns the token amounts backing liquidity between
// sqrtLower and sqrtUpper at the current sqrt price. Amounts round down.
func AmountsForLiquidity(liquidity, sqrtCurrent, sqrtLower, sqrtUpper *big.Int) (*big.Int, *big.Int) {
	amountA := big.NewInt(0)
	amountB := big.NewInt(0)
	if liquidity == nil || sqrtCurrent == nil || sqrtLower == nil || sqrtUpper == nil {
		return amountA, amountB
	}
	if sqrtLower.Cmp(sqrtUpper) > 0 {
		sqrtLower, sqrtUpper = sqrtUpper, sqrtLower
	}
	if sqrtLower.Sign() <= 0 {
		return amountA, amountB
	}

	switch {
	case sqrtCurrent.Cmp(sqrtLower) <= 0:
		amountA = amountADelta(liquidity, sqrtLower, sqrtUpper)
	case sqrtCurrent.Cmp(sqrtUpper) >= 0:
		amountB = amountBDelta(liquidity, sqrtLower, sqrtUpper)
	default:
		amountA = amountADelta(liquidity, sqrtCurrent, sqrtUpper)
		amountB = amountBDelta(liquidity, sqrtLower, sqrtCurrent)
	}
	return amountA, amountB
}

// amountADelta = L * (upper - lower) * 2^64 / (upper * lower)
func amountADelta(liquidity, sqrtLower, sqrtUpper *big.Int) *big.Int {
	num := new(big.Int).Sub(sqrtUpper, sqrtLower)
	num.Mul(num, liquidity)
	num.Lsh(num, 64)
	den := new(big.Int).Mul(sqrtUpper, sqrtLower)
	if den.Sign() == 0 {
		return big.NewInt(0)
	}
	return num.Quo(num, den)
}

// amountBDelta = L * (upper - lower) / 2^64
func amountBDelta(liquidity, sqrtLower, sqrtUpper *big.Int) *big.Int {
	out := new(big.Int).Sub(sqrtUpper, sqrtLower)
	out.Mul(out, liquidity)
	return out.Rsh(out, 64)
}

// ToUnits converts a raw integer amount to token units.
func ToUnits(amount *big.Int, decimals uint8) float64 {
	if amount == nil {
		return 0
	}
	if decimals == 0 {
		f, _ := new(big.Float).SetInt(amount).Float64()
		return f
	}
	rat := new(big.Rat).SetFrac(amount, gethmath.BigPow(10, int64(decimals)))
	f, _ := rat.Float64()
	return f
}

// MoveDepth returns the raw token amounts absorbed when the price moves up by
// pct (paid in tokenB) and down by pct (paid in tokenA), assuming liquidity
// stays constant across the move.
func MoveDepth(liquidity, sqrtCurrent *big.Int, pct float64) (down *big.Int, up *big.Int) {
	if liquidity == nil || sqrtCurrent == nil || pct <= 0 || pct >= 1 {
		return big.NewInt(0), big.NewInt(0)
	}
	sqrtUp := ScaleSqrtPrice(sqrtCurrent, sqrtFactor(1+pct))
	sqrtDown := ScaleSqrtPrice(sqrtCurrent, sqrtFactor(1-pct))
	return amountADelta(liquidity, sqrtDown, sqrtCurrent), amountBDelta(liquidity, sqrtCurrent, sqrtUp)
}
