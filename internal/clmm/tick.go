// Package clmm implements the concentrated-liquidity math needed to quote
// token amounts for a price range. Sqrt prices use the Q64.64 encoding.
package clmm

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

const (
	MinTick int32 = -443636
	MaxTick int32 = 443636
)

var (
	ErrInvalidPrice   = errors.New("price must be positive and finite")
	ErrInvalidSpacing = errors.New("tick spacing must be positive")

	q64      = new(big.Int).Lsh(big.NewInt(1), 64)
	q64Float = new(big.Float).SetInt(q64)
	logBase  = math.Log(1.0001)
)

// PriceToTick converts a human price (tokenB per tokenA) to the tick at or below it.
func PriceToTick(price float64, decimalsA, decimalsB uint8) (int32, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, ErrInvalidPrice
	}
	raw := price * math.Pow10(int(decimalsB)-int(decimalsA))
	tick := math.Floor(math.Log(raw) / logBase)
	if tick < float64(MinTick) {
		return MinTick, nil
	}
	if tick > float64(MaxTick) {
		return MaxTick, nil
	}
	return int32(tick), nil
}

// AlignTick snaps tick to a multiple of spacing, rounding down unless roundUp is set.
func AlignTick(tick, spacing int32, roundUp bool) (int32, error) {
	if spacing <= 0 {
		return 0, ErrInvalidSpacing
	}
	rem := tick % spacing
	if rem < 0 {
		rem += spacing
	}
	aligned := tick - rem
	if roundUp && rem != 0 {
		aligned += spacing
	}
	for aligned < MinTick {
		aligned += spacing
	}
	for aligned > MaxTick {
		aligned -= spacing
	}
	return aligned, nil
}

// TickToSqrtPriceX64 returns sqrt(1.0001^tick) in Q64.64.
func TickToSqrtPriceX64(tick int32) *big.Int {
	sqrt := math.Exp(float64(tick) * logBase / 2)
	return scaleToQ64(sqrt)
}

// ScaleSqrtPrice multiplies a Q64.64 sqrt price by factor.
func ScaleSqrtPrice(sqrtPrice *big.Int, factor float64) *big.Int {
	if sqrtPrice == nil || factor <= 0 {
		return big.NewInt(0)
	}
	scaled := new(big.Float).Mul(new(big.Float).SetInt(sqrtPrice), big.NewFloat(factor))
	out, _ := scaled.Int(nil)
	return out
}

// ParseU128 parses a base-10 unsigned integer such as liquidity or sqrt price.
func ParseU128(value string) (*big.Int, error) {
	if value == "" {
		return nil, fmt.Errorf("empty integer")
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid int: %s", value)
	}
	if parsed.Sign() < 0 {
		return nil, fmt.Errorf("negative int: %s", value)
	}
	return parsed, nil
}

func scaleToQ64(v float64) *big.Int {
	f := new(big.Float).Mul(big.NewFloat(v), q64Float)
	out, _ := f.Int(nil)
	return out
}
