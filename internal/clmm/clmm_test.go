package clmm

import (
	"math"
	"math/big"
	"testing"
)

func TestTickZeroIsOne(t *testing.T) {
	got := TickToSqrtPriceX64(0)
	if got.Cmp(q64) != 0 {
		t.Fatalf("sqrt price at tick 0 = %s, want %s", got, q64)
	}
}

func TestPriceToTickRoundTrip(t *testing.T) {
	// 150 USDC per SOL with 9/6 decimals.
	tick, err := PriceToTick(150, 9, 6)
	if err != nil {
		t.Fatalf("price to tick: %v", err)
	}
	price := math.Pow(1.0001, float64(tick)) * 1e3
	if math.Abs(price-150)/150 > 0.0002 {
		t.Fatalf("round trip price %f too far from 150 (tick %d)", price, tick)
	}
}

func TestPriceToTickInvalid(t *testing.T) {
	if _, err := PriceToTick(0, 9, 6); err == nil {
		t.Fatalf("expected error for zero price")
	}
	if _, err := PriceToTick(math.NaN(), 9, 6); err == nil {
		t.Fatalf("expected error for NaN price")
	}
}

func TestAlignTick(t *testing.T) {
	cases := []struct {
		tick    int32
		spacing int32
		up      bool
		want    int32
	}{
		{tick: 130, spacing: 64, want: 128},
		{tick: 130, spacing: 64, up: true, want: 192},
		{tick: -130, spacing: 64, want: -192},
		{tick: -130, spacing: 64, up: true, want: -128},
		{tick: 128, spacing: 64, up: true, want: 128},
	}
	for _, tc := range cases {
		got, err := AlignTick(tc.tick, tc.spacing, tc.up)
		if err != nil {
			t.Fatalf("align %d: %v", tc.tick, err)
		}
		if got != tc.want {
			t.Fatalf("align(%d, %d, %v) = %d, want %d", tc.tick, tc.spacing, tc.up, got, tc.want)
		}
	}
	if _, err := AlignTick(10, 0, false); err == nil {
		t.Fatalf("expected error for zero spacing")
	}
}

func TestAmountsForLiquidityInRange(t *testing.T) {
	liquidity := big.NewInt(1_000_000_000_000)
	lower := TickToSqrtPriceX64(-1000)
	upper := TickToSqrtPriceX64(1000)

	a, b := AmountsForLiquidity(liquidity, q64, lower, upper)
	if a.Sign() <= 0 || b.Sign() <= 0 {
		t.Fatalf("expected both sides funded, got a=%s b=%s", a, b)
	}
	// Symmetric range around price 1: amounts are close to equal.
	ratio := ToUnits(a, 0) / ToUnits(b, 0)
	if math.Abs(ratio-1) > 0.01 {
		t.Fatalf("expected balanced amounts, ratio %f", ratio)
	}
}

func TestAmountsForLiquidityOutOfRange(t *testing.T) {
	liquidity := big.NewInt(1_000_000)
	lower := TickToSqrtPriceX64(100)
	upper := TickToSqrtPriceX64(200)

	a, b := AmountsForLiquidity(liquidity, TickToSqrtPriceX64(0), lower, upper)
	if a.Sign() <= 0 || b.Sign() != 0 {
		t.Fatalf("below range should be all token A: a=%s b=%s", a, b)
	}
	a, b = AmountsForLiquidity(liquidity, TickToSqrtPriceX64(300), lower, upper)
	if a.Sign() != 0 || b.Sign() <= 0 {
		t.Fatalf("above range should be all token B: a=%s b=%s", a, b)
	}
}

func TestToUnits(t *testing.T) {
	got := ToUnits(big.NewInt(1_500_000), 6)
	if got != 1.5 {
		t.Fatalf("ToUnits = %f, want 1.5", got)
	}
}

func TestMoveDepthPositive(t *testing.T) {
	down, up := MoveDepth(big.NewInt(1_000_000_000), q64, 0.01)
	if down.Sign() <= 0 || up.Sign() <= 0 {
		t.Fatalf("expected positive depth, got down=%s up=%s", down, up)
	}
}
