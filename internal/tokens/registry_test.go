package tokens

import (
	"math"
	"testing"

	"orcaScanner/internal/model"
)

func TestPairType(t *testing.T) {
	r := NewRegistry(DefaultConfig())
	cases := []struct {
		a, b string
		want model.PoolType
		ok   bool
	}{
		{a: "SOL", b: "USDC", want: model.PoolTypeSOLStable, ok: true},
		{a: "usdc", b: "sol", want: model.PoolTypeSOLStable, ok: true},
		{a: "JitoSOL", b: "SOL", want: model.PoolTypeSOLLST, ok: true},
		{a: "MSOL", b: "USDT", want: model.PoolTypeLSTStable, ok: true},
		{a: "mSOL", b: "bSOL", want: model.PoolTypeLSTLST, ok: true},
		{a: "USDC", b: "USDT", want: model.PoolTypeStableStable, ok: true},
		{a: "SOL", b: "BONK"},
		{a: "SOL", b: "WSOL"},
	}
	for _, tc := range cases {
		got, ok := r.PairType(tc.a, tc.b)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("PairType(%s, %s) = %s/%v, want %s/%v", tc.a, tc.b, got, ok, tc.want, tc.ok)
		}
	}
}

func TestUSDPrices(t *testing.T) {
	r := NewRegistry(DefaultConfig())
	sol := 150.0

	a, b, err := r.USDPrices(model.Pool{TokenA: model.Token{Symbol: "SOL"}, TokenB: model.Token{Symbol: "USDC"}, Price: 149}, &sol)
	if err != nil || a != 150 || b != 1 {
		t.Fatalf("direct prices: %f %f %v", a, b, err)
	}

	// LST priced via spot against SOL.
	a, b, err = r.USDPrices(model.Pool{TokenA: model.Token{Symbol: "JitoSOL"}, TokenB: model.Token{Symbol: "SOL"}, Price: 1.1}, &sol)
	if err != nil || b != 150 || math.Abs(a-165) > 1e-9 {
		t.Fatalf("cross derived: %f %f %v", a, b, err)
	}

	if _, _, err := r.USDPrices(model.Pool{TokenA: model.Token{Symbol: "mSOL"}, TokenB: model.Token{Symbol: "bSOL"}, Price: 1}, &sol); err == nil {
		t.Fatalf("expected missing mapping for LST-LST")
	}
}
