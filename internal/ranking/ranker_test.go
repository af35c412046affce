package ranking

import (
	"math"
	"strings"
	"testing"
	"time"

	"orcaScanner/internal/clmm"
	"orcaScanner/internal/model"
	"orcaScanner/internal/tokens"
)

func newTestRanker() *Ranker {
	return NewRanker(DefaultConfig(), tokens.NewRegistry(tokens.DefaultConfig()), nil)
}

func testPool(address, a, b string, tvl, vol24 float64) model.Pool {
	return model.Pool{
		Address:  address,
		TokenA:   model.Token{Symbol: a},
		TokenB:   model.Token{Symbol: b},
		FeeRate:  0.003,
		Price:    1,
		TVLUSD:   tvl,
		Stats24h: model.WindowStats{VolumeUSD: vol24},
	}
}

func TestRankDropsUnclassified(t *testing.T) {
	r := newTestRanker()
	res := r.Rank(Inputs{Pools: []model.Pool{
		testPool("p1", "SOL", "USDC", 1_000_000, 500_000),
		testPool("p2", "SOL", "BONK", 1_000_000, 500_000),
	}})
	if len(res.Classified) != 1 || res.Classified[0].Address != "p1" {
		t.Fatalf("classified = %+v", res.Classified)
	}
	if len(res.Unclassified) != 1 || res.Unclassified[0] != "p2" {
		t.Fatalf("unclassified = %v", res.Unclassified)
	}
}

func TestRankEligibilityFloors(t *testing.T) {
	r := newTestRanker()
	res := r.Rank(Inputs{Pools: []model.Pool{
		// LST-anchored floor is 100k.
		testPool("lst", "JitoSOL", "SOL", 150_000, 60_000),
		// Stable-anchored floor is 250k.
		testPool("stable", "SOL", "USDC", 150_000, 60_000),
		testPool("quiet", "SOL", "USDC", 1_000_000, 10_000),
	}})

	eligible := map[string]bool{}
	reasons := map[string][]string{}
	for _, rp := range res.Classified {
		eligible[rp.Address] = rp.Eligible
		reasons[rp.Address] = rp.IneligibleReasons
	}
	if !eligible["lst"] {
		t.Fatalf("lst pool should be eligible")
	}
	if eligible["stable"] || reasons["stable"][0] != ReasonTVLBelowFloor {
		t.Fatalf("stable pool should fail tvl floor: %v", reasons["stable"])
	}
	if eligible["quiet"] || reasons["quiet"][0] != ReasonVolumeBelowFloor {
		t.Fatalf("quiet pool should fail volume floor: %v", reasons["quiet"])
	}
	if len(res.Ranked) != 1 || res.Ranked[0].Rank != 1 {
		t.Fatalf("ranked = %+v", res.Ranked)
	}
}

func TestScoreBoundsAndStabilityScaling(t *testing.T) {
	r := newTestRanker()
	pool := testPool("p1", "SOL", "USDC", 2_000_000, 10_000_000)
	pool.Stats24h.RewardsUSD = 100

	stable := r.Rank(Inputs{Pools: []model.Pool{pool}, Stability: func(string) model.StabilityMetric {
		return model.StabilityMetric{StabilityScore: 1}
	}}).Ranked[0]
	unstable := r.Rank(Inputs{Pools: []model.Pool{pool}, Stability: func(string) model.StabilityMetric {
		return model.StabilityMetric{StabilityScore: 0}
	}}).Ranked[0]

	if stable.Score < 0 || stable.Score > 100 {
		t.Fatalf("score out of bounds: %f", stable.Score)
	}
	if stable.Score != stable.BaseScore {
		t.Fatalf("full stability keeps base score: %f vs %f", stable.Score, stable.BaseScore)
	}
	want := round(unstable.BaseScore*0.6, 4)
	if unstable.Score != want {
		t.Fatalf("unstable score = %f, want %f", unstable.Score, want)
	}
	if stable.Components.RewardPenalty <= 0 {
		t.Fatalf("expected reward penalty")
	}
}

func TestFeeApr(t *testing.T) {
	r := newTestRanker()
	res := r.Rank(Inputs{Pools: []model.Pool{testPool("p1", "SOL", "USDC", 1_000_000, 1_000_000)}})
	// 1M * 0.003 * 365 * 100 / 1M
	if got := res.Classified[0].FeeAprPct; got < 109.49 || got > 109.51 {
		t.Fatalf("fee apr = %f, want 109.5", got)
	}
}

func TestSortPoolsTieBreak(t *testing.T) {
	pools := []model.RankedPool{
		{Pool: model.Pool{Address: "c", Stats24h: model.WindowStats{VolumeUSD: 10}}, Score: 50},
		{Pool: model.Pool{Address: "b", Stats24h: model.WindowStats{VolumeUSD: 20}}, Score: 50},
		{Pool: model.Pool{Address: "a", Stats24h: model.WindowStats{VolumeUSD: 10}}, Score: 50},
		{Pool: model.Pool{Address: "d", Stats24h: model.WindowStats{VolumeUSD: 1}}, Score: 70},
	}
	SortPools(pools)
	got := []string{pools[0].Address, pools[1].Address, pools[2].Address, pools[3].Address}
	want := []string{"d", "b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDepthFallbackProvenance(t *testing.T) {
	r := newTestRanker()
	res := r.Rank(Inputs{Pools: []model.Pool{testPool("p1", "SOL", "USDC", 1_000_000, 500_000)}})
	depth := res.Classified[0].Depth
	if !strings.HasPrefix(depth.Provenance, "fallback heuristic used: ") {
		t.Fatalf("provenance = %q", depth.Provenance)
	}
	if math.Abs(depth.Ratio1Pct-0.015) > 1e-12 || math.Abs(depth.Plus1PctUSD-15_000) > 1e-6 {
		t.Fatalf("unexpected fallback depth: %+v", depth)
	}
}

func TestDepthFromLiquidity(t *testing.T) {
	r := newTestRanker()
	tick, err := clmm.PriceToTick(150, 9, 6)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	pool := testPool("p1", "SOL", "USDC", 5_000_000, 2_000_000)
	pool.TokenA.Decimals = model.Uint8(9)
	pool.TokenB.Decimals = model.Uint8(6)
	pool.Price = 150
	pool.SqrtPrice = clmm.TickToSqrtPriceX64(tick).String()
	pool.Liquidity = "2000000000000"
	sol := 150.0

	res := r.Rank(Inputs{Pools: []model.Pool{pool}, SOLPriceUSD: &sol})
	depth := res.Classified[0].Depth
	if depth.Provenance != ProvenanceNoTickArrays {
		t.Fatalf("provenance = %q", depth.Provenance)
	}
	if depth.Plus1PctUSD <= 0 || depth.Minus1PctUSD <= 0 || depth.Plus2PctUSD < depth.Plus1PctUSD {
		t.Fatalf("unexpected depth: %+v", depth)
	}
}

func TestBuildOutputHidesStableStable(t *testing.T) {
	r := newTestRanker()
	res := r.Rank(Inputs{Pools: []model.Pool{
		testPool("ss", "USDC", "USDT", 10_000_000, 5_000_000),
		testPool("p1", "SOL", "USDC", 1_000_000, 500_000),
	}})
	out := r.BuildOutput(res, 2, model.RegimeModerate, time.Now())

	for _, rp := range out.Pools {
		if rp.Type == model.PoolTypeStableStable {
			t.Fatalf("stable-stable pool leaked into pools")
		}
	}
	if _, ok := out.ByType[model.PoolTypeStableStable]; ok {
		t.Fatalf("stable-stable bucket leaked into byType")
	}
	if out.Analytics.StableStable != 1 || out.Analytics.Classified != 2 {
		t.Fatalf("analytics = %+v", out.Analytics)
	}
	if len(out.Top) != 1 || len(out.Ranked) != len(out.Pools) {
		t.Fatalf("top/ranked alias mismatch")
	}
}
