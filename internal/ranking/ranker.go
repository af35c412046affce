// Package ranking classifies pools into pair buckets, scores them and orders
// the rankable universe.
package ranking

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"orcaScanner/internal/model"
	"orcaScanner/internal/tokens"
)

const (
	ReasonTVLBelowFloor    = "tvl_below_floor"
	ReasonVolumeBelowFloor = "volume_below_floor"
)

// Inputs carries one ranking pass.
type Inputs struct {
	Pools       []model.Pool
	Enrichments map[string]model.Enrichment
	Stability   func(address string) model.StabilityMetric
	SOLPriceUSD *float64
}

// Result holds every classified pool. Ranked lists only eligible pools in rank order.
type Result struct {
	Classified   []model.RankedPool
	Ranked       []model.RankedPool
	Unclassified []string
}

// Ranker scores pools.
type Ranker struct {
	cfg    Config
	tokens *tokens.Registry
	logger *zap.Logger
}

func NewRanker(cfg Config, registry *tokens.Registry, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{cfg: cfg, tokens: registry, logger: logger}
}

// Classify returns the pair bucket of a pool.
func (r *Ranker) Classify(symbolA, symbolB string) (model.PoolType, bool) {
	return r.tokens.PairType(symbolA, symbolB)
}

// Rank classifies, scores and orders the universe.
func (r *Ranker) Rank(in Inputs) Result {
	var res Result
	for _, pool := range in.Pools {
		poolType, ok := r.Classify(pool.TokenA.Symbol, pool.TokenB.Symbol)
		if !ok {
			res.Unclassified = append(res.Unclassified, pool.Address)
			continue
		}
		var enrichment *model.Enrichment
		if e, ok := in.Enrichments[pool.Address]; ok {
			enrichment = &e
		}
		stability := model.StabilityMetric{Address: pool.Address, StabilityScore: 0.25}
		if in.Stability != nil {
			stability = in.Stability(pool.Address)
		}
		res.Classified = append(res.Classified, r.score(pool, poolType, enrichment, stability, in.SOLPriceUSD))
	}

	for _, rp := range res.Classified {
		if rp.Eligible && rp.Type.Visible() {
			res.Ranked = append(res.Ranked, rp)
		}
	}
	SortPools(res.Ranked)
	for i := range res.Ranked {
		res.Ranked[i].Rank = i + 1
	}
	ranks := make(map[string]int, len(res.Ranked))
	for _, rp := range res.Ranked {
		ranks[rp.Address] = rp.Rank
	}
	for i := range res.Classified {
		res.Classified[i].Rank = ranks[res.Classified[i].Address]
	}

	r.logger.Info("pools ranked",
		zap.Int("universe", len(in.Pools)),
		zap.Int("classified", len(res.Classified)),
		zap.Int("unclassified", len(res.Unclassified)),
		zap.Int("ranked", len(res.Ranked)),
	)
	return res
}

func (r *Ranker) score(pool model.Pool, poolType model.PoolType, enrichment *model.Enrichment, stability model.StabilityMetric, solUSD *float64) model.RankedPool {
	rp := model.RankedPool{
		Pool:           pool,
		Type:           poolType,
		StabilityScore: clamp01(stability.StabilityScore),
		StabilityNote:  stability.Note,
	}
	if enrichment != nil {
		validated := enrichment.Validated
		rp.Validated = &validated
	}

	tvl := pool.TVLUSD
	if tvl > 0 {
		rp.FeeAprPct = pool.Stats24h.VolumeUSD * pool.FeeRate * 365 * 100 / tvl
		rp.RewardAprPct = pool.Stats24h.RewardsUSD * 365 * 100 / tvl
		rp.VolumeTvl = pool.Stats24h.VolumeUSD / tvl
	}
	rp.Depth = r.estimateDepth(pool, poolType, enrichment, solUSD)

	if tvl < r.cfg.tvlFloor(poolType) {
		rp.IneligibleReasons = append(rp.IneligibleReasons, ReasonTVLBelowFloor)
	}
	if pool.Stats24h.VolumeUSD < r.cfg.MinVolume24h {
		rp.IneligibleReasons = append(rp.IneligibleReasons, ReasonVolumeBelowFloor)
	}
	rp.Eligible = len(rp.IneligibleReasons) == 0

	c := model.ScoreComponents{
		FeeAprNorm:   capNorm(rp.FeeAprPct, r.cfg.FeeAprCapPct),
		TurnoverNorm: capNorm(rp.VolumeTvl, r.cfg.TurnoverCap),
		DepthNorm:    capNorm(rp.Depth.Ratio1Pct, r.cfg.DepthRatioCap),
		TVLNorm:      logNorm(tvl, r.cfg.TVLLogMin, r.cfg.TVLLogMax),
	}
	if rp.Validated != nil && *rp.Validated {
		c.ValidationBonus = r.cfg.ValidationBonus
	}
	if total := rp.FeeAprPct + rp.RewardAprPct; total > 0 && rp.RewardAprPct > 0 {
		c.RewardPenalty = r.cfg.RewardPenaltyMax * rp.RewardAprPct / total
	}
	rp.Components = c

	w := r.cfg.Weights
	raw := w.FeeApr*c.FeeAprNorm + w.Turnover*c.TurnoverNorm + w.Depth*c.DepthNorm + w.TVL*c.TVLNorm +
		c.ValidationBonus - c.RewardPenalty
	rp.BaseScore = round(100*clamp01(raw), 4)
	scale := r.cfg.StabilityBase + (1-r.cfg.StabilityBase)*rp.StabilityScore
	rp.Score = round(math.Min(100, math.Max(0, rp.BaseScore*scale)), 4)
	return rp
}

// SortPools orders by score desc, 24h volume desc, then address.
func SortPools(pools []model.RankedPool) {
	sort.SliceStable(pools, func(i, j int) bool {
		a, b := pools[i], pools[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Stats24h.VolumeUSD != b.Stats24h.VolumeUSD {
			return a.Stats24h.VolumeUSD > b.Stats24h.VolumeUSD
		}
		return a.Address < b.Address
	})
}

func capNorm(v, limit float64) float64 {
	if limit <= 0 || math.IsNaN(v) {
		return 0
	}
	return clamp01(v / limit)
}

func logNorm(v, lo, hi float64) float64 {
	if v <= 0 || lo <= 0 || hi <= lo {
		return 0
	}
	return clamp01((math.Log10(v) - math.Log10(lo)) / (math.Log10(hi) - math.Log10(lo)))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
