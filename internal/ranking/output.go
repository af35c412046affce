package ranking

import (
	"time"

	"orcaScanner/internal/model"
)

// Analytics counts the universe, including buckets hidden from the lists.
type Analytics struct {
	Universe         int                    `json:"universe"`
	Classified       int                    `json:"classified"`
	Unclassified     int                    `json:"unclassified"`
	Eligible         int                    `json:"eligible"`
	Ineligible       int                    `json:"ineligible"`
	ByType           map[model.PoolType]int `json:"byType"`
	StableStable     int                    `json:"stableStable"`
	DepthFromLiq     int                    `json:"depthFromLiquidity"`
	DepthFallback    int                    `json:"depthFallback"`
	UnclassifiedList []string               `json:"unclassifiedPools,omitempty"`
}

// Output is the ranked_pools.json document. Ranked aliases Pools for older readers.
type Output struct {
	GeneratedAt time.Time                             `json:"generatedAt"`
	Regime      model.Regime                          `json:"regime"`
	Pools       []model.RankedPool                    `json:"pools"`
	Top         []model.RankedPool                    `json:"top"`
	ByType      map[model.PoolType][]model.RankedPool `json:"byType"`
	Ranked      []model.RankedPool                    `json:"ranked"`
	Analytics   Analytics                             `json:"analytics"`
}

// BuildOutput shapes a Result into the visible document. STABLE-STABLE pools
// only show up in the analytics counts.
func (r *Ranker) BuildOutput(res Result, universe int, regime model.Regime, now time.Time) Output {
	out := Output{
		GeneratedAt: now.UTC(),
		Regime:      regime,
		Pools:       make([]model.RankedPool, 0, len(res.Ranked)),
		ByType:      make(map[model.PoolType][]model.RankedPool),
		Analytics: Analytics{
			Universe:         universe,
			Classified:       len(res.Classified),
			Unclassified:     len(res.Unclassified),
			ByType:           make(map[model.PoolType]int),
			UnclassifiedList: res.Unclassified,
		},
	}

	for _, rp := range res.Classified {
		out.Analytics.ByType[rp.Type]++
		if rp.Type == model.PoolTypeStableStable {
			out.Analytics.StableStable++
		}
		if rp.Eligible {
			out.Analytics.Eligible++
		} else {
			out.Analytics.Ineligible++
		}
		if rp.Depth.Provenance == ProvenanceNoTickArrays {
			out.Analytics.DepthFromLiq++
		} else {
			out.Analytics.DepthFallback++
		}
	}

	for _, rp := range res.Ranked {
		if !rp.Type.Visible() {
			continue
		}
		out.Pools = append(out.Pools, rp)
		out.ByType[rp.Type] = append(out.ByType[rp.Type], rp)
	}
	top := r.cfg.TopN
	if top <= 0 || top > len(out.Pools) {
		top = len(out.Pools)
	}
	out.Top = out.Pools[:top]
	out.Ranked = out.Pools
	return out
}
