// Package allocation splits capital across the shortlist in whole percent.
package allocation

import (
	"math"
	"sort"

	"orcaScanner/internal/model"
	"orcaScanner/internal/shortlist"
)

// Recommender turns a shortlist into integer weights.
type Recommender struct {
	cfg Config
}

func NewRecommender(cfg Config) *Recommender {
	return &Recommender{cfg: cfg}
}

// Hints returns the weight hints for the selection under regime.
func (r *Recommender) Hints(regime model.Regime, selected []model.ShortlistItem) []float64 {
	switch regime {
	case model.RegimeLow:
		for _, item := range selected {
			if item.Slot == 2 && shortlist.HasReason(item, shortlist.ReasonExceptionalSOLStable) {
				return r.cfg.LowExceptional
			}
		}
		return r.cfg.Low
	case model.RegimeHigh:
		return r.cfg.High
	default:
		return r.cfg.Moderate
	}
}

// Recommend builds the allocation for sl.
func (r *Recommender) Recommend(sl model.Shortlist) model.Allocation {
	out := model.Allocation{Regime: sl.Regime, Items: []model.AllocationItem{}}
	if len(sl.Selected) == 0 {
		out.Notes = append(out.Notes, "empty shortlist: nothing to allocate")
		return out
	}

	hints := r.Hints(sl.Regime, sl.Selected)
	if len(hints) > len(sl.Selected) {
		hints = hints[:len(sl.Selected)]
	}
	for len(hints) < len(sl.Selected) {
		hints = append(hints, 1)
	}
	out.Hints = append([]float64{}, hints...)

	weights := LargestRemainder(hints)
	if weights == nil {
		out.Notes = append(out.Notes, "invalid weight hints: falling back to equal weights")
		equal := make([]float64, len(sl.Selected))
		for i := range equal {
			equal[i] = 1
		}
		weights = LargestRemainder(equal)
	}
	for i, item := range sl.Selected {
		out.Items = append(out.Items, model.AllocationItem{Pool: item.Pool, WeightPct: weights[i]})
	}
	return out
}

// LargestRemainder scales hints to integers summing to exactly 100. It returns
// nil when the hints carry no positive weight.
func LargestRemainder(hints []float64) []int {
	var total float64
	for _, h := range hints {
		if h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
			return nil
		}
		total += h
	}
	if len(hints) == 0 || total <= 0 {
		return nil
	}

	out := make([]int, len(hints))
	remainders := make([]float64, len(hints))
	assigned := 0
	for i, h := range hints {
		share := h / total * 100
		floor := math.Floor(share)
		out[i] = int(floor)
		remainders[i] = share - floor
		assigned += out[i]
	}

	order := make([]int, len(hints))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for i := 0; assigned < 100; i++ {
		out[order[i%len(order)]]++
		assigned++
	}
	return out
}
