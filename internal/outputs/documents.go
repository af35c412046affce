package outputs

import (
	"time"

	"orcaScanner/internal/model"
)

// Plans is the plans.json document.
type Plans struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Regime      model.Regime     `json:"regime"`
	Plans       []model.PoolPlan `json:"plans"`
	Notes       []string         `json:"notes,omitempty"`
}

// BaseRanges maps pool address to its planned Base preset.
func (p Plans) BaseRanges() map[string]model.RangePreset {
	out := make(map[string]model.RangePreset, len(p.Plans))
	for _, plan := range p.Plans {
		if base, ok := plan.Preset(model.PresetBase); ok {
			out[plan.Pool.Address] = base
		}
	}
	return out
}
