package model

// PresetName labels a range preset.
type PresetName string

const (
	PresetConservative PresetName = "Conservative"
	PresetBase         PresetName = "Base"
	PresetAggressive   PresetName = "Aggressive"
)

// RangePreset is one liquidity range around the spot price.
type RangePreset struct {
	Name         PresetName `json:"name"`
	HalfWidthPct float64    `json:"halfWidthPct"`
	Lower        float64    `json:"lower"`
	Upper        float64    `json:"upper"`
}

// HedgeSide is the direction of the recommended hedge.
type HedgeSide string

const (
	HedgeShortSOL HedgeSide = "SHORT_SOL"
	HedgeNone     HedgeSide = "NONE"
)

// DepositRatioSource tells whether tick math or a heuristic produced the delta fraction.
type DepositRatioSource string

const (
	DepositRatioPrecise  DepositRatioSource = "precise"
	DepositRatioFallback DepositRatioSource = "fallback"
)

// HedgePlan sizes a short against the pool's risk-asset exposure.
type HedgePlan struct {
	Enabled            bool               `json:"enabled"`
	Side               HedgeSide          `json:"side"`
	DeltaFraction      float64            `json:"deltaFraction"`
	RegimeMultiplier   float64            `json:"regimeMultiplier"`
	FundingPenalty     float64            `json:"fundingPenalty"`
	ShortUSDPer10k     float64            `json:"shortUsdPer10k"`
	ShortSOLPer10k     *float64           `json:"shortSolPer10k"`
	DepositRatioSource DepositRatioSource `json:"depositRatioSource"`
	Provenance         string             `json:"provenance,omitempty"`
	Note               string             `json:"note,omitempty"`
}

// PoolPlan is the per-pool range and hedge plan.
type PoolPlan struct {
	Pool         PoolRef       `json:"pool"`
	TokenA       Token         `json:"tokenA"`
	TokenB       Token         `json:"tokenB"`
	SpotPrice    float64       `json:"spotPrice"`
	AnnualVolPct float64       `json:"annualVolPct"`
	Presets      []RangePreset `json:"presets"`
	Hedge        HedgePlan     `json:"hedge"`
}

// Preset returns the preset with the given name.
func (p PoolPlan) Preset(name PresetName) (RangePreset, bool) {
	for _, preset := range p.Presets {
		if preset.Name == name {
			return preset, true
		}
	}
	return RangePreset{}, false
}
