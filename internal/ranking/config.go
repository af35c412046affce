package ranking

import (
	"strings"

	"orcaScanner/internal/model"
)

// Weights of the normalized score components.
type Weights struct {
	FeeApr   float64 `mapstructure:"fee_apr"`
	Turnover float64 `mapstructure:"turnover"`
	Depth    float64 `mapstructure:"depth"`
	TVL      float64 `mapstructure:"tvl"`
}

// Config tunes eligibility and scoring. Version is bumped whenever defaults change.
type Config struct {
	Version          int     `mapstructure:"version"`
	StableTVLFloor   float64 `mapstructure:"stable_tvl_floor"`
	LSTTVLFloor      float64 `mapstructure:"lst_tvl_floor"`
	MinVolume24h     float64 `mapstructure:"min_volume_24h"`
	Weights          Weights `mapstructure:"weights"`
	FeeAprCapPct     float64 `mapstructure:"fee_apr_cap_pct"`
	TurnoverCap      float64 `mapstructure:"turnover_cap"`
	DepthRatioCap    float64 `mapstructure:"depth_ratio_cap"`
	TVLLogMin        float64 `mapstructure:"tvl_log_min"`
	TVLLogMax        float64 `mapstructure:"tvl_log_max"`
	ValidationBonus  float64 `mapstructure:"validation_bonus"`
	RewardPenaltyMax float64 `mapstructure:"reward_penalty_max"`
	StabilityBase    float64 `mapstructure:"stability_base"`
	TopN             int     `mapstructure:"top_n"`
	// FallbackDepthFraction is the ±1% depth as a fraction of TVL used when
	// active liquidity cannot be priced. ±2% is twice that.
	FallbackDepthFraction map[model.PoolType]float64 `mapstructure:"fallback_depth_fraction"`
}

func DefaultConfig() Config {
	return Config{
		Version:        1,
		StableTVLFloor: 250_000,
		LSTTVLFloor:    100_000,
		MinVolume24h:   50_000,
		Weights: Weights{
			FeeApr:   0.34,
			Turnover: 0.28,
			Depth:    0.20,
			TVL:      0.13,
		},
		FeeAprCapPct:     120,
		TurnoverCap:      1.5,
		DepthRatioCap:    0.05,
		TVLLogMin:        100_000,
		TVLLogMax:        50_000_000,
		ValidationBonus:  0.03,
		RewardPenaltyMax: 0.08,
		StabilityBase:    0.6,
		TopN:             10,
		FallbackDepthFraction: map[model.PoolType]float64{
			model.PoolTypeSOLStable:    0.015,
			model.PoolTypeLSTStable:    0.012,
			model.PoolTypeSOLLST:       0.03,
			model.PoolTypeLSTLST:       0.025,
			model.PoolTypeStableStable: 0.05,
		},
	}
}

func (c Config) tvlFloor(t model.PoolType) float64 {
	if t.StableAnchored() {
		return c.StableTVLFloor
	}
	return c.LSTTVLFloor
}

// depthFraction looks up the fallback fraction. Keys may arrive lower-cased from config files.
func (c Config) depthFraction(t model.PoolType) float64 {
	if v, ok := c.FallbackDepthFraction[t]; ok {
		return v
	}
	for k, v := range c.FallbackDepthFraction {
		if strings.EqualFold(string(k), string(t)) {
			return v
		}
	}
	return 0
}
