package shortlist

// Weights of the composite selection key.
type Weights struct {
	Score     float64 `mapstructure:"score"`
	FeeApr    float64 `mapstructure:"fee_apr"`
	Depth     float64 `mapstructure:"depth"`
	HighDepth float64 `mapstructure:"high_depth"`
}

// ExceptionalBar is what a SOL-STABLE pool must clear to take slot 2 in LOW.
type ExceptionalBar struct {
	MinDepthRatio float64 `mapstructure:"min_depth_ratio"`
	MinFeeAprPct  float64 `mapstructure:"min_fee_apr_pct"`
	MinScore      float64 `mapstructure:"min_score"`
}

// Config holds the guardrails and selection tuning.
type Config struct {
	Version         int            `mapstructure:"version"`
	MinTVL          float64        `mapstructure:"min_tvl"`
	MinVolume24h    float64        `mapstructure:"min_volume_24h"`
	MinDepthRatio   float64        `mapstructure:"min_depth_ratio"`
	Weights         Weights        `mapstructure:"weights"`
	FeeAprScalePct  float64        `mapstructure:"fee_apr_scale_pct"`
	DepthRatioScale float64        `mapstructure:"depth_ratio_scale"`
	Exceptional     ExceptionalBar `mapstructure:"exceptional"`
}

func DefaultConfig() Config {
	return Config{
		Version:       1,
		MinTVL:        250_000,
		MinVolume24h:  100_000,
		MinDepthRatio: 0.01,
		Weights: Weights{
			Score:     0.6,
			FeeApr:    0.25,
			Depth:     0.15,
			HighDepth: 0.4,
		},
		FeeAprScalePct:  100,
		DepthRatioScale: 0.05,
		Exceptional: ExceptionalBar{
			MinDepthRatio: 0.025,
			MinFeeAprPct:  25,
			MinScore:      75,
		},
	}
}
