package hedge

// RegimeMultipliers scale the hedge by regime.
type RegimeMultipliers struct {
	Low      float64 `mapstructure:"low"`
	Moderate float64 `mapstructure:"moderate"`
	High     float64 `mapstructure:"high"`
}

// Config tunes hedge sizing.
type Config struct {
	Version             int               `mapstructure:"version"`
	Regime              RegimeMultipliers `mapstructure:"regime"`
	FundingPenalty      float64           `mapstructure:"funding_penalty"`
	FundingPenaltyAbove float64           `mapstructure:"funding_penalty_above_pct"`
	MinDeltaFraction    float64           `mapstructure:"min_delta_fraction"`
	NotionalUSD         float64           `mapstructure:"notional_usd"`
	FallbackStableDelta float64           `mapstructure:"fallback_stable_delta"`
	FallbackLSTDelta    float64           `mapstructure:"fallback_lst_delta"`
	WidthAdjustPerPct   float64           `mapstructure:"width_adjust_per_pct"`
	WidthReferencePct   float64           `mapstructure:"width_reference_pct"`
	WidthAdjustMax      float64           `mapstructure:"width_adjust_max"`
	QuoteLiquidity      string            `mapstructure:"quote_liquidity"`
}

func DefaultConfig() Config {
	return Config{
		Version:             1,
		Regime:              RegimeMultipliers{Low: 0.85, Moderate: 0.95, High: 1.0},
		FundingPenalty:      0.9,
		FundingPenaltyAbove: 20,
		MinDeltaFraction:    0.08,
		NotionalUSD:         10_000,
		FallbackStableDelta: 0.5,
		FallbackLSTDelta:    1.0,
		WidthAdjustPerPct:   0.004,
		WidthReferencePct:   10,
		WidthAdjustMax:      0.05,
		QuoteLiquidity:      "1000000000000",
	}
}
