package regime

// Weights of the four normalized signals in the raw score.
type Weights struct {
	Volatility    float64 `mapstructure:"volatility"`
	VolRatio      float64 `mapstructure:"vol_ratio"`
	Funding       float64 `mapstructure:"funding"`
	TurnoverTrend float64 `mapstructure:"turnover_trend"`
}

// Bounds is a min-max calibration range.
type Bounds struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// Calibration holds the normalization bounds for each signal.
type Calibration struct {
	VolPct        Bounds `mapstructure:"vol_pct"`
	VolRatio      Bounds `mapstructure:"vol_ratio"`
	FundingAprPct Bounds `mapstructure:"funding_apr_pct"`
	TurnoverTrend Bounds `mapstructure:"turnover_trend"`
}

// Config tunes the regime detector. Version is bumped whenever defaults change.
type Config struct {
	Version           int         `mapstructure:"version"`
	Weights           Weights     `mapstructure:"weights"`
	Calibration       Calibration `mapstructure:"calibration"`
	HighCutoff        float64     `mapstructure:"high_cutoff"`
	LowCutoff         float64     `mapstructure:"low_cutoff"`
	StickyMargin      float64     `mapstructure:"sticky_margin"`
	FlipMargin        float64     `mapstructure:"flip_margin"`
	TrendRisingAbove  float64     `mapstructure:"trend_rising_above"`
	TrendFallingBelow float64     `mapstructure:"trend_falling_below"`
	LongVolWindow     int         `mapstructure:"long_vol_window"`
	ShortVolWindow    int         `mapstructure:"short_vol_window"`
	ConfidenceFloor   float64     `mapstructure:"confidence_floor"`
	ConfidenceStep    float64     `mapstructure:"confidence_step"`
}

func DefaultConfig() Config {
	return Config{
		Version: 1,
		Weights: Weights{
			Volatility:    0.38,
			VolRatio:      0.26,
			Funding:       0.18,
			TurnoverTrend: 0.18,
		},
		Calibration: Calibration{
			VolPct:        Bounds{Min: 30, Max: 120},
			VolRatio:      Bounds{Min: 0.7, Max: 1.6},
			FundingAprPct: Bounds{Min: -5, Max: 30},
			TurnoverTrend: Bounds{Min: 0.7, Max: 1.5},
		},
		HighCutoff:        0.72,
		LowCutoff:         0.38,
		StickyMargin:      0.05,
		FlipMargin:        0.03,
		TrendRisingAbove:  1.15,
		TrendFallingBelow: 0.9,
		LongVolWindow:     30,
		ShortVolWindow:    7,
		ConfidenceFloor:   0.1,
		ConfidenceStep:    0.18,
	}
}
