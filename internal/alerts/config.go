package alerts

// Config holds the alert thresholds.
type Config struct {
	Version            int     `mapstructure:"version"`
	FundingWarnPct     float64 `mapstructure:"funding_warn_pct"`
	FundingCriticalPct float64 `mapstructure:"funding_critical_pct"`
	TurnoverWarn       float64 `mapstructure:"turnover_warn"`
	TurnoverCritical   float64 `mapstructure:"turnover_critical"`
	TVLWarn            float64 `mapstructure:"tvl_warn"`
	TVLCritical        float64 `mapstructure:"tvl_critical"`
	DepthWarn          float64 `mapstructure:"depth_warn"`
	DepthCritical      float64 `mapstructure:"depth_critical"`
}

func DefaultConfig() Config {
	return Config{
		Version:            1,
		FundingWarnPct:     15,
		FundingCriticalPct: 25,
		TurnoverWarn:       0.06,
		TurnoverCritical:   0.03,
		TVLWarn:            200_000,
		TVLCritical:        120_000,
		DepthWarn:          0.02,
		DepthCritical:      0.01,
	}
}

// Profile is the operator cadence profile. It is an external input.
type Profile struct {
	Name               string  `yaml:"name" json:"name"`
	CheckIntervalHours float64 `yaml:"checkIntervalHours" json:"checkIntervalHours"`
	WarnEdgePct        float64 `yaml:"warnEdgePct" json:"warnEdgePct"`
	ActEdgePct         float64 `yaml:"actEdgePct" json:"actEdgePct"`
}

func DefaultProfile() Profile {
	return Profile{
		Name:               "daily",
		CheckIntervalHours: 24,
		WarnEdgePct:        3,
		ActEdgePct:         1.5,
	}
}
