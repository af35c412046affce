package rangeplan

import "orcaScanner/internal/model"

// Multipliers scale the weekly sigma for each preset.
type Multipliers struct {
	Conservative float64 `mapstructure:"conservative"`
	Base         float64 `mapstructure:"base"`
	Aggressive   float64 `mapstructure:"aggressive"`
}

// TypeProfile maps the regime volatility proxy to a pair-specific estimate.
type TypeProfile struct {
	VolFactor   float64     `mapstructure:"vol_factor"`
	MinVolPct   float64     `mapstructure:"min_vol_pct"`
	MaxVolPct   float64     `mapstructure:"max_vol_pct"`
	Multipliers Multipliers `mapstructure:"multipliers"`
}

// RegimeMultipliers widen or tighten every preset.
type RegimeMultipliers struct {
	Low      float64 `mapstructure:"low"`
	Moderate float64 `mapstructure:"moderate"`
	High     float64 `mapstructure:"high"`
}

// Config tunes the range planner.
type Config struct {
	Version               int               `mapstructure:"version"`
	DefaultVolPct         float64           `mapstructure:"default_vol_pct"`
	MinHalfWidthPct       float64           `mapstructure:"min_half_width_pct"`
	MaxHalfWidthPct       float64           `mapstructure:"max_half_width_pct"`
	StableBaseFloorLowPct float64           `mapstructure:"stable_base_floor_low_pct"`
	StableBaseFloorPct    float64           `mapstructure:"stable_base_floor_pct"`
	StableBaseCeilingPct  float64           `mapstructure:"stable_base_ceiling_pct"`
	Regime                RegimeMultipliers `mapstructure:"regime"`
	SOLStable             TypeProfile       `mapstructure:"sol_stable"`
	LSTStable             TypeProfile       `mapstructure:"lst_stable"`
	SOLLST                TypeProfile       `mapstructure:"sol_lst"`
	LSTLST                TypeProfile       `mapstructure:"lst_lst"`
}

func DefaultConfig() Config {
	stable := Multipliers{Conservative: 2.0, Base: 1.5, Aggressive: 1.0}
	lst := Multipliers{Conservative: 3.0, Base: 2.0, Aggressive: 1.25}
	return Config{
		Version:               1,
		DefaultVolPct:         70,
		MinHalfWidthPct:       2,
		MaxHalfWidthPct:       30,
		StableBaseFloorLowPct: 4,
		StableBaseFloorPct:    5,
		StableBaseCeilingPct:  20,
		Regime:                RegimeMultipliers{Low: 0.85, Moderate: 1.0, High: 1.25},
		SOLStable:             TypeProfile{VolFactor: 1, MinVolPct: 25, MaxVolPct: 180, Multipliers: stable},
		LSTStable:             TypeProfile{VolFactor: 1, MinVolPct: 25, MaxVolPct: 180, Multipliers: stable},
		SOLLST:                TypeProfile{VolFactor: 0.08, MinVolPct: 1.5, MaxVolPct: 20, Multipliers: lst},
		LSTLST:                TypeProfile{VolFactor: 0.05, MinVolPct: 1, MaxVolPct: 15, Multipliers: lst},
	}
}

func (c Config) profile(t model.PoolType) TypeProfile {
	switch t {
	case model.PoolTypeSOLStable:
		return c.SOLStable
	case model.PoolTypeLSTStable:
		return c.LSTStable
	case model.PoolTypeSOLLST:
		return c.SOLLST
	default:
		return c.LSTLST
	}
}

func (c Config) regimeMultiplier(r model.Regime) float64 {
	switch r {
	case model.RegimeLow:
		return c.Regime.Low
	case model.RegimeHigh:
		return c.Regime.High
	default:
		return c.Regime.Moderate
	}
}
