package allocation

// Config holds the regime weight hints.
type Config struct {
	Version        int       `mapstructure:"version"`
	Low            []float64 `mapstructure:"low"`
	LowExceptional []float64 `mapstructure:"low_exceptional"`
	Moderate       []float64 `mapstructure:"moderate"`
	High           []float64 `mapstructure:"high"`
}

func DefaultConfig() Config {
	return Config{
		Version:        1,
		Low:            []float64{70, 30},
		LowExceptional: []float64{80, 20},
		Moderate:       []float64{60, 40},
		High:           []float64{50, 50},
	}
}
