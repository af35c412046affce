package model

import "time"

// Regime is the coarse market stress label.
type Regime string

const (
	RegimeLow      Regime = "LOW"
	RegimeModerate Regime = "MODERATE"
	RegimeHigh     Regime = "HIGH"
)

// Valid reports whether r is one of the known labels.
func (r Regime) Valid() bool {
	return r == RegimeLow || r == RegimeModerate || r == RegimeHigh
}

// RegimeMetrics are the raw market inputs behind a regime decision.
// Pointers are nil when the input could not be computed.
type RegimeMetrics struct {
	Vol7dPct          *float64 `json:"vol7dPct"`
	Vol30dPct         *float64 `json:"vol30dPct"`
	VolRatio          *float64 `json:"volRatio"`
	FundingAprPct     *float64 `json:"fundingAprPct"`
	Turnover24h       *float64 `json:"turnover24h"`
	Turnover7dAvg     *float64 `json:"turnover7dAvg"`
	Turnover30dAvg    *float64 `json:"turnover30dAvg"`
	TurnoverTrend     *float64 `json:"turnoverTrend"`
	TurnoverTrendKind string   `json:"turnoverTrendKind"`
	SpotPriceUSD      *float64 `json:"spotPriceUsd,omitempty"`
}

// RegimeSignals are the normalized [0,1] components of the raw score.
type RegimeSignals struct {
	Volatility    float64 `json:"volatility"`
	VolRatio      float64 `json:"volRatio"`
	Funding       float64 `json:"funding"`
	TurnoverTrend float64 `json:"turnoverTrend"`
}

// Hysteresis records how the previous run influenced the label.
type Hysteresis struct {
	PreviousRegime Regime   `json:"previousRegime,omitempty"`
	PreviousScore  *float64 `json:"previousScore,omitempty"`
	Applied        bool     `json:"applied"`
}

// RegimeState is persisted every run and read back by the next one.
type RegimeState struct {
	Regime         Regime        `json:"regime"`
	ProposedRegime Regime        `json:"proposedRegime"`
	Confidence     float64       `json:"confidence"`
	Score          float64       `json:"score"`
	Metrics        RegimeMetrics `json:"metrics"`
	Signals        RegimeSignals `json:"signals"`
	Hysteresis     Hysteresis    `json:"hysteresis"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	Notes          []string      `json:"notes,omitempty"`
}
