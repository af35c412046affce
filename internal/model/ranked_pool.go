package model

// Depth is an estimate of USD tradable within a price band.
// It is a heuristic; Provenance says which path produced it.
type Depth struct {
	Plus1PctUSD  float64 `json:"plus1PctUsd"`
	Minus1PctUSD float64 `json:"minus1PctUsd"`
	Plus2PctUSD  float64 `json:"plus2PctUsd"`
	Minus2PctUSD float64 `json:"minus2PctUsd"`
	Ratio1Pct    float64 `json:"ratio1Pct"`
	Provenance   string  `json:"provenance"`
}

// ScoreComponents is the breakdown of a pool score before the stability scaling.
type ScoreComponents struct {
	FeeAprNorm      float64 `json:"feeAprNorm"`
	TurnoverNorm    float64 `json:"turnoverNorm"`
	DepthNorm       float64 `json:"depthNorm"`
	TVLNorm         float64 `json:"tvlNorm"`
	ValidationBonus float64 `json:"validationBonus"`
	RewardPenalty   float64 `json:"rewardPenalty"`
}

// RankedPool is a classified, scored pool.
type RankedPool struct {
	Pool
	Type              PoolType        `json:"type"`
	FeeAprPct         float64         `json:"feeAprPct"`
	RewardAprPct      float64         `json:"rewardAprPct"`
	VolumeTvl         float64         `json:"volumeTvl"`
	Depth             Depth           `json:"depth"`
	Validated         *bool           `json:"validated,omitempty"`
	BaseScore         float64         `json:"baseScore"`
	Score             float64         `json:"score"`
	Rank              int             `json:"rank"`
	StabilityScore    float64         `json:"stabilityScore"`
	StabilityNote     string          `json:"stabilityNote,omitempty"`
	Components        ScoreComponents `json:"components"`
	Eligible          bool            `json:"eligible"`
	IneligibleReasons []string        `json:"ineligibleReasons,omitempty"`
}

// PoolRef is the compact pool reference used by downstream outputs.
type PoolRef struct {
	Address string   `json:"address"`
	Pair    string   `json:"pair"`
	Type    PoolType `json:"type"`
	Score   float64  `json:"score"`
	Rank    int      `json:"rank"`
}

// Ref builds a PoolRef for p.
func (p RankedPool) Ref() PoolRef {
	return PoolRef{
		Address: p.Address,
		Pair:    p.Pair(),
		Type:    p.Type,
		Score:   p.Score,
		Rank:    p.Rank,
	}
}
