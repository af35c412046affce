package model

// Token identifies one side of a pool.
type Token struct {
	Mint     string `json:"mint"`
	Symbol   string `json:"symbol"`
	Decimals *uint8 `json:"decimals,omitempty"`
}

// WindowStats holds trailing USD flows for one window.
type WindowStats struct {
	VolumeUSD  float64 `json:"volumeUsd"`
	FeesUSD    float64 `json:"feesUsd"`
	RewardsUSD float64 `json:"rewardsUsd"`
}

// Pool is a concentrated-liquidity pool as returned by the pool provider.
// Liquidity and SqrtPrice keep the on-chain integer encoding (u128, Q64.64).
type Pool struct {
	Address       string      `json:"address"`
	TokenA        Token       `json:"tokenA"`
	TokenB        Token       `json:"tokenB"`
	FeeRate       float64     `json:"feeRate"`
	TickSpacing   int32       `json:"tickSpacing"`
	Liquidity     string      `json:"liquidity,omitempty"`
	SqrtPrice     string      `json:"sqrtPrice,omitempty"`
	Price         float64     `json:"price"`
	TVLUSD        float64     `json:"tvlUsd"`
	Stats24h      WindowStats `json:"stats24h"`
	Stats7d       WindowStats `json:"stats7d"`
	Stats30d      WindowStats `json:"stats30d"`
	ActiveRewards int         `json:"activeRewards"`
}

// Pair renders the pool's symbols as "A/B".
func (p Pool) Pair() string {
	return p.TokenA.Symbol + "/" + p.TokenB.Symbol
}

// Uint8 returns a pointer to v. Convenient for Token.Decimals literals.
func Uint8(v uint8) *uint8 {
	return &v
}
