package model

// Enrichment is the best-effort on-chain view of a pool account.
// Reason is set when the lookup failed or the account did not validate.
type Enrichment struct {
	Address     string  `json:"address"`
	Validated   bool    `json:"validated"`
	Liquidity   string  `json:"liquidity,omitempty"`
	SqrtPrice   string  `json:"sqrtPrice,omitempty"`
	TickCurrent int32   `json:"tickCurrent"`
	TickSpacing int32   `json:"tickSpacing,omitempty"`
	FeeRate     float64 `json:"feeRate,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}
