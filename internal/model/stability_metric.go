package model

// StabilityMetric summarizes how steady a pool's daily turnover has been.
type StabilityMetric struct {
	Address        string  `json:"address"`
	StabilityScore float64 `json:"stabilityScore"`
	MeanVolTvl7d   float64 `json:"meanVolTvl7d"`
	StdevVolTvl7d  float64 `json:"stdevVolTvl7d"`
	Days           int     `json:"days"`
	Note           string  `json:"note,omitempty"`
}
