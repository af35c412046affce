package model

// AllocationItem is one pool's integer capital weight.
type AllocationItem struct {
	Pool      PoolRef `json:"pool"`
	WeightPct int     `json:"weightPct"`
}

// Allocation is the allocation stage output.
type Allocation struct {
	Regime Regime           `json:"regime"`
	Items  []AllocationItem `json:"allocations"`
	Hints  []float64        `json:"hints,omitempty"`
	Notes  []string         `json:"notes,omitempty"`
}
