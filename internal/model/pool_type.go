package model

// PoolType is the pair-type bucket a pool belongs to.
type PoolType string

const (
	PoolTypeSOLStable    PoolType = "SOL-STABLE"
	PoolTypeSOLLST       PoolType = "SOL-LST"
	PoolTypeLSTStable    PoolType = "LST-STABLE"
	PoolTypeLSTLST       PoolType = "LST-LST"
	PoolTypeStableStable PoolType = "STABLE-STABLE"
)

// AllPoolTypes lists every bucket in display order.
var AllPoolTypes = []PoolType{
	PoolTypeSOLStable,
	PoolTypeSOLLST,
	PoolTypeLSTStable,
	PoolTypeLSTLST,
	PoolTypeStableStable,
}

// StableAnchored reports whether one side of the pair is a stablecoin.
func (t PoolType) StableAnchored() bool {
	switch t {
	case PoolTypeSOLStable, PoolTypeLSTStable, PoolTypeStableStable:
		return true
	default:
		return false
	}
}

// Visible reports whether the bucket may appear in ranked, shortlisted or allocated output.
func (t PoolType) Visible() bool {
	return t != PoolTypeStableStable && t != ""
}
