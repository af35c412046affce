package model

// MaxShortlistPools caps the shortlist.
const MaxShortlistPools = 2

// ShortlistItem is one selected pool and why it was selected.
type ShortlistItem struct {
	Slot      int        `json:"slot"`
	Pool      PoolRef    `json:"pool"`
	Composite float64    `json:"composite"`
	Reasons   []string   `json:"reasons"`
	Ranked    RankedPool `json:"-"`
}

// Rejection records why a pool was not a shortlist candidate.
type Rejection struct {
	Pool    PoolRef  `json:"pool"`
	Reasons []string `json:"reasons"`
}

// Shortlist is the shortlist stage output.
type Shortlist struct {
	Regime     Regime          `json:"regime"`
	MaxPools   int             `json:"maxPools"`
	Selected   []ShortlistItem `json:"selected"`
	Candidates int             `json:"candidates"`
	Rejected   []Rejection     `json:"rejected,omitempty"`
	Notes      []string        `json:"notes,omitempty"`
}
