package model

import "time"

// LedgerEntry is one append-only performance ledger row.
type LedgerEntry struct {
	RunID         string   `json:"runId"`
	Timestamp     string   `json:"timestamp"`
	Regime        Regime   `json:"regime"`
	RegimeScore   float64  `json:"regimeScore"`
	FundingAprPct *float64 `json:"fundingAprPct,omitempty"`
	ShortlistSize int      `json:"shortlistSize"`
	Shortlist     []string `json:"shortlist"`
	AlertCount    int      `json:"alertCount"`
}

// Time parses the entry timestamp. ok is false when the timestamp is unusable.
func (e LedgerEntry) Time() (time.Time, bool) {
	ts, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}

// EventTime satisfies eventlog.Record. Unparseable timestamps map to the zero time.
func (e LedgerEntry) EventTime() time.Time {
	ts, _ := e.Time()
	return ts
}

// PerformanceSummary is the rolling aggregation over the ledger.
type PerformanceSummary struct {
	WindowDays         int            `json:"windowDays"`
	AsOf               string         `json:"asOf,omitempty"`
	Entries            int            `json:"entries"`
	LatestRegime       Regime         `json:"latestRegime,omitempty"`
	RegimeCounts       map[Regime]int `json:"regimeCounts"`
	RegimeChanges      int            `json:"regimeChanges"`
	AvgFundingAprPct   *float64       `json:"avgFundingAprPct"`
	FundingSamples     int            `json:"fundingSamples"`
	AvgShortlistSize   float64        `json:"avgShortlistSize"`
	TotalAlerts        int            `json:"totalAlerts"`
	ShortlistFrequency map[string]int `json:"shortlistFrequency"`
	Notes              []string       `json:"notes,omitempty"`
}
