package model

// Severity of an alert.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarn     Severity = "warn"
	SeverityCritical Severity = "critical"
)

// AlertKind enumerates the alert types.
type AlertKind string

const (
	AlertFundingSpike       AlertKind = "funding_spike"
	AlertTurnoverCollapse   AlertKind = "turnover_collapse"
	AlertTVLFlight          AlertKind = "tvl_flight"
	AlertDepthCollapse      AlertKind = "depth_collapse"
	AlertRangeEdgeProximity AlertKind = "range_edge_proximity"
	AlertRegimeChange       AlertKind = "regime_change"
)

// AlertMetric is the machine-readable part of an alert.
type AlertMetric struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
}

// Alert is a threshold breach.
type Alert struct {
	Severity Severity    `json:"severity"`
	Kind     AlertKind   `json:"kind"`
	Pool     *PoolRef    `json:"pool,omitempty"`
	Message  string      `json:"message"`
	Metric   AlertMetric `json:"metric"`
}
