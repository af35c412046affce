package regime

import (
	"math"

	"orcaScanner/internal/model"
)

// LogReturns returns daily log returns, skipping non-positive prices.
func LogReturns(prices []float64) []float64 {
	out := make([]float64, 0, len(prices))
	prev := 0.0
	for _, p := range prices {
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			continue
		}
		if prev > 0 {
			out = append(out, math.Log(p/prev))
		}
		prev = p
	}
	return out
}

// RealizedVol annualizes the sample stdev of the trailing window returns, in percent.
// ok is false when fewer than window returns are available.
func RealizedVol(returns []float64, window int) (float64, bool) {
	if window < 2 || len(returns) < window {
		return 0, false
	}
	tail := returns[len(returns)-window:]
	var sum float64
	for _, r := range tail {
		sum += r
	}
	mean := sum / float64(len(tail))
	var sq float64
	for _, r := range tail {
		d := r - mean
		sq += d * d
	}
	stdev := math.Sqrt(sq / float64(len(tail)-1))
	return stdev * math.Sqrt(365) * 100, true
}

// Turnover is the aggregate volume/TVL of a pool universe.
type Turnover struct {
	Day      *float64
	WeekAvg  *float64
	MonthAvg *float64
}

// AggregateTurnover computes Σvolume/ΣTVL for the 24h window and the daily
// averages of the 7d and 30d windows.
func AggregateTurnover(pools []model.Pool) Turnover {
	var tvl, day, week, month float64
	for _, pool := range pools {
		if pool.TVLUSD <= 0 {
			continue
		}
		tvl += pool.TVLUSD
		day += pool.Stats24h.VolumeUSD
		week += pool.Stats7d.VolumeUSD / 7
		month += pool.Stats30d.VolumeUSD / 30
	}
	if tvl <= 0 {
		return Turnover{}
	}
	out := Turnover{}
	d := day / tvl
	out.Day = &d
	if week > 0 {
		w := week / tvl
		out.WeekAvg = &w
	}
	if month > 0 {
		m := month / tvl
		out.MonthAvg = &m
	}
	return out
}
