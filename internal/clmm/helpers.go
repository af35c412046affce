package clmm

import "math"

func sqrtFactor(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}
