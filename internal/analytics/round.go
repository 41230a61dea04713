package analytics

import "math"

// Rounding helpers matching the dashboard's display precision.

func roundN(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

func round1(v float64) float64 { return roundN(v, 1) }
func round2(v float64) float64 { return roundN(v, 2) }
func round3(v float64) float64 { return roundN(v, 3) }
