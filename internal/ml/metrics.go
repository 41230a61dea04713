package ml

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RSquared computes the coefficient of determination of predictions against
// observed values. A model predicting the mean scores 0; a perfect model
// scores 1. Returns 0 when the observed values have no variance.
func RSquared(observed, predicted []float64) float64 {
	if len(observed) == 0 || len(observed) != len(predicted) {
		return 0
	}

	mean := stat.Mean(observed, nil)
	var ssRes, ssTot float64
	for i, y := range observed {
		ssRes += (y - predicted[i]) * (y - predicted[i])
		ssTot += (y - mean) * (y - mean)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// MeanAbsoluteError computes the mean absolute prediction error
func MeanAbsoluteError(observed, predicted []float64) float64 {
	if len(observed) == 0 || len(observed) != len(predicted) {
		return 0
	}

	var sum float64
	for i, y := range observed {
		sum += math.Abs(y - predicted[i])
	}
	return sum / float64(len(observed))
}

// roundTo rounds v to the given number of decimal places
func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
