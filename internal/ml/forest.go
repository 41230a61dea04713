package ml

import (
	"fmt"
	"math/rand"
)

// ForestRegressor is a bagged ensemble of regression trees. Trees are grown
// on bootstrap samples and predictions are averaged across the ensemble.
// Seeding is deterministic, so the same data and configuration always
// produce the same forest.
type ForestRegressor struct {
	NumTrees int
	MaxDepth int
	Seed     int64

	trees       []*regressionTree
	importances []float64
}

// NewForestRegressor returns an unfitted forest with the given configuration
func NewForestRegressor(numTrees, maxDepth int, seed int64) *ForestRegressor {
	return &ForestRegressor{NumTrees: numTrees, MaxDepth: maxDepth, Seed: seed}
}

// Fit trains the ensemble on the given feature matrix and targets
func (f *ForestRegressor) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("mismatched training data: %d feature rows, %d targets", len(x), len(y))
	}
	if f.NumTrees < 1 || f.MaxDepth < 1 {
		return fmt.Errorf("invalid forest configuration: %d trees, depth %d", f.NumTrees, f.MaxDepth)
	}

	rng := rand.New(rand.NewSource(f.Seed))
	n := len(x)

	f.trees = make([]*regressionTree, f.NumTrees)
	f.importances = make([]float64, featureCount(x))

	for i := range f.trees {
		sample := make([]int, n)
		for j := range sample {
			sample[j] = rng.Intn(n)
		}
		f.trees[i] = fitTree(x, y, sample, f.MaxDepth)
	}

	f.accumulateImportances()
	return nil
}

// accumulateImportances averages per-tree impurity decreases and normalizes
// them to sum to 1.
func (f *ForestRegressor) accumulateImportances() {
	for _, tree := range f.trees {
		for j, imp := range tree.importances {
			f.importances[j] += imp
		}
	}

	var total float64
	for _, imp := range f.importances {
		total += imp
	}
	if total == 0 {
		return
	}
	for j := range f.importances {
		f.importances[j] /= total
	}
}

// Predict averages the tree predictions for a single feature vector
func (f *ForestRegressor) Predict(row []float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}
	var sum float64
	for _, tree := range f.trees {
		sum += tree.predict(row)
	}
	return sum / float64(len(f.trees))
}

// FeatureImportances returns the normalized impurity-decrease importance of
// each feature. The slice sums to 1 unless no split was ever made.
func (f *ForestRegressor) FeatureImportances() []float64 {
	out := make([]float64, len(f.importances))
	copy(out, f.importances)
	return out
}
