package ml

import (
	"sort"
)

// regressionTree is a CART-style regression tree trained on variance
// reduction. Trees are grown depth-first until maxDepth or until a node
// cannot be split further.
type regressionTree struct {
	root        *treeNode
	importances []float64
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

const minSamplesSplit = 2

// fitTree grows a tree on the given sample index subset of x/y.
func fitTree(x [][]float64, y []float64, indices []int, maxDepth int) *regressionTree {
	t := &regressionTree{importances: make([]float64, featureCount(x))}
	t.root = t.grow(x, y, indices, maxDepth, len(indices))
	return t
}

func featureCount(x [][]float64) int {
	if len(x) == 0 {
		return 0
	}
	return len(x[0])
}

func (t *regressionTree) grow(x [][]float64, y []float64, indices []int, depth, totalSamples int) *treeNode {
	mean, variance := meanVariance(y, indices)
	if depth <= 0 || len(indices) < minSamplesSplit || variance == 0 {
		return &treeNode{leaf: true, value: mean}
	}

	feature, threshold, gain, left, right := bestSplit(x, y, indices, variance)
	if gain <= 0 || len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: mean}
	}

	// Importance: impurity decrease weighted by the fraction of samples
	// reaching this node.
	t.importances[feature] += gain * float64(len(indices)) / float64(totalSamples)

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.grow(x, y, left, depth-1, totalSamples),
		right:     t.grow(x, y, right, depth-1, totalSamples),
	}
}

// bestSplit scans every feature and candidate threshold for the split with
// the largest variance reduction.
func bestSplit(x [][]float64, y []float64, indices []int, parentVariance float64) (feature int, threshold, gain float64, left, right []int) {
	feature = -1
	n := float64(len(indices))

	for f := 0; f < featureCount(x); f++ {
		sorted := make([]int, len(indices))
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool { return x[sorted[a]][f] < x[sorted[b]][f] })

		// Prefix sums allow O(1) variance for each candidate cut point.
		var sumLeft, sqLeft float64
		var sumRight, sqRight float64
		for _, idx := range sorted {
			sumRight += y[idx]
			sqRight += y[idx] * y[idx]
		}

		for i := 0; i < len(sorted)-1; i++ {
			idx := sorted[i]
			sumLeft += y[idx]
			sqLeft += y[idx] * y[idx]
			sumRight -= y[idx]
			sqRight -= y[idx] * y[idx]

			if x[sorted[i]][f] == x[sorted[i+1]][f] {
				continue
			}

			nl := float64(i + 1)
			nr := n - nl
			varLeft := sqLeft/nl - (sumLeft/nl)*(sumLeft/nl)
			varRight := sqRight/nr - (sumRight/nr)*(sumRight/nr)
			g := parentVariance - (nl/n)*varLeft - (nr/n)*varRight

			if g > gain {
				gain = g
				feature = f
				threshold = (x[sorted[i]][f] + x[sorted[i+1]][f]) / 2
				left = append([]int(nil), sorted[:i+1]...)
				right = append([]int(nil), sorted[i+1:]...)
			}
		}
	}

	return feature, threshold, gain, left, right
}

func meanVariance(y []float64, indices []int) (mean, variance float64) {
	if len(indices) == 0 {
		return 0, 0
	}
	for _, idx := range indices {
		mean += y[idx]
	}
	mean /= float64(len(indices))
	for _, idx := range indices {
		d := y[idx] - mean
		variance += d * d
	}
	variance /= float64(len(indices))
	return mean, variance
}

// predict walks the tree for one feature vector
func (t *regressionTree) predict(row []float64) float64 {
	node := t.root
	for !node.leaf {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}
