package ml

import (
	"fmt"
	"math"
	"math/rand"
)

// TrainTestSplit partitions row indices [0, n) into shuffled train and test
// sets. The shuffle is seeded, so a given (n, testFrac, seed) always yields
// the same partition.
func TrainTestSplit(n int, testFrac float64, seed int64) (train, test []int, err error) {
	if testFrac <= 0 || testFrac >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %v", testFrac)
	}

	testCount := int(math.Ceil(float64(n) * testFrac))
	if testCount < 1 || n-testCount < 1 {
		return nil, nil, fmt.Errorf("insufficient rows for a train/test split: %d rows at test fraction %v", n, testFrac)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[testCount:], perm[:testCount], nil
}
