package dataset

import (
	"math"
	"math/rand"

	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// Split holds the row indexes of the two partitions. The index sets are
// disjoint and together cover every row.
type Split struct {
	TrainIndex []int
	TestIndex  []int
}

// TestSize returns the number of test rows for n rows at the given fraction.
func TestSize(n int, testFraction float64) int {
	return int(math.Round(float64(n) * testFraction))
}

// TrainTestSplit assigns n rows to a test and a train partition. The rows
// are permuted with a generator seeded by seed; the first TestSize(n,
// testFraction) permuted rows become the test partition and the remaining
// rows the train partition, both in permutation order.
func TrainTestSplit(n int, testFraction float64, seed int64) (Split, error) {
	if n < 0 {
		return Split{}, errors.NewValidationError("n", "must be non-negative", n)
	}
	if math.IsNaN(testFraction) || testFraction <= 0 || testFraction >= 1 {
		return Split{}, errors.NewValidationError("test_fraction", "must be in (0, 1)", testFraction)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := TestSize(n, testFraction)

	return Split{
		TrainIndex: perm[nTest:],
		TestIndex:  perm[:nTest],
	}, nil
}

// Apply returns the train and test partitions of t.
func (s Split) Apply(t Table) (train, test Table, err error) {
	if train, err = t.Subset(s.TrainIndex); err != nil {
		return Table{}, Table{}, err
	}
	if test, err = t.Subset(s.TestIndex); err != nil {
		return Table{}, Table{}, err
	}
	return train, test, nil
}
