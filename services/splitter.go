package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"airbnb-features/models"
	"airbnb-features/utils"
)

var (
	// ErrStratifyInfeasible is returned when the classes are too small to keep
	// their proportions on both sides of a split.
	ErrStratifyInfeasible = errors.New("stratified split infeasible")
	// ErrInvalidTestSize is returned for a test fraction outside (0, 1).
	ErrInvalidTestSize = errors.New("test size must be between 0 and 1")
)

// SplitOptions are the partition parameters.
type SplitOptions struct {
	TestSize    float64
	RandomState int64
}

func DefaultSplitOptions() SplitOptions {
	return SplitOptions{TestSize: 0.2, RandomState: 42}
}

// Split holds the train and test halves of one feature matrix.
type Split struct {
	XTrain, XTest *models.Table
	YTrain, YTest *models.Column
}

// Splits holds the regression and classification partitions.
type Splits struct {
	Regression     Split
	Classification Split
	// Stratified is false when the classification split fell back to a plain
	// random partition.
	Stratified bool
}

// Splitter partitions feature matrices into train and test subsets.
type Splitter struct {
	logger *utils.Logger
	opts   SplitOptions
}

func NewSplitter(logger *utils.Logger, opts SplitOptions) *Splitter {
	return &Splitter{logger: logger, opts: opts}
}

// Split partitions both matrices. The regression split is random, the
// classification split stratified by label when the classes allow it. Same
// inputs and options always give the same partition.
func (s *Splitter) Split(reg, clf *FeatureMatrix) (*Splits, error) {
	if !(s.opts.TestSize > 0 && s.opts.TestSize < 1) {
		return nil, fmt.Errorf("splitter: %v: %w", s.opts.TestSize, ErrInvalidTestSize)
	}
	out := &Splits{}

	n := labelLen(reg)
	train, test := randomPartition(n, testCount(n, s.opts.TestSize), s.rng())
	out.Regression = takeSplit(reg, models.ColPriceFloat, models.TypeFloat, train, test)

	n = labelLen(clf)
	nTest := testCount(n, s.opts.TestSize)
	train, test = nil, nil
	if n > 0 {
		var err error
		train, test, err = stratifiedPartition(clf.Label, nTest, s.rng())
		if err != nil {
			s.logger.Warn("[splitter] %v, falling back to a random split", err)
			train, test = randomPartition(n, nTest, s.rng())
		} else {
			out.Stratified = true
		}
	}
	out.Classification = takeSplit(clf, TargetPreference[0], models.TypeInt, train, test)

	s.logger.Info("[splitter] Regression train/test %d/%d | Classification train/test %d/%d (stratified: %t)",
		len(out.Regression.YTrain.Values), len(out.Regression.YTest.Values),
		len(out.Classification.YTrain.Values), len(out.Classification.YTest.Values), out.Stratified)
	return out, nil
}

// rng returns a fresh generator so each partition starts from the seed.
func (s *Splitter) rng() *rand.Rand {
	seed := uint64(s.opts.RandomState)
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func labelLen(m *FeatureMatrix) int {
	if m.IsEmpty() {
		return 0
	}
	return m.Label.Len()
}

// testCount rounds the test share up and keeps at least one training row.
func testCount(n int, testSize float64) int {
	if n <= 1 {
		return 0
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest > n-1 {
		nTest = n - 1
	}
	return nTest
}

func randomPartition(n, nTest int, rng *rand.Rand) (train, test []int) {
	perm := rng.Perm(n)
	return perm[nTest:], perm[:nTest]
}

// stratifiedPartition allocates test rows to each class in proportion to its
// size. Every class needs at least two members, and both sides need room for
// one row per class.
func stratifiedPartition(labels *models.Column, nTest int, rng *rand.Rand) (train, test []int, err error) {
	t := models.MustTable(labels)
	groups, err := t.GroupBy(labels.Name)
	if err != nil {
		return nil, nil, err
	}
	n := labels.Len()
	for _, g := range groups {
		if len(g.Rows) < 2 {
			return nil, nil, fmt.Errorf("class %s has %d member: %w", g.Key.Format(labels.Type), len(g.Rows), ErrStratifyInfeasible)
		}
	}
	if nTest < len(groups) || n-nTest < len(groups) {
		return nil, nil, fmt.Errorf("%d classes for %d test and %d train rows: %w",
			len(groups), nTest, n-nTest, ErrStratifyInfeasible)
	}

	counts := make([]int, len(groups))
	for i, g := range groups {
		counts[i] = len(g.Rows)
	}
	alloc := allocate(counts, n, nTest)

	for i, g := range groups {
		rows := append([]int(nil), g.Rows...)
		rng.Shuffle(len(rows), func(a, b int) { rows[a], rows[b] = rows[b], rows[a] })
		test = append(test, rows[:alloc[i]]...)
		train = append(train, rows[alloc[i]:]...)
	}
	rng.Shuffle(len(test), func(a, b int) { test[a], test[b] = test[b], test[a] })
	rng.Shuffle(len(train), func(a, b int) { train[a], train[b] = train[b], train[a] })
	return train, test, nil
}

// allocate splits total across classes of n rows by largest remainder, leaving
// every class at least one row on the training side.
func allocate(counts []int, n, total int) []int {
	type remainder struct {
		class int
		frac  float64
	}
	alloc := make([]int, len(counts))
	rems := make([]remainder, len(counts))
	assigned := 0
	for i, c := range counts {
		exact := float64(c) * float64(total) / float64(n)
		alloc[i] = min(int(math.Floor(exact)), c-1)
		assigned += alloc[i]
		rems[i] = remainder{class: i, frac: exact - math.Floor(exact)}
	}
	// equal remainders favour the smaller class
	sort.SliceStable(rems, func(a, b int) bool {
		if rems[a].frac != rems[b].frac {
			return rems[a].frac > rems[b].frac
		}
		return counts[rems[a].class] < counts[rems[b].class]
	})

	for assigned < total {
		progressed := false
		for _, r := range rems {
			if assigned == total {
				break
			}
			if alloc[r.class] < counts[r.class]-1 {
				alloc[r.class]++
				assigned++
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return alloc
}

func takeSplit(m *FeatureMatrix, label string, labelType models.Type, train, test []int) Split {
	if m.IsEmpty() {
		return Split{
			XTrain: models.EmptyTable(), XTest: models.EmptyTable(),
			YTrain: models.NewColumn(label, labelType, nil), YTest: models.NewColumn(label, labelType, nil),
		}
	}
	return Split{
		XTrain: m.Features.Take(train),
		XTest:  m.Features.Take(test),
		YTrain: m.Label.Take(train),
		YTest:  m.Label.Take(test),
	}
}
