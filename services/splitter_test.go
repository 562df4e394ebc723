package services

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-features/models"
)

func sequenceMatrix(n int, label string, labelType models.Type, classOf func(i int) int64) *FeatureMatrix {
	ids := make([]float64, n)
	labels := make([]models.Value, n)
	for i := range ids {
		ids[i] = float64(i)
		if labelType == models.TypeInt {
			labels[i] = models.Int(classOf(i))
		} else {
			labels[i] = models.Float(float64(i) * 10)
		}
	}
	return &FeatureMatrix{
		Features: models.MustTable(models.Floats("row", ids...)),
		Label:    models.NewColumn(label, labelType, labels),
	}
}

func rowsOf(t *testing.T, tbl *models.Table) []int {
	t.Helper()
	col, ok := tbl.Column("row")
	require.True(t, ok)
	out := make([]int, col.Len())
	for i, v := range col.Values {
		out[i] = int(v.F)
	}
	return out
}

func emptyMatrix(label string, typ models.Type) *FeatureMatrix {
	return &FeatureMatrix{Features: models.EmptyTable(), Label: models.NewColumn(label, typ, nil)}
}

func TestSplitIsCompleteAndDisjoint(t *testing.T) {
	s := NewSplitter(newTestLogger(), DefaultSplitOptions())
	reg := sequenceMatrix(50, "price_float", models.TypeFloat, nil)

	out, err := s.Split(reg, emptyMatrix("instant_bookable", models.TypeInt))
	require.NoError(t, err)

	train := rowsOf(t, out.Regression.XTrain)
	test := rowsOf(t, out.Regression.XTest)
	assert.Len(t, test, 10)
	assert.Len(t, train, 40)
	assert.Equal(t, 40, out.Regression.YTrain.Len())

	all := append(append([]int{}, train...), test...)
	sort.Ints(all)
	for i, r := range all {
		assert.Equal(t, i, r, "every row appears exactly once")
	}

	// labels stay aligned with their feature rows
	for i, r := range test {
		assert.Equal(t, float64(r)*10, out.Regression.YTest.Values[i].F)
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	reg := sequenceMatrix(40, "price_float", models.TypeFloat, nil)
	clf := sequenceMatrix(40, "instant_bookable", models.TypeInt, func(i int) int64 { return int64(i % 2) })

	a, err := NewSplitter(newTestLogger(), DefaultSplitOptions()).Split(reg, clf)
	require.NoError(t, err)
	b, err := NewSplitter(newTestLogger(), DefaultSplitOptions()).Split(reg, clf)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := NewSplitter(newTestLogger(), SplitOptions{TestSize: 0.2, RandomState: 7}).Split(reg, clf)
	require.NoError(t, err)
	assert.NotEqual(t, rowsOf(t, a.Regression.XTest), rowsOf(t, other.Regression.XTest))
}

func TestSplitStratifiesClasses(t *testing.T) {
	s := NewSplitter(newTestLogger(), SplitOptions{TestSize: 0.25, RandomState: 42})
	// 30 negatives, 10 positives
	clf := sequenceMatrix(40, "instant_bookable", models.TypeInt, func(i int) int64 {
		if i%4 == 0 {
			return 1
		}
		return 0
	})

	out, err := s.Split(emptyMatrix("price_float", models.TypeFloat), clf)
	require.NoError(t, err)
	assert.True(t, out.Stratified)
	require.Equal(t, 10, out.Classification.YTest.Len())

	positives := 0
	for _, v := range out.Classification.YTest.Values {
		positives += int(v.I)
	}
	assert.Equal(t, 3, positives, "a quarter of the test rows, rounded by largest remainder")
	assert.True(t, out.Regression.XTrain.IsEmpty())
	assert.Zero(t, out.Regression.YTest.Len())
}

func TestSplitFallsBackWhenStratificationImpossible(t *testing.T) {
	s := NewSplitter(newTestLogger(), DefaultSplitOptions())
	clf := sequenceMatrix(10, "instant_bookable", models.TypeInt, func(i int) int64 {
		if i == 0 {
			return 1
		}
		return 0
	})

	out, err := s.Split(emptyMatrix("price_float", models.TypeFloat), clf)
	require.NoError(t, err)
	assert.False(t, out.Stratified)
	assert.Equal(t, 2, out.Classification.YTest.Len())
	assert.Equal(t, 8, out.Classification.YTrain.Len())
}

func TestSplitRejectsBadTestSize(t *testing.T) {
	s := NewSplitter(newTestLogger(), SplitOptions{TestSize: 1.5})
	_, err := s.Split(emptyMatrix("price_float", models.TypeFloat), emptyMatrix("instant_bookable", models.TypeInt))
	assert.ErrorIs(t, err, ErrInvalidTestSize)
}

func TestSplitSingleRowStaysInTrain(t *testing.T) {
	s := NewSplitter(newTestLogger(), DefaultSplitOptions())
	out, err := s.Split(sequenceMatrix(1, "price_float", models.TypeFloat, nil), emptyMatrix("instant_bookable", models.TypeInt))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Regression.YTrain.Len())
	assert.Zero(t, out.Regression.YTest.Len())
}

func TestAllocateLargestRemainder(t *testing.T) {
	assert.Equal(t, []int{7, 3}, allocate([]int{30, 10}, 40, 10))
	assert.Equal(t, []int{1, 1}, allocate([]int{2, 2}, 4, 2))
}

func TestSplitKeepsFeatureRowsAlignedWithoutColumns(t *testing.T) {
	m := &FeatureMatrix{
		Features: models.EmptyTableWithRows(5),
		Label:    models.Floats("price_float", 1, 2, 3, 4, 5),
	}
	s := NewSplitter(newTestLogger(), DefaultSplitOptions())

	out, err := s.Split(m, emptyMatrix("instant_bookable", models.TypeInt))
	require.NoError(t, err)

	r := out.Regression
	assert.Equal(t, r.YTrain.Len(), r.XTrain.NumRows())
	assert.Equal(t, r.YTest.Len(), r.XTest.NumRows())
	assert.Equal(t, 5, r.XTrain.NumRows()+r.XTest.NumRows())
	assert.Equal(t, 1, r.XTest.NumRows())
}
