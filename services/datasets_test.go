package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-features/models"
)

func sampleEnriched() *models.Table {
	return models.MustTable(
		models.Ints("id", 1, 2, 3, 4),
		models.NewColumn("price_float", models.TypeFloat, []models.Value{
			models.Float(100), models.Null(), models.Float(300), models.Float(80),
		}),
		models.Ints("accommodates", 2, 4, 6, 1),
		models.NewColumn("booking_rate", models.TypeFloat, []models.Value{
			models.Float(0.5), models.Float(0.1), models.Null(), models.Float(0.9),
		}),
		models.Strings("room_type", "Entire home/apt", "Private room", "Entire home/apt", "Shared room"),
		models.Strings("name", "a", "b", "c", "d"),
		models.NewColumn("instant_bookable", models.TypeBool, []models.Value{
			models.Bool(true), models.Bool(false), models.Null(), models.Bool(true),
		}),
		models.Strings("host_is_superhost", "f", "t", "t", "f"),
	)
}

func TestBuildRegressionDataset(t *testing.T) {
	b := NewDatasetBuilder(newTestLogger())
	ds, err := b.Build(sampleEnriched())
	require.NoError(t, err)

	assert.Equal(t, []string{"price_float", "accommodates", "booking_rate", "room_type"}, ds.Regression.Names())
	assert.Equal(t, 3, ds.Regression.NumRows())
	label, _ := ds.Regression.Column("price_float")
	assert.Zero(t, label.NullCount())
}

func TestBuildClassificationPrefersInstantBookable(t *testing.T) {
	b := NewDatasetBuilder(newTestLogger())
	ds, err := b.Build(sampleEnriched())
	require.NoError(t, err)

	assert.Equal(t, "instant_bookable", ds.ClassTarget)
	assert.Equal(t, []string{"instant_bookable", "accommodates", "booking_rate", "room_type"}, ds.Classification.Names())
	assert.Equal(t, 3, ds.Classification.NumRows())

	label, _ := ds.Classification.Column("instant_bookable")
	assert.Equal(t, models.TypeInt, label.Type)
	assert.Equal(t, []models.Value{models.Int(1), models.Int(0), models.Int(1)}, label.Values)
}

func TestBuildClassificationFallsBackToSuperhost(t *testing.T) {
	b := NewDatasetBuilder(newTestLogger())
	ds, err := b.Build(sampleEnriched().Drop("instant_bookable"))
	require.NoError(t, err)

	assert.Equal(t, "host_is_superhost", ds.ClassTarget)
	label, _ := ds.Classification.Column("host_is_superhost")
	assert.Equal(t, []models.Value{models.Int(0), models.Int(1), models.Int(1), models.Int(0)}, label.Values)
}

func TestBuildWithoutTarget(t *testing.T) {
	b := NewDatasetBuilder(newTestLogger())
	ds, err := b.Build(sampleEnriched().Drop("instant_bookable", "host_is_superhost"))
	require.NoError(t, err)

	assert.Empty(t, ds.ClassTarget)
	assert.Zero(t, ds.Classification.NumRows())
	assert.Zero(t, ds.Classification.NumCols())
	assert.Equal(t, 3, ds.Regression.NumRows())
}

func TestBuildIncludePriceInClassification(t *testing.T) {
	b := NewDatasetBuilder(newTestLogger())
	b.IncludePrice = true
	ds, err := b.Build(sampleEnriched())
	require.NoError(t, err)
	assert.Equal(t, "price_float", ds.Classification.Names()[1])
}

func TestBuildWithoutPrice(t *testing.T) {
	b := NewDatasetBuilder(newTestLogger())
	ds, err := b.Build(sampleEnriched().Drop("price_float"))
	require.NoError(t, err)
	assert.True(t, ds.Regression.IsEmpty())
	assert.False(t, ds.Classification.IsEmpty())
}

func TestBinaryLabelNarrowsToZeroOne(t *testing.T) {
	src := models.NewColumn("instant_bookable", models.TypeFloat, []models.Value{
		models.Float(2), models.Float(0), models.Float(-1), models.Null(),
	})

	got := binaryLabel(src)

	require.Equal(t, models.TypeInt, got.Type)
	assert.Equal(t, int64(1), got.Values[0].I)
	assert.Equal(t, int64(0), got.Values[1].I)
	assert.Equal(t, int64(1), got.Values[2].I)
	assert.True(t, got.Values[3].Null)
}
