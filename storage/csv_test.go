package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-features/models"
)

func TestReadCSVInfersTypes(t *testing.T) {
	in := "\ufeffid,price,instant_bookable,rate\n1,$100.00,t,0.5\n2,,f,\n"

	tbl, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "price", "instant_bookable", "rate"}, tbl.Names())
	assert.Equal(t, 2, tbl.NumRows())

	id, _ := tbl.Column("id")
	assert.Equal(t, models.TypeInt, id.Type)
	price, _ := tbl.Column("price")
	assert.Equal(t, models.TypeString, price.Type)
	assert.True(t, price.Values[1].Null)
	rate, _ := tbl.Column("rate")
	assert.Equal(t, models.TypeFloat, rate.Type)
}

func TestReadCSVEmptyInput(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, tbl.IsEmpty())
}

func TestReadCSVRejectsRaggedRows(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2\n3\n"))
	assert.Error(t, err)
}

func TestCSVReaderEmptyPathIsEmptyTable(t *testing.T) {
	r := NewCSVReader(map[string]string{models.ArtifactReviews: ""})

	tbl, err := r.ReadTable(models.ArtifactReviews)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumCols())

	_, err = r.ReadTable("unknown")
	assert.Error(t, err)
}

func TestCSVWriterRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w, err := NewCSVWriter(dir)
	require.NoError(t, err)

	src := models.MustTable(
		models.Strings("listing_id", "L1", "L2"),
		models.Floats("booking_rate", 0.5, 1),
		models.NewColumn("instant_bookable", models.TypeBool, []models.Value{models.Bool(true), models.Null()}),
	)
	require.NoError(t, w.WriteTable(models.ArtifactCalendarAgg, src))
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(w.Path(models.ArtifactCalendarAgg))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "listing_id,booking_rate,instant_bookable\n"))

	r := NewCSVReader(map[string]string{"agg": w.Path(models.ArtifactCalendarAgg)})
	got, err := r.ReadTable("agg")
	require.NoError(t, err)

	assert.Equal(t, src.Names(), got.Names())
	rate, _ := got.Column("booking_rate")
	assert.Equal(t, 0.5, rate.Values[0].F)
	ib, _ := got.Column("instant_bookable")
	assert.Equal(t, models.TypeBool, ib.Type)
	assert.True(t, ib.Values[1].Null)
}
