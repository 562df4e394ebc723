package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"airbnb-features/models"
)

func TestXLSXWriterOneSheetPerArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report", "artifacts.xlsx")
	w, err := NewXLSXWriter(path)
	require.NoError(t, err)

	xr := models.MustTable(models.Floats("accommodates", 2, 4), models.Floats("bedrooms", 1, 2))
	yr := models.MustTable(models.Floats("price_float", 100, 250))
	require.NoError(t, w.WriteTable(models.ArtifactXReg, xr))
	require.NoError(t, w.WriteTable(models.ArtifactYReg, yr))
	require.NoError(t, w.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{models.ArtifactXReg, models.ArtifactYReg}, f.GetSheetList())

	rows, err := f.GetRows(models.ArtifactXReg)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"accommodates", "bedrooms"}, rows[0])
	assert.Equal(t, []string{"4", "2"}, rows[2])
}

func TestCellValueNullIsBlank(t *testing.T) {
	assert.Nil(t, cellValue(models.Null(), models.TypeFloat))
	assert.Equal(t, int64(3), cellValue(models.Int(3), models.TypeInt))
	assert.Equal(t, "x", cellValue(models.Str("x"), models.TypeString))
}
