package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-features/models"
)

type mapReader struct {
	tables map[string]*models.Table
	fail   string
}

func (m mapReader) ReadTable(name string) (*models.Table, error) {
	if name == m.fail {
		return nil, errors.New("boom")
	}
	return m.tables[name], nil
}

type recordingWriter struct {
	mu    sync.Mutex
	names []string
}

func (r *recordingWriter) WriteTable(name string, _ *models.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	return nil
}

func (r *recordingWriter) Close() error { return nil }

func TestLoadInputsReadsEveryTable(t *testing.T) {
	reader := mapReader{tables: map[string]*models.Table{
		models.ArtifactListings: models.MustTable(models.Ints("id", 1)),
		models.ArtifactCalendar: models.MustTable(models.Ints("listing_id", 1, 1)),
		models.ArtifactReviews:  models.EmptyTable(),
	}}

	got, err := LoadInputs(context.Background(), reader, models.InputArtifacts)
	require.NoError(t, err)

	assert.Len(t, got, 3)
	assert.Equal(t, 2, got[models.ArtifactCalendar].NumRows())
}

func TestLoadInputsReportsFailure(t *testing.T) {
	reader := mapReader{fail: models.ArtifactCalendar}

	_, err := LoadInputs(context.Background(), reader, models.InputArtifacts)

	assert.ErrorContains(t, err, `load "calendar"`)
}

func TestWriteAllKeepsOrderAndSkipsAbsent(t *testing.T) {
	w := &recordingWriter{}
	tables := map[string]*models.Table{
		models.ArtifactXReg: models.EmptyTable(),
		models.ArtifactYReg: models.EmptyTable(),
	}

	n, err := WriteAll(w, []string{models.ArtifactYReg, models.ArtifactXClf, models.ArtifactXReg}, tables)
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{models.ArtifactYReg, models.ArtifactXReg}, w.names)
}
