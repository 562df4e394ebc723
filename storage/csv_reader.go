package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"airbnb-features/models"
)

// CSVReader loads input tables from CSV files with a header row.
type CSVReader struct {
	paths map[string]string
}

// NewCSVReader maps artifact names to file paths. An artifact with an empty
// path reads as an empty table.
func NewCSVReader(paths map[string]string) *CSVReader {
	return &CSVReader{paths: paths}
}

// ReadTable reads the file registered for name and infers column types.
func (r *CSVReader) ReadTable(name string) (*models.Table, error) {
	path, ok := r.paths[name]
	if !ok {
		return nil, fmt.Errorf("csv: no path for %q", name)
	}
	if path == "" {
		return models.EmptyTable(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	return t, nil
}

// ReadCSV parses CSV text into a table. Ragged rows are an error.
func ReadCSV(in io.Reader) (*models.Table, error) {
	cr := csv.NewReader(in)
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return models.EmptyTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cells := make([][]string, len(header))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for i, v := range rec {
			cells[i] = append(cells[i], v)
		}
	}

	cols := make([]*models.Column, len(header))
	for i, name := range header {
		cols[i] = InferColumn(name, cells[i])
	}
	return models.NewTable(cols...)
}
