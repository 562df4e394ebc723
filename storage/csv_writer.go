package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"airbnb-features/models"
)

// CSVWriter writes each artifact to <dir>/<name>.csv.
// It is safe for concurrent use.
type CSVWriter struct {
	mu  sync.Mutex
	dir string
}

// NewCSVWriter creates the output directory if needed.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{dir: dir}, nil
}

// Path returns the file an artifact is written to.
func (c *CSVWriter) Path(name string) string {
	return filepath.Join(c.dir, name+".csv")
}

// WriteTable writes the header row and every row of t, truncating any previous file.
func (c *CSVWriter) WriteTable(name string, t *models.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Names()); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	cols := t.Columns()
	row := make([]string, len(cols))
	for r := 0; r < t.NumRows(); r++ {
		for i, col := range cols {
			row[i] = col.Values[r].Format(col.Type)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush %q: %w", path, err)
	}
	return f.Close()
}

// Close is a no-op; every WriteTable closes its own file.
func (c *CSVWriter) Close() error {
	return nil
}
