package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"airbnb-features/models"
)

// maxSheetRows is the Excel row limit, header included.
const maxSheetRows = 1048576

// XLSXWriter collects artifacts into one workbook, one sheet per artifact.
// The workbook is saved on Close.
type XLSXWriter struct {
	mu     sync.Mutex
	path   string
	file   *excelize.File
	sheets int
}

func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}
	return &XLSXWriter{path: path, file: excelize.NewFile()}, nil
}

// WriteTable adds a sheet named after the artifact holding t.
func (x *XLSXWriter) WriteTable(name string, t *models.Table) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if t.NumRows()+1 > maxSheetRows {
		return fmt.Errorf("xlsx: %q has %d rows, over the sheet limit", name, t.NumRows())
	}

	if x.sheets == 0 {
		// reuse the default sheet of a new workbook
		if err := x.file.SetSheetName(x.file.GetSheetName(0), name); err != nil {
			return fmt.Errorf("xlsx: rename sheet to %q: %w", name, err)
		}
	} else if _, err := x.file.NewSheet(name); err != nil {
		return fmt.Errorf("xlsx: new sheet %q: %w", name, err)
	}
	x.sheets++

	sw, err := x.file.NewStreamWriter(name)
	if err != nil {
		return fmt.Errorf("xlsx: stream %q: %w", name, err)
	}

	header := make([]interface{}, t.NumCols())
	for i, n := range t.Names() {
		header[i] = n
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}

	cols := t.Columns()
	for r := 0; r < t.NumRows(); r++ {
		row := make([]interface{}, len(cols))
		for i, col := range cols {
			row[i] = cellValue(col.Values[r], col.Type)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", r, err)
		}
	}
	return sw.Flush()
}

func cellValue(v models.Value, t models.Type) interface{} {
	if v.Null {
		return nil
	}
	switch t {
	case models.TypeFloat:
		return v.F
	case models.TypeInt:
		return v.I
	case models.TypeBool:
		return v.B
	}
	return v.S
}

// Close saves the workbook and releases it.
func (x *XLSXWriter) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.file.SaveAs(x.path); err != nil {
		_ = x.file.Close()
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return x.file.Close()
}
