package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrLengthMismatch is returned when a column does not line up with the rows of a table.
	ErrLengthMismatch = errors.New("column length does not match table rows")
	// ErrMissingColumn is returned when a required column is not in the table.
	ErrMissingColumn = errors.New("column not found")
	// ErrDuplicateColumn is returned when two columns would share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrDuplicateKey is returned when a join side that must be unique repeats a key.
	ErrDuplicateKey = errors.New("duplicate join key")
)

// Type is the cell type shared by every value in a column.
type Type int

const (
	TypeString Type = iota
	TypeFloat
	TypeInt
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeFloat:
		return "float"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	}
	return "unknown"
}

// Value is one table cell. Only the field matching the column Type is meaningful.
// A Null value is missing regardless of the column type.
type Value struct {
	Null bool
	S    string
	F    float64
	I    int64
	B    bool
}

func Null() Value        { return Value{Null: true} }
func Str(s string) Value { return Value{S: s} }
func Int(i int64) Value  { return Value{I: i} }
func Bool(b bool) Value  { return Value{B: b} }

// Float wraps f, mapping NaN to Null.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}
	return Value{F: f}
}

// AsFloat returns the numeric view of v. Strings and nulls report false.
func (v Value) AsFloat(t Type) (float64, bool) {
	if v.Null {
		return 0, false
	}
	switch t {
	case TypeFloat:
		return v.F, true
	case TypeInt:
		return float64(v.I), true
	case TypeBool:
		if v.B {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Format renders v as text. Null renders as the empty string.
func (v Value) Format(t Type) string {
	if v.Null {
		return ""
	}
	switch t {
	case TypeFloat:
		return strconv.FormatFloat(v.F, 'f', -1, 64)
	case TypeInt:
		return strconv.FormatInt(v.I, 10)
	case TypeBool:
		return strconv.FormatBool(v.B)
	}
	return v.S
}

// Key returns the canonical text used to match values across tables, so an
// int key 7, a float key 7.0 and a string key "7" all join together.
func (v Value) Key(t Type) (string, bool) {
	if v.Null {
		return "", false
	}
	if t == TypeFloat && v.F == math.Trunc(v.F) && math.Abs(v.F) < 1e15 {
		return strconv.FormatInt(int64(v.F), 10), true
	}
	if t == TypeString {
		return strings.TrimSpace(v.S), true
	}
	return v.Format(t), true
}

// Compare orders two non-null values of type t. Nulls sort last.
func Compare(a, b Value, t Type) int {
	switch {
	case a.Null && b.Null:
		return 0
	case a.Null:
		return 1
	case b.Null:
		return -1
	}
	if t == TypeString {
		return strings.Compare(a.S, b.S)
	}
	x, _ := a.AsFloat(t)
	y, _ := b.AsFloat(t)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// Column is a named, typed sequence of cells.
type Column struct {
	Name   string
	Type   Type
	Values []Value
}

func NewColumn(name string, typ Type, values []Value) *Column {
	return &Column{Name: name, Type: typ, Values: values}
}

// NullColumn returns a column of n missing cells.
func NullColumn(name string, typ Type, n int) *Column {
	values := make([]Value, n)
	for i := range values {
		values[i] = Null()
	}
	return NewColumn(name, typ, values)
}

func Strings(name string, vals ...string) *Column {
	values := make([]Value, len(vals))
	for i, s := range vals {
		values[i] = Str(s)
	}
	return NewColumn(name, TypeString, values)
}

func Floats(name string, vals ...float64) *Column {
	values := make([]Value, len(vals))
	for i, f := range vals {
		values[i] = Float(f)
	}
	return NewColumn(name, TypeFloat, values)
}

func Ints(name string, vals ...int64) *Column {
	values := make([]Value, len(vals))
	for i, n := range vals {
		values[i] = Int(n)
	}
	return NewColumn(name, TypeInt, values)
}

func (c *Column) Len() int { return len(c.Values) }

func (c *Column) Clone() *Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return NewColumn(c.Name, c.Type, values)
}

// Renamed returns a copy of c under a new name.
func (c *Column) Renamed(name string) *Column {
	out := c.Clone()
	out.Name = name
	return out
}

// Take returns the cells at the given positions. A negative position yields a null cell.
func (c *Column) Take(rows []int) *Column {
	values := make([]Value, len(rows))
	for i, r := range rows {
		if r < 0 {
			values[i] = Null()
			continue
		}
		values[i] = c.Values[r]
	}
	return NewColumn(c.Name, c.Type, values)
}

func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Null {
			n++
		}
	}
	return n
}

// Table is an ordered collection of equal-length named columns. The row
// count is kept on its own so a table can have rows but no columns.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// NewTable builds a table from columns that must all have the same length.
func NewTable(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if t.Has(c.Name) {
			return nil, fmt.Errorf("table: %q: %w", c.Name, ErrDuplicateColumn)
		}
		if err := t.Set(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustTable is NewTable for literals whose shape is known to be valid.
func MustTable(cols ...*Column) *Table {
	t, err := NewTable(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// EmptyTable returns a table with neither rows nor columns.
func EmptyTable() *Table {
	return EmptyTableWithRows(0)
}

// EmptyTableWithRows returns a table with n rows and no columns. Columns
// added later must have n values.
func EmptyTableWithRows(n int) *Table {
	return &Table{index: make(map[string]int), rows: n}
}

// NumRows is the shared column length.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return t.rows
}

func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.cols)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool { return t.NumRows() == 0 }

func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

func (t *Table) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[name]
	return ok
}

func (t *Table) Column(name string) (*Column, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Columns returns the columns in order. The slice is a copy; the columns are shared.
func (t *Table) Columns() []*Column {
	if t == nil {
		return nil
	}
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Set replaces the column with the same name in place, or appends c. The
// first column of a table without rows fixes the row count.
func (t *Table) Set(c *Column) error {
	replacingOnly := len(t.cols) == 1 && t.Has(c.Name)
	adopt := replacingOnly || (len(t.cols) == 0 && t.rows == 0)
	if !adopt && c.Len() != t.rows {
		return fmt.Errorf("table: set %q with %d rows on %d: %w", c.Name, c.Len(), t.rows, ErrLengthMismatch)
	}
	t.rows = c.Len()
	if i, ok := t.index[c.Name]; ok {
		t.cols[i] = c
		return nil
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := EmptyTable()
	if t == nil {
		return out
	}
	out.rows = t.rows
	for _, c := range t.cols {
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, c.Clone())
	}
	return out
}

// Select returns a copy holding only the named columns, in the given order.
// Selecting no columns keeps the row count.
func (t *Table) Select(names ...string) (*Table, error) {
	out := EmptyTableWithRows(t.NumRows())
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("table: select %q: %w", name, ErrMissingColumn)
		}
		if out.Has(name) {
			return nil, fmt.Errorf("table: select %q: %w", name, ErrDuplicateColumn)
		}
		if err := out.Set(c.Clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Drop returns a copy without the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) *Table {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}
	out := EmptyTableWithRows(t.NumRows())
	for _, c := range t.Columns() {
		if _, ok := skip[c.Name]; ok {
			continue
		}
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, c.Clone())
	}
	return out
}

// Rename returns a copy with column from renamed to to.
func (t *Table) Rename(from, to string) (*Table, error) {
	if from == to {
		return t.Clone(), nil
	}
	if !t.Has(from) {
		return nil, fmt.Errorf("table: rename %q: %w", from, ErrMissingColumn)
	}
	if t.Has(to) {
		return nil, fmt.Errorf("table: rename to %q: %w", to, ErrDuplicateColumn)
	}
	out := EmptyTableWithRows(t.NumRows())
	for _, c := range t.Columns() {
		nc := c.Clone()
		if nc.Name == from {
			nc.Name = to
		}
		out.index[nc.Name] = len(out.cols)
		out.cols = append(out.cols, nc)
	}
	return out, nil
}

// Take returns a copy holding the given rows in the given order.
func (t *Table) Take(rows []int) *Table {
	out := EmptyTableWithRows(len(rows))
	for _, c := range t.Columns() {
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, c.Take(rows))
	}
	return out
}

// DropNull returns a copy without the rows whose cell in col is missing.
func (t *Table) DropNull(col string) (*Table, error) {
	c, ok := t.Column(col)
	if !ok {
		return nil, fmt.Errorf("table: drop nulls in %q: %w", col, ErrMissingColumn)
	}
	keep := make([]int, 0, c.Len())
	for i, v := range c.Values {
		if !v.Null {
			keep = append(keep, i)
		}
	}
	return t.Take(keep), nil
}
