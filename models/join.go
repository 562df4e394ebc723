package models

import (
	"fmt"
	"sort"
)

// Group is the set of row positions that share one key value.
type Group struct {
	Key  Value
	Rows []int
}

// GroupBy partitions the rows of t by the cells of column key. Rows with a null
// key belong to no group. Groups come back in ascending key order.
func (t *Table) GroupBy(key string) ([]Group, error) {
	col, ok := t.Column(key)
	if !ok {
		return nil, fmt.Errorf("table: group by %q: %w", key, ErrMissingColumn)
	}

	pos := make(map[string]int)
	var groups []Group
	for row, v := range col.Values {
		k, ok := v.Key(col.Type)
		if !ok {
			continue
		}
		i, seen := pos[k]
		if !seen {
			i = len(groups)
			pos[k] = i
			groups = append(groups, Group{Key: v})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return Compare(groups[i].Key, groups[j].Key, col.Type) < 0
	})
	return groups, nil
}

// LeftJoin keeps every row of left, in order, and attaches the columns of the
// matching right row, or nulls when nothing matches. Right keys must be unique
// so the output has exactly as many rows as left. A right column whose name is
// already used on the left gets rightSuffix appended. When both keys share a
// name the right key column is not repeated.
func LeftJoin(left *Table, leftKey string, right *Table, rightKey string, rightSuffix string) (*Table, error) {
	lcol, ok := left.Column(leftKey)
	if !ok {
		return nil, fmt.Errorf("join: left key %q: %w", leftKey, ErrMissingColumn)
	}
	rcol, ok := right.Column(rightKey)
	if !ok {
		return nil, fmt.Errorf("join: right key %q: %w", rightKey, ErrMissingColumn)
	}

	lookup := make(map[string]int, rcol.Len())
	for row, v := range rcol.Values {
		k, ok := v.Key(rcol.Type)
		if !ok {
			continue
		}
		if _, dup := lookup[k]; dup {
			return nil, fmt.Errorf("join: key %q on %q: %w", k, rightKey, ErrDuplicateKey)
		}
		lookup[k] = row
	}

	match := make([]int, lcol.Len())
	for row, v := range lcol.Values {
		match[row] = -1
		if k, ok := v.Key(lcol.Type); ok {
			if r, found := lookup[k]; found {
				match[row] = r
			}
		}
	}

	out := left.Clone()
	for _, c := range right.Columns() {
		if c.Name == rightKey && leftKey == rightKey {
			continue
		}
		name := c.Name
		if out.Has(name) {
			name += rightSuffix
		}
		if out.Has(name) {
			return nil, fmt.Errorf("join: %q: %w", name, ErrDuplicateColumn)
		}
		taken := c.Take(match)
		taken.Name = name
		if err := out.Set(taken); err != nil {
			return nil, err
		}
	}
	return out, nil
}
