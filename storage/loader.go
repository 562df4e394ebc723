package storage

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"airbnb-features/models"
)

// LoadInputs reads every named table concurrently. The first failure cancels
// the remaining reads that have not started yet.
func LoadInputs(ctx context.Context, reader TableReader, names []string) (map[string]*models.Table, error) {
	tables := make([]*models.Table, len(names))

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := reader.ReadTable(name)
			if err != nil {
				return fmt.Errorf("load %q: %w", name, err)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*models.Table, len(names))
	for i, name := range names {
		out[name] = tables[i]
	}
	return out, nil
}

// WriteAll writes the named tables to w in the given order, skipping names
// that are not present.
func WriteAll(w TableWriter, names []string, tables map[string]*models.Table) (int, error) {
	written := 0
	for _, name := range names {
		t, ok := tables[name]
		if !ok {
			continue
		}
		if err := w.WriteTable(name, t); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
