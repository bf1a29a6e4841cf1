package pipeline

import (
	"context"
	"fmt"

	"github.com/crimson-sun/orderflow/internal/model"
	"github.com/crimson-sun/orderflow/internal/store"
)

// memStore is an in-memory raw and destination store. Rows are keyed by the
// insert's key column and a second insert of the same key is a no-op.
type memStore struct {
	pages   []model.RawPage
	columns []store.Column
	rows    map[string]map[string]any
	order   []string

	failAfter int              // InsertRow fails once this many rows exist (0 = never)
	failErr   error            // error returned when failing
	rejectKey map[string]error // InsertRow returns the error for these keys
	inserts   int
}

func newMemStore(columns []store.Column, bodies ...[]byte) *memStore {
	m := &memStore{columns: columns, rows: map[string]map[string]any{}}
	for i, b := range bodies {
		m.pages = append(m.pages, model.RawPage{ID: int64(i + 1), Data: b})
	}
	return m
}

func (m *memStore) ScanPages(ctx context.Context, fn func(model.RawPage) error) error {
	for _, p := range m.pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) Columns(_ context.Context, table store.Table) ([]store.Column, error) {
	if m.columns == nil {
		return nil, fmt.Errorf("mem columns: %w: %s", store.ErrTableNotFound, table)
	}
	return m.columns, nil
}

func (m *memStore) InsertRow(_ context.Context, ins store.Insert, values []any) (bool, error) {
	m.inserts++
	row := make(map[string]any, len(values))
	for i, c := range ins.Columns {
		row[c] = values[i]
	}
	key, _ := row[ins.KeyColumn].(string)
	if err, ok := m.rejectKey[key]; ok {
		return false, err
	}
	if m.failAfter > 0 && len(m.rows) >= m.failAfter {
		return false, m.failErr
	}
	if _, exists := m.rows[key]; exists {
		return false, nil
	}
	m.rows[key] = row
	m.order = append(m.order, key)
	return true, nil
}

// recordingOutput collects rejects.
type recordingOutput struct {
	rejects []model.Reject
	err     error
}

func (r *recordingOutput) Write(_ context.Context, rej model.Reject) error {
	r.rejects = append(r.rejects, rej)
	return r.err
}

func (r *recordingOutput) Close() error { return nil }
