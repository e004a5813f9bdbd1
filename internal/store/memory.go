package store

import (
	"context"
	"fmt"
	"sync"

	"droneops/internal/domain"
)

// Memory is an in-process Store, used by tests and for dry runs.
type Memory struct {
	mu   sync.Mutex
	rows map[Table][]Record
}

func NewMemory() *Memory {
	return &Memory{rows: map[Table][]Record{}}
}

// Put appends rows to table.
func (m *Memory) Put(table Table, rows ...Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		cp := make(Record, len(r))
		for k, v := range r {
			cp[k] = v
		}
		m.rows[table] = append(m.rows[table], cp)
	}
}

func (m *Memory) Read(_ context.Context, table Table) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, 0, len(m.rows[table]))
	for _, r := range m.rows[table] {
		cp := make(Record, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out = append(out, cp)
	}
	return out, nil
}

func (m *Memory) UpdateField(_ context.Context, table Table, id, column, value string) domain.UpdateResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !table.HasColumn(column) {
		return domain.UpdateResult{Error: fmt.Sprintf("unknown column %s in %s", column, table)}
	}
	key := table.Key()
	for _, r := range m.rows[table] {
		if r[key] == id {
			r[column] = value
			return domain.UpdateResult{Success: true, Message: fmt.Sprintf("%s -> %q for %s in %s", column, value, id, table)}
		}
	}
	return domain.UpdateResult{Error: fmt.Sprintf("row with %s=%q not found in %s", key, id, table)}
}

func (m *Memory) UpdateFields(ctx context.Context, table Table, id string, fields []Field) domain.MultiUpdateResult {
	return UpdateEach(table, id, fields, func(f Field) domain.UpdateResult {
		return m.UpdateField(ctx, table, id, f.Column, f.Value)
	})
}
