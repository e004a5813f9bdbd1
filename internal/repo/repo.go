package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"droneops/internal/domain"
	"droneops/internal/store"
)

// Repo is the sqlite-backed tabular store. Every column is stored as text so
// rows round-trip exactly as imported; typing happens in the roster package.
type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

var _ store.Store = Repo{}

func selectColumns(table store.Table) string {
	return strings.Join(table.Columns(), ",")
}

func scanRecord(table store.Table, scan func(dest ...any) error) (store.Record, error) {
	cols := table.Columns()
	vals := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err := scan(dest...); err != nil {
		return nil, err
	}
	rec := make(store.Record, len(cols))
	for i, c := range cols {
		if vals[i].Valid {
			rec[c] = vals[i].String
		} else {
			rec[c] = ""
		}
	}
	return rec, nil
}

// Read returns all rows of table in insertion order.
func (r Repo) Read(ctx context.Context, table store.Table) ([]store.Record, error) {
	if table.Key() == "" {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	rows, err := r.DB.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s ORDER BY rowid`, selectColumns(table), table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []store.Record
	for rows.Next() {
		rec, err := scanRecord(table, rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// Get returns one row by key.
func (r Repo) Get(ctx context.Context, table store.Table, id string) (store.Record, error) {
	if table.Key() == "" {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	row := r.DB.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE %s=?`, selectColumns(table), table, table.Key()), id)
	rec, err := scanRecord(table, row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// UpdateField sets one column of the row keyed by id.
func (r Repo) UpdateField(ctx context.Context, table store.Table, id, column, value string) domain.UpdateResult {
	if !table.HasColumn(column) || column == table.Key() {
		return domain.UpdateResult{Error: fmt.Sprintf("column %s cannot be updated in %s", column, table)}
	}
	res, err := r.DB.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET %s=? WHERE %s=?`, table, column, table.Key()), value, id)
	if err != nil {
		return domain.UpdateResult{Error: err.Error()}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.UpdateResult{Error: fmt.Sprintf("row with %s=%q not found in %s", table.Key(), id, table)}
	}
	return domain.UpdateResult{Success: true, Message: fmt.Sprintf("%s -> %q for %s in %s", column, value, id, table)}
}

// UpdateFields writes each field independently; partial failure is reported
// per field.
func (r Repo) UpdateFields(ctx context.Context, table store.Table, id string, fields []store.Field) domain.MultiUpdateResult {
	return store.UpdateEach(table, id, fields, func(f store.Field) domain.UpdateResult {
		return r.UpdateField(ctx, table, id, f.Column, f.Value)
	})
}

// ImportRecords upserts rows into table, ignoring unknown columns. Rows with
// an empty key are skipped. It returns the number of rows written.
func (r Repo) ImportRecords(ctx context.Context, table store.Table, records []store.Record) (int, error) {
	key := table.Key()
	if key == "" {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	cols := table.Columns()
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	var updates []string
	for _, c := range cols {
		if c != key {
			updates = append(updates, fmt.Sprintf("%s=excluded.%s", c, c))
		}
	}
	query := fmt.Sprintf(`INSERT INTO %s(%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s`,
		table, strings.Join(cols, ","), placeholders, key, strings.Join(updates, ", "))

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	n := 0
	for _, rec := range records {
		if strings.TrimSpace(rec[key]) == "" {
			continue
		}
		args := make([]any, len(cols))
		for i, c := range cols {
			args[i] = strings.TrimSpace(rec[c])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return n, fmt.Errorf("import %s %s: %w", table, rec[key], err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// Count returns the number of rows in table.
func (r Repo) Count(ctx context.Context, table store.Table) (int, error) {
	if table.Key() == "" {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int
	err := r.DB.QueryRowContext(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, table)).Scan(&n)
	return n, err
}
