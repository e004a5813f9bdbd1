// Package csvfile reads the pilot, drone and mission tables from a directory
// of CSV exports. It is read-only.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"droneops/internal/domain"
	"droneops/internal/store"
)

const readOnlyMsg = "local CSV source is read-only; update not synced"

// Source reads <Dir>/<table>.csv files.
type Source struct {
	Dir string
}

// Path returns the CSV file backing table.
func (s Source) Path(table store.Table) string {
	return filepath.Join(s.Dir, string(table)+".csv")
}

// Read returns every row of table. A missing file is not an error.
func (s Source) Read(_ context.Context, table store.Table) ([]store.Record, error) {
	f, err := os.Open(s.Path(table))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses CSV with a header row into records. Short rows leave the
// trailing columns empty.
func Decode(r io.Reader) ([]store.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	var out []store.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rec := make(store.Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = strings.TrimSpace(row[i])
			} else {
				rec[col] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s Source) UpdateField(_ context.Context, _ store.Table, _, _, _ string) domain.UpdateResult {
	return domain.UpdateResult{Error: readOnlyMsg}
}

func (s Source) UpdateFields(ctx context.Context, table store.Table, id string, fields []store.Field) domain.MultiUpdateResult {
	return store.UpdateEach(table, id, fields, func(f store.Field) domain.UpdateResult {
		return s.UpdateField(ctx, table, id, f.Column, f.Value)
	})
}
