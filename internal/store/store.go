// Package store defines the tabular data-source contract the engine reads
// pilots, drones and missions through.
package store

import (
	"context"
	"fmt"

	"droneops/internal/domain"
	"droneops/internal/logger"
)

// Table names a tabular record set.
type Table string

const (
	PilotRoster Table = "pilot_roster"
	DroneFleet  Table = "drone_fleet"
	Missions    Table = "missions"
)

// Tables lists every known table.
var Tables = []Table{PilotRoster, DroneFleet, Missions}

// Key returns the identifier column of t.
func (t Table) Key() string {
	switch t {
	case PilotRoster:
		return "pilot_id"
	case DroneFleet:
		return "drone_id"
	case Missions:
		return "project_id"
	}
	return ""
}

// Columns returns the known columns of t in sheet order.
func (t Table) Columns() []string {
	switch t {
	case PilotRoster:
		return []string{"pilot_id", "name", "skills", "certifications", "location", "status", "current_assignment", "available_from", "daily_rate_inr"}
	case DroneFleet:
		return []string{"drone_id", "model", "capabilities", "weather_resistance", "status", "location", "current_assignment", "maintenance_due"}
	case Missions:
		return []string{"project_id", "client", "location", "required_skills", "required_certs", "start_date", "end_date", "priority", "mission_budget_inr", "weather_forecast", "assigned_pilot", "assigned_drone", "status"}
	}
	return nil
}

// HasColumn reports whether col is a known column of t.
func (t Table) HasColumn(col string) bool {
	for _, c := range t.Columns() {
		if c == col {
			return true
		}
	}
	return false
}

// ParseTable validates a table name.
func ParseTable(name string) (Table, error) {
	for _, t := range Tables {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown table %q", name)
}

// Record is one untyped row keyed by column name.
type Record map[string]string

// Field is one column assignment in a multi-field update.
type Field struct {
	Column string
	Value  string
}

// Reader returns every row of a table. An unavailable or empty source returns
// no rows and no error.
type Reader interface {
	Read(ctx context.Context, table Table) ([]Record, error)
}

// Writer updates rows identified by their key column.
type Writer interface {
	UpdateField(ctx context.Context, table Table, id, column, value string) domain.UpdateResult
	UpdateFields(ctx context.Context, table Table, id string, fields []Field) domain.MultiUpdateResult
}

// Store is a readable and writable tabular source.
type Store interface {
	Reader
	Writer
}

// UpdateEach applies fields one at a time through update and reports the
// conjunction of the per-field results.
func UpdateEach(table Table, id string, fields []Field, update func(Field) domain.UpdateResult) domain.MultiUpdateResult {
	res := domain.MultiUpdateResult{Success: true, Details: make([]domain.UpdateResult, 0, len(fields))}
	for _, f := range fields {
		r := update(f)
		res.Details = append(res.Details, r)
		res.Success = res.Success && r.Success
	}
	res.Message = fmt.Sprintf("Updated %d field(s) for %s in %s", len(fields), id, table)
	return res
}

// Fallback reads from Primary and falls back to Secondary when the primary
// errors or has no rows. Writes always go to Primary.
type Fallback struct {
	Primary   Store
	Secondary Reader
	Log       logger.Logger
}

func (f Fallback) log() logger.Logger {
	if f.Log == nil {
		return logger.Nop{}
	}
	return f.Log
}

func (f Fallback) Read(ctx context.Context, table Table) ([]Record, error) {
	if f.Primary != nil {
		rows, err := f.Primary.Read(ctx, table)
		if err == nil && len(rows) > 0 {
			return rows, nil
		}
		if err != nil {
			f.log().Warnf("primary source unavailable for %s: %v", table, err)
		}
	}
	if f.Secondary == nil {
		return nil, nil
	}
	rows, err := f.Secondary.Read(ctx, table)
	if err != nil {
		f.log().Warnf("fallback source unavailable for %s: %v", table, err)
		return nil, nil
	}
	if len(rows) > 0 {
		f.log().Debugw("read from fallback source", map[string]any{"table": string(table), "rows": len(rows)})
	}
	return rows, nil
}

func (f Fallback) UpdateField(ctx context.Context, table Table, id, column, value string) domain.UpdateResult {
	if f.Primary == nil {
		return domain.UpdateResult{Error: "no writable source configured"}
	}
	return f.Primary.UpdateField(ctx, table, id, column, value)
}

func (f Fallback) UpdateFields(ctx context.Context, table Table, id string, fields []Field) domain.MultiUpdateResult {
	if f.Primary == nil {
		return UpdateEach(table, id, fields, func(Field) domain.UpdateResult {
			return domain.UpdateResult{Error: "no writable source configured"}
		})
	}
	return f.Primary.UpdateFields(ctx, table, id, fields)
}
