package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"droneops/internal/db"
	"droneops/internal/events"
	"droneops/internal/migrate"
	"droneops/internal/repo"
	"droneops/internal/store"
)

func newTestRepo(t *testing.T) repo.Repo {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo.Repo{DB: conn}
}

func TestImportAndRead(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	n, err := r.ImportRecords(ctx, store.PilotRoster, []store.Record{
		{"pilot_id": "P001", "name": "Arjun", "status": "Available", "daily_rate_inr": "1500", "unknown": "x"},
		{"pilot_id": "P002", "name": "Neha", "status": "Assigned"},
		{"pilot_id": " ", "name": "ghost"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Fatalf("imported %d rows, want 2", n)
	}
	rows, err := r.Read(ctx, store.PilotRoster)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 || rows[0]["pilot_id"] != "P001" || rows[1]["pilot_id"] != "P002" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if rows[1]["daily_rate_inr"] != "" {
		t.Fatalf("missing column should read as empty, got %q", rows[1]["daily_rate_inr"])
	}

	// re-import upserts in place
	if _, err := r.ImportRecords(ctx, store.PilotRoster, []store.Record{{"pilot_id": "P001", "name": "Arjun K", "status": "On Leave"}}); err != nil {
		t.Fatalf("reimport: %v", err)
	}
	got, err := r.Get(ctx, store.PilotRoster, "P001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["name"] != "Arjun K" || got["status"] != "On Leave" {
		t.Fatalf("upsert not applied: %+v", got)
	}
	if cnt, _ := r.Count(ctx, store.PilotRoster); cnt != 2 {
		t.Fatalf("count = %d, want 2", cnt)
	}
}

func TestGetMissing(t *testing.T) {
	r := newTestRepo(t)
	if _, err := r.Get(context.Background(), store.DroneFleet, "D404"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateFields(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	if _, err := r.ImportRecords(ctx, store.DroneFleet, []store.Record{{"drone_id": "D001", "status": "Available", "location": "Bangalore"}}); err != nil {
		t.Fatalf("import: %v", err)
	}
	res := r.UpdateFields(ctx, store.DroneFleet, "D001", []store.Field{
		{Column: "status", Value: "Deployed"},
		{Column: "current_assignment", Value: "PRJ001"},
	})
	if !res.Success || len(res.Details) != 2 {
		t.Fatalf("update failed: %+v", res)
	}
	got, _ := r.Get(ctx, store.DroneFleet, "D001")
	if got["status"] != "Deployed" || got["current_assignment"] != "PRJ001" {
		t.Fatalf("fields not written: %+v", got)
	}

	res = r.UpdateFields(ctx, store.DroneFleet, "D001", []store.Field{
		{Column: "status", Value: "Maintenance"},
		{Column: "bogus", Value: "x"},
	})
	if res.Success {
		t.Fatalf("expected partial failure, got %+v", res)
	}
	if !res.Details[0].Success || res.Details[1].Success {
		t.Fatalf("per-field results wrong: %+v", res.Details)
	}

	single := r.UpdateField(ctx, store.DroneFleet, "D999", "status", "Available")
	if single.Success || single.Error == "" {
		t.Fatalf("expected missing-row error, got %+v", single)
	}
	key := r.UpdateField(ctx, store.DroneFleet, "D001", "drone_id", "D002")
	if key.Success {
		t.Fatalf("key column must not be writable")
	}
}

func TestLatestEvents(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	w := events.Writer{DB: r.DB, Now: func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) }}
	if err := w.Append(ctx, events.PilotAssigned, "pilot", "P001", "ops", events.EventPayload{"mission_id": "PRJ001"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Append(ctx, events.DroneAssigned, "drone", "D001", "ops", nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	all, err := r.LatestEvents(ctx, 10, repo.EventFilter{})
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(all) != 2 || all[0].Type != events.DroneAssigned {
		t.Fatalf("expected newest first, got %+v", all)
	}
	pilots, err := r.LatestEvents(ctx, 10, repo.EventFilter{EntityKind: "pilot"})
	if err != nil {
		t.Fatalf("latest filtered: %v", err)
	}
	if len(pilots) != 1 || pilots[0].EntityID != "P001" || pilots[0].TS != "2026-02-01T00:00:00Z" {
		t.Fatalf("unexpected filtered events %+v", pilots)
	}
}
