package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"droneops/internal/config"
	"droneops/internal/engine"
	"droneops/internal/events"
	"droneops/internal/store"
)

var fixedNow = time.Date(2024, 1, 25, 9, 30, 0, 0, time.UTC)

var fixturePilots = []store.Record{
	{"pilot_id": "P001", "name": "Arjun", "skills": "Mapping, Survey", "certifications": "DGCA, Night Ops", "location": "Bangalore", "status": "Available", "available_from": "2024-02-15", "daily_rate_inr": "1500"},
	{"pilot_id": "P002", "name": "Neha", "skills": "Inspection", "certifications": "DGCA", "location": "Mumbai", "status": "Assigned", "current_assignment": "PRJ003", "daily_rate_inr": "3000"},
	{"pilot_id": "P003", "name": "Rohit", "skills": "Inspection, Mapping", "certifications": "DGCA", "location": "Mumbai", "status": "Available", "daily_rate_inr": "1500"},
	{"pilot_id": "P004", "name": "Sneha", "skills": "Survey, Thermal, Mapping", "certifications": "DGCA, Night Ops", "location": "Bangalore", "status": "On Leave", "daily_rate_inr": "5000"},
	{"pilot_id": "P005", "name": "Kiran", "skills": "Mapping", "certifications": "DGCA; Night Ops", "location": "Chennai", "status": "Available", "daily_rate_inr": "2000"},
}

var fixtureDrones = []store.Record{
	{"drone_id": "D001", "model": "DJI M300", "capabilities": "LiDAR, Mapping", "weather_resistance": "IP43 (Rain)", "status": "Available", "location": "Bangalore", "maintenance_due": "2024-03-01"},
	{"drone_id": "D002", "model": "DJI Mavic 3", "capabilities": "RGB", "weather_resistance": "None (Clear Sky Only)", "status": "Available", "location": "Mumbai", "maintenance_due": "2024-02-01"},
	{"drone_id": "D003", "model": "DJI Matrice", "capabilities": "Thermal", "weather_resistance": "IP43 (Rain)", "status": "Maintenance", "location": "Pune", "current_assignment": "PRJ002", "maintenance_due": "2024-01-20"},
	{"drone_id": "D004", "model": "Autel EVO", "capabilities": "Thermal, RGB", "weather_resistance": "IP43 (Rain)", "status": "Deployed", "location": "Bangalore", "current_assignment": "PRJ001", "maintenance_due": "2023-12-01"},
	{"drone_id": "D005", "model": "Skydio X10", "capabilities": "Mapping", "weather_resistance": "IP55", "status": "Available", "location": "Chennai"},
}

var fixtureMissions = []store.Record{
	{"project_id": "PRJ001", "client": "Acme", "location": "Bangalore", "required_skills": "Inspection", "required_certs": "DGCA", "start_date": "2024-02-01", "end_date": "2024-02-10", "priority": "Urgent", "mission_budget_inr": "100000", "weather_forecast": "Sunny", "assigned_pilot": "P002"},
	{"project_id": "PRJ002", "client": "Globex", "location": "Pune", "required_skills": "Thermal", "required_certs": "DGCA", "start_date": "2024-02-05", "end_date": "2024-02-06", "priority": "Standard", "mission_budget_inr": "50000", "weather_forecast": "Rainy", "assigned_drone": "D003"},
	{"project_id": "PRJ003", "client": "Initech", "location": "Mumbai", "required_skills": "Inspection", "required_certs": "DGCA", "start_date": "2024-02-05", "end_date": "2024-02-12", "priority": "High", "mission_budget_inr": "30000", "weather_forecast": "Cloudy", "assigned_pilot": "P002"},
	{"project_id": "PRJ004", "client": "Umbrella", "location": "Bangalore", "required_skills": "Mapping", "required_certs": "DGCA, Night Ops", "start_date": "2024-03-01", "end_date": "2024-03-03", "priority": "High", "mission_budget_inr": "5000", "weather_forecast": "Rainy"},
	{"project_id": "PRJ005", "client": "Hooli", "location": "Chennai", "required_skills": "Mapping", "required_certs": "DGCA", "start_date": "2024-04-01", "end_date": "2024-04-02", "priority": "Standard", "mission_budget_inr": "10000", "weather_forecast": "Sunny", "assigned_pilot": "P005", "assigned_drone": "D001"},
}

// recorder captures audit events in memory.
type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Type, Kind, ID, Actor string
	Payload               events.EventPayload
}

func (r *recorder) Append(_ context.Context, evtType, entityKind, entityID, actorID string, payload events.EventPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Type: evtType, Kind: entityKind, ID: entityID, Actor: actorID, Payload: payload})
	return nil
}

type testEnv struct {
	Engine engine.Engine
	Store  *store.Memory
	Events *recorder
	Ctx    context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	mem := store.NewMemory()
	mem.Put(store.PilotRoster, fixturePilots...)
	mem.Put(store.DroneFleet, fixtureDrones...)
	mem.Put(store.Missions, fixtureMissions...)
	rec := &recorder{}
	eng := engine.New(mem, config.Default().Rules)
	eng.Events = rec
	eng.Now = func() time.Time { return fixedNow }
	return testEnv{Engine: eng, Store: mem, Events: rec, Ctx: engine.WithActor(context.Background(), "coordinator")}
}

func (env testEnv) row(t *testing.T, table store.Table, id string) store.Record {
	t.Helper()
	rows, err := env.Store.Read(env.Ctx, table)
	if err != nil {
		t.Fatalf("read %s: %v", table, err)
	}
	for _, r := range rows {
		if r[table.Key()] == id {
			return r
		}
	}
	t.Fatalf("%s %s not found", table, id)
	return nil
}
