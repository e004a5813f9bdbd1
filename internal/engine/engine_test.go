package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"droneops/internal/config"
	"droneops/internal/db"
	"droneops/internal/domain"
	"droneops/internal/engine"
	"droneops/internal/events"
	"droneops/internal/migrate"
	"droneops/internal/repo"
	"droneops/internal/store"
)

func pilotIDs(cs []domain.PilotCandidate) []string {
	out := []string{}
	for _, c := range cs {
		out = append(out, c.PilotID)
	}
	return out
}

func droneIDs(cs []domain.DroneCandidate) []string {
	out := []string{}
	for _, c := range cs {
		out = append(out, c.DroneID)
	}
	return out
}

func TestCalculatePilotCostOverBudget(t *testing.T) {
	mem := store.NewMemory()
	mem.Put(store.PilotRoster, store.Record{"pilot_id": "P9", "name": "Dev", "daily_rate_inr": "5000"})
	mem.Put(store.Missions, store.Record{"project_id": "M9", "start_date": "2024-01-01", "end_date": "2024-01-03", "mission_budget_inr": "10000"})
	eng := engine.New(mem, config.Default().Rules)

	rep, err := eng.CalculatePilotCost(context.Background(), "P9", "M9")
	require.NoError(t, err)
	assert.Equal(t, 3, rep.DurationDays)
	assert.Equal(t, 15000.0, rep.TotalCost)
	assert.False(t, rep.WithinBudget)
	assert.Equal(t, -5000.0, rep.SurplusOrDeficit)
	require.NotNil(t, rep.BudgetWarning)
	assert.Contains(t, *rep.BudgetWarning, "INR 5000")

	_, err = eng.CalculatePilotCost(context.Background(), "P404", "M9")
	assert.ErrorIs(t, err, engine.ErrNotFound)
	_, err = eng.CalculatePilotCost(context.Background(), "P9", "M404")
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestCalculatePilotCostNonFiniteRate(t *testing.T) {
	mem := store.NewMemory()
	mem.Put(store.PilotRoster, store.Record{"pilot_id": "P9", "name": "Dev", "daily_rate_inr": "NaN"})
	mem.Put(store.Missions, store.Record{"project_id": "M9", "start_date": "2024-01-01", "end_date": "2024-01-03", "mission_budget_inr": "10000"})
	eng := engine.New(mem, config.Default().Rules)

	rep, err := eng.CalculatePilotCost(context.Background(), "P9", "M9")
	require.NoError(t, err)
	assert.Zero(t, rep.TotalCost)
	assert.True(t, rep.WithinBudget)
	assert.Equal(t, 10000.0, rep.SurplusOrDeficit)
	assert.Nil(t, rep.BudgetWarning)
}

func TestMatchPilotsTiers(t *testing.T) {
	env := newTestEnv(t)
	rep, err := env.Engine.MatchPilots(env.Ctx, "PRJ004")
	require.NoError(t, err)
	assert.Equal(t, []string{"P001"}, pilotIDs(rep.Perfect))
	assert.Equal(t, []string{"P005"}, pilotIDs(rep.WithWarnings))
	assert.Equal(t, []string{"P002", "P003", "P004"}, pilotIDs(rep.Ineligible))

	kiran := rep.WithWarnings[0]
	assert.Empty(t, kiran.Issues)
	assert.Len(t, kiran.Warnings, 2)
	assert.Equal(t, 6000.0, kiran.EstimatedCost)
	assert.False(t, kiran.WithinBudget)
	assert.False(t, kiran.LocationMatch)

	sneha := rep.Ineligible[2]
	assert.Contains(t, sneha.Issues, "Pilot is on leave")
}

func TestMatchPilotsEveryPilotInExactlyOneTier(t *testing.T) {
	env := newTestEnv(t)
	for _, m := range fixtureMissions {
		rep, err := env.Engine.MatchPilots(env.Ctx, m["project_id"])
		require.NoError(t, err)
		seen := map[string]int{}
		for _, c := range rep.All() {
			seen[c.PilotID]++
		}
		assert.Len(t, seen, len(fixturePilots))
		for id, n := range seen {
			assert.Equal(t, 1, n, "pilot %s in %d tiers", id, n)
		}
		for _, c := range rep.Ineligible {
			assert.NotEmpty(t, c.Issues)
		}
		for _, c := range append(rep.Perfect, rep.WithWarnings...) {
			assert.Empty(t, c.Issues)
		}
	}
}

func TestMatchPilotsAvailabilityAndDoubleBooking(t *testing.T) {
	env := newTestEnv(t)
	rep, err := env.Engine.MatchPilots(env.Ctx, "PRJ001")
	require.NoError(t, err)
	byID := map[string]domain.PilotCandidate{}
	for _, c := range rep.All() {
		byID[c.PilotID] = c
	}
	assert.Contains(t, byID["P001"].Issues, "Not available until 2024-02-15 (mission starts 2024-02-01)")
	require.NotEmpty(t, byID["P002"].Issues)
	assert.Contains(t, byID["P002"].Issues[0], "Double-booking")
	assert.Contains(t, pilotIDs(rep.Ineligible), "P002")
}

func TestMatchPilotsUnknownMission(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.MatchPilots(env.Ctx, "PRJ404")
	assert.True(t, errors.Is(err, engine.ErrNotFound))
}

func TestMatchDrones(t *testing.T) {
	env := newTestEnv(t)
	rep, err := env.Engine.MatchDrones(env.Ctx, "PRJ004")
	require.NoError(t, err)
	assert.Equal(t, []string{"D001", "D004"}, droneIDs(rep.Suitable))
	assert.Equal(t, []string{"D005"}, droneIDs(rep.WithWarnings))
	assert.Equal(t, []string{"D002", "D003"}, droneIDs(rep.Blocked))

	d1 := rep.Suitable[0]
	assert.Equal(t, []string{"mapping"}, d1.MatchingCapabilities)
	assert.Empty(t, d1.MissingCapabilities)
	d4 := rep.Suitable[1]
	assert.Equal(t, []string{"mapping"}, d4.MissingCapabilities)

	d2 := rep.Blocked[0]
	assert.False(t, d2.WeatherOK)
	assert.Contains(t, d2.Issues[0], "Weather mismatch")
	d3 := rep.Blocked[1]
	assert.Contains(t, d3.Issues[0], "2024-01-20")
}

func TestDetectAllConflicts(t *testing.T) {
	env := newTestEnv(t)
	rep, err := env.Engine.DetectAllConflicts(env.Ctx)
	require.NoError(t, err)

	type key struct {
		Type    domain.ConflictType
		Mission string
	}
	var got []key
	for _, c := range rep.Conflicts {
		got = append(got, key{c.Type, c.MissionID})
	}
	assert.Equal(t, []key{
		{domain.ConflictPilotDoubleBooking, "PRJ001"},
		{domain.ConflictDroneInMaintenance, "PRJ002"},
		{domain.ConflictPilotDoubleBooking, "PRJ003"},
		{domain.ConflictPilotDroneLocation, "PRJ005"},
		{domain.ConflictPilotLocation, "PRJ001"},
		{domain.ConflictDroneLocation, "PRJ005"},
	}, got)
	assert.Equal(t, 6, rep.Total)
	assert.Equal(t, 3, rep.Critical)
	assert.Equal(t, 1, rep.High)
	assert.Equal(t, 2, rep.Medium)

	double := rep.Conflicts[0]
	assert.Equal(t, domain.SeverityCritical, double.Severity)
	assert.Equal(t, "P002", double.PilotID)
	maint := rep.Conflicts[1]
	assert.Equal(t, "D003", maint.DroneID)
}

func TestDetectAllConflictsIsStable(t *testing.T) {
	env := newTestEnv(t)
	first, err := env.Engine.DetectAllConflicts(env.Ctx)
	require.NoError(t, err)
	second, err := env.Engine.DetectAllConflicts(env.Ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for i := 1; i < len(first.Conflicts); i++ {
		assert.LessOrEqual(t, first.Conflicts[i-1].Severity.Rank(), first.Conflicts[i].Severity.Rank())
	}
}

func TestDetectAllConflictsMissingEntities(t *testing.T) {
	mem := store.NewMemory()
	mem.Put(store.Missions, store.Record{"project_id": "M1", "assigned_pilot": "P404", "assigned_drone": "D404"})
	eng := engine.New(mem, config.Default().Rules)
	rep, err := eng.DetectAllConflicts(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.Conflicts, 2)
	assert.Equal(t, domain.ConflictPilotNotFound, rep.Conflicts[0].Type)
	assert.Equal(t, domain.ConflictDroneNotFound, rep.Conflicts[1].Type)
	assert.Equal(t, 2, rep.Critical)
}

func TestDetectAllConflictsFollowsCurrentAssignment(t *testing.T) {
	mem := store.NewMemory()
	mem.Put(store.PilotRoster, store.Record{"pilot_id": "P002", "name": "Neha", "skills": "Inspection", "certifications": "DGCA", "location": "Mumbai", "status": "Assigned", "current_assignment": "PRJ003", "daily_rate_inr": "100"})
	mem.Put(store.Missions,
		store.Record{"project_id": "PRJ001", "location": "Mumbai", "required_skills": "Inspection", "required_certs": "DGCA", "start_date": "2024-02-01", "end_date": "2024-02-10", "mission_budget_inr": "100000", "assigned_pilot": "P002"},
		store.Record{"project_id": "PRJ003", "location": "Mumbai", "start_date": "2024-02-05", "end_date": "2024-02-12"},
		store.Record{"project_id": "PRJ009", "location": "Mumbai", "start_date": "2024-03-01", "end_date": "2024-03-02", "assigned_pilot": "P002"},
	)
	eng := engine.New(mem, config.Default().Rules)
	rep, err := eng.DetectAllConflicts(context.Background())
	require.NoError(t, err)

	var doubles []domain.Conflict
	for _, c := range rep.Conflicts {
		if c.Type == domain.ConflictPilotDoubleBooking {
			doubles = append(doubles, c)
		}
	}
	require.Len(t, doubles, 1)
	assert.Equal(t, "PRJ001", doubles[0].MissionID)
	assert.Equal(t, "P002", doubles[0].PilotID)
	assert.Contains(t, doubles[0].Detail, "PRJ003")
}

func TestDetectAllConflictsCountsEachPairOnce(t *testing.T) {
	mem := store.NewMemory()
	mem.Put(store.PilotRoster, store.Record{"pilot_id": "P002", "name": "Neha", "location": "Mumbai", "status": "Assigned", "current_assignment": "PRJ003"})
	mem.Put(store.Missions,
		store.Record{"project_id": "PRJ001", "location": "Mumbai", "start_date": "2024-02-01", "end_date": "2024-02-10", "assigned_pilot": "P002"},
		store.Record{"project_id": "PRJ003", "location": "Mumbai", "start_date": "2024-02-05", "end_date": "2024-02-12", "assigned_pilot": "P002"},
	)
	eng := engine.New(mem, config.Default().Rules)
	rep, err := eng.DetectAllConflicts(context.Background())
	require.NoError(t, err)

	perMission := map[string]int{}
	for _, c := range rep.Conflicts {
		if c.Type == domain.ConflictPilotDoubleBooking {
			perMission[c.MissionID]++
		}
	}
	assert.Equal(t, map[string]int{"PRJ001": 1, "PRJ003": 1}, perMission)
}

func TestCheckMissionConflicts(t *testing.T) {
	env := newTestEnv(t)
	mc, err := env.Engine.CheckMissionConflicts(env.Ctx, "PRJ005")
	require.NoError(t, err)
	assert.Equal(t, 2, mc.ConflictCount)
	assert.Equal(t, domain.ConflictPilotDroneLocation, mc.Conflicts[0].Type)

	none, err := env.Engine.CheckMissionConflicts(env.Ctx, "PRJ004")
	require.NoError(t, err)
	assert.Zero(t, none.ConflictCount)
	assert.NotNil(t, none.Conflicts)
}

func TestAssignPilotIsAdvisory(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.Engine.AssignPilot(env.Ctx, "P004", "PRJ004")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.AssignmentID)
	assert.Contains(t, res.ConflictsDetected, "Pilot is on leave")
	require.NotNil(t, res.Warning)

	pilot := env.row(t, store.PilotRoster, "P004")
	assert.Equal(t, "Assigned", pilot["status"])
	assert.Equal(t, "PRJ004", pilot["current_assignment"])
	assert.Equal(t, "Bangalore", pilot["location"])
	assert.Equal(t, "P004", env.row(t, store.Missions, "PRJ004")["assigned_pilot"])

	require.Len(t, env.Events.events, 1)
	evt := env.Events.events[0]
	assert.Equal(t, events.PilotAssigned, evt.Type)
	assert.Equal(t, "coordinator", evt.Actor)
	assert.Equal(t, "PRJ004", evt.Payload["mission_id"])
}

func TestAssignPilotWithoutConflicts(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.Engine.AssignPilot(env.Ctx, "P001", "PRJ004")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.ConflictsDetected)
	assert.Nil(t, res.Warning)
}

func TestAssignPilotUnknownPilotFails(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.Engine.AssignPilot(env.Ctx, "P404", "PRJ004")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.False(t, res.EntityUpdate.Success)

	_, err = env.Engine.AssignPilot(env.Ctx, "P001", "PRJ404")
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestAssignDrone(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.Engine.AssignDrone(env.Ctx, "D002", "PRJ004")
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.ConflictsDetected, 1)
	assert.Contains(t, res.ConflictsDetected[0], "Weather mismatch")

	drone := env.row(t, store.DroneFleet, "D002")
	assert.Equal(t, "Deployed", drone["status"])
	assert.Equal(t, "PRJ004", drone["current_assignment"])
	assert.Equal(t, "Bangalore", drone["location"])
	assert.Equal(t, "D002", env.row(t, store.Missions, "PRJ004")["assigned_drone"])
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.UpdatePilotStatus(env.Ctx, "P001", "Sleeping", "")
	assert.ErrorIs(t, err, engine.ErrInvalidArgument)
	_, err = env.Engine.UpdateDroneStatus(env.Ctx, "D001", "available", "")
	assert.ErrorIs(t, err, engine.ErrInvalidArgument)

	res, err := env.Engine.UpdatePilotStatus(env.Ctx, "P003", "Assigned", "PRJ001")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "PRJ001", env.row(t, store.PilotRoster, "P003")["current_assignment"])

	res, err = env.Engine.UpdateDroneStatus(env.Ctx, "D004", "Available", "Hyderabad")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, res.Details, 3)
	drone := env.row(t, store.DroneFleet, "D004")
	assert.Equal(t, "", drone["current_assignment"])
	assert.Equal(t, "Hyderabad", drone["location"])

	res, err = env.Engine.UpdateDroneStatus(env.Ctx, "D404", "Maintenance", "")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Len(t, env.Events.events, 3)
}

func TestQueries(t *testing.T) {
	env := newTestEnv(t)
	pilots, err := env.Engine.QueryPilots(env.Ctx, engine.PilotFilter{Skill: "mapping", Status: "available"})
	require.NoError(t, err)
	var ids []string
	for _, p := range pilots {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"P001", "P003", "P005"}, ids)

	drones, err := env.Engine.QueryDrones(env.Ctx, engine.DroneFilter{WeatherResistance: "ip43", Location: "bangalore"})
	require.NoError(t, err)
	require.Len(t, drones, 2)

	assigned, err := env.Engine.PilotAssignments(env.Ctx)
	require.NoError(t, err)
	require.Equal(t, 1, assigned.Count)
	require.NotNil(t, assigned.Assignments[0].Mission)
	assert.Equal(t, "Mumbai", assigned.Assignments[0].Mission.Location)

	active, err := env.Engine.ActiveAssignments(env.Ctx)
	require.NoError(t, err)
	assert.Len(t, active, 4)
}

func TestFlagMaintenance(t *testing.T) {
	env := newTestEnv(t)
	rep, err := env.Engine.FlagMaintenance(env.Ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, rep.HorizonDays)
	require.Equal(t, 2, rep.OverdueCount)
	assert.Equal(t, "D003", rep.Overdue[0].DroneID)
	assert.Equal(t, -5, rep.Overdue[0].DaysUntilDue)
	assert.Equal(t, "Overdue by 5 days", rep.Overdue[0].Flag)
	require.Equal(t, 1, rep.UpcomingCount)
	assert.Equal(t, "D002", rep.Upcoming[0].DroneID)
	assert.Equal(t, 7, rep.Upcoming[0].DaysUntilDue)
}

func TestSummary(t *testing.T) {
	env := newTestEnv(t)
	s, err := env.Engine.Summary(env.Ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.FleetSummary{PilotsReady: 3, DronesReady: 3, DronesInMaintenance: 1, Missions: 5, ActiveMissions: 4}, s)
}

func TestAssignThroughSQLiteStore(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, migrate.Migrate(conn))
	r := repo.Repo{DB: conn}
	ctx := context.Background()
	for table, rows := range map[store.Table][]store.Record{
		store.PilotRoster: fixturePilots,
		store.DroneFleet:  fixtureDrones,
		store.Missions:    fixtureMissions,
	} {
		_, err := r.ImportRecords(ctx, table, rows)
		require.NoError(t, err)
	}

	eng := engine.New(r, config.Default().Rules)
	eng.Events = events.Writer{DB: conn, Now: func() time.Time { return fixedNow }}
	res, err := eng.AssignDrone(ctx, "D005", "PRJ004")
	require.NoError(t, err)
	assert.True(t, res.Success)

	got, err := r.Get(ctx, store.DroneFleet, "D005")
	require.NoError(t, err)
	assert.Equal(t, "Deployed", got["status"])
	assert.Equal(t, "Bangalore", got["location"])

	evts, err := r.LatestEvents(ctx, 5, repo.EventFilter{EntityID: "D005"})
	require.NoError(t, err)
	require.Len(t, evts, 1)
	assert.Equal(t, events.DroneAssigned, evts[0].Type)
	assert.Equal(t, engine.DefaultActor, evts[0].ActorID)

	rep, err := eng.DetectAllConflicts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Critical)
}
