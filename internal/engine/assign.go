package engine

import (
	"context"

	"github.com/google/uuid"

	"droneops/internal/domain"
	"droneops/internal/events"
	"droneops/internal/store"
)

const conflictWarning = "Assignment made despite conflicts; please review"

// AssignPilot attaches a pilot to a mission. The pilot matcher is re-run first
// and the pilot's issues are returned as advisory conflicts; they never block
// the write. Success reflects only whether the record updates succeeded.
func (e Engine) AssignPilot(ctx context.Context, pilotID, missionID string) (domain.AssignmentResult, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return domain.AssignmentResult{}, err
	}
	m, err := findMission(snap, missionID)
	if err != nil {
		return domain.AssignmentResult{}, err
	}
	var conflicts []string
	for _, c := range matchPilots(snap, m, e.currency()).All() {
		if c.PilotID == pilotID {
			conflicts = c.Issues
			break
		}
	}

	entity := e.Store.UpdateFields(ctx, store.PilotRoster, pilotID, []store.Field{
		{Column: "status", Value: string(domain.PilotAssigned)},
		{Column: "current_assignment", Value: missionID},
		{Column: "location", Value: m.Location},
	})
	mission := e.Store.UpdateField(ctx, store.Missions, missionID, "assigned_pilot", pilotID)
	res := assignmentResult(entity, mission, conflicts)

	e.log().Infof("assigned pilot %s to %s (success=%t, conflicts=%d)", pilotID, missionID, res.Success, len(res.ConflictsDetected))
	e.sink().RecordAssignment("pilot", len(res.ConflictsDetected), res.Success)
	e.record(ctx, events.PilotAssigned, "pilot", pilotID, events.EventPayload{
		"assignment_id": res.AssignmentID,
		"mission_id":    missionID,
		"success":       res.Success,
		"conflicts":     res.ConflictsDetected,
	})
	return res, nil
}

// AssignDrone attaches a drone to a mission and moves it to the mission
// location. Conflicts from the drone matcher are advisory.
func (e Engine) AssignDrone(ctx context.Context, droneID, missionID string) (domain.AssignmentResult, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return domain.AssignmentResult{}, err
	}
	m, err := findMission(snap, missionID)
	if err != nil {
		return domain.AssignmentResult{}, err
	}
	var conflicts []string
	for _, c := range matchDrones(snap, m, e.Rules.RainMarkers).All() {
		if c.DroneID == droneID {
			conflicts = c.Issues
			break
		}
	}

	entity := e.Store.UpdateFields(ctx, store.DroneFleet, droneID, []store.Field{
		{Column: "status", Value: string(domain.DroneDeployed)},
		{Column: "current_assignment", Value: missionID},
		{Column: "location", Value: m.Location},
	})
	mission := e.Store.UpdateField(ctx, store.Missions, missionID, "assigned_drone", droneID)
	res := assignmentResult(entity, mission, conflicts)

	e.log().Infof("assigned drone %s to %s (success=%t, conflicts=%d)", droneID, missionID, res.Success, len(res.ConflictsDetected))
	e.sink().RecordAssignment("drone", len(res.ConflictsDetected), res.Success)
	e.record(ctx, events.DroneAssigned, "drone", droneID, events.EventPayload{
		"assignment_id": res.AssignmentID,
		"mission_id":    missionID,
		"success":       res.Success,
		"conflicts":     res.ConflictsDetected,
	})
	return res, nil
}

func assignmentResult(entity domain.MultiUpdateResult, mission domain.UpdateResult, conflicts []string) domain.AssignmentResult {
	res := domain.AssignmentResult{
		Success:           entity.Success && mission.Success,
		AssignmentID:      uuid.NewString(),
		EntityUpdate:      entity,
		MissionUpdate:     mission,
		ConflictsDetected: []string{},
	}
	if len(conflicts) > 0 {
		res.ConflictsDetected = append(res.ConflictsDetected, conflicts...)
		w := conflictWarning
		res.Warning = &w
	}
	return res
}
