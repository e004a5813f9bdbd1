package engine

import (
	"context"
	"fmt"

	"droneops/internal/domain"
	"droneops/internal/events"
	"droneops/internal/store"
)

// UpdatePilotStatus writes a pilot's status and current assignment. The
// status must be one of domain.PilotStatuses.
func (e Engine) UpdatePilotStatus(ctx context.Context, pilotID, status, assignment string) (domain.MultiUpdateResult, error) {
	if !domain.ValidPilotStatus(status) {
		return domain.MultiUpdateResult{}, fmt.Errorf("%w: pilot status %q, choose from %v", ErrInvalidArgument, status, domain.PilotStatuses)
	}
	res := e.Store.UpdateFields(ctx, store.PilotRoster, pilotID, []store.Field{
		{Column: "status", Value: status},
		{Column: "current_assignment", Value: assignment},
	})
	e.record(ctx, events.PilotStatusChanged, "pilot", pilotID, events.EventPayload{
		"status":     status,
		"assignment": assignment,
		"success":    res.Success,
	})
	return res, nil
}

// UpdateDroneStatus writes a drone's status. Returning a drone to Available
// clears its current assignment; a non-empty location is written too.
func (e Engine) UpdateDroneStatus(ctx context.Context, droneID, status, location string) (domain.MultiUpdateResult, error) {
	if !domain.ValidDroneStatus(status) {
		return domain.MultiUpdateResult{}, fmt.Errorf("%w: drone status %q, choose from %v", ErrInvalidArgument, status, domain.DroneStatuses)
	}
	fields := []store.Field{{Column: "status", Value: status}}
	if domain.DroneStatus(status) == domain.DroneAvailable {
		fields = append(fields, store.Field{Column: "current_assignment", Value: ""})
	}
	if location != "" {
		fields = append(fields, store.Field{Column: "location", Value: location})
	}
	res := e.Store.UpdateFields(ctx, store.DroneFleet, droneID, fields)
	e.record(ctx, events.DroneStatusChanged, "drone", droneID, events.EventPayload{
		"status":   status,
		"location": location,
		"success":  res.Success,
	})
	return res, nil
}
