package server

import "droneops/internal/domain"

// Request payloads

type PilotStatusRequest struct {
	Status            string `json:"status" enum:"Available,Assigned,On Leave,Unavailable"`
	CurrentAssignment string `json:"current_assignment,omitempty"`
}

type DroneStatusRequest struct {
	Status   string `json:"status" enum:"Available,Deployed,Maintenance"`
	Location string `json:"location,omitempty"`
}

type AssignPilotRequest struct {
	PilotID string `json:"pilot_id" minLength:"1"`
}

type AssignDroneRequest struct {
	DroneID string `json:"drone_id" minLength:"1"`
}

// Response payloads

type PilotList struct {
	Count  int            `json:"count"`
	Pilots []domain.Pilot `json:"pilots"`
}

type DroneList struct {
	Count  int            `json:"count"`
	Drones []domain.Drone `json:"drones"`
}

type MissionList struct {
	Count    int              `json:"count"`
	Missions []domain.Mission `json:"missions"`
}

type EventList struct {
	Items []domain.Event `json:"items"`
}
