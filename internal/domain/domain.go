package domain

import "time"

type PilotStatus string

const (
	PilotAvailable   PilotStatus = "Available"
	PilotAssigned    PilotStatus = "Assigned"
	PilotOnLeave     PilotStatus = "On Leave"
	PilotUnavailable PilotStatus = "Unavailable"
)

// PilotStatuses lists the accepted pilot status values in display order.
var PilotStatuses = []PilotStatus{PilotAvailable, PilotAssigned, PilotOnLeave, PilotUnavailable}

type DroneStatus string

const (
	DroneAvailable   DroneStatus = "Available"
	DroneDeployed    DroneStatus = "Deployed"
	DroneMaintenance DroneStatus = "Maintenance"
)

var DroneStatuses = []DroneStatus{DroneAvailable, DroneDeployed, DroneMaintenance}

type Priority string

const (
	PriorityUrgent   Priority = "Urgent"
	PriorityHigh     Priority = "High"
	PriorityStandard Priority = "Standard"
)

// ValidPilotStatus reports whether s is one of PilotStatuses (exact match).
func ValidPilotStatus(s string) bool {
	for _, v := range PilotStatuses {
		if string(v) == s {
			return true
		}
	}
	return false
}

func ValidDroneStatus(s string) bool {
	for _, v := range DroneStatuses {
		if string(v) == s {
			return true
		}
	}
	return false
}

// Pilot is one row of the pilot roster after parsing.
type Pilot struct {
	ID                string      `json:"pilot_id"`
	Name              string      `json:"name"`
	Skills            string      `json:"skills"`
	Certifications    string      `json:"certifications"`
	Location          string      `json:"location"`
	Status            PilotStatus `json:"status" enum:"Available,Assigned,On Leave,Unavailable"`
	CurrentAssignment string      `json:"current_assignment,omitempty"`
	AvailableFromRaw  string      `json:"available_from,omitempty"`
	AvailableFrom     *time.Time  `json:"-"`
	DailyRate         float64     `json:"daily_rate_inr"`
}

// Drone is one row of the drone fleet after parsing.
type Drone struct {
	ID                string      `json:"drone_id"`
	Model             string      `json:"model"`
	Capabilities      string      `json:"capabilities"`
	WeatherResistance string      `json:"weather_resistance"`
	Status            DroneStatus `json:"status" enum:"Available,Deployed,Maintenance"`
	Location          string      `json:"location"`
	CurrentAssignment string      `json:"current_assignment,omitempty"`
	MaintenanceDueRaw string      `json:"maintenance_due,omitempty"`
	MaintenanceDue    *time.Time  `json:"-"`
}

// Mission is one row of the mission list after parsing. Dates are kept in
// their source text; rules parse them on demand so malformed values degrade
// per check instead of dropping the row.
type Mission struct {
	ID              string   `json:"project_id"`
	Client          string   `json:"client"`
	Location        string   `json:"location"`
	RequiredSkills  string   `json:"required_skills"`
	RequiredCerts   string   `json:"required_certs"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	Priority        Priority `json:"priority"`
	Budget          float64  `json:"mission_budget_inr"`
	WeatherForecast string   `json:"weather_forecast"`
	AssignedPilot   string   `json:"assigned_pilot,omitempty"`
	AssignedDrone   string   `json:"assigned_drone,omitempty"`
	Status          string   `json:"status,omitempty"`
}

// HasAssignment reports whether a pilot or drone is attached to the mission.
func (m Mission) HasAssignment() bool {
	return m.AssignedPilot != "" || m.AssignedDrone != ""
}
