package domain

type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
)

// Rank orders severities for sorting; unknown values sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	default:
		return 9
	}
}

type ConflictType string

const (
	ConflictPilotNotFound      ConflictType = "PILOT_NOT_FOUND"
	ConflictDroneNotFound      ConflictType = "DRONE_NOT_FOUND"
	ConflictCertMismatch       ConflictType = "CERT_MISMATCH"
	ConflictSkillMismatch      ConflictType = "SKILL_MISMATCH"
	ConflictBudgetOverrun      ConflictType = "BUDGET_OVERRUN"
	ConflictPilotDoubleBooking ConflictType = "PILOT_DOUBLE_BOOKING"
	ConflictPilotLocation      ConflictType = "PILOT_LOCATION_MISMATCH"
	ConflictDroneInMaintenance ConflictType = "DRONE_IN_MAINTENANCE"
	ConflictWeatherRisk        ConflictType = "WEATHER_RISK"
	ConflictDroneLocation      ConflictType = "DRONE_LOCATION_MISMATCH"
	ConflictPilotDroneLocation ConflictType = "PILOT_DRONE_LOCATION_MISMATCH"
)

type Conflict struct {
	Type      ConflictType `json:"type"`
	Severity  Severity     `json:"severity" enum:"Critical,High,Medium"`
	MissionID string       `json:"mission"`
	PilotID   string       `json:"pilot,omitempty"`
	DroneID   string       `json:"drone,omitempty"`
	Detail    string       `json:"detail"`
}

type ConflictReport struct {
	Total     int        `json:"total_conflicts"`
	Critical  int        `json:"critical"`
	High      int        `json:"high"`
	Medium    int        `json:"medium"`
	Conflicts []Conflict `json:"conflicts"`
}

type MissionConflicts struct {
	MissionID     string     `json:"mission_id"`
	ConflictCount int        `json:"conflict_count"`
	Conflicts     []Conflict `json:"conflicts"`
}

// CostReport is the pilot-cost-versus-budget evaluation for one pilot and mission.
type CostReport struct {
	PilotID          string  `json:"pilot_id"`
	PilotName        string  `json:"pilot_name"`
	MissionID        string  `json:"mission_id"`
	DailyRate        float64 `json:"daily_rate_inr"`
	DurationDays     int     `json:"duration_days"`
	TotalCost        float64 `json:"total_cost_inr"`
	Budget           float64 `json:"mission_budget_inr"`
	WithinBudget     bool    `json:"within_budget"`
	SurplusOrDeficit float64 `json:"surplus_or_deficit_inr"`
	BudgetWarning    *string `json:"budget_warning"`
}

type PilotCandidate struct {
	PilotID        string      `json:"pilot_id"`
	Name           string      `json:"name"`
	Status         PilotStatus `json:"status"`
	Location       string      `json:"location"`
	LocationMatch  bool        `json:"location_matches_mission"`
	Skills         string      `json:"skills"`
	Certifications string      `json:"certifications"`
	DailyRate      float64     `json:"daily_rate_inr"`
	EstimatedCost  float64     `json:"estimated_total_cost_inr"`
	WithinBudget   bool        `json:"within_budget"`
	Issues         []string    `json:"issues"`
	Warnings       []string    `json:"warnings"`
}

type PilotMatchReport struct {
	MissionID       string           `json:"mission_id"`
	MissionLocation string           `json:"mission_location"`
	RequiredSkills  string           `json:"required_skills"`
	RequiredCerts   string           `json:"required_certs"`
	Budget          float64          `json:"budget_inr"`
	WeatherForecast string           `json:"weather_forecast"`
	Perfect         []PilotCandidate `json:"perfect_matches"`
	WithWarnings    []PilotCandidate `json:"matches_with_warnings"`
	Ineligible      []PilotCandidate `json:"ineligible"`
}

// All returns every candidate across the three tiers.
func (r PilotMatchReport) All() []PilotCandidate {
	out := make([]PilotCandidate, 0, len(r.Perfect)+len(r.WithWarnings)+len(r.Ineligible))
	out = append(out, r.Perfect...)
	out = append(out, r.WithWarnings...)
	return append(out, r.Ineligible...)
}

type DroneCandidate struct {
	DroneID              string      `json:"drone_id"`
	Model                string      `json:"model"`
	Capabilities         string      `json:"capabilities"`
	WeatherResistance    string      `json:"weather_resistance"`
	Status               DroneStatus `json:"status"`
	Location             string      `json:"location"`
	LocationMatch        bool        `json:"location_matches_mission"`
	MatchingCapabilities []string    `json:"matching_capabilities"`
	MissingCapabilities  []string    `json:"missing_capabilities"`
	WeatherOK            bool        `json:"weather_ok"`
	MissionWeather       string      `json:"mission_weather"`
	Issues               []string    `json:"issues"`
	Warnings             []string    `json:"warnings"`
}

type DroneMatchReport struct {
	MissionID       string           `json:"mission_id"`
	WeatherForecast string           `json:"weather_forecast"`
	Suitable        []DroneCandidate `json:"suitable_drones"`
	WithWarnings    []DroneCandidate `json:"drones_with_warnings"`
	Blocked         []DroneCandidate `json:"blocked_drones"`
}

func (r DroneMatchReport) All() []DroneCandidate {
	out := make([]DroneCandidate, 0, len(r.Suitable)+len(r.WithWarnings)+len(r.Blocked))
	out = append(out, r.Suitable...)
	out = append(out, r.WithWarnings...)
	return append(out, r.Blocked...)
}

// UpdateResult reports the outcome of a single field write.
type UpdateResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// MultiUpdateResult aggregates per-field writes; Success is their conjunction.
type MultiUpdateResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Details []UpdateResult `json:"details"`
}

type AssignmentResult struct {
	Success           bool              `json:"success"`
	AssignmentID      string            `json:"assignment_id"`
	EntityUpdate      MultiUpdateResult `json:"entity_update"`
	MissionUpdate     UpdateResult      `json:"mission_update"`
	ConflictsDetected []string          `json:"conflicts_detected"`
	Warning           *string           `json:"warning"`
}

type MissionDetails struct {
	Client    string   `json:"client"`
	Location  string   `json:"location"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Priority  Priority `json:"priority"`
}

type PilotAssignment struct {
	Pilot   Pilot           `json:"pilot"`
	Mission *MissionDetails `json:"mission_details,omitempty"`
}

type PilotAssignments struct {
	Count       int               `json:"assigned_count"`
	Assignments []PilotAssignment `json:"assignments"`
}

type MaintenanceFlag struct {
	DroneID        string      `json:"drone_id"`
	Model          string      `json:"model"`
	Location       string      `json:"location"`
	Status         DroneStatus `json:"status"`
	MaintenanceDue string      `json:"maintenance_due"`
	DaysUntilDue   int         `json:"days_until_due"`
	Flag           string      `json:"flag"`
}

type MaintenanceReport struct {
	OverdueCount  int               `json:"overdue_count"`
	UpcomingCount int               `json:"upcoming_count"`
	HorizonDays   int               `json:"horizon_days"`
	Overdue       []MaintenanceFlag `json:"overdue"`
	Upcoming      []MaintenanceFlag `json:"upcoming"`
}

type FleetSummary struct {
	PilotsReady         int `json:"pilots_ready"`
	DronesReady         int `json:"drones_ready"`
	DronesInMaintenance int `json:"drones_in_maintenance"`
	Missions            int `json:"missions"`
	ActiveMissions      int `json:"active_missions"`
}
