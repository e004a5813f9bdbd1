package droneopssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal drone operations HTTP API client.
type Client struct {
	BaseURL     string
	ActorID     string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Pilot represents a roster entry.
type Pilot struct {
	ID                string  `json:"pilot_id"`
	Name              string  `json:"name"`
	Skills            string  `json:"skills"`
	Certifications    string  `json:"certifications"`
	Location          string  `json:"location"`
	Status            string  `json:"status"`
	CurrentAssignment string  `json:"current_assignment"`
	AvailableFrom     string  `json:"available_from"`
	DailyRate         float64 `json:"daily_rate_inr"`
}

// Drone represents a fleet entry.
type Drone struct {
	ID                string `json:"drone_id"`
	Model             string `json:"model"`
	Capabilities      string `json:"capabilities"`
	WeatherResistance string `json:"weather_resistance"`
	Status            string `json:"status"`
	Location          string `json:"location"`
	CurrentAssignment string `json:"current_assignment"`
	MaintenanceDue    string `json:"maintenance_due"`
}

// Candidate is one classified pilot or drone in a match response (partial).
type Candidate struct {
	PilotID  string   `json:"pilot_id,omitempty"`
	DroneID  string   `json:"drone_id,omitempty"`
	Location string   `json:"location"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}

// PilotMatches groups pilots by eligibility for a mission.
type PilotMatches struct {
	MissionID    string      `json:"mission_id"`
	Perfect      []Candidate `json:"perfect_matches"`
	WithWarnings []Candidate `json:"matches_with_warnings"`
	Ineligible   []Candidate `json:"ineligible"`
}

type DroneMatches struct {
	MissionID    string      `json:"mission_id"`
	Suitable     []Candidate `json:"suitable_drones"`
	WithWarnings []Candidate `json:"drones_with_warnings"`
	Blocked      []Candidate `json:"blocked_drones"`
}

// Assignment is the outcome of assigning a pilot or drone.
type Assignment struct {
	Success           bool     `json:"success"`
	AssignmentID      string   `json:"assignment_id"`
	ConflictsDetected []string `json:"conflicts_detected"`
	Warning           *string  `json:"warning"`
}

type Conflict struct {
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	MissionID string `json:"mission"`
	PilotID   string `json:"pilot,omitempty"`
	DroneID   string `json:"drone,omitempty"`
	Detail    string `json:"detail"`
}

// ConflictReport is a fleet-wide scan result.
type ConflictReport struct {
	Total     int        `json:"total_conflicts"`
	Critical  int        `json:"critical"`
	High      int        `json:"high"`
	Medium    int        `json:"medium"`
	Conflicts []Conflict `json:"conflicts"`
}

// Cost is a pilot price for a mission.
type Cost struct {
	TotalCost        float64 `json:"total_cost_inr"`
	Budget           float64 `json:"mission_budget_inr"`
	WithinBudget     bool    `json:"within_budget"`
	SurplusOrDeficit float64 `json:"surplus_or_deficit_inr"`
	BudgetWarning    *string `json:"budget_warning"`
}

// UpdateResult reports a multi-field write.
type UpdateResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MaintenanceFlag is one overdue or upcoming drone service entry.
type MaintenanceFlag struct {
	DroneID        string `json:"drone_id"`
	MaintenanceDue string `json:"maintenance_due"`
	DaysUntilDue   int    `json:"days_until_due"`
	Flag           string `json:"flag"`
}

type MaintenanceReport struct {
	HorizonDays int               `json:"horizon_days"`
	Overdue     []MaintenanceFlag `json:"overdue"`
	Upcoming    []MaintenanceFlag `json:"upcoming"`
}

type Summary struct {
	PilotsReady         int `json:"pilots_ready"`
	DronesReady         int `json:"drones_ready"`
	DronesInMaintenance int `json:"drones_in_maintenance"`
	Missions            int `json:"missions"`
	ActiveMissions      int `json:"active_missions"`
}

// Event is an audit record of a write.
type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// ListPilots queries the roster. Empty filter values are ignored.
func (c *Client) ListPilots(ctx context.Context, skill, certification, location, status string) ([]Pilot, error) {
	q := url.Values{}
	setIf(q, "skill", skill)
	setIf(q, "certification", certification)
	setIf(q, "location", location)
	setIf(q, "status", status)
	var resp struct {
		Pilots []Pilot `json:"pilots"`
	}
	err := c.do(ctx, http.MethodGet, withQuery("v0/pilots", q), nil, &resp)
	return resp.Pilots, err
}

func (c *Client) ListDrones(ctx context.Context, capability, location, weatherResistance, status string) ([]Drone, error) {
	q := url.Values{}
	setIf(q, "capability", capability)
	setIf(q, "location", location)
	setIf(q, "weather_resistance", weatherResistance)
	setIf(q, "status", status)
	var resp struct {
		Drones []Drone `json:"drones"`
	}
	err := c.do(ctx, http.MethodGet, withQuery("v0/drones", q), nil, &resp)
	return resp.Drones, err
}

// PilotCost prices a pilot for a mission.
func (c *Client) PilotCost(ctx context.Context, pilotID, missionID string) (Cost, error) {
	var resp Cost
	endpoint := fmt.Sprintf("v0/pilots/%s/cost/%s", url.PathEscape(pilotID), url.PathEscape(missionID))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) MatchPilots(ctx context.Context, missionID string) (PilotMatches, error) {
	var resp PilotMatches
	err := c.do(ctx, http.MethodGet, c.missionPath(missionID, "pilot-matches"), nil, &resp)
	return resp, err
}

func (c *Client) MatchDrones(ctx context.Context, missionID string) (DroneMatches, error) {
	var resp DroneMatches
	err := c.do(ctx, http.MethodGet, c.missionPath(missionID, "drone-matches"), nil, &resp)
	return resp, err
}

// AssignPilot assigns a pilot to a mission. Conflicts never block it.
func (c *Client) AssignPilot(ctx context.Context, missionID, pilotID string) (Assignment, error) {
	var resp Assignment
	err := c.do(ctx, http.MethodPost, c.missionPath(missionID, "pilot"), map[string]any{"pilot_id": pilotID}, &resp)
	return resp, err
}

func (c *Client) AssignDrone(ctx context.Context, missionID, droneID string) (Assignment, error) {
	var resp Assignment
	err := c.do(ctx, http.MethodPost, c.missionPath(missionID, "drone"), map[string]any{"drone_id": droneID}, &resp)
	return resp, err
}

// UpdatePilotStatus sets a pilot's status and current assignment.
func (c *Client) UpdatePilotStatus(ctx context.Context, pilotID, status, assignment string) (UpdateResult, error) {
	var resp UpdateResult
	endpoint := fmt.Sprintf("v0/pilots/%s/status", url.PathEscape(pilotID))
	err := c.do(ctx, http.MethodPut, endpoint, map[string]any{"status": status, "current_assignment": assignment}, &resp)
	return resp, err
}

func (c *Client) UpdateDroneStatus(ctx context.Context, droneID, status, location string) (UpdateResult, error) {
	var resp UpdateResult
	endpoint := fmt.Sprintf("v0/drones/%s/status", url.PathEscape(droneID))
	err := c.do(ctx, http.MethodPut, endpoint, map[string]any{"status": status, "location": location}, &resp)
	return resp, err
}

// Conflicts runs a fleet-wide conflict scan.
func (c *Client) Conflicts(ctx context.Context) (ConflictReport, error) {
	var resp ConflictReport
	err := c.do(ctx, http.MethodGet, "v0/conflicts", nil, &resp)
	return resp, err
}

func (c *Client) MissionConflicts(ctx context.Context, missionID string) ([]Conflict, error) {
	var resp struct {
		Conflicts []Conflict `json:"conflicts"`
	}
	err := c.do(ctx, http.MethodGet, c.missionPath(missionID, "conflicts"), nil, &resp)
	return resp.Conflicts, err
}

func (c *Client) Maintenance(ctx context.Context) (MaintenanceReport, error) {
	var resp MaintenanceReport
	err := c.do(ctx, http.MethodGet, "v0/drones/maintenance", nil, &resp)
	return resp, err
}

func (c *Client) Summary(ctx context.Context) (Summary, error) {
	var resp Summary
	err := c.do(ctx, http.MethodGet, "v0/summary", nil, &resp)
	return resp, err
}

// Events lists the most recent audit events, newest first.
func (c *Client) Events(ctx context.Context, limit int, eventType, entityKind, entityID string) ([]Event, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	setIf(q, "type", eventType)
	setIf(q, "entity_kind", entityKind)
	setIf(q, "entity_id", entityID)
	var resp struct {
		Items []Event `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, withQuery("v0/events", q), nil, &resp)
	return resp.Items, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	if c.ActorID != "" {
		req.Header.Set("X-Actor-Id", c.ActorID)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) missionPath(missionID, p string) string {
	return fmt.Sprintf("v0/missions/%s/%s", url.PathEscape(missionID), strings.TrimLeft(p, "/"))
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func withQuery(endpoint string, q url.Values) string {
	if len(q) == 0 {
		return endpoint
	}
	return endpoint + "?" + q.Encode()
}
