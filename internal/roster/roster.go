// Package roster converts untyped table rows into typed pilots, drones and
// missions. Malformed values never drop a row: numbers (NaN, infinities and
// negatives included) degrade to 0, dates to "no date", and each degradation
// is reported as an Issue.
package roster

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"droneops/internal/domain"
	"droneops/internal/rules"
	"droneops/internal/store"
)

// Issue describes one malformed value encountered while parsing.
type Issue struct {
	Table  store.Table
	ID     string
	Column string
	Value  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: malformed %s %q", i.Table, i.ID, i.Column, i.Value)
}

type parser struct {
	table  store.Table
	issues []Issue
}

func (p *parser) number(rec store.Record, id, col string) float64 {
	raw := strings.TrimSpace(rec[col])
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	// Rates and budgets are finite amounts of money, never negative.
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		p.issues = append(p.issues, Issue{Table: p.table, ID: id, Column: col, Value: raw})
		return 0
	}
	return v
}

func (p *parser) date(rec store.Record, id, col string) *time.Time {
	raw := strings.TrimSpace(rec[col])
	if raw == "" {
		return nil
	}
	t, ok := rules.ParseDate(raw)
	if !ok {
		p.issues = append(p.issues, Issue{Table: p.table, ID: id, Column: col, Value: raw})
		return nil
	}
	return &t
}

func field(rec store.Record, col string) string {
	return strings.TrimSpace(rec[col])
}

// Pilots parses pilot_roster rows.
func Pilots(records []store.Record) ([]domain.Pilot, []Issue) {
	p := parser{table: store.PilotRoster}
	out := make([]domain.Pilot, 0, len(records))
	for _, rec := range records {
		id := field(rec, "pilot_id")
		if id == "" {
			continue
		}
		out = append(out, domain.Pilot{
			ID:                id,
			Name:              field(rec, "name"),
			Skills:            field(rec, "skills"),
			Certifications:    field(rec, "certifications"),
			Location:          field(rec, "location"),
			Status:            domain.PilotStatus(field(rec, "status")),
			CurrentAssignment: field(rec, "current_assignment"),
			AvailableFromRaw:  field(rec, "available_from"),
			AvailableFrom:     p.date(rec, id, "available_from"),
			DailyRate:         p.number(rec, id, "daily_rate_inr"),
		})
	}
	return out, p.issues
}

// Drones parses drone_fleet rows.
func Drones(records []store.Record) ([]domain.Drone, []Issue) {
	p := parser{table: store.DroneFleet}
	out := make([]domain.Drone, 0, len(records))
	for _, rec := range records {
		id := field(rec, "drone_id")
		if id == "" {
			continue
		}
		out = append(out, domain.Drone{
			ID:                id,
			Model:             field(rec, "model"),
			Capabilities:      field(rec, "capabilities"),
			WeatherResistance: field(rec, "weather_resistance"),
			Status:            domain.DroneStatus(field(rec, "status")),
			Location:          field(rec, "location"),
			CurrentAssignment: field(rec, "current_assignment"),
			MaintenanceDueRaw: field(rec, "maintenance_due"),
			MaintenanceDue:    p.date(rec, id, "maintenance_due"),
		})
	}
	return out, p.issues
}

// Missions parses missions rows. Start and end dates stay textual; they are
// validated here only so malformed values surface as issues.
func Missions(records []store.Record) ([]domain.Mission, []Issue) {
	p := parser{table: store.Missions}
	out := make([]domain.Mission, 0, len(records))
	for _, rec := range records {
		id := field(rec, "project_id")
		if id == "" {
			continue
		}
		p.date(rec, id, "start_date")
		p.date(rec, id, "end_date")
		out = append(out, domain.Mission{
			ID:              id,
			Client:          field(rec, "client"),
			Location:        field(rec, "location"),
			RequiredSkills:  field(rec, "required_skills"),
			RequiredCerts:   field(rec, "required_certs"),
			StartDate:       field(rec, "start_date"),
			EndDate:         field(rec, "end_date"),
			Priority:        domain.Priority(field(rec, "priority")),
			Budget:          p.number(rec, id, "mission_budget_inr"),
			WeatherForecast: field(rec, "weather_forecast"),
			AssignedPilot:   field(rec, "assigned_pilot"),
			AssignedDrone:   field(rec, "assigned_drone"),
			Status:          field(rec, "status"),
		})
	}
	return out, p.issues
}
