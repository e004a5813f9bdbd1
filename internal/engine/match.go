package engine

import (
	"context"
	"fmt"
	"strings"

	"droneops/internal/domain"
	"droneops/internal/roster"
	"droneops/internal/rules"
)

// MatchPilots classifies every pilot in the roster against a mission. A pilot
// with any issue is ineligible; with only warnings it is viable; otherwise it
// is a perfect match. Nothing is written.
func (e Engine) MatchPilots(ctx context.Context, missionID string) (domain.PilotMatchReport, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return domain.PilotMatchReport{}, err
	}
	m, err := findMission(snap, missionID)
	if err != nil {
		return domain.PilotMatchReport{}, err
	}
	return matchPilots(snap, m, e.currency()), nil
}

func matchPilots(snap roster.Snapshot, m domain.Mission, currency string) domain.PilotMatchReport {
	rep := domain.PilotMatchReport{
		MissionID:       m.ID,
		MissionLocation: m.Location,
		RequiredSkills:  m.RequiredSkills,
		RequiredCerts:   m.RequiredCerts,
		Budget:          m.Budget,
		WeatherForecast: m.WeatherForecast,
		Perfect:         []domain.PilotCandidate{},
		WithWarnings:    []domain.PilotCandidate{},
		Ineligible:      []domain.PilotCandidate{},
	}
	for _, p := range snap.Pilots {
		c := evaluatePilot(snap, p, m, currency)
		switch {
		case len(c.Issues) > 0:
			rep.Ineligible = append(rep.Ineligible, c)
		case len(c.Warnings) > 0:
			rep.WithWarnings = append(rep.WithWarnings, c)
		default:
			rep.Perfect = append(rep.Perfect, c)
		}
	}
	return rep
}

func evaluatePilot(snap roster.Snapshot, p domain.Pilot, m domain.Mission, currency string) domain.PilotCandidate {
	issues := []string{}
	warnings := []string{}

	if reason, blocked := rules.PilotStatusBlock(p); blocked {
		issues = append(issues, reason)
	}
	if rules.AvailableAfterStart(p, m) {
		issues = append(issues, fmt.Sprintf("Not available until %s (mission starts %s)", p.AvailableFromRaw, m.StartDate))
	}
	// The current assignment may be m itself; that still counts as a clash.
	if p.Status == domain.PilotAssigned && p.CurrentAssignment != "" {
		if current, ok := snap.MissionByID(p.CurrentAssignment); ok && rules.MissionsOverlap(m, current) {
			issues = append(issues, fmt.Sprintf("Double-booking: already assigned to %s which overlaps these dates", current.ID))
		}
	}
	if gap := rules.CertGap(p, m); len(gap) > 0 {
		issues = append(issues, "Missing certifications: "+strings.Join(gap, ", "))
	}
	if gap := rules.SkillGap(p, m); len(gap) > 0 {
		issues = append(issues, "Missing skills: "+strings.Join(gap, ", "))
	}

	cost := rules.PilotCost(p, m)
	if overrun := cost.Overrun(currency); overrun != nil {
		warnings = append(warnings, *overrun)
	}
	locMatch := rules.LocationsMatch(p.Location, m.Location)
	if !locMatch {
		warnings = append(warnings, fmt.Sprintf("Pilot in %s, mission in %s; relocation needed", p.Location, m.Location))
	}

	return domain.PilotCandidate{
		PilotID:        p.ID,
		Name:           p.Name,
		Status:         p.Status,
		Location:       p.Location,
		LocationMatch:  locMatch,
		Skills:         p.Skills,
		Certifications: p.Certifications,
		DailyRate:      p.DailyRate,
		EstimatedCost:  cost.Total,
		WithinBudget:   cost.WithinBudget(),
		Issues:         issues,
		Warnings:       warnings,
	}
}

// MatchDrones classifies every drone in the fleet against a mission.
// Capability overlap is reported but never blocks or warns.
func (e Engine) MatchDrones(ctx context.Context, missionID string) (domain.DroneMatchReport, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return domain.DroneMatchReport{}, err
	}
	m, err := findMission(snap, missionID)
	if err != nil {
		return domain.DroneMatchReport{}, err
	}
	return matchDrones(snap, m, e.Rules.RainMarkers), nil
}

func matchDrones(snap roster.Snapshot, m domain.Mission, rainMarkers []string) domain.DroneMatchReport {
	rep := domain.DroneMatchReport{
		MissionID:       m.ID,
		WeatherForecast: m.WeatherForecast,
		Suitable:        []domain.DroneCandidate{},
		WithWarnings:    []domain.DroneCandidate{},
		Blocked:         []domain.DroneCandidate{},
	}
	for _, d := range snap.Drones {
		c := evaluateDrone(d, m, rainMarkers)
		switch {
		case len(c.Issues) > 0:
			rep.Blocked = append(rep.Blocked, c)
		case len(c.Warnings) > 0:
			rep.WithWarnings = append(rep.WithWarnings, c)
		default:
			rep.Suitable = append(rep.Suitable, c)
		}
	}
	return rep
}

func evaluateDrone(d domain.Drone, m domain.Mission, rainMarkers []string) domain.DroneCandidate {
	issues := []string{}
	warnings := []string{}

	if rules.MaintenanceBlock(d) {
		issues = append(issues, "Drone in maintenance, unavailable until "+dueText(d, "unknown date"))
	}
	weatherOK := !rules.WeatherBlock(d, m, rainMarkers)
	if !weatherOK {
		issues = append(issues, fmt.Sprintf("Weather mismatch: drone rated '%s' cannot fly in '%s' conditions", d.WeatherResistance, m.WeatherForecast))
	}
	locMatch := rules.LocationsMatch(d.Location, m.Location)
	if !locMatch {
		warnings = append(warnings, fmt.Sprintf("Drone in %s, mission in %s; needs transport", d.Location, m.Location))
	}

	required := rules.TokenSet(m.RequiredSkills)
	caps := rules.TokenSet(d.Capabilities)
	return domain.DroneCandidate{
		DroneID:              d.ID,
		Model:                d.Model,
		Capabilities:         d.Capabilities,
		WeatherResistance:    d.WeatherResistance,
		Status:               d.Status,
		Location:             d.Location,
		LocationMatch:        locMatch,
		MatchingCapabilities: nonNil(required.Intersect(caps)),
		MissingCapabilities:  nonNil(required.Minus(caps)),
		WeatherOK:            weatherOK,
		MissionWeather:       m.WeatherForecast,
		Issues:               issues,
		Warnings:             warnings,
	}
}

func dueText(d domain.Drone, fallback string) string {
	if d.MaintenanceDueRaw == "" {
		return fallback
	}
	return d.MaintenanceDueRaw
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
