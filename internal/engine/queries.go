package engine

import (
	"context"
	"strings"

	"droneops/internal/domain"
)

// PilotFilter narrows QueryPilots. Text fields match as case-insensitive
// substrings; Status matches the whole value ignoring case.
type PilotFilter struct {
	Skill         string
	Certification string
	Location      string
	Status        string
}

type DroneFilter struct {
	Capability        string
	Location          string
	WeatherResistance string
	Status            string
}

func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func equalFoldOrEmpty(s, want string) bool {
	return want == "" || strings.EqualFold(s, want)
}

func (e Engine) QueryPilots(ctx context.Context, f PilotFilter) ([]domain.Pilot, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Pilot{}
	for _, p := range snap.Pilots {
		if containsFold(p.Skills, f.Skill) &&
			containsFold(p.Certifications, f.Certification) &&
			containsFold(p.Location, f.Location) &&
			equalFoldOrEmpty(string(p.Status), f.Status) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (e Engine) QueryDrones(ctx context.Context, f DroneFilter) ([]domain.Drone, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Drone{}
	for _, d := range snap.Drones {
		if containsFold(d.Capabilities, f.Capability) &&
			containsFold(d.Location, f.Location) &&
			containsFold(d.WeatherResistance, f.WeatherResistance) &&
			equalFoldOrEmpty(string(d.Status), f.Status) {
			out = append(out, d)
		}
	}
	return out, nil
}

// PilotAssignments lists pilots with status Assigned, with the details of
// their current mission when it exists.
func (e Engine) PilotAssignments(ctx context.Context) (domain.PilotAssignments, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return domain.PilotAssignments{}, err
	}
	out := domain.PilotAssignments{Assignments: []domain.PilotAssignment{}}
	for _, p := range snap.Pilots {
		if p.Status != domain.PilotAssigned {
			continue
		}
		a := domain.PilotAssignment{Pilot: p}
		if m, ok := snap.MissionByID(p.CurrentAssignment); ok && p.CurrentAssignment != "" {
			a.Mission = &domain.MissionDetails{
				Client:    m.Client,
				Location:  m.Location,
				StartDate: m.StartDate,
				EndDate:   m.EndDate,
				Priority:  m.Priority,
			}
		}
		out.Assignments = append(out.Assignments, a)
	}
	out.Count = len(out.Assignments)
	return out, nil
}

// ActiveAssignments lists missions with an assigned pilot or drone.
func (e Engine) ActiveAssignments(ctx context.Context) ([]domain.Mission, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Mission{}
	for _, m := range snap.Missions {
		if m.HasAssignment() {
			out = append(out, m)
		}
	}
	return out, nil
}

// Summary returns the headline fleet counts.
func (e Engine) Summary(ctx context.Context) (domain.FleetSummary, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return domain.FleetSummary{}, err
	}
	var s domain.FleetSummary
	for _, p := range snap.Pilots {
		if p.Status == domain.PilotAvailable {
			s.PilotsReady++
		}
	}
	for _, d := range snap.Drones {
		switch d.Status {
		case domain.DroneAvailable:
			s.DronesReady++
		case domain.DroneMaintenance:
			s.DronesInMaintenance++
		}
	}
	s.Missions = len(snap.Missions)
	for _, m := range snap.Missions {
		if m.HasAssignment() {
			s.ActiveMissions++
		}
	}
	return s, nil
}
