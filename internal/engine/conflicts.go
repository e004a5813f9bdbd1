package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"droneops/internal/domain"
	"droneops/internal/roster"
	"droneops/internal/rules"
)

// DetectAllConflicts scans every mission with an assigned pilot or drone and
// re-derives its conflicts from current data. The result is stable-sorted by
// severity so repeated scans of unchanged data are identical.
func (e Engine) DetectAllConflicts(ctx context.Context) (domain.ConflictReport, error) {
	start := e.now()
	snap, err := e.snapshot(ctx)
	if err != nil {
		return domain.ConflictReport{}, err
	}
	rep := scanConflicts(snap, e.currency(), e.Rules.RainMarkers)
	e.sink().RecordScan(rep, e.now().Sub(start))
	e.log().Debugw("conflict scan", map[string]any{
		"total":    rep.Total,
		"critical": rep.Critical,
		"high":     rep.High,
		"medium":   rep.Medium,
	})
	return rep, nil
}

// CheckMissionConflicts runs the full scan and keeps one mission's records.
func (e Engine) CheckMissionConflicts(ctx context.Context, missionID string) (domain.MissionConflicts, error) {
	rep, err := e.DetectAllConflicts(ctx)
	if err != nil {
		return domain.MissionConflicts{}, err
	}
	out := domain.MissionConflicts{MissionID: missionID, Conflicts: []domain.Conflict{}}
	for _, c := range rep.Conflicts {
		if c.MissionID == missionID {
			out.Conflicts = append(out.Conflicts, c)
		}
	}
	out.ConflictCount = len(out.Conflicts)
	return out, nil
}

type scanner struct {
	snap        roster.Snapshot
	currency    string
	rainMarkers []string
	found       []domain.Conflict
}

func (s *scanner) add(c domain.Conflict) {
	s.found = append(s.found, c)
}

func scanConflicts(snap roster.Snapshot, currency string, rainMarkers []string) domain.ConflictReport {
	s := &scanner{snap: snap, currency: currency, rainMarkers: rainMarkers}
	for _, m := range snap.Missions {
		if !m.HasAssignment() {
			continue
		}
		p, hasPilot := s.pilotChecks(m)
		d, hasDrone := s.droneChecks(m)
		if hasPilot && hasDrone && rules.LocationMismatch(p.Location, d.Location) {
			s.add(domain.Conflict{
				Type:      domain.ConflictPilotDroneLocation,
				Severity:  domain.SeverityHigh,
				MissionID: m.ID,
				PilotID:   p.ID,
				DroneID:   d.ID,
				Detail:    fmt.Sprintf("Pilot (%s) and drone (%s) are in different locations and cannot operate together", p.Location, d.Location),
			})
		}
	}

	sort.SliceStable(s.found, func(i, j int) bool {
		return s.found[i].Severity.Rank() < s.found[j].Severity.Rank()
	})
	rep := domain.ConflictReport{Total: len(s.found), Conflicts: s.found}
	if rep.Conflicts == nil {
		rep.Conflicts = []domain.Conflict{}
	}
	for _, c := range rep.Conflicts {
		switch c.Severity {
		case domain.SeverityCritical:
			rep.Critical++
		case domain.SeverityHigh:
			rep.High++
		case domain.SeverityMedium:
			rep.Medium++
		}
	}
	return rep
}

// pilotChecks records the pilot-side conflicts of m and returns the assigned
// pilot when it exists.
func (s *scanner) pilotChecks(m domain.Mission) (domain.Pilot, bool) {
	if m.AssignedPilot == "" {
		return domain.Pilot{}, false
	}
	p, ok := s.snap.PilotByID(m.AssignedPilot)
	if !ok {
		s.add(domain.Conflict{
			Type:      domain.ConflictPilotNotFound,
			Severity:  domain.SeverityCritical,
			MissionID: m.ID,
			PilotID:   m.AssignedPilot,
			Detail:    fmt.Sprintf("Assigned pilot '%s' does not exist in roster", m.AssignedPilot),
		})
		return p, false
	}
	conflict := func(t domain.ConflictType, sev domain.Severity, detail string) {
		s.add(domain.Conflict{Type: t, Severity: sev, MissionID: m.ID, PilotID: p.ID, Detail: detail})
	}

	if gap := rules.CertGap(p, m); len(gap) > 0 {
		conflict(domain.ConflictCertMismatch, domain.SeverityCritical,
			fmt.Sprintf("Pilot '%s' lacks required certifications: %s", p.Name, strings.Join(gap, ", ")))
	}
	if gap := rules.SkillGap(p, m); len(gap) > 0 {
		conflict(domain.ConflictSkillMismatch, domain.SeverityHigh,
			fmt.Sprintf("Pilot '%s' lacks required skills: %s", p.Name, strings.Join(gap, ", ")))
	}
	if overrun := rules.PilotCost(p, m).Overrun(s.currency); overrun != nil {
		conflict(domain.ConflictBudgetOverrun, domain.SeverityHigh, *overrun)
	}
	for _, other := range s.otherMissions(p, m) {
		if rules.MissionsOverlap(m, other) {
			conflict(domain.ConflictPilotDoubleBooking, domain.SeverityCritical,
				fmt.Sprintf("Pilot '%s' already assigned to %s (%s to %s) with overlapping dates", p.Name, other.ID, other.StartDate, other.EndDate))
		}
	}
	if rules.LocationMismatch(p.Location, m.Location) {
		conflict(domain.ConflictPilotLocation, domain.SeverityMedium,
			fmt.Sprintf("Pilot '%s' is in %s but mission is in %s", p.Name, p.Location, m.Location))
	}
	return p, true
}

// otherMissions returns the missions other than m that p is committed to:
// those naming p as assigned pilot, then p's current assignment. Each mission
// appears once.
func (s *scanner) otherMissions(p domain.Pilot, m domain.Mission) []domain.Mission {
	seen := map[string]bool{m.ID: true}
	var out []domain.Mission
	for _, other := range s.snap.Missions {
		if other.AssignedPilot == p.ID && !seen[other.ID] {
			seen[other.ID] = true
			out = append(out, other)
		}
	}
	if cur, ok := s.snap.MissionByID(p.CurrentAssignment); ok && !seen[cur.ID] {
		out = append(out, cur)
	}
	return out
}

func (s *scanner) droneChecks(m domain.Mission) (domain.Drone, bool) {
	if m.AssignedDrone == "" {
		return domain.Drone{}, false
	}
	d, ok := s.snap.DroneByID(m.AssignedDrone)
	if !ok {
		s.add(domain.Conflict{
			Type:      domain.ConflictDroneNotFound,
			Severity:  domain.SeverityCritical,
			MissionID: m.ID,
			DroneID:   m.AssignedDrone,
			Detail:    fmt.Sprintf("Assigned drone '%s' does not exist in fleet", m.AssignedDrone),
		})
		return d, false
	}
	conflict := func(t domain.ConflictType, sev domain.Severity, detail string) {
		s.add(domain.Conflict{Type: t, Severity: sev, MissionID: m.ID, DroneID: d.ID, Detail: detail})
	}

	if rules.MaintenanceBlock(d) {
		conflict(domain.ConflictDroneInMaintenance, domain.SeverityCritical,
			fmt.Sprintf("Drone '%s' (%s) is in maintenance until %s", d.Model, d.ID, dueText(d, "?")))
	}
	if rules.WeatherBlock(d, m, s.rainMarkers) {
		conflict(domain.ConflictWeatherRisk, domain.SeverityCritical,
			fmt.Sprintf("Drone '%s' rated '%s' cannot fly in '%s' forecast for %s", d.Model, d.WeatherResistance, m.WeatherForecast, m.ID))
	}
	if rules.LocationMismatch(d.Location, m.Location) {
		conflict(domain.ConflictDroneLocation, domain.SeverityMedium,
			fmt.Sprintf("Drone is in %s but mission is in %s", d.Location, m.Location))
	}
	return d, true
}
