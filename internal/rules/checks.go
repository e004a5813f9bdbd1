package rules

import (
	"fmt"
	"strconv"

	"droneops/internal/domain"
)

// The predicates below are the single definition of each eligibility rule.
// Matchers turn them into issues and warnings; the conflict scanner turns
// them into severity-tagged conflicts.

// PilotStatusBlock returns a reason when the pilot's status rules them out.
func PilotStatusBlock(p domain.Pilot) (string, bool) {
	switch p.Status {
	case domain.PilotOnLeave:
		return "Pilot is on leave", true
	case domain.PilotUnavailable:
		return "Pilot is unavailable", true
	}
	return "", false
}

// AvailableAfterStart reports whether the pilot only becomes available after
// the mission has started. Missing or unparseable dates never block.
func AvailableAfterStart(p domain.Pilot, m domain.Mission) bool {
	if p.AvailableFrom == nil {
		return false
	}
	start, ok := ParseDate(m.StartDate)
	if !ok {
		return false
	}
	return p.AvailableFrom.After(start)
}

// MissionsOverlap reports whether two missions share at least one day.
func MissionsOverlap(a, b domain.Mission) bool {
	return DatesOverlap(a.StartDate, a.EndDate, b.StartDate, b.EndDate)
}

// CertGap returns the certifications m requires that p lacks.
func CertGap(p domain.Pilot, m domain.Mission) []string {
	_, missing := Satisfied(m.RequiredCerts, p.Certifications)
	return missing
}

// SkillGap returns the skills m requires that p lacks.
func SkillGap(p domain.Pilot, m domain.Mission) []string {
	_, missing := Satisfied(m.RequiredSkills, p.Skills)
	return missing
}

// Cost is a pilot's price for a mission measured against its budget.
type Cost struct {
	DailyRate    float64
	DurationDays int
	Total        float64
	Budget       float64
}

// PilotCost prices p for the full inclusive duration of m.
func PilotCost(p domain.Pilot, m domain.Mission) Cost {
	days := DurationDays(m.StartDate, m.EndDate)
	return Cost{
		DailyRate:    p.DailyRate,
		DurationDays: days,
		Total:        p.DailyRate * float64(days),
		Budget:       m.Budget,
	}
}

func (c Cost) WithinBudget() bool { return c.Total <= c.Budget }

// Surplus is budget minus cost; negative values are a deficit.
func (c Cost) Surplus() float64 { return c.Budget - c.Total }

// Overrun returns a human-readable overrun message, or nil when within budget.
func (c Cost) Overrun(currency string) *string {
	if c.WithinBudget() {
		return nil
	}
	msg := fmt.Sprintf("Pilot cost %s %s exceeds mission budget %s %s by %s %s",
		currency, money(c.Total), currency, money(c.Budget), currency, money(c.Total-c.Budget))
	return &msg
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MaintenanceBlock reports whether the drone is grounded for maintenance.
func MaintenanceBlock(d domain.Drone) bool {
	return d.Status == domain.DroneMaintenance
}

// WeatherBlock reports whether the mission forecast grounds the drone.
func WeatherBlock(d domain.Drone, m domain.Mission, rainMarkers []string) bool {
	return !WeatherOK(d.WeatherResistance, m.WeatherForecast, rainMarkers)
}

// LocationMismatch is the negation of LocationsMatch, named for readability at
// call sites that flag the mismatch.
func LocationMismatch(a, b string) bool {
	return !LocationsMatch(a, b)
}
