package engine

import (
	"context"

	"droneops/internal/domain"
	"droneops/internal/rules"
)

// CalculatePilotCost prices a pilot for the full duration of a mission and
// compares the result with the mission budget.
func (e Engine) CalculatePilotCost(ctx context.Context, pilotID, missionID string) (domain.CostReport, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return domain.CostReport{}, err
	}
	p, err := findPilot(snap, pilotID)
	if err != nil {
		return domain.CostReport{}, err
	}
	m, err := findMission(snap, missionID)
	if err != nil {
		return domain.CostReport{}, err
	}
	return costReport(p, m, e.currency()), nil
}

func costReport(p domain.Pilot, m domain.Mission, currency string) domain.CostReport {
	c := rules.PilotCost(p, m)
	return domain.CostReport{
		PilotID:          p.ID,
		PilotName:        p.Name,
		MissionID:        m.ID,
		DailyRate:        c.DailyRate,
		DurationDays:     c.DurationDays,
		TotalCost:        c.Total,
		Budget:           c.Budget,
		WithinBudget:     c.WithinBudget(),
		SurplusOrDeficit: c.Surplus(),
		BudgetWarning:    c.Overrun(currency),
	}
}
