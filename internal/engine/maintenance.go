package engine

import (
	"context"
	"fmt"

	"droneops/internal/domain"
	"droneops/internal/rules"
)

// FlagMaintenance splits drones with a known maintenance date into overdue
// (due before today) and upcoming (due within the configured horizon).
func (e Engine) FlagMaintenance(ctx context.Context) (domain.MaintenanceReport, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return domain.MaintenanceReport{}, err
	}
	horizon := e.Rules.MaintenanceHorizonDays
	rep := domain.MaintenanceReport{
		HorizonDays: horizon,
		Overdue:     []domain.MaintenanceFlag{},
		Upcoming:    []domain.MaintenanceFlag{},
	}
	today := e.now()
	for _, d := range snap.Drones {
		if d.MaintenanceDue == nil {
			continue
		}
		days := rules.DaysBetween(today, *d.MaintenanceDue)
		flag := domain.MaintenanceFlag{
			DroneID:        d.ID,
			Model:          d.Model,
			Location:       d.Location,
			Status:         d.Status,
			MaintenanceDue: d.MaintenanceDueRaw,
			DaysUntilDue:   days,
		}
		switch {
		case days < 0:
			flag.Flag = fmt.Sprintf("Overdue by %d days", -days)
			rep.Overdue = append(rep.Overdue, flag)
		case days <= horizon:
			flag.Flag = fmt.Sprintf("Due in %d days", days)
			rep.Upcoming = append(rep.Upcoming, flag)
		}
	}
	rep.OverdueCount = len(rep.Overdue)
	rep.UpcomingCount = len(rep.Upcoming)
	return rep, nil
}
