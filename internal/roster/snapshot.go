package roster

import (
	"context"

	"droneops/internal/domain"
	"droneops/internal/store"
)

// Snapshot is one consistent read of all three tables.
type Snapshot struct {
	Pilots   []domain.Pilot
	Drones   []domain.Drone
	Missions []domain.Mission
	Issues   []Issue
}

// Load reads and parses every table from r.
func Load(ctx context.Context, r store.Reader) (Snapshot, error) {
	var snap Snapshot
	pilots, err := r.Read(ctx, store.PilotRoster)
	if err != nil {
		return snap, err
	}
	drones, err := r.Read(ctx, store.DroneFleet)
	if err != nil {
		return snap, err
	}
	missions, err := r.Read(ctx, store.Missions)
	if err != nil {
		return snap, err
	}
	var issues []Issue
	snap.Pilots, issues = Pilots(pilots)
	snap.Issues = append(snap.Issues, issues...)
	snap.Drones, issues = Drones(drones)
	snap.Issues = append(snap.Issues, issues...)
	snap.Missions, issues = Missions(missions)
	snap.Issues = append(snap.Issues, issues...)
	return snap, nil
}

// PilotByID returns the first pilot with id.
func (s Snapshot) PilotByID(id string) (domain.Pilot, bool) {
	for _, p := range s.Pilots {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Pilot{}, false
}

func (s Snapshot) DroneByID(id string) (domain.Drone, bool) {
	for _, d := range s.Drones {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Drone{}, false
}

func (s Snapshot) MissionByID(id string) (domain.Mission, bool) {
	for _, m := range s.Missions {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Mission{}, false
}
