package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"droneops/internal/domain"
	"droneops/internal/engine"
)

type pilotPath struct {
	PilotID string `path:"pilot_id"`
}

type dronePath struct {
	DroneID string `path:"drone_id"`
}

type missionPath struct {
	MissionID string `path:"mission_id"`
}

func registerPilots(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-pilots",
		Method:      http.MethodGet,
		Path:        "/pilots",
		Summary:     "Query the pilot roster",
	}, func(ctx context.Context, input *struct {
		Skill         string `query:"skill"`
		Certification string `query:"certification"`
		Location      string `query:"location"`
		Status        string `query:"status"`
	}) (*struct {
		Body PilotList `json:"body"`
	}, error) {
		pilots, err := e.QueryPilots(ctx, engine.PilotFilter{
			Skill:         input.Skill,
			Certification: input.Certification,
			Location:      input.Location,
			Status:        input.Status,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PilotList `json:"body"`
		}{Body: PilotList{Count: len(pilots), Pilots: pilots}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-pilot-assignments",
		Method:      http.MethodGet,
		Path:        "/pilots/assignments",
		Summary:     "Pilots currently assigned, with mission details",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.PilotAssignments `json:"body"`
	}, error) {
		res, err := e.PilotAssignments(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.PilotAssignments `json:"body"`
		}{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-pilot-status",
		Method:      http.MethodPut,
		Path:        "/pilots/{pilot_id}/status",
		Summary:     "Set a pilot's status and current assignment",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		pilotPath
		Body PilotStatusRequest
	}) (*struct {
		Body domain.MultiUpdateResult `json:"body"`
	}, error) {
		res, err := e.UpdatePilotStatus(ctx, input.PilotID, input.Body.Status, input.Body.CurrentAssignment)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.MultiUpdateResult `json:"body"`
		}{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "pilot-cost",
		Method:      http.MethodGet,
		Path:        "/pilots/{pilot_id}/cost/{mission_id}",
		Summary:     "Price a pilot for a mission against its budget",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		pilotPath
		missionPath
	}) (*struct {
		Body domain.CostReport `json:"body"`
	}, error) {
		res, err := e.CalculatePilotCost(ctx, input.PilotID, input.MissionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.CostReport `json:"body"`
		}{Body: res}, nil
	})
}

func registerDrones(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-drones",
		Method:      http.MethodGet,
		Path:        "/drones",
		Summary:     "Query the drone fleet",
	}, func(ctx context.Context, input *struct {
		Capability        string `query:"capability"`
		Location          string `query:"location"`
		WeatherResistance string `query:"weather_resistance"`
		Status            string `query:"status"`
	}) (*struct {
		Body DroneList `json:"body"`
	}, error) {
		drones, err := e.QueryDrones(ctx, engine.DroneFilter{
			Capability:        input.Capability,
			Location:          input.Location,
			WeatherResistance: input.WeatherResistance,
			Status:            input.Status,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body DroneList `json:"body"`
		}{Body: DroneList{Count: len(drones), Drones: drones}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-drone-status",
		Method:      http.MethodPut,
		Path:        "/drones/{drone_id}/status",
		Summary:     "Set a drone's status and optionally its location",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		dronePath
		Body DroneStatusRequest
	}) (*struct {
		Body domain.MultiUpdateResult `json:"body"`
	}, error) {
		res, err := e.UpdateDroneStatus(ctx, input.DroneID, input.Body.Status, input.Body.Location)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.MultiUpdateResult `json:"body"`
		}{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "drone-maintenance",
		Method:      http.MethodGet,
		Path:        "/drones/maintenance",
		Summary:     "Drones with overdue or upcoming maintenance",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.MaintenanceReport `json:"body"`
	}, error) {
		res, err := e.FlagMaintenance(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.MaintenanceReport `json:"body"`
		}{Body: res}, nil
	})
}

func registerMissions(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-active-missions",
		Method:      http.MethodGet,
		Path:        "/missions/active",
		Summary:     "Missions with an assigned pilot or drone",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body MissionList `json:"body"`
	}, error) {
		missions, err := e.ActiveAssignments(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body MissionList `json:"body"`
		}{Body: MissionList{Count: len(missions), Missions: missions}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "match-pilots",
		Method:      http.MethodGet,
		Path:        "/missions/{mission_id}/pilot-matches",
		Summary:     "Classify every pilot against a mission",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *missionPath) (*struct {
		Body domain.PilotMatchReport `json:"body"`
	}, error) {
		res, err := e.MatchPilots(ctx, input.MissionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.PilotMatchReport `json:"body"`
		}{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "match-drones",
		Method:      http.MethodGet,
		Path:        "/missions/{mission_id}/drone-matches",
		Summary:     "Classify every drone against a mission",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *missionPath) (*struct {
		Body domain.DroneMatchReport `json:"body"`
	}, error) {
		res, err := e.MatchDrones(ctx, input.MissionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.DroneMatchReport `json:"body"`
		}{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "assign-pilot",
		Method:        http.MethodPost,
		Path:          "/missions/{mission_id}/pilot",
		Summary:       "Assign a pilot; conflicts are reported, not enforced",
		DefaultStatus: http.StatusOK,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		missionPath
		Body AssignPilotRequest
	}) (*struct {
		Body domain.AssignmentResult `json:"body"`
	}, error) {
		res, err := e.AssignPilot(ctx, input.Body.PilotID, input.MissionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.AssignmentResult `json:"body"`
		}{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "assign-drone",
		Method:        http.MethodPost,
		Path:          "/missions/{mission_id}/drone",
		Summary:       "Assign a drone; conflicts are reported, not enforced",
		DefaultStatus: http.StatusOK,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		missionPath
		Body AssignDroneRequest
	}) (*struct {
		Body domain.AssignmentResult `json:"body"`
	}, error) {
		res, err := e.AssignDrone(ctx, input.Body.DroneID, input.MissionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.AssignmentResult `json:"body"`
		}{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mission-conflicts",
		Method:      http.MethodGet,
		Path:        "/missions/{mission_id}/conflicts",
		Summary:     "Conflicts of one mission, taken from a full fleet scan",
	}, func(ctx context.Context, input *missionPath) (*struct {
		Body domain.MissionConflicts `json:"body"`
	}, error) {
		res, err := e.CheckMissionConflicts(ctx, input.MissionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.MissionConflicts `json:"body"`
		}{Body: res}, nil
	})
}

func registerConflicts(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "detect-conflicts",
		Method:      http.MethodGet,
		Path:        "/conflicts",
		Summary:     "Fleet-wide conflict scan",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.ConflictReport `json:"body"`
	}, error) {
		res, err := e.DetectAllConflicts(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ConflictReport `json:"body"`
		}{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "fleet-summary",
		Method:      http.MethodGet,
		Path:        "/summary",
		Summary:     "Headline fleet counts",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.FleetSummary `json:"body"`
	}, error) {
		res, err := e.Summary(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.FleetSummary `json:"body"`
		}{Body: res}, nil
	})
}
