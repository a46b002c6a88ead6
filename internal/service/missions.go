package service

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

// MissionService manages missions and the projects they own.
type MissionService struct {
	missions types.MissionRepository
	projects types.ProjectRepository
	logger   *slog.Logger
}

// NewMissionService creates a MissionService. A nil logger discards output.
func NewMissionService(missions types.MissionRepository, projects types.ProjectRepository, logger *slog.Logger) *MissionService {
	return &MissionService{missions: missions, projects: projects, logger: orDiscard(logger)}
}

// GetByID returns the mission, or nil when it does not exist.
func (s *MissionService) GetByID(ctx context.Context, id int64) (*types.MissionDTO, error) {
	m, err := s.missions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dtoPtr(m, types.Mission.ToDTO), nil
}

// List returns a page of missions.
func (s *MissionService) List(ctx context.Context, page types.Page) (types.PagedResult[types.MissionDTO], error) {
	res, err := s.missions.List(ctx, clampPage(page))
	if err != nil {
		return types.PagedResult[types.MissionDTO]{}, err
	}
	return types.MapPaged(res, types.Mission.ToDTO), nil
}

// Create adds a mission.
func (s *MissionService) Create(ctx context.Context, req types.CreateMissionRequest) (types.MissionDTO, error) {
	m, err := s.missions.Create(ctx, req.Name, req.Description)
	if err != nil {
		return types.MissionDTO{}, err
	}
	s.logger.Info("mission created", "mission_id", m.ID)
	return m.ToDTO(), nil
}

// Update renames a mission and rewrites its description.
func (s *MissionService) Update(ctx context.Context, id int64, req types.UpdateMissionRequest) (types.MissionDTO, error) {
	m, err := s.missions.Update(ctx, id, req.Name, req.Description)
	if err != nil {
		return types.MissionDTO{}, err
	}
	return m.ToDTO(), nil
}

// Delete removes a mission that owns no projects. It reports false, without
// deleting, when the mission still owns a project or does not exist.
func (s *MissionService) Delete(ctx context.Context, id int64) (bool, error) {
	owned, err := s.missions.ListProjects(ctx, id, types.Page{Take: 1})
	if err != nil {
		return false, err
	}
	if owned.TotalCount > 0 {
		s.logger.Info("mission delete refused, mission owns projects",
			"mission_id", id, "projects", owned.TotalCount)
		return false, nil
	}
	return s.missions.Delete(ctx, id)
}

// Complete marks the mission completed. Its projects are not touched.
func (s *MissionService) Complete(ctx context.Context, id int64) (bool, error) {
	return s.missions.Complete(ctx, id)
}

// Reset marks the mission not completed.
func (s *MissionService) Reset(ctx context.Context, id int64) (bool, error) {
	return s.missions.Reset(ctx, id)
}

// ListProjects returns a page of the mission's projects.
func (s *MissionService) ListProjects(ctx context.Context, missionID int64, page types.Page) (types.PagedResult[types.ProjectDTO], error) {
	res, err := s.missions.ListProjects(ctx, missionID, clampPage(page))
	if err != nil {
		return types.PagedResult[types.ProjectDTO]{}, err
	}
	return types.MapPaged(res, types.Project.ToDTO), nil
}

// ListEligibleProjects returns a page of projects owned by other missions.
func (s *MissionService) ListEligibleProjects(ctx context.Context, missionID int64, page types.Page) (types.PagedResult[types.EligibleProjectDTO], error) {
	res, err := s.missions.ListEligibleProjects(ctx, missionID, clampPage(page))
	if err != nil {
		return types.PagedResult[types.EligibleProjectDTO]{}, err
	}
	return types.MapPaged(res, types.EligibleProject.ToDTO), nil
}

// ListTasks returns a page of the tasks under the mission's projects.
func (s *MissionService) ListTasks(ctx context.Context, missionID int64, page types.Page) (types.PagedResult[types.TaskDTO], error) {
	res, err := s.missions.ListTasks(ctx, missionID, clampPage(page))
	if err != nil {
		return types.PagedResult[types.TaskDTO]{}, err
	}
	return types.MapPaged(res, types.Task.ToDTO), nil
}

// MoveProject reassigns a project to the mission. Both must exist.
func (s *MissionService) MoveProject(ctx context.Context, missionID, projectID int64) (bool, error) {
	m, err := s.missions.GetByID(ctx, missionID)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, types.ErrMissionNotFound
	}
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, types.ErrProjectNotFound
	}
	if p.MissionID == missionID {
		return true, nil
	}
	ok, err := s.missions.MoveProject(ctx, missionID, projectID)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("project moved", "project_id", projectID, "from_mission", p.MissionID, "to_mission", missionID)
	}
	return ok, nil
}
