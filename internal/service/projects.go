package service

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

// ProjectService manages projects.
type ProjectService struct {
	projects types.ProjectRepository
	missions types.MissionRepository
	tasks    types.TaskRepository
	logger   *slog.Logger
}

// NewProjectService creates a ProjectService. A nil logger discards output.
func NewProjectService(projects types.ProjectRepository, missions types.MissionRepository, tasks types.TaskRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{projects: projects, missions: missions, tasks: tasks, logger: orDiscard(logger)}
}

// GetByID returns the project, or nil when it does not exist.
func (s *ProjectService) GetByID(ctx context.Context, id int64) (*types.ProjectDTO, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dtoPtr(p, types.Project.ToDTO), nil
}

// List returns a page of projects.
func (s *ProjectService) List(ctx context.Context, page types.Page) (types.PagedResult[types.ProjectDTO], error) {
	res, err := s.projects.List(ctx, clampPage(page))
	if err != nil {
		return types.PagedResult[types.ProjectDTO]{}, err
	}
	return types.MapPaged(res, types.Project.ToDTO), nil
}

// Count returns the number of projects in the account.
func (s *ProjectService) Count(ctx context.Context) (int, error) {
	return s.projects.Count(ctx)
}

// Create adds a project under an existing mission. Returns
// types.ErrMissionNotFound when the mission does not exist.
func (s *ProjectService) Create(ctx context.Context, req types.CreateProjectRequest) (types.ProjectDTO, error) {
	if _, err := types.NewProject(0, 0, req.Name, req.Description, req.MissionID, false); err != nil {
		return types.ProjectDTO{}, err
	}
	m, err := s.missions.GetByID(ctx, req.MissionID)
	if err != nil {
		return types.ProjectDTO{}, err
	}
	if m == nil {
		return types.ProjectDTO{}, types.ErrMissionNotFound
	}
	p, err := s.projects.Create(ctx, req.Name, req.Description, req.MissionID)
	if err != nil {
		return types.ProjectDTO{}, err
	}
	s.logger.Info("project created", "project_id", p.ID, "mission_id", p.MissionID)
	return p.ToDTO(), nil
}

// Update renames a project and rewrites its description.
func (s *ProjectService) Update(ctx context.Context, id int64, req types.UpdateProjectRequest) (types.ProjectDTO, error) {
	p, err := s.projects.Update(ctx, id, req.Name, req.Description)
	if err != nil {
		return types.ProjectDTO{}, err
	}
	return p.ToDTO(), nil
}

// Delete removes the project. Its tasks become ungrouped.
func (s *ProjectService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.projects.Delete(ctx, id)
}

// Complete marks the project completed. Its tasks are not touched.
func (s *ProjectService) Complete(ctx context.Context, id int64) (bool, error) {
	return s.projects.Complete(ctx, id)
}

// Reset marks the project not completed.
func (s *ProjectService) Reset(ctx context.Context, id int64) (bool, error) {
	return s.projects.Reset(ctx, id)
}

// ListTasks returns a page of the project's tasks; a nil completed matches
// both states.
func (s *ProjectService) ListTasks(ctx context.Context, projectID int64, page types.Page, completed *bool) (types.PagedResult[types.TaskDTO], error) {
	res, err := s.tasks.ListByProject(ctx, projectID, clampPage(page), completed)
	if err != nil {
		return types.PagedResult[types.TaskDTO]{}, err
	}
	return types.MapPaged(res, types.Task.ToDTO), nil
}
