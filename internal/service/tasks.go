package service

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

// TaskService manages tasks and subtasks and applies the completion
// cascades: completing a task completes its direct subtasks, and reopening a
// subtask reopens its completed parent. Siblings are never affected.
type TaskService struct {
	tasks    types.TaskRepository
	projects types.ProjectRepository
	logger   *slog.Logger
}

// NewTaskService creates a TaskService. A nil logger discards output.
func NewTaskService(tasks types.TaskRepository, projects types.ProjectRepository, logger *slog.Logger) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, logger: orDiscard(logger)}
}

// GetByID returns the task, or nil when it does not exist.
func (s *TaskService) GetByID(ctx context.Context, id int64) (*types.TaskDTO, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dtoPtr(t, types.Task.ToDTO), nil
}

// List returns a page of top-level tasks in the given completion state.
func (s *TaskService) List(ctx context.Context, page types.Page, completed bool) (types.PagedResult[types.TaskDTO], error) {
	res, err := s.tasks.List(ctx, clampPage(page), completed)
	if err != nil {
		return types.PagedResult[types.TaskDTO]{}, err
	}
	return types.MapPaged(res, types.Task.ToDTO), nil
}

// ListByProject returns a page of the project's tasks; a nil completed
// matches both states.
func (s *TaskService) ListByProject(ctx context.Context, projectID int64, page types.Page, completed *bool) (types.PagedResult[types.TaskDTO], error) {
	res, err := s.tasks.ListByProject(ctx, projectID, clampPage(page), completed)
	if err != nil {
		return types.PagedResult[types.TaskDTO]{}, err
	}
	return types.MapPaged(res, types.Task.ToDTO), nil
}

// ListUngrouped returns a page of top-level tasks outside any project.
func (s *TaskService) ListUngrouped(ctx context.Context, page types.Page) (types.PagedResult[types.TaskDTO], error) {
	res, err := s.tasks.ListUngrouped(ctx, clampPage(page))
	if err != nil {
		return types.PagedResult[types.TaskDTO]{}, err
	}
	return types.MapPaged(res, types.Task.ToDTO), nil
}

// ListSubtasks returns a page of the task's direct subtasks.
func (s *TaskService) ListSubtasks(ctx context.Context, parentID int64, page types.Page) (types.PagedResult[types.TaskDTO], error) {
	res, err := s.tasks.ListSubtasks(ctx, parentID, clampPage(page))
	if err != nil {
		return types.PagedResult[types.TaskDTO]{}, err
	}
	return types.MapPaged(res, types.Task.ToDTO), nil
}

// Create adds a top-level task, grouped under req.ProjectID when set.
// Returns types.ErrProjectNotFound when that project does not exist.
func (s *TaskService) Create(ctx context.Context, req types.CreateTaskRequest) (types.TaskDTO, error) {
	draft, err := types.NewTask(0, 0, req.Name, req.Description, false, req.ProjectID, nil)
	if err != nil {
		return types.TaskDTO{}, err
	}
	if draft.ProjectID != nil {
		if err := s.requireProject(ctx, *draft.ProjectID); err != nil {
			return types.TaskDTO{}, err
		}
	}
	t, err := s.tasks.Create(ctx, draft)
	if err != nil {
		return types.TaskDTO{}, err
	}
	s.logger.Info("task created", "task_id", t.ID)
	return t.ToDTO(), nil
}

// CreateSubtask adds a subtask under req.ParentTaskID. The parent must exist
// and must not itself be a subtask. Subtasks belong to no project.
func (s *TaskService) CreateSubtask(ctx context.Context, req types.CreateSubtaskRequest) (types.TaskDTO, error) {
	draft, err := types.NewTask(0, 0, req.Name, req.Description, false, nil, types.Ref(req.ParentTaskID))
	if err != nil {
		return types.TaskDTO{}, err
	}
	parent, err := s.tasks.GetByID(ctx, req.ParentTaskID)
	if err != nil {
		return types.TaskDTO{}, err
	}
	if parent == nil {
		return types.TaskDTO{}, types.ErrParentNotFound
	}
	if !parent.CanParent() {
		return types.TaskDTO{}, types.ErrNestedSubtask
	}
	t, err := s.tasks.Create(ctx, draft)
	if err != nil {
		return types.TaskDTO{}, err
	}
	s.logger.Info("subtask created", "task_id", t.ID, "parent_task_id", parent.ID)
	return t.ToDTO(), nil
}

// Update renames a task and rewrites its description.
func (s *TaskService) Update(ctx context.Context, id int64, req types.UpdateTaskRequest) (types.TaskDTO, error) {
	t, err := s.tasks.Update(ctx, id, req.Name, req.Description)
	if err != nil {
		return types.TaskDTO{}, err
	}
	return t.ToDTO(), nil
}

// Delete removes the task and its subtasks.
func (s *TaskService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.tasks.Delete(ctx, id)
}

// Complete marks the task completed and then completes its open direct
// subtasks. It reports false when the task does not exist or was not
// updated.
func (s *TaskService) Complete(ctx context.Context, id int64) (bool, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if t == nil {
		return false, nil
	}
	ok, err := s.tasks.Complete(ctx, id)
	if err != nil || !ok {
		return false, err
	}
	n, err := s.tasks.CompleteSubtasks(ctx, id)
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.logger.Debug("completed subtasks with parent", "task_id", id, "subtasks", n)
	}
	return true, nil
}

// Reopen marks the task not completed. When the task is a subtask whose
// parent is completed, the parent is reopened too.
func (s *TaskService) Reopen(ctx context.Context, id int64) (bool, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if t == nil {
		return false, nil
	}
	ok, err := s.tasks.Reopen(ctx, id)
	if err != nil || !ok {
		return false, err
	}
	if !t.IsSubtask() {
		return true, nil
	}

	parent, err := s.tasks.GetByID(ctx, *t.ParentTaskID)
	if err != nil {
		return false, err
	}
	if parent != nil && parent.IsCompleted {
		if _, err := s.tasks.Reopen(ctx, parent.ID); err != nil {
			return false, err
		}
		s.logger.Debug("reopened parent with subtask", "task_id", id, "parent_task_id", parent.ID)
	}
	return true, nil
}

// Reset is Reopen.
func (s *TaskService) Reset(ctx context.Context, id int64) (bool, error) {
	return s.Reopen(ctx, id)
}

// Assign groups the task under an existing project. Returns
// types.ErrProjectNotFound when the project does not exist.
func (s *TaskService) Assign(ctx context.Context, taskID, projectID int64) (bool, error) {
	if err := s.requireProject(ctx, projectID); err != nil {
		return false, err
	}
	return s.tasks.AssignToProject(ctx, taskID, &projectID)
}

// Move regroups the task under projectID, or ungroups it when projectID is
// nil.
func (s *TaskService) Move(ctx context.Context, taskID int64, projectID *int64) (bool, error) {
	if projectID == nil {
		return s.tasks.AssignToProject(ctx, taskID, nil)
	}
	return s.Assign(ctx, taskID, *projectID)
}

func (s *TaskService) requireProject(ctx context.Context, projectID int64) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if p == nil {
		return types.ErrProjectNotFound
	}
	return nil
}
