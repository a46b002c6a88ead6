package types

import "context"

// MissionRepository stores missions and answers mission-scoped project and
// task queries. Every call is scoped to the current account.
type MissionRepository interface {
	// GetByID returns the mission, or nil when it does not exist.
	GetByID(ctx context.Context, id int64) (*Mission, error)
	List(ctx context.Context, page Page) (PagedResult[Mission], error)
	Create(ctx context.Context, title, description string) (Mission, error)
	// Update rewrites title and description and returns the stored mission.
	// Returns ErrNotFound if no mission remains after the update.
	Update(ctx context.Context, id int64, title, description string) (Mission, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Complete(ctx context.Context, id int64) (bool, error)
	Reset(ctx context.Context, id int64) (bool, error)
	ListProjects(ctx context.Context, missionID int64, page Page) (PagedResult[Project], error)
	// ListEligibleProjects returns projects owned by missions other than
	// missionID, each with its current mission's title.
	ListEligibleProjects(ctx context.Context, missionID int64, page Page) (PagedResult[EligibleProject], error)
	ListTasks(ctx context.Context, missionID int64, page Page) (PagedResult[Task], error)
	MoveProject(ctx context.Context, missionID, projectID int64) (bool, error)
}

// ProjectRepository stores projects. Every call is scoped to the current
// account.
type ProjectRepository interface {
	// GetByID returns the project, or nil when it does not exist.
	GetByID(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context, page Page) (PagedResult[Project], error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, name, description string, missionID int64) (Project, error)
	Update(ctx context.Context, id int64, name, description string) (Project, error)
	// Delete removes the project and ungroups its tasks.
	Delete(ctx context.Context, id int64) (bool, error)
	Complete(ctx context.Context, id int64) (bool, error)
	Reset(ctx context.Context, id int64) (bool, error)
}

// TaskRepository stores tasks and subtasks. Every call is scoped to the
// current account.
type TaskRepository interface {
	// GetByID returns the task, or nil when it does not exist.
	GetByID(ctx context.Context, id int64) (*Task, error)
	List(ctx context.Context, page Page, completed bool) (PagedResult[Task], error)
	// ListByProject lists a project's tasks; a nil completed matches both states.
	ListByProject(ctx context.Context, projectID int64, page Page, completed *bool) (PagedResult[Task], error)
	ListUngrouped(ctx context.Context, page Page) (PagedResult[Task], error)
	ListSubtasks(ctx context.Context, parentID int64, page Page) (PagedResult[Task], error)
	ListByProjectIDs(ctx context.Context, projectIDs []int64) ([]Task, error)
	// Create inserts the draft and returns it with its assigned identity.
	Create(ctx context.Context, draft Task) (Task, error)
	Update(ctx context.Context, id int64, name, description string) (Task, error)
	// Delete removes the task and its subtasks.
	Delete(ctx context.Context, id int64) (bool, error)
	Complete(ctx context.Context, id int64) (bool, error)
	Reopen(ctx context.Context, id int64) (bool, error)
	// AssignToProject sets the task's project; a nil projectID ungroups it.
	AssignToProject(ctx context.Context, taskID int64, projectID *int64) (bool, error)
	// CompleteSubtasks completes every not-yet-completed direct subtask of
	// parentID and returns how many rows changed.
	CompleteSubtasks(ctx context.Context, parentID int64) (int, error)
}
