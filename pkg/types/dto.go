package types

// MissionDTO is the outward representation of a mission.
type MissionDTO struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	IsCompleted bool   `json:"is_completed" yaml:"is_completed"`
}

// ProjectDTO is the outward representation of a project.
type ProjectDTO struct {
	ID          int64  `json:"id" yaml:"id"`
	AccountID   int64  `json:"account_id" yaml:"account_id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	MissionID   int64  `json:"mission_id" yaml:"mission_id"`
	IsCompleted bool   `json:"is_completed" yaml:"is_completed"`
}

// EligibleProjectDTO is a project that can be moved into another mission.
type EligibleProjectDTO struct {
	ID           int64  `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	MissionTitle string `json:"mission_title" yaml:"mission_title"`
}

// TaskDTO is the outward representation of a task or subtask.
type TaskDTO struct {
	ID           int64  `json:"id" yaml:"id"`
	AccountID    int64  `json:"account_id" yaml:"account_id"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	IsCompleted  bool   `json:"is_completed" yaml:"is_completed"`
	ProjectID    *int64 `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	ParentTaskID *int64 `json:"parent_task_id,omitempty" yaml:"parent_task_id,omitempty"`
}

// Request types accepted by the services.
type (
	CreateMissionRequest struct {
		Name        string
		Description string
	}
	UpdateMissionRequest struct {
		Name        string
		Description string
	}
	CreateProjectRequest struct {
		Name        string
		Description string
		MissionID   int64
	}
	UpdateProjectRequest struct {
		Name        string
		Description string
	}
	CreateTaskRequest struct {
		Name        string
		Description string
		ProjectID   *int64
	}
	CreateSubtaskRequest struct {
		Name         string
		Description  string
		ParentTaskID int64
	}
	UpdateTaskRequest struct {
		Name        string
		Description string
	}
)

// ToDTO converts a mission.
func (m Mission) ToDTO() MissionDTO {
	return MissionDTO{ID: m.ID, Name: m.Title, Description: m.Description, IsCompleted: m.IsCompleted}
}

// ToDTO converts a project.
func (p Project) ToDTO() ProjectDTO {
	return ProjectDTO{
		ID:          p.ID,
		AccountID:   p.AccountID,
		Name:        p.Name,
		Description: p.Description,
		MissionID:   p.MissionID,
		IsCompleted: p.IsCompleted,
	}
}

// ToDTO converts an eligible project.
func (e EligibleProject) ToDTO() EligibleProjectDTO {
	return EligibleProjectDTO{ID: e.ID, Name: e.Name, Description: e.Description, MissionTitle: e.MissionTitle}
}

// ToDTO converts a task.
func (t Task) ToDTO() TaskDTO {
	return TaskDTO{
		ID:           t.ID,
		AccountID:    t.AccountID,
		Name:         t.Name,
		Description:  t.Description,
		IsCompleted:  t.IsCompleted,
		ProjectID:    copyID(t.ProjectID),
		ParentTaskID: copyID(t.ParentTaskID),
	}
}
