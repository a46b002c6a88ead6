package types

import "strings"

// Task is a unit of work. A task is optionally grouped under a project and
// optionally the parent of subtasks. A task with a ParentTaskID is a subtask
// and may not itself own subtasks.
type Task struct {
	ID           int64
	AccountID    int64
	Name         string
	Description  string
	IsCompleted  bool
	ProjectID    *int64 // nil means ungrouped.
	ParentTaskID *int64 // non-nil marks a subtask.
}

// NewTask validates and normalizes task fields.
// Returns ErrInvalidName when the name is blank.
func NewTask(id, accountID int64, name, description string, isCompleted bool, projectID, parentTaskID *int64) (Task, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return Task{}, ErrInvalidName
	}
	return Task{
		ID:           id,
		AccountID:    accountID,
		Name:         n,
		Description:  strings.TrimSpace(description),
		IsCompleted:  isCompleted,
		ProjectID:    copyID(projectID),
		ParentTaskID: copyID(parentTaskID),
	}, nil
}

// IsSubtask reports whether the task has a parent.
func (t Task) IsSubtask() bool {
	return t.ParentTaskID != nil
}

// CanParent reports whether a subtask may be created under t. Nesting is
// limited to a single level.
func (t Task) CanParent() bool {
	return !t.IsSubtask()
}

// IsUngrouped reports whether the task belongs to no project.
func (t Task) IsUngrouped() bool {
	return t.ProjectID == nil
}

// WithID returns a copy of the task carrying the given identity.
func (t Task) WithID(id int64) Task {
	t.ID = id
	return t
}

// Completed returns a copy of the task in the completed state.
func (t Task) Completed() Task {
	t.IsCompleted = true
	return t
}

// Reopened returns a copy of the task in the not-completed state.
func (t Task) Reopened() Task {
	t.IsCompleted = false
	return t
}

// Ref returns a pointer to a copy of id, for optional foreign keys.
func Ref(id int64) *int64 {
	return &id
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
