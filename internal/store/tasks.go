package store

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/nextlevel/internal/remote"
	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

var taskColumns = columns{"Id", "AccountId", "Name", "Description", "IsCompleted", "ProjectId", "ParentTaskId"}

// TaskRepository is the pipeline-backed types.TaskRepository. Listings other
// than ListSubtasks return top-level tasks only.
type TaskRepository struct {
	exec    Executor
	account types.AccountContext
}

// NewTaskRepository creates a TaskRepository scoped by account.
func NewTaskRepository(exec Executor, account types.AccountContext) *TaskRepository {
	return &TaskRepository{exec: exec, account: account}
}

var _ types.TaskRepository = (*TaskRepository)(nil)

func scanTask(row []remote.Value) (types.Task, error) {
	id, err := idCell(row, 0, "Id")
	if err != nil {
		return types.Task{}, err
	}
	accountID, err := idCell(row, 1, "AccountId")
	if err != nil {
		return types.Task{}, err
	}
	projectID, err := optionalIDCell(row, 5, "ProjectId")
	if err != nil {
		return types.Task{}, err
	}
	parentID, err := optionalIDCell(row, 6, "ParentTaskId")
	if err != nil {
		return types.Task{}, err
	}
	return types.Task{
		ID:           id,
		AccountID:    accountID,
		Name:         row[2].String(),
		Description:  row[3].String(),
		IsCompleted:  row[4].Bool(),
		ProjectID:    projectID,
		ParentTaskID: parentID,
	}, nil
}

// tasksWhere starts a task listing scoped to the account.
func (r *TaskRepository) tasksWhere(where []string, args ...any) listQuery {
	return listQuery{
		from:      "Tasks",
		cols:      taskColumns,
		where:     append([]string{"AccountId = ?"}, where...),
		args:      append([]any{r.account.CurrentAccountID()}, args...),
		filterCol: "Name",
		orderBy:   "Name, Id",
	}
}

// GetByID returns the task, or nil when it does not exist.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*types.Task, error) {
	t, err := queryOne(ctx, r.exec, len(taskColumns), scanTask,
		"SELECT "+taskColumns.list("")+" FROM Tasks WHERE Id = ? AND AccountId = ?",
		id, r.account.CurrentAccountID())
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// List pages through top-level tasks in the given completion state.
func (r *TaskRepository) List(ctx context.Context, page types.Page, completed bool) (types.PagedResult[types.Task], error) {
	q := r.tasksWhere([]string{"IsCompleted = ?", "ParentTaskId IS NULL"}, boolArg(completed))
	res, err := fetchPage(ctx, r.exec, q, page, scanTask)
	if err != nil {
		return res, fmt.Errorf("list tasks: %w", err)
	}
	return res, nil
}

// ListByProject pages through the project's tasks. A nil completed matches
// both states.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64, page types.Page, completed *bool) (types.PagedResult[types.Task], error) {
	where := []string{"ProjectId = ?", "ParentTaskId IS NULL"}
	args := []any{projectID}
	if completed != nil {
		where = append(where, "IsCompleted = ?")
		args = append(args, boolArg(*completed))
	}
	res, err := fetchPage(ctx, r.exec, r.tasksWhere(where, args...), page, scanTask)
	if err != nil {
		return res, fmt.Errorf("list tasks of project %d: %w", projectID, err)
	}
	return res, nil
}

// ListUngrouped pages through top-level tasks that belong to no project.
func (r *TaskRepository) ListUngrouped(ctx context.Context, page types.Page) (types.PagedResult[types.Task], error) {
	q := r.tasksWhere([]string{"ProjectId IS NULL", "ParentTaskId IS NULL"})
	res, err := fetchPage(ctx, r.exec, q, page, scanTask)
	if err != nil {
		return res, fmt.Errorf("list ungrouped tasks: %w", err)
	}
	return res, nil
}

// ListSubtasks pages through the direct subtasks of parentID.
func (r *TaskRepository) ListSubtasks(ctx context.Context, parentID int64, page types.Page) (types.PagedResult[types.Task], error) {
	q := r.tasksWhere([]string{"ParentTaskId = ?"}, parentID)
	res, err := fetchPage(ctx, r.exec, q, page, scanTask)
	if err != nil {
		return res, fmt.Errorf("list subtasks of task %d: %w", parentID, err)
	}
	return res, nil
}

// ListByProjectIDs returns every top-level task grouped under any of
// projectIDs, unpaged.
func (r *TaskRepository) ListByProjectIDs(ctx context.Context, projectIDs []int64) ([]types.Task, error) {
	if len(projectIDs) == 0 {
		return []types.Task{}, nil
	}
	args := make([]any, 0, len(projectIDs)+1)
	args = append(args, r.account.CurrentAccountID())
	for _, id := range projectIDs {
		args = append(args, id)
	}
	sql := "SELECT " + taskColumns.list("") + " FROM Tasks WHERE AccountId = ? AND ParentTaskId IS NULL" +
		" AND ProjectId IN (" + placeholders(len(projectIDs)) + ") ORDER BY Name, Id"
	res, err := r.exec.Execute(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks of projects: %w", err)
	}
	tasks, err := mapRows(res, len(taskColumns), scanTask)
	if err != nil {
		return nil, fmt.Errorf("list tasks of projects: %w", err)
	}
	return tasks, nil
}

// Create inserts draft under the current account and returns it with its
// assigned identity.
func (r *TaskRepository) Create(ctx context.Context, draft types.Task) (types.Task, error) {
	t, err := types.NewTask(0, r.account.CurrentAccountID(), draft.Name, draft.Description,
		draft.IsCompleted, draft.ProjectID, draft.ParentTaskID)
	if err != nil {
		return types.Task{}, err
	}
	res, err := r.exec.Execute(ctx,
		"INSERT INTO Tasks (AccountId, Name, Description, IsCompleted, ProjectId, ParentTaskId) VALUES (?, ?, ?, ?, ?, ?)",
		t.AccountID, t.Name, t.Description, boolArg(t.IsCompleted), t.ProjectID, t.ParentTaskID)
	if err != nil {
		return types.Task{}, fmt.Errorf("create task: %w", err)
	}
	id, err := res.InsertID()
	if err != nil {
		return types.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t.WithID(id), nil
}

// Update rewrites name and description and returns the stored task.
func (r *TaskRepository) Update(ctx context.Context, id int64, name, description string) (types.Task, error) {
	t, err := types.NewTask(id, r.account.CurrentAccountID(), name, description, false, nil, nil)
	if err != nil {
		return types.Task{}, err
	}
	if _, err := r.exec.Execute(ctx,
		"UPDATE Tasks SET Name = ?, Description = ? WHERE Id = ? AND AccountId = ?",
		t.Name, t.Description, id, t.AccountID); err != nil {
		return types.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return types.Task{}, err
	}
	if stored == nil {
		return types.Task{}, fmt.Errorf("update task %d: %w", id, types.ErrNotFound)
	}
	return *stored, nil
}

// Delete removes the task and its subtasks in one pipeline request. The
// result reflects the task delete only.
func (r *TaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	accountID := r.account.CurrentAccountID()
	res, err := r.exec.ExecuteBatch(ctx, []remote.Statement{
		remote.NewStatement("DELETE FROM Tasks WHERE Id = ? AND AccountId = ?", id, accountID),
		remote.NewStatement("DELETE FROM Tasks WHERE ParentTaskId = ? AND AccountId = ?", id, accountID),
	})
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	return res.RowsAffected() > 0, nil
}

// Complete marks the task completed. Subtasks are not touched.
func (r *TaskRepository) Complete(ctx context.Context, id int64) (bool, error) {
	return r.setCompleted(ctx, id, true)
}

// Reopen marks the task not completed.
func (r *TaskRepository) Reopen(ctx context.Context, id int64) (bool, error) {
	return r.setCompleted(ctx, id, false)
}

func (r *TaskRepository) setCompleted(ctx context.Context, id int64, done bool) (bool, error) {
	ok, err := execAffected(ctx, r.exec,
		"UPDATE Tasks SET IsCompleted = ? WHERE Id = ? AND AccountId = ?",
		boolArg(done), id, r.account.CurrentAccountID())
	if err != nil {
		return false, fmt.Errorf("set task %d completed=%t: %w", id, done, err)
	}
	return ok, nil
}

// AssignToProject sets the task's project; a nil projectID ungroups it.
func (r *TaskRepository) AssignToProject(ctx context.Context, taskID int64, projectID *int64) (bool, error) {
	ok, err := execAffected(ctx, r.exec,
		"UPDATE Tasks SET ProjectId = ? WHERE Id = ? AND AccountId = ?",
		projectID, taskID, r.account.CurrentAccountID())
	if err != nil {
		return false, fmt.Errorf("assign task %d: %w", taskID, err)
	}
	return ok, nil
}

// CompleteSubtasks completes every direct subtask of parentID that is not
// already completed and returns how many changed.
func (r *TaskRepository) CompleteSubtasks(ctx context.Context, parentID int64) (int, error) {
	res, err := r.exec.Execute(ctx,
		"UPDATE Tasks SET IsCompleted = 1 WHERE ParentTaskId = ? AND AccountId = ? AND IsCompleted = 0",
		parentID, r.account.CurrentAccountID())
	if err != nil {
		return 0, fmt.Errorf("complete subtasks of task %d: %w", parentID, err)
	}
	return int(res.RowsAffected()), nil
}
