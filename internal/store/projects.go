package store

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/nextlevel/internal/remote"
	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

var projectColumns = columns{"Id", "AccountId", "Name", "Description", "MissionId", "IsCompleted"}

// ProjectRepository is the pipeline-backed types.ProjectRepository.
type ProjectRepository struct {
	exec    Executor
	account types.AccountContext
}

// NewProjectRepository creates a ProjectRepository scoped by account.
func NewProjectRepository(exec Executor, account types.AccountContext) *ProjectRepository {
	return &ProjectRepository{exec: exec, account: account}
}

var _ types.ProjectRepository = (*ProjectRepository)(nil)

func scanProject(row []remote.Value) (types.Project, error) {
	id, err := idCell(row, 0, "Id")
	if err != nil {
		return types.Project{}, err
	}
	accountID, err := idCell(row, 1, "AccountId")
	if err != nil {
		return types.Project{}, err
	}
	missionID, err := idCell(row, 4, "MissionId")
	if err != nil {
		return types.Project{}, err
	}
	return types.Project{
		ID:          id,
		AccountID:   accountID,
		Name:        row[2].String(),
		Description: row[3].String(),
		MissionID:   missionID,
		IsCompleted: row[5].Bool(),
	}, nil
}

// GetByID returns the project, or nil when it does not exist.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*types.Project, error) {
	p, err := queryOne(ctx, r.exec, len(projectColumns), scanProject,
		"SELECT "+projectColumns.list("")+" FROM Projects WHERE Id = ? AND AccountId = ?",
		id, r.account.CurrentAccountID())
	if err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return p, nil
}

// List pages through all projects of the account ordered by name.
func (r *ProjectRepository) List(ctx context.Context, page types.Page) (types.PagedResult[types.Project], error) {
	q := listQuery{
		from:      "Projects",
		cols:      projectColumns,
		where:     []string{"AccountId = ?"},
		args:      []any{r.account.CurrentAccountID()},
		filterCol: "Name",
		orderBy:   "Name, Id",
	}
	res, err := fetchPage(ctx, r.exec, q, page, scanProject)
	if err != nil {
		return res, fmt.Errorf("list projects: %w", err)
	}
	return res, nil
}

// Count returns the number of projects in the account.
func (r *ProjectRepository) Count(ctx context.Context) (int, error) {
	res, err := r.exec.Execute(ctx,
		"SELECT COUNT(*) FROM Projects WHERE AccountId = ?", r.account.CurrentAccountID())
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	if err := check(res, 1); err != nil || len(res.Rows) == 0 {
		return 0, fmt.Errorf("count projects: %w", ErrColumnMismatch)
	}
	n, err := res.Rows[0][0].ParseInt64()
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return int(n), nil
}

// Create inserts a new, not completed project under missionID. The mission
// is not checked here.
func (r *ProjectRepository) Create(ctx context.Context, name, description string, missionID int64) (types.Project, error) {
	p, err := types.NewProject(0, r.account.CurrentAccountID(), name, description, missionID, false)
	if err != nil {
		return types.Project{}, err
	}
	res, err := r.exec.Execute(ctx,
		"INSERT INTO Projects (AccountId, Name, Description, MissionId, IsCompleted) VALUES (?, ?, ?, ?, 0)",
		p.AccountID, p.Name, p.Description, p.MissionID)
	if err != nil {
		return types.Project{}, fmt.Errorf("create project: %w", err)
	}
	id, err := res.InsertID()
	if err != nil {
		return types.Project{}, fmt.Errorf("create project: %w", err)
	}
	return p.WithID(id), nil
}

// Update rewrites name and description and returns the stored project.
func (r *ProjectRepository) Update(ctx context.Context, id int64, name, description string) (types.Project, error) {
	p, err := types.NewProject(id, r.account.CurrentAccountID(), name, description, 0, false)
	if err != nil {
		return types.Project{}, err
	}
	if _, err := r.exec.Execute(ctx,
		"UPDATE Projects SET Name = ?, Description = ? WHERE Id = ? AND AccountId = ?",
		p.Name, p.Description, id, p.AccountID); err != nil {
		return types.Project{}, fmt.Errorf("update project %d: %w", id, err)
	}
	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return types.Project{}, err
	}
	if stored == nil {
		return types.Project{}, fmt.Errorf("update project %d: %w", id, types.ErrNotFound)
	}
	return *stored, nil
}

// Delete removes the project and ungroups its tasks in one pipeline request.
// The result reflects the project delete only.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	accountID := r.account.CurrentAccountID()
	res, err := r.exec.ExecuteBatch(ctx, []remote.Statement{
		remote.NewStatement("DELETE FROM Projects WHERE Id = ? AND AccountId = ?", id, accountID),
		remote.NewStatement("UPDATE Tasks SET ProjectId = NULL WHERE ProjectId = ? AND AccountId = ?", id, accountID),
	})
	if err != nil {
		return false, fmt.Errorf("delete project %d: %w", id, err)
	}
	return res.RowsAffected() > 0, nil
}

// Complete marks the project completed. Its tasks are not touched.
func (r *ProjectRepository) Complete(ctx context.Context, id int64) (bool, error) {
	return r.setCompleted(ctx, id, true)
}

// Reset marks the project not completed.
func (r *ProjectRepository) Reset(ctx context.Context, id int64) (bool, error) {
	return r.setCompleted(ctx, id, false)
}

func (r *ProjectRepository) setCompleted(ctx context.Context, id int64, done bool) (bool, error) {
	ok, err := execAffected(ctx, r.exec,
		"UPDATE Projects SET IsCompleted = ? WHERE Id = ? AND AccountId = ?",
		boolArg(done), id, r.account.CurrentAccountID())
	if err != nil {
		return false, fmt.Errorf("set project %d completed=%t: %w", id, done, err)
	}
	return ok, nil
}
