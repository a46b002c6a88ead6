package store

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/nextlevel/internal/remote"
	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

var missionColumns = columns{"Id", "AccountId", "Title", "Description", "IsCompleted"}

// MissionRepository is the pipeline-backed types.MissionRepository.
type MissionRepository struct {
	exec    Executor
	account types.AccountContext
}

// NewMissionRepository creates a MissionRepository scoped by account.
func NewMissionRepository(exec Executor, account types.AccountContext) *MissionRepository {
	return &MissionRepository{exec: exec, account: account}
}

var _ types.MissionRepository = (*MissionRepository)(nil)

func scanMission(row []remote.Value) (types.Mission, error) {
	id, err := idCell(row, 0, "Id")
	if err != nil {
		return types.Mission{}, err
	}
	accountID, err := idCell(row, 1, "AccountId")
	if err != nil {
		return types.Mission{}, err
	}
	return types.Mission{
		ID:          id,
		AccountID:   accountID,
		Title:       row[2].String(),
		Description: row[3].String(),
		IsCompleted: row[4].Bool(),
	}, nil
}

// GetByID returns the mission, or nil when it does not exist.
func (r *MissionRepository) GetByID(ctx context.Context, id int64) (*types.Mission, error) {
	m, err := queryOne(ctx, r.exec, len(missionColumns), scanMission,
		"SELECT "+missionColumns.list("")+" FROM Missions WHERE Id = ? AND AccountId = ?",
		id, r.account.CurrentAccountID())
	if err != nil {
		return nil, fmt.Errorf("get mission %d: %w", id, err)
	}
	return m, nil
}

// List pages through missions ordered by title, filtered on title.
func (r *MissionRepository) List(ctx context.Context, page types.Page) (types.PagedResult[types.Mission], error) {
	q := listQuery{
		from:      "Missions",
		cols:      missionColumns,
		where:     []string{"AccountId = ?"},
		args:      []any{r.account.CurrentAccountID()},
		filterCol: "Title",
		orderBy:   "Title, Id",
	}
	res, err := fetchPage(ctx, r.exec, q, page, scanMission)
	if err != nil {
		return res, fmt.Errorf("list missions: %w", err)
	}
	return res, nil
}

// Create inserts a new, not completed mission.
func (r *MissionRepository) Create(ctx context.Context, title, description string) (types.Mission, error) {
	m, err := types.NewMission(0, r.account.CurrentAccountID(), title, description, false)
	if err != nil {
		return types.Mission{}, err
	}
	res, err := r.exec.Execute(ctx,
		"INSERT INTO Missions (AccountId, Title, Description, IsCompleted) VALUES (?, ?, ?, 0)",
		m.AccountID, m.Title, m.Description)
	if err != nil {
		return types.Mission{}, fmt.Errorf("create mission: %w", err)
	}
	id, err := res.InsertID()
	if err != nil {
		return types.Mission{}, fmt.Errorf("create mission: %w", err)
	}
	return m.WithID(id), nil
}

// Update rewrites title and description and returns the stored mission.
func (r *MissionRepository) Update(ctx context.Context, id int64, title, description string) (types.Mission, error) {
	m, err := types.NewMission(id, r.account.CurrentAccountID(), title, description, false)
	if err != nil {
		return types.Mission{}, err
	}
	if _, err := r.exec.Execute(ctx,
		"UPDATE Missions SET Title = ?, Description = ? WHERE Id = ? AND AccountId = ?",
		m.Title, m.Description, id, m.AccountID); err != nil {
		return types.Mission{}, fmt.Errorf("update mission %d: %w", id, err)
	}
	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return types.Mission{}, err
	}
	if stored == nil {
		return types.Mission{}, fmt.Errorf("update mission %d: %w", id, types.ErrNotFound)
	}
	return *stored, nil
}

// Delete removes the mission. It does not check for owned projects.
func (r *MissionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execAffected(ctx, r.exec,
		"DELETE FROM Missions WHERE Id = ? AND AccountId = ?", id, r.account.CurrentAccountID())
	if err != nil {
		return false, fmt.Errorf("delete mission %d: %w", id, err)
	}
	return ok, nil
}

// Complete marks the mission completed.
func (r *MissionRepository) Complete(ctx context.Context, id int64) (bool, error) {
	return r.setCompleted(ctx, id, true)
}

// Reset marks the mission not completed.
func (r *MissionRepository) Reset(ctx context.Context, id int64) (bool, error) {
	return r.setCompleted(ctx, id, false)
}

func (r *MissionRepository) setCompleted(ctx context.Context, id int64, done bool) (bool, error) {
	ok, err := execAffected(ctx, r.exec,
		"UPDATE Missions SET IsCompleted = ? WHERE Id = ? AND AccountId = ?",
		boolArg(done), id, r.account.CurrentAccountID())
	if err != nil {
		return false, fmt.Errorf("set mission %d completed=%t: %w", id, done, err)
	}
	return ok, nil
}

// ListProjects pages through the mission's projects ordered by name.
func (r *MissionRepository) ListProjects(ctx context.Context, missionID int64, page types.Page) (types.PagedResult[types.Project], error) {
	q := listQuery{
		from:      "Projects",
		cols:      projectColumns,
		where:     []string{"MissionId = ?", "AccountId = ?"},
		args:      []any{missionID, r.account.CurrentAccountID()},
		filterCol: "Name",
		orderBy:   "Name, Id",
	}
	res, err := fetchPage(ctx, r.exec, q, page, scanProject)
	if err != nil {
		return res, fmt.Errorf("list projects of mission %d: %w", missionID, err)
	}
	return res, nil
}

var eligibleProjectColumns = columns{
	"p.Id", "p.AccountId", "p.Name", "p.Description", "p.MissionId", "p.IsCompleted", "m.Title",
}

func scanEligibleProject(row []remote.Value) (types.EligibleProject, error) {
	p, err := scanProject(row[:len(projectColumns)])
	if err != nil {
		return types.EligibleProject{}, err
	}
	return types.EligibleProject{Project: p, MissionTitle: row[6].String()}, nil
}

// ListEligibleProjects pages through projects that belong to other missions
// and so could be moved to missionID.
func (r *MissionRepository) ListEligibleProjects(ctx context.Context, missionID int64, page types.Page) (types.PagedResult[types.EligibleProject], error) {
	accountID := r.account.CurrentAccountID()
	q := listQuery{
		from:      "Projects p JOIN Missions m ON m.Id = p.MissionId",
		cols:      eligibleProjectColumns,
		where:     []string{"p.MissionId <> ?", "p.AccountId = ?", "m.AccountId = ?"},
		args:      []any{missionID, accountID, accountID},
		filterCol: "p.Name",
		orderBy:   "p.Name, p.Id",
	}
	res, err := fetchPage(ctx, r.exec, q, page, scanEligibleProject)
	if err != nil {
		return res, fmt.Errorf("list eligible projects for mission %d: %w", missionID, err)
	}
	return res, nil
}

// ListTasks pages through the tasks grouped under any of the mission's
// projects. Subtasks are not listed.
func (r *MissionRepository) ListTasks(ctx context.Context, missionID int64, page types.Page) (types.PagedResult[types.Task], error) {
	accountID := r.account.CurrentAccountID()
	q := listQuery{
		from:      "Tasks t JOIN Projects p ON p.Id = t.ProjectId",
		alias:     "t",
		cols:      taskColumns,
		where:     []string{"p.MissionId = ?", "t.AccountId = ?", "p.AccountId = ?", "t.ParentTaskId IS NULL"},
		args:      []any{missionID, accountID, accountID},
		filterCol: "t.Name",
		orderBy:   "t.Name, t.Id",
	}
	res, err := fetchPage(ctx, r.exec, q, page, scanTask)
	if err != nil {
		return res, fmt.Errorf("list tasks of mission %d: %w", missionID, err)
	}
	return res, nil
}

// MoveProject reassigns the project to missionID.
func (r *MissionRepository) MoveProject(ctx context.Context, missionID, projectID int64) (bool, error) {
	ok, err := execAffected(ctx, r.exec,
		"UPDATE Projects SET MissionId = ? WHERE Id = ? AND AccountId = ?",
		missionID, projectID, r.account.CurrentAccountID())
	if err != nil {
		return false, fmt.Errorf("move project %d to mission %d: %w", projectID, missionID, err)
	}
	return ok, nil
}
