package service

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nextlevel/internal/remote"
	"github.com/mesh-intelligence/nextlevel/internal/sqlite"
	"github.com/mesh-intelligence/nextlevel/internal/store"
	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

type services struct {
	missions *MissionService
	projects *ProjectService
	tasks    *TaskService
}

// setupServices wires the services to a fresh in-memory database served over
// the pipeline protocol.
func setupServices(t *testing.T) services {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(sqlite.MemoryDSN))
	srv := httptest.NewServer(b)
	t.Cleanup(func() {
		srv.Close()
		b.Detach()
	})

	c, err := remote.New(srv.URL, "test-token", remote.WithRetryDelays())
	require.NoError(t, err)
	require.NoError(t, store.InitSchema(context.Background(), c))

	account := types.StaticAccount(types.DefaultAccountID)
	missions := store.NewMissionRepository(c, account)
	projects := store.NewProjectRepository(c, account)
	tasks := store.NewTaskRepository(c, account)
	return services{
		missions: NewMissionService(missions, projects, nil),
		projects: NewProjectService(projects, missions, tasks, nil),
		tasks:    NewTaskService(tasks, projects, nil),
	}
}

// fixture is a mission with one project holding one task.
type fixture struct {
	mission types.MissionDTO
	project types.ProjectDTO
	task    types.TaskDTO
}

func seed(t *testing.T, s services) fixture {
	t.Helper()
	ctx := context.Background()
	m, err := s.missions.Create(ctx, types.CreateMissionRequest{Name: "Home Renovation"})
	require.NoError(t, err)
	p, err := s.projects.Create(ctx, types.CreateProjectRequest{Name: "Kitchen", MissionID: m.ID})
	require.NoError(t, err)
	task, err := s.tasks.Create(ctx, types.CreateTaskRequest{Name: "Paint wall", ProjectID: types.Ref(p.ID)})
	require.NoError(t, err)
	return fixture{mission: m, project: p, task: task}
}

func TestEndToEnd_CompletingTaskCompletesSubtask(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	f := seed(t, s)

	sub, err := s.tasks.CreateSubtask(ctx, types.CreateSubtaskRequest{Name: "Buy paint", ParentTaskID: f.task.ID})
	require.NoError(t, err)

	ok, err := s.tasks.Complete(ctx, f.task.ID)
	require.NoError(t, err)
	require.True(t, ok)

	subs, err := s.tasks.ListSubtasks(ctx, f.task.ID, types.Page{Take: 10})
	require.NoError(t, err)
	require.Len(t, subs.Items, 1)
	assert.Equal(t, sub.ID, subs.Items[0].ID)
	assert.Equal(t, "Buy paint", subs.Items[0].Name)
	assert.True(t, subs.Items[0].IsCompleted)
}

func TestCreateSubtask_Nesting(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	f := seed(t, s)

	sub, err := s.tasks.CreateSubtask(ctx, types.CreateSubtaskRequest{Name: "Buy paint", ParentTaskID: f.task.ID})
	require.NoError(t, err)
	require.NotNil(t, sub.ParentTaskID)
	assert.Equal(t, f.task.ID, *sub.ParentTaskID)
	assert.Nil(t, sub.ProjectID, "subtasks belong to no project")

	tests := []struct {
		name    string
		req     types.CreateSubtaskRequest
		wantErr error
	}{
		{name: "under a subtask", req: types.CreateSubtaskRequest{Name: "Pick color", ParentTaskID: sub.ID}, wantErr: types.ErrNestedSubtask},
		{name: "missing parent", req: types.CreateSubtaskRequest{Name: "Orphan", ParentTaskID: 9999}, wantErr: types.ErrParentNotFound},
		{name: "blank name", req: types.CreateSubtaskRequest{Name: "  ", ParentTaskID: f.task.ID}, wantErr: types.ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.tasks.CreateSubtask(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	subs, err := s.tasks.ListSubtasks(ctx, sub.ID, types.Page{Take: 10})
	require.NoError(t, err)
	assert.Zero(t, subs.TotalCount)
}

func TestComplete_Cascade(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	f := seed(t, s)

	var subIDs []int64
	for _, name := range []string{"Buy paint", "Buy brush", "Tape edges"} {
		sub, err := s.tasks.CreateSubtask(ctx, types.CreateSubtaskRequest{Name: name, ParentTaskID: f.task.ID})
		require.NoError(t, err)
		subIDs = append(subIDs, sub.ID)
	}

	t.Run("completing a subtask leaves siblings and parent open", func(t *testing.T) {
		ok, err := s.tasks.Complete(ctx, subIDs[0])
		require.NoError(t, err)
		require.True(t, ok)

		parent, err := s.tasks.GetByID(ctx, f.task.ID)
		require.NoError(t, err)
		assert.False(t, parent.IsCompleted)
		sibling, err := s.tasks.GetByID(ctx, subIDs[1])
		require.NoError(t, err)
		assert.False(t, sibling.IsCompleted)
	})

	t.Run("completing the parent completes every subtask", func(t *testing.T) {
		ok, err := s.tasks.Complete(ctx, f.task.ID)
		require.NoError(t, err)
		require.True(t, ok)

		parent, err := s.tasks.GetByID(ctx, f.task.ID)
		require.NoError(t, err)
		assert.True(t, parent.IsCompleted)
		subs, err := s.tasks.ListSubtasks(ctx, f.task.ID, types.Page{Take: 10})
		require.NoError(t, err)
		require.Len(t, subs.Items, 3)
		for _, sub := range subs.Items {
			assert.True(t, sub.IsCompleted, sub.Name)
		}
	})

	t.Run("missing task", func(t *testing.T) {
		ok, err := s.tasks.Complete(ctx, 9999)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestReopen_Cascade(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	f := seed(t, s)

	a, err := s.tasks.CreateSubtask(ctx, types.CreateSubtaskRequest{Name: "Buy paint", ParentTaskID: f.task.ID})
	require.NoError(t, err)
	b, err := s.tasks.CreateSubtask(ctx, types.CreateSubtaskRequest{Name: "Buy brush", ParentTaskID: f.task.ID})
	require.NoError(t, err)

	t.Run("parent open stays untouched", func(t *testing.T) {
		_, err := s.tasks.Complete(ctx, a.ID)
		require.NoError(t, err)

		ok, err := s.tasks.Reopen(ctx, a.ID)
		require.NoError(t, err)
		require.True(t, ok)

		parent, err := s.tasks.GetByID(ctx, f.task.ID)
		require.NoError(t, err)
		assert.False(t, parent.IsCompleted)
	})

	t.Run("completed parent is reopened, sibling is not", func(t *testing.T) {
		_, err := s.tasks.Complete(ctx, f.task.ID)
		require.NoError(t, err)

		ok, err := s.tasks.Reset(ctx, a.ID)
		require.NoError(t, err)
		require.True(t, ok)

		parent, err := s.tasks.GetByID(ctx, f.task.ID)
		require.NoError(t, err)
		assert.False(t, parent.IsCompleted)
		reopened, err := s.tasks.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.False(t, reopened.IsCompleted)
		sibling, err := s.tasks.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, sibling.IsCompleted)
	})

	t.Run("reopening a parent leaves subtasks alone", func(t *testing.T) {
		_, err := s.tasks.Complete(ctx, f.task.ID)
		require.NoError(t, err)
		ok, err := s.tasks.Reopen(ctx, f.task.ID)
		require.NoError(t, err)
		require.True(t, ok)

		sub, err := s.tasks.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, sub.IsCompleted)
	})
}

func TestMissionDelete_Guard(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	f := seed(t, s)

	ok, err := s.missions.Delete(ctx, f.mission.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	still, err := s.missions.GetByID(ctx, f.mission.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)

	ok, err = s.projects.Delete(ctx, f.project.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.missions.Delete(ctx, f.mission.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ungrouped, err := s.tasks.ListUngrouped(ctx, types.Page{Take: 10})
	require.NoError(t, err)
	require.Len(t, ungrouped.Items, 1)
	assert.Equal(t, f.task.ID, ungrouped.Items[0].ID)
}

func TestCreate_ValidatesReferences(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	_, err := s.projects.Create(ctx, types.CreateProjectRequest{Name: "Kitchen", MissionID: 42})
	assert.ErrorIs(t, err, types.ErrMissionNotFound)

	_, err = s.tasks.Create(ctx, types.CreateTaskRequest{Name: "Paint", ProjectID: types.Ref(42)})
	assert.ErrorIs(t, err, types.ErrProjectNotFound)

	_, err = s.missions.Create(ctx, types.CreateMissionRequest{Name: " "})
	assert.ErrorIs(t, err, types.ErrInvalidTitle)

	loose, err := s.tasks.Create(ctx, types.CreateTaskRequest{Name: "Call plumber"})
	require.NoError(t, err)
	assert.Nil(t, loose.ProjectID)
}

func TestAssignAndMove(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	f := seed(t, s)

	bath, err := s.projects.Create(ctx, types.CreateProjectRequest{Name: "Bath", MissionID: f.mission.ID})
	require.NoError(t, err)

	ok, err := s.tasks.Assign(ctx, f.task.ID, bath.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err := s.tasks.GetByID(ctx, f.task.ID)
	require.NoError(t, err)
	assert.Equal(t, bath.ID, *got.ProjectID)

	_, err = s.tasks.Assign(ctx, f.task.ID, 9999)
	assert.ErrorIs(t, err, types.ErrProjectNotFound)

	ok, err = s.tasks.Move(ctx, f.task.ID, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = s.tasks.GetByID(ctx, f.task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID)

	ok, err = s.tasks.Move(ctx, f.task.ID, types.Ref(f.project.ID))
	require.NoError(t, err)
	assert.True(t, ok)

	tasks, err := s.projects.ListTasks(ctx, f.project.ID, types.Page{Take: 10}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tasks.TotalCount)
}

func TestMissionService_MoveProject(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	f := seed(t, s)

	work, err := s.missions.Create(ctx, types.CreateMissionRequest{Name: "Work"})
	require.NoError(t, err)

	eligible, err := s.missions.ListEligibleProjects(ctx, work.ID, types.Page{Take: 10})
	require.NoError(t, err)
	require.Len(t, eligible.Items, 1)
	assert.Equal(t, "Home Renovation", eligible.Items[0].MissionTitle)

	ok, err := s.missions.MoveProject(ctx, work.ID, f.project.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	projects, err := s.missions.ListProjects(ctx, work.ID, types.Page{Take: 10})
	require.NoError(t, err)
	require.Len(t, projects.Items, 1)
	assert.Equal(t, f.project.ID, projects.Items[0].ID)

	tasks, err := s.missions.ListTasks(ctx, work.ID, types.Page{Take: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, tasks.TotalCount)

	_, err = s.missions.MoveProject(ctx, 9999, f.project.ID)
	assert.ErrorIs(t, err, types.ErrMissionNotFound)
	_, err = s.missions.MoveProject(ctx, work.ID, 9999)
	assert.ErrorIs(t, err, types.ErrProjectNotFound)
}

func TestPagination_Consistency(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	f := seed(t, s)

	for i := 0; i < 11; i++ {
		_, err := s.projects.Create(ctx, types.CreateProjectRequest{Name: "Room", MissionID: f.mission.ID})
		require.NoError(t, err)
	}

	seen := map[int64]bool{}
	total := -1
	for skip := 0; ; skip += 5 {
		page, err := s.missions.ListProjects(ctx, f.mission.ID, types.Page{Skip: skip, Take: 5})
		require.NoError(t, err)
		if total < 0 {
			total = page.TotalCount
		}
		assert.Equal(t, total, page.TotalCount, "total is stable across pages")
		assert.LessOrEqual(t, len(page.Items), 5)
		if len(page.Items) == 0 {
			break
		}
		for _, p := range page.Items {
			assert.False(t, seen[p.ID], "project %d listed twice", p.ID)
			seen[p.ID] = true
		}
	}
	assert.Equal(t, 12, total)
	assert.Len(t, seen, total)

	filtered, err := s.missions.ListProjects(ctx, f.mission.ID, types.Page{Take: 100, Filter: "room"})
	require.NoError(t, err)
	assert.Equal(t, 11, filtered.TotalCount)
	assert.Len(t, filtered.Items, 11)
}
